package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nexus-commerce/storefront/internal/wishlist"
)

type WishlistHandler struct {
	wishlists wishlist.Repository
	products  ProductGetter
}

func NewWishlistHandler(wishlists wishlist.Repository, products ProductGetter) *WishlistHandler {
	return &WishlistHandler{wishlists: wishlists, products: products}
}

type AddWishlistItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
}

func (h *WishlistHandler) GetWishlist(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	wl, err := h.wishlists.GetWishlist(r.Context(), userID)
	if errors.Is(err, wishlist.ErrWishlistNotFound) {
		// A user with no saved items gets an empty wishlist, not a 404.
		respondJSON(w, http.StatusOK, wishlist.Wishlist{UserID: userID, Items: []wishlist.Item{}})
		return
	}
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, wl)
}

func (h *WishlistHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddWishlistItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	item := wishlist.Item{
		ProductID: product.ID,
		Name:      product.Name,
		Price:     product.Price,
		ImageURL:  product.ImageURL,
	}
	if err := h.wishlists.AddItem(r.Context(), userID, item); err != nil {
		handleDomainError(w, err)
		return
	}

	wl, err := h.wishlists.GetWishlist(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, wl)
}

func (h *WishlistHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productIDStr := chi.URLParam(r, "product_id")
	productID, err := strconv.ParseInt(productIDStr, 10, 64)
	if err != nil || productID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be a positive integer")
		return
	}

	if err := h.wishlists.RemoveItem(r.Context(), userID, productID); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "removed"})
}
