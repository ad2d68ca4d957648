package http

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nexus-commerce/storefront/internal/cart"
	"github.com/nexus-commerce/storefront/internal/catalog"
	"github.com/nexus-commerce/storefront/internal/pricing"
)

type ProductGetter interface {
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
}

type CartHandler struct {
	carts    *cart.Manager
	products ProductGetter
	pricing  pricing.Config
}

func NewCartHandler(carts *cart.Manager, products ProductGetter, cfg pricing.Config) *CartHandler {
	return &CartHandler{
		carts:    carts,
		products: products,
		pricing:  cfg,
	}
}

type AddItemRequestDTO struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

type UpdateQuantityRequestDTO struct {
	Quantity int `json:"quantity"`
}

// CartResponse is the full cart view: line items plus totals recomputed on
// every read.
type CartResponse struct {
	UserID string          `json:"user_id"`
	Items  []cart.LineItem `json:"items"`
	Totals pricing.Totals  `json:"totals"`
}

func (h *CartHandler) cartResponse(store *cart.Store) CartResponse {
	items := store.Items()
	return CartResponse{
		UserID: store.UserID(),
		Items:  items,
		Totals: pricing.ComputeTotals(items, h.pricing).Rounded(),
	}
}

// logPersistenceFailure downgrades failed write-throughs to a log line: the
// in-memory cart is still correct, so the request must not fail.
func logPersistenceFailure(r *http.Request, err error) bool {
	var pe *cart.PersistenceError
	if errors.As(err, &pe) {
		log.Printf("request %s: %v", getRequestID(r.Context()), err)
		return true
	}
	return false
}

func (h *CartHandler) GetCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	store, err := h.carts.Store(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	var req AddItemRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.ProductID <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id must be positive")
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	if req.Quantity < 0 || req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be between 1 and 99")
		return
	}

	product, err := h.products.GetProduct(r.Context(), req.ProductID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	store, err := h.carts.Store(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	err = store.AddItem(r.Context(),
		strconv.FormatInt(product.ID, 10),
		product.Name,
		product.Price,
		req.Quantity,
		product.ImageURL,
	)
	if err != nil && !logPersistenceFailure(r, err) {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, h.cartResponse(store))
}

func (h *CartHandler) UpdateQuantity(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	var req UpdateQuantityRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	if req.Quantity > 99 {
		respondError(w, http.StatusBadRequest, "invalid_quantity", "quantity must be at most 99")
		return
	}

	store, err := h.carts.Store(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	// Zero or negative quantity removes the item.
	err = store.SetQuantity(r.Context(), productID, req.Quantity)
	if err != nil && !logPersistenceFailure(r, err) {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	productID := chi.URLParam(r, "product_id")
	if productID == "" {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "product_id is required")
		return
	}

	store, err := h.carts.Store(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	err = store.RemoveItem(r.Context(), productID)
	if err != nil && !logPersistenceFailure(r, err) {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(store))
}

func (h *CartHandler) ClearCart(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	store, err := h.carts.Store(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	err = store.Clear(r.Context())
	if err != nil && !logPersistenceFailure(r, err) {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, h.cartResponse(store))
}
