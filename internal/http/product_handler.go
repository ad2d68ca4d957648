package http

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/nexus-commerce/storefront/internal/catalog"
)

type ProductLister interface {
	ListProducts(ctx context.Context, filter catalog.ListFilter) (*catalog.ListPage, error)
	GetProduct(ctx context.Context, id int64) (*catalog.Product, error)
	CreateProduct(ctx context.Context, p *catalog.Product) (int64, error)
	UpdateProduct(ctx context.Context, p *catalog.Product) error
	DeleteProduct(ctx context.Context, id int64) error
}

type ProductHandler struct {
	products ProductLister
}

func NewProductHandler(products ProductLister) *ProductHandler {
	return &ProductHandler{products: products}
}

func (h *ProductHandler) ListProducts(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := catalog.ListFilter{
		Category: q.Get("category"),
		Featured: q.Get("featured") == "true",
	}
	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if size, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.PageSize = size
	}

	pageResp, err := h.products.ListProducts(r.Context(), filter)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, pageResp)
}

func (h *ProductHandler) GetProduct(w http.ResponseWriter, r *http.Request) {
	idStr := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(idStr, 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	product, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

type ProductRequestDTO struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	ImageURL    string  `json:"image_url"`
	Category    string  `json:"category"`
	Featured    bool    `json:"featured"`
	Stock       int     `json:"stock"`
}

func (d *ProductRequestDTO) validate() (code, message string) {
	if d.Name == "" {
		return "invalid_name", "name is required"
	}
	if d.Price < 0 {
		return "invalid_price", "price must not be negative"
	}
	if d.Stock < 0 {
		return "invalid_stock", "stock must not be negative"
	}
	return "", ""
}

func (d *ProductRequestDTO) toProduct() *catalog.Product {
	return &catalog.Product{
		Name:        d.Name,
		Description: d.Description,
		Price:       d.Price,
		ImageURL:    d.ImageURL,
		Category:    d.Category,
		Featured:    d.Featured,
		Stock:       d.Stock,
	}
}

func (h *ProductHandler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if code, message := req.validate(); code != "" {
		respondError(w, http.StatusBadRequest, code, message)
		return
	}

	id, err := h.products.CreateProduct(r.Context(), req.toProduct())
	if err != nil {
		handleDomainError(w, err)
		return
	}

	created, err := h.products.GetProduct(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, created)
}

func (h *ProductHandler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	var req ProductRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}
	if code, message := req.validate(); code != "" {
		respondError(w, http.StatusBadRequest, code, message)
		return
	}

	product := req.toProduct()
	product.ID = id
	if err := h.products.UpdateProduct(r.Context(), product); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, product)
}

func (h *ProductHandler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(w, http.StatusBadRequest, "invalid_product_id", "id must be a positive integer")
		return
	}

	if err := h.products.DeleteProduct(r.Context(), id); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
