package http

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/nexus-commerce/storefront/internal/orders"
)

type PlaceOrderer interface {
	PlaceOrder(ctx context.Context, userID string) (*orders.Order, error)
}

type OrderReader interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*orders.Order, error)
	ListOrdersByUserID(ctx context.Context, userID string) ([]*orders.Order, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status orders.OrderStatus) error
}

type OrdersHandler struct {
	checkout PlaceOrderer
	orders   OrderReader
}

func NewOrdersHandler(checkout PlaceOrderer, orderReader OrderReader) *OrdersHandler {
	return &OrdersHandler{checkout: checkout, orders: orderReader}
}

type UpdateStatusRequestDTO struct {
	Status string `json:"status"`
}

func (h *OrdersHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, order)
}

func (h *OrdersHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	userOrders, err := h.orders.ListOrdersByUserID(r.Context(), userID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	if userOrders == nil {
		userOrders = []*orders.Order{}
	}
	respondJSON(w, http.StatusOK, userOrders)
}

func (h *OrdersHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a valid UUID")
		return
	}

	order, err := h.orders.GetOrderByID(r.Context(), id)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	// Users may only read their own orders.
	if order.UserID != userID {
		respondError(w, http.StatusNotFound, "not_found", "order not found")
		return
	}

	respondJSON(w, http.StatusOK, order)
}

func (h *OrdersHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_order_id", "id must be a valid UUID")
		return
	}

	var req UpdateStatusRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	status := orders.OrderStatus(req.Status)
	if !status.Valid() {
		respondError(w, http.StatusBadRequest, "invalid_status", "status must be one of pending, processing, completed, cancelled")
		return
	}

	if err := h.orders.UpdateOrderStatus(r.Context(), id, status); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"id": id.String(), "status": req.Status})
}
