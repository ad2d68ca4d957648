package http

import (
	"context"
	"net/http"

	"github.com/nexus-commerce/storefront/internal/admin"
	"github.com/nexus-commerce/storefront/internal/orders"
)

type AdminService interface {
	Stats(ctx context.Context) (*admin.Stats, error)
	RecentOrders(ctx context.Context) ([]*orders.Order, error)
	SalesData(ctx context.Context) (*admin.SalesData, error)
}

type AdminHandler struct {
	admin AdminService
}

func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{admin: svc}
}

func (h *AdminHandler) Stats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.admin.Stats(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}

func (h *AdminHandler) RecentOrders(w http.ResponseWriter, r *http.Request) {
	recent, err := h.admin.RecentOrders(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	if recent == nil {
		recent = []*orders.Order{}
	}
	respondJSON(w, http.StatusOK, recent)
}

func (h *AdminHandler) SalesData(w http.ResponseWriter, r *http.Request) {
	data, err := h.admin.SalesData(r.Context())
	if err != nil {
		handleDomainError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, data)
}
