// Package http exposes the storefront REST API.
package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/nexus-commerce/storefront/internal/cart"
	"github.com/nexus-commerce/storefront/internal/catalog"
	"github.com/nexus-commerce/storefront/internal/checkout"
	"github.com/nexus-commerce/storefront/internal/orders"
	"github.com/nexus-commerce/storefront/internal/payments"
	"github.com/nexus-commerce/storefront/internal/wishlist"
	"github.com/sony/gobreaker/v2"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, ErrorResponse{
		Error: message,
		Code:  code,
	})
}

// handleDomainError maps known domain errors onto HTTP statuses.
func handleDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, cart.ErrInvalidArgument):
		respondError(w, http.StatusBadRequest, "invalid_argument", err.Error())
	case errors.Is(err, cart.ErrItemNotFound),
		errors.Is(err, catalog.ErrProductNotFound),
		errors.Is(err, orders.ErrOrderNotFound),
		errors.Is(err, wishlist.ErrWishlistNotFound),
		errors.Is(err, payments.ErrIntentNotFound):
		respondError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, checkout.ErrEmptyCart):
		respondError(w, http.StatusBadRequest, "empty_cart", err.Error())
	case errors.Is(err, orders.ErrInvalidStatus):
		respondError(w, http.StatusBadRequest, "invalid_status", err.Error())
	case errors.Is(err, payments.ErrInvalidAmount):
		respondError(w, http.StatusBadRequest, "invalid_amount", err.Error())
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		respondError(w, http.StatusServiceUnavailable, "service_unavailable", "payment provider unavailable")
	default:
		log.Printf("internal error: %v", err)
		respondError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
