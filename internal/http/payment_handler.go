package http

import (
	"encoding/json"
	"io"
	"log"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/nexus-commerce/storefront/internal/payments"
)

type PaymentHandler struct {
	payments *payments.Service
}

func NewPaymentHandler(svc *payments.Service) *PaymentHandler {
	return &PaymentHandler{payments: svc}
}

type CreateIntentRequestDTO struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	var req CreateIntentRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "invalid JSON body")
		return
	}

	intent, err := h.payments.CreateIntent(r.Context(), req.Amount, req.Currency)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, intent)
}

func (h *PaymentHandler) VerifyIntent(w http.ResponseWriter, r *http.Request) {
	paymentID := chi.URLParam(r, "payment_id")
	if paymentID == "" {
		respondError(w, http.StatusBadRequest, "invalid_payment_id", "payment_id is required")
		return
	}

	intent, err := h.payments.VerifyIntent(r.Context(), paymentID)
	if err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, intent)
}

// Webhook acknowledges provider callbacks. The mock provider settles intents
// synchronously, so the body is only logged.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", "failed to read body")
		return
	}

	log.Printf("payment webhook received (%d bytes)", len(body))
	respondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
