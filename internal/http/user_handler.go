package http

import (
	"context"
	"net/http"
)

type CartDropper interface {
	Drop(ctx context.Context, userID string) error
}

type UserHandler struct {
	carts CartDropper
}

func NewUserHandler(carts CartDropper) *UserHandler {
	return &UserHandler{carts: carts}
}

// Logout discards the user's cart, in memory and persisted.
func (h *UserHandler) Logout(w http.ResponseWriter, r *http.Request) {
	userID := getUserIDFromContext(r.Context())
	if userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
		return
	}

	if err := h.carts.Drop(r.Context(), userID); err != nil {
		handleDomainError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"status": "logged out"})
}
