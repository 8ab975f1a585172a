package handler

import (
	"net/http"
	"time"
)

type customerResponse struct {
	ID           string    `json:"id"`
	Phone        string    `json:"phone"`
	LoyaltyCoins int       `json:"loyalty_coins"`
	LastSeenAt   time.Time `json:"last_seen_at"`
}

// GetCurrentCustomer returns the profile and coin balance bound to the
// caller's key.
func (h *Handler) GetCurrentCustomer(w http.ResponseWriter, r *http.Request) {
	actor := ActorFromContext(r.Context())
	if actor.CustomerID == "" {
		writeError(w, http.StatusForbidden, "customer identity required")
		return
	}

	c, err := h.customers.Get(r.Context(), actor.CustomerID)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customerResponse{
		ID:           c.ID,
		Phone:        c.Phone,
		LoyaltyCoins: c.LoyaltyCoins,
		LastSeenAt:   c.LastSeenAt,
	})
}
