package handlers

import (
	"net/http"

	"github.com/nainix/marketplace-backend/internal/middleware"
	"github.com/nainix/marketplace-backend/internal/services"
)

// Upgrade handles POST /api/monetization/upgrade.
func (h *Handler) Upgrade(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	var req services.UpgradeInput
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Monetization.Upgrade(r.Context(), p.UserID, req)
	if err != nil {
		writeError(w, r, err, "Unable to process upgrade right now.")
		return
	}
	writeOK(w, envelope{
		"monetization":   res.Monetization,
		"verifiedBadges": res.VerifiedBadges,
		"transaction":    res.Transaction,
	})
}

// Transactions handles GET /api/monetization/transactions.
func (h *Handler) Transactions(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	txs, err := h.Monetization.Transactions(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err, "Unable to load transactions right now.")
		return
	}
	writeOK(w, envelope{"transactions": txs})
}
