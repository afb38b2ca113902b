package handlers

import (
	"net/http"

	"github.com/nainix/marketplace-backend/internal/middleware"
	"github.com/nainix/marketplace-backend/internal/services"
)

// ListProposals handles GET /api/proposals.
func (h *Handler) ListProposals(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	list, err := h.Proposals.List(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err, "Unable to load proposals right now.")
		return
	}
	body := envelope{"proposals": list.Proposals}
	if list.ByJob != nil {
		body["byJob"] = list.ByJob
	}
	writeOK(w, body)
}

// SubmitProposal handles POST /api/proposals.
func (h *Handler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	var req services.SubmitProposalInput
	if !decodeJSON(w, r, &req) {
		return
	}

	proposal, err := h.Proposals.Submit(r.Context(), p.UserID, req)
	if err != nil {
		writeError(w, r, err, "Unable to submit proposal right now.")
		return
	}
	writeOK(w, envelope{"proposal": proposal})
}
