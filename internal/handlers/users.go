package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/nainix/marketplace-backend/internal/middleware"
	"github.com/nainix/marketplace-backend/internal/models"
)

// Profile handles GET /api/users/{username}.
func (h *Handler) Profile(w http.ResponseWriter, r *http.Request) {
	user, err := h.Profiles.Public(r.Context(), chi.URLParam(r, "username"))
	if err != nil {
		writeError(w, r, err, "Unable to load profile right now.")
		return
	}
	writeOK(w, envelope{"user": user})
}

// UpdateMe handles PUT /api/users/me.
func (h *Handler) UpdateMe(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	var req models.ProfileUpdate
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Profiles.Update(r.Context(), p.UserID, req)
	if err != nil {
		writeError(w, r, err, "Unable to update profile right now.")
		return
	}
	writeOK(w, envelope{"user": user})
}
