package handlers

import (
	"net/http"

	"github.com/nainix/marketplace-backend/internal/middleware"
	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/services"
	"github.com/nainix/marketplace-backend/internal/session"
)

// Register handles POST /api/auth/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req services.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Accounts.Register(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Unable to register right now.")
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	writeOK(w, envelope{"user": user})
}

// Login handles POST /api/auth/login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req services.LoginInput
	if !decodeJSON(w, r, &req) {
		return
	}

	user, err := h.Accounts.Login(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Unable to login right now.")
		return
	}
	if !h.startSession(w, r, user) {
		return
	}
	writeOK(w, envelope{"user": user})
}

func (h *Handler) startSession(w http.ResponseWriter, r *http.Request, user *models.User) bool {
	token, err := h.Codec.Issue(h.Codec.NewPayload(user.ID, string(user.Role), user.Email))
	if err != nil {
		writeError(w, r, err, "Unable to start session right now.")
		return false
	}
	session.SetCookie(w, token, h.SecureCookies)
	return true
}

// Logout handles POST /api/auth/logout. It always succeeds.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	session.ClearCookie(w, h.SecureCookies)
	writeOK(w, envelope{})
}

// Me handles GET /api/auth/me.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	user, err := h.Accounts.Me(r.Context(), p.UserID)
	if err != nil {
		writeError(w, r, err, "Unable to load session.")
		return
	}
	writeOK(w, envelope{"user": user})
}

// CheckAvailability handles GET /api/auth/availability?type=&value=.
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	res, err := h.Availability.Check(r.Context(), q.Get("type"), q.Get("value"))
	if err != nil {
		writeError(w, r, err, "Unable to check availability right now.")
		return
	}

	body := envelope{"available": res.Available}
	if res.Reason != "" {
		body["reason"] = res.Reason
		body["message"] = res.Message
	}
	writeOK(w, body)
}
