package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nainix/marketplace-backend/internal/services"
	"github.com/nainix/marketplace-backend/internal/session"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// Pinger reports whether a backing store is reachable.
type Pinger func(ctx context.Context) error

// Handler serves the HTTP API on top of the services.
type Handler struct {
	Codec         *session.Codec
	Accounts      *services.Accounts
	Availability  *services.AvailabilityChecker
	Jobs          *services.Jobs
	Proposals     *services.Proposals
	Monetization  *services.Monetization
	Profiles      *services.Profiles
	Feed          *services.JobFeed
	SecureCookies bool
	// HealthChecks are probed by GET /health, keyed by dependency name.
	HealthChecks map[string]Pinger
}

type envelope map[string]any

type errorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func writeOK(w http.ResponseWriter, body envelope) {
	body["success"] = true
	writeJSON(w, http.StatusOK, body)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Success: false, Message: message})
}

// writeError reports a services.Error with its own status and message.
// Anything else is logged and answered with a generic 500 carrying fallback.
func writeError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	if e, ok := services.AsError(err); ok {
		writeMessage(w, e.Kind.HTTPStatus(), e.Message)
		return
	}
	slog.ErrorContext(r.Context(), fallback,
		"error", err,
		"req_id", middleware.GetReqID(r.Context()),
		"path", r.URL.Path,
	)
	writeMessage(w, http.StatusInternalServerError, fallback)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			writeMessage(w, http.StatusRequestEntityTooLarge, "Request body too large.")
		case errors.Is(err, io.EOF):
			writeMessage(w, http.StatusBadRequest, "Request body is required.")
		default:
			writeMessage(w, http.StatusBadRequest, "Invalid request body.")
		}
		return false
	}
	return true
}
