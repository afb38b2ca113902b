package handlers

import (
	"context"
	"net/http"
	"time"
)

// Health handles GET /health. It answers 503 when any dependency check fails.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := make(map[string]string, len(h.HealthChecks))
	status := http.StatusOK
	for name, ping := range h.HealthChecks {
		if err := ping(ctx); err != nil {
			checks[name] = "down"
			status = http.StatusServiceUnavailable
			continue
		}
		checks[name] = "up"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "degraded"
	}
	writeJSON(w, status, envelope{
		"success": status == http.StatusOK,
		"status":  overall,
		"checks":  checks,
	})
}
