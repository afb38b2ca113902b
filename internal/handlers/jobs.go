package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/nainix/marketplace-backend/internal/middleware"
	"github.com/nainix/marketplace-backend/internal/models"
	"github.com/nainix/marketplace-backend/internal/services"
)

// ListJobs handles GET /api/jobs. Supported filters: category, urgentOnly,
// budgetMin, budgetMax and skills (comma separated).
func (h *Handler) ListJobs(w http.ResponseWriter, r *http.Request) {
	filter, msg := parseJobFilter(r)
	if msg != "" {
		writeMessage(w, http.StatusBadRequest, msg)
		return
	}

	jobs, err := h.Jobs.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err, "Unable to load jobs right now.")
		return
	}
	writeOK(w, envelope{"jobs": jobs})
}

func parseJobFilter(r *http.Request) (models.JobFilter, string) {
	q := r.URL.Query()
	f := models.JobFilter{
		Category: strings.TrimSpace(q.Get("category")),
	}

	if v := q.Get("urgentOnly"); v != "" {
		urgent, err := strconv.ParseBool(v)
		if err != nil {
			return f, "urgentOnly must be true or false."
		}
		f.UrgentOnly = urgent
	}

	for _, b := range []struct {
		key string
		dst **float64
	}{{"budgetMin", &f.BudgetMin}, {"budgetMax", &f.BudgetMax}} {
		raw := strings.TrimSpace(q.Get(b.key))
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil || v < 0 {
			return f, b.key + " must be a non-negative number."
		}
		*b.dst = &v
	}

	for _, s := range strings.Split(q.Get("skills"), ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.Skills = append(f.Skills, s)
		}
	}
	return f, ""
}

// CreateJob handles POST /api/jobs.
func (h *Handler) CreateJob(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	var req services.CreateJobInput
	if !decodeJSON(w, r, &req) {
		return
	}

	job, err := h.Jobs.Create(r.Context(), p.UserID, req)
	if err != nil {
		writeError(w, r, err, "Unable to create job right now.")
		return
	}
	writeOK(w, envelope{"job": job})
}

// FeatureJob handles POST /api/jobs/feature.
func (h *Handler) FeatureJob(w http.ResponseWriter, r *http.Request) {
	p, _ := middleware.SessionFromContext(r.Context())

	var req services.FeatureJobInput
	if !decodeJSON(w, r, &req) {
		return
	}

	res, err := h.Jobs.Feature(r.Context(), p.UserID, req)
	if err != nil {
		writeError(w, r, err, "Unable to feature job right now.")
		return
	}
	writeOK(w, envelope{
		"jobId":         res.JobID,
		"featuredDays":  res.FeaturedDays,
		"featuredUntil": res.FeaturedUntil,
		"amountUsd":     res.AmountUSD,
		"status":        res.Status,
	})
}
