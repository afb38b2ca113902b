package routes

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/nainix/marketplace-backend/internal/handlers"
	"github.com/nainix/marketplace-backend/internal/logger"
	"github.com/nainix/marketplace-backend/internal/middleware"
)

// Options selects the cross-cutting middleware around the API.
type Options struct {
	Logger         *slog.Logger
	AllowedOrigins []string
	// Security is prepended in production (headers, host check, per-IP limits).
	Security []func(http.Handler) http.Handler
	// RateLimit is the shared Redis limiter, when Redis is configured.
	RateLimit func(http.Handler) http.Handler
	// Metrics serves /metrics; promhttp.Handler() when nil.
	Metrics http.Handler
}

// NewRouter builds the chi router for the whole service.
func NewRouter(h *handlers.Handler, opts Options) *chi.Mux {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.Metrics == nil {
		opts.Metrics = promhttp.Handler()
	}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(logger.StructuredLogger(opts.Logger))
	r.Use(middleware.Recover)
	r.Use(middleware.CORS(opts.AllowedOrigins))

	// Health and metrics are not rate limited.
	r.Get("/health", h.Health)
	r.Handle("/metrics", opts.Metrics)
	r.Get("/ws/jobs", h.JobsFeed)

	r.Group(func(r chi.Router) {
		for _, mw := range opts.Security {
			r.Use(mw)
		}
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}
		r.Use(middleware.WriteRateLimit(h.Codec))
		SetupRoutes(r, h)
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"success":false,"message":"Not found"}`))
	})
	return r
}

// SetupRoutes registers the /api routes.
func SetupRoutes(r chi.Router, h *handlers.Handler) {
	requireSession := middleware.RequireSession(h.Codec)

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.Post("/register", h.Register)
			r.Post("/login", h.Login)
			r.Post("/logout", h.Logout)
			r.Get("/availability", h.CheckAvailability)
			r.With(requireSession).Get("/me", h.Me)
		})

		r.Get("/jobs", h.ListJobs)
		r.With(requireSession).Post("/jobs", h.CreateJob)
		r.With(requireSession).Post("/jobs/feature", h.FeatureJob)

		r.Group(func(r chi.Router) {
			r.Use(requireSession)
			r.Get("/proposals", h.ListProposals)
			r.Post("/proposals", h.SubmitProposal)

			r.Post("/monetization/upgrade", h.Upgrade)
			r.Get("/monetization/transactions", h.Transactions)

			r.Put("/users/me", h.UpdateMe)
			r.Post("/users/me/avatar", h.UploadAvatar)
		})

		r.Get("/users/{username}", h.Profile)
	})
}
