package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	AuthRegistrationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_registrations_total",
			Help: "Total number of registration attempts.",
		},
		[]string{"result"},
	)

	AuthLoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_logins_total",
			Help: "Total number of login attempts.",
		},
		[]string{"result"},
	)

	JobsCreatedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_jobs_created_total",
			Help: "Total number of jobs posted.",
		},
	)

	ProposalsSubmittedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_proposals_submitted_total",
			Help: "Total number of proposals submitted.",
		},
	)

	MockChargesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "billing_mock_charges_total",
			Help: "Total number of mock billing records written, by feature.",
		},
		[]string{"feature"},
	)

	FeaturedExpiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "marketplace_featured_expired_total",
			Help: "Total number of featured boosts demoted by the sweeper.",
		},
	)

	RealtimeConnections = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "realtime_connections",
			Help: "Open job feed WebSocket connections.",
		},
	)
)

// MustRegister registers every collector with the default registry under a
// constant service label. Call once at startup; unregistered collectors
// still count, they are just not exported.
func MustRegister(serviceName string) {
	reg := prometheus.WrapRegistererWith(prometheus.Labels{"service": serviceName}, prometheus.DefaultRegisterer)
	reg.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDurationSeconds,
		AuthRegistrationsTotal,
		AuthLoginsTotal,
		JobsCreatedTotal,
		ProposalsSubmittedTotal,
		MockChargesTotal,
		FeaturedExpiredTotal,
		RealtimeConnections,
	)
}
