package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles the prometheus collectors exposed at /metrics.
type Metrics struct {
	// RequestDuration observes every HTTP request with method, route and
	// status labels.
	RequestDuration *prometheus.HistogramVec
	// LoginAttempts counts login outcomes (success / failure).
	LoginAttempts *prometheus.CounterVec
	// StatusTransitions counts admin lifecycle transitions by entity type
	// and target status.
	StatusTransitions *prometheus.CounterVec
}

// NewMetrics builds the collector set and registers it with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name: "request_duration_seconds",
			Help: "Duration of HTTP requests in seconds.",
		}, []string{"method", "route", "status"}),
		LoginAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "login_attempts_total",
			Help: "Total number of login attempts.",
		}, []string{"status"}),
		StatusTransitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "status_transitions_total",
			Help: "Admin lifecycle transitions by entity type and new status.",
		}, []string{"entity", "status"}),
	}
	reg.MustRegister(m.RequestDuration)
	reg.MustRegister(m.LoginAttempts)
	reg.MustRegister(m.StatusTransitions)
	return m
}
