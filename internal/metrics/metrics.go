package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts registration attempts by tier and outcome.
	RegistrationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sponsor_registrations_total",
			Help: "Registration attempts by package tier and outcome",
		},
		[]string{"tier", "outcome"}, // outcome: created, rejected, error
	)

	// NotificationFailures counts confirmation emails that could not be sent.
	NotificationFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "sponsor_notification_failures_total",
			Help: "Confirmation emails that failed to send",
		},
	)

	// RequestDuration tracks HTTP request latency by method, route, and status.
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
		},
		[]string{"method", "status"},
	)
)

// RecordRegistration records one registration attempt outcome.
func RecordRegistration(tier, outcome string) {
	RegistrationsTotal.WithLabelValues(tier, outcome).Inc()
}
