package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "hotel_booking"

// Booking submission outcomes.
const (
	OutcomePersisted          = "persisted"
	OutcomeDuplicate          = "duplicate"
	OutcomeValidationFailed   = "validation_failed"
	OutcomeVerificationFailed = "verification_failed"
	OutcomeUnavailable        = "unavailable"
	OutcomeError              = "error"
)

// Verification results.
const (
	VerificationPassed       = "passed"
	VerificationLowScore     = "low_score"
	VerificationRejected     = "rejected"
	VerificationMissingToken = "missing_token"
	VerificationError        = "error"
)

// Metrics holds the Prometheus collectors of the booking API.
type Metrics struct {
	// HTTPRequestsTotal counts requests by method, route and status code.
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTPRequestDuration observes request latency by method and route.
	HTTPRequestDuration *prometheus.HistogramVec

	// BookingSubmissions counts POST /api/book outcomes.
	BookingSubmissions *prometheus.CounterVec

	// VerificationResults counts bot-verification decisions.
	VerificationResults *prometheus.CounterVec

	// SessionEvents counts visitor session inserts by event type and status.
	SessionEvents *prometheus.CounterVec

	// TelemetryReports counts telemetry items by kind and dispatch status.
	TelemetryReports *prometheus.CounterVec

	// KafkaPublished counts producer writes by topic and status.
	KafkaPublished *prometheus.CounterVec

	// KafkaPublishDuration observes producer write latency by topic.
	KafkaPublishDuration *prometheus.HistogramVec

	// RateLimited counts requests rejected by the per-client limiter.
	RateLimited prometheus.Counter

	gatherer prometheus.Gatherer
}

// New creates the collectors and registers them with reg. Pass
// prometheus.NewRegistry() in tests to avoid duplicate registration.
func New(namespace string, reg *prometheus.Registry) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		HTTPRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),

		HTTPRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5},
			},
			[]string{"method", "route"},
		),

		BookingSubmissions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "booking_submissions_total",
				Help:      "Booking submissions by outcome",
			},
			[]string{"outcome"},
		),

		VerificationResults: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "verification_results_total",
				Help:      "Bot verification decisions by result",
			},
			[]string{"result"},
		),

		SessionEvents: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "visitor_session_events_total",
				Help:      "Visitor session events by type and status",
			},
			[]string{"event_type", "status"},
		),

		TelemetryReports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "telemetry_reports_total",
				Help:      "Telemetry items by kind and dispatch status",
			},
			[]string{"kind", "status"},
		),

		KafkaPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "kafka_messages_published_total",
				Help:      "Kafka producer writes by topic and status",
			},
			[]string{"topic", "status"},
		),

		KafkaPublishDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "kafka_publish_duration_seconds",
				Help:      "Kafka producer write latency",
				Buckets:   []float64{.005, .01, .05, .1, .5, 1, 5},
			},
			[]string{"topic"},
		),

		RateLimited: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "rate_limited_requests_total",
				Help:      "Requests rejected by the per-client rate limiter",
			},
		),

		gatherer: reg,
	}
}

// NewForTest returns metrics bound to a private registry.
func NewForTest() *Metrics {
	return New(Namespace, prometheus.NewRegistry())
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.gatherer, promhttp.HandlerOpts{})
}
