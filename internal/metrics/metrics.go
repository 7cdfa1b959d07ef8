// Package metrics defines the Prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTPRequests counts handled HTTP requests by method, path and status.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blueline_http_requests_total",
		Help: "Handled HTTP requests.",
	}, []string{"method", "path", "status"})

	// HTTPDuration observes request latency by path.
	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "blueline_http_request_duration_seconds",
		Help:    "HTTP request latency.",
		Buckets: prometheus.DefBuckets,
	}, []string{"path"})

	// InterpreterCalls counts schedule interpreter invocations by outcome
	// (ok, transport_error, invalid_response).
	InterpreterCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blueline_interpreter_calls_total",
		Help: "Schedule interpreter calls by outcome.",
	}, []string{"outcome"})

	// EventsMaterialized counts events created by the schedule pipeline.
	EventsMaterialized = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blueline_events_materialized_total",
		Help: "Calendar events created from parsed schedules.",
	})

	// MaterializeFailures counts per-record materialization failures.
	MaterializeFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "blueline_materialize_failures_total",
		Help: "Schedule records that failed to materialize.",
	})

	// WebhookDeliveries counts webhook delivery attempts by outcome
	// (delivered, failed).
	WebhookDeliveries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "blueline_webhook_deliveries_total",
		Help: "Webhook deliveries by outcome.",
	}, []string{"outcome"})
)
