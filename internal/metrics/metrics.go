// Package metrics defines and registers the Prometheus metrics of the book
// review service. Metrics are registered with the default registry at init
// and served on /metrics.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/mrlokans/bookreviews/internal/events"
)

const namespace = "bookreviews"

// ── HTTP ─────────────────────────────────────────────────────────────────────

// HTTPRequestsTotal counts handled requests.
// Labels:
//   - method: HTTP method
//   - route: matched route pattern (e.g. "/api/books/:id"), or "unmatched"
//   - status: response status code
var HTTPRequestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests, by method, route and status.",
	},
	[]string{"method", "route", "status"},
)

// HTTPRequestDuration measures request latency per route.
var HTTPRequestDuration = promauto.NewHistogramVec(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Duration of HTTP requests.",
		Buckets:   prometheus.DefBuckets,
	},
	[]string{"method", "route"},
)

// ── Store ────────────────────────────────────────────────────────────────────

// EventsEmittedTotal counts relay notifications.
// Label:
//   - topic: event topic (e.g. "book:added", "ui:toast")
var EventsEmittedTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "events_emitted_total",
		Help:      "Total number of notifications emitted, by topic.",
	},
	[]string{"topic"},
)

// SnapshotWritesTotal counts snapshot writes.
// Label:
//   - result: "success" or "failure"
var SnapshotWritesTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_writes_total",
		Help:      "Total number of snapshot writes, by result.",
	},
	[]string{"result"},
)

var SnapshotWriteDuration = promauto.NewHistogram(
	prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "snapshot_write_duration_seconds",
		Help:      "Duration of snapshot writes.",
		Buckets:   prometheus.DefBuckets,
	},
)

// LoginAttemptsTotal counts login attempts.
// Label:
//   - result: "success", "failure" or "limited"
var LoginAttemptsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "login_attempts_total",
		Help:      "Total number of login attempts, by result.",
	},
	[]string{"result"},
)

// ObserveEvents counts every event emitted on relay. The returned function
// unsubscribes.
func ObserveEvents(relay *events.Relay) func() {
	return relay.SubscribeAll(func(e events.Event) {
		EventsEmittedTotal.WithLabelValues(string(e.Topic())).Inc()
	})
}

// RecordSnapshotWrite has the signature of store.ResultFunc.
func RecordSnapshotWrite(err error, took time.Duration) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	SnapshotWritesTotal.WithLabelValues(result).Inc()
	SnapshotWriteDuration.Observe(took.Seconds())
}
