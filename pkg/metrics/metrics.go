package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disposal_http_requests_total",
			Help: "Total HTTP requests by method, path, and status",
		},
		[]string{"method", "path", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "disposal_http_request_duration_seconds",
			Help:    "HTTP request latency distribution",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 5, 15},
		},
		[]string{"method", "path"},
	)

	dispatchCycles = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disposal_dispatch_cycles_total",
			Help: "Reminder dispatch cycles by trigger and result",
		},
		[]string{"trigger", "result"},
	)

	dispatchCycleDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "disposal_dispatch_cycle_duration_seconds",
			Help:    "Wall time of a full scan-and-dispatch cycle",
			Buckets: []float64{.1, .5, 1, 2, 5, 10, 30, 60, 120},
		},
	)

	remindersDispatched = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disposal_reminders_dispatched_total",
			Help: "Reminders handed to the push gateway by result",
		},
		[]string{"result"},
	)

	orphansDeleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disposal_orphan_reminders_deleted_total",
			Help: "Reminders deleted because their owner could not be resolved",
		},
		[]string{"reason"},
	)

	ownersBackfilled = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "disposal_reminder_owners_backfilled_total",
			Help: "Reminders whose missing userId was recovered",
		},
	)

	pushResults = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "disposal_push_results_total",
			Help: "Per-token push results by failure class",
		},
		[]string{"class"},
	)

	tokensPruned = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "disposal_device_tokens_pruned_total",
			Help: "Device tokens deleted after a permanent delivery failure",
		},
	)
)

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}

// RecordRequest records HTTP request metrics
func RecordRequest(method, path string, status int, duration time.Duration) {
	httpRequestsTotal.WithLabelValues(method, path, strconv.Itoa(status)).Inc()
	httpRequestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// RecordCycle records the end of a dispatch cycle. result is "completed",
// "skipped" or "failed".
func RecordCycle(trigger, result string, duration time.Duration) {
	dispatchCycles.WithLabelValues(trigger, result).Inc()
	if result != "skipped" {
		dispatchCycleDuration.Observe(duration.Seconds())
	}
}

func RecordReminderDispatched(result string) {
	remindersDispatched.WithLabelValues(result).Inc()
}

func RecordOrphanDeleted(reason string) {
	orphansDeleted.WithLabelValues(reason).Inc()
}

func RecordOwnerBackfilled() {
	ownersBackfilled.Inc()
}

func RecordPushResult(class string) {
	pushResults.WithLabelValues(class).Inc()
}

func RecordTokenPruned() {
	tokensPruned.Inc()
}
