package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Action result labels.
const (
	ResultOK      = "ok"
	ResultError   = "error"
	ResultUnknown = "unknown_action"
)

// UnknownActionLabel replaces unregistered action names in labels.
const UnknownActionLabel = "unknown"


// ActionMetrics holds Prometheus metrics for action-level observability.
type ActionMetrics struct {
	// Dispatch
	ActionsTotal   *prometheus.CounterVec
	ActionDuration *prometheus.HistogramVec

	// Notification dispatch
	NotificationPrompts *prometheus.CounterVec
	NotificationsSent   *prometheus.CounterVec
	NotificationsFailed *prometheus.CounterVec
	SendDuration        *prometheus.HistogramVec

	// Outcome publication
	EventsPublished *prometheus.CounterVec
	EventsFailed    *prometheus.CounterVec

	// Catalog
	CatalogLoadErrors prometheus.Counter
}

// NewActionMetrics creates and registers all action metrics on reg.
// A nil reg uses the default Prometheus registerer.
func NewActionMetrics(namespace string, reg prometheus.Registerer) *ActionMetrics {
	if namespace == "" {
		namespace = "advisor"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}

	factory := promauto.With(reg)
	subsystem := "actions"

	m := &ActionMetrics{
		// =======================================================================
		// Dispatch
		// =======================================================================
		ActionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "runs_total",
				Help:      "Total action runs by result",
			},
			[]string{"action", "result"}, // result: ok, error, unknown_action
		),
		ActionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "run_duration_seconds",
				Help:      "Action run duration",
				Buckets:   []float64{.005, .01, .05, .1, .25, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"action"},
		),

		// =======================================================================
		// Notification Dispatch
		// =======================================================================
		NotificationPrompts: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notification_prompts_total",
				Help:      "Turns that stopped to ask for a missing slot",
			},
			[]string{"slot"},
		),
		NotificationsSent: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_sent_total",
				Help:      "Total notifications accepted by the relay",
			},
			[]string{"notification_kind"},
		),
		NotificationsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notifications_failed_total",
				Help:      "Total notification failures",
			},
			[]string{"notification_kind", "reason"}, // reason: timeout, invalid_address, connection, relay_error, render_error, not_configured
		),
		SendDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "notification_send_duration_seconds",
				Help:      "SMTP session duration (helps differentiate app slowness from relay issues)",
				Buckets:   []float64{.1, .25, .5, 1, 2.5, 5, 10, 15},
			},
			[]string{"status"},
		),

		// =======================================================================
		// Outcome Publication
		// =======================================================================
		EventsPublished: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_published_total",
				Help:      "Notification outcome events published",
			},
			[]string{"status"},
		),
		EventsFailed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "events_failed_total",
				Help:      "Notification outcome events that could not be published",
			},
			[]string{"status"},
		),

		// =======================================================================
		// Catalog
		// =======================================================================
		CatalogLoadErrors: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "catalog_load_errors_total",
				Help:      "Catalog reads that failed and were treated as empty",
			},
		),
	}

	return m
}
