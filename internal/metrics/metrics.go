package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/felixgeelhaar/pulsehr/internal/errors"
)

// Metrics holds all Prometheus metrics for PulseHR
type Metrics struct {
	// Command execution metrics
	CommandExecutions *prometheus.CounterVec
	CommandDuration   *prometheus.HistogramVec

	// HR API request metrics
	APIRequests *prometheus.CounterVec
	APILatency  *prometheus.HistogramVec

	// Session metrics
	SessionTransitions *prometheus.CounterVec

	// Notification metrics
	NotificationRefreshes *prometheus.CounterVec
	NotificationsActive   prometheus.Gauge

	// Export metrics
	Exports *prometheus.CounterVec

	// Error metrics (by error code from structured errors)
	Errors *prometheus.CounterVec
}

// NewMetrics creates a new Metrics instance with all metrics registered
func NewMetrics(registry prometheus.Registerer) *Metrics {
	factory := promauto.With(registry)

	return &Metrics{
		CommandExecutions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsehr_command_executions_total",
				Help: "Total number of command executions",
			},
			[]string{"command", "success"},
		),
		CommandDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulsehr_command_duration_seconds",
				Help:    "Command execution duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"command"},
		),

		APIRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsehr_api_requests_total",
				Help: "Total number of HR API requests by route and status class",
			},
			[]string{"method", "route", "status"},
		),
		APILatency: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pulsehr_api_latency_seconds",
				Help:    "HR API request latency in seconds",
				Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0, 30.0},
			},
			[]string{"method", "route"},
		),

		SessionTransitions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsehr_session_transitions_total",
				Help: "Total number of session transitions by kind",
			},
			[]string{"kind"},
		),

		NotificationRefreshes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsehr_notification_refreshes_total",
				Help: "Total number of notification refreshes",
			},
			[]string{"partial"},
		),
		NotificationsActive: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "pulsehr_notifications_active",
				Help: "Number of notifications after the last refresh",
			},
		),

		Exports: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsehr_exports_total",
				Help: "Total number of data exports",
			},
			[]string{"dataset", "format"},
		),

		Errors: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pulsehr_errors_total",
				Help: "Total number of errors by error code",
			},
			[]string{"error_code", "component"},
		),
	}
}

// StatusClass collapses an HTTP status into 2xx, 4xx, 5xx, or "error"
// when no response arrived.
func StatusClass(status int) string {
	if status <= 0 {
		return "error"
	}
	return strconv.Itoa(status/100) + "xx"
}

// ObserveRequest records one HR API round trip.
func (m *Metrics) ObserveRequest(method, route string, status int, d time.Duration) {
	m.APIRequests.WithLabelValues(method, route, StatusClass(status)).Inc()
	m.APILatency.WithLabelValues(method, route).Observe(d.Seconds())
}

// SessionTransition counts a session state change.
func (m *Metrics) SessionTransition(kind string) {
	m.SessionTransitions.WithLabelValues(kind).Inc()
}

// NotificationsRefreshed records a notification refresh.
func (m *Metrics) NotificationsRefreshed(count, failures int) {
	m.NotificationRefreshes.WithLabelValues(strconv.FormatBool(failures > 0)).Inc()
	m.NotificationsActive.Set(float64(count))
}

// CommandFinished records a CLI command outcome. err may be nil.
func (m *Metrics) CommandFinished(command string, d time.Duration, err error) {
	m.CommandExecutions.WithLabelValues(command, strconv.FormatBool(err == nil)).Inc()
	m.CommandDuration.WithLabelValues(command).Observe(d.Seconds())
	if err != nil {
		m.RecordError(err, "cli")
	}
}

// Exported counts a finished export.
func (m *Metrics) Exported(dataset, format string) {
	m.Exports.WithLabelValues(dataset, format).Inc()
}

// RecordError counts err by its structured code. Errors without one are
// counted as "unknown".
func (m *Metrics) RecordError(err error, component string) {
	code := string(errors.CodeOf(err))
	if code == "" {
		code = "unknown"
	}
	m.Errors.WithLabelValues(code, component).Inc()
}
