// Package metrics exports workflow counters and committee gauges to
// Prometheus.
package metrics

import (
	"context"
	"sync"
	"time"

	metricsstore "github.com/dalemusser/committeehub/internal/app/store/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Outcome labels for committeehub_transitions_total.
const (
	OutcomeOK                = "ok"
	OutcomeValidation        = "validation"
	OutcomeForbidden         = "forbidden"
	OutcomeNotFound          = "not_found"
	OutcomeInvalidTransition = "invalid_transition"
	OutcomeConflict          = "conflict"
	OutcomeError             = "error"
)

// Metrics holds the service counters. The zero value and a nil *Metrics
// are usable; recording is a no-op until Register is called.
type Metrics struct {
	transitions         *prometheus.CounterVec
	notificationsSent   prometheus.Counter
	notificationsFailed prometheus.Counter
	dispatchSeconds     prometheus.Histogram

	registerOnce sync.Once
}

// New returns an unregistered Metrics.
func New() *Metrics { return &Metrics{} }

// Register registers the metrics with the given registry.
// If registry is nil, this is a no-op. Subsequent calls are no-ops.
func (m *Metrics) Register(registry prometheus.Registerer) {
	if m == nil || registry == nil {
		return
	}
	m.registerOnce.Do(func() {
		factory := promauto.With(registry)

		m.transitions = factory.NewCounterVec(prometheus.CounterOpts{
			Name: "committeehub_transitions_total",
			Help: "Workflow operations by operation and outcome",
		}, []string{"op", "outcome"})

		m.notificationsSent = factory.NewCounter(prometheus.CounterOpts{
			Name: "committeehub_notifications_sent_total",
			Help: "Notifications written to recipients",
		})

		m.notificationsFailed = factory.NewCounter(prometheus.CounterOpts{
			Name: "committeehub_notifications_failed_total",
			Help: "Notifications that could not be delivered after a committed transition",
		})

		m.dispatchSeconds = factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "committeehub_dispatch_duration_seconds",
			Help:    "Time spent delivering the notifications of one transition",
			Buckets: prometheus.DefBuckets,
		})
	})
}

// Transition counts one workflow operation.
func (m *Metrics) Transition(op, outcome string) {
	if m == nil || m.transitions == nil {
		return
	}
	m.transitions.WithLabelValues(op, outcome).Inc()
}

// NotificationsSent adds n delivered notifications.
func (m *Metrics) NotificationsSent(n int) {
	if m == nil || m.notificationsSent == nil || n <= 0 {
		return
	}
	m.notificationsSent.Add(float64(n))
}

// NotificationsFailed adds n undelivered notifications.
func (m *Metrics) NotificationsFailed(n int) {
	if m == nil || m.notificationsFailed == nil || n <= 0 {
		return
	}
	m.notificationsFailed.Add(float64(n))
}

// ObserveDispatch records how long one dispatch took.
func (m *Metrics) ObserveDispatch(d time.Duration) {
	if m == nil || m.dispatchSeconds == nil {
		return
	}
	m.dispatchSeconds.Observe(d.Seconds())
}

// CountsFunc loads the dashboard totals for one scrape.
type CountsFunc func(ctx context.Context) metricsstore.Counts

// StatusCollector exports committee and user totals as gauges, loading
// them once per scrape.
type StatusCollector struct {
	fetch   CountsFunc
	timeout time.Duration

	committees *prometheus.Desc
	users      *prometheus.Desc
	unread     *prometheus.Desc
}

// NewStatusCollector returns a collector that calls fetch with a context
// bounded by timeout.
func NewStatusCollector(fetch CountsFunc, timeout time.Duration) *StatusCollector {
	return &StatusCollector{
		fetch:   fetch,
		timeout: timeout,
		committees: prometheus.NewDesc("committeehub_committees",
			"Committees by workflow status", []string{"status"}, nil),
		users: prometheus.NewDesc("committeehub_users",
			"User accounts by global status", []string{"status"}, nil),
		unread: prometheus.NewDesc("committeehub_notifications_unread",
			"Unread notifications across all users", nil, nil),
	}
}

// Describe implements prometheus.Collector.
func (c *StatusCollector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.committees
	ch <- c.users
	ch <- c.unread
}

// Collect implements prometheus.Collector.
func (c *StatusCollector) Collect(ch chan<- prometheus.Metric) {
	ctx, cancel := context.WithTimeout(context.Background(), c.timeout)
	defer cancel()
	counts := c.fetch(ctx)

	ch <- prometheus.MustNewConstMetric(c.committees, prometheus.GaugeValue, float64(counts.PendingSuggestions), "pending_suggestions")
	ch <- prometheus.MustNewConstMetric(c.committees, prometheus.GaugeValue, float64(counts.PendingApproval), "pending_approval")
	ch <- prometheus.MustNewConstMetric(c.committees, prometheus.GaugeValue, float64(counts.Formed), "formed")
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(counts.Admins), "admin")
	ch <- prometheus.MustNewConstMetric(c.users, prometheus.GaugeValue, float64(counts.Users-counts.Admins), "user")
	ch <- prometheus.MustNewConstMetric(c.unread, prometheus.GaugeValue, float64(counts.UnreadNotices))
}
