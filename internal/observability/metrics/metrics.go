// Package metrics exposes the Prometheus collectors for the agenda service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// AgendaMetrics bundles the instrumentation for the scheduling flow. All
// record methods are nil-safe so callers never need a guard.
type AgendaMetrics struct {
	bookings       *prometheus.CounterVec
	dayLoadSeconds prometheus.Histogram
	gridBuilds     prometheus.Counter
	liveClients    prometheus.Gauge
}

// New registers the agenda collectors on the given registerer.
func New(reg prometheus.Registerer) *AgendaMetrics {
	m := &AgendaMetrics{
		bookings: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "agenda_bookings_total",
			Help: "Booking confirmations by outcome.",
		}, []string{"outcome"}),
		dayLoadSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "agenda_day_load_seconds",
			Help:    "Latency of loading a full day of schedules.",
			Buckets: prometheus.DefBuckets,
		}),
		gridBuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "agenda_grid_builds_total",
			Help: "Grid view-model builds served.",
		}),
		liveClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "agenda_live_clients",
			Help: "Connected live-update websocket clients.",
		}),
	}
	reg.MustRegister(m.bookings, m.dayLoadSeconds, m.gridBuilds, m.liveClients)
	return m
}

// RecordBooking counts one booking attempt by outcome, e.g. "confirmed",
// "rejected_conflict", "rejected_validation", "error".
func (m *AgendaMetrics) RecordBooking(outcome string) {
	if m == nil {
		return
	}
	m.bookings.WithLabelValues(outcome).Inc()
}

// ObserveDayLoad records the latency of one full day load.
func (m *AgendaMetrics) ObserveDayLoad(d time.Duration) {
	if m == nil {
		return
	}
	m.dayLoadSeconds.Observe(d.Seconds())
}

// RecordGridBuild counts one grid projection.
func (m *AgendaMetrics) RecordGridBuild() {
	if m == nil {
		return
	}
	m.gridBuilds.Inc()
}

// LiveClientConnected tracks a websocket client attach.
func (m *AgendaMetrics) LiveClientConnected() {
	if m == nil {
		return
	}
	m.liveClients.Inc()
}

// LiveClientDisconnected tracks a websocket client detach.
func (m *AgendaMetrics) LiveClientDisconnected() {
	if m == nil {
		return
	}
	m.liveClients.Dec()
}
