package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus metrics for the lookup pipeline.
type Metrics struct {
	LookupsTotal    *prometheus.CounterVec
	WarningsTotal   prometheus.Counter
	AdapterLatency  *prometheus.HistogramVec
	AdapterFailures *prometheus.CounterVec
}

// New creates and registers all lookup metrics.
func New() *Metrics {
	return &Metrics{
		LookupsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "represent_lookups_total",
			Help: "Address lookups by outcome (ok, invalid, not_found, unavailable, error).",
		}, []string{"outcome"}),
		WarningsTotal: promauto.NewCounter(prometheus.CounterOpts{
			Name: "represent_lookup_warnings_total",
			Help: "Coverage warnings attached to successful lookups.",
		}),
		AdapterLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "represent_adapter_latency_seconds",
			Help:    "Provider adapter fetch latency.",
			Buckets: []float64{0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"adapter"}),
		AdapterFailures: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "represent_adapter_failures_total",
			Help: "Provider adapter fetches converted into warnings.",
		}, []string{"adapter"}),
	}
}

// ObserveAdapter records one adapter fetch.
func (m *Metrics) ObserveAdapter(adapter string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.AdapterLatency.WithLabelValues(adapter).Observe(d.Seconds())
	if err != nil {
		m.AdapterFailures.WithLabelValues(adapter).Inc()
	}
}

// RecordLookup records one pipeline outcome.
func (m *Metrics) RecordLookup(outcome string, warnings int) {
	if m == nil {
		return
	}
	m.LookupsTotal.WithLabelValues(outcome).Inc()
	for i := 0; i < warnings; i++ {
		m.WarningsTotal.Inc()
	}
}
