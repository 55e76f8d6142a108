// Package telemetry exposes prometheus metrics for the acquisition
// layer. One Metrics value is constructed at startup and shared by both
// orchestrators.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts provider calls and observes per-item latency.
type Metrics struct {
	SearchesTotal    *prometheus.CounterVec
	ExtractionsTotal *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	ExtractDuration  prometheus.Histogram
}

// New registers the acquisition metrics on the given registerer. Pass
// prometheus.DefaultRegisterer in production; tests use a fresh
// registry to avoid duplicate registration.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		SearchesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fetchkit",
			Name:      "searches_total",
			Help:      "Search resolutions by serving provider.",
		}, []string{"provider"}),
		ExtractionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "fetchkit",
			Name:      "extractions_total",
			Help:      "URL extractions by serving source.",
		}, []string{"source"}),
		SearchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fetchkit",
			Name:      "search_duration_seconds",
			Help:      "Wall time of one query resolution.",
			Buckets:   prometheus.DefBuckets,
		}),
		ExtractDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "fetchkit",
			Name:      "extract_duration_seconds",
			Help:      "Wall time of one URL resolution across all tiers.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
	}
	if reg != nil {
		reg.MustRegister(m.SearchesTotal, m.ExtractionsTotal, m.SearchDuration, m.ExtractDuration)
	}
	return m
}

// ObserveSearch records one settled query resolution.
func (m *Metrics) ObserveSearch(provider string, seconds float64) {
	if m == nil {
		return
	}
	m.SearchesTotal.WithLabelValues(provider).Inc()
	m.SearchDuration.Observe(seconds)
}

// ObserveExtraction records one settled URL resolution.
func (m *Metrics) ObserveExtraction(source string, seconds float64) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(source).Inc()
	m.ExtractDuration.Observe(seconds)
}
