package telemetry

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserve(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveSearch("tavily", 0.2)
	m.ObserveSearch("tavily", 0.4)
	m.ObserveSearch("error", 0.1)
	m.ObserveExtraction("reader", 1.5)

	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues("tavily")); got != 2 {
		t.Fatalf("tavily searches = %v, want 2", got)
	}
	if got := testutil.ToFloat64(m.SearchesTotal.WithLabelValues("error")); got != 1 {
		t.Fatalf("error searches = %v, want 1", got)
	}
	if got := testutil.ToFloat64(m.ExtractionsTotal.WithLabelValues("reader")); got != 1 {
		t.Fatalf("reader extractions = %v, want 1", got)
	}
}

func TestNilReceiverIsSafe(t *testing.T) {
	t.Parallel()
	var m *Metrics
	m.ObserveSearch("tavily", 0.1)
	m.ObserveExtraction("exa", 0.1)
}
