package metrics

import (
	"time"

	"github.com/hyperjump/sitesearch/internal/models"
	"github.com/prometheus/client_golang/prometheus"
)

// Search outcomes used as the "outcome" label.
const (
	OutcomeHit   = "hit"
	OutcomeMiss  = "miss"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

var (
	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "searches_total",
			Help:      "Total number of searches by outcome",
		},
		[]string{"outcome"},
	)

	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "search_duration_seconds",
			Help:      "Search duration in seconds, including any index build it triggered",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		},
	)

	indexBuildsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "index_builds_total",
			Help:      "Total number of index builds",
		},
	)

	indexEntries = prometheus.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "index_entries",
			Help:      "Entries in the current index by type",
		},
		[]string{"type"},
	)
)

func init() {
	prometheus.MustRegister(searchesTotal, searchDuration, indexBuildsTotal, indexEntries)
}

// ObserveSearch records one search with its outcome and latency.
func ObserveSearch(outcome string, took time.Duration) {
	searchesTotal.WithLabelValues(outcome).Inc()
	searchDuration.Observe(took.Seconds())
}

// ObserveIndexBuild counts a build and publishes the new per-type entry counts.
func ObserveIndexBuild(counts models.TypeCounts) {
	indexBuildsTotal.Inc()
	indexEntries.WithLabelValues(string(models.EntityPage)).Set(float64(counts.Page))
	indexEntries.WithLabelValues(string(models.EntityPost)).Set(float64(counts.Post))
	indexEntries.WithLabelValues(string(models.EntityMedia)).Set(float64(counts.Media))
}
