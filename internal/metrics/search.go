package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	searchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "searchd",
			Name:      "search_duration_seconds",
			Help:      "Search execution time in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	searchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "searchd",
			Name:      "searches_total",
			Help:      "Total number of executed searches",
		},
		[]string{"outcome"},
	)

	indexedDocuments = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "searchd",
			Name:      "indexed_documents",
			Help:      "Number of documents in the current search index",
		},
	)
)

func init() {
	prometheus.MustRegister(searchDuration)
	prometheus.MustRegister(searchesTotal)
	prometheus.MustRegister(indexedDocuments)
}

// ObserveSearch records one search execution. outcome is "hit" when the
// search returned at least one result, "miss" otherwise.
func ObserveSearch(d time.Duration, totalCount int) {
	searchDuration.Observe(d.Seconds())
	outcome := "hit"
	if totalCount == 0 {
		outcome = "miss"
	}
	searchesTotal.WithLabelValues(outcome).Inc()
}

// SetIndexedDocuments updates the index size gauge after a rebuild.
func SetIndexedDocuments(n int) {
	indexedDocuments.Set(float64(n))
}
