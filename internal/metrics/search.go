package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	SearchRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentsearch",
			Name:      "search_requests_total",
			Help:      "Total candidate searches by outcome",
		},
		[]string{"outcome"}, // "match" / "no_match" / "invalid" / "blocked" / "error"
	)

	SearchBranchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "talentsearch",
			Name:      "search_branch_duration_seconds",
			Help:      "Duration of individual search branches",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"branch"}, // "lexical" / "semantic" / "expansion"
	)

	SearchPartialFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "talentsearch",
			Name:      "search_partial_failures_total",
			Help:      "Per-item failures tolerated during a search",
		},
		[]string{"stage"}, // "lexical_enrich" / "rerank" / "role_fetch" / "role_score" / "role_fanout" / "semantic_enrich" / "branch"
	)

	SearchResultsMerged = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "talentsearch",
			Name:      "search_results_merged",
			Help:      "Number of talents in the merged result",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50, 100},
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers search pipeline metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchRequestsTotal)
	prometheus.MustRegister(SearchBranchDuration)
	prometheus.MustRegister(SearchPartialFailuresTotal)
	prometheus.MustRegister(SearchResultsMerged)
	searchMetricsRegistered = true
}
