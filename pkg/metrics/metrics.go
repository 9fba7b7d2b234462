package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
	UpstreamCallsTotal  *prometheus.CounterVec
	KeywordFetchesTotal *prometheus.CounterVec
	PipelineDuration    *prometheus.HistogramVec
	CacheOpsTotal       *prometheus.CounterVec
)

func Init() {
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	UpstreamCallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "upstream_calls_total",
			Help: "Total number of tourism API calls.",
		},
		[]string{"family", "endpoint", "outcome"},
	)

	KeywordFetchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "keyword_fetches_total",
			Help: "Total number of curated keyword fetch outcomes.",
		},
		[]string{"outcome"}, // success, failure
	)

	PipelineDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "pipeline_duration_seconds",
			Help:    "Duration of full aggregation pipeline runs.",
			Buckets: []float64{1, 5, 10, 15, 30, 60, 120},
		},
		[]string{"region"},
	)

	CacheOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_ops_total",
			Help: "Cache layer operations by outcome.",
		},
		[]string{"op", "outcome"}, // get: hit/miss, put: stored/skipped
	)
}
