package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	SearchRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_search_requests_total",
			Help: "Total number of engine operations by outcome",
		},
		[]string{"operation", "outcome"},
	)

	SearchDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "property_search_duration_seconds",
			Help:    "Duration of engine operations in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"operation"},
	)

	AnalyticsDegraded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_analytics_degraded_total",
			Help: "Analytics calls that fell back to empty results",
		},
		[]string{"operation"},
	)

	BulkItemsFailed = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "property_bulk_items_failed_total",
			Help: "Bulk index items rejected by validation or by the backend",
		},
	)

	TrendsCacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "property_trends_cache_lookups_total",
			Help: "Trend cache lookups by result",
		},
		[]string{"result"},
	)

	HTTPRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests by route and status",
		},
		[]string{"method", "route", "status"},
	)

	HTTPDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request latency by route",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)
