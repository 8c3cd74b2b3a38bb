package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_catalog_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"method", "route"},
	)

	PostVotesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_post_votes_total",
			Help: "Post votes by resulting action (inserted, removed, changed)",
		},
		[]string{"action"},
	)

	ReviewsWrittenTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_reviews_written_total",
			Help: "Reviews created, updated or deleted",
		},
		[]string{"media_type", "op"},
	)

	QueryCacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_query_cache_hits_total",
			Help: "Query cache hits by entity",
		},
		[]string{"entity"},
	)

	QueryCacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_query_cache_misses_total",
			Help: "Query cache misses by entity",
		},
		[]string{"entity"},
	)

	QueryCacheInvalidations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_query_cache_invalidations_total",
			Help: "Query cache invalidations by entity",
		},
		[]string{"entity"},
	)

	QueryCacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_catalog_query_cache_evictions_total",
			Help: "Expired query cache entries removed, by entity",
		},
		[]string{"entity"},
	)
)

// RecordHTTPRequest records one finished request. route is the chi route
// pattern, not the raw path, to keep label cardinality bounded.
func RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}
