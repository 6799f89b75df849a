package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// HTTP metrics track HTTP request patterns and performance
var (
	// HTTPRequestsTotal counts total HTTP requests by method, path, and status
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// HTTPRequestDuration measures HTTP request duration in seconds
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// HTTPResponseSize measures HTTP response body size in bytes
	HTTPResponseSize = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: prometheus.ExponentialBuckets(100, 10, 6),
		},
		[]string{"method", "path"},
	)

	// ActiveRequests tracks requests currently being served
	ActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_active_requests",
			Help: "Number of HTTP requests currently being served",
		},
	)
)

// Content metrics track what readers and authors do
var (
	// ArticleEventsTotal counts article mutations by operation
	ArticleEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_article_events_total",
			Help: "Article mutations by operation",
		},
		[]string{"operation"}, // create, update, delete
	)

	// CommentEventsTotal counts comment mutations by operation
	CommentEventsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_comment_events_total",
			Help: "Comment mutations by operation",
		},
		[]string{"operation"}, // create, delete
	)

	// GuardRejectionsTotal counts requests stopped before any mutation
	GuardRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_guard_rejections_total",
			Help: "Requests rejected by the guard pipeline by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// SearchQueriesTotal counts searches by whether anything matched
	SearchQueriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_search_queries_total",
			Help: "Search queries by result",
		},
		[]string{"result"}, // hit, miss
	)

	// SearchResults measures the number of articles a search returns
	SearchResults = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "typoteka_search_results",
			Help:    "Number of articles returned per search",
			Buckets: []float64{0, 1, 2, 5, 10, 25, 50, 100},
		},
	)

	// LoginAttemptsTotal counts token requests by result
	LoginAttemptsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_login_attempts_total",
			Help: "Login attempts by result",
		},
		[]string{"result"}, // success, failure, error
	)

	// RateLimitedTotal counts requests refused by a rate limiter
	RateLimitedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_rate_limited_total",
			Help: "Requests refused by a rate limiter",
		},
		[]string{"limiter"},
	)

	// UsersRegisteredTotal counts successful registrations by role
	UsersRegisteredTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_users_registered_total",
			Help: "Registered users by role",
		},
		[]string{"role"},
	)

	// FlashOperationsTotal counts flash payload store operations
	FlashOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "typoteka_flash_operations_total",
			Help: "Flash payload operations by operation and result",
		},
		[]string{"operation", "result"},
	)
)

// Database metrics track database performance
var (
	// DBQueryDuration measures use case level storage calls
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10),
		},
		[]string{"operation"},
	)

	// DBConnectionsActive tracks in-use database connections
	DBConnectionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_active",
			Help: "Number of active database connections",
		},
	)

	// DBConnectionsIdle tracks idle database connections
	DBConnectionsIdle = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "db_connections_idle",
			Help: "Number of idle database connections",
		},
	)
)

// RecordHTTPRequest records an HTTP request with its metadata
func RecordHTTPRequest(method, path, status string, duration time.Duration, responseSize int) {
	HTTPRequestsTotal.WithLabelValues(method, path, status).Inc()
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
	if responseSize > 0 {
		HTTPResponseSize.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}
