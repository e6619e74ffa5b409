package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request latency in seconds.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"method", "path", "status"},
	)

	// Database query latency in seconds.
	DBQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "db_query_duration_seconds",
			Help:    "Database query duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12), // 1ms to ~4s
		},
		[]string{"operation", "table"},
	)

	// Progress advancement attempts by outcome.
	ProjectAdvanceCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_advance_count",
			Help: "Total number of project progress advancements",
		},
		[]string{"status"}, // status: success, completed, not_found, failed
	)

	// Project creations by outcome.
	ProjectCreatedCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "project_created_count",
			Help: "Total number of projects created",
		},
		[]string{"status"}, // status: success, invalid, duplicate, failed
	)

	// Client directory fetches by source.
	ClientDirectoryFetchCount = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "client_directory_fetch_count",
			Help: "Total number of client directory lookups",
		},
		[]string{"source"}, // source: cache, upstream, error
	)
)

// RecordHTTPRequestDuration records HTTP request latency.
func RecordHTTPRequestDuration(method, path, status string, duration time.Duration) {
	HTTPRequestDuration.WithLabelValues(method, path, status).Observe(duration.Seconds())
}

// RecordDBQueryDuration records database query latency.
func RecordDBQueryDuration(operation, table string, duration time.Duration) {
	DBQueryDuration.WithLabelValues(operation, table).Observe(duration.Seconds())
}

// IncrementProjectAdvance counts one advancement attempt.
func IncrementProjectAdvance(status string) {
	ProjectAdvanceCount.WithLabelValues(status).Inc()
}

// IncrementProjectCreated counts one creation attempt.
func IncrementProjectCreated(status string) {
	ProjectCreatedCount.WithLabelValues(status).Inc()
}

// IncrementClientDirectoryFetch counts one directory lookup.
func IncrementClientDirectoryFetch(source string) {
	ClientDirectoryFetchCount.WithLabelValues(source).Inc()
}
