package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Generation metrics
	RowsGenerated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnistmock_rows_generated_total",
			Help: "Total number of rows generated",
		},
		[]string{"kind"},
	)

	GenerationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mnistmock_generation_duration_seconds",
			Help:    "Time taken to generate a dataset",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15), // 0.1ms to ~1.6s
		},
		[]string{"kind"},
	)

	// File metrics
	FilesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnistmock_files_written_total",
			Help: "Total number of dataset files written",
		},
		[]string{"kind", "status"},
	)

	BytesWritten = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnistmock_bytes_written_total",
			Help: "Total number of bytes written to dataset files",
		},
		[]string{"kind"},
	)

	WriteDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mnistmock_write_duration_seconds",
			Help:    "Time taken to write a dataset file",
			Buckets: prometheus.ExponentialBuckets(0.0001, 2, 15),
		},
		[]string{"kind"},
	)

	// Streaming metrics
	DatasetsServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnistmock_datasets_served_total",
			Help: "Total number of datasets streamed over HTTP",
		},
		[]string{"kind"},
	)

	// Database metrics
	DatabaseQueries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnistmock_database_queries_total",
			Help: "Total number of database queries",
		},
		[]string{"operation", "status"},
	)

	DatabaseDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mnistmock_database_query_duration_seconds",
			Help:    "Database query duration",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 10), // 1ms to ~1s
		},
		[]string{"operation"},
	)

	// API metrics
	APIRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mnistmock_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mnistmock_api_request_duration_seconds",
			Help:    "API request duration",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)
)

// RecordWrite tracks the outcome of a single file write
func RecordWrite(kind string, err error, sizeBytes int64, seconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	FilesWritten.WithLabelValues(kind, status).Inc()
	WriteDuration.WithLabelValues(kind).Observe(seconds)
	if err == nil {
		BytesWritten.WithLabelValues(kind).Add(float64(sizeBytes))
	}
}

// RecordQuery tracks a database query
func RecordQuery(operation string, err error, seconds float64) {
	status := "success"
	if err != nil {
		status = "error"
	}
	DatabaseQueries.WithLabelValues(operation, status).Inc()
	DatabaseDuration.WithLabelValues(operation).Observe(seconds)
}

// WriteTextfile dumps the default registry in the text exposition format,
// suitable for the node_exporter textfile collector.
func WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, prometheus.DefaultGatherer); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
