package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Ingestion metrics
	EntriesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pythia_entries_processed_total",
			Help: "Total number of batch entries seen by the pipeline",
		},
		// outcome: stored|skipped_language|skipped_relevance|skipped_sentiment|skipped_price|skipped_date
		[]string{"outcome"},
	)

	BatchesProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pythia_batches_processed_total",
			Help: "Total number of ingestion batches processed",
		},
		[]string{"status"}, // status: success|rejected|error
	)

	BatchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "pythia_batch_duration_seconds",
			Help:    "End-to-end batch processing duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30, 60},
		},
	)

	// Price resolution metrics
	PriceLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pythia_price_lookups_total",
			Help: "Price lookups by source and result",
		},
		[]string{"source", "status"}, // status: success|no_data|error|hit
	)

	// Storage metrics
	StorageWrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pythia_storage_writes_total",
			Help: "Document store writes by operation and result",
		},
		[]string{"operation", "status"}, // operation: insert_entry|insert_aggregate|link_entry
	)
)

func init() {
	prometheus.MustRegister(
		EntriesProcessed,
		BatchesProcessed,
		BatchDuration,
		PriceLookups,
		StorageWrites,
	)
}

// Handler returns the Prometheus metrics HTTP handler
func Handler() http.Handler {
	return promhttp.Handler()
}
