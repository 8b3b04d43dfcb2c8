package metrics

import "github.com/prometheus/client_golang/prometheus"

// Ingestion pipeline Prometheus metrics.
var (
	IngestDocumentsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "ingest_documents_total",
			Help:      "Total documents processed by the ingestion pipeline",
		},
		[]string{"status"}, // "completed" / "failed"
	)

	IngestChunksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ragdex",
			Name:      "ingest_chunks_total",
			Help:      "Total chunks handled by the ingestion pipeline",
		},
		[]string{"result"}, // "embedded" / "skipped"
	)

	IngestDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "ragdex",
			Name:      "ingest_duration_seconds",
			Help:      "End-to-end document ingestion duration in seconds",
			Buckets:   []float64{0.5, 1, 2.5, 5, 10, 30, 60, 120},
		},
	)

	IngestQueueDepth = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "ragdex",
			Name:      "ingest_queue_depth",
			Help:      "Documents waiting in the ingestion queue",
		},
	)
)

var ingestMetricsRegistered bool

// RegisterIngestMetrics registers ingestion metrics. Must be called once from main.
func RegisterIngestMetrics() {
	if ingestMetricsRegistered {
		return
	}
	prometheus.MustRegister(IngestDocumentsTotal)
	prometheus.MustRegister(IngestChunksTotal)
	prometheus.MustRegister(IngestDuration)
	prometheus.MustRegister(IngestQueueDepth)
	ingestMetricsRegistered = true
}
