// Package metrics exposes Prometheus counters and histograms for the
// indexing and retrieval pipeline. Every metric is registered against a
// caller-supplied registry so tests and multiple engine instances in one
// process don't collide on the global default registry.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics bundles every instrument of the engine. The indexing pipeline and
// the merge engine record to theirs; QueryDuration and QueryErrors change only
// through ObserveQuery and RecordQueryError, which the query engine does not
// call.
type Metrics struct {
	DocumentsIndexed  *prometheus.CounterVec
	EdgesExtracted    prometheus.Counter
	EmbeddingsEncoded prometheus.Counter
	QueryDuration     *prometheus.HistogramVec
	QueryErrors       *prometheus.CounterVec
	MergeConflicts    prometheus.Counter
	IndexLevel        *prometheus.GaugeVec
}

// New creates a Metrics bundle and registers every instrument against reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		DocumentsIndexed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kdd",
			Subsystem: "index",
			Name:      "documents_indexed_total",
			Help:      "Documents successfully indexed, labeled by kind.",
		}, []string{"kind"}),
		EdgesExtracted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kdd",
			Subsystem: "index",
			Name:      "edges_extracted_total",
			Help:      "Graph edges extracted across all documents.",
		}),
		EmbeddingsEncoded: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kdd",
			Subsystem: "index",
			Name:      "embeddings_encoded_total",
			Help:      "Chunk embeddings encoded by the embedding model.",
		}),
		QueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "kdd",
			Subsystem: "query",
			Name:      "duration_seconds",
			Help:      "Query execution latency, labeled by algorithm.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"algorithm"}),
		QueryErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "kdd",
			Subsystem: "query",
			Name:      "errors_total",
			Help:      "Query failures, labeled by algorithm and error code.",
		}, []string{"algorithm", "code"}),
		MergeConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "kdd",
			Subsystem: "merge",
			Name:      "conflicts_total",
			Help:      "Node conflicts resolved during merges.",
		}),
		IndexLevel: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "kdd",
			Subsystem: "index",
			Name:      "level",
			Help:      "Current index level (0=L1, 1=L2, 2=L3) by index root.",
		}, []string{"root"}),
	}

	reg.MustRegister(
		m.DocumentsIndexed,
		m.EdgesExtracted,
		m.EmbeddingsEncoded,
		m.QueryDuration,
		m.QueryErrors,
		m.MergeConflicts,
		m.IndexLevel,
	)
	return m
}

// ObserveQuery records the latency of a completed query algorithm run.
func (m *Metrics) ObserveQuery(algorithm string, d time.Duration) {
	m.QueryDuration.WithLabelValues(algorithm).Observe(d.Seconds())
}

// RecordQueryError increments the error counter for algorithm/code.
func (m *Metrics) RecordQueryError(algorithm, code string) {
	m.QueryErrors.WithLabelValues(algorithm, code).Inc()
}

// RecordDocumentIndexed increments the per-kind indexed-document counter.
func (m *Metrics) RecordDocumentIndexed(kind string) {
	m.DocumentsIndexed.WithLabelValues(kind).Inc()
}

// SetIndexLevel records the current index level for root as a 0/1/2 gauge.
func (m *Metrics) SetIndexLevel(root string, level int) {
	m.IndexLevel.WithLabelValues(root).Set(float64(level))
}
