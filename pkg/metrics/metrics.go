package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics
type Metrics struct {
	ImportRuns          prometheus.Counter
	MessagesImported    prometheus.Counter
	EnrichmentSuccesses prometheus.Counter
	EnrichmentFailures  prometheus.Counter
	ImportDuration      prometheus.Histogram
	EnrichmentDuration  prometheus.Histogram
	QueueDepth          prometheus.Gauge
}

// NewMetrics creates new Prometheus metrics
func NewMetrics() *Metrics {
	return &Metrics{
		ImportRuns: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmind_import_runs_total",
			Help: "Total number of mailbox import reconciliations",
		}),
		MessagesImported: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmind_messages_imported_total",
			Help: "Total number of new messages pulled into the cache",
		}),
		EnrichmentSuccesses: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmind_enrichment_successes_total",
			Help: "Total number of messages summarized and scored",
		}),
		EnrichmentFailures: promauto.NewCounter(prometheus.CounterOpts{
			Name: "mailmind_enrichment_failures_total",
			Help: "Total number of enrichment attempts that failed",
		}),
		ImportDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailmind_import_duration_seconds",
			Help:    "Time spent reconciling a mailbox against the cache",
			Buckets: prometheus.DefBuckets,
		}),
		EnrichmentDuration: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "mailmind_enrichment_duration_seconds",
			Help:    "Time spent enriching one batch of messages",
			Buckets: prometheus.DefBuckets,
		}),
		QueueDepth: promauto.NewGauge(prometheus.GaugeOpts{
			Name: "mailmind_summarization_queue_depth",
			Help: "Messages currently waiting for enrichment",
		}),
	}
}
