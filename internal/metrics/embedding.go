package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Reasons a stored document vector is recomputed instead of reused.
const (
	ReembedStale     = "stale"     // text changed, vector missing or from another embedding space
	ReembedDimension = "dimension" // stored vector length disagrees with the comparison partner
	ReembedFallback  = "fallback"  // a reused source vector turned out to be a leftover
)

// Embedding provider, cache and vector-reuse metrics. Provider labels come from
// config.EmbeddingConfig so dashboards can split openai, gemini and stub traffic.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "embedding",
			Name:      "requests_total",
			Help:      "Provider embedding calls by outcome",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "jobmatch",
			Subsystem: "embedding",
			Name:      "request_duration_seconds",
			Help:      "Provider embedding call latency",
			Buckets:   []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		},
		[]string{"provider", "model"},
	)

	EmbeddingTokensTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "embedding",
			Name:      "tokens_total",
			Help:      "Tokens billed for résumé, vacancy and query texts",
		},
		[]string{"provider", "model", "type"}, // "prompt" / "total"
	)

	EmbeddingErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "embedding",
			Name:      "errors_total",
			Help:      "Provider embedding failures by kind",
		},
		[]string{"provider", "model", "error_type"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "embedding",
			Name:      "cache_total",
			Help:      "Text-hash embedding cache lookups",
		},
		[]string{"result"}, // "hit" / "miss"
	)

	DocumentReembedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "jobmatch",
			Subsystem: "matching",
			Name:      "document_reembed_total",
			Help:      "Stored document vectors recomputed at match time",
		},
		[]string{"kind", "reason"},
	)
)

var registerEmbedding sync.Once

// RegisterEmbeddingMetrics registers the embedding collectors with the default registry.
// Safe to call more than once.
func RegisterEmbeddingMetrics() {
	registerEmbedding.Do(func() {
		prometheus.MustRegister(
			EmbeddingRequestsTotal,
			EmbeddingRequestDuration,
			EmbeddingTokensTotal,
			EmbeddingErrorsTotal,
			EmbeddingCacheTotal,
			DocumentReembedTotal,
		)
	})
}
