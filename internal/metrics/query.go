// Package metrics defines Prometheus collectors for the query pipeline.
package metrics

import "github.com/prometheus/client_golang/prometheus"

// Query pipeline Prometheus metrics.
var (
	ExtractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberdex",
			Name:      "extraction_total",
			Help:      "Query extractions by method and primary intent",
		},
		[]string{"method", "intent"},
	)

	ExtractionConfidence = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "memberdex",
			Name:      "extraction_confidence",
			Help:      "Final extraction confidence distribution",
			Buckets:   []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1},
		},
	)

	LLMFallbackTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberdex",
			Name:      "llm_fallback_total",
			Help:      "LLM fallback invocations by outcome",
		},
		[]string{"outcome"}, // "ok", "timeout", "parse_error", "provider_error"
	)

	LLMFallbackDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "memberdex",
			Name:      "llm_fallback_duration_seconds",
			Help:      "LLM fallback call duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
	)

	SearchBranchDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memberdex",
			Name:      "search_branch_duration_seconds",
			Help:      "Retrieval branch duration in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		},
		[]string{"branch"}, // "semantic", "keyword"
	)

	SearchBranchFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberdex",
			Name:      "search_branch_failures_total",
			Help:      "Retrieval branch failures by branch",
		},
		[]string{"branch"},
	)

	SessionsActive = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "memberdex",
			Name:      "sessions_active",
			Help:      "Conversation sessions currently retained",
		},
	)

	SessionsSwept = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "memberdex",
			Name:      "sessions_swept_total",
			Help:      "Conversation sessions removed by the TTL sweeper",
		},
	)
)

// Embedding Prometheus metrics.
var (
	EmbeddingRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberdex",
			Name:      "embedding_requests_total",
			Help:      "Total number of embedding requests",
		},
		[]string{"provider", "model", "status"},
	)

	EmbeddingRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "memberdex",
			Name:      "embedding_request_duration_seconds",
			Help:      "Embedding request duration in seconds",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"provider", "model"},
	)

	EmbeddingCacheTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "memberdex",
			Name:      "embedding_cache_total",
			Help:      "Embedding cache hits and misses",
		},
		[]string{"result"}, // "hit" / "miss"
	)
)

// RegisterQueryMetrics registers pipeline metrics explicitly (no init()).
func RegisterQueryMetrics() {
	prometheus.MustRegister(
		ExtractionTotal,
		ExtractionConfidence,
		LLMFallbackTotal,
		LLMFallbackDuration,
		SearchBranchDuration,
		SearchBranchFailures,
		SessionsActive,
		SessionsSwept,
		EmbeddingRequestsTotal,
		EmbeddingRequestDuration,
		EmbeddingCacheTotal,
	)
}
