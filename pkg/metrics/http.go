package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	RecommendLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "group_recommend_latency_seconds",
		Help:    "HTTP handler latency by route template",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	RecommendRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "group_recommend_requests_total",
		Help: "HTTP requests by route template and status class",
	}, []string{"route", "status"})

	EmbeddingRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "embedding_requests_total",
		Help: "Embedding provider calls by provider and outcome (success, failure, rejected)",
	}, []string{"provider", "outcome"})

	EmbeddingCacheLookups = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "embedding_cache_lookups_total",
		Help: "Embedding cache lookups by tier (memory, store) and result (hit, miss)",
	}, []string{"tier", "result"})

	CircuitBreakerState = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "embedding_circuit_breaker_state",
		Help: "Circuit breaker state: 0 closed, 1 half-open, 2 open",
	}, []string{"name"})
)

var once sync.Once

// Init registers the collectors once; safe to call from tests and main.
func Init() {
	once.Do(func() {
		prometheus.MustRegister(
			RecommendLatency,
			RecommendRequests,
			EmbeddingRequests,
			EmbeddingCacheLookups,
			CircuitBreakerState,
		)
	})
}
