// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	ProviderAttempts = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_attempts_total",
			Help: "Total number of provider invocations attempted",
		},
		[]string{"vendor", "capability"},
	)

	ProviderFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_failures_total",
			Help: "Total number of provider invocations that failed",
		},
		[]string{"vendor", "error_code"},
	)

	CircuitTrips = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_circuit_trips_total",
			Help: "Total number of per-run circuit breaker trips",
		},
		[]string{"vendor"},
	)

	ChainExhaustions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "provider_chain_exhaustions_total",
			Help: "Total number of fallback chains exhausted without success",
		},
		[]string{"capability", "tier"},
	)

	HeuristicFallbacks = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analyzer_heuristic_fallbacks_total",
			Help: "Total number of analyses served by the heuristic analyzer",
		},
		[]string{"reason"},
	)

	OpportunitiesProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "opportunities_produced_total",
			Help: "Total number of content opportunities produced",
		},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name: "pipeline_batch_duration_seconds",
			Help: "Duration of batch orchestration runs in seconds",
		},
	)
)
