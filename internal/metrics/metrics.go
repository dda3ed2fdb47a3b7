package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prediction pipeline metrics.
var (
	PredictionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travella",
			Name:      "predictions_total",
			Help:      "Total number of classified queries",
		},
		[]string{"intent", "confident"},
	)

	GenerationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travella",
			Name:      "generations_total",
			Help:      "Total generation attempts by provider and outcome",
		},
		[]string{"provider", "outcome"}, // "ok" / "error" / "cache_hit"
	)

	GenerationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "travella",
			Name:      "generation_duration_seconds",
			Help:      "Generation request duration in seconds",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 20, 30},
		},
		[]string{"provider"},
	)

	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "travella",
			Name:      "fallbacks_total",
			Help:      "Total deterministic fallback responses by reason",
		},
		[]string{"reason"}, // "unavailable" / "provider_error"
	)
)

var registerOnce sync.Once

// Register registers all metrics with the default registry. Safe to call more than once.
func Register() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			httpRequestDuration,
			httpRequestsTotal,
			PredictionsTotal,
			GenerationsTotal,
			GenerationDuration,
			FallbacksTotal,
		)
	})
}
