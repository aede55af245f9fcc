package crosspost

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	publishTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspost_publish_total",
			Help: "Total publish attempts by platform and outcome",
		},
		[]string{"platform", "outcome"},
	)

	publishDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crosspost_publish_duration_seconds",
			Help:    "Publish attempt duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 15, 30},
		},
		[]string{"platform"},
	)

	skippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crosspost_skipped_total",
			Help: "Publishes skipped because a prior attempt already succeeded",
		},
		[]string{"platform"},
	)
)

// ObservePublish records one resolved publish attempt
func ObservePublish(platform string, success bool, elapsed time.Duration) {
	outcome := "failed"
	if success {
		outcome = "success"
	}
	publishTotal.WithLabelValues(platform, outcome).Inc()
	publishDuration.WithLabelValues(platform).Observe(elapsed.Seconds())
}

// ObserveSkip records an idempotent short-circuit
func ObserveSkip(platform string) {
	skippedTotal.WithLabelValues(platform).Inc()
}
