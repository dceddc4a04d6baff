// internal/common/metrics/metrics.go
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	PushesCompleted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "los_pushes_completed_total",
			Help: "Total number of application pushes delivered to the LOS",
		},
		[]string{"integration"},
	)

	PushesFailed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "los_pushes_failed_total",
			Help: "Total number of application pushes that failed",
		},
		[]string{"integration", "error_code"},
	)

	PushDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "los_push_duration_seconds",
			Help: "Duration of a single push attempt in seconds",
		},
		[]string{"integration"},
	)

	PushesActive = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "los_pushes_active",
			Help: "Number of push attempts currently in flight",
		},
		[]string{"integration"},
	)
)
