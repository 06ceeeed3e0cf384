package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"clausewitz-hq/almanac/pkg/config"
)

// AggregateMetrics tracks directory aggregations. The subpath label is the
// directory relative to the game root ("history/countries", "events", ...),
// so its cardinality is bounded by the number of loaders.
type AggregateMetrics struct {
	duration   *prometheus.HistogramVec
	entries    *prometheus.GaugeVec
	collisions *prometheus.CounterVec
}

// NewAggregateMetrics creates and registers aggregation metrics.
func NewAggregateMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *AggregateMetrics {
	am := &AggregateMetrics{
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "aggregation_duration_seconds",
				Help:      "Wall time of one directory aggregation in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12), // 10ms to ~20s
			},
			[]string{"subpath"},
		),

		entries: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "aggregation_entries",
				Help:      "Number of entries in the latest aggregation result",
			},
			[]string{"subpath"},
		),

		collisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "aggregation_collisions_total",
				Help:      "Total number of file stem collisions resolved last-write-wins",
			},
			[]string{"subpath"},
		),
	}

	registry.MustRegister(am.duration, am.entries, am.collisions)

	return am
}

// RecordAggregation records a completed aggregation.
func (am *AggregateMetrics) RecordAggregation(subpath string, duration time.Duration, entries, collisions int) {
	if subpath == "" {
		subpath = "."
	}
	am.duration.WithLabelValues(subpath).Observe(duration.Seconds())
	am.entries.WithLabelValues(subpath).Set(float64(entries))
	if collisions > 0 {
		am.collisions.WithLabelValues(subpath).Add(float64(collisions))
	}
}
