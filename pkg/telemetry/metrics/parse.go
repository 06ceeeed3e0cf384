package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"clausewitz-hq/almanac/pkg/config"
)

// ParseMetrics tracks per-file parsing.
type ParseMetrics struct {
	filesTotal       *prometheus.CounterVec
	parseDuration    prometheus.Histogram
	pairsTotal       prometheus.Counter
	diagnosticsTotal *prometheus.CounterVec
}

// NewParseMetrics creates and registers parse metrics with the provided registry.
func NewParseMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *ParseMetrics {
	pm := &ParseMetrics{
		filesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "files_processed_total",
				Help:      "Total number of script files processed, by outcome",
			},
			[]string{"status"},
		),

		parseDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "parse_duration_seconds",
				Help:      "Time to read and parse one script file in seconds",
				Buckets:   cfg.ParseDurationBuckets,
			},
		),

		pairsTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "pairs_parsed_total",
				Help:      "Total number of top-level pairs parsed",
			},
		),

		diagnosticsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "diagnostics_total",
				Help:      "Total number of diagnostics reported, by code and severity",
			},
			[]string{"code", "severity"},
		),
	}

	registry.MustRegister(
		pm.filesTotal,
		pm.parseDuration,
		pm.pairsTotal,
		pm.diagnosticsTotal,
	)

	return pm
}

// RecordFile records one processed file.
func (pm *ParseMetrics) RecordFile(status string, duration time.Duration, pairs int) {
	pm.filesTotal.WithLabelValues(status).Inc()
	pm.parseDuration.Observe(duration.Seconds())
	if pairs > 0 {
		pm.pairsTotal.Add(float64(pairs))
	}
}

// RecordDiagnostic counts one diagnostic.
func (pm *ParseMetrics) RecordDiagnostic(code, severity string) {
	pm.diagnosticsTotal.WithLabelValues(code, severity).Inc()
}
