package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"clausewitz-hq/almanac/pkg/config"
	"clausewitz-hq/almanac/pkg/script/diag"
)

// Collector owns every almanac metric and the registry they are exposed from.
// All methods are safe for concurrent use.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	parseMetrics     *ParseMetrics
	aggregateMetrics *AggregateMetrics
	catalogMetrics   *CatalogMetrics
}

// NewCollector creates a collector and registers its metrics with registry.
// If registry is nil a new private registry is used. A nil cfg uses the
// defaults.
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if cfg == nil {
		cfg = &config.Default().Telemetry.Metrics
	}
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	if cfg.Namespace == "" {
		cfg.Namespace = config.DefaultMetricsNamespace
	}
	if len(cfg.ParseDurationBuckets) == 0 {
		cfg.ParseDurationBuckets = append([]float64(nil), config.DefaultParseDurationBuckets...)
	}

	return &Collector{
		config:           cfg,
		registry:         registry,
		parseMetrics:     NewParseMetrics(cfg, registry),
		aggregateMetrics: NewAggregateMetrics(cfg, registry),
		catalogMetrics:   NewCatalogMetrics(cfg, registry),
	}
}

// RecordFile records one processed file.
//
// Parameters:
//   - status: "ok", "empty", "syntax_error" or "io_error"
//   - duration: read and parse time
//   - pairs: number of top-level pairs produced
func (c *Collector) RecordFile(status string, duration time.Duration, pairs int) {
	if !c.config.Enabled {
		return
	}
	c.parseMetrics.RecordFile(status, duration, pairs)
}

// Report implements diag.Sink by counting the diagnostic.
func (c *Collector) Report(d diag.Diagnostic) {
	if !c.config.Enabled {
		return
	}
	c.parseMetrics.RecordDiagnostic(string(d.Code), d.Severity.String())
}

// RecordAggregation records a completed directory aggregation.
func (c *Collector) RecordAggregation(subpath string, duration time.Duration, entries, collisions int) {
	if !c.config.Enabled {
		return
	}
	c.aggregateMetrics.RecordAggregation(subpath, duration, entries, collisions)
}

// RecordCatalogWrite records rows written to a catalog table.
func (c *Collector) RecordCatalogWrite(table string, rows int) {
	if !c.config.Enabled {
		return
	}
	c.catalogMetrics.RecordWrite(table, rows)
}

// RecordCatalogPrune records runs deleted by retention.
func (c *Collector) RecordCatalogPrune(runs int) {
	if !c.config.Enabled {
		return
	}
	c.catalogMetrics.RecordPrune(runs)
}

// Registry returns the Prometheus registry used by this collector.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

var _ diag.Sink = (*Collector)(nil)
