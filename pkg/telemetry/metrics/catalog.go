package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"clausewitz-hq/almanac/pkg/config"
)

// CatalogMetrics tracks catalog persistence.
type CatalogMetrics struct {
	writesTotal *prometheus.CounterVec
	prunedTotal prometheus.Counter
}

// NewCatalogMetrics creates and registers catalog metrics.
func NewCatalogMetrics(cfg *config.MetricsConfig, registry *prometheus.Registry) *CatalogMetrics {
	cm := &CatalogMetrics{
		writesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_writes_total",
				Help:      "Total number of rows written to the catalog, by table",
			},
			[]string{"table"},
		),

		prunedTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: cfg.Namespace,
				Subsystem: cfg.Subsystem,
				Name:      "catalog_runs_pruned_total",
				Help:      "Total number of runs deleted by catalog retention",
			},
		),
	}

	registry.MustRegister(cm.writesTotal, cm.prunedTotal)

	return cm
}

// RecordWrite records rows written to table.
func (cm *CatalogMetrics) RecordWrite(table string, rows int) {
	cm.writesTotal.WithLabelValues(table).Add(float64(rows))
}

// RecordPrune records deleted runs.
func (cm *CatalogMetrics) RecordPrune(runs int) {
	cm.prunedTotal.Add(float64(runs))
}
