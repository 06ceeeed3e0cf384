package config

import (
	"runtime"
	"time"
)

// Default values for configuration fields.
const (
	// Parser defaults
	DefaultMaxFileSize   = int64(16 * 1024 * 1024) // 16 MiB
	DefaultStripNonASCII = true
	DefaultContextLines  = 2

	// Aggregate defaults
	DefaultExtension      = ".txt"
	DefaultSkipHidden     = true
	DefaultFollowSymlinks = true

	// Watch defaults
	DefaultWatchDebounce = 250 * time.Millisecond

	// Catalog defaults
	DefaultCatalogDriver        = "sqlite"
	DefaultCatalogPath          = "data/almanac.db"
	DefaultCatalogMaxOpenConns  = 4
	DefaultCatalogWALMode       = true
	DefaultCatalogBusyTimeout   = 5 * time.Second
	DefaultCatalogKeepRuns      = 20
	DefaultCatalogPruneSchedule = "0 3 * * *"

	// Telemetry defaults
	DefaultLoggingLevel      = "info"
	DefaultLoggingFormat     = "text"
	DefaultMetricsEnabled    = true
	DefaultPrometheusPath    = "/metrics"
	DefaultMetricsNamespace  = "almanac"
	DefaultTracingEnabled    = false
	DefaultTracingSampler    = "always"
	DefaultTracingRatio      = 1.0
	DefaultTracingService    = "almanac"
	DefaultOTLPInsecure      = true
	DefaultOTLPExportTimeout = 10 * time.Second
)

// DefaultParseDurationBuckets are histogram buckets for per-file parse time.
// Most game files parse in well under 10ms; the largest history files take ~100ms.
var DefaultParseDurationBuckets = []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1}

// Default returns a configuration with every field set to its default.
func Default() *Config {
	cfg := &Config{
		Parser: ParserConfig{
			StripNonASCII: DefaultStripNonASCII,
		},
		Aggregate: AggregateConfig{
			SkipHidden:     DefaultSkipHidden,
			FollowSymlinks: DefaultFollowSymlinks,
		},
		Catalog: CatalogConfig{
			WALMode: DefaultCatalogWALMode,
		},
		Telemetry: TelemetryConfig{
			Metrics: MetricsConfig{Enabled: DefaultMetricsEnabled},
			Tracing: TracingConfig{
				Enabled: DefaultTracingEnabled,
				OTLP:    OTLPConfig{Insecure: DefaultOTLPInsecure},
			},
		},
	}
	ApplyDefaults(cfg)
	return cfg
}

// ApplyDefaults sets defaults for any fields that have zero values.
// Booleans are left alone: a false there is indistinguishable from an explicit
// false, so boolean defaults come from Default instead.
// This function is idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Parser defaults
	if cfg.Parser.MaxFileSize == 0 {
		cfg.Parser.MaxFileSize = DefaultMaxFileSize
	}
	if cfg.Parser.ContextLines == 0 {
		cfg.Parser.ContextLines = DefaultContextLines
	}

	// Aggregate defaults
	if len(cfg.Aggregate.Extensions) == 0 {
		cfg.Aggregate.Extensions = []string{DefaultExtension}
	}
	if cfg.Aggregate.Workers == 0 {
		cfg.Aggregate.Workers = runtime.NumCPU()
	}

	// Watch defaults
	if cfg.Watch.Debounce == 0 {
		cfg.Watch.Debounce = DefaultWatchDebounce
	}

	applyCatalogDefaults(&cfg.Catalog)
	applyTelemetryDefaults(&cfg.Telemetry)
}

func applyCatalogDefaults(cfg *CatalogConfig) {
	if cfg.Driver == "" {
		cfg.Driver = DefaultCatalogDriver
	}
	if cfg.Path == "" {
		cfg.Path = DefaultCatalogPath
	}
	if cfg.MaxOpenConns == 0 {
		cfg.MaxOpenConns = DefaultCatalogMaxOpenConns
	}
	if cfg.BusyTimeout == 0 {
		cfg.BusyTimeout = DefaultCatalogBusyTimeout
	}
	if cfg.KeepRuns == 0 {
		cfg.KeepRuns = DefaultCatalogKeepRuns
	}
	if cfg.PruneSchedule == "" {
		cfg.PruneSchedule = DefaultCatalogPruneSchedule
	}
}

func applyTelemetryDefaults(cfg *TelemetryConfig) {
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = DefaultLoggingFormat
	}

	if cfg.Metrics.Path == "" {
		cfg.Metrics.Path = DefaultPrometheusPath
	}
	if cfg.Metrics.Namespace == "" {
		cfg.Metrics.Namespace = DefaultMetricsNamespace
	}
	if len(cfg.Metrics.ParseDurationBuckets) == 0 {
		cfg.Metrics.ParseDurationBuckets = append([]float64(nil), DefaultParseDurationBuckets...)
	}

	if cfg.Tracing.Sampler == "" {
		cfg.Tracing.Sampler = DefaultTracingSampler
	}
	if cfg.Tracing.SampleRatio == 0 {
		cfg.Tracing.SampleRatio = DefaultTracingRatio
	}
	if cfg.Tracing.ServiceName == "" {
		cfg.Tracing.ServiceName = DefaultTracingService
	}
	if cfg.Tracing.OTLP.Timeout == 0 {
		cfg.Tracing.OTLP.Timeout = DefaultOTLPExportTimeout
	}
}
