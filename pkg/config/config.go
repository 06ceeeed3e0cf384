package config

import "time"

// Config is the root configuration structure for almanac.
type Config struct {
	// Parser controls how individual script files are read and parsed.
	Parser ParserConfig `yaml:"parser"`

	// Aggregate controls directory discovery and the parse worker pool.
	Aggregate AggregateConfig `yaml:"aggregate"`

	// Watch controls the file watcher used by "almanac watch".
	Watch WatchConfig `yaml:"watch"`

	// Catalog contains the SQLite index settings used by "almanac index".
	Catalog CatalogConfig `yaml:"catalog"`

	// Telemetry contains logging, metrics and tracing configuration.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ParserConfig contains script parser configuration.
type ParserConfig struct {
	// MaxFileSize is the largest script file accepted, in bytes.
	// Default: 16777216 (16 MiB)
	MaxFileSize int64 `yaml:"max_file_size"`

	// StripNonASCII drops every byte >= 0x80 before parsing. Game files mix
	// UTF-8 and Windows-1252 text, mostly inside comments and localisation keys.
	// Default: true
	StripNonASCII bool `yaml:"strip_non_ascii"`

	// ContextLines is the number of source lines shown around a syntax error.
	// Default: 2
	ContextLines int `yaml:"context_lines"`
}

// AggregateConfig contains directory aggregation configuration.
type AggregateConfig struct {
	// Extensions lists the file extensions that are parsed.
	// Default: [".txt"]
	Extensions []string `yaml:"extensions"`

	// Workers is the number of files parsed concurrently.
	// Default: runtime.NumCPU()
	Workers int `yaml:"workers"`

	// SkipHidden skips files and directories whose name starts with ".".
	// Default: true
	SkipHidden bool `yaml:"skip_hidden"`

	// FollowSymlinks includes files reached through symbolic links.
	// Default: true
	FollowSymlinks bool `yaml:"follow_symlinks"`
}

// WatchConfig contains file watcher configuration.
type WatchConfig struct {
	// Debounce is the quiet period after the last change before re-aggregating.
	// Default: 250ms
	Debounce time.Duration `yaml:"debounce"`

	// MetricsAddress is the listen address for the /metrics endpoint while
	// watching. Empty disables the endpoint.
	// Default: ""
	MetricsAddress string `yaml:"metrics_address"`
}

// CatalogConfig contains SQLite catalog configuration.
type CatalogConfig struct {
	// Driver selects the database/sql driver.
	// Options: "sqlite" (pure Go, modernc.org/sqlite), "sqlite3" (cgo, mattn/go-sqlite3)
	// Default: "sqlite"
	Driver string `yaml:"driver"`

	// Path is the database file. ":memory:" keeps the catalog in memory.
	// Default: "data/almanac.db"
	Path string `yaml:"path"`

	// MaxOpenConns limits open database connections.
	// Default: 4
	MaxOpenConns int `yaml:"max_open_conns"`

	// WALMode enables write-ahead logging.
	// Default: true
	WALMode bool `yaml:"wal_mode"`

	// BusyTimeout is how long a writer waits on a locked database.
	// Default: 5s
	BusyTimeout time.Duration `yaml:"busy_timeout"`

	// KeepRuns is the number of most recent runs kept by pruning (0 keeps all).
	// Default: 20
	KeepRuns int `yaml:"keep_runs"`

	// Schedule is the cron expression for periodic re-indexing. Empty disables it.
	// Example: "*/15 * * * *"
	Schedule string `yaml:"schedule"`

	// PruneSchedule is the cron expression for pruning old runs.
	// Default: "0 3 * * *"
	PruneSchedule string `yaml:"prune_schedule"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging contains logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains metrics collection configuration.
	Metrics MetricsConfig `yaml:"metrics"`

	// Tracing contains distributed tracing configuration.
	Tracing TracingConfig `yaml:"tracing"`
}

// LoggingConfig contains logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level to emit. Diagnostics for unknown
	// identifiers are logged at debug.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format controls the log output format.
	// Options: "json", "text"
	// Default: "text"
	Format string `yaml:"format"`

	// AddSource includes file and line number in log entries.
	// Default: false
	AddSource bool `yaml:"add_source"`
}

// MetricsConfig contains metrics collection configuration.
type MetricsConfig struct {
	// Enabled controls whether metrics are recorded.
	// Default: true
	Enabled bool `yaml:"enabled"`

	// Path is the HTTP path for the Prometheus metrics endpoint.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "almanac"
	Namespace string `yaml:"namespace"`

	// Subsystem is the metric subsystem name.
	// Default: ""
	Subsystem string `yaml:"subsystem"`

	// ParseDurationBuckets defines histogram buckets for per-file parse time (seconds).
	// Default: [0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1]
	ParseDurationBuckets []float64 `yaml:"parse_duration_buckets"`
}

// TracingConfig contains distributed tracing configuration.
type TracingConfig struct {
	// Enabled controls whether spans are exported.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Sampler determines the sampling strategy.
	// Options: "always", "never", "ratio"
	// Default: "always"
	Sampler string `yaml:"sampler"`

	// SampleRatio is the fraction of traces to sample when Sampler is "ratio".
	// Default: 1.0
	SampleRatio float64 `yaml:"sample_ratio"`

	// Endpoint is the OTLP gRPC collector endpoint.
	// Example: "localhost:4317"
	Endpoint string `yaml:"endpoint"`

	// ServiceName is the service name in traces.
	// Default: "almanac"
	ServiceName string `yaml:"service_name"`

	// OTLP contains OTLP exporter specific configuration.
	OTLP OTLPConfig `yaml:"otlp"`
}

// OTLPConfig contains OTLP exporter configuration.
type OTLPConfig struct {
	// Insecure disables TLS for the OTLP connection.
	// Default: true
	Insecure bool `yaml:"insecure"`

	// Timeout is the timeout for OTLP exports.
	// Default: 10s
	Timeout time.Duration `yaml:"timeout"`
}
