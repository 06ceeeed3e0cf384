package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// The file is decoded on top of Default(), remaining zero values are filled by
// ApplyDefaults, and the result is validated.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Parse decodes a YAML document on top of the defaults without validating it.
func Parse(data []byte) (*Config, error) {
	cfg := Default()

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}

	ApplyDefaults(cfg)
	return cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. An empty path loads the defaults only.
// Environment variables follow the naming convention ALMANAC_SECTION_FIELD and
// always take precedence over file-based configuration.
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		var err error
		cfg, err = LoadConfig(path)
		if err != nil {
			return nil, err
		}
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the configuration.
// Malformed numeric, boolean and duration values are ignored.
func applyEnvOverrides(cfg *Config) {
	// Parser overrides
	envInt64("ALMANAC_PARSER_MAX_FILE_SIZE", &cfg.Parser.MaxFileSize)
	envBool("ALMANAC_PARSER_STRIP_NON_ASCII", &cfg.Parser.StripNonASCII)
	envInt("ALMANAC_PARSER_CONTEXT_LINES", &cfg.Parser.ContextLines)

	// Aggregate overrides
	if val := os.Getenv("ALMANAC_AGGREGATE_EXTENSIONS"); val != "" {
		var exts []string
		for _, ext := range strings.Split(val, ",") {
			if ext = strings.TrimSpace(ext); ext != "" {
				exts = append(exts, ext)
			}
		}
		cfg.Aggregate.Extensions = exts
	}
	envInt("ALMANAC_AGGREGATE_WORKERS", &cfg.Aggregate.Workers)
	envBool("ALMANAC_AGGREGATE_SKIP_HIDDEN", &cfg.Aggregate.SkipHidden)
	envBool("ALMANAC_AGGREGATE_FOLLOW_SYMLINKS", &cfg.Aggregate.FollowSymlinks)

	// Watch overrides
	envDuration("ALMANAC_WATCH_DEBOUNCE", &cfg.Watch.Debounce)
	envString("ALMANAC_WATCH_METRICS_ADDRESS", &cfg.Watch.MetricsAddress)

	// Catalog overrides
	envString("ALMANAC_CATALOG_DRIVER", &cfg.Catalog.Driver)
	envString("ALMANAC_CATALOG_PATH", &cfg.Catalog.Path)
	envBool("ALMANAC_CATALOG_WAL_MODE", &cfg.Catalog.WALMode)
	envDuration("ALMANAC_CATALOG_BUSY_TIMEOUT", &cfg.Catalog.BusyTimeout)
	envInt("ALMANAC_CATALOG_KEEP_RUNS", &cfg.Catalog.KeepRuns)
	envString("ALMANAC_CATALOG_SCHEDULE", &cfg.Catalog.Schedule)
	envString("ALMANAC_CATALOG_PRUNE_SCHEDULE", &cfg.Catalog.PruneSchedule)

	// Telemetry overrides
	envString("ALMANAC_TELEMETRY_LOGGING_LEVEL", &cfg.Telemetry.Logging.Level)
	envString("ALMANAC_TELEMETRY_LOGGING_FORMAT", &cfg.Telemetry.Logging.Format)
	envBool("ALMANAC_TELEMETRY_METRICS_ENABLED", &cfg.Telemetry.Metrics.Enabled)
	envString("ALMANAC_TELEMETRY_METRICS_PATH", &cfg.Telemetry.Metrics.Path)
	envBool("ALMANAC_TELEMETRY_TRACING_ENABLED", &cfg.Telemetry.Tracing.Enabled)
	envString("ALMANAC_TELEMETRY_TRACING_ENDPOINT", &cfg.Telemetry.Tracing.Endpoint)
	envFloat("ALMANAC_TELEMETRY_TRACING_SAMPLE_RATIO", &cfg.Telemetry.Tracing.SampleRatio)
}

func envString(key string, dst *string) {
	if val := os.Getenv(key); val != "" {
		*dst = val
	}
}

func envBool(key string, dst *bool) {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			*dst = b
		}
	}
}

func envInt(key string, dst *int) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			*dst = i
		}
	}
}

func envInt64(key string, dst *int64) {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			*dst = i
		}
	}
}

func envFloat(key string, dst *float64) {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			*dst = f
		}
	}
}

func envDuration(key string, dst *time.Duration) {
	if val := os.Getenv(key); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			*dst = d
		}
	}
}
