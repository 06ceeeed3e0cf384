// Package config provides configuration management for almanac.
//
// Configuration is read from a YAML file and layered as follows (later
// layers override earlier ones):
//
//  1. Built-in defaults (see Default and defaults.go)
//  2. Values from the YAML file
//  3. Environment variable overrides (ALMANAC_SECTION_FIELD)
//  4. Validation (fails fast, reporting every invalid field at once)
//
// The YAML document is decoded on top of Default(), so boolean settings that
// default to true stay true unless the file sets them to false explicitly.
//
// # Environment Variable Overrides
//
//   - ALMANAC_PARSER_STRIP_NON_ASCII overrides parser.strip_non_ascii
//   - ALMANAC_AGGREGATE_WORKERS overrides aggregate.workers
//   - ALMANAC_CATALOG_PATH overrides catalog.path
//   - ALMANAC_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// # Example
//
//	cfg, err := config.LoadConfigWithEnvOverrides("almanac.yaml")
//	if err != nil {
//		return err
//	}
//	agg := aggregate.New(cfg, sink, logger)
package config
