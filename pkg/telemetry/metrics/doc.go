// Package metrics provides Prometheus metrics for almanac.
//
// # Metrics
//
//   - almanac_files_processed_total{status}: files handled by the aggregator
//     (status is "ok", "empty", "syntax_error" or "io_error")
//   - almanac_parse_duration_seconds: per-file read and parse time
//   - almanac_pairs_parsed_total: top-level pairs produced by the parser
//   - almanac_diagnostics_total{code,severity}: diagnostics reported while parsing and projecting
//   - almanac_aggregation_duration_seconds{subpath}: wall time of one directory aggregation
//   - almanac_aggregation_entries{subpath}: entries in the latest aggregation result
//   - almanac_aggregation_collisions_total{subpath}: stem collisions resolved last-write-wins
//   - almanac_catalog_writes_total{table}: rows written to the catalog
//   - almanac_catalog_runs_pruned_total: runs deleted by retention
//
// # Usage
//
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	sink := diag.Tee(diag.NewLogSink(logger), collector)
//	http.Handle(cfg.Telemetry.Metrics.Path, collector.Handler())
//
// A disabled collector accepts every call and records nothing.
package metrics
