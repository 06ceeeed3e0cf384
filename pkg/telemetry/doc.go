// Package telemetry groups the observability packages used by almanac.
//
//   - logging: log/slog construction and context fields (run_id, game, file)
//   - metrics: Prometheus collector for parsing, aggregation and catalog writes
//   - tracing: OpenTelemetry spans around aggregation runs and file parses
//
// Diagnostics reach both logs and metrics through a single diag.Sink:
//
//	sink := diag.Tee(diag.NewLogSink(logger), collector)
package telemetry
