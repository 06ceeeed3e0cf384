// Package logging builds the structured logger used across almanac.
//
// It wraps log/slog with level and format parsing from configuration and a
// handler that copies well-known context values onto every record logged with
// a *Context method:
//
//	logger, err := logging.New(logging.FromConfig(cfg.Telemetry.Logging, os.Stderr))
//	ctx = logging.WithRunID(ctx, runID)
//	logger.InfoContext(ctx, "aggregation finished", "files", 12)
//	// ... run_id=<uuid> files=12
//
// Spans started by the tracing package contribute trace_id and span_id.
package logging
