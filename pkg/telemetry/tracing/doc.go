// Package tracing provides OpenTelemetry tracing for aggregation runs.
//
// Spans are created around whole aggregations ("aggregate.run") and around
// every file parse ("aggregate.file"); catalog writes add "catalog.save_run".
// When tracing is disabled a noop tracer is used and span creation costs next
// to nothing, so callers never need to check Enabled before starting spans.
//
//	tracer, err := tracing.New(&cfg.Telemetry.Tracing, version)
//	if err != nil {
//		return err
//	}
//	defer tracer.Shutdown(context.Background())
//
//	ctx, span := tracer.Start(ctx, "aggregate.run")
//	defer span.End()
package tracing
