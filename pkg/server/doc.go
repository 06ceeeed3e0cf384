// Package server provides the HTTP status server run alongside "almanac watch".
//
// The server exposes the registry holding the latest aggregation and the
// Prometheus metrics of the process:
//
//	GET /health          liveness, always 200
//	GET /ready           200 once the first aggregation has loaded, 503 before
//	GET /stats           registry statistics (run id, entries, failures, version)
//	GET /entries         sorted entry stems
//	GET /entries/{stem}  one entry as JSON
//	GET /metrics         Prometheus exposition (path configurable)
//
// Every request passes through request ID, logging and panic recovery
// middleware.
//
// # Basic Usage
//
//	registry := aggregate.NewRegistry[[]ast.Pair]()
//	srv := server.New(server.Config{
//	    Address:        ":9090",
//	    MetricsPath:    "/metrics",
//	    MetricsHandler: collector.Handler(),
//	}, server.RegistrySource(registry), logger)
//
//	// Blocks until ctx is cancelled, then shuts down gracefully.
//	if err := srv.Start(ctx); err != nil {
//	    log.Fatal(err)
//	}
package server
