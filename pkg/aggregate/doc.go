// Package aggregate loads every script file under a directory into one map
// keyed by file stem.
//
// # Rules
//
//   - The key of a file is its base name without extension ("GER.txt" → "GER").
//   - A file that fails to read or parse is absent from the result. The failure
//     is reported to the diagnostics sink (syntax_error or io_error) and listed
//     in Result.Files; it never affects other files.
//   - A file that parses to zero pairs is dropped.
//   - When two files share a stem, the one enumerated later wins and the
//     collision is recorded in Result.Collisions.
//   - Only a missing or unreadable root is returned as an error. Cancelling the
//     context abandons the whole aggregation and returns ctx.Err().
//
// Files are discovered in lexical order, parsed by a bounded pool of workers
// and merged by a single writer in discovery order, so results are
// deterministic regardless of the worker count.
//
// # Usage
//
//	agg := aggregate.New(cfg, sink, logger).WithMetrics(collector).WithTracer(tracer)
//
//	raw, err := agg.Raw(ctx, root, "common/scripted_variables")
//	countries, err := aggregate.Project(ctx, agg, root, "history/countries", hoi4.CountrySchema)
//
// Registry holds the latest result for long-running processes and Watcher
// re-runs an aggregation when files change.
package aggregate
