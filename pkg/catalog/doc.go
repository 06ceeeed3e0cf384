// Package catalog persists aggregation runs to SQLite so that parsed game
// content can be queried with SQL after the fact.
//
// Each run stores one row per discovered file, one row per top-level pair of
// every loaded file (value rendered canonically) and, for typed runs, one row
// per unknown identifier captured by projection. Old runs are removed by Prune,
// typically from a Scheduler.
//
// Two drivers are supported: "sqlite" (modernc.org/sqlite, pure Go) and
// "sqlite3" (github.com/mattn/go-sqlite3, requires cgo).
//
//	cat, err := catalog.Open(&cfg.Catalog, collector, logger)
//	defer cat.Close()
//
//	snap := catalog.NewSnapshot("hoi4", raw)
//	err = cat.SaveRun(ctx, snap)
package catalog
