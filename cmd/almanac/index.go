package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/catalog"
	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/game"
	"clausewitz-hq/almanac/pkg/telemetry/logging"
)

var indexFlags struct {
	db       string
	driver   string
	game     string
	schedule string
	keep     int
}

var indexCmd = &cobra.Command{
	Use:   "index ROOT",
	Short: "Store aggregation runs in the SQLite catalog",
	Long: `Aggregate the game directories under ROOT and store every run in the
SQLite catalog: per-file status, top-level pairs and unknown identifiers.

With --schedule the command keeps running and re-indexes on the given cron
expression until interrupted. Old runs are pruned on catalog.prune_schedule.

Examples:
  # Index once
  almanac index /path/to/hoi4 --db data/almanac.db

  # Use the cgo SQLite driver
  almanac index /path/to/hoi4 --driver sqlite3

  # Re-index every 15 minutes
  almanac index /path/to/hoi4 --schedule "*/15 * * * *"`,
	Args: cobra.ExactArgs(1),
	RunE: indexGame,
}

func init() {
	rootCmd.AddCommand(indexCmd)

	indexCmd.Flags().StringVar(&indexFlags.db, "db", "", "catalog database path (overrides catalog.path)")
	indexCmd.Flags().StringVar(&indexFlags.driver, "driver", "", "SQLite driver: sqlite, sqlite3 (overrides catalog.driver)")
	indexCmd.Flags().StringVarP(&indexFlags.game, "game", "g", "auto", "game: auto, hoi4, stellaris")
	indexCmd.Flags().StringVar(&indexFlags.schedule, "schedule", "", "cron expression for re-indexing (overrides catalog.schedule)")
	indexCmd.Flags().IntVar(&indexFlags.keep, "keep", -1, "runs to keep after indexing, 0 keeps all (overrides catalog.keep_runs)")
}

// indexedRun is one row of the index command output.
type indexedRun struct {
	ID       string `json:"id" yaml:"id"`
	Subpath  string `json:"subpath" yaml:"subpath"`
	Files    int    `json:"files" yaml:"files"`
	Entries  int    `json:"entries" yaml:"entries"`
	Failures int    `json:"failures" yaml:"failures"`
	Unknown  int    `json:"unknown_fields" yaml:"unknown_fields"`
}

func indexGame(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	catalogCfg := a.cfg.Catalog
	if indexFlags.db != "" {
		catalogCfg.Path = indexFlags.db
	}
	if indexFlags.driver != "" {
		catalogCfg.Driver = indexFlags.driver
	}
	if indexFlags.schedule != "" {
		catalogCfg.Schedule = indexFlags.schedule
	}
	if indexFlags.keep >= 0 {
		catalogCfg.KeepRuns = indexFlags.keep
	}

	root := args[0]
	kind, err := resolveGame(root, indexFlags.game)
	if err != nil {
		return err
	}

	c, err := catalog.Open(&catalogCfg, a.metrics, a.logger)
	if err != nil {
		return cli.NewCommandError("index", err)
	}
	defer c.Close()

	ctx, stop := a.signalContext(cmd)
	defer stop()
	ctx = logging.WithGame(ctx, kind.String())

	runs, err := indexOnce(ctx, a, c, kind, root)
	if err != nil {
		return cli.NewCommandError("index", err)
	}
	if catalogCfg.KeepRuns > 0 {
		if _, err := c.Prune(ctx, catalogCfg.KeepRuns); err != nil {
			return cli.NewCommandError("index", err)
		}
	}

	table := &cli.Table{Headers: []string{"id", "subpath", "files", "entries", "failures", "unknown_fields"}}
	failed, total := 0, 0
	for _, r := range runs {
		table.Append(r.ID, r.Subpath, r.Files, r.Entries, r.Failures, r.Unknown)
		failed += r.Failures
		total += r.Files
	}
	if err := a.print(runs, table); err != nil {
		return err
	}

	if catalogCfg.Schedule == "" {
		if failed > 0 {
			return cli.NewPartialError(failed, total)
		}
		return nil
	}
	return scheduleIndex(ctx, a, c, kind, root, catalogCfg.Schedule, catalogCfg.PruneSchedule, catalogCfg.KeepRuns)
}

// indexOnce aggregates every directory of kind under root and saves one run
// per directory.
func indexOnce(ctx context.Context, a *app, c *catalog.Catalog, kind game.Kind, root string) ([]indexedRun, error) {
	var runs []indexedRun
	for _, p := range indexedPaths[kind] {
		result, err := a.agg.Raw(ctx, root, p.subpath)
		if err != nil {
			return runs, fmt.Errorf("failed to aggregate %s: %w", p.subpath, err)
		}

		snap := newSnapshot(kind, result, p.unknown, a.agg.Sink())
		if err := c.SaveRun(ctx, snap); err != nil {
			return runs, fmt.Errorf("failed to save run for %s: %w", p.subpath, err)
		}

		runs = append(runs, indexedRun{
			ID:       snap.Run.ID,
			Subpath:  p.subpath,
			Files:    snap.Run.Files,
			Entries:  snap.Run.Entries,
			Failures: snap.Run.Failures,
			Unknown:  len(snap.Unknown),
		})
	}
	return runs, nil
}

// scheduleIndex re-indexes and prunes on cron schedules until ctx is done.
func scheduleIndex(ctx context.Context, a *app, c *catalog.Catalog, kind game.Kind, root, schedule, pruneSchedule string, keep int) error {
	scheduler := catalog.NewScheduler(a.logger)

	reindex := func(ctx context.Context) error {
		_, err := indexOnce(ctx, a, c, kind, root)
		return err
	}
	if err := scheduler.Add(ctx, "reindex", schedule, reindex); err != nil {
		return cli.NewConfigError("catalog.schedule", err.Error())
	}
	if keep > 0 {
		if err := scheduler.Add(ctx, "prune", pruneSchedule, catalog.PruneJob(c, keep)); err != nil {
			return cli.NewConfigError("catalog.prune_schedule", err.Error())
		}
	}

	scheduler.Start(ctx)
	defer scheduler.Stop()

	if next := scheduler.NextRun("reindex"); next != nil {
		a.logger.Info("Re-indexing on schedule", "schedule", schedule, "next_run", next.Format("2006-01-02T15:04:05Z07:00"))
	}

	<-ctx.Done()
	a.logger.Info("Stopping scheduled indexing")
	return nil
}
