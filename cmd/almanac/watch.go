package main

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/script/ast"
	"clausewitz-hq/almanac/pkg/server"
)

var watchFlags struct {
	metricsAddr string
	debounce    time.Duration
}

var watchCmd = &cobra.Command{
	Use:   "watch ROOT [SUBPATH]",
	Short: "Re-aggregate a directory whenever its scripts change",
	Long: `Aggregate ROOT/SUBPATH, then watch it and re-aggregate after every
burst of file changes. The latest result replaces the previous one atomically.

With --metrics-addr a status server exposes /metrics, /health, /ready,
/stats and /entries/{stem}.

Examples:
  # Watch events and serve metrics on :9090
  almanac watch /path/to/hoi4 events --metrics-addr :9090

  # Longer quiet period for editors that save in several steps
  almanac watch /path/to/mod --debounce 1s`,
	Args: cobra.RangeArgs(1, 2),
	RunE: watchDirectory,
}

func init() {
	rootCmd.AddCommand(watchCmd)

	watchCmd.Flags().StringVar(&watchFlags.metricsAddr, "metrics-addr", "", "status and metrics listen address (overrides watch.metrics_address)")
	watchCmd.Flags().DurationVar(&watchFlags.debounce, "debounce", 0, "quiet period before re-aggregating (overrides watch.debounce)")
}

func watchDirectory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if watchFlags.metricsAddr != "" {
		a.cfg.Watch.MetricsAddress = watchFlags.metricsAddr
	}
	if watchFlags.debounce > 0 {
		a.cfg.Watch.Debounce = watchFlags.debounce
	}

	root, subpath := args[0], ""
	if len(args) > 1 {
		subpath = args[1]
	}

	ctx, stop := a.signalContext(cmd)
	defer stop()

	registry := aggregate.NewRegistry[[]ast.Pair]()
	reload := func(ctx context.Context) error {
		return reloadRegistry(ctx, a, registry, root, subpath)
	}
	if err := reload(ctx); err != nil {
		return cli.NewCommandError("watch", err)
	}

	watcher, err := aggregate.NewWatcher(aggregate.WatcherConfigFrom(a.cfg, filepath.Join(root, subpath)), a.logger)
	if err != nil {
		return cli.NewCommandError("watch", err)
	}
	defer watcher.Stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return watcher.Watch(ctx, reload)
	})
	if addr := a.cfg.Watch.MetricsAddress; addr != "" {
		srv := server.New(server.Config{
			Address:        addr,
			MetricsPath:    a.cfg.Telemetry.Metrics.Path,
			MetricsHandler: a.metrics.Handler(),
		}, server.RegistrySource(registry), a.logger)
		g.Go(func() error {
			return srv.Start(ctx)
		})
	}

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return cli.NewCommandError("watch", err)
	}
	return nil
}

// reloadRegistry aggregates root/subpath and installs the result. A failed
// aggregation keeps the previous result.
func reloadRegistry(ctx context.Context, a *app, registry *aggregate.Registry[[]ast.Pair], root, subpath string) error {
	result, err := a.agg.Raw(ctx, root, subpath)
	if err != nil {
		return err
	}

	changed, err := registry.Replace(result)
	if err != nil {
		return err
	}

	stats := registry.Stats()
	a.logger.Info("Aggregation loaded",
		"run_id", stats.RunID,
		"entries", stats.Entries,
		"failures", stats.Failures,
		"collisions", stats.Collisions,
		"version", stats.Version,
		"changed", changed,
	)
	return nil
}
