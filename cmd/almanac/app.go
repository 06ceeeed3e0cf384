package main

import (
	"context"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/config"
	"clausewitz-hq/almanac/pkg/script/diag"
	"clausewitz-hq/almanac/pkg/telemetry/logging"
	"clausewitz-hq/almanac/pkg/telemetry/metrics"
	"clausewitz-hq/almanac/pkg/telemetry/tracing"
)

// app holds the components every command is built from.
type app struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Collector
	tracer  *tracing.Tracer
	agg     *aggregate.Aggregator
	format  cli.OutputFormat
	out     io.Writer
	errOut  io.Writer
}

// newApp loads the configuration and wires logging, metrics, tracing and the
// aggregator. Diagnostics go to the log and to the metrics collector.
func newApp(cmd *cobra.Command) (*app, error) {
	format, err := cli.ParseOutputFormat(outputFormat)
	if err != nil {
		return nil, err
	}

	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return nil, cli.NewConfigError("", err.Error())
	}
	if verbose {
		cfg.Telemetry.Logging.Level = "debug"
	}

	a := &app{
		cfg:    cfg,
		format: format,
		out:    os.Stdout,
		errOut: os.Stderr,
	}
	if cmd != nil {
		a.out = cmd.OutOrStdout()
		a.errOut = cmd.ErrOrStderr()
	}

	a.logger, err = logging.New(logging.FromConfig(cfg.Telemetry.Logging, a.errOut))
	if err != nil {
		return nil, cli.NewConfigError("telemetry.logging", err.Error())
	}

	a.metrics = metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	a.tracer, err = tracing.New(&cfg.Telemetry.Tracing, Version)
	if err != nil {
		a.logger.Warn("Tracing disabled", "error", err)
		a.tracer = tracing.Noop()
	}

	sink := diag.Tee(diag.NewLogSink(a.logger), a.metrics)
	a.agg = aggregate.New(cfg, sink, a.logger).
		WithMetrics(a.metrics).
		WithTracer(a.tracer)

	return a, nil
}

// close flushes pending spans.
func (a *app) close() {
	if err := a.tracer.Shutdown(context.Background()); err != nil {
		a.logger.Warn("Failed to flush traces", "error", err)
	}
}

// print writes data in the selected format. CSV output, and text output of
// data without its own text form, use table.
func (a *app) print(data interface{}, table *cli.Table) error {
	switch a.format {
	case cli.FormatCSV:
		if table == nil {
			return cli.NewConfigError("output", "csv is not supported by this command")
		}
		data = table
	case cli.FormatText:
		if _, ok := data.(cli.TextRenderer); !ok && table != nil {
			data = table
		}
	}
	return cli.NewFormatter(a.format).FormatTo(a.out, data)
}

// withProgress shows a progress bar on stderr for text output.
func (a *app) withProgress() {
	if a.format == cli.FormatText && !verbose {
		a.agg.WithProgress(cli.NewProgressReporter(a.errOut))
	}
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func (a *app) signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return cli.SetupSignalHandler(commandContext(cmd), a.logger)
}

// commandContext returns the command's context, or context.Background when
// the command was not started through Execute.
func commandContext(cmd *cobra.Command) context.Context {
	if cmd != nil && cmd.Context() != nil {
		return cmd.Context()
	}
	return context.Background()
}
