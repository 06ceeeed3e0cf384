package main

import (
	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/aggregate"
	"clausewitz-hq/almanac/pkg/cli"
	"clausewitz-hq/almanac/pkg/game"
	"clausewitz-hq/almanac/pkg/hoi4"
	"clausewitz-hq/almanac/pkg/stellaris"
	"clausewitz-hq/almanac/pkg/telemetry/logging"
)

var inspectFlags struct {
	game    string
	records bool
}

var inspectCmd = &cobra.Command{
	Use:   "inspect ROOT",
	Short: "Load typed records from a game installation",
	Long: `Detect the game installed under ROOT, load its typed records and print
a summary.

Hearts of Iron IV: country history, events and national focus trees.
Stellaris: scripted variables.

The game is detected from the revision file at the root (hoi4_rev.txt,
augustus_rev.txt) unless --game is given.

Examples:
  # Summary
  almanac inspect /path/to/hoi4

  # Every record as JSON
  almanac inspect /path/to/stellaris --records --output json`,
	Args: cobra.ExactArgs(1),
	RunE: inspectGame,
}

func init() {
	rootCmd.AddCommand(inspectCmd)

	inspectCmd.Flags().StringVarP(&inspectFlags.game, "game", "g", "auto", "game: auto, hoi4, stellaris")
	inspectCmd.Flags().BoolVar(&inspectFlags.records, "records", false, "print the typed records instead of a summary (json/yaml only)")
}

func inspectGame(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	if inspectFlags.records && (a.format == cli.FormatText || a.format == cli.FormatCSV) {
		return cli.NewConfigError("output", "--records requires --output json or yaml")
	}

	root := args[0]
	kind, err := resolveGame(root, inspectFlags.game)
	if err != nil {
		return err
	}

	ctx, stop := a.signalContext(cmd)
	defer stop()
	ctx = logging.WithGame(ctx, kind.String())
	a.withProgress()

	report := &summaryReport{Game: kind.String(), Root: root}
	var records interface{}
	var files []aggregate.FileStatus

	switch kind {
	case game.HOI4:
		g, err := hoi4.Load(ctx, a.agg, root)
		if err != nil {
			return cli.NewCommandError("inspect", err)
		}
		s := g.Summarize()
		report.Summary = s
		report.count("Countries", s.Countries)
		report.count("Events", s.Events)
		report.count("News events", s.NewsEvents)
		report.count("Focus trees", s.FocusTrees)
		report.count("Focuses", s.Focuses)
		report.count("Unknown fields", s.Unknown)
		report.count("Failed files", s.Failures)
		records = g
		files = append(files, g.Countries.Files...)
		files = append(files, g.Events.Files...)
		files = append(files, g.FocusTrees.Files...)

	case game.Stellaris:
		g, err := stellaris.Load(ctx, a.agg, root)
		if err != nil {
			return cli.NewCommandError("inspect", err)
		}
		s := g.Summarize()
		report.Summary = s
		report.count("Files", s.Files)
		report.count("Scripted variables", s.Variables)
		report.count("Unknown fields", s.Unknown)
		report.count("Failed files", s.Failures)
		records = g
		files = g.Files.Files
	}

	total := len(files)
	for _, f := range fileReports(files) {
		if f.Error != "" {
			report.Failures = append(report.Failures, f)
		}
	}

	if inspectFlags.records {
		err = a.print(records, nil)
	} else {
		err = a.print(report, report.table())
	}
	if err != nil {
		return err
	}

	if len(report.Failures) > 0 {
		return cli.NewPartialError(len(report.Failures), total)
	}
	return nil
}
