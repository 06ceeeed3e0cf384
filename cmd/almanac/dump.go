package main

import (
	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/cli"
)

var dumpFlags struct {
	files bool
}

var dumpCmd = &cobra.Command{
	Use:   "dump ROOT [SUBPATH]",
	Short: "Aggregate a directory into stem -> pairs",
	Long: `Aggregate every script file under ROOT/SUBPATH and print the entries
keyed by file stem.

Files are parsed in parallel; a file that fails to load is reported and
skipped without affecting the others. When two files share a stem, the one
discovered last wins.

Examples:
  # All country history files
  almanac dump /path/to/hoi4 history/countries

  # Per-file status as CSV
  almanac dump /path/to/hoi4 events --files --output csv`,
	Args: cobra.RangeArgs(1, 2),
	RunE: dumpDirectory,
}

func init() {
	rootCmd.AddCommand(dumpCmd)

	dumpCmd.Flags().BoolVar(&dumpFlags.files, "files", false, "print per-file status instead of entries")
}

func dumpDirectory(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	root, subpath := args[0], ""
	if len(args) > 1 {
		subpath = args[1]
	}

	ctx, stop := a.signalContext(cmd)
	defer stop()

	a.withProgress()
	result, err := a.agg.Raw(ctx, root, subpath)
	if err != nil {
		return cli.NewCommandError("dump", err)
	}

	if dumpFlags.files {
		err = a.print(fileReports(result.Files), filesTable(result.Files))
	} else {
		err = a.print(newDumpReport(result), pairsTable(result.Entries))
	}
	if err != nil {
		return err
	}

	if failed := len(result.Failures()); failed > 0 {
		return cli.NewPartialError(failed, len(result.Files))
	}
	return nil
}
