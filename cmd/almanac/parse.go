package main

import (
	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/cli"
)

var parseCmd = &cobra.Command{
	Use:   "parse FILE...",
	Short: "Parse script files and print their pairs",
	Long: `Parse one or more script files and print the generic pair tree.

Text output is the canonical rendering, which parses back to the same tree.
Files that fail to parse are reported and the command exits with status 3.

Examples:
  # Canonical rendering
  almanac parse history/countries/GER.txt

  # JSON tree
  almanac parse events/*.txt --output json

  # One row per top-level pair
  almanac parse common/national_focus/germany.txt --output csv`,
	Args: cobra.MinimumNArgs(1),
	RunE: parseFiles,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func parseFiles(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	defer a.close()

	report := &parseReport{Files: make([]parsedFile, 0, len(args))}
	for _, path := range args {
		pairs, err := a.agg.LoadFile(path)
		if err != nil {
			a.logger.Error("Failed to parse file", "file", path, "error", err)
			report.Files = append(report.Files, parsedFile{Path: path, Error: err.Error()})
			continue
		}
		report.Files = append(report.Files, parsedFile{Path: path, Pairs: pairs})
	}

	if err := a.print(report, report.table()); err != nil {
		return err
	}
	if failed := report.failed(); failed > 0 {
		return cli.NewPartialError(failed, len(args))
	}
	return nil
}
