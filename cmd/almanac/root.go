package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/cli"
)

var (
	// Global flags
	cfgFile      string
	verbose      bool
	outputFormat string
)

var rootCmd = &cobra.Command{
	Use:   "almanac",
	Short: "Almanac - Clausewitz script parser and game data indexer",
	Long: `Almanac reads the plain-text scripts of Paradox Clausewitz engine games
(Hearts of Iron IV, Stellaris) and turns them into structured data.

It provides:
  - A tolerant parser producing a generic key/value tree
  - Typed records for countries, events, national focuses and scripted variables
  - Directory aggregation keyed by file stem with per-file fault isolation
  - A SQLite catalog of aggregation runs
  - A watcher that re-aggregates on change and exposes Prometheus metrics`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command and exits with the code selected by the
// returned error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(cli.ExitCode(err))
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (defaults only when empty)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level, including unknown identifiers")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "text", "output format: text, json, yaml, csv")
}
