package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"clausewitz-hq/almanac/pkg/catalog"
	"clausewitz-hq/almanac/pkg/cli"
)

var catalogFlags struct {
	db         string
	driver     string
	run        string
	stem       string
	identifier string
	limit      int
}

var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Query the SQLite catalog",
	Long: `Query aggregation runs stored by "almanac index".

Subcommands:
  runs     - List runs, newest first
  files    - Per-file status of a run
  pairs    - Search stored top-level pairs
  unknown  - Count unknown identifiers of a run

Examples:
  # Latest runs
  almanac catalog runs --limit 5

  # Every stored "capital" pair of the GER file
  almanac catalog pairs --stem GER --identifier capital

  # Identifiers the typed records do not know, as CSV
  almanac catalog unknown --output csv`,
}

var catalogRunsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List stored runs",
	Args:  cobra.NoArgs,
	RunE:  catalogRuns,
}

var catalogFilesCmd = &cobra.Command{
	Use:   "files [RUN_ID]",
	Short: "Show the file status of a run (default: newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  catalogFiles,
}

var catalogPairsCmd = &cobra.Command{
	Use:   "pairs",
	Short: "Search stored top-level pairs",
	Args:  cobra.NoArgs,
	RunE:  catalogPairs,
}

var catalogUnknownCmd = &cobra.Command{
	Use:   "unknown [RUN_ID]",
	Short: "Count unknown identifiers of a run (default: newest)",
	Args:  cobra.MaximumNArgs(1),
	RunE:  catalogUnknown,
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogRunsCmd, catalogFilesCmd, catalogPairsCmd, catalogUnknownCmd)

	catalogCmd.PersistentFlags().StringVar(&catalogFlags.db, "db", "", "catalog database path (overrides catalog.path)")
	catalogCmd.PersistentFlags().StringVar(&catalogFlags.driver, "driver", "", "SQLite driver: sqlite, sqlite3 (overrides catalog.driver)")
	catalogCmd.PersistentFlags().IntVar(&catalogFlags.limit, "limit", 0, "maximum rows (0 for no limit)")

	catalogPairsCmd.Flags().StringVar(&catalogFlags.run, "run", "", "run id")
	catalogPairsCmd.Flags().StringVar(&catalogFlags.stem, "stem", "", "file stem")
	catalogPairsCmd.Flags().StringVar(&catalogFlags.identifier, "identifier", "", "pair identifier")
}

// openCatalog opens the catalog named by the flags and configuration.
func openCatalog(cmd *cobra.Command) (*app, *catalog.Catalog, error) {
	a, err := newApp(cmd)
	if err != nil {
		return nil, nil, err
	}

	cfg := a.cfg.Catalog
	if catalogFlags.db != "" {
		cfg.Path = catalogFlags.db
	}
	if catalogFlags.driver != "" {
		cfg.Driver = catalogFlags.driver
	}

	c, err := catalog.Open(&cfg, a.metrics, a.logger)
	if err != nil {
		a.close()
		return nil, nil, cli.NewCommandError("catalog", err)
	}
	return a, c, nil
}

// runID returns the run named in args, or the newest run.
func runID(cmd *cobra.Command, c *catalog.Catalog, args []string) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	runs, err := c.Runs(commandContext(cmd), 1)
	if err != nil {
		return "", err
	}
	if len(runs) == 0 {
		return "", catalog.ErrRunNotFound
	}
	return runs[0].ID, nil
}

func catalogRuns(cmd *cobra.Command, args []string) error {
	a, c, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer c.Close()

	runs, err := c.Runs(commandContext(cmd), catalogFlags.limit)
	if err != nil {
		return cli.NewCommandError("catalog runs", err)
	}

	table := &cli.Table{Headers: []string{"id", "game", "subpath", "started_at", "duration", "files", "entries", "failures", "collisions"}}
	for _, r := range runs {
		table.Append(r.ID, r.Game, r.Subpath, r.StartedAt.Format(time.RFC3339), r.Duration.Round(time.Millisecond),
			r.Files, r.Entries, r.Failures, r.Collisions)
	}
	return a.print(runs, table)
}

func catalogFiles(cmd *cobra.Command, args []string) error {
	a, c, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer c.Close()

	id, err := runID(cmd, c, args)
	if err != nil {
		return cli.NewCommandError("catalog files", err)
	}
	if _, err := c.GetRun(commandContext(cmd), id); err != nil {
		return cli.NewCommandError("catalog files", err)
	}

	files, err := c.Files(commandContext(cmd), id)
	if err != nil {
		return cli.NewCommandError("catalog files", err)
	}

	table := &cli.Table{Headers: []string{"path", "stem", "status", "pairs", "bytes", "error"}}
	for _, f := range files {
		table.Append(f.Path, f.Stem, f.Status, f.Pairs, f.Bytes, f.Error)
	}
	return a.print(files, table)
}

func catalogPairs(cmd *cobra.Command, args []string) error {
	a, c, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer c.Close()

	pairs, err := c.FindPairs(commandContext(cmd), catalog.PairQuery{
		RunID:      catalogFlags.run,
		Stem:       catalogFlags.stem,
		Identifier: catalogFlags.identifier,
		Limit:      catalogFlags.limit,
	})
	if err != nil {
		return cli.NewCommandError("catalog pairs", err)
	}

	table := &cli.Table{Headers: []string{"run_id", "stem", "position", "identifier", "sign", "kind", "value", "line"}}
	for _, p := range pairs {
		table.Append(p.RunID, p.Stem, p.Position, p.Identifier, p.Sign, p.Kind, p.Value, p.Line)
	}
	return a.print(pairs, table)
}

func catalogUnknown(cmd *cobra.Command, args []string) error {
	a, c, err := openCatalog(cmd)
	if err != nil {
		return err
	}
	defer a.close()
	defer c.Close()

	id, err := runID(cmd, c, args)
	if errors.Is(err, catalog.ErrRunNotFound) {
		return cli.NewCommandError("catalog unknown", errors.New("catalog has no runs; run almanac index first"))
	}
	if err != nil {
		return cli.NewCommandError("catalog unknown", err)
	}

	counts, err := c.UnknownIdentifiers(commandContext(cmd), id)
	if err != nil {
		return cli.NewCommandError("catalog unknown", err)
	}
	if catalogFlags.limit > 0 && len(counts) > catalogFlags.limit {
		counts = counts[:catalogFlags.limit]
	}

	table := &cli.Table{Headers: []string{"record", "identifier", "count"}}
	for _, ic := range counts {
		table.Append(ic.Record, ic.Identifier, ic.Count)
	}
	return a.print(counts, table)
}
