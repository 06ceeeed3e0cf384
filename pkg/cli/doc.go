/*
Package cli provides command-line interface utilities for almanac.

Output Formatting:

Results can be printed as text, JSON, YAML or CSV:

	formatter := cli.NewFormatter(cli.FormatJSON)
	if err := formatter.FormatTo(os.Stdout, result); err != nil {
		return err
	}

Values implementing TextRenderer control their own text output; tables are
written as aligned columns in text mode and as rows in CSV mode.

Progress Reporting:

	progress := cli.NewProgressReporter(os.Stderr)
	agg.WithProgress(progress)

Exit Codes:

Commands return an *ExitError to select the process exit code; ExitCode maps
any error to one.

Signal Handling:

	ctx, stop := cli.SetupSignalHandler(context.Background(), logger)
	defer stop()
*/
package cli
