package cmd

import (
	"github.com/huangsam/burndown/core"
	"github.com/spf13/cobra"
)

// seriesCmd computes the burndown without drawing it.
var seriesCmd = &cobra.Command{
	Use:   "series [owner/repo]",
	Short: "Print the burndown series without rendering a chart.",
	Long: `Fetch issues and compute the ideal and actual burndown, then write the
per-day values as a table, CSV, JSON or Parquet.

Each day is labeled Ahead, On Track or Behind depending on how far the
remaining issue count is from the ideal line.

Examples:
  # Table on stdout
  burndown series octo/demo

  # JSON for scripting
  burndown series octo/demo --output json

  # Parquet for DuckDB or pandas
  burndown series octo/demo --output parquet --output-file sprint.parquet`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteBurndownSeries(rootCtx, cfg, newIssueClient(cfg))
	},
}
