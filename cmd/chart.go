package cmd

import (
	"github.com/huangsam/burndown/core"
	"github.com/huangsam/burndown/internal/history"
	"github.com/spf13/cobra"
)

// chartCmd runs the full pipeline and saves a PNG.
var chartCmd = &cobra.Command{
	Use:   "chart [owner/repo]",
	Short: "Render a burndown chart for a repository.",
	Long: `Fetch every issue of a repository and draw the sprint burndown.

The chart compares an ideal straight line from the total issue count down to
zero against the number of issues still open at the end of each sprint day.
The sprint always ends now and starts --sprint-days days ago.

The PNG is named burndown_chart_{owner}_{repo}_{timestamp}.png and is written
next to the executable unless --output-dir is given.

Examples:
  # Two-week sprint for a public repository
  burndown chart golang/go

  # Four-week sprint, every page of issues, with the per-day table
  burndown chart octo/demo --sprint-days 28 --max-pages 0 --detail

  # Record the run so it can be exported later
  burndown chart octo/demo --history-backend sqlite`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return core.ExecuteBurndownChart(rootCtx, cfg, newIssueClient(cfg), history.Manager)
	},
}
