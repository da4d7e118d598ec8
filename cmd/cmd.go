// Package cmd defines the command-line interface for burndown.
package cmd

import (
	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(chartCmd)
	rootCmd.AddCommand(seriesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the history subcommands to the parent history command
	historyCmd.AddCommand(historyStatusCmd)
	historyCmd.AddCommand(historyExportCmd)
	historyCmd.AddCommand(historyClearCmd)
	historyCmd.AddCommand(historyMigrateCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("owner", "", "Repository owner (or pass owner/repo as an argument)")
	rootCmd.PersistentFlags().String("repo", "", "Repository name")
	rootCmd.PersistentFlags().String("token", "", "GitHub token (prefer BURNDOWN_TOKEN or GITHUB_TOKEN)")
	rootCmd.PersistentFlags().Bool("prompt-token", false, "Read the GitHub token from the terminal")
	rootCmd.PersistentFlags().IntP("sprint-days", "d", contract.DefaultSprintDays, "Sprint length in days")
	rootCmd.PersistentFlags().String("api-url", contract.DefaultAPIURL, "GitHub API base URL")
	rootCmd.PersistentFlags().Int("per-page", contract.DefaultPerPage, "Issues per page (max 100)")
	rootCmd.PersistentFlags().Int("max-pages", contract.DefaultMaxPages, "Maximum pages to fetch (0 = all)")
	rootCmd.PersistentFlags().String("timeout", contract.DefaultTimeout, "HTTP request timeout")
	rootCmd.PersistentFlags().Bool("exclude-pulls", false, "Ignore pull requests returned by the issues endpoint")
	rootCmd.PersistentFlags().String("output-dir", "", "Directory for chart images (default: the executable's directory)")
	rootCmd.PersistentFlags().Int("dpi", contract.DefaultDPI, "Chart image resolution")
	rootCmd.PersistentFlags().String("output", string(schema.TextOut), "Output format: text or csv or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().Bool("detail", false, "Print the per-day table after saving the chart")
	rootCmd.PersistentFlags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log HTTP requests to stderr")
	rootCmd.PersistentFlags().String("history-backend", "", "Run history backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("history-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of historyMigrateCmd to Viper
	historyMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(historyMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding history migrate flags", err)
	}
}
