package cmd

import (
	"fmt"

	"github.com/huangsam/burndown/internal/contract"
	"github.com/huangsam/burndown/internal/history"
	"github.com/huangsam/burndown/internal/outwriter"
	"github.com/huangsam/burndown/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// historyConfig loads minimal configuration needed for history operations.
// An unset backend means the default SQLite file, since these commands exist
// to inspect a store.
func historyConfig() error {
	if err := readConfig(); err != nil {
		return err
	}
	if input.HistoryBackend == "" {
		input.HistoryBackend = string(schema.SQLiteBackend)
	}
	return contract.ProcessHistoryOnly(cfg, input)
}

// historySetup wraps historyConfig and opens the store for status and export.
func historySetup(_ *cobra.Command, _ []string) error {
	if err := historyConfig(); err != nil {
		return err
	}
	if err := history.InitHistory(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return fmt.Errorf("failed to initialize run history: %w", err)
	}
	return nil
}

// historyMigrateSetup loads configuration without opening the store, so
// migrations run on the schema exactly as it is.
func historyMigrateSetup(_ *cobra.Command, _ []string) error {
	return historyConfig()
}

// sqliteHistoryPath returns the SQLite file the history commands act on.
func sqliteHistoryPath() string {
	if cfg.HistoryBackend == schema.SQLiteBackend && cfg.HistoryDBConnect != "" {
		return cfg.HistoryDBConnect
	}
	return contract.GetHistoryDBFilePath()
}

// historyCmd focused on run history management.
//
// Note: history subcommands use minimal initialization (historySetup) instead of
// the full sharedSetup. No repository or token is needed to inspect the store.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Manage recorded burndown runs",
	Long: `Manage the optional run history written by 'burndown chart --history-backend'.

Each recorded run stores:
- Repository, sprint length and timestamps
- Total and closed issue counts and the chart filename
- The ideal and actual value for every sprint day

Supported backends: SQLite (default), MySQL, PostgreSQL, or None (disabled)

Subcommands:
  status  - Show history statistics
  export  - Export runs and points to Parquet
  clear   - Remove all recorded runs
  migrate - Run database schema migrations`,
}

// historyStatusCmd shows history status.
var historyStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run history statistics and connection details",
	Long: `Show the backend, connection state, run counts and table sizes.

Examples:
  burndown history status
  burndown history status --history-backend postgresql --history-db-connect "host=localhost dbname=burndown"`,
	PreRunE: historySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		status, err := history.Manager.GetHistoryStore().GetStatus()
		if err != nil {
			return fmt.Errorf("failed to get history status: %w", err)
		}
		return outwriter.NewOutWriter().WriteHistoryStatus(status, cfg)
	},
}

// historyExportCmd exports run history to Parquet files.
var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export run history to Parquet",
	Long: `Export all recorded runs and their daily points to two Parquet files:
  {output-file}.burndown_runs.parquet
  {output-file}.burndown_points.parquet

Examples:
  burndown history export --output-file sprints
  duckdb -c "SELECT * FROM read_parquet('sprints.burndown_points.parquet') LIMIT 10"`,
	PreRunE: historySetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		return history.ExecuteHistoryExport(history.Manager, cfg.OutputFile)
	},
}

// historyClearCmd clears the run history.
var historyClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove all recorded burndown runs",
	Long: `Delete every recorded run and point.

WARNING: This action cannot be undone. Consider exporting data first.

Examples:
  burndown history export --output-file backup
  burndown history clear`,
	PreRunE: historyMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		if err := history.ClearHistory(cfg.HistoryBackend, sqliteHistoryPath(), cfg.HistoryDBConnect); err != nil {
			return fmt.Errorf("failed to clear run history: %w", err)
		}
		fmt.Println("Run history cleared successfully.")
		return nil
	},
}

// historyMigrateCmd runs database migrations for the history store.
var historyMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions for the run history store.

By default, migrates to the latest version. Use --target-version for specific versions.

Examples:
  # Migrate to latest version (default)
  burndown history migrate

  # Migrate to specific version
  burndown history migrate --target-version 2

  # Rollback to initial state
  burndown history migrate --target-version 0`,
	PreRunE: historyMigrateSetup,
	RunE: func(_ *cobra.Command, _ []string) error {
		targetVersion := viper.GetInt("target-version")
		connStr := cfg.HistoryDBConnect
		if cfg.HistoryBackend == schema.SQLiteBackend {
			connStr = sqliteHistoryPath()
		}
		return history.MigrateHistory(cfg.HistoryBackend, connStr, targetVersion)
	},
}
