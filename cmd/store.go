package cmd

import (
	"fmt"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/store"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// storeCmd focused on store management.
//
// Note: Store subcommands use minimal initialization (storeConfig) instead of
// the full sharedSetup used by import and report. This avoids validating
// chart settings for simple maintenance operations.
var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Manage the store holding the imported table",
	Long: `Inspect, clear, or migrate the relational store.

Supported backends: SQLite (default), DuckDB, MySQL, PostgreSQL

Subcommands:
  status  - Show the table row count and store size
  clear   - Remove the imported table and the run journal
  migrate - Run run journal schema migrations

Examples:
  # Check what was imported
  langtrends store status

  # Start over
  langtrends store clear`,
}

// storeStatusCmd shows store status.
var storeStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display table statistics and connection details",
	Long: `Show the backend, connection state, row count of the imported table
and the size of the store.

Examples:
  # Check store status
  langtrends store status

  # Check a DuckDB file
  langtrends store status --backend duckdb --db-connect languages.duckdb`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetDataStore().GetStatus(rootCtx, cfg.Table)
		if err != nil {
			contract.LogFatal("Failed to get store status", err)
		}
		store.PrintStoreStatus(status)
	},
}

// storeClearCmd clears the store.
var storeClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Remove the imported table and run journal",
	Long: `Delete everything langtrends wrote to the configured backend.

For SQLite/DuckDB: Deletes the database file
For MySQL/PostgreSQL: Drops the data table and the run journal

WARNING: This action cannot be undone. Consider exporting the journal first.

Examples:
  # Clear SQLite store (default)
  langtrends store clear

  # Clear MySQL store (set connection string via env variable)
  LANGTRENDS_BACKEND=mysql LANGTRENDS_DB_CONNECT="..." langtrends store clear`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ClearStore(cfg.Backend, cfg.DBConnect, cfg.Table); err != nil {
			contract.LogFatal("Failed to clear store", err)
		}
		fmt.Println("Store cleared successfully.")
	},
}

// storeMigrateCmd runs database migrations for the run journal.
var storeMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run run journal schema migrations (upgrades/downgrades)",
	Long: `Manage schema versions of the run journal.

By default, migrates to the latest version. Use --target-version for specific versions.
DuckDB stores create their journal directly and do not support migrations.

Examples:
  # Migrate to latest version (default)
  langtrends store migrate

  # Migrate to specific version
  langtrends store migrate --target-version 1

  # Rollback everything
  langtrends store migrate --target-version 0`,
	PreRunE: storeConfigWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := store.MigrateRuns(cfg.Backend, cfg.DBConnect, targetVersion); err != nil {
			contract.LogFatal("Failed to run migrations", err)
		}
	},
}
