package cmd

import (
	"github.com/huangsam/langtrends/core"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/spf13/cobra"
)

// importCmd loads the CSV file into the store.
var importCmd = &cobra.Command{
	Use:   "import [csv-path]",
	Short: "Load a CSV file into the store, replacing the table.",
	Long: `Read a comma-separated file with a header row and write it to the configured table.

Every column of the header is stored under its own name. Column types are inferred
from the data (INTEGER, REAL or TEXT) and empty cells become NULL. An existing table
with the same name is dropped first, so each import is a full replacement.

Examples:
  # Import languages.csv into languages.db (the defaults)
  langtrends import

  # Import another file into DuckDB
  langtrends import data/languages.csv --backend duckdb --db-connect languages.duckdb

  # Import into PostgreSQL (set the connection string via env variable)
  LANGTRENDS_BACKEND=postgresql LANGTRENDS_DB_CONNECT="host=... dbname=..." langtrends import`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := core.ExecuteImport(rootCtx, cfg, storeManager); err != nil {
			contract.LogFatal("Cannot import CSV", err)
		}
	},
}
