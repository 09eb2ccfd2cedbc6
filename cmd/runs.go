package cmd

import (
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/store"
	"github.com/spf13/cobra"
)

// runsCmd focused on the run journal.
var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Inspect and export the journal of import and report runs",
	Long: `Every import and report run is recorded in the langtrends_runs table
of the store, unless --track-runs=false is given. Each record keeps:
- Run kind, start and end time, duration
- Rows imported or trend points reported
- The configuration used for the run

Subcommands:
  status - Show journal statistics
  export - Export the journal to Parquet

Examples:
  # Check the journal
  langtrends runs status

  # Export for analysis in pandas/DuckDB
  langtrends runs export --output-file langtrends`,
}

// runsStatusCmd shows journal status.
var runsStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Display run journal statistics",
	Long: `Show the number of recorded runs, the latest and oldest run,
and the number of runs per kind.

Examples:
  # Check journal status
  langtrends runs status`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		status, err := storeManager.GetRunStore().GetStatus()
		if err != nil {
			contract.LogFatal("Failed to get journal status", err)
		}
		store.PrintRunsStatus(status)
	},
}

// runsExportCmd exports the journal to a Parquet file.
var runsExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the run journal to Parquet",
	Long: `Write all recorded runs to <output-file>.runs.parquet.

Requires: --output-file parameter

Examples:
  # Export all runs
  langtrends runs export --output-file langtrends

  # Query with DuckDB
  duckdb -c "SELECT kind, avg(run_duration_ms) FROM 'langtrends.runs.parquet' GROUP BY kind"`,
	PreRunE: storeSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := store.ExecuteRunsExport(storeManager, cfg.OutputFile); err != nil {
			contract.LogFatal("Failed to export runs", err)
		}
	},
}
