package store

import (
	"errors"
	"fmt"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/parquet"
)

// ExecuteRunsExport exports the run journal to <outputFile>.runs.parquet.
func ExecuteRunsExport(mgr contract.StoreManager, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	runs := mgr.GetRunStore()

	status, err := runs.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get journal status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no runs found to export")
	}

	fmt.Printf("Exporting data from %s backend...\n", status.Backend)
	fmt.Printf("Total runs: %d\n", status.TotalRuns)

	records, err := runs.GetAllRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve runs: %w", err)
	}

	runsFile := outputFile + ".runs.parquet"
	if err := parquet.WriteRunsParquet(parquet.ConvertRunRecords(records), runsFile); err != nil {
		return fmt.Errorf("failed to write runs: %w", err)
	}
	fmt.Printf("Exported %d runs to: %s\n", len(records), runsFile)

	return nil
}
