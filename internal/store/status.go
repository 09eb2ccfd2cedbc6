package store

import (
	"fmt"
	"maps"
	"slices"

	"github.com/huangsam/langtrends/schema"
)

// PrintStoreStatus prints data store status information.
func PrintStoreStatus(status schema.StoreStatus) {
	fmt.Printf("Store Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	if !status.TableFound {
		fmt.Printf("Table %s: not imported yet\n", status.Table)
	} else {
		fmt.Printf("Table %s: %d rows\n", status.Table, status.TotalRows)
	}
	fmt.Printf("Store Size: %d bytes\n", status.SizeBytes)
}

// PrintRunsStatus prints run journal status information.
func PrintRunsStatus(status schema.RunsStatus) {
	fmt.Printf("Journal Backend: %s\n", status.Backend)
	fmt.Printf("Connected: %t\n", status.Connected)
	if !status.Connected {
		return
	}
	fmt.Printf("Total Runs: %d\n", status.TotalRuns)
	if status.TotalRuns == 0 {
		return
	}
	fmt.Printf("Last Run ID: %d (%s)\n", status.LastRunID, status.LastRunKind)
	fmt.Printf("Last Run: %s\n", status.LastRunTime.Format("2006-01-02 15:04:05"))
	fmt.Printf("Oldest Run: %s\n", status.OldestRunTime.Format("2006-01-02 15:04:05"))
	fmt.Println("Runs By Kind:")
	for _, kind := range slices.Sorted(maps.Keys(status.RunsByKind)) {
		fmt.Printf("  %s: %d\n", kind, status.RunsByKind[kind])
	}
}
