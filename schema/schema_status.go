package schema

import "time"

// StoreStatus represents the status of the data store.
type StoreStatus struct {
	Backend    string `json:"backend"`
	Connected  bool   `json:"connected"`
	Table      string `json:"table"`
	TableFound bool   `json:"table_found"`
	TotalRows  int64  `json:"total_rows"`
	SizeBytes  int64  `json:"size_bytes"`
}

// RunsStatus represents the status of the run journal.
type RunsStatus struct {
	Backend       string            `json:"backend"`
	Connected     bool              `json:"connected"`
	TotalRuns     int               `json:"total_runs"`
	LastRunID     int64             `json:"last_run_id"`
	LastRunKind   RunKind           `json:"last_run_kind"`
	LastRunTime   time.Time         `json:"last_run_time"`
	OldestRunTime time.Time         `json:"oldest_run_time"`
	RunsByKind    map[RunKind]int64 `json:"runs_by_kind"`
}

// RunRecord represents a row from the langtrends_runs table.
type RunRecord struct {
	RunID         int64
	Kind          RunKind
	StartTime     time.Time
	EndTime       *time.Time
	RunDurationMs *int64
	RowsProcessed *int64
	ConfigParams  *string
}
