// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/huangsam/langtrends/schema"
)

// StoreManager defines the interface for reaching the configured stores.
// This allows the persistence layer to be mocked for testing.
type StoreManager interface {
	GetDataStore() DataStore
	GetRunStore() RunStore
}

// DataStore is the relational store shared by the importer and the reporter.
type DataStore interface {
	// ReplaceTable drops any table with the same name and writes the given one in its place.
	ReplaceTable(ctx context.Context, table schema.Table) error

	// QueryLanguageSeries sums pushers per (year, quarter, language) for the filter.
	QueryLanguageSeries(ctx context.Context, filter schema.TrendFilter) ([]schema.LanguageSeriesRow, error)

	// QueryTotals sums pushers per (year, quarter) ignoring the language filter.
	QueryTotals(ctx context.Context, filter schema.TrendFilter) ([]schema.TotalRow, error)

	// CountRows returns the number of rows in the table.
	CountRows(ctx context.Context, table string) (int64, error)

	// GetStatus returns status information about the store and the given table.
	GetStatus(ctx context.Context, table string) (schema.StoreStatus, error)

	// Close closes the underlying connection.
	Close() error
}

// RunStore defines the interface for the journal of import and report runs.
type RunStore interface {
	// BeginRun creates a new run and returns its unique ID
	BeginRun(kind schema.RunKind, startTime time.Time, configParams map[string]any) (int64, error)

	// EndRun updates the run with completion data
	EndRun(runID int64, endTime time.Time, rowsProcessed int) error

	// GetStatus returns status information about the journal
	GetStatus() (schema.RunsStatus, error)

	// GetAllRuns returns every run ordered by ID
	GetAllRuns() ([]schema.RunRecord, error)

	// Close closes the underlying connection
	Close() error
}
