package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
)

// Table and sequence names for the run journal.
const (
	runsTable    = "langtrends_runs"
	runsSequence = "langtrends_runs_seq"
)

// RunStoreImpl implements the RunStore interface.
type RunStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	owned   bool // db was opened by OpenRunStore and is closed with the store
}

var _ contract.RunStore = &RunStoreImpl{} // Compile-time check

// NewRunStore creates the journal table if needed and returns a store on top of db.
// A nil db returns a no-op store for disabled tracking.
func NewRunStore(db *sql.DB, backend schema.DatabaseBackend) (*RunStoreImpl, error) {
	if db == nil {
		return &RunStoreImpl{backend: backend}, nil
	}
	for _, query := range getCreateRunsQueries(backend) {
		if _, err := db.Exec(query); err != nil {
			return nil, fmt.Errorf("failed to create table %s: %w", runsTable, err)
		}
	}
	return &RunStoreImpl{db: db, backend: backend}, nil
}

// OpenRunStore opens the journal at contract.RunsDBConnect(backend, connStr)
// on its own connection pool.
func OpenRunStore(backend schema.DatabaseBackend, connStr string) (*RunStoreImpl, error) {
	db, err := openDB(backend, contract.RunsDBConnect(backend, connStr))
	if err != nil {
		return nil, err
	}
	rs, err := NewRunStore(db, backend)
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	rs.owned = true
	return rs, nil
}

// getCreateRunsQueries returns the statements that create langtrends_runs.
func getCreateRunsQueries(backend schema.DatabaseBackend) []string {
	quotedTableName := quoteIdent(runsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT AUTO_INCREMENT PRIMARY KEY,
				kind VARCHAR(32) NOT NULL,
				start_time DATETIME(6) NOT NULL,
				end_time DATETIME(6),
				run_duration_ms BIGINT,
				rows_processed BIGINT,
				config_params TEXT
			);
		`, quotedTableName)}

	case schema.PostgreSQLBackend:
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGSERIAL PRIMARY KEY,
				kind TEXT NOT NULL,
				start_time TIMESTAMPTZ NOT NULL,
				end_time TIMESTAMPTZ,
				run_duration_ms BIGINT,
				rows_processed BIGINT,
				config_params TEXT
			);
		`, quotedTableName)}

	case schema.DuckDBBackend:
		return []string{
			fmt.Sprintf(`CREATE SEQUENCE IF NOT EXISTS %s START 1;`, runsSequence),
			fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id BIGINT PRIMARY KEY DEFAULT nextval('%s'),
				kind VARCHAR NOT NULL,
				start_time TIMESTAMP NOT NULL,
				end_time TIMESTAMP,
				run_duration_ms BIGINT,
				rows_processed BIGINT,
				config_params VARCHAR
			);
		`, quotedTableName, runsSequence),
		}

	default: // SQLite
		return []string{fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				run_id INTEGER PRIMARY KEY AUTOINCREMENT,
				kind TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT,
				run_duration_ms INTEGER,
				rows_processed INTEGER,
				config_params TEXT
			);
		`, quotedTableName)}
	}
}

// BeginRun creates a new run and returns its unique ID.
func (rs *RunStoreImpl) BeginRun(kind schema.RunKind, startTime time.Time, configParams map[string]any) (int64, error) {
	if rs.db == nil {
		return 0, nil
	}

	configJSON, err := json.Marshal(configParams)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal config params: %w", err)
	}

	quotedTableName := quoteIdent(runsTable, rs.backend)

	var runID int64
	switch rs.backend {
	case schema.PostgreSQLBackend, schema.DuckDBBackend:
		query := fmt.Sprintf(`INSERT INTO %s (kind, start_time, config_params) VALUES (%s) RETURNING run_id`,
			quotedTableName, placeholders(rs.backend, 1, 3))
		err = rs.db.QueryRow(query, string(kind), formatTime(startTime, rs.backend), string(configJSON)).Scan(&runID)
	default: // SQLite and MySQL
		query := fmt.Sprintf(`INSERT INTO %s (kind, start_time, config_params) VALUES (?, ?, ?)`, quotedTableName)
		var result sql.Result
		result, err = rs.db.Exec(query, string(kind), formatTime(startTime, rs.backend), string(configJSON))
		if err != nil {
			return 0, fmt.Errorf("failed to insert run: %w", err)
		}
		runID, err = result.LastInsertId()
	}

	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}
	return runID, nil
}

// EndRun updates the run with completion data.
func (rs *RunStoreImpl) EndRun(runID int64, endTime time.Time, rowsProcessed int) error {
	if rs.db == nil {
		return nil
	}

	quotedTableName := quoteIdent(runsTable, rs.backend)
	query := fmt.Sprintf(`SELECT start_time FROM %s WHERE run_id = %s`, quotedTableName, placeholder(rs.backend, 1))
	startTime, err := rs.scanTime(rs.db.QueryRow(query, runID))
	if err != nil {
		return fmt.Errorf("failed to get start_time for run %d: %w", runID, err)
	}

	durationMs := endTime.Sub(startTime).Milliseconds()

	updateQuery := fmt.Sprintf(`UPDATE %s SET end_time = %s, run_duration_ms = %s, rows_processed = %s WHERE run_id = %s`,
		quotedTableName,
		placeholder(rs.backend, 1), placeholder(rs.backend, 2), placeholder(rs.backend, 3), placeholder(rs.backend, 4))
	if _, err := rs.db.Exec(updateQuery, formatTime(endTime, rs.backend), durationMs, int64(rowsProcessed), runID); err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}
	return nil
}

// scanTime reads a single timestamp column, parsing SQLite text timestamps.
func (rs *RunStoreImpl) scanTime(row *sql.Row) (time.Time, error) {
	if rs.backend == schema.SQLiteBackend {
		var s string
		if err := row.Scan(&s); err != nil {
			return time.Time{}, err
		}
		return parseTime(s)
	}
	var t time.Time
	err := row.Scan(&t)
	return t, err
}

// Close releases the connection pool when the store opened it.
func (rs *RunStoreImpl) Close() error {
	if !rs.owned || rs.db == nil {
		return nil
	}
	return rs.db.Close()
}

// GetStatus returns status information about the journal.
func (rs *RunStoreImpl) GetStatus() (schema.RunsStatus, error) {
	status := schema.RunsStatus{
		Backend:    string(rs.backend),
		Connected:  rs.db != nil,
		RunsByKind: make(map[schema.RunKind]int64),
	}
	if rs.db == nil {
		return status, nil
	}

	quotedTableName := quoteIdent(runsTable, rs.backend)

	if err := rs.db.QueryRow("SELECT COUNT(*) FROM " + quotedTableName).Scan(&status.TotalRuns); err != nil {
		return status, fmt.Errorf("failed to get total runs: %w", err)
	}
	if status.TotalRuns == 0 {
		return status, nil
	}

	// Get last run info
	lastRunQuery := fmt.Sprintf("SELECT run_id, kind, start_time FROM %s ORDER BY run_id DESC LIMIT 1", quotedTableName)
	row := rs.db.QueryRow(lastRunQuery)
	var kind string
	switch rs.backend {
	case schema.SQLiteBackend:
		var lastRunTimeStr string
		if err := row.Scan(&status.LastRunID, &kind, &lastRunTimeStr); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
		lastRunTime, err := parseTime(lastRunTimeStr)
		if err != nil {
			return status, fmt.Errorf("failed to parse last run time: %w", err)
		}
		status.LastRunTime = lastRunTime
	default: // Native datetime columns
		if err := row.Scan(&status.LastRunID, &kind, &status.LastRunTime); err != nil {
			return status, fmt.Errorf("failed to get last run info: %w", err)
		}
	}
	status.LastRunKind = schema.RunKind(kind)

	// Get oldest run time
	oldestRunQuery := fmt.Sprintf("SELECT start_time FROM %s ORDER BY run_id ASC LIMIT 1", quotedTableName)
	oldest, err := rs.scanTime(rs.db.QueryRow(oldestRunQuery))
	if err != nil {
		return status, fmt.Errorf("failed to get oldest run time: %w", err)
	}
	status.OldestRunTime = oldest

	// Get runs per kind
	rows, err := rs.db.Query(fmt.Sprintf("SELECT kind, COUNT(*) FROM %s GROUP BY kind", quotedTableName))
	if err != nil {
		return status, fmt.Errorf("failed to count runs per kind: %w", err)
	}
	defer func() { _ = rows.Close() }()
	for rows.Next() {
		var k string
		var count int64
		if err := rows.Scan(&k, &count); err != nil {
			return status, fmt.Errorf("failed to scan runs per kind: %w", err)
		}
		status.RunsByKind[schema.RunKind(k)] = count
	}
	if err := rows.Err(); err != nil {
		return status, fmt.Errorf("error iterating runs per kind: %w", err)
	}

	return status, nil
}

// GetAllRuns retrieves all runs from the journal.
func (rs *RunStoreImpl) GetAllRuns() ([]schema.RunRecord, error) {
	if rs.db == nil {
		return nil, nil
	}

	query := fmt.Sprintf("SELECT run_id, kind, start_time, end_time, run_duration_ms, rows_processed, config_params FROM %s ORDER BY run_id",
		quoteIdent(runsTable, rs.backend))

	rows, err := rs.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.RunRecord
	for rows.Next() {
		var record schema.RunRecord
		var kind string

		switch rs.backend {
		case schema.SQLiteBackend:
			var startTimeStr string
			var endTimeStr *string
			if err := rows.Scan(&record.RunID, &kind, &startTimeStr, &endTimeStr, &record.RunDurationMs, &record.RowsProcessed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
			startTime, err := parseTime(startTimeStr)
			if err != nil {
				return nil, fmt.Errorf("failed to parse start_time: %w", err)
			}
			record.StartTime = startTime
			if endTimeStr != nil {
				endTime, err := parseTime(*endTimeStr)
				if err != nil {
					return nil, fmt.Errorf("failed to parse end_time: %w", err)
				}
				record.EndTime = &endTime
			}
		default: // Native datetime columns
			if err := rows.Scan(&record.RunID, &kind, &record.StartTime, &record.EndTime, &record.RunDurationMs, &record.RowsProcessed, &record.ConfigParams); err != nil {
				return nil, fmt.Errorf("failed to scan run: %w", err)
			}
		}
		record.Kind = schema.RunKind(kind)
		results = append(results, record)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating runs: %w", err)
	}
	return results, nil
}
