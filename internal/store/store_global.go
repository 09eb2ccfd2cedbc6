package store

import (
	"fmt"
	"os"
	"sync"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/logging"
	"github.com/huangsam/langtrends/schema"
)

// Global Manager instance for main logic.
var (
	Manager   = &StoreManager{}
	initOnce  sync.Once
	closeOnce sync.Once
)

// InitStores opens the data store and, when trackRuns is set, the run journal.
// File backends keep the journal in its own file. A disabled journal is a no-op RunStore.
func InitStores(backend schema.DatabaseBackend, connStr string, trackRuns bool) error {
	var initErr error

	initOnce.Do(func() {
		dataStore, err := NewDataStore(backend, connStr)
		if err != nil {
			initErr = fmt.Errorf("failed to initialize %s store: %w", backend, err)
			return
		}

		var runStore *RunStoreImpl
		if trackRuns {
			runStore, err = OpenRunStore(backend, connStr)
		} else {
			runStore, err = NewRunStore(nil, backend)
		}
		if err != nil {
			_ = dataStore.Close()
			initErr = fmt.Errorf("failed to initialize run journal: %w", err)
			return
		}

		Manager.Lock()
		defer Manager.Unlock()
		Manager.data = dataStore
		Manager.runs = runStore

		logging.Debug().
			Str("backend", string(backend)).
			Bool("track_runs", trackRuns).
			Msg("stores initialized")
	})

	return initErr
}

// CloseStores should be called on application shutdown.
func CloseStores() { // called in main defer
	closeOnce.Do(func() {
		Manager.Lock()
		defer Manager.Unlock()
		if Manager.runs != nil {
			_ = Manager.runs.Close()
		}
		if Manager.data != nil {
			_ = Manager.data.Close()
		}
	})
}

// ClearStore removes everything langtrends wrote to the backend.
// For file backends, it deletes the database file and the journal file.
// For server backends, it drops the data table and the run journal.
func ClearStore(backend schema.DatabaseBackend, connStr, table string) error {
	switch backend {
	case schema.SQLiteBackend, schema.DuckDBBackend:
		if connStr == "" {
			return fmt.Errorf("a database file path is required for the %s backend", backend)
		}
		if connStr == ":memory:" {
			return nil
		}
		// Remove the files and their sidecars; ignore if they don't exist
		for _, base := range []string{connStr, contract.RunsDBConnect(backend, connStr)} {
			for _, path := range []string{base, base + "-wal", base + "-shm", base + "-journal", base + ".wal"} {
				if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
					return fmt.Errorf("failed to remove %s database file %s: %w", backend, path, err)
				}
			}
		}
		return nil

	case schema.MySQLBackend, schema.PostgreSQLBackend:
		for _, name := range []string{table, runsTable} {
			if err := clearSQLTable(backend, connStr, name); err != nil {
				return err
			}
		}
		return nil

	default:
		return fmt.Errorf("unsupported backend for clearing: %s", backend)
	}
}

// clearSQLTable connects to the SQL database and drops the table if it exists.
func clearSQLTable(backend schema.DatabaseBackend, connStr, tableName string) error {
	db, err := openDB(backend, connStr)
	if err != nil {
		return err
	}
	defer func() { _ = db.Close() }()

	query := "DROP TABLE IF EXISTS " + quoteIdent(tableName, backend)
	if _, err := db.Exec(query); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", tableName, err)
	}
	return nil
}
