package store

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuoteIdent(t *testing.T) {
	assert.Equal(t, `"languages"`, quoteIdent("languages", schema.SQLiteBackend))
	assert.Equal(t, `"languages"`, quoteIdent("languages", schema.PostgreSQLBackend))
	assert.Equal(t, `"languages"`, quoteIdent("languages", schema.DuckDBBackend))
	assert.Equal(t, "`languages`", quoteIdent("languages", schema.MySQLBackend))
	assert.Equal(t, `"a""b"`, quoteIdent(`a"b`, schema.SQLiteBackend))
	assert.Equal(t, "`a``b`", quoteIdent("a`b", schema.MySQLBackend))
}

func TestPlaceholders(t *testing.T) {
	assert.Equal(t, "?, ?, ?", placeholders(schema.SQLiteBackend, 1, 3))
	assert.Equal(t, "?, ?", placeholders(schema.MySQLBackend, 4, 2))
	assert.Equal(t, "?", placeholders(schema.DuckDBBackend, 1, 1))
	assert.Equal(t, "$4, $5, $6", placeholders(schema.PostgreSQLBackend, 4, 3))
}

func TestColumnSQLType(t *testing.T) {
	tests := []struct {
		typ      schema.ColumnType
		backend  schema.DatabaseBackend
		expected string
	}{
		{schema.IntegerColumn, schema.SQLiteBackend, "INTEGER"},
		{schema.IntegerColumn, schema.PostgreSQLBackend, "BIGINT"},
		{schema.IntegerColumn, schema.DuckDBBackend, "BIGINT"},
		{schema.RealColumn, schema.SQLiteBackend, "REAL"},
		{schema.RealColumn, schema.MySQLBackend, "DOUBLE"},
		{schema.RealColumn, schema.PostgreSQLBackend, "DOUBLE PRECISION"},
		{schema.TextColumn, schema.MySQLBackend, "TEXT"},
		{schema.TextColumn, schema.DuckDBBackend, "TEXT"},
	}
	for _, tt := range tests {
		t.Run(string(tt.backend)+"_"+tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.expected, columnSQLType(tt.typ, tt.backend))
		})
	}
}

func TestFormatTime(t *testing.T) {
	ts := time.Date(2024, 6, 15, 12, 30, 0, 123, time.UTC)
	s, ok := formatTime(ts, schema.SQLiteBackend).(string)
	require.True(t, ok)
	parsed, err := parseTime(s)
	require.NoError(t, err)
	assert.True(t, ts.Equal(parsed))

	assert.Equal(t, ts, formatTime(ts, schema.PostgreSQLBackend))
}

func TestClearStore_FileBackends(t *testing.T) {
	for _, backend := range []schema.DatabaseBackend{schema.SQLiteBackend, schema.DuckDBBackend} {
		t.Run(string(backend), func(t *testing.T) {
			dbPath := filepath.Join(t.TempDir(), "store.db")
			runsPath := contract.RunsDBConnect(backend, dbPath)
			require.NoError(t, os.WriteFile(dbPath, []byte("x"), 0o644))
			require.NoError(t, os.WriteFile(runsPath, []byte("x"), 0o644))

			require.NoError(t, ClearStore(backend, dbPath, "languages"))
			assert.NoFileExists(t, dbPath)
			assert.NoFileExists(t, runsPath)

			// Clearing a missing file is fine
			assert.NoError(t, ClearStore(backend, dbPath, "languages"))
		})
	}
}

func TestClearStore_Errors(t *testing.T) {
	assert.Error(t, ClearStore(schema.SQLiteBackend, "", "languages"))
	assert.NoError(t, ClearStore(schema.SQLiteBackend, ":memory:", "languages"))
	assert.Error(t, ClearStore(schema.DatabaseBackend("oracle"), "x", "languages"))
}

func TestExecuteRunsExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteRunsExport(&MockStoreManager{}, "")
		assert.Error(t, err)
	})

	t.Run("no runs", func(t *testing.T) {
		runs := &MockRunStore{}
		runs.On("GetStatus").Return(schema.RunsStatus{Backend: "sqlite", Connected: true}, nil)
		mgr := &MockStoreManager{}
		mgr.On("GetRunStore").Return(runs)

		err := ExecuteRunsExport(mgr, filepath.Join(t.TempDir(), "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no runs found")
		runs.AssertExpectations(t)
	})

	t.Run("status failure", func(t *testing.T) {
		runs := &MockRunStore{}
		runs.On("GetStatus").Return(schema.RunsStatus{}, errors.New("boom"))
		mgr := &MockStoreManager{}
		mgr.On("GetRunStore").Return(runs)

		assert.Error(t, ExecuteRunsExport(mgr, filepath.Join(t.TempDir(), "out")))
	})

	t.Run("writes parquet", func(t *testing.T) {
		runs := &MockRunStore{}
		runs.On("GetStatus").Return(schema.RunsStatus{Backend: "sqlite", Connected: true, TotalRuns: 1}, nil)
		runs.On("GetAllRuns").Return([]schema.RunRecord{{RunID: 1, Kind: schema.ImportRun, StartTime: time.Now()}}, nil)
		mgr := &MockStoreManager{}
		mgr.On("GetRunStore").Return(runs)

		out := filepath.Join(t.TempDir(), "out")
		require.NoError(t, ExecuteRunsExport(mgr, out))

		info, err := os.Stat(out + ".runs.parquet")
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
		runs.AssertExpectations(t)
	})
}

func TestInitStores(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "global.db")
	require.NoError(t, InitStores(schema.SQLiteBackend, dbPath, true))
	t.Cleanup(CloseStores)

	require.NotNil(t, Manager.GetDataStore())
	require.NotNil(t, Manager.GetRunStore())

	status, err := Manager.GetRunStore().GetStatus()
	require.NoError(t, err)
	assert.True(t, status.Connected)

	// The journal lives next to the data file, not inside it.
	assert.Equal(t, 0, countTables(t, dbPath, runsTable))
	assert.Equal(t, 1, countTables(t, filepath.Join(filepath.Dir(dbPath), "global.runs.db"), runsTable))

	// Later calls are no-ops
	assert.NoError(t, InitStores(schema.DatabaseBackend("oracle"), "", false))
}

// countTables reports how many tables named name exist in the SQLite file at path.
func countTables(t *testing.T, path, name string) int {
	t.Helper()
	db, err := openDB(schema.SQLiteBackend, path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	var n int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?", name).Scan(&n))
	return n
}
