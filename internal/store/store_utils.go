package store

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // DuckDB driver
	"github.com/go-sql-driver/mysql"   // MySQL driver
	"github.com/huangsam/langtrends/schema"
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Rows per INSERT statement, and the bound-parameter ceiling across all drivers.
const (
	maxBatchRows   = 500
	maxBatchParams = 32000
)

// driverName returns the database/sql driver registered for the backend.
func driverName(backend schema.DatabaseBackend) (string, error) {
	switch backend {
	case schema.SQLiteBackend:
		return "sqlite", nil
	case schema.DuckDBBackend:
		return "duckdb", nil
	case schema.MySQLBackend:
		return "mysql", nil
	case schema.PostgreSQLBackend:
		return "pgx", nil
	default:
		return "", fmt.Errorf("unsupported backend: %s. Must be sqlite, duckdb, mysql, or postgresql", backend)
	}
}

// openDB opens and pings a connection pool for the backend.
func openDB(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	driver, err := driverName(backend)
	if err != nil {
		return nil, err
	}

	switch backend {
	case schema.SQLiteBackend, schema.DuckDBBackend:
		if connStr == "" {
			return nil, fmt.Errorf("a database file path is required for the %s backend", backend)
		}
	case schema.MySQLBackend:
		// DATETIME columns only scan into time.Time with parseTime enabled
		cfg, err := mysql.ParseDSN(connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse MySQL connection string: %w. Check connection format: user:password@tcp(host:port)/dbname", err)
		}
		cfg.ParseTime = true
		connStr = cfg.FormatDSN()
	}

	db, err := sql.Open(driver, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", backend, err)
	}

	// Limit file backends to a single open connection to avoid "database is locked" errors
	if backend.IsFileBackend() {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		var connDetail string
		switch backend {
		case schema.MySQLBackend:
			connDetail = "Check that MySQL is running and the connection string is correct. Ensure user/password are valid."
		case schema.PostgreSQLBackend:
			connDetail = "Check that PostgreSQL is running and the connection string is correct. Ensure user/password are valid."
		default:
			connDetail = "Check that the directory is writable."
		}
		return nil, fmt.Errorf("failed to connect to %s database: %w. %s", backend, err, connDetail)
	}
	return db, nil
}

// quoteIdent returns the properly quoted identifier for the given backend.
func quoteIdent(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return "`" + strings.ReplaceAll(name, "`", "``") + "`"
	default: // SQLite, DuckDB and PostgreSQL
		return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
	}
}

// placeholder returns the n-th (1-based) parameter placeholder for the backend.
func placeholder(backend schema.DatabaseBackend, n int) string {
	if backend == schema.PostgreSQLBackend {
		return fmt.Sprintf("$%d", n)
	}
	return "?"
}

// placeholders returns count comma-separated placeholders starting at position start.
func placeholders(backend schema.DatabaseBackend, start, count int) string {
	parts := make([]string, count)
	for i := range count {
		parts[i] = placeholder(backend, start+i)
	}
	return strings.Join(parts, ", ")
}

// columnSQLType maps an inferred column type to the backend's SQL type.
func columnSQLType(typ schema.ColumnType, backend schema.DatabaseBackend) string {
	switch typ {
	case schema.IntegerColumn:
		if backend == schema.SQLiteBackend {
			return "INTEGER"
		}
		return "BIGINT"
	case schema.RealColumn:
		return realSQLType(backend)
	default:
		return "TEXT"
	}
}

// realSQLType is the double precision type name used for columns and casts.
func realSQLType(backend schema.DatabaseBackend) string {
	switch backend {
	case schema.SQLiteBackend:
		return "REAL"
	case schema.PostgreSQLBackend:
		return "DOUBLE PRECISION"
	default: // MySQL and DuckDB
		return "DOUBLE"
	}
}

// formatTime converts a time.Time to the appropriate format for the backend.
func formatTime(t time.Time, backend schema.DatabaseBackend) any {
	switch backend {
	case schema.SQLiteBackend:
		return t.Format(time.RFC3339Nano)
	case schema.DuckDBBackend:
		return t.UTC()
	default:
		return t
	}
}

// parseTime reverses formatTime for SQLite text timestamps.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339Nano, s)
}
