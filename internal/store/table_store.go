package store

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/go-sql-driver/mysql"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/logging"
	"github.com/huangsam/langtrends/schema"
)

// DataStoreImpl handles the imported table on one of the supported backends.
type DataStoreImpl struct {
	db      *sql.DB
	backend schema.DatabaseBackend
	connStr string
}

var _ contract.DataStore = &DataStoreImpl{} // Compile-time check

// NewDataStore opens the backend and returns a store for importing and querying tables.
func NewDataStore(backend schema.DatabaseBackend, connStr string) (*DataStoreImpl, error) {
	db, err := openDB(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &DataStoreImpl{db: db, backend: backend, connStr: connStr}, nil
}

// DB exposes the connection pool so the run journal can share it.
func (ds *DataStoreImpl) DB() *sql.DB {
	return ds.db
}

// ReplaceTable drops the named table and recreates it with the given rows.
// Everything happens in one transaction.
func (ds *DataStoreImpl) ReplaceTable(ctx context.Context, table schema.Table) error {
	if err := contract.ValidateTableName(table.Name); err != nil {
		return err
	}
	if len(table.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", table.Name)
	}

	tx, err := ds.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	quotedTable := quoteIdent(table.Name, ds.backend)
	if _, err := tx.ExecContext(ctx, "DROP TABLE IF EXISTS "+quotedTable); err != nil {
		return fmt.Errorf("failed to drop table %s: %w", table.Name, err)
	}
	if _, err := tx.ExecContext(ctx, ds.createTableQuery(table)); err != nil {
		return fmt.Errorf("failed to create table %s: %w", table.Name, err)
	}

	columnList := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		columnList[i] = quoteIdent(col.Name, ds.backend)
	}
	insertPrefix := fmt.Sprintf("INSERT INTO %s (%s) VALUES ", quotedTable, strings.Join(columnList, ", "))

	batchSize := max(1, min(maxBatchRows, maxBatchParams/len(table.Columns)))
	for start := 0; start < len(table.Rows); start += batchSize {
		end := min(start+batchSize, len(table.Rows))
		query, args := ds.insertBatch(insertPrefix, table.Rows[start:end], len(table.Columns))
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("failed to insert rows %d-%d into %s: %w", start+1, end, table.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit table %s: %w", table.Name, err)
	}

	logging.Debug().
		Str("backend", string(ds.backend)).
		Str("table", table.Name).
		Int("rows", len(table.Rows)).
		Msg("table replaced")
	return nil
}

// createTableQuery returns the CREATE TABLE statement for the table's columns.
func (ds *DataStoreImpl) createTableQuery(table schema.Table) string {
	defs := make([]string, len(table.Columns))
	for i, col := range table.Columns {
		defs[i] = quoteIdent(col.Name, ds.backend) + " " + columnSQLType(col.Type, ds.backend)
	}
	return fmt.Sprintf("CREATE TABLE %s (%s)", quoteIdent(table.Name, ds.backend), strings.Join(defs, ", "))
}

// insertBatch builds one multi-row INSERT with backend-specific placeholders.
func (ds *DataStoreImpl) insertBatch(prefix string, rows [][]any, width int) (string, []any) {
	var sb strings.Builder
	sb.WriteString(prefix)
	args := make([]any, 0, len(rows)*width)
	for i, row := range rows {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString("(")
		sb.WriteString(placeholders(ds.backend, len(args)+1, width))
		sb.WriteString(")")
		args = append(args, row...)
	}
	return sb.String(), args
}

// QueryLanguageSeries sums pushers per (year, quarter, language), ordered by all three.
func (ds *DataStoreImpl) QueryLanguageSeries(ctx context.Context, filter schema.TrendFilter) ([]schema.LanguageSeriesRow, error) {
	if err := contract.ValidateTableName(filter.Table); err != nil {
		return nil, err
	}
	if len(filter.Languages) == 0 {
		return nil, nil
	}

	year := quoteIdent(schema.YearColumn, ds.backend)
	quarter := quoteIdent(schema.QuarterColumn, ds.backend)
	language := quoteIdent(schema.LanguageColumn, ds.backend)

	query := fmt.Sprintf(`SELECT %[1]s, %[2]s, %[3]s, CAST(COALESCE(SUM(%[4]s), 0) AS %[5]s)
		FROM %[6]s
		WHERE %[7]s = %[8]s AND %[1]s BETWEEN %[9]s AND %[10]s AND %[3]s IN (%[11]s)
		GROUP BY %[1]s, %[2]s, %[3]s
		ORDER BY %[1]s, %[2]s, %[3]s`,
		year, quarter, language,
		quoteIdent(schema.PushersColumn, ds.backend),
		realSQLType(ds.backend),
		quoteIdent(filter.Table, ds.backend),
		quoteIdent(schema.LanguageTypeColumn, ds.backend),
		placeholder(ds.backend, 1),
		placeholder(ds.backend, 2),
		placeholder(ds.backend, 3),
		placeholders(ds.backend, 4, len(filter.Languages)),
	)

	args := []any{filter.LanguageType, filter.StartYear, filter.EndYear}
	for _, l := range filter.Languages {
		args = append(args, l)
	}

	rows, err := ds.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query language series from %s: %w", filter.Table, err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.LanguageSeriesRow
	for rows.Next() {
		var r schema.LanguageSeriesRow
		var pushers float64
		if err := rows.Scan(&r.Year, &r.Quarter, &r.Language, &pushers); err != nil {
			return nil, fmt.Errorf("failed to scan language series: %w", err)
		}
		r.Pushers = int64(math.Round(pushers))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating language series: %w", err)
	}
	return results, nil
}

// QueryTotals sums pushers per (year, quarter) across every language of the type.
func (ds *DataStoreImpl) QueryTotals(ctx context.Context, filter schema.TrendFilter) ([]schema.TotalRow, error) {
	if err := contract.ValidateTableName(filter.Table); err != nil {
		return nil, err
	}

	year := quoteIdent(schema.YearColumn, ds.backend)
	quarter := quoteIdent(schema.QuarterColumn, ds.backend)

	query := fmt.Sprintf(`SELECT %[1]s, %[2]s, CAST(COALESCE(SUM(%[3]s), 0) AS %[4]s)
		FROM %[5]s
		WHERE %[6]s = %[7]s AND %[1]s BETWEEN %[8]s AND %[9]s
		GROUP BY %[1]s, %[2]s
		ORDER BY %[1]s, %[2]s`,
		year, quarter,
		quoteIdent(schema.PushersColumn, ds.backend),
		realSQLType(ds.backend),
		quoteIdent(filter.Table, ds.backend),
		quoteIdent(schema.LanguageTypeColumn, ds.backend),
		placeholder(ds.backend, 1),
		placeholder(ds.backend, 2),
		placeholder(ds.backend, 3),
	)

	rows, err := ds.db.QueryContext(ctx, query, filter.LanguageType, filter.StartYear, filter.EndYear)
	if err != nil {
		return nil, fmt.Errorf("failed to query totals from %s: %w", filter.Table, err)
	}
	defer func() { _ = rows.Close() }()

	var results []schema.TotalRow
	for rows.Next() {
		var r schema.TotalRow
		var total float64
		if err := rows.Scan(&r.Year, &r.Quarter, &total); err != nil {
			return nil, fmt.Errorf("failed to scan totals: %w", err)
		}
		r.TotalPushers = int64(math.Round(total))
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating totals: %w", err)
	}
	return results, nil
}

// CountRows returns the number of rows in the table.
func (ds *DataStoreImpl) CountRows(ctx context.Context, table string) (int64, error) {
	if err := contract.ValidateTableName(table); err != nil {
		return 0, err
	}
	var count int64
	query := "SELECT COUNT(*) FROM " + quoteIdent(table, ds.backend)
	if err := ds.db.QueryRowContext(ctx, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count rows in %s: %w", table, err)
	}
	return count, nil
}

// tableExists checks the catalog of the backend for the table.
func (ds *DataStoreImpl) tableExists(ctx context.Context, table string) (bool, error) {
	var query string
	switch ds.backend {
	case schema.SQLiteBackend:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = ?"
	case schema.MySQLBackend:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = ?"
	case schema.PostgreSQLBackend:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = $1"
	default: // DuckDB
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_name = ?"
	}
	var count int64
	if err := ds.db.QueryRowContext(ctx, query, table).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

// GetStatus returns status information about the store and the given table.
func (ds *DataStoreImpl) GetStatus(ctx context.Context, table string) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(ds.backend),
		Connected: ds.db != nil,
		Table:     table,
	}
	if ds.db == nil {
		return status, nil
	}

	found, err := ds.tableExists(ctx, table)
	if err != nil {
		return status, fmt.Errorf("failed to look up table %s: %w", table, err)
	}
	status.TableFound = found
	if found {
		if status.TotalRows, err = ds.CountRows(ctx, table); err != nil {
			return status, err
		}
	}

	switch ds.backend {
	case schema.SQLiteBackend:
		// For SQLite, use page_count * page_size
		sizeQuery := "SELECT page_count * page_size FROM pragma_page_count(), pragma_page_size()"
		if err := ds.db.QueryRowContext(ctx, sizeQuery).Scan(&status.SizeBytes); err != nil {
			status.SizeBytes = 0
		}
	case schema.DuckDBBackend:
		if info, err := os.Stat(ds.connStr); err == nil {
			status.SizeBytes = info.Size()
		}
	case schema.MySQLBackend:
		cfg, err := mysql.ParseDSN(ds.connStr)
		if err != nil || cfg.DBName == "" || !found {
			break
		}
		sizeQuery := "SELECT data_length + index_length FROM information_schema.tables WHERE table_schema = ? AND table_name = ?"
		if err := ds.db.QueryRowContext(ctx, sizeQuery, cfg.DBName, table).Scan(&status.SizeBytes); err != nil {
			status.SizeBytes = 0
		}
	case schema.PostgreSQLBackend:
		if !found {
			break
		}
		if err := ds.db.QueryRowContext(ctx, "SELECT pg_total_relation_size(to_regclass($1))", table).Scan(&status.SizeBytes); err != nil {
			status.SizeBytes = 0
		}
	}

	return status, nil
}

// Close closes the underlying DB connection.
func (ds *DataStoreImpl) Close() error {
	if ds.db != nil {
		return ds.db.Close()
	}
	return nil
}
