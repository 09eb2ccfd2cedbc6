package schema

// Custom string types for type safety.
type (
	// OutputMode represents the format of the tabular output.
	OutputMode string

	// DatabaseBackend represents the database backend for the store.
	DatabaseBackend string

	// RunKind represents the job recorded in the run journal.
	RunKind string

	// TrendDirection summarizes how a language moved between its first and last point.
	TrendDirection string
)

// All output modes supported.
const (
	NoneOut    OutputMode = "none" // default
	TextOut    OutputMode = "text"
	CSVOut     OutputMode = "csv"
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All store backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	DuckDBBackend     DatabaseBackend = "duckdb"
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
)

// All run kinds recorded in the journal.
const (
	ImportRun RunKind = "import"
	ReportRun RunKind = "report"
)

// All trend directions.
const (
	RisingTrend  TrendDirection = "Rising"
	FallingTrend TrendDirection = "Falling"
	FlatTrend    TrendDirection = "Flat"
)

// Column names the reporter relies on. The importer stores the CSV header as-is,
// so these only have to match the header of the source file.
const (
	YearColumn         = "year"
	QuarterColumn      = "quarter"
	LanguageColumn     = "language"
	LanguageTypeColumn = "language_type"
	PushersColumn      = "num_pushers"
)

// ValidOutputModes lists all valid output modes.
var ValidOutputModes = map[OutputMode]struct{}{
	NoneOut:    {},
	TextOut:    {},
	CSVOut:     {},
	JSONOut:    {},
	ParquetOut: {},
}

// ValidDatabaseBackends lists all valid store backends.
var ValidDatabaseBackends = map[DatabaseBackend]struct{}{
	SQLiteBackend:     {},
	DuckDBBackend:     {},
	MySQLBackend:      {},
	PostgreSQLBackend: {},
}

// IsFileBackend reports whether the backend keeps its data in local files.
func (b DatabaseBackend) IsFileBackend() bool {
	return b == SQLiteBackend || b == DuckDBBackend
}
