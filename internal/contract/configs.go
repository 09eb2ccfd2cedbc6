package contract

import (
	"fmt"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/huangsam/langtrends/schema"
)

// Default values for configuration.
const (
	DefaultCSVPath      = "languages.csv"
	DefaultTable        = "languages"
	DefaultSQLitePath   = "languages.db"
	DefaultDuckDBPath   = "languages.duckdb"
	DefaultStartYear    = 2013
	DefaultEndYear      = 2024
	DefaultLanguageType = "programming"
	DefaultChartPath    = "language_trends.png"
	DefaultDPI          = 300
	DefaultPrecision    = 1
	MaxPrecision        = 6
	DefaultLogLevel     = "warn"
	DefaultLogFormat    = "console"
)

// DefaultLanguages are the tracked languages in display order.
var DefaultLanguages = []string{"JavaScript", "Python", "Java", "C++", "PHP", "Ruby", "C"}

// DefaultLabeled are the languages that get first/last and name annotations.
var DefaultLabeled = []string{"JavaScript", "Python", "Java"}

// DefaultColors are the series colors, matched to DefaultLanguages by index.
var DefaultColors = []string{"#3498db", "#2ecc71", "#e74c3c", "#9b59b6", "#f39c12", "#1abc9c", "#34495e"}

var (
	tableNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)
	hexColorPattern  = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)
)

// Config holds the runtime configuration for both jobs.
// This struct is the "final, validated" config.
type Config struct {
	CSVPath string
	Table   string

	Backend   schema.DatabaseBackend
	DBConnect string // Please use env var for server backends as this is plaintext

	StartYear    int
	EndYear      int
	LanguageType string
	Languages    []string
	Labeled      []string
	Colors       []string

	ChartPath string
	DPI       float64
	OpenChart bool

	Output     schema.OutputMode
	OutputFile string
	Precision  int
	UseColors  bool

	TrackRuns bool
	LogLevel  string
	LogFormat string
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	CSVPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Table     string `mapstructure:"table"`
	Backend   string `mapstructure:"backend"`
	DBConnect string `mapstructure:"db-connect"`
	TrackRuns bool   `mapstructure:"track-runs"`
	LogLevel  string `mapstructure:"log-level"`
	LogFormat string `mapstructure:"log-format"`

	// --- Fields from importCmd.Flags() ---
	CSV string `mapstructure:"csv"`

	// --- Fields from reportCmd.Flags() ---
	StartYear    int    `mapstructure:"start-year"`
	EndYear      int    `mapstructure:"end-year"`
	LanguageType string `mapstructure:"language-type"`
	Languages    string `mapstructure:"languages"`
	Labeled      string `mapstructure:"labeled"`
	Colors       string `mapstructure:"colors"`
	Chart        string `mapstructure:"chart"`
	DPI          int    `mapstructure:"dpi"`
	Open         bool   `mapstructure:"open"`
	Output       string `mapstructure:"output"`
	OutputFile   string `mapstructure:"output-file"`
	Precision    int    `mapstructure:"precision"`
	Color        string `mapstructure:"color"`
}

// Filter builds the aggregation filter for the reporter queries.
func (c *Config) Filter() schema.TrendFilter {
	languages := make([]string, len(c.Languages))
	copy(languages, c.Languages)
	return schema.TrendFilter{
		Table:        c.Table,
		LanguageType: c.LanguageType,
		StartYear:    c.StartYear,
		EndYear:      c.EndYear,
		Languages:    languages,
	}
}

// Params returns the settings recorded in the run journal.
func (c *Config) Params() map[string]any {
	return map[string]any{
		"table":         c.Table,
		"backend":       string(c.Backend),
		"csv":           c.CSVPath,
		"start_year":    c.StartYear,
		"end_year":      c.EndYear,
		"language_type": c.LanguageType,
		"languages":     c.Languages,
		"chart":         c.ChartPath,
		"dpi":           c.DPI,
	}
}

// ProcessAndValidate performs all parsing and validation on the raw inputs
// and populates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateBackendConfigs(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return processTrendInputs(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.DuckDBBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	default:
		return fmt.Errorf("invalid backend '%s'. must be sqlite, duckdb, mysql, postgresql", backend)
	}
	return nil
}

// ValidateTableName ensures the name can be used as an unquoted SQL identifier.
func ValidateTableName(name string) error {
	if name == "" {
		return fmt.Errorf("table name cannot be empty")
	}
	if !tableNamePattern.MatchString(name) {
		return fmt.Errorf("invalid table name: %s (must match pattern %s)", name, tableNamePattern)
	}
	return nil
}

// ResolveDBConnect returns the connection string to use, filling in the default
// file path for file backends.
func ResolveDBConnect(backend schema.DatabaseBackend, connStr string) string {
	if connStr != "" {
		return connStr
	}
	switch backend {
	case schema.SQLiteBackend:
		return DefaultSQLitePath
	case schema.DuckDBBackend:
		return DefaultDuckDBPath
	default:
		return connStr
	}
}

// RunsDBConnect returns where the run journal lives. File backends keep it in a
// sibling file so the data file holds only the imported table, e.g.
// languages.db journals to languages.runs.db. Server backends share the database.
func RunsDBConnect(backend schema.DatabaseBackend, connStr string) string {
	if !backend.IsFileBackend() || connStr == "" || connStr == ":memory:" {
		return connStr
	}
	ext := filepath.Ext(connStr)
	return strings.TrimSuffix(connStr, ext) + ".runs" + ext
}

// validateBackendConfigs validates the store backend configuration.
func validateBackendConfigs(cfg *Config, input *ConfigRawInput) error {
	cfg.Backend = schema.DatabaseBackend(strings.ToLower(input.Backend))
	if _, ok := schema.ValidDatabaseBackends[cfg.Backend]; !ok {
		return fmt.Errorf("invalid backend '%s'. must be sqlite, duckdb, mysql, postgresql", input.Backend)
	}
	if err := ValidateDatabaseConnectionString(cfg.Backend, input.DBConnect); err != nil {
		return err
	}
	cfg.DBConnect = ResolveDBConnect(cfg.Backend, input.DBConnect)

	cfg.Table = input.Table
	if err := ValidateTableName(cfg.Table); err != nil {
		return err
	}
	cfg.TrackRuns = input.TrackRuns
	return nil
}

// validateSimpleInputs processes and validates all non-trend fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.CSVPath = input.CSVPathStr
	if cfg.CSVPath == "" {
		cfg.CSVPath = input.CSV
	}
	if cfg.CSVPath == "" {
		cfg.CSVPath = DefaultCSVPath
	}
	cfg.OutputFile = input.OutputFile
	cfg.LogLevel = input.LogLevel
	cfg.LogFormat = input.LogFormat

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if cfg.Output == "" {
		cfg.Output = schema.NoneOut
	}
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be none, text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("--output-file is required for parquet output")
	}

	if input.Precision < 0 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 0 and %d", MaxPrecision)
	}
	cfg.Precision = input.Precision

	useColors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid color value: %w", err)
	}
	cfg.UseColors = useColors
	return nil
}

// processTrendInputs validates everything that shapes the chart.
func processTrendInputs(cfg *Config, input *ConfigRawInput) error {
	if input.StartYear > input.EndYear {
		return fmt.Errorf("start-year %d must not be after end-year %d", input.StartYear, input.EndYear)
	}
	cfg.StartYear = input.StartYear
	cfg.EndYear = input.EndYear

	cfg.LanguageType = strings.TrimSpace(input.LanguageType)
	if cfg.LanguageType == "" {
		return fmt.Errorf("language-type cannot be empty")
	}

	cfg.Languages = SplitList(input.Languages)
	if len(cfg.Languages) == 0 {
		return fmt.Errorf("at least one language is required")
	}

	cfg.Labeled = SplitList(input.Labeled)
	for _, l := range cfg.Labeled {
		if !slices.Contains(cfg.Languages, l) {
			return fmt.Errorf("labeled language %q is not one of the tracked languages", l)
		}
	}

	cfg.Colors = SplitList(input.Colors)
	if len(cfg.Colors) < len(cfg.Languages) {
		return fmt.Errorf("need %d colors for %d languages, got %d", len(cfg.Languages), len(cfg.Languages), len(cfg.Colors))
	}
	for _, c := range cfg.Colors {
		if !hexColorPattern.MatchString(c) {
			return fmt.Errorf("invalid color %q (expected #rrggbb)", c)
		}
	}

	cfg.ChartPath = input.Chart
	if cfg.ChartPath == "" {
		return fmt.Errorf("chart path cannot be empty")
	}
	if !strings.EqualFold(filepath.Ext(cfg.ChartPath), ".png") {
		return fmt.Errorf("chart path must end in .png: %s", cfg.ChartPath)
	}
	if input.DPI <= 0 {
		return fmt.Errorf("dpi must be positive")
	}
	cfg.DPI = float64(input.DPI)
	cfg.OpenChart = input.Open
	return nil
}

// SplitList splits a comma-separated list, trimming blanks and dropping empty items.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
