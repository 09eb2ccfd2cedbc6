package contract

import (
	"strings"
	"testing"

	"github.com/huangsam/langtrends/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// validInput returns raw input equal to the CLI defaults.
func validInput() *ConfigRawInput {
	return &ConfigRawInput{
		Table:        DefaultTable,
		Backend:      string(schema.SQLiteBackend),
		TrackRuns:    true,
		LogLevel:     DefaultLogLevel,
		LogFormat:    DefaultLogFormat,
		CSV:          DefaultCSVPath,
		StartYear:    DefaultStartYear,
		EndYear:      DefaultEndYear,
		LanguageType: DefaultLanguageType,
		Languages:    strings.Join(DefaultLanguages, ","),
		Labeled:      strings.Join(DefaultLabeled, ","),
		Colors:       strings.Join(DefaultColors, ","),
		Chart:        DefaultChartPath,
		DPI:          DefaultDPI,
		Open:         true,
		Output:       "none",
		Precision:    DefaultPrecision,
		Color:        "yes",
	}
}

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*ConfigRawInput)
		expectError string
	}{
		{
			name:   "valid defaults",
			mutate: func(*ConfigRawInput) {},
		},
		{
			name:        "invalid backend",
			mutate:      func(in *ConfigRawInput) { in.Backend = "oracle" },
			expectError: "invalid backend",
		},
		{
			name:        "mysql without connection string",
			mutate:      func(in *ConfigRawInput) { in.Backend = "mysql" },
			expectError: "db-connect is required",
		},
		{
			name: "postgresql with connection string",
			mutate: func(in *ConfigRawInput) {
				in.Backend = "postgresql"
				in.DBConnect = "host=localhost port=5432 user=postgres dbname=langtrends"
			},
		},
		{
			name:        "bad table name",
			mutate:      func(in *ConfigRawInput) { in.Table = "languages; DROP TABLE x" },
			expectError: "invalid table name",
		},
		{
			name:        "invalid output",
			mutate:      func(in *ConfigRawInput) { in.Output = "xml" },
			expectError: "invalid output format",
		},
		{
			name:        "parquet without output file",
			mutate:      func(in *ConfigRawInput) { in.Output = "parquet" },
			expectError: "--output-file is required",
		},
		{
			name:        "precision too high",
			mutate:      func(in *ConfigRawInput) { in.Precision = MaxPrecision + 1 },
			expectError: "precision must be between",
		},
		{
			name:        "bad color flag",
			mutate:      func(in *ConfigRawInput) { in.Color = "sometimes" },
			expectError: "invalid color value",
		},
		{
			name: "start after end",
			mutate: func(in *ConfigRawInput) {
				in.StartYear = 2025
				in.EndYear = 2020
			},
			expectError: "must not be after",
		},
		{
			name:        "empty language type",
			mutate:      func(in *ConfigRawInput) { in.LanguageType = "  " },
			expectError: "language-type cannot be empty",
		},
		{
			name:        "no languages",
			mutate:      func(in *ConfigRawInput) { in.Languages = " , " },
			expectError: "at least one language",
		},
		{
			name:        "labeled language not tracked",
			mutate:      func(in *ConfigRawInput) { in.Labeled = "Go" },
			expectError: "not one of the tracked languages",
		},
		{
			name:        "too few colors",
			mutate:      func(in *ConfigRawInput) { in.Colors = "#3498db" },
			expectError: "colors",
		},
		{
			name: "malformed color",
			mutate: func(in *ConfigRawInput) {
				in.Languages = "Go"
				in.Labeled = ""
				in.Colors = "blue"
			},
			expectError: "invalid color",
		},
		{
			name:        "chart is not png",
			mutate:      func(in *ConfigRawInput) { in.Chart = "trends.svg" },
			expectError: "must end in .png",
		},
		{
			name:        "zero dpi",
			mutate:      func(in *ConfigRawInput) { in.DPI = 0 },
			expectError: "dpi must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validInput()
			tt.mutate(input)
			cfg := &Config{}
			err := ProcessAndValidate(cfg, input)
			if tt.expectError != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.expectError)
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestProcessAndValidateDefaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, validInput()))

	assert.Equal(t, schema.SQLiteBackend, cfg.Backend)
	assert.Equal(t, DefaultSQLitePath, cfg.DBConnect)
	assert.Equal(t, DefaultCSVPath, cfg.CSVPath)
	assert.Equal(t, DefaultLanguages, cfg.Languages)
	assert.Equal(t, DefaultLabeled, cfg.Labeled)
	assert.Equal(t, DefaultColors, cfg.Colors)
	assert.Equal(t, float64(DefaultDPI), cfg.DPI)
	assert.Equal(t, schema.NoneOut, cfg.Output)
	assert.True(t, cfg.UseColors)
	assert.True(t, cfg.TrackRuns)

	filter := cfg.Filter()
	assert.Equal(t, "languages", filter.Table)
	assert.Equal(t, "programming", filter.LanguageType)
	assert.Equal(t, 2013, filter.StartYear)
	assert.Equal(t, 2024, filter.EndYear)
}

func TestPositionalCSVWins(t *testing.T) {
	input := validInput()
	input.CSVPathStr = "data/other.csv"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, "data/other.csv", cfg.CSVPath)
}

func TestDuckDBDefaultPath(t *testing.T) {
	input := validInput()
	input.Backend = "DuckDB"
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, input))
	assert.Equal(t, schema.DuckDBBackend, cfg.Backend)
	assert.Equal(t, DefaultDuckDBPath, cfg.DBConnect)
}

func TestRunsDBConnect(t *testing.T) {
	assert.Equal(t, "languages.runs.db", RunsDBConnect(schema.SQLiteBackend, DefaultSQLitePath))
	assert.Equal(t, "languages.runs.duckdb", RunsDBConnect(schema.DuckDBBackend, DefaultDuckDBPath))
	assert.Equal(t, "/data/trends.runs", RunsDBConnect(schema.SQLiteBackend, "/data/trends"))
	assert.Equal(t, ":memory:", RunsDBConnect(schema.SQLiteBackend, ":memory:"))

	dsn := "host=localhost user=postgres dbname=postgres"
	assert.Equal(t, dsn, RunsDBConnect(schema.PostgreSQLBackend, dsn))
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	tests := []struct {
		name    string
		backend schema.DatabaseBackend
		connStr string
		wantErr bool
	}{
		{"sqlite empty", schema.SQLiteBackend, "", false},
		{"duckdb path", schema.DuckDBBackend, "/tmp/x.duckdb", false},
		{"mysql valid", schema.MySQLBackend, "root:pw@tcp(localhost:3306)/langtrends", false},
		{"mysql missing tcp", schema.MySQLBackend, "root:pw@localhost/langtrends", true},
		{"mysql missing db", schema.MySQLBackend, "root:pw@tcp(localhost:3306)", true},
		{"postgres valid", schema.PostgreSQLBackend, "host=localhost dbname=langtrends", false},
		{"postgres missing host", schema.PostgreSQLBackend, "dbname=langtrends", true},
		{"postgres missing dbname", schema.PostgreSQLBackend, "host=localhost", true},
		{"unknown", schema.DatabaseBackend("oracle"), "x", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateDatabaseConnectionString(tt.backend, tt.connStr)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateTableName(t *testing.T) {
	assert.NoError(t, ValidateTableName("languages"))
	assert.NoError(t, ValidateTableName("_lang_2024"))
	assert.Error(t, ValidateTableName(""))
	assert.Error(t, ValidateTableName("2024_languages"))
	assert.Error(t, ValidateTableName("lang-uages"))
	assert.Error(t, ValidateTableName(`languages"`))
}
