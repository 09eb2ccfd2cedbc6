// Package cmd defines the command-line interface for langtrends.
package cmd

import (
	"strings"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(importCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(storeCmd)
	rootCmd.AddCommand(runsCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the store subcommands to the parent store command
	storeCmd.AddCommand(storeStatusCmd)
	storeCmd.AddCommand(storeClearCmd)
	storeCmd.AddCommand(storeMigrateCmd)

	// Add the runs subcommands to the parent runs command
	runsCmd.AddCommand(runsStatusCmd)
	runsCmd.AddCommand(runsExportCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().String("table", contract.DefaultTable, "Name of the table holding the imported data")
	rootCmd.PersistentFlags().String("backend", string(schema.SQLiteBackend), "Store backend: sqlite or duckdb or mysql or postgresql")
	rootCmd.PersistentFlags().String("db-connect", "", "Database file for sqlite/duckdb, or connection string for mysql/postgresql")
	rootCmd.PersistentFlags().Bool("track-runs", true, "Record import and report runs in the run journal")
	rootCmd.PersistentFlags().String("log-level", contract.DefaultLogLevel, "Diagnostic log level: trace, debug, info, warn, error, disabled")
	rootCmd.PersistentFlags().String("log-format", contract.DefaultLogFormat, "Diagnostic log format: console or json")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Error binding root flags", err)
	}

	// Bind all flags of importCmd to Viper
	importCmd.Flags().String("csv", contract.DefaultCSVPath, "CSV file to import when no path argument is given")
	if err := viper.BindPFlags(importCmd.Flags()); err != nil {
		contract.LogFatal("Error binding import flags", err)
	}

	// Bind all flags of reportCmd to Viper
	reportCmd.Flags().Int("start-year", contract.DefaultStartYear, "First year to include")
	reportCmd.Flags().Int("end-year", contract.DefaultEndYear, "Last year to include")
	reportCmd.Flags().String("language-type", contract.DefaultLanguageType, "Value of language_type to aggregate")
	reportCmd.Flags().String("languages", strings.Join(contract.DefaultLanguages, ","), "Comma-separated languages to chart, in display order")
	reportCmd.Flags().String("labeled", strings.Join(contract.DefaultLabeled, ","), "Comma-separated languages to annotate")
	reportCmd.Flags().String("colors", strings.Join(contract.DefaultColors, ","), "Comma-separated #rrggbb colors, matched to languages by position")
	reportCmd.Flags().String("chart", contract.DefaultChartPath, "Path of the PNG chart")
	reportCmd.Flags().Int("dpi", contract.DefaultDPI, "Chart resolution in dots per inch")
	reportCmd.Flags().Bool("open", true, "Open the chart when running in a terminal")
	reportCmd.Flags().String("output", string(schema.NoneOut), "Tabular output: none or text or csv or json or parquet")
	reportCmd.Flags().Int("precision", contract.DefaultPrecision, "Decimal precision for numeric columns")
	reportCmd.Flags().String("color", "yes", "Enable colored labels in output (yes/no/true/false/1/0)")
	if err := viper.BindPFlags(reportCmd.Flags()); err != nil {
		contract.LogFatal("Error binding report flags", err)
	}

	// Bind all flags of storeMigrateCmd to Viper
	storeMigrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(storeMigrateCmd.Flags()); err != nil {
		contract.LogFatal("Error binding store migrate flags", err)
	}
}
