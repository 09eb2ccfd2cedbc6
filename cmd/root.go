package cmd

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/logging"
	"github.com/huangsam/langtrends/internal/store"
	"github.com/huangsam/langtrends/schema"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// All linker flags will be set by goreleaser infra at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// rootCtx is the root context for all operations.
var rootCtx = context.Background()

// cfg will hold the validated, final configuration.
var cfg = &contract.Config{}

// input holds the raw, unvalidated configuration from all sources (file, env, flags).
// Viper will unmarshal into this struct.
var input = &contract.ConfigRawInput{}

// storeManager is the global store manager instance.
var storeManager contract.StoreManager

// rootCmd is the command-line entrypoint for all other commands.
var rootCmd = &cobra.Command{
	Use:   "langtrends",
	Short: "Import language usage data and chart quarterly trends.",
	Long: `Langtrends loads a CSV of programming language activity into a relational store
and charts each language's quarterly share of all pushes.`,
	Version:            version,
	SilenceErrors:      true,
	SilenceUsage:       true,
	DisableSuggestions: true,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// initConfig reads in the .env file, config file and ENV variables if set.
func initConfig() {
	// A missing .env is normal; anything else is worth a warning
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		contract.LogWarn("Could not load .env file", err)
	}

	setConfigFile()

	// Set environment variable prefix
	viper.SetEnvPrefix("LANGTRENDS")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv() // Read in environment variables that match

	// Set defaults in Viper
	viper.SetDefault("csv", contract.DefaultCSVPath)
	viper.SetDefault("table", contract.DefaultTable)
	viper.SetDefault("backend", schema.SQLiteBackend)
	viper.SetDefault("db-connect", "")
	viper.SetDefault("track-runs", true)
	viper.SetDefault("log-level", contract.DefaultLogLevel)
	viper.SetDefault("log-format", contract.DefaultLogFormat)
	viper.SetDefault("start-year", contract.DefaultStartYear)
	viper.SetDefault("end-year", contract.DefaultEndYear)
	viper.SetDefault("language-type", contract.DefaultLanguageType)
	viper.SetDefault("languages", strings.Join(contract.DefaultLanguages, ","))
	viper.SetDefault("labeled", strings.Join(contract.DefaultLabeled, ","))
	viper.SetDefault("colors", strings.Join(contract.DefaultColors, ","))
	viper.SetDefault("chart", contract.DefaultChartPath)
	viper.SetDefault("dpi", contract.DefaultDPI)
	viper.SetDefault("open", true)
	viper.SetDefault("output", schema.NoneOut)
	viper.SetDefault("precision", contract.DefaultPrecision)
	viper.SetDefault("color", "yes")
}

// setConfigFile points viper at --config or the default .langtrends.yaml locations.
func setConfigFile() {
	if configFile := viper.GetString("config"); configFile != "" {
		viper.SetConfigFile(configFile)
		return
	}
	viper.SetConfigName(".langtrends") // Name of config file (without extension)
	viper.SetConfigType("yaml")        // We'll use YAML format
	viper.AddConfigPath(".")           // Look in the current directory
	viper.AddConfigPath("$HOME")       // Look in the home directory
}

// loadConfigFile reads the config file if present.
func loadConfigFile() error {
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			// Config file was found but another error was produced
			return fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found, which is fine; we'll use defaults/env/flags.
	}
	return nil
}

// initLogging configures zerolog from the resolved config values.
func initLogging() {
	logging.Init(logging.Config{
		Level:  viper.GetString("log-level"),
		Format: viper.GetString("log-format"),
	})
}

// sharedSetup unmarshals config, runs validation and opens the stores.
func sharedSetup(_ context.Context, _ *cobra.Command, args []string) error {
	// 1. Read config file. This merges defaults, file, env, and flags.
	if err := loadConfigFile(); err != nil {
		return err
	}
	initLogging()

	// 2. Unmarshal all resolved values from Viper into our raw input struct.
	if err := viper.Unmarshal(input); err != nil {
		return fmt.Errorf("unable to unmarshal config: %w", err)
	}

	// 3. Handle positional arguments (which Viper doesn't do).
	if len(args) == 1 {
		input.CSVPathStr = args[0]
	}

	// 4. Run all validation and complex parsing.
	if err := contract.ProcessAndValidate(cfg, input); err != nil {
		return err
	}

	// 5. Initialize persistence layer with validated config
	if err := store.InitStores(cfg.Backend, cfg.DBConnect, cfg.TrackRuns); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// sharedSetupWrapper wraps sharedSetup to provide context for Cobra's PreRunE.
func sharedSetupWrapper(cmd *cobra.Command, args []string) error {
	return sharedSetup(rootCtx, cmd, args)
}

// storeConfig loads the minimal configuration needed by maintenance commands.
// It skips the report validation so a broken chart setting cannot block them.
func storeConfig() error {
	if err := loadConfigFile(); err != nil {
		return err
	}
	initLogging()

	backend := schema.DatabaseBackend(strings.ToLower(viper.GetString("backend")))
	connStr := viper.GetString("db-connect")
	if err := contract.ValidateDatabaseConnectionString(backend, connStr); err != nil {
		return err
	}
	table := viper.GetString("table")
	if err := contract.ValidateTableName(table); err != nil {
		return err
	}

	cfg.Backend = backend
	cfg.DBConnect = contract.ResolveDBConnect(backend, connStr)
	cfg.Table = table
	cfg.OutputFile = viper.GetString("output-file")
	return nil
}

// storeSetup loads the minimal config and opens the stores with the journal on.
func storeSetup() error {
	if err := storeConfig(); err != nil {
		return err
	}
	if err := store.InitStores(cfg.Backend, cfg.DBConnect, true); err != nil {
		return fmt.Errorf("failed to initialize store: %w", err)
	}
	return nil
}

// storeSetupWrapper wraps storeSetup to provide PreRunE for maintenance commands.
func storeSetupWrapper(_ *cobra.Command, _ []string) error {
	return storeSetup()
}

// storeConfigWrapper loads config without opening the stores, for clear and migrate.
func storeConfigWrapper(_ *cobra.Command, _ []string) error {
	return storeConfig()
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// SetStoreManager sets the global store manager.
func SetStoreManager(mgr contract.StoreManager) {
	storeManager = mgr
}
