// Package outwriter has output and writer logic.
package outwriter

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
)

// PrintTrendResults outputs the trend result to stdout or cfg.OutputFile,
// dispatching based on the output format configured.
func PrintTrendResults(result schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	if cfg.Output == schema.NoneOut {
		return nil
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires an output file")
	}

	label := outputLabel(cfg.Output)
	if err := writeWithFile(cfg.OutputFile, func(w io.Writer) error {
		return writeTrendResults(w, result, cfg, duration)
	}, "Wrote "+label); err != nil {
		return fmt.Errorf("error writing %s: %w", label, err)
	}
	return nil
}

// writeTrendResults writes the trend result in the configured format to w.
func writeTrendResults(w io.Writer, result schema.TrendResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)
	switch cfg.Output {
	case schema.JSONOut:
		return writeJSONTrends(w, result)
	case schema.CSVOut:
		return writeCSVTrends(w, result, fmtFloat)
	case schema.ParquetOut:
		return writeParquetTrends(w, result)
	default:
		return writeTrendTable(w, result, cfg, fmtFloat, duration)
	}
}

func outputLabel(out schema.OutputMode) string {
	switch out {
	case schema.JSONOut:
		return "JSON trend results"
	case schema.CSVOut:
		return "CSV trend results"
	case schema.ParquetOut:
		return "Parquet trend points"
	default:
		return "trend table"
	}
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		_, _ = fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// floatFormatter formats percentages with the configured number of decimals.
func floatFormatter(precision int) func(float64) string {
	return func(v float64) string {
		return fmt.Sprintf("%.*f", precision, v)
	}
}
