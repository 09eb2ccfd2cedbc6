// Package parquet provides data structures and functions for exporting trend
// points and the run journal to Parquet files using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/huangsam/langtrends/schema"
	"github.com/parquet-go/parquet-go"
)

// Run represents a single import or report run.
// This struct maps to the langtrends_runs database table.
type Run struct {
	// RunID is the unique identifier for this run
	RunID int64 `parquet:"run_id,snappy"`

	// Kind is the job that ran: import or report
	Kind string `parquet:"kind,snappy,dict"`

	// StartTime is when the run began
	StartTime time.Time `parquet:"start_time,snappy"`

	// EndTime is when the run completed (nullable)
	EndTime *time.Time `parquet:"end_time,optional,snappy"`

	// RunDurationMs is the duration of the run in milliseconds (nullable)
	RunDurationMs *int64 `parquet:"run_duration_ms,optional,snappy"`

	// RowsProcessed is the number of rows imported or trend points reported (nullable)
	RowsProcessed *int64 `parquet:"rows_processed,optional,snappy"`

	// ConfigParams contains the JSON-encoded configuration parameters (nullable)
	ConfigParams *string `parquet:"config_params,optional,snappy"`
}

// TrendPoint is one language's share of pushers in one quarter.
type TrendPoint struct {
	Year         int32     `parquet:"year,snappy"`
	Quarter      int32     `parquet:"quarter,snappy"`
	Language     string    `parquet:"language,snappy,dict"`
	Pushers      int64     `parquet:"pushers,snappy"`
	TotalPushers int64     `parquet:"total_pushers,snappy"`
	Percentage   float64   `parquet:"percentage,snappy"`
	Date         time.Time `parquet:"date,snappy"`
}

// writeRows writes all rows with a generic writer whose schema comes from T's struct tags.
func writeRows[T any](w io.Writer, rows []T) error {
	writer := parquet.NewGenericWriter[T](w)
	if _, err := writer.Write(rows); err != nil {
		_ = writer.Close()
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return fmt.Errorf("failed to finalize parquet file: %w", err)
	}
	return nil
}

// writeFile creates outputPath and writes rows to it.
func writeFile[T any](rows []T, outputPath string) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := writeRows(file, rows); err != nil {
		_ = file.Close()
		return err
	}
	return file.Close()
}

// WriteRunsParquet writes a slice of Run structs to a Parquet file.
func WriteRunsParquet(data []Run, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTrendPointsParquet writes a slice of TrendPoint structs to a Parquet file.
func WriteTrendPointsParquet(data []TrendPoint, outputPath string) error {
	return writeFile(data, outputPath)
}

// WriteTrendPoints writes trend points as Parquet to any writer.
func WriteTrendPoints(w io.Writer, data []TrendPoint) error {
	return writeRows(w, data)
}

// ConvertRunRecords converts schema.RunRecord to Run for Parquet export.
func ConvertRunRecords(records []schema.RunRecord) []Run {
	result := make([]Run, len(records))
	for i, record := range records {
		result[i] = Run{
			RunID:         record.RunID,
			Kind:          string(record.Kind),
			StartTime:     record.StartTime,
			EndTime:       record.EndTime,
			RunDurationMs: record.RunDurationMs,
			RowsProcessed: record.RowsProcessed,
			ConfigParams:  record.ConfigParams,
		}
	}
	return result
}

// ConvertTrendPoints converts schema.TrendPoint to TrendPoint for Parquet export.
func ConvertTrendPoints(points []schema.TrendPoint) []TrendPoint {
	result := make([]TrendPoint, len(points))
	for i, p := range points {
		result[i] = TrendPoint{
			Year:         int32(p.Year),
			Quarter:      int32(p.Quarter),
			Language:     p.Language,
			Pushers:      p.Pushers,
			TotalPushers: p.TotalPushers,
			Percentage:   p.Percentage,
			Date:         p.Date,
		}
	}
	return result
}
