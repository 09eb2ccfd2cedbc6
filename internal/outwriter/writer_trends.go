package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/goccy/go-json"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/parquet"
	"github.com/huangsam/langtrends/schema"
	"github.com/jszwec/csvutil"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// dateFormat is used for the plot date in CSV output.
const dateFormat = "2006-01-02"

// writeJSONTrends writes the whole result as indented JSON.
func writeJSONTrends(w io.Writer, result schema.TrendResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// writeCSVTrends writes one row per trend point, header first.
func writeCSVTrends(w io.Writer, result schema.TrendResult, fmtFloat func(float64) string) error {
	csvWriter := csv.NewWriter(w)
	encoder := csvutil.NewEncoder(csvWriter)
	encoder.Register(func(f float64) ([]byte, error) {
		return []byte(fmtFloat(f)), nil
	})
	encoder.Register(func(t time.Time) ([]byte, error) {
		return []byte(t.Format(dateFormat)), nil
	})

	if len(result.Points) == 0 {
		if err := encoder.EncodeHeader(schema.TrendPoint{}); err != nil {
			return fmt.Errorf("failed to write CSV header: %w", err)
		}
	}
	for _, p := range result.Points {
		if err := encoder.Encode(p); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// writeParquetTrends writes the trend points as a Parquet file.
func writeParquetTrends(w io.Writer, result schema.TrendResult) error {
	return parquet.WriteTrendPoints(w, parquet.ConvertTrendPoints(result.Points))
}

// writeTrendTable prints one summary row per tracked language.
func writeTrendTable(w io.Writer, result schema.TrendResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header([]string{"Language", "Points", "First %", "Last %", "Change", "Trend"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	var data [][]string
	for _, s := range result.Summaries {
		label := string(s.Direction)
		if cfg.UseColors {
			label = contract.GetColorLabel(s.Direction)
		}
		data = append(data, []string{
			s.Language,
			fmt.Sprintf("%d", s.Points),
			fmtFloat(s.FirstPercentage),
			fmtFloat(s.LastPercentage),
			fmtFloat(s.Change),
			label,
		})
	}
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := fmt.Fprintf(w, "%s: %d points in %v. Store backend: %s\n", result.Title, len(result.Points), duration, cfg.Backend)
	return err
}
