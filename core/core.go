// Package core has core logic for importing language data and reporting trends.
package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"runtime"
	"time"

	"github.com/huangsam/langtrends/internal/chart"
	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/internal/csvload"
	"github.com/huangsam/langtrends/internal/logging"
	"github.com/huangsam/langtrends/internal/outwriter"
	"github.com/huangsam/langtrends/schema"
	"golang.org/x/term"
)

// ExecutorFunc defines the function signature for executing the jobs.
type ExecutorFunc func(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) error

// ExecuteImport loads the CSV file and replaces the configured table with its contents.
func ExecuteImport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (err error) {
	start := time.Now()
	ds := mgr.GetDataStore()
	if ds == nil {
		return errors.New("data store is not initialized")
	}
	runs := beginRun(mgr, schema.ImportRun, start, cfg)
	defer runs.endOnError(&err)

	table, err := csvload.ReadFile(cfg.CSVPath, cfg.Table)
	if err != nil {
		return err
	}
	if err := ds.ReplaceTable(ctx, table); err != nil {
		return fmt.Errorf("failed to write table %s: %w", cfg.Table, err)
	}

	stats := schema.ImportStats{
		Table:    table.Name,
		Columns:  len(table.Columns),
		Rows:     len(table.Rows),
		Duration: time.Since(start),
	}
	logging.Info().
		Str("table", stats.Table).
		Int("columns", stats.Columns).
		Int("rows", stats.Rows).
		Dur("duration", stats.Duration).
		Msg("import finished")

	runs.end(stats.Rows)
	fmt.Println("Database created successfully!")
	return nil
}

// ExecuteReport queries the stored table, computes quarterly shares and writes the chart.
func ExecuteReport(ctx context.Context, cfg *contract.Config, mgr contract.StoreManager) (err error) {
	start := time.Now()
	ds := mgr.GetDataStore()
	if ds == nil {
		return errors.New("data store is not initialized")
	}
	runs := beginRun(mgr, schema.ReportRun, start, cfg)
	defer runs.endOnError(&err)

	filter := cfg.Filter()
	rows, err := ds.QueryLanguageSeries(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query language series: %w", err)
	}
	totals, err := ds.QueryTotals(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to query quarter totals: %w", err)
	}
	logging.Debug().Int("series_rows", len(rows)).Int("total_rows", len(totals)).Msg("queried trend data")

	result, err := BuildTrendResult(rows, totals, cfg)
	if err != nil {
		return err
	}
	spec, err := BuildChartSpec(result, cfg.DPI)
	if err != nil {
		return err
	}
	if err := chart.RenderFile(spec, cfg.ChartPath); err != nil {
		return fmt.Errorf("failed to render chart: %w", err)
	}
	fmt.Printf("Chart saved as '%s'\n", cfg.ChartPath)

	if cfg.Output != schema.NoneOut {
		if err := outwriter.PrintTrendResults(result, cfg, time.Since(start)); err != nil {
			return err
		}
	}

	runs.end(len(result.Points))

	if cfg.OpenChart {
		openChart(cfg.ChartPath)
	}
	return nil
}

// runTracker wraps a journal entry so failures only warn.
type runTracker struct {
	store contract.RunStore
	id    int64
}

func beginRun(mgr contract.StoreManager, kind schema.RunKind, start time.Time, cfg *contract.Config) runTracker {
	rs := mgr.GetRunStore()
	if rs == nil {
		return runTracker{}
	}
	id, err := rs.BeginRun(kind, start, cfg.Params())
	if err != nil {
		contract.LogWarn("Run tracking initialization failed", err)
		return runTracker{}
	}
	return runTracker{store: rs, id: id}
}

func (r runTracker) end(rows int) {
	if r.store == nil || r.id <= 0 {
		return
	}
	if err := r.store.EndRun(r.id, time.Now(), rows); err != nil {
		contract.LogWarn("Failed to finalize run tracking", err)
	}
}

// endOnError closes a failed run with zero rows so the journal has no dangling entries.
func (r runTracker) endOnError(errp *error) {
	if *errp != nil {
		r.end(0)
	}
}

// openChart hands the chart to the platform viewer when attached to a terminal.
func openChart(path string) {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		logging.Debug().Str("chart", path).Msg("stdout is not a terminal; not opening chart")
		return
	}
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", path)
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", path)
	default:
		cmd = exec.Command("xdg-open", path)
	}
	if err := cmd.Start(); err != nil {
		contract.LogWarn("Could not open chart", err)
		return
	}
	go func() { _ = cmd.Wait() }()
}
