package core

import (
	"errors"
	"fmt"
	"math"
	"slices"
	"time"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
)

// Chart text and geometry.
const (
	chartTitleFormat = "Programming Language Trends (%s - %s)"
	chartXLabel      = "Year-Quarter"
	chartYLabel      = "Percentage of Total Programming Language Pushes (%)"
	chartWidthInches = 14
	chartHeightInch  = 8
	axisMarginRatio  = 0.05
	tickDay          = 15
)

// tickMonths are the months that get an x-axis tick.
var tickMonths = []time.Month{time.January, time.April, time.July, time.October}

// ErrNoTrendPoints is returned when the join leaves nothing to plot.
var ErrNoTrendPoints = errors.New("no trend points for the selected languages and years")

// Percentage returns pushers as a share of total in percent.
// A zero total follows float division: +Inf, or NaN when pushers is zero too.
func Percentage(pushers, total int64) float64 {
	return float64(pushers) / float64(total) * 100
}

// SynthesizeDate maps a quarter to day 15 of its last month.
func SynthesizeDate(year, quarter int) time.Time {
	return time.Date(year, time.Month(quarter*3), 15, 0, 0, 0, 0, time.UTC)
}

// QuarterLabel renders t as "<year> Q<n>".
func QuarterLabel(t time.Time) string {
	return fmt.Sprintf("%d Q%d", t.Year(), quarterOf(t))
}

// QuarterTickLabel renders the axis label for t: the year only on January ticks.
func QuarterTickLabel(t time.Time) string {
	if t.Month() == time.January {
		return fmt.Sprintf("%d Q1", t.Year())
	}
	return fmt.Sprintf("Q%d", quarterOf(t))
}

func quarterOf(t time.Time) int {
	return (int(t.Month()) + 2) / 3
}

// PercentLabel rounds half to even, like the annotations on the chart.
func PercentLabel(pct float64) string {
	if math.IsNaN(pct) || math.IsInf(pct, 0) {
		return fmt.Sprintf("%v%%", pct)
	}
	return fmt.Sprintf("%d%%", int64(math.RoundToEven(pct)))
}

// MergeTotals inner-joins language rows with quarter totals on (year, quarter).
// Rows without a total are dropped. Order follows the language rows.
func MergeTotals(series []schema.LanguageSeriesRow, totals []schema.TotalRow) ([]schema.TrendPoint, error) {
	type key struct{ year, quarter int }
	byQuarter := make(map[key]int64, len(totals))
	for _, t := range totals {
		byQuarter[key{t.Year, t.Quarter}] = t.TotalPushers
	}

	points := make([]schema.TrendPoint, 0, len(series))
	for _, row := range series {
		total, ok := byQuarter[key{row.Year, row.Quarter}]
		if !ok {
			continue
		}
		if row.Quarter < 1 || row.Quarter > 4 {
			return nil, fmt.Errorf("invalid quarter %d for %s in %d", row.Quarter, row.Language, row.Year)
		}
		points = append(points, schema.TrendPoint{
			Year:         row.Year,
			Quarter:      row.Quarter,
			Language:     row.Language,
			Pushers:      row.Pushers,
			TotalPushers: total,
			Percentage:   Percentage(row.Pushers, total),
			Date:         SynthesizeDate(row.Year, row.Quarter),
		})
	}
	return points, nil
}

// BuildSeries groups points per language in display order, each sorted by date.
// Every language gets a series, even an empty one; colors are matched by index.
func BuildSeries(points []schema.TrendPoint, languages, colors, labeled []string) ([]schema.TrendSeries, error) {
	if len(colors) < len(languages) {
		return nil, fmt.Errorf("need %d colors, got %d", len(languages), len(colors))
	}

	series := make([]schema.TrendSeries, len(languages))
	index := make(map[string]int, len(languages))
	for i, lang := range languages {
		series[i] = schema.TrendSeries{
			Language: lang,
			Color:    colors[i],
			Labeled:  slices.Contains(labeled, lang),
		}
		index[lang] = i
	}

	for _, p := range points {
		if i, ok := index[p.Language]; ok {
			series[i].Points = append(series[i].Points, p)
		}
	}

	for i := range series {
		slices.SortStableFunc(series[i].Points, func(a, b schema.TrendPoint) int {
			return a.Date.Compare(b.Date)
		})
		if series[i].Labeled && len(series[i].Points) == 0 {
			return nil, fmt.Errorf("labeled language %s has no data points", series[i].Language)
		}
	}
	return series, nil
}

// Annotations returns the first, last and name labels of every labeled series.
// The name sits on the point at index len/2.
func Annotations(series []schema.TrendSeries) []schema.Annotation {
	var out []schema.Annotation
	for _, s := range series {
		if !s.Labeled || len(s.Points) == 0 {
			continue
		}
		first, last := s.Points[0], s.Points[len(s.Points)-1]
		mid := s.Points[len(s.Points)/2]
		out = append(out,
			schema.Annotation{Kind: schema.ValueAnnotation, Date: first.Date, Percentage: first.Percentage, Text: PercentLabel(first.Percentage), Color: s.Color},
			schema.Annotation{Kind: schema.ValueAnnotation, Date: last.Date, Percentage: last.Percentage, Text: PercentLabel(last.Percentage), Color: s.Color},
			schema.Annotation{Kind: schema.NameAnnotation, Date: mid.Date, Percentage: mid.Percentage, Text: s.Language, Color: s.Color},
		)
	}
	return out
}

// DateRange returns the earliest and latest point dates.
func DateRange(points []schema.TrendPoint) (time.Time, time.Time, error) {
	if len(points) == 0 {
		return time.Time{}, time.Time{}, ErrNoTrendPoints
	}
	minDate, maxDate := points[0].Date, points[0].Date
	for _, p := range points[1:] {
		if p.Date.Before(minDate) {
			minDate = p.Date
		}
		if p.Date.After(maxDate) {
			maxDate = p.Date
		}
	}
	return minDate, maxDate, nil
}

// AxisRange pads the data range by a fraction on both sides.
// A single-date range gets one quarter of padding each way.
func AxisRange(minDate, maxDate time.Time) (time.Time, time.Time) {
	span := maxDate.Sub(minDate)
	if span <= 0 {
		return minDate.AddDate(0, -3, 0), maxDate.AddDate(0, 3, 0)
	}
	pad := time.Duration(float64(span) * axisMarginRatio)
	return minDate.Add(-pad), maxDate.Add(pad)
}

// QuarterTicks returns a tick on day 15 of January, April, July and October
// for every such date within [from, to].
func QuarterTicks(from, to time.Time) []schema.Tick {
	var ticks []schema.Tick
	for year := from.Year(); year <= to.Year(); year++ {
		for _, month := range tickMonths {
			t := time.Date(year, month, tickDay, 0, 0, 0, 0, time.UTC)
			if t.Before(from) || t.After(to) {
				continue
			}
			ticks = append(ticks, schema.Tick{Value: t, Label: QuarterTickLabel(t)})
		}
	}
	return ticks
}

// Summarize condenses each series into first and last percentage plus a direction.
func Summarize(series []schema.TrendSeries) []schema.TrendSummary {
	summaries := make([]schema.TrendSummary, 0, len(series))
	for _, s := range series {
		summary := schema.TrendSummary{Language: s.Language, Points: len(s.Points), Direction: schema.FlatTrend}
		if len(s.Points) > 0 {
			summary.FirstPercentage = s.Points[0].Percentage
			summary.LastPercentage = s.Points[len(s.Points)-1].Percentage
			summary.Change = summary.LastPercentage - summary.FirstPercentage
			summary.Direction = contract.GetTrendDirection(summary.Change)
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

// BuildTrendResult runs the whole in-memory part of the report: join, series,
// title and summaries.
func BuildTrendResult(rows []schema.LanguageSeriesRow, totals []schema.TotalRow, cfg *contract.Config) (schema.TrendResult, error) {
	points, err := MergeTotals(rows, totals)
	if err != nil {
		return schema.TrendResult{}, err
	}
	minDate, maxDate, err := DateRange(points)
	if err != nil {
		return schema.TrendResult{}, err
	}
	series, err := BuildSeries(points, cfg.Languages, cfg.Colors, cfg.Labeled)
	if err != nil {
		return schema.TrendResult{}, err
	}

	first, last := QuarterLabel(minDate), QuarterLabel(maxDate)
	return schema.TrendResult{
		Title:        fmt.Sprintf(chartTitleFormat, first, last),
		FirstQuarter: first,
		LastQuarter:  last,
		Points:       points,
		Series:       series,
		Summaries:    Summarize(series),
	}, nil
}

// BuildChartSpec lays out the chart for a trend result.
func BuildChartSpec(result schema.TrendResult, dpi float64) (schema.ChartSpec, error) {
	minDate, maxDate, err := DateRange(result.Points)
	if err != nil {
		return schema.ChartSpec{}, err
	}
	from, to := AxisRange(minDate, maxDate)
	return schema.ChartSpec{
		Title:        result.Title,
		XLabel:       chartXLabel,
		YLabel:       chartYLabel,
		Series:       result.Series,
		Annotations:  Annotations(result.Series),
		Ticks:        QuarterTicks(from, to),
		XMin:         from,
		XMax:         to,
		WidthInches:  chartWidthInches,
		HeightInches: chartHeightInch,
		DPI:          dpi,
	}, nil
}
