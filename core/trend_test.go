package core

import (
	"math"
	"testing"
	"time"

	"github.com/huangsam/langtrends/internal/contract"
	"github.com/huangsam/langtrends/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *contract.Config {
	return &contract.Config{
		Languages: []string{"Python", "Java", "Ruby"},
		Labeled:   []string{"Python"},
		Colors:    []string{"#2ecc71", "#e74c3c", "#1abc9c"},
		DPI:       40,
	}
}

func TestPercentage(t *testing.T) {
	assert.InDelta(t, 25.0, Percentage(25, 100), 1e-9)
	assert.InDelta(t, 100.0, Percentage(7, 7), 1e-9)
	assert.True(t, math.IsInf(Percentage(1, 0), 1))
	assert.True(t, math.IsNaN(Percentage(0, 0)))
}

func TestSynthesizeDate(t *testing.T) {
	tests := []struct {
		quarter int
		month   time.Month
	}{
		{1, time.March},
		{2, time.June},
		{3, time.September},
		{4, time.December},
	}
	for _, tt := range tests {
		d := SynthesizeDate(2021, tt.quarter)
		assert.Equal(t, time.Date(2021, tt.month, 15, 0, 0, 0, 0, time.UTC), d)
		assert.Equal(t, tt.quarter, quarterOf(d))
	}
}

func TestQuarterLabels(t *testing.T) {
	assert.Equal(t, "2013 Q1", QuarterLabel(SynthesizeDate(2013, 1)))
	assert.Equal(t, "2024 Q4", QuarterLabel(SynthesizeDate(2024, 4)))

	assert.Equal(t, "2020 Q1", QuarterTickLabel(time.Date(2020, 1, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Q2", QuarterTickLabel(time.Date(2020, 4, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Q3", QuarterTickLabel(time.Date(2020, 7, 15, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, "Q4", QuarterTickLabel(time.Date(2020, 10, 15, 0, 0, 0, 0, time.UTC)))

	// Synthesized dates label the same way
	assert.Equal(t, "Q2", QuarterTickLabel(SynthesizeDate(2020, 2)))
	assert.Equal(t, "Q3", QuarterTickLabel(SynthesizeDate(2020, 3)))
	assert.Equal(t, "Q4", QuarterTickLabel(SynthesizeDate(2020, 4)))
}

func TestPercentLabel(t *testing.T) {
	assert.Equal(t, "12%", PercentLabel(12.4))
	assert.Equal(t, "13%", PercentLabel(12.6))
	assert.Equal(t, "12%", PercentLabel(12.5))
	assert.Equal(t, "14%", PercentLabel(13.5))
	assert.Equal(t, "0%", PercentLabel(0))
	assert.Equal(t, "100%", PercentLabel(100))
}

func TestMergeTotals(t *testing.T) {
	rows := []schema.LanguageSeriesRow{
		{Year: 2020, Quarter: 1, Language: "Python", Pushers: 25},
		{Year: 2020, Quarter: 2, Language: "Python", Pushers: 30},
		{Year: 2020, Quarter: 3, Language: "Python", Pushers: 10}, // no total
	}
	totals := []schema.TotalRow{
		{Year: 2020, Quarter: 1, TotalPushers: 100},
		{Year: 2020, Quarter: 2, TotalPushers: 60},
		{Year: 2021, Quarter: 1, TotalPushers: 80}, // no language row
	}

	points, err := MergeTotals(rows, totals)
	require.NoError(t, err)
	require.Len(t, points, 2)

	assert.Equal(t, "Python", points[0].Language)
	assert.Equal(t, int64(100), points[0].TotalPushers)
	assert.InDelta(t, 25.0, points[0].Percentage, 1e-9)
	assert.Equal(t, SynthesizeDate(2020, 1), points[0].Date)
	assert.InDelta(t, 50.0, points[1].Percentage, 1e-9)
}

func TestMergeTotals_InvalidQuarter(t *testing.T) {
	rows := []schema.LanguageSeriesRow{{Year: 2020, Quarter: 5, Language: "Python", Pushers: 1}}
	totals := []schema.TotalRow{{Year: 2020, Quarter: 5, TotalPushers: 1}}
	_, err := MergeTotals(rows, totals)
	assert.Error(t, err)
}

func TestBuildSeries(t *testing.T) {
	points := []schema.TrendPoint{
		{Language: "Java", Date: SynthesizeDate(2020, 2), Percentage: 20},
		{Language: "Python", Date: SynthesizeDate(2020, 2), Percentage: 45},
		{Language: "Python", Date: SynthesizeDate(2020, 1), Percentage: 40},
		{Language: "Go", Date: SynthesizeDate(2020, 1), Percentage: 5}, // not tracked
	}
	cfg := testConfig()

	series, err := BuildSeries(points, cfg.Languages, cfg.Colors, cfg.Labeled)
	require.NoError(t, err)
	require.Len(t, series, 3)

	assert.Equal(t, "Python", series[0].Language)
	assert.Equal(t, "#2ecc71", series[0].Color)
	assert.True(t, series[0].Labeled)
	require.Len(t, series[0].Points, 2)
	assert.True(t, series[0].Points[0].Date.Before(series[0].Points[1].Date))

	assert.Equal(t, "Java", series[1].Language)
	assert.False(t, series[1].Labeled)
	assert.Len(t, series[1].Points, 1)

	assert.Equal(t, "Ruby", series[2].Language)
	assert.Empty(t, series[2].Points)
}

func TestBuildSeries_Errors(t *testing.T) {
	points := []schema.TrendPoint{{Language: "Java", Date: SynthesizeDate(2020, 1), Percentage: 20}}

	_, err := BuildSeries(points, []string{"Python", "Java"}, []string{"#2ecc71", "#e74c3c"}, []string{"Python"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Python")

	_, err = BuildSeries(points, []string{"Python", "Java"}, []string{"#2ecc71"}, nil)
	assert.Error(t, err)
}

func TestAnnotations(t *testing.T) {
	series := []schema.TrendSeries{
		{
			Language: "Python",
			Color:    "#2ecc71",
			Labeled:  true,
			Points: []schema.TrendPoint{
				{Date: SynthesizeDate(2020, 1), Percentage: 40.4},
				{Date: SynthesizeDate(2020, 2), Percentage: 45},
				{Date: SynthesizeDate(2020, 3), Percentage: 50.6},
			},
		},
		{Language: "Java", Color: "#e74c3c", Points: []schema.TrendPoint{{Date: SynthesizeDate(2020, 1), Percentage: 30}}},
	}

	anns := Annotations(series)
	require.Len(t, anns, 3)
	assert.Equal(t, schema.ValueAnnotation, anns[0].Kind)
	assert.Equal(t, "40%", anns[0].Text)
	assert.Equal(t, "51%", anns[1].Text)
	assert.Equal(t, SynthesizeDate(2020, 3), anns[1].Date)
	assert.Equal(t, schema.NameAnnotation, anns[2].Kind)
	assert.Equal(t, "Python", anns[2].Text)
	assert.Equal(t, SynthesizeDate(2020, 2), anns[2].Date)
	assert.Equal(t, "#2ecc71", anns[2].Color)
}

func TestAxisRangeAndTicks(t *testing.T) {
	first, last := SynthesizeDate(2020, 1), SynthesizeDate(2021, 4)
	from, to := AxisRange(first, last)
	assert.True(t, from.Before(first))
	assert.True(t, to.After(last))

	ticks := QuarterTicks(from, to)
	require.NotEmpty(t, ticks)
	// The padding is about a month, so Jan 2020 falls outside and Jan 2022 inside
	assert.Equal(t, "Q2", ticks[0].Label)
	assert.Equal(t, "2021 Q1", ticks[3].Label)
	for _, tick := range ticks {
		assert.Equal(t, 15, tick.Value.Day())
		assert.False(t, tick.Value.Before(from))
		assert.False(t, tick.Value.After(to))
	}
	assert.Equal(t, "2022 Q1", ticks[len(ticks)-1].Label)
	assert.Len(t, ticks, 8)

	single := SynthesizeDate(2022, 2)
	from, to = AxisRange(single, single)
	assert.True(t, to.After(from))
	assert.Len(t, QuarterTicks(from, to), 2)
}

func TestSummarize(t *testing.T) {
	series := []schema.TrendSeries{
		{Language: "Python", Points: []schema.TrendPoint{{Percentage: 40}, {Percentage: 50}}},
		{Language: "Java", Points: []schema.TrendPoint{{Percentage: 30}, {Percentage: 20}}},
		{Language: "C", Points: []schema.TrendPoint{{Percentage: 5}, {Percentage: 5.2}}},
		{Language: "Ruby"},
	}

	summaries := Summarize(series)
	require.Len(t, summaries, 4)
	assert.Equal(t, schema.RisingTrend, summaries[0].Direction)
	assert.InDelta(t, 10.0, summaries[0].Change, 1e-9)
	assert.Equal(t, schema.FallingTrend, summaries[1].Direction)
	assert.Equal(t, schema.FlatTrend, summaries[2].Direction)
	assert.Equal(t, 0, summaries[3].Points)
	assert.Equal(t, schema.FlatTrend, summaries[3].Direction)
}

func TestBuildTrendResultAndChartSpec(t *testing.T) {
	rows := []schema.LanguageSeriesRow{
		{Year: 2020, Quarter: 1, Language: "Python", Pushers: 40},
		{Year: 2020, Quarter: 2, Language: "Python", Pushers: 60},
		{Year: 2020, Quarter: 1, Language: "Java", Pushers: 30},
	}
	totals := []schema.TotalRow{
		{Year: 2020, Quarter: 1, TotalPushers: 100},
		{Year: 2020, Quarter: 2, TotalPushers: 120},
	}

	result, err := BuildTrendResult(rows, totals, testConfig())
	require.NoError(t, err)
	assert.Equal(t, "Programming Language Trends (2020 Q1 - 2020 Q2)", result.Title)
	assert.Len(t, result.Points, 3)
	assert.Len(t, result.Series, 3)
	assert.Len(t, result.Summaries, 3)
	for _, p := range result.Points {
		assert.LessOrEqual(t, p.Percentage, 100.0)
	}

	spec, err := BuildChartSpec(result, 40)
	require.NoError(t, err)
	assert.Equal(t, result.Title, spec.Title)
	assert.Equal(t, "Year-Quarter", spec.XLabel)
	assert.Equal(t, "Percentage of Total Programming Language Pushes (%)", spec.YLabel)
	assert.Equal(t, 14.0, spec.WidthInches)
	assert.Equal(t, 8.0, spec.HeightInches)
	assert.Equal(t, 40.0, spec.DPI)
	assert.Len(t, spec.Annotations, 3)
	assert.True(t, spec.XMin.Before(SynthesizeDate(2020, 1)))
	assert.True(t, spec.XMax.After(SynthesizeDate(2020, 2)))
}

func TestBuildTrendResult_NoPoints(t *testing.T) {
	_, err := BuildTrendResult(nil, []schema.TotalRow{{Year: 2020, Quarter: 1, TotalPushers: 1}}, testConfig())
	assert.ErrorIs(t, err, ErrNoTrendPoints)

	_, err = BuildChartSpec(schema.TrendResult{}, 40)
	assert.ErrorIs(t, err, ErrNoTrendPoints)
}
