// Package chart renders a schema.ChartSpec to PNG with go-chart.
package chart

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/langtrends/internal/logging"
	"github.com/huangsam/langtrends/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Style constants. Font sizes and offsets are in points at the chart DPI.
const (
	titleFontSize    = 16
	axisNameFontSize = 12
	valueFontSize    = 9
	nameFontSize     = 10
	legendFontSize   = 10
	lineWidth        = 2.5
	dotWidth         = 3
	gridWidth        = 0.5
	yHeadroomRatio   = 1.05
	yTickTarget      = 8
	tickRotation     = 45

	topPadding         = 40
	sidePadding        = 20
	yNameBandInches    = 0.4
	legendBandInches   = 0.8
	minLegendBandPixel = 60
)

var (
	gridColor = drawing.Color{R: 0, G: 0, B: 0, A: 76}
	dashArray = []float64{5, 5}
)

// RenderFile writes the chart as PNG to path. Nothing is written when rendering fails.
func RenderFile(spec schema.ChartSpec, path string) error {
	var buf bytes.Buffer
	if err := Render(spec, &buf); err != nil {
		return err
	}
	return os.WriteFile(path, buf.Bytes(), 0o644)
}

// Render draws the chart as PNG into w.
func Render(spec schema.ChartSpec, w io.Writer) error {
	ch, err := buildChart(spec)
	if err != nil {
		return err
	}
	logging.Debug().
		Int("width", ch.Width).
		Int("height", ch.Height).
		Int("series", len(ch.Series)).
		Int("annotations", len(spec.Annotations)).
		Msg("rendering chart")
	return ch.Render(chart.PNG, w)
}

// buildChart lays out the go-chart chart for spec. Series use the secondary
// y axis so the percentage scale sits on the left; the primary axis is hidden
// but carries the same ticks because go-chart sizes both ranges from them.
func buildChart(spec schema.ChartSpec) (chart.Chart, error) {
	if spec.DPI <= 0 || spec.WidthInches <= 0 || spec.HeightInches <= 0 {
		return chart.Chart{}, errors.New("chart size and DPI must be positive")
	}
	if !spec.XMax.After(spec.XMin) {
		return chart.Chart{}, fmt.Errorf("empty time range %s - %s", spec.XMin, spec.XMax)
	}

	series, entries, maxPct := lineSeries(spec.Series)
	if len(series) == 0 {
		return chart.Chart{}, errors.New("nothing to plot: every series is empty")
	}

	yt := yTicks(maxPct)
	yTop := yt[len(yt)-1].Value
	xMin, xMax := chart.TimeToFloat64(spec.XMin), chart.TimeToFloat64(spec.XMax)

	gridStyle := chart.Style{
		StrokeColor:     gridColor,
		StrokeWidth:     gridWidth,
		StrokeDashArray: dashArray,
	}
	height := int(math.Round(spec.HeightInches * spec.DPI))
	legendBand := max(minLegendBandPixel, int(math.Round(legendBandInches*spec.DPI)))
	ch := chart.Chart{
		Title:      spec.Title,
		TitleStyle: chart.Style{FontSize: titleFontSize},
		Width:      int(math.Round(spec.WidthInches * spec.DPI)),
		Height:     height,
		DPI:        spec.DPI,
		Background: chart.Style{Padding: chart.Box{
			Top:    topPadding,
			Left:   sidePadding + int(math.Round(yNameBandInches*spec.DPI)),
			Right:  sidePadding,
			Bottom: legendBand,
		}},
		XAxis: chart.XAxis{
			Name:           spec.XLabel,
			NameStyle:      chart.Style{FontSize: axisNameFontSize},
			Style:          chart.Style{TextRotationDegrees: tickRotation},
			Range:          &chart.ContinuousRange{Min: xMin, Max: xMax},
			Ticks:          xTicks(spec),
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		YAxis: chart.YAxis{
			Style: chart.Hidden(),
			Range: &chart.ContinuousRange{Min: 0, Max: yTop},
			Ticks: yt,
		},
		YAxisSecondary: chart.YAxis{
			Range:          &chart.ContinuousRange{Min: 0, Max: yTop},
			Ticks:          yt,
			GridMajorStyle: gridStyle,
			GridMinorStyle: gridStyle,
		},
		Series: series,
	}
	ch.Elements = []chart.Renderable{
		yAxisName(spec.YLabel, yt),
		annotationLayer(spec.Annotations, xMin, xMax, yTop, spec.DPI),
		bottomLegend(entries, height, legendBand, spec.DPI),
	}
	return ch, nil
}

// lineSeries converts the non-empty trend series and returns their legend
// entries and the largest percentage seen.
func lineSeries(in []schema.TrendSeries) ([]chart.Series, []legendEntry, float64) {
	var out []chart.Series
	var entries []legendEntry
	maxPct := 0.0
	for _, s := range in {
		if len(s.Points) == 0 {
			continue
		}
		col := parseColor(s.Color)
		ts := chart.TimeSeries{
			Name:  s.Language,
			YAxis: chart.YAxisSecondary,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: lineWidth,
				DotColor:    col,
				DotWidth:    dotWidth,
			},
		}
		for _, p := range s.Points {
			ts.XValues = append(ts.XValues, p.Date)
			ts.YValues = append(ts.YValues, p.Percentage)
			if !math.IsInf(p.Percentage, 0) && !math.IsNaN(p.Percentage) {
				maxPct = max(maxPct, p.Percentage)
			}
		}
		out = append(out, ts)
		entries = append(entries, legendEntry{name: s.Language, color: col})
	}
	return out, entries, maxPct
}

// xTicks brackets the quarter ticks with unlabeled ticks at both ends of the
// padded range. go-chart sets the x range from the tick extremes.
func xTicks(spec schema.ChartSpec) []chart.Tick {
	xMin, xMax := chart.TimeToFloat64(spec.XMin), chart.TimeToFloat64(spec.XMax)
	var inner []chart.Tick
	for _, t := range spec.Ticks {
		if t.Value.Before(spec.XMin) || t.Value.After(spec.XMax) {
			continue
		}
		inner = append(inner, chart.Tick{Value: chart.TimeToFloat64(t.Value), Label: t.Label})
	}

	ticks := make([]chart.Tick, 0, len(inner)+2)
	if len(inner) == 0 || inner[0].Value > xMin {
		ticks = append(ticks, chart.Tick{Value: xMin})
	}
	ticks = append(ticks, inner...)
	if ticks[len(ticks)-1].Value < xMax {
		ticks = append(ticks, chart.Tick{Value: xMax})
	}
	return ticks
}

// yTicks returns evenly spaced ticks from zero to at least yMax(maxPct).
// Labels carry just enough decimals to stay distinct.
func yTicks(maxPct float64) []chart.Tick {
	top := yMax(maxPct)
	step := niceStep(top / yTickTarget)
	decimals := 0
	if step < 1 {
		decimals = int(math.Ceil(-math.Log10(step)))
	}
	n := int(math.Ceil(top / step))
	ticks := make([]chart.Tick, 0, n+1)
	for i := 0; i <= n; i++ {
		v := float64(i) * step
		ticks = append(ticks, chart.Tick{Value: v, Label: strconv.FormatFloat(v, 'f', decimals, 64)})
	}
	return ticks
}

// niceStep rounds raw up to 1, 2 or 5 times a power of ten.
func niceStep(raw float64) float64 {
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch norm := raw / mag; {
	case norm <= 1:
		return mag
	case norm <= 2:
		return 2 * mag
	case norm <= 5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func yMax(maxPct float64) float64 {
	if maxPct <= 0 {
		return 1
	}
	return maxPct * yHeadroomRatio
}

// parseColor reads a "#rrggbb" color. Anything else falls back to black.
func parseColor(hex string) drawing.Color {
	hex = strings.TrimPrefix(hex, "#")
	if len(hex) != 6 {
		return drawing.ColorBlack
	}
	return drawing.ColorFromHex(hex)
}
