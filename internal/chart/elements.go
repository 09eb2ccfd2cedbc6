package chart

import (
	"math"

	"github.com/huangsam/langtrends/schema"
	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

// Offsets and spacing in points.
const (
	valueOffset      = 5
	nameOffset       = 7
	nameBoxPadding   = 3
	legendPad        = 4
	legendLineLength = 18
	legendLineGap    = 4
	legendItemGap    = 14
)

// nameBoxFill is white at 70% opacity.
var nameBoxFill = drawing.Color{R: 255, G: 255, B: 255, A: 178}

type legendEntry struct {
	name  string
	color drawing.Color
}

// points converts a length in points to pixels at dpi.
func points(v, dpi float64) int {
	return int(math.Round(v * dpi / 72))
}

// legendLayout centers one row of legend items on centerX within the band
// [bandTop, bandBottom]. Each item is a line sample followed by its text.
// It returns the legend box and the left edge of every item.
func legendLayout(textWidths []int, textHeight, centerX, bandTop, bandBottom int, dpi float64) (chart.Box, []int) {
	pad := points(legendPad, dpi)
	sample := points(legendLineLength, dpi) + points(legendLineGap, dpi)
	gap := points(legendItemGap, dpi)

	width := 2 * pad
	for i, w := range textWidths {
		width += sample + w
		if i > 0 {
			width += gap
		}
	}
	height := textHeight + 2*pad

	top := bandTop + (bandBottom-bandTop-height)/2
	top = max(top, bandTop)
	box := chart.Box{
		Left:   centerX - width/2,
		Top:    top,
		Right:  centerX - width/2 + width,
		Bottom: top + height,
	}

	lefts := make([]int, len(textWidths))
	x := box.Left + pad
	for i, w := range textWidths {
		lefts[i] = x
		x += sample + w + gap
	}
	return box, lefts
}

// bottomLegend draws a single-row legend centered in the bottom padding band
// of a chart that is height pixels tall.
func bottomLegend(entries []legendEntry, height, band int, dpi float64) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		if len(entries) == 0 {
			return
		}
		textStyle := chart.Style{
			FontColor: chart.DefaultTextColor,
			FontSize:  legendFontSize,
		}.InheritFrom(defaults)

		widths := make([]int, len(entries))
		textHeight := 0
		for i, e := range entries {
			tb := chart.Draw.MeasureText(r, e.name, textStyle)
			widths[i] = tb.Width()
			textHeight = max(textHeight, tb.Height())
		}

		centerX := cb.Left + cb.Width()/2
		box, lefts := legendLayout(widths, textHeight, centerX, height-band, height, dpi)
		chart.Draw.Box(r, box, chart.Style{
			FillColor:   chart.ColorWhite,
			StrokeColor: chart.DefaultAxisColor,
			StrokeWidth: chart.DefaultAxisLineWidth,
		})

		lineLen := points(legendLineLength, dpi)
		lineY := box.Top + points(legendPad, dpi) + textHeight/2
		baseline := box.Top + points(legendPad, dpi) + textHeight
		for i, e := range entries {
			chart.Style{StrokeColor: e.color, StrokeWidth: lineWidth}.GetStrokeOptions().WriteToRenderer(r)
			r.MoveTo(lefts[i], lineY)
			r.LineTo(lefts[i]+lineLen, lineY)
			r.Stroke()
			r.ResetStyle()

			chart.Draw.Text(r, e.name, lefts[i]+lineLen+points(legendLineGap, dpi), baseline, textStyle)
		}
	}
}

// labelOrigin returns the text baseline origin for an annotation anchored at
// the pixel (px, py). Values sit up and to the right of the point so they
// clear the line; names are centered just above it.
func labelOrigin(kind schema.AnnotationKind, px, py, textWidth int, dpi float64) (int, int) {
	if kind == schema.NameAnnotation {
		return px - textWidth/2, py - points(nameOffset, dpi)
	}
	return px + points(valueOffset, dpi), py - points(valueOffset, dpi)
}

// annotationLayer draws value and name labels over the plotted series.
// The x and y bounds must match the ranges the series were drawn with.
func annotationLayer(anns []schema.Annotation, xMin, xMax, yTop, dpi float64) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		xr := &chart.ContinuousRange{Min: xMin, Max: xMax, Domain: cb.Width()}
		yr := &chart.ContinuousRange{Min: 0, Max: yTop, Domain: cb.Height()}
		for _, a := range anns {
			if math.IsNaN(a.Percentage) || math.IsInf(a.Percentage, 0) {
				continue
			}
			px := cb.Left + xr.Translate(chart.TimeToFloat64(a.Date))
			py := cb.Bottom - yr.Translate(a.Percentage)

			style := chart.Style{FontColor: parseColor(a.Color), FontSize: valueFontSize}
			if a.Kind == schema.NameAnnotation {
				style.FontSize = nameFontSize
			}
			style = style.InheritFrom(defaults)

			tb := chart.Draw.MeasureText(r, a.Text, style)
			x, y := labelOrigin(a.Kind, px, py, tb.Width(), dpi)
			if a.Kind == schema.NameAnnotation {
				pad := points(nameBoxPadding, dpi)
				chart.Draw.Box(r, chart.Box{
					Left:   x - pad,
					Top:    y - tb.Height() - pad,
					Right:  x + tb.Width() + pad,
					Bottom: y + pad,
				}, chart.Style{FillColor: nameBoxFill, StrokeColor: nameBoxFill, StrokeWidth: 1})
			}
			chart.Draw.Text(r, a.Text, x, y, style)
		}
	}
}

// yAxisName writes the y axis title left of the tick labels, reading bottom to top.
func yAxisName(name string, ticks []chart.Tick) chart.Renderable {
	return func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
		if name == "" {
			return
		}
		tickStyle := chart.Style{FontSize: chart.DefaultAxisFontSize}.InheritFrom(defaults)
		labelWidth := 0
		for _, t := range ticks {
			labelWidth = max(labelWidth, chart.Draw.MeasureText(r, t.Label, tickStyle).Width())
		}

		style := chart.Style{
			FontColor:           chart.DefaultTextColor,
			FontSize:            axisNameFontSize,
			TextRotationDegrees: 270,
		}.InheritFrom(defaults)
		tb := chart.Draw.MeasureText(r, name, style)
		x := cb.Left - 2*chart.DefaultYAxisMargin - labelWidth
		y := cb.Top + cb.Height()/2 + tb.Height()/2
		chart.Draw.Text(r, name, x, y, style)
	}
}
