package schema

import "time"

// AnnotationKind tells the renderer how to draw an annotation.
type AnnotationKind int

// All annotation kinds.
const (
	ValueAnnotation AnnotationKind = iota // bold percentage next to a point
	NameAnnotation                        // language name centered above a point, on a white box
)

// Tick is one labeled position on the time axis.
type Tick struct {
	Value time.Time
	Label string
}

// Annotation is text attached to a data point.
type Annotation struct {
	Kind       AnnotationKind
	Date       time.Time
	Percentage float64
	Text       string
	Color      string
}

// ChartSpec is everything needed to draw the trend chart, independent of the drawing library.
type ChartSpec struct {
	Title        string
	XLabel       string
	YLabel       string
	Series       []TrendSeries
	Annotations  []Annotation
	Ticks        []Tick
	XMin         time.Time
	XMax         time.Time
	WidthInches  float64
	HeightInches float64
	DPI          float64
}
