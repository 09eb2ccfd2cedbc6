// Package schema has models and constants shared by all parts of langtrends.
package schema

import "time"

// LanguageSeriesRow is the summed pusher count of one language in one quarter.
type LanguageSeriesRow struct {
	Year     int
	Quarter  int
	Language string
	Pushers  int64
}

// TotalRow is the summed pusher count of all languages of the filtered type in one quarter.
type TotalRow struct {
	Year         int
	Quarter      int
	TotalPushers int64
}

// TrendPoint is a LanguageSeriesRow joined with its quarter total.
type TrendPoint struct {
	Year         int       `json:"year" csv:"year"`
	Quarter      int       `json:"quarter" csv:"quarter"`
	Language     string    `json:"language" csv:"language"`
	Pushers      int64     `json:"pushers" csv:"pushers"`
	TotalPushers int64     `json:"total_pushers" csv:"total_pushers"`
	Percentage   float64   `json:"percentage" csv:"percentage"`
	Date         time.Time `json:"date" csv:"date"` // Plot position, see SynthesizeDate in core
}

// TrendSeries is the date-sorted points of one tracked language.
type TrendSeries struct {
	Language string       `json:"language"`
	Color    string       `json:"color"`
	Labeled  bool         `json:"labeled"`
	Points   []TrendPoint `json:"points"`
}

// TrendSummary condenses a TrendSeries for tabular output.
type TrendSummary struct {
	Language        string         `json:"language"`
	Points          int            `json:"points"`
	FirstPercentage float64        `json:"first_percentage"`
	LastPercentage  float64        `json:"last_percentage"`
	Change          float64        `json:"change"`
	Direction       TrendDirection `json:"direction"`
}

// TrendResult is everything the reporter produces for one run.
type TrendResult struct {
	Title        string         `json:"title"`
	FirstQuarter string         `json:"first_quarter"`
	LastQuarter  string         `json:"last_quarter"`
	Points       []TrendPoint   `json:"points"`
	Series       []TrendSeries  `json:"-"`
	Summaries    []TrendSummary `json:"summaries"`
}

// TrendFilter narrows the aggregation queries.
type TrendFilter struct {
	Table        string
	LanguageType string
	StartYear    int
	EndYear      int
	Languages    []string
}

// ImportStats describes a finished import.
type ImportStats struct {
	Table    string
	Columns  int
	Rows     int
	Duration time.Duration
}
