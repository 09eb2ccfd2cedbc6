package contract

import (
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/langtrends/schema"
)

// Color variables for console output.
var (
	RisingColor  = color.New(color.FgGreen, color.Bold) // RisingColor marks a growing share.
	FallingColor = color.New(color.FgRed, color.Bold)   // FallingColor marks a shrinking share.
	FlatColor    = color.New(color.FgCyan)              // FlatColor marks no meaningful change.
)

// FlatThreshold is the absolute change in percentage points below which a trend is flat.
const FlatThreshold = 0.5

// GetTrendDirection classifies the change between a first and last percentage.
func GetTrendDirection(change float64) schema.TrendDirection {
	switch {
	case change >= FlatThreshold:
		return schema.RisingTrend
	case change <= -FlatThreshold:
		return schema.FallingTrend
	default:
		return schema.FlatTrend
	}
}

// GetColorLabel returns a colored direction label for console output (table).
func GetColorLabel(direction schema.TrendDirection) string {
	text := string(direction)
	switch direction {
	case schema.RisingTrend:
		return RisingColor.Sprint(text)
	case schema.FallingTrend:
		return FallingColor.Sprint(text)
	default:
		return FlatColor.Sprint(text)
	}
}

// SelectOutputFile returns the appropriate file handle for output.
// An empty path means os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
