// Package csvload reads a headered CSV file into an in-memory table with
// per-column inferred SQL types.
package csvload

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/huangsam/langtrends/internal/logging"
	"github.com/huangsam/langtrends/schema"
)

// ErrNoHeader is returned when the input has no header row.
var ErrNoHeader = errors.New("csv has no header row")

const utf8BOM = "\ufeff"

// ReadFile reads the CSV at path into a table called name.
func ReadFile(path, name string) (schema.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	table, err := Read(f, name)
	if err != nil {
		return schema.Table{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return table, nil
}

// Read parses comma-separated records with a header row. Every record must
// have as many fields as the header. Column names are taken verbatim.
func Read(r io.Reader, name string) (schema.Table, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return schema.Table{}, ErrNoHeader
	}
	if err != nil {
		return schema.Table{}, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], utf8BOM)
	}

	records, err := reader.ReadAll()
	if err != nil {
		return schema.Table{}, err
	}

	columns := make([]schema.Column, len(header))
	for i, h := range header {
		columns[i] = schema.Column{Name: h, Type: inferColumnType(records, i)}
	}

	rows := make([][]any, len(records))
	for r, record := range records {
		row := make([]any, len(columns))
		for i, col := range columns {
			row[i] = convertValue(record[i], col.Type)
		}
		rows[r] = row
	}

	logging.Debug().
		Str("table", name).
		Int("columns", len(columns)).
		Int("rows", len(rows)).
		Msg("csv loaded")

	return schema.Table{Name: name, Columns: columns, Rows: rows}, nil
}

// inferColumnType picks the narrowest type every non-empty cell fits.
// A column with no values at all is TEXT.
func inferColumnType(records [][]string, col int) schema.ColumnType {
	sawValue := false
	isInt, isReal := true, true
	for _, record := range records {
		v := strings.TrimSpace(record[col])
		if v == "" {
			continue
		}
		sawValue = true
		if isInt {
			if _, err := strconv.ParseInt(v, 10, 64); err != nil {
				isInt = false
			}
		}
		if !isInt && isReal {
			if _, err := strconv.ParseFloat(v, 64); err != nil {
				isReal = false
			}
		}
		if !isInt && !isReal {
			return schema.TextColumn
		}
	}
	switch {
	case !sawValue:
		return schema.TextColumn
	case isInt:
		return schema.IntegerColumn
	case isReal:
		return schema.RealColumn
	default:
		return schema.TextColumn
	}
}

// convertValue turns a cell into the Go value stored for its column type.
// Empty cells become nil.
func convertValue(raw string, typ schema.ColumnType) any {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	switch typ {
	case schema.IntegerColumn:
		n, _ := strconv.ParseInt(v, 10, 64)
		return n
	case schema.RealColumn:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	default:
		return raw
	}
}
