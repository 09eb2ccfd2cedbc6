package schema

// ColumnType is the SQL affinity inferred for a CSV column.
type ColumnType int

// All column types the importer infers.
const (
	TextColumn ColumnType = iota
	IntegerColumn
	RealColumn
)

// String returns the generic SQL name of the column type.
func (ct ColumnType) String() string {
	switch ct {
	case IntegerColumn:
		return "INTEGER"
	case RealColumn:
		return "REAL"
	default:
		return "TEXT"
	}
}

// Column is a named, typed column of a Table.
type Column struct {
	Name string
	Type ColumnType
}

// Table is an in-memory relation read from a tabular file.
// Each row holds int64, float64, string or nil values in column order.
type Table struct {
	Name    string
	Columns []Column
	Rows    [][]any
}

// ColumnNames returns the column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}
