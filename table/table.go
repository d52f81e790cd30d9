package table

import (
	"github.com/tabscope/tabscope/pkg/errors"
)

// Column is an ordered sequence of values of a single declared dtype.
// Exactly one of Ints, Floats, Texts is populated, matching DType. Nulls is
// either nil (no missing entries) or has one flag per row; a true flag means
// the entry is missing and the backing slot holds the zero value.
type Column struct {
	Name   string
	DType  DType
	Ints   []int64
	Floats []float64
	Texts  []string
	Nulls  []bool
}

// Table is an ordered sequence of named columns with a uniform row count.
// It is owned by the caller for the duration of one analysis run and is not
// persisted by the profiling or fingerprinting core.
type Table struct {
	Name    string
	Columns []Column
	Rows    int
}

// NewIntColumn builds an integer column. nulls may be nil.
func NewIntColumn(name string, values []int64, nulls []bool) Column {
	return Column{Name: name, DType: Integer, Ints: values, Nulls: nulls}
}

// NewFloatColumn builds a float column. nulls may be nil.
func NewFloatColumn(name string, values []float64, nulls []bool) Column {
	return Column{Name: name, DType: Float, Floats: values, Nulls: nulls}
}

// NewTextColumn builds a text column. nulls may be nil.
func NewTextColumn(name string, values []string, nulls []bool) Column {
	return Column{Name: name, DType: Text, Texts: values, Nulls: nulls}
}

// New assembles a Table from columns and validates its dimensions. The row
// count is taken from the first column; zero columns is a valid (empty)
// table at this layer.
func New(name string, columns ...Column) (*Table, error) {
	rows := 0
	if len(columns) > 0 {
		rows = columns[0].Len()
	}

	t := &Table{Name: name, Columns: columns, Rows: rows}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

// Len returns the number of stored values in the column.
func (c *Column) Len() int {
	switch c.DType {
	case Integer:
		return len(c.Ints)
	case Float:
		return len(c.Floats)
	default:
		return len(c.Texts)
	}
}

// IsNull reports whether row i is missing.
func (c *Column) IsNull(i int) bool {
	return c.Nulls != nil && c.Nulls[i]
}

// Float64 returns the numeric value at row i, converting integers. The
// second result is false for text columns and for null entries.
func (c *Column) Float64(i int) (float64, bool) {
	if c.IsNull(i) {
		return 0, false
	}
	switch c.DType {
	case Integer:
		return float64(c.Ints[i]), true
	case Float:
		return c.Floats[i], true
	default:
		return 0, false
	}
}

// NullCount returns the number of missing entries.
func (c *Column) NullCount() int {
	n := 0
	for _, isNull := range c.Nulls {
		if isNull {
			n++
		}
	}
	return n
}

// Validate checks that every column's storage matches its declared dtype and
// that all columns carry exactly Rows values. A mismatch indicates a
// corrupted or partially loaded table.
func (t *Table) Validate() error {
	for i := range t.Columns {
		c := &t.Columns[i]

		populated := 0
		if c.Ints != nil {
			populated++
		}
		if c.Floats != nil {
			populated++
		}
		if c.Texts != nil {
			populated++
		}
		if populated > 1 {
			return errors.Newf(ErrColumnStorageInvalid,
				"column %q has multiple backing slices populated", c.Name)
		}

		if c.Len() != t.Rows {
			return errors.Newf(ErrColumnLengthMismatch,
				"column %q has %d values, table declares %d rows", c.Name, c.Len(), t.Rows).
				AddContext("column", c.Name)
		}

		if c.Nulls != nil && len(c.Nulls) != t.Rows {
			return errors.Newf(ErrColumnLengthMismatch,
				"column %q null mask has %d entries, table declares %d rows", c.Name, len(c.Nulls), t.Rows).
				AddContext("column", c.Name)
		}
	}
	return nil
}

// NumRows returns the table row count.
func (t *Table) NumRows() int {
	return t.Rows
}

// NumCols returns the table column count.
func (t *Table) NumCols() int {
	return len(t.Columns)
}

// ColumnNames returns column names in table order.
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i := range t.Columns {
		names[i] = t.Columns[i].Name
	}
	return names
}

// DTypeTags returns per-column dtype tags in table order.
func (t *Table) DTypeTags() []string {
	tags := make([]string, len(t.Columns))
	for i := range t.Columns {
		tags[i] = t.Columns[i].DType.String()
	}
	return tags
}
