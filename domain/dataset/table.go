package dataset

import (
	"fmt"
	"strconv"
)

// Kind classifies a column for charting purposes
type Kind string

const (
	KindNumeric    Kind = "numeric"
	KindNonNumeric Kind = "non_numeric"
)

// Cell is a single value of a column
type Cell struct {
	Raw     string  `json:"raw"`
	Num     float64 `json:"num,omitempty"`
	Missing bool    `json:"missing,omitempty"`
	numeric bool
}

// NewTextCell builds a cell for a non-numeric column
func NewTextCell(raw string) Cell {
	return Cell{Raw: raw}
}

// NewNumericCell builds a cell for a numeric column
func NewNumericCell(raw string, v float64) Cell {
	return Cell{Raw: raw, Num: v, numeric: true}
}

// NewMissingCell builds an empty cell
func NewMissingCell(raw string) Cell {
	return Cell{Raw: raw, Missing: true}
}

// Key returns the canonical string used for distinct counts, filter values and
// chart categories. Numeric cells use the shortest decimal form so "1.0" and
// "1" compare equal. Missing cells have an empty key.
func (c Cell) Key() string {
	if c.Missing {
		return ""
	}
	if c.numeric {
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	}
	return c.Raw
}

// IsNumeric reports whether the cell carries a parsed number
func (c Cell) IsNumeric() bool {
	return c.numeric && !c.Missing
}

// Column is a named, typed column of cells
type Column struct {
	Name  string `json:"name"`
	Kind  Kind   `json:"kind"`
	Cells []Cell `json:"-"`
}

// Len returns the number of cells in the column
func (c *Column) Len() int {
	return len(c.Cells)
}

// DistinctKeys returns the distinct non-missing cell keys in first-appearance order
func (c *Column) DistinctKeys() []string {
	seen := make(map[string]bool)
	var keys []string
	for _, cell := range c.Cells {
		if cell.Missing {
			continue
		}
		k := cell.Key()
		if !seen[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	return keys
}

// MissingCount returns the number of missing cells
func (c *Column) MissingCount() int {
	n := 0
	for _, cell := range c.Cells {
		if cell.Missing {
			n++
		}
	}
	return n
}

// Numbers returns the parsed values of the non-missing numeric cells
func (c *Column) Numbers() []float64 {
	out := make([]float64, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.IsNumeric() {
			out = append(out, cell.Num)
		}
	}
	return out
}

// Table is an ordered set of equally long columns. A Table is never mutated
// after construction; filtering produces a new Table.
type Table struct {
	Name    string
	columns []*Column
	index   map[string]int
	rows    int
}

// NewTable validates the columns and builds a table
func NewTable(name string, columns []*Column) (*Table, error) {
	t := &Table{
		Name:    name,
		columns: columns,
		index:   make(map[string]int, len(columns)),
	}
	for i, col := range columns {
		if _, dup := t.index[col.Name]; dup {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			t.rows = col.Len()
		} else if col.Len() != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, col.Len(), t.rows)
		}
		t.index[col.Name] = i
	}
	return t, nil
}

// RowCount returns the number of rows
func (t *Table) RowCount() int {
	return t.rows
}

// ColumnCount returns the number of columns
func (t *Table) ColumnCount() int {
	return len(t.columns)
}

// Columns returns the columns in table order
func (t *Table) Columns() []*Column {
	return t.columns
}

// ColumnNames returns the column names in table order
func (t *Table) ColumnNames() []string {
	names := make([]string, len(t.columns))
	for i, col := range t.columns {
		names[i] = col.Name
	}
	return names
}

// Column looks up a column by name
func (t *Table) Column(name string) (*Column, bool) {
	i, ok := t.index[name]
	if !ok {
		return nil, false
	}
	return t.columns[i], true
}

// NumericColumns returns numeric columns in table order
func (t *Table) NumericColumns() []*Column {
	return t.columnsOfKind(KindNumeric)
}

// NonNumericColumns returns non-numeric columns in table order
func (t *Table) NonNumericColumns() []*Column {
	return t.columnsOfKind(KindNonNumeric)
}

func (t *Table) columnsOfKind(kind Kind) []*Column {
	var out []*Column
	for _, col := range t.columns {
		if col.Kind == kind {
			out = append(out, col)
		}
	}
	return out
}

// Row returns the cells of row i in column order
func (t *Table) Row(i int) []Cell {
	row := make([]Cell, len(t.columns))
	for j, col := range t.columns {
		row[j] = col.Cells[i]
	}
	return row
}

// Head returns the first n rows
func (t *Table) Head(n int) [][]Cell {
	if n > t.rows {
		n = t.rows
	}
	if n < 0 {
		n = 0
	}
	rows := make([][]Cell, n)
	for i := 0; i < n; i++ {
		rows[i] = t.Row(i)
	}
	return rows
}

// Select builds a new table holding only the given row indices, in order.
// Cell slices are copied so the result shares nothing with the receiver.
func (t *Table) Select(rows []int) *Table {
	columns := make([]*Column, len(t.columns))
	for j, col := range t.columns {
		cells := make([]Cell, len(rows))
		for k, i := range rows {
			cells[k] = col.Cells[i]
		}
		columns[j] = &Column{Name: col.Name, Kind: col.Kind, Cells: cells}
	}
	index := make(map[string]int, len(t.index))
	for k, v := range t.index {
		index[k] = v
	}
	return &Table{Name: t.Name, columns: columns, index: index, rows: len(rows)}
}
