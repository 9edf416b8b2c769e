// Package table holds the in-memory tabular model profiled by dqprofile.
package table

import (
	"fmt"

	"github.com/elliotchance/orderedmap/v2"
)

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Cells []Cell
}

// NonNull returns the cells that are not null, in order.
func (c *Column) NonNull() []Cell {
	out := make([]Cell, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if !cell.IsNull() {
			out = append(out, cell)
		}
	}
	return out
}

// Table is an ordered set of equally long columns.
type Table struct {
	columns *orderedmap.OrderedMap[string, *Column]
	rows    int
}

// New builds a table from columns. All columns must have the same length
// and distinct names.
func New(columns ...*Column) (*Table, error) {
	t := &Table{columns: orderedmap.NewOrderedMap[string, *Column]()}
	for i, col := range columns {
		if col == nil {
			return nil, fmt.Errorf("column %d is nil", i)
		}
		if _, exists := t.columns.Get(col.Name); exists {
			return nil, fmt.Errorf("duplicate column name %q", col.Name)
		}
		if i == 0 {
			t.rows = len(col.Cells)
		} else if len(col.Cells) != t.rows {
			return nil, fmt.Errorf("column %q has %d rows, expected %d", col.Name, len(col.Cells), t.rows)
		}
		t.columns.Set(col.Name, col)
	}
	return t, nil
}

// FromMap builds a table from column name to raw values, keeping the
// column order given by names.
func FromMap(names []string, values map[string][]interface{}) (*Table, error) {
	cols := make([]*Column, 0, len(names))
	for _, name := range names {
		raw, ok := values[name]
		if !ok {
			return nil, fmt.Errorf("no values for column %q", name)
		}
		cols = append(cols, &Column{Name: name, Cells: CellsOf(raw...)})
	}
	return New(cols...)
}

// RowCount returns the number of rows.
func (t *Table) RowCount() int { return t.rows }

// ColumnCount returns the number of columns.
func (t *Table) ColumnCount() int { return t.columns.Len() }

// ColumnNames returns column names in table order.
func (t *Table) ColumnNames() []string {
	return t.columns.Keys()
}

// Column returns the named column.
func (t *Table) Column(name string) (*Column, bool) {
	return t.columns.Get(name)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, ok := t.columns.Get(name)
	return ok
}

// Columns returns all columns in table order.
func (t *Table) Columns() []*Column {
	out := make([]*Column, 0, t.columns.Len())
	for el := t.columns.Front(); el != nil; el = el.Next() {
		out = append(out, el.Value)
	}
	return out
}
