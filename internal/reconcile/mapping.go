// Package reconcile compares mapped source and destination columns row by
// row and aggregates the outcome across a batch of mappings.
package reconcile

import (
	"sort"
)

// ColumnMapping links a source column to the destination column it was
// matched to. A many-to-one mapping consolidates AdditionalSourceColumns
// into the same destination column.
type ColumnMapping struct {
	SourceColumn            string   `yaml:"source_column" json:"source_column"`
	DestinationColumn       string   `yaml:"destination_column" json:"destination_column,omitempty"`
	IsManyToOne             bool     `yaml:"is_many_to_one" json:"is_many_to_one"`
	AdditionalSourceColumns []string `yaml:"additional_source_columns" json:"additional_source_columns,omitempty"`
	Confidence              float64  `yaml:"confidence" json:"confidence"`
	Reasoning               string   `yaml:"reasoning" json:"reasoning"`
}

// SourceColumns returns the primary source column followed by any
// additional source columns.
func (m ColumnMapping) SourceColumns() []string {
	cols := make([]string, 0, 1+len(m.AdditionalSourceColumns))
	cols = append(cols, m.SourceColumn)
	return append(cols, m.AdditionalSourceColumns...)
}

// Mapped reports whether the mapping names a destination column.
func (m ColumnMapping) Mapped() bool {
	return m.DestinationColumn != ""
}

// RowSet is a set of row indices.
type RowSet map[int]struct{}

// NewRowSet returns an empty set.
func NewRowSet() RowSet {
	return make(RowSet)
}

// Add inserts row into the set.
func (s RowSet) Add(row int) {
	s[row] = struct{}{}
}

// Has reports whether row is in the set.
func (s RowSet) Has(row int) bool {
	_, ok := s[row]
	return ok
}

// Len returns the number of rows in the set.
func (s RowSet) Len() int {
	return len(s)
}

// Merge adds every row of other to s.
func (s RowSet) Merge(other RowSet) {
	for row := range other {
		s[row] = struct{}{}
	}
}

// Sorted returns the rows in ascending order.
func (s RowSet) Sorted() []int {
	rows := make([]int, 0, len(s))
	for row := range s {
		rows = append(rows, row)
	}
	sort.Ints(rows)
	return rows
}
