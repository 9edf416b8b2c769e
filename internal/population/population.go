// Package population counts populated values per column.
package population

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/dqprofile/internal/table"
)

// ColumnPopulation is the number of populated values in a column.
type ColumnPopulation struct {
	PopulatedCount int `json:"populated_count"`
	TotalRows      int `json:"total_rows"`
}

// Ratio returns the populated share of rows, or 0 for an empty table.
func (p ColumnPopulation) Ratio() float64 {
	if p.TotalRows == 0 {
		return 0
	}
	return float64(p.PopulatedCount) / float64(p.TotalRows)
}

// Percentage returns Ratio scaled to 0..100.
func (p ColumnPopulation) Percentage() float64 {
	return p.Ratio() * 100
}

// Empty reports whether no value in the column is populated.
func (p ColumnPopulation) Empty() bool {
	return p.PopulatedCount == 0
}

// Sparse reports whether the populated share is below threshold. Empty
// columns are not sparse; they are reported separately.
func (p ColumnPopulation) Sparse(threshold float64) bool {
	return !p.Empty() && p.Ratio() < threshold
}

// Count returns the populated count of one column.
func Count(cells []table.Cell) int {
	n := 0
	for _, c := range cells {
		if c.HasValue() {
			n++
		}
	}
	return n
}

// Analyze returns the population of every column of t, in column order.
func Analyze(t *table.Table) *orderedmap.OrderedMap[string, ColumnPopulation] {
	result := orderedmap.NewOrderedMap[string, ColumnPopulation]()
	for _, col := range t.Columns() {
		result.Set(col.Name, ColumnPopulation{
			PopulatedCount: Count(col.Cells),
			TotalRows:      t.RowCount(),
		})
	}
	return result
}
