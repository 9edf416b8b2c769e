package reconcile

import (
	"github.com/dbsmedya/dqprofile/internal/classifier"
	"github.com/dbsmedya/dqprofile/internal/population"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// Reconcile compares the source and destination columns of mapping row by
// row. Rows whose outcome modifies data are added to modified when it is
// not nil.
//
// A mapping without a destination column, or naming a column t does not
// have, yields zero stats with Applicable unset and touches no rows.
func Reconcile(t *table.Table, mapping ColumnMapping, opts classifier.Options, modified RowSet) (*ComparisonStats, error) {
	stats := &ComparisonStats{
		SourceColumn:      mapping.SourceColumn,
		DestinationColumn: mapping.DestinationColumn,
	}
	if !mapping.Mapped() {
		return stats, nil
	}
	src, ok := t.Column(mapping.SourceColumn)
	if !ok {
		return stats, nil
	}
	dst, ok := t.Column(mapping.DestinationColumn)
	if !ok {
		return stats, nil
	}

	stats.Applicable = true
	stats.TotalRows = t.RowCount()

	// Only collect rows once the mapping has verified.
	touched := NewRowSet()
	for i := 0; i < stats.TotalRows; i++ {
		s, d := src.Cells[i], dst.Cells[i]
		outcome := Compare(s.Trimmed(), d.Trimmed(), s.HasValue(), d.HasValue())
		stats.record(outcome)
		if outcome.Modifies() {
			touched.Add(i)
		}
	}
	stats.finalize()

	if err := Verify(stats, population.Count(dst.Cells)); err != nil {
		return stats, err
	}

	stats.Source = classifier.Classify(src.Cells, opts)
	stats.Destination = classifier.Classify(dst.Cells, opts)
	if classifier.IsValidPhoneColumn(dst.Cells, opts) {
		stats.Destination.FormatCount = 1
	}

	if modified != nil {
		modified.Merge(touched)
	}
	return stats, nil
}
