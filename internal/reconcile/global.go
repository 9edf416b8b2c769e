package reconcile

// GlobalStats summarizes a batch of mappings.
type GlobalStats struct {
	NewColumnsCount         int `json:"new_columns_count"`
	ManyToOneCount          int `json:"many_to_one_count"`
	ColumnsReducedByMerging int `json:"columns_reduced_by_merging"`
	RecordsModifiedCount    int `json:"records_modified_count"`
}

// AggregateGlobal computes the column-level batch statistics.
// RecordsModifiedCount is left to the caller, which owns the modified row
// set shared across the batch.
func AggregateGlobal(mappings []ColumnMapping, sourceColumns, destinationColumns []string) GlobalStats {
	var g GlobalStats

	targeted := make(map[string]struct{}, len(mappings))
	for _, m := range mappings {
		if m.Mapped() {
			targeted[m.DestinationColumn] = struct{}{}
		}
	}
	for _, col := range destinationColumns {
		if _, ok := targeted[col]; !ok {
			g.NewColumnsCount++
		}
	}

	merged := 0
	for _, m := range mappings {
		if !m.IsManyToOne {
			continue
		}
		g.ManyToOneCount++
		merged += 1 + len(m.AdditionalSourceColumns)
	}
	g.ColumnsReducedByMerging = merged - g.ManyToOneCount

	return g
}
