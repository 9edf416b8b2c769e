package enrichment

import (
	"github.com/google/uuid"
	"go.uber.org/multierr"

	"github.com/dbsmedya/dqprofile/internal/classifier"
	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/reconcile"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// MappingResult is the reconciliation outcome of one mapping.
type MappingResult struct {
	ID      uuid.UUID                  `json:"id"`
	Mapping reconcile.ColumnMapping    `json:"mapping"`
	Stats   *reconcile.ComparisonStats `json:"stats,omitempty"`
	Err     error                      `json:"-"`
}

// Report summarizes reconciliation across every mapping of a table.
type Report struct {
	ID                        uuid.UUID             `json:"id"`
	TotalRows                 int                   `json:"total_rows"`
	TotalSourceColumns        int                   `json:"total_source_columns"`
	TotalDestinationColumns   int                   `json:"total_destination_columns"`
	DestinationColumnsCreated int                   `json:"destination_columns_created"`
	Global                    reconcile.GlobalStats `json:"global"`
	Mappings                  []MappingResult       `json:"mappings"`
	Notes                     string                `json:"notes,omitempty"`
}

// Err combines the errors of every failed mapping.
func (r *Report) Err() error {
	var errs error
	for _, m := range r.Mappings {
		errs = multierr.Append(errs, m.Err)
	}
	return errs
}

// ModificationRate returns the share of rows modified by any mapping, in percent.
func (r *Report) ModificationRate() float64 {
	if r.TotalRows == 0 {
		return 0
	}
	return float64(r.Global.RecordsModifiedCount) / float64(r.TotalRows) * 100
}

// Calculator drives reconciliation over a batch of mappings.
type Calculator struct {
	opts   classifier.Options
	logger *logger.Logger
}

// NewCalculator creates a Calculator. A nil logger uses the default.
func NewCalculator(opts classifier.Options, log *logger.Logger) *Calculator {
	if log == nil {
		log = logger.NewDefault()
	}
	return &Calculator{opts: opts, logger: log}
}

// Calculate reconciles every mapping in matching against t. A mapping that
// fails is recorded with its error and the rest of the batch still runs;
// inspect Report.Err for failures.
func (c *Calculator) Calculate(t *table.Table, matching *MatchingResult, sourceColumns, destinationColumns []string) *Report {
	report := &Report{
		ID:                        uuid.New(),
		TotalRows:                 t.RowCount(),
		TotalSourceColumns:        len(sourceColumns),
		TotalDestinationColumns:   len(destinationColumns),
		DestinationColumnsCreated: len(destinationColumns),
		Notes:                     matching.Notes,
	}
	report.Global = reconcile.AggregateGlobal(matching.Mappings, sourceColumns, destinationColumns)

	c.logger.Infof("Reconciling %d mappings over %d rows", len(matching.Mappings), report.TotalRows)

	modified := reconcile.NewRowSet()
	for _, mapping := range matching.Mappings {
		log := c.logger.WithMapping(mapping.SourceColumn, mapping.DestinationColumn)
		result := MappingResult{ID: uuid.New(), Mapping: mapping}

		stats, err := reconcile.Reconcile(t, mapping, c.opts, modified)
		switch {
		case err != nil:
			log.Errorf("Reconciliation failed: %v", err)
			result.Err = err
		case !stats.Applicable:
			log.Debug("Mapping not applicable to table, skipping")
			result.Stats = stats
		default:
			log.Debugf("good=%d fixed=%d added=%d discarded=%d both_empty=%d",
				stats.Good, stats.Fixed, stats.Added, stats.Discarded, stats.BothEmpty)
			result.Stats = stats
		}
		report.Mappings = append(report.Mappings, result)
	}

	report.Global.RecordsModifiedCount = modified.Len()

	c.logger.Infof("Reconciliation complete: %d records modified (%.1f%%), %d new columns, %d many-to-one",
		report.Global.RecordsModifiedCount, report.ModificationRate(),
		report.Global.NewColumnsCount, report.Global.ManyToOneCount)

	return report
}
