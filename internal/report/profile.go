package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/dqprofile/internal/classifier"
	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/population"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// DefaultSparseThreshold is the populated share below which a column is sparse.
const DefaultSparseThreshold = 0.25

// Options configures profile assembly.
type Options struct {
	Classifier      classifier.Options
	SparseThreshold float64
}

// DefaultOptions returns the default classifier options and sparse threshold.
func DefaultOptions() Options {
	return Options{
		Classifier:      classifier.DefaultOptions(),
		SparseThreshold: DefaultSparseThreshold,
	}
}

// Builder assembles profile reports.
type Builder struct {
	opts   Options
	source WarningSource
	logger *logger.Logger
	now    func() time.Time
}

// NewBuilder creates a Builder. source may be nil; a nil logger uses the default.
func NewBuilder(opts Options, source WarningSource, log *logger.Logger) *Builder {
	if opts.SparseThreshold <= 0 {
		opts.SparseThreshold = DefaultSparseThreshold
	}
	if log == nil {
		log = logger.NewDefault()
	}
	return &Builder{
		opts:   opts,
		source: source,
		logger: log,
		now:    time.Now,
	}
}

// BuildProfile is a convenience wrapper around NewBuilder and Build.
func BuildProfile(ctx context.Context, name string, t *table.Table, opts Options, source WarningSource) (*ProfileReport, error) {
	return NewBuilder(opts, source, logger.NewNop()).Build(ctx, name, t)
}

// Build profiles t. Population and classification run as independent
// passes over every column. External warnings are best effort: a failing
// source is logged and the report is built without them.
func (b *Builder) Build(ctx context.Context, name string, t *table.Table) (*ProfileReport, error) {
	if t == nil {
		return nil, fmt.Errorf("table is nil")
	}
	log := b.logger.WithDataset(name)

	pops := population.Analyze(t)
	classified := classifier.ClassifyAll(t, b.opts.Classifier)
	dateFormats := classifier.CountDateFormats(t, classified)

	var external map[string][]ExternalWarning
	if b.source != nil {
		w, err := b.source.Warnings(ctx, name, t)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, fmt.Errorf("profile interrupted: %w", ctxErr)
			}
			log.Warnf("External warnings unavailable: %v", err)
		} else {
			external = w
		}
	}

	report := &ProfileReport{
		ID:              uuid.New(),
		Token:           Token(name),
		Name:            name,
		GeneratedAt:     b.now().UTC(),
		TotalRecords:    t.RowCount(),
		TotalFields:     t.ColumnCount(),
		DateFormatCount: dateFormats,
	}

	counts := issueCounts{totalFields: t.ColumnCount(), dateFormats: dateFormats}
	for el := pops.Front(); el != nil; el = el.Next() {
		column, pop := el.Key, el.Value
		col, _ := classified.Get(column)

		warnings := fieldWarnings(pop, col, b.opts.SparseThreshold, external[column])
		report.Fields = append(report.Fields, Field{
			ID:             uuid.New(),
			ColumnName:     column,
			PopulatedCount: pop.PopulatedCount,
			InferredType:   col.Type,
			FormatCount:    col.FormatCount,
			Warnings:       warnings,
		})

		empty := pop.Empty()
		sparse := pop.Sparse(b.opts.SparseThreshold)
		if empty {
			counts.empty++
		}
		if sparse {
			counts.sparse++
		}
		if empty || sparse || col.Inconsistent() || len(external[column]) > 0 {
			counts.fieldsWithIssues++
		}
		if len(warnings) > 0 {
			log.WithColumn(column).Debugf("%d warnings", len(warnings))
		}
	}

	report.FieldsWithIssues = counts.fieldsWithIssues
	report.GlobalIssues = globalIssues(counts, b.opts.SparseThreshold)

	log.Infof("Profiled %d fields over %d records: %d with issues, %d global issues",
		report.TotalFields, report.TotalRecords, report.FieldsWithIssues, len(report.GlobalIssues))

	return report, nil
}
