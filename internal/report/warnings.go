package report

import (
	"context"
	"fmt"
	"math"

	"github.com/google/uuid"

	"github.com/dbsmedya/dqprofile/internal/classifier"
	"github.com/dbsmedya/dqprofile/internal/population"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// ExternalWarning is a free-text warning about a column produced outside
// the profiler, for example by a language model reviewing sample values.
type ExternalWarning struct {
	Type          string   `json:"type" yaml:"type"`
	Message       string   `json:"message" yaml:"message"`
	Severity      string   `json:"severity" yaml:"severity"`
	AffectedCount int      `json:"affected_count,omitempty" yaml:"affected_count"`
	Examples      []string `json:"examples,omitempty" yaml:"examples"`
}

// WarningSource supplies external warnings keyed by column name.
type WarningSource interface {
	Warnings(ctx context.Context, name string, t *table.Table) (map[string][]ExternalWarning, error)
}

// externalTypes maps the external vocabulary onto warning types. Anything
// else becomes WarningOther.
var externalTypes = map[string]WarningType{
	string(WarningInconsistentFormat): WarningInconsistentFormat,
	string(WarningDataQuality):        WarningDataQuality,
	string(WarningDuplicateData):      WarningDuplicateData,
}

// roundPercent returns n/total as a whole percentage, rounding half away
// from zero.
func roundPercent(n, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(total) * 100))
}

func fieldWarnings(pop population.ColumnPopulation, col classifier.ClassifiedColumn, sparse float64, external []ExternalWarning) []Warning {
	var warnings []Warning

	switch {
	case pop.Empty():
		warnings = append(warnings, Warning{
			ID:       uuid.New(),
			Type:     WarningEmptyField,
			Message:  "This field is completely empty across all records",
			Severity: SeverityHigh,
		})
	case pop.Sparse(sparse):
		pct := roundPercent(pop.PopulatedCount, pop.TotalRows)
		sev := SeverityMedium
		if pct < 10 {
			sev = SeverityHigh
		}
		warnings = append(warnings, Warning{
			ID:       uuid.New(),
			Type:     WarningLowPopulation,
			Message:  fmt.Sprintf("Field is only %d%% populated", pct),
			Severity: sev,
		})
	}

	if col.Inconsistent() {
		warnings = append(warnings, Warning{
			ID:       uuid.New(),
			Type:     WarningInconsistentFormat,
			Message:  fmt.Sprintf("Field has %d different formats", col.FormatCount),
			Severity: SeverityMedium,
			Meta: map[string]interface{}{
				"type":         string(col.Type),
				"format_count": col.FormatCount,
			},
		})
	}

	for _, ext := range external {
		// Population findings are computed locally
		if ext.Type == string(WarningEmptyField) || ext.Type == string(WarningLowPopulation) {
			continue
		}
		typ, ok := externalTypes[ext.Type]
		if !ok {
			typ = WarningOther
		}
		sev, ok := ParseSeverity(ext.Severity)
		if !ok {
			sev = SeverityMedium
		}
		warnings = append(warnings, Warning{
			ID:       uuid.New(),
			Type:     typ,
			Message:  ext.Message,
			Severity: sev,
			Meta: map[string]interface{}{
				"affected_count": ext.AffectedCount,
				"examples":       ext.Examples,
			},
		})
	}

	return warnings
}

// issueCounts are the dataset-level tallies global issues are derived from.
type issueCounts struct {
	totalFields      int
	fieldsWithIssues int
	empty            int
	sparse           int
	dateFormats      int
}

func globalIssues(c issueCounts, sparseThreshold float64) []GlobalIssue {
	var issues []GlobalIssue

	if c.empty > 0 {
		issues = append(issues, GlobalIssue{
			ID:          uuid.New(),
			Type:        "data_quality",
			Title:       "Empty Columns Detected",
			Description: fmt.Sprintf("%d columns are completely empty across all records", c.empty),
			Severity:    SeverityHigh,
		})
	}

	if c.sparse > 0 {
		issues = append(issues, GlobalIssue{
			ID:    uuid.New(),
			Type:  "data_quality",
			Title: "Sparse Data Coverage",
			Description: fmt.Sprintf("%d columns have less than %d%% data coverage",
				c.sparse, int(math.Round(sparseThreshold*100))),
			Severity: SeverityMedium,
		})
	}

	if c.dateFormats > 1 {
		issues = append(issues, GlobalIssue{
			ID:          uuid.New(),
			Type:        "data_quality",
			Title:       "Inconsistent Date Formats",
			Description: fmt.Sprintf("Found %d different date formats across columns", c.dateFormats),
			Severity:    SeverityMedium,
		})
	}

	if c.totalFields > 0 {
		pct := roundPercent(c.fieldsWithIssues, c.totalFields)
		if pct > 50 {
			sev := SeverityHigh
			if pct > 70 {
				sev = SeverityCritical
			}
			issues = append(issues, GlobalIssue{
				ID:          uuid.New(),
				Type:        "data_quality",
				Title:       "Poor Overall Data Quality",
				Description: fmt.Sprintf("%d%% of fields have data quality issues", pct),
				Severity:    sev,
			})
		}
	}

	return issues
}
