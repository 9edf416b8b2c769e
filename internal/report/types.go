// Package report assembles profile reports from column analysis and
// renders profile and enrichment reports for the terminal.
package report

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/dqprofile/internal/matcher"
)

// Severity ranks warnings and issues.
type Severity string

const (
	SeverityLow      Severity = "LOW"
	SeverityMedium   Severity = "MEDIUM"
	SeverityHigh     Severity = "HIGH"
	SeverityCritical Severity = "CRITICAL"
)

// ParseSeverity parses a severity name case-insensitively.
func ParseSeverity(s string) (Severity, bool) {
	switch sev := Severity(strings.ToUpper(strings.TrimSpace(s))); sev {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return sev, true
	default:
		return "", false
	}
}

// WarningType classifies a field warning.
type WarningType string

const (
	WarningEmptyField         WarningType = "EMPTY_FIELD"
	WarningLowPopulation      WarningType = "LOW_POPULATION"
	WarningInconsistentFormat WarningType = "INCONSISTENT_FORMAT"
	WarningDuplicateData      WarningType = "DUPLICATE_DATA"
	WarningDeprecatedField    WarningType = "DEPRECATED_FIELD"
	WarningDataQuality        WarningType = "DATA_QUALITY"
	WarningOther              WarningType = "OTHER"
)

// Warning is a data quality finding attached to one field.
type Warning struct {
	ID       uuid.UUID              `json:"id"`
	Type     WarningType            `json:"type"`
	Message  string                 `json:"message"`
	Severity Severity               `json:"severity"`
	Meta     map[string]interface{} `json:"meta,omitempty"`
}

// Field is the profile of one column.
type Field struct {
	ID             uuid.UUID    `json:"id"`
	ColumnName     string       `json:"column_name"`
	PopulatedCount int          `json:"populated_count"`
	InferredType   matcher.Type `json:"inferred_type"`
	FormatCount    int          `json:"format_count"`
	Warnings       []Warning    `json:"warnings,omitempty"`
}

// GlobalIssue is a finding about the dataset as a whole.
type GlobalIssue struct {
	ID          uuid.UUID `json:"id"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Severity    Severity  `json:"severity"`
}

// ProfileReport is the data quality profile of one dataset.
type ProfileReport struct {
	ID               uuid.UUID     `json:"id"`
	Token            string        `json:"token"`
	Name             string        `json:"name"`
	GeneratedAt      time.Time     `json:"generated_at"`
	TotalRecords     int           `json:"total_records"`
	TotalFields      int           `json:"total_fields"`
	FieldsWithIssues int           `json:"fields_with_issues"`
	DateFormatCount  int           `json:"date_format_count"`
	Fields           []Field       `json:"fields"`
	GlobalIssues     []GlobalIssue `json:"global_issues"`
}

// WarningCount returns the number of field warnings in the report.
func (r *ProfileReport) WarningCount() int {
	n := 0
	for _, f := range r.Fields {
		n += len(f.Warnings)
	}
	return n
}

// tokenLength is the number of hex characters kept from the digest.
const tokenLength = 48

// Token derives the stable report token for a dataset name.
func Token(name string) string {
	sum := sha256.Sum256([]byte(name))
	return hex.EncodeToString(sum[:])[:tokenLength]
}
