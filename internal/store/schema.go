package store

import (
	"context"
	"fmt"

	"github.com/dbsmedya/dqprofile/internal/sqlutil"
)

// tableNames holds the quoted, prefixed names of every store table.
type tableNames struct {
	Reports           string
	Fields            string
	Warnings          string
	GlobalIssues      string
	EnrichmentReports string
	ComparisonStats   string
}

func resolveTableNames(prefix string) (tableNames, error) {
	var names tableNames
	for _, t := range []struct {
		dst  *string
		base string
	}{
		{&names.Reports, "reports"},
		{&names.Fields, "fields"},
		{&names.Warnings, "warnings"},
		{&names.GlobalIssues, "global_issues"},
		{&names.EnrichmentReports, "enrichment_reports"},
		{&names.ComparisonStats, "comparison_stats"},
	} {
		quoted, err := sqlutil.TableName(prefix, t.base)
		if err != nil {
			return tableNames{}, fmt.Errorf("table prefix %q: %w", prefix, err)
		}
		*t.dst = quoted
	}
	return names, nil
}

func (n tableNames) ddl() []string {
	const suffix = " ENGINE=InnoDB DEFAULT CHARSET=utf8mb4"
	return []string{
		`CREATE TABLE IF NOT EXISTS ` + n.Reports + ` (
			token VARCHAR(64) NOT NULL PRIMARY KEY,
			id CHAR(36) NOT NULL,
			name VARCHAR(255) NOT NULL,
			generated_at DATETIME NOT NULL,
			total_records INT NOT NULL,
			total_fields INT NOT NULL,
			fields_with_issues INT NOT NULL,
			date_format_count INT NOT NULL
		)` + suffix,
		`CREATE TABLE IF NOT EXISTS ` + n.Fields + ` (
			id CHAR(36) NOT NULL PRIMARY KEY,
			report_token VARCHAR(64) NOT NULL,
			position INT NOT NULL,
			column_name VARCHAR(255) NOT NULL,
			populated_count INT NOT NULL,
			inferred_type VARCHAR(16) NOT NULL,
			format_count INT NOT NULL,
			KEY idx_report (report_token)
		)` + suffix,
		`CREATE TABLE IF NOT EXISTS ` + n.Warnings + ` (
			id CHAR(36) NOT NULL PRIMARY KEY,
			report_token VARCHAR(64) NOT NULL,
			field_id CHAR(36) NOT NULL,
			type VARCHAR(32) NOT NULL,
			severity VARCHAR(16) NOT NULL,
			message TEXT NOT NULL,
			KEY idx_report (report_token)
		)` + suffix,
		`CREATE TABLE IF NOT EXISTS ` + n.GlobalIssues + ` (
			id CHAR(36) NOT NULL PRIMARY KEY,
			report_token VARCHAR(64) NOT NULL,
			type VARCHAR(64) NOT NULL,
			title VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			severity VARCHAR(16) NOT NULL,
			KEY idx_report (report_token)
		)` + suffix,
		`CREATE TABLE IF NOT EXISTS ` + n.EnrichmentReports + ` (
			token VARCHAR(64) NOT NULL PRIMARY KEY,
			id CHAR(36) NOT NULL,
			generated_at DATETIME NOT NULL,
			total_rows INT NOT NULL,
			total_source_columns INT NOT NULL,
			total_destination_columns INT NOT NULL,
			destination_columns_created INT NOT NULL,
			new_columns_count INT NOT NULL,
			many_to_one_count INT NOT NULL,
			columns_reduced_by_merging INT NOT NULL,
			records_modified_count INT NOT NULL,
			notes TEXT NOT NULL
		)` + suffix,
		`CREATE TABLE IF NOT EXISTS ` + n.ComparisonStats + ` (
			id CHAR(36) NOT NULL PRIMARY KEY,
			report_token VARCHAR(64) NOT NULL,
			position INT NOT NULL,
			source_column VARCHAR(255) NOT NULL,
			destination_column VARCHAR(255) NOT NULL,
			is_many_to_one BOOLEAN NOT NULL,
			additional_source_columns TEXT NOT NULL,
			confidence DOUBLE NOT NULL,
			applicable BOOLEAN NOT NULL,
			total_rows INT NOT NULL,
			both_empty INT NOT NULL,
			discarded_invalid_data INT NOT NULL,
			added_new_data INT NOT NULL,
			good_data INT NOT NULL,
			fixed_data INT NOT NULL,
			correct_values_before INT NOT NULL,
			correct_values_after INT NOT NULL,
			correct_percentage_before DOUBLE NOT NULL,
			correct_percentage_after DOUBLE NOT NULL,
			source_type VARCHAR(16) NOT NULL,
			source_format_count INT NOT NULL,
			destination_type VARCHAR(16) NOT NULL,
			destination_format_count INT NOT NULL,
			error TEXT NOT NULL,
			KEY idx_report (report_token)
		)` + suffix,
	}
}

// EnsureSchema creates any missing store tables.
func (s *Store) EnsureSchema(ctx context.Context) error {
	for _, stmt := range s.tables.ddl() {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	s.logger.Debug("Report store schema ready")
	return nil
}
