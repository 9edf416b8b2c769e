// Package store persists profile and enrichment reports to MySQL.
//
// Every save replaces the rows previously stored under the same report
// token inside one transaction, while holding the report's advisory lock
// so concurrent writers of one dataset are serialized.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dbsmedya/dqprofile/internal/config"
	"github.com/dbsmedya/dqprofile/internal/enrichment"
	"github.com/dbsmedya/dqprofile/internal/lock"
	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/reconcile"
	"github.com/dbsmedya/dqprofile/internal/report"
)

// ErrInvalidReport is returned for reports that cannot be stored.
var ErrInvalidReport = errors.New("invalid report")

// Store writes reports to a MySQL database.
type Store struct {
	db          *sql.DB
	tables      tableNames
	lockTimeout int
	logger      *logger.Logger
	now         func() time.Time
}

// New creates a Store over db using the table prefix and lock timeout of
// cfg. A nil logger discards output.
func New(db *sql.DB, cfg *config.DatabaseConfig, log *logger.Logger) (*Store, error) {
	tables, err := resolveTableNames(cfg.TablePrefix)
	if err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.NewNop()
	}
	return &Store{
		db:          db,
		tables:      tables,
		lockTimeout: cfg.LockTimeout,
		logger:      log,
		now:         time.Now,
	}, nil
}

// execer is the subset of *sql.Tx used by the write helpers.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// withReportTx runs fn in a transaction on a dedicated connection that
// holds the report lock for token.
func (s *Store) withReportTx(ctx context.Context, token string, fn func(tx execer) error) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	l := lock.NewReportLock(conn, token)
	return l.WithLock(ctx, s.lockTimeout, func() error {
		s.logger.Debugf("Holding lock %s", l.LockName())
		tx, err := conn.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("failed to begin transaction: %w", err)
		}
		if err := fn(tx); err != nil {
			if rbErr := tx.Rollback(); rbErr != nil {
				s.logger.Warnf("Rollback failed: %v", rbErr)
			}
			return err
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("failed to commit: %w", err)
		}
		return nil
	})
}

func deleteByToken(ctx context.Context, tx execer, token string, tables ...string) error {
	for _, t := range tables {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+t+" WHERE report_token = ?", token); err != nil {
			return fmt.Errorf("failed to clear %s: %w", t, err)
		}
	}
	return nil
}

// SaveProfile stores r, replacing any profile saved under the same token.
func (s *Store) SaveProfile(ctx context.Context, r *report.ProfileReport) error {
	if r == nil || r.Token == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidReport)
	}
	log := s.logger.WithDataset(r.Name)

	err := s.withReportTx(ctx, r.Token, func(tx execer) error {
		if err := deleteByToken(ctx, tx, r.Token, s.tables.Warnings, s.tables.Fields, s.tables.GlobalIssues); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.tables.Reports+" WHERE token = ?", r.Token); err != nil {
			return fmt.Errorf("failed to clear report: %w", err)
		}

		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+s.tables.Reports+
				" (token, id, name, generated_at, total_records, total_fields, fields_with_issues, date_format_count)"+
				" VALUES (?, ?, ?, ?, ?, ?, ?, ?)",
			r.Token, r.ID.String(), r.Name, r.GeneratedAt.UTC(),
			r.TotalRecords, r.TotalFields, r.FieldsWithIssues, r.DateFormatCount,
		); err != nil {
			return fmt.Errorf("failed to insert report: %w", err)
		}

		for i, f := range r.Fields {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+s.tables.Fields+
					" (id, report_token, position, column_name, populated_count, inferred_type, format_count)"+
					" VALUES (?, ?, ?, ?, ?, ?, ?)",
				f.ID.String(), r.Token, i, f.ColumnName, f.PopulatedCount, string(f.InferredType), f.FormatCount,
			); err != nil {
				return fmt.Errorf("failed to insert field %q: %w", f.ColumnName, err)
			}
			for _, w := range f.Warnings {
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO "+s.tables.Warnings+
						" (id, report_token, field_id, type, severity, message)"+
						" VALUES (?, ?, ?, ?, ?, ?)",
					w.ID.String(), r.Token, f.ID.String(), string(w.Type), string(w.Severity), w.Message,
				); err != nil {
					return fmt.Errorf("failed to insert warning for %q: %w", f.ColumnName, err)
				}
			}
		}

		for _, g := range r.GlobalIssues {
			if _, err := tx.ExecContext(ctx,
				"INSERT INTO "+s.tables.GlobalIssues+
					" (id, report_token, type, title, description, severity)"+
					" VALUES (?, ?, ?, ?, ?, ?)",
				g.ID.String(), r.Token, g.Type, g.Title, g.Description, string(g.Severity),
			); err != nil {
				return fmt.Errorf("failed to insert global issue %q: %w", g.Type, err)
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save profile %q: %w", r.Name, err)
	}

	log.Infof("Saved profile: %d fields, %d warnings, %d global issues",
		len(r.Fields), r.WarningCount(), len(r.GlobalIssues))
	return nil
}

// SaveEnrichment stores r under token, replacing any previous enrichment
// report for the same token.
func (s *Store) SaveEnrichment(ctx context.Context, token string, r *enrichment.Report) error {
	if r == nil || token == "" {
		return fmt.Errorf("%w: missing token", ErrInvalidReport)
	}

	err := s.withReportTx(ctx, token, func(tx execer) error {
		if err := deleteByToken(ctx, tx, token, s.tables.ComparisonStats); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+s.tables.EnrichmentReports+" WHERE token = ?", token); err != nil {
			return fmt.Errorf("failed to clear enrichment report: %w", err)
		}

		g := r.Global
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO "+s.tables.EnrichmentReports+
				" (token, id, generated_at, total_rows, total_source_columns, total_destination_columns,"+
				" destination_columns_created, new_columns_count, many_to_one_count,"+
				" columns_reduced_by_merging, records_modified_count, notes)"+
				" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
			token, r.ID.String(), s.now().UTC(), r.TotalRows, r.TotalSourceColumns, r.TotalDestinationColumns,
			r.DestinationColumnsCreated, g.NewColumnsCount, g.ManyToOneCount,
			g.ColumnsReducedByMerging, g.RecordsModifiedCount, r.Notes,
		); err != nil {
			return fmt.Errorf("failed to insert enrichment report: %w", err)
		}

		for i, m := range r.Mappings {
			if err := s.insertMapping(ctx, tx, token, i, m); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("save enrichment %q: %w", token, err)
	}

	s.logger.Infof("Saved enrichment report %s: %d mappings", token, len(r.Mappings))
	return nil
}

func (s *Store) insertMapping(ctx context.Context, tx execer, token string, position int, m enrichment.MappingResult) error {
	id := m.ID
	if id == uuid.Nil {
		id = uuid.New()
	}

	var st reconcile.ComparisonStats
	if m.Stats != nil {
		st = *m.Stats
	}
	errText := ""
	if m.Err != nil {
		errText = m.Err.Error()
	}

	if _, err := tx.ExecContext(ctx,
		"INSERT INTO "+s.tables.ComparisonStats+
			" (id, report_token, position, source_column, destination_column, is_many_to_one,"+
			" additional_source_columns, confidence, applicable, total_rows, both_empty,"+
			" discarded_invalid_data, added_new_data, good_data, fixed_data,"+
			" correct_values_before, correct_values_after, correct_percentage_before, correct_percentage_after,"+
			" source_type, source_format_count, destination_type, destination_format_count, error)"+
			" VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)",
		id.String(), token, position, m.Mapping.SourceColumn, m.Mapping.DestinationColumn, m.Mapping.IsManyToOne,
		strings.Join(m.Mapping.AdditionalSourceColumns, ","), m.Mapping.Confidence, st.Applicable, st.TotalRows, st.BothEmpty,
		st.Discarded, st.Added, st.Good, st.Fixed,
		st.CorrectBefore, st.CorrectAfter, st.CorrectPercentageBefore, st.CorrectPercentageAfter,
		string(st.Source.Type), st.Source.FormatCount, string(st.Destination.Type), st.Destination.FormatCount, errText,
	); err != nil {
		return fmt.Errorf("failed to insert mapping %s -> %s: %w", m.Mapping.SourceColumn, m.Mapping.DestinationColumn, err)
	}
	return nil
}

// IsWriting reports whether another session currently holds the write lock
// of the report stored under token.
func (s *Store) IsWriting(ctx context.Context, token string) (bool, error) {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get connection: %w", err)
	}
	defer conn.Close()

	return lock.IsReportLocked(ctx, conn, token)
}

// ReportSummary is one stored profile as listed by ListReports.
type ReportSummary struct {
	Token            string
	Name             string
	GeneratedAt      time.Time
	TotalRecords     int
	TotalFields      int
	FieldsWithIssues int
}

// ListReports returns stored profiles, newest first.
func (s *Store) ListReports(ctx context.Context) ([]ReportSummary, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT token, name, generated_at, total_records, total_fields, fields_with_issues FROM "+
			s.tables.Reports+" ORDER BY generated_at DESC, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	defer rows.Close()

	var out []ReportSummary
	for rows.Next() {
		var r ReportSummary
		if err := rows.Scan(&r.Token, &r.Name, &r.GeneratedAt, &r.TotalRecords, &r.TotalFields, &r.FieldsWithIssues); err != nil {
			return nil, fmt.Errorf("failed to scan report: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}
	return out, nil
}
