package config

import (
	"fmt"
	"strings"

	"github.com/dbsmedya/dqprofile/internal/sqlutil"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	var msgs []string
	for _, err := range e {
		msgs = append(msgs, err.Error())
	}
	return fmt.Sprintf("validation failed:\n  - %s", strings.Join(msgs, "\n  - "))
}

// Validate checks the configuration for required fields and valid values.
func (c *Config) Validate() error {
	var errors ValidationErrors

	errors = append(errors, c.validateAnalysis()...)
	errors = append(errors, c.validateEnrichment()...)

	if c.Processing.Workers <= 0 {
		errors = append(errors, ValidationError{
			Field:   "processing.workers",
			Message: "workers must be positive",
		})
	}

	// The store is only checked when saving is enabled
	if c.Database.Enabled {
		errors = append(errors, c.validateDatabase("database", &c.Database)...)
	}

	if c.Report.MaxColumnWidth < 0 {
		errors = append(errors, ValidationError{
			Field:   "report.max_column_width",
			Message: "max_column_width cannot be negative",
		})
	}

	errors = append(errors, c.validateLogging()...)

	if len(errors) > 0 {
		return errors
	}
	return nil
}

func (c *Config) validateAnalysis() ValidationErrors {
	var errors ValidationErrors

	if c.Analysis.Threshold <= 0 || c.Analysis.Threshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "analysis.threshold",
			Message: "threshold must be greater than 0 and at most 1",
		})
	}

	if c.Analysis.SparseThreshold < 0 || c.Analysis.SparseThreshold > 1 {
		errors = append(errors, ValidationError{
			Field:   "analysis.sparse_threshold",
			Message: "sparse_threshold must be between 0 and 1",
		})
	}

	if len(c.Analysis.PhoneRegion) != 2 {
		errors = append(errors, ValidationError{
			Field:   "analysis.phone_region",
			Message: "phone_region must be a two-letter region code",
		})
	}

	return errors
}

func (c *Config) validateEnrichment() ValidationErrors {
	var errors ValidationErrors

	if strings.TrimSpace(c.Enrichment.SourceMarker) == "" {
		errors = append(errors, ValidationError{
			Field:   "enrichment.source_marker",
			Message: "source_marker is required",
		})
	}

	if strings.TrimSpace(c.Enrichment.DestinationMarker) == "" {
		errors = append(errors, ValidationError{
			Field:   "enrichment.destination_marker",
			Message: "destination_marker is required",
		})
	}

	if c.Enrichment.SourceMarker != "" && strings.EqualFold(c.Enrichment.SourceMarker, c.Enrichment.DestinationMarker) {
		errors = append(errors, ValidationError{
			Field:   "enrichment.destination_marker",
			Message: "destination_marker must differ from source_marker",
		})
	}

	return errors
}

func (c *Config) validateDatabase(prefix string, db *DatabaseConfig) ValidationErrors {
	var errors ValidationErrors

	if db.Host == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".host",
			Message: "host is required",
		})
	}

	if db.Port <= 0 || db.Port > 65535 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".port",
			Message: "port must be between 1 and 65535",
		})
	}

	if db.User == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".user",
			Message: "user is required",
		})
	}

	if db.Database == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".database",
			Message: "database name is required",
		})
	}

	validTLS := map[string]bool{"disable": true, "preferred": true, "required": true, "": true}
	if !validTLS[db.TLS] {
		errors = append(errors, ValidationError{
			Field:   prefix + ".tls",
			Message: "tls must be 'disable', 'preferred', or 'required'",
		})
	}

	if db.MaxConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_connections",
			Message: "max_connections cannot be negative",
		})
	}

	if db.MaxIdleConnections < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".max_idle_connections",
			Message: "max_idle_connections cannot be negative",
		})
	}

	if db.TablePrefix != "" && !sqlutil.IsValidIdentifier(db.TablePrefix) {
		errors = append(errors, ValidationError{
			Field:   prefix + ".table_prefix",
			Message: "table_prefix may only contain letters, digits and underscores",
		})
	}

	if db.LockTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   prefix + ".lock_timeout",
			Message: "lock_timeout cannot be negative",
		})
	}

	return errors
}

func (c *Config) validateLogging() ValidationErrors {
	var errors ValidationErrors

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true, "": true}
	if !validLevels[c.Logging.Level] {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: "level must be 'debug', 'info', 'warn', or 'error'",
		})
	}

	validFormats := map[string]bool{"json": true, "text": true, "": true}
	if !validFormats[c.Logging.Format] {
		errors = append(errors, ValidationError{
			Field:   "logging.format",
			Message: "format must be 'json' or 'text'",
		})
	}

	return errors
}
