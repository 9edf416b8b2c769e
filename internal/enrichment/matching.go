package enrichment

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/dqprofile/internal/reconcile"
)

// MatchingResult is the output of the column matching step.
type MatchingResult struct {
	Mappings                   []reconcile.ColumnMapping `yaml:"mappings"`
	UnmappedSourceColumns      []string                  `yaml:"unmapped_source_columns"`
	UnmappedDestinationColumns []string                  `yaml:"unmapped_destination_columns"`
	Notes                      string                    `yaml:"notes"`
}

// LoadMatching reads a matching result from a YAML file.
func LoadMatching(path string) (*MatchingResult, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mappings file: %w", err)
	}
	m, err := ParseMatching(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// ParseMatching decodes a matching result. Unknown keys are rejected;
// mapping contents are checked separately by Validate.
func ParseMatching(r io.Reader) (*MatchingResult, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var m MatchingResult
	if err := dec.Decode(&m); err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to parse mappings: %w", err)
	}
	return &m, nil
}

// Validate checks every mapping and returns all problems found.
func (m *MatchingResult) Validate() error {
	var errs error
	for i, mapping := range m.Mappings {
		if mapping.SourceColumn == "" {
			errs = multierr.Append(errs, fmt.Errorf("mappings[%d]: source_column is required", i))
		}
		if mapping.Confidence < 0 || mapping.Confidence > 1 {
			errs = multierr.Append(errs, fmt.Errorf("mappings[%d]: confidence %v is outside [0, 1]", i, mapping.Confidence))
		}
		if !mapping.IsManyToOne && len(mapping.AdditionalSourceColumns) > 0 {
			errs = multierr.Append(errs, fmt.Errorf("mappings[%d]: additional_source_columns set on a one-to-one mapping", i))
		}
	}
	return errs
}
