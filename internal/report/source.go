package report

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dbsmedya/dqprofile/internal/table"
)

// WarningFile is a WarningSource backed by a YAML document that maps column
// names to warnings. The same warnings apply to every dataset.
type WarningFile struct {
	columns map[string][]ExternalWarning
}

// LoadWarningFile reads a warning file from path.
func LoadWarningFile(path string) (*WarningFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open warning file: %w", err)
	}
	defer f.Close()

	wf, err := ParseWarningFile(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return wf, nil
}

// ParseWarningFile decodes a warning document. Empty input yields no warnings.
func ParseWarningFile(r io.Reader) (*WarningFile, error) {
	columns := make(map[string][]ExternalWarning)
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&columns); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("failed to parse warnings: %w", err)
	}
	return &WarningFile{columns: columns}, nil
}

// Warnings returns the warnings of the columns present in t.
func (w *WarningFile) Warnings(_ context.Context, _ string, t *table.Table) (map[string][]ExternalWarning, error) {
	out := make(map[string][]ExternalWarning, len(w.columns))
	for name, warnings := range w.columns {
		if t.HasColumn(name) {
			out[name] = warnings
		}
	}
	return out, nil
}
