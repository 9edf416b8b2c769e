package enrichment

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/multierr"

	"github.com/dbsmedya/dqprofile/internal/classifier"
	"github.com/dbsmedya/dqprofile/internal/logger"
	"github.com/dbsmedya/dqprofile/internal/reconcile"
	"github.com/dbsmedya/dqprofile/internal/table"
)

const sampleMatching = `
mappings:
  - source_column: "name (crm)"
    destination_column: "name (export)"
    is_many_to_one: false
    confidence: 0.95
    reasoning: "direct match"
  - source_column: "first (crm)"
    destination_column: "full name (export)"
    is_many_to_one: true
    additional_source_columns: ["middle (crm)", "last (crm)"]
    confidence: 0.8
    reasoning: "name parts merged"
unmapped_source_columns: []
unmapped_destination_columns: ["industry (export)", "revenue (export)"]
notes: "sample"
`

func TestSplitColumns(t *testing.T) {
	names := []string{"Name (CRM)", "name (export)", "id", "Email (crm)", "EMAIL (EXPORT)"}
	src, dst := SplitColumns(names, "(crm)", "(export)")

	assert.Equal(t, []string{"Name (CRM)", "Email (crm)"}, src)
	assert.Equal(t, []string{"name (export)", "EMAIL (EXPORT)"}, dst)

	src, dst = SplitColumns(names, "", "")
	assert.Empty(t, src)
	assert.Empty(t, dst)
}

func TestParseMatching(t *testing.T) {
	m, err := ParseMatching(strings.NewReader(sampleMatching))
	require.NoError(t, err)

	require.Len(t, m.Mappings, 2)
	assert.Equal(t, reconcile.ColumnMapping{
		SourceColumn:      "name (crm)",
		DestinationColumn: "name (export)",
		Confidence:        0.95,
		Reasoning:         "direct match",
	}, m.Mappings[0])
	assert.True(t, m.Mappings[1].IsManyToOne)
	assert.Equal(t, []string{"middle (crm)", "last (crm)"}, m.Mappings[1].AdditionalSourceColumns)
	assert.Equal(t, []string{"industry (export)", "revenue (export)"}, m.UnmappedDestinationColumns)
	assert.Equal(t, "sample", m.Notes)
}

func TestParseMatching_Empty(t *testing.T) {
	m, err := ParseMatching(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, m.Mappings)
}

func TestParseMatching_Errors(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"unknown key", "mappings: []\nextra: 1\n", "field extra not found"},
		{"bad yaml", "mappings: [", "failed to parse mappings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseMatching(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestParseMatching_DecodesInvalidMappings(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"missing source", "mappings:\n  - destination_column: x\n", "source_column is required"},
		{"confidence range", "mappings:\n  - source_column: a\n    confidence: 1.5\n", "outside [0, 1]"},
		{"additional on one-to-one", "mappings:\n  - source_column: a\n    additional_source_columns: [b]\n", "one-to-one"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := ParseMatching(strings.NewReader(tt.input))
			require.NoError(t, err)
			require.Len(t, m.Mappings, 1)

			err = m.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	m := &MatchingResult{Mappings: []reconcile.ColumnMapping{
		{Confidence: 2},
		{SourceColumn: "a", Confidence: -1},
	}}
	err := m.Validate()
	require.Error(t, err)
	assert.Len(t, multierr.Errors(err), 3)
}

func TestLoadMatching(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mappings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(sampleMatching), 0644))

	m, err := LoadMatching(path)
	require.NoError(t, err)
	assert.Len(t, m.Mappings, 2)

	_, err = LoadMatching(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read mappings file")
}

func sampleTable(t *testing.T) *table.Table {
	t.Helper()
	names := []string{
		"name (crm)", "first (crm)", "middle (crm)", "last (crm)",
		"name (export)", "full name (export)", "industry (export)", "revenue (export)",
	}
	tbl, err := table.FromMap(names, map[string][]interface{}{
		"name (crm)":         {"same", "diff_a", nil, "rm", ""},
		"first (crm)":        {"Ada", "Alan", "Grace", nil, nil},
		"middle (crm)":       {nil, "M", nil, nil, nil},
		"last (crm)":         {"Lovelace", "Turing", "Hopper", nil, nil},
		"name (export)":      {"same", "diff_b", "added", nil, "filled"},
		"full name (export)": {"Ada", "Alan M Turing", "Grace", nil, nil},
		"industry (export)":  {"Tech", "Tech", nil, nil, nil},
		"revenue (export)":   {"1,000", "2,000", nil, nil, nil},
	})
	require.NoError(t, err)
	return tbl
}

func TestCalculate(t *testing.T) {
	tbl := sampleTable(t)
	matching, err := ParseMatching(strings.NewReader(sampleMatching))
	require.NoError(t, err)

	src, dst := SplitColumns(tbl.ColumnNames(), "(crm)", "(export)")
	calc := NewCalculator(classifier.DefaultOptions(), logger.NewNop())
	report := calc.Calculate(tbl, matching, src, dst)

	require.NoError(t, report.Err())
	assert.NotEqual(t, uuid.Nil, report.ID)
	assert.Equal(t, 5, report.TotalRows)
	assert.Equal(t, 4, report.TotalSourceColumns)
	assert.Equal(t, 4, report.TotalDestinationColumns)
	assert.Equal(t, 4, report.DestinationColumnsCreated)
	assert.Equal(t, "sample", report.Notes)

	assert.Equal(t, reconcile.GlobalStats{
		NewColumnsCount:         2,
		ManyToOneCount:          1,
		ColumnsReducedByMerging: 2,
		// rows 1-4 from the name mapping, row 1 fixed again by the merge
		RecordsModifiedCount: 4,
	}, report.Global)
	assert.InDelta(t, 80.0, report.ModificationRate(), 1e-9)

	require.Len(t, report.Mappings, 2)
	name := report.Mappings[0].Stats
	require.NotNil(t, name)
	assert.Equal(t, 1, name.Good)
	assert.Equal(t, 1, name.Fixed)
	assert.Equal(t, 2, name.Added)
	assert.Equal(t, 1, name.Discarded)
	assert.NotEqual(t, report.Mappings[0].ID, report.Mappings[1].ID)

	merged := report.Mappings[1].Stats
	require.NotNil(t, merged)
	assert.Equal(t, 2, merged.Good)
	assert.Equal(t, 1, merged.Fixed)
	assert.Equal(t, 2, merged.BothEmpty)
}

func TestCalculate_NotApplicableMappingsContinue(t *testing.T) {
	tbl := sampleTable(t)
	matching := &MatchingResult{Mappings: []reconcile.ColumnMapping{
		{SourceColumn: "ghost (crm)", DestinationColumn: "name (export)"},
		{SourceColumn: "name (crm)"},
		{SourceColumn: "name (crm)", DestinationColumn: "name (export)"},
	}}

	report := NewCalculator(classifier.DefaultOptions(), nil).Calculate(tbl, matching, nil, nil)

	require.NoError(t, report.Err())
	require.Len(t, report.Mappings, 3)
	assert.False(t, report.Mappings[0].Stats.Applicable)
	assert.False(t, report.Mappings[1].Stats.Applicable)
	assert.True(t, report.Mappings[2].Stats.Applicable)
	assert.Equal(t, 4, report.Global.RecordsModifiedCount)
}

func TestReport_Empty(t *testing.T) {
	tbl, err := table.New()
	require.NoError(t, err)

	report := NewCalculator(classifier.DefaultOptions(), logger.NewNop()).Calculate(tbl, &MatchingResult{}, nil, nil)
	assert.Equal(t, 0.0, report.ModificationRate())
	assert.Empty(t, report.Mappings)
	assert.NoError(t, report.Err())
}
