// Package classifier infers the type and format consistency of table columns.
package classifier

import (
	"github.com/elliotchance/orderedmap/v2"

	"github.com/dbsmedya/dqprofile/internal/matcher"
	"github.com/dbsmedya/dqprofile/internal/table"
)

// DefaultThreshold is the minimum match ratio a type family must reach.
const DefaultThreshold = 0.8

// Options configures classification.
type Options struct {
	// Threshold is the minimum share of non-null values a family must match.
	// Zero or negative values select DefaultThreshold, so a threshold of 0
	// cannot be requested.
	Threshold float64
	// PhoneRegion is the default region for numbers without a country code.
	PhoneRegion string
}

// DefaultOptions returns threshold 0.8 and region US.
func DefaultOptions() Options {
	return Options{
		Threshold:   DefaultThreshold,
		PhoneRegion: matcher.DefaultPhoneRegion,
	}
}

func (o Options) normalized() Options {
	if o.Threshold <= 0 {
		o.Threshold = DefaultThreshold
	}
	if o.PhoneRegion == "" {
		o.PhoneRegion = matcher.DefaultPhoneRegion
	}
	return o
}

// ClassifiedColumn is the inferred type of a column and the number of
// distinct layouts its matching values use.
type ClassifiedColumn struct {
	Type        matcher.Type `json:"type"`
	FormatCount int          `json:"format_count"`
}

// Inconsistent reports whether the column mixes more than one format.
func (c ClassifiedColumn) Inconsistent() bool {
	return c.FormatCount > 1
}

// detector evaluates one type family over cleaned values. It returns the
// signatures of the matching subset and whether the family was accepted.
type detector struct {
	typ    matcher.Type
	detect func(values []string, opts Options) (signatures []string, accepted bool)
}

// detectors returns the families in priority order. The string fallback is
// handled by Classify.
func detectors() []detector {
	return []detector{
		{matcher.TypeURL, detectURL},
		{matcher.TypeEmail, detectEmail},
		{matcher.TypePhone, detectPhone},
		{matcher.TypeDate, detectDate},
		{matcher.TypeBoolean, detectBoolean},
		{matcher.TypeInteger, detectInteger},
		{matcher.TypeFloat, detectFloat},
	}
}

// Classify infers the type of a column from its cells. Nulls are dropped
// and remaining values trimmed; an empty column is reported as a single
// format string column. Malformed values only lower match ratios.
func Classify(cells []table.Cell, opts Options) ClassifiedColumn {
	return ClassifyValues(CleanValues(cells), opts)
}

// ClassifyValues classifies already cleaned values.
func ClassifyValues(values []string, opts Options) ClassifiedColumn {
	opts = opts.normalized()
	if len(values) == 0 {
		return ClassifiedColumn{Type: matcher.TypeString, FormatCount: 1}
	}

	for _, d := range detectors() {
		signatures, accepted := d.detect(values, opts)
		if !accepted {
			continue
		}
		return ClassifiedColumn{Type: d.typ, FormatCount: countDistinct(signatures)}
	}

	return ClassifiedColumn{Type: matcher.TypeString, FormatCount: 1}
}

// ClassifyAll classifies every column of t independently, in column order.
func ClassifyAll(t *table.Table, opts Options) *orderedmap.OrderedMap[string, ClassifiedColumn] {
	result := orderedmap.NewOrderedMap[string, ClassifiedColumn]()
	for _, col := range t.Columns() {
		result.Set(col.Name, Classify(col.Cells, opts))
	}
	return result
}

// CleanValues drops null cells and returns the trimmed string form of the rest.
func CleanValues(cells []table.Cell) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if c.IsNull() {
			continue
		}
		out = append(out, c.Trimmed())
	}
	return out
}

func countDistinct(signatures []string) int {
	seen := make(map[string]struct{}, len(signatures))
	for _, s := range signatures {
		seen[s] = struct{}{}
	}
	if len(seen) < 1 {
		return 1
	}
	return len(seen)
}

func ratio(matched, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total)
}
