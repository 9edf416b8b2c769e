package reconcile

import (
	"github.com/dbsmedya/dqprofile/internal/classifier"
)

// Outcome is the category a single row falls into when its source and
// destination values are compared.
type Outcome int

const (
	// OutcomeBothEmpty means neither side has a value.
	OutcomeBothEmpty Outcome = iota
	// OutcomeDiscarded means the source value did not survive into the destination.
	OutcomeDiscarded
	// OutcomeAdded means the destination holds a value the source lacked.
	OutcomeAdded
	// OutcomeGood means both sides hold the same value.
	OutcomeGood
	// OutcomeFixed means both sides hold different values.
	OutcomeFixed
)

func (o Outcome) String() string {
	switch o {
	case OutcomeBothEmpty:
		return "both_empty"
	case OutcomeDiscarded:
		return "discarded"
	case OutcomeAdded:
		return "added"
	case OutcomeGood:
		return "good"
	case OutcomeFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Modifies reports whether a row with this outcome counts as modified.
func (o Outcome) Modifies() bool {
	return o == OutcomeDiscarded || o == OutcomeAdded || o == OutcomeFixed
}

// Compare categorizes one row. Values are compared by their trimmed string
// form; a blank value counts as missing.
func Compare(source, destination string, sourceHasValue, destinationHasValue bool) Outcome {
	switch {
	case sourceHasValue && !destinationHasValue:
		return OutcomeDiscarded
	case !sourceHasValue && destinationHasValue:
		return OutcomeAdded
	case sourceHasValue && destinationHasValue:
		if source == destination {
			return OutcomeGood
		}
		return OutcomeFixed
	default:
		return OutcomeBothEmpty
	}
}

// ComparisonStats is the outcome of reconciling one mapping.
type ComparisonStats struct {
	SourceColumn      string `json:"source_column"`
	DestinationColumn string `json:"destination_column"`

	// Applicable is false when the mapping could not be evaluated against
	// the table; every count is then zero.
	Applicable bool `json:"applicable"`

	TotalRows int `json:"total_rows"`
	BothEmpty int `json:"both_empty"`
	Discarded int `json:"discarded_invalid_data"`
	Added     int `json:"added_new_data"`
	Good      int `json:"good_data"`
	Fixed     int `json:"fixed_data"`

	CorrectBefore           int     `json:"correct_values_before"`
	CorrectAfter            int     `json:"correct_values_after"`
	CorrectPercentageBefore float64 `json:"correct_percentage_before"`
	CorrectPercentageAfter  float64 `json:"correct_percentage_after"`

	Source      classifier.ClassifiedColumn `json:"source"`
	Destination classifier.ClassifiedColumn `json:"destination"`
}

func (s *ComparisonStats) record(o Outcome) {
	switch o {
	case OutcomeBothEmpty:
		s.BothEmpty++
	case OutcomeDiscarded:
		s.Discarded++
	case OutcomeAdded:
		s.Added++
	case OutcomeGood:
		s.Good++
	case OutcomeFixed:
		s.Fixed++
	}
}

// finalize derives correctness counts and percentages from the buckets.
func (s *ComparisonStats) finalize() {
	s.CorrectBefore = s.Good
	s.CorrectAfter = s.Good + s.Fixed + s.Added
	s.CorrectPercentageBefore = percentage(s.CorrectBefore, s.TotalRows)
	s.CorrectPercentageAfter = percentage(s.CorrectAfter, s.TotalRows)
}

// Modified returns the number of rows this mapping changed.
func (s *ComparisonStats) Modified() int {
	return s.Discarded + s.Added + s.Fixed
}

func percentage(n, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(n) / float64(total) * 100
}
