package reconcile

import (
	"errors"
	"fmt"
)

// ErrInvariantViolation is returned when reconciled counts do not add up.
// It indicates a defect in the reconciliation logic, not bad input.
var ErrInvariantViolation = errors.New("reconciliation invariant violated")

// Verify checks that the buckets partition every row and that the
// correct-after count equals the number of populated destination values.
func Verify(stats *ComparisonStats, destinationPopulated int) error {
	sum := stats.BothEmpty + stats.Discarded + stats.Added + stats.Good + stats.Fixed
	if sum != stats.TotalRows {
		return fmt.Errorf("%w: %s -> %s: buckets sum to %d, table has %d rows",
			ErrInvariantViolation, stats.SourceColumn, stats.DestinationColumn, sum, stats.TotalRows)
	}

	after := stats.Good + stats.Fixed + stats.Added
	if after != destinationPopulated {
		return fmt.Errorf("%w: %s -> %s: good+fixed+added is %d, destination has %d populated values",
			ErrInvariantViolation, stats.SourceColumn, stats.DestinationColumn, after, destinationPopulated)
	}

	if stats.CorrectBefore != stats.Good || stats.CorrectAfter != after {
		return fmt.Errorf("%w: %s -> %s: correctness counts (%d, %d) disagree with buckets (%d, %d)",
			ErrInvariantViolation, stats.SourceColumn, stats.DestinationColumn,
			stats.CorrectBefore, stats.CorrectAfter, stats.Good, after)
	}
	return nil
}
