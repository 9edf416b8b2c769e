package classifier

import (
	"github.com/dbsmedya/dqprofile/internal/matcher"
)

// matchWith applies a predicate and signature function to every value and
// accepts the family when the match ratio clears the threshold.
func matchWith(values []string, threshold float64, match func(string) bool, signature func(string) string) ([]string, bool) {
	var signatures []string
	for _, v := range values {
		if match(v) {
			signatures = append(signatures, signature(v))
		}
	}
	if ratio(len(signatures), len(values)) < threshold {
		return nil, false
	}
	return signatures, true
}

func detectURL(values []string, opts Options) ([]string, bool) {
	return matchWith(values, opts.Threshold, matcher.IsURL, matcher.URLSignature)
}

// Email layout variation is not reported, so every match shares one signature.
func detectEmail(values []string, opts Options) ([]string, bool) {
	return matchWith(values, opts.Threshold, matcher.IsEmail, func(string) string { return "email" })
}

// detectPhone requires both the shape ratio and the validity ratio among
// shaped values to clear the threshold.
func detectPhone(values []string, opts Options) ([]string, bool) {
	validator := matcher.NewPhoneValidator(opts.PhoneRegion)

	plausible := 0
	var signatures []string
	for _, v := range values {
		if !matcher.IsPlausiblePhone(v) {
			continue
		}
		plausible++
		if validator.IsValid(v) {
			signatures = append(signatures, matcher.PhoneSignature(v))
		}
	}

	if ratio(plausible, len(values)) < opts.Threshold {
		return nil, false
	}
	if ratio(len(signatures), plausible) < opts.Threshold {
		return nil, false
	}
	return signatures, true
}

// detectDate picks the covering layout with the highest parse count. The
// values it parses form the matching subset; each is fingerprinted by the
// first layout that parses it.
func detectDate(values []string, opts Options) ([]string, bool) {
	layouts := matcher.DateLayouts()

	best := -1
	bestCount := 0
	var bestMask []bool
	for i, layout := range layouts {
		mask := make([]bool, len(values))
		count := 0
		for j, v := range values {
			if _, ok := matcher.ParseDate(v, layout); ok {
				mask[j] = true
				count++
			}
		}
		if ratio(count, len(values)) < opts.Threshold {
			continue
		}
		if count > bestCount {
			best, bestCount, bestMask = i, count, mask
		}
	}
	if best < 0 {
		return nil, false
	}

	signatures := make([]string, 0, bestCount)
	for j, v := range values {
		if !bestMask[j] {
			continue
		}
		if sig, ok := matcher.DateSignature(v, layouts); ok {
			signatures = append(signatures, sig)
		}
	}
	return signatures, true
}

func detectBoolean(values []string, opts Options) ([]string, bool) {
	return matchWith(values, opts.Threshold, matcher.IsBoolean, matcher.BooleanSignature)
}

func detectInteger(values []string, opts Options) ([]string, bool) {
	return matchWith(values, opts.Threshold, matcher.IsInteger, matcher.IntegerSignature)
}

func detectFloat(values []string, opts Options) ([]string, bool) {
	return matchWith(values, opts.Threshold, matcher.IsFloat, matcher.FloatSignature)
}
