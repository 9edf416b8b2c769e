package matcher

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// numericPattern accepts integers, decimals and scientific notation once
// thousands separators are removed.
var numericPattern = regexp.MustCompile(`^[+-]?(\d+(\.\d*)?|\.\d+)([eE][+-]?\d+)?$`)

var separatorStripper = strings.NewReplacer(",", "", "_", "")

// parseNumber strips thousands separators and parses a finite number.
func parseNumber(s string) (float64, bool) {
	cleaned := separatorStripper.Replace(s)
	if !numericPattern.MatchString(cleaned) {
		return 0, false
	}
	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, false
	}
	return f, true
}

// IsInteger reports whether s is a whole number, allowing "," and "_" separators.
func IsInteger(s string) bool {
	f, ok := parseNumber(s)
	return ok && math.Trunc(f) == f
}

// IsFloat reports whether s is a number with a fractional part.
func IsFloat(s string) bool {
	f, ok := parseNumber(s)
	return ok && math.Trunc(f) != f
}

// IntegerSignature reports which thousands separator s uses.
func IntegerSignature(s string) string {
	switch {
	case strings.Contains(s, ","):
		return "comma_separated"
	case strings.Contains(s, "_"):
		return "underscore_separated"
	default:
		return "plain"
	}
}

// FloatSignature combines separator style, decimal marker and exponent presence.
func FloatSignature(s string) string {
	var parts []string
	commaDecimal := false

	switch {
	case strings.Contains(s, ","):
		if strings.Contains(s, ".") && strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			parts = append(parts, "comma_thousands")
		} else {
			parts = append(parts, "comma_decimal")
			commaDecimal = true
		}
	case strings.Contains(s, "_"):
		parts = append(parts, "underscore_thousands")
	}

	if strings.Contains(s, ".") && !commaDecimal {
		parts = append(parts, "period_decimal")
	}

	if strings.ContainsAny(s, "eE") {
		parts = append(parts, "scientific")
	}

	if len(parts) == 0 {
		return "plain"
	}
	return joinSignature(parts)
}
