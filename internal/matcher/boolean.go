package matcher

import "strings"

// booleanFamilies maps each accepted token to its true/false pair family.
var booleanFamilies = map[string]string{
	"true":  "true_false",
	"false": "true_false",
	"yes":   "yes_no",
	"no":    "yes_no",
	"y":     "y_n",
	"n":     "y_n",
	"1":     "1_0",
	"0":     "1_0",
	"on":    "on_off",
	"off":   "on_off",
	"t":     "t_f",
	"f":     "t_f",
}

// IsBoolean reports whether s is one of the recognised boolean tokens, ignoring case.
func IsBoolean(s string) bool {
	_, ok := booleanFamilies[strings.ToLower(s)]
	return ok
}

// BooleanSignature returns the token pair family of s, or "unknown".
func BooleanSignature(s string) string {
	if family, ok := booleanFamilies[strings.ToLower(s)]; ok {
		return family
	}
	return "unknown"
}
