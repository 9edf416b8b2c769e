package matcher

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/nyaruka/phonenumbers"
)

// DefaultPhoneRegion is the region used to parse numbers without a country code.
const DefaultPhoneRegion = "US"

var phonePattern = regexp.MustCompile(`(?i)^(?:\+?\d{1,3})?` + // optional country code
	`(?:[\-.\s(]*\d{3}[\-.\s)]*)` + // area code
	`\d{3}[\-.\s]?\d{4}` + // subscriber number
	`(?:\s*(?:#|x|ext\.?)\s*\d+)?$`) // optional extension

// IsPlausiblePhone reports whether s has the shape of a phone number.
// Shape alone is not enough; see PhoneValidator.
func IsPlausiblePhone(s string) bool {
	return phonePattern.MatchString(s)
}

// PhoneValidator checks numbers against libphonenumber metadata.
type PhoneValidator struct {
	Region string
}

// NewPhoneValidator returns a validator for region, defaulting to DefaultPhoneRegion.
func NewPhoneValidator(region string) PhoneValidator {
	if region == "" {
		region = DefaultPhoneRegion
	}
	return PhoneValidator{Region: strings.ToUpper(region)}
}

// IsValid reports whether s parses to a number that is valid for its region.
// Parse failures are treated as invalid.
func (v PhoneValidator) IsValid(s string) bool {
	region := v.Region
	if region == "" {
		region = DefaultPhoneRegion
	}
	num, err := phonenumbers.Parse(s, region)
	if err != nil {
		return false
	}
	return phonenumbers.IsValidNumber(num)
}

// Matches reports whether s is both phone shaped and valid.
func (v PhoneValidator) Matches(s string) bool {
	return IsPlausiblePhone(s) && v.IsValid(s)
}

var phoneSeparators = []struct {
	char string
	name string
}{
	{"-", "dash"},
	{".", "dot"},
	{" ", "space"},
}

// PhoneSignature fingerprints a phone number by country prefix, parenthesised
// area code, separator characters with their total occurrences, and extension marker.
func PhoneSignature(s string) string {
	parts := make([]string, 0, 4)

	if strings.HasPrefix(s, "+") {
		parts = append(parts, "has_country")
	} else {
		parts = append(parts, "no_country")
	}

	if strings.Contains(s, "(") && strings.Contains(s, ")") {
		parts = append(parts, "area_parens")
	} else {
		parts = append(parts, "no_parens")
	}

	var names []string
	occurrences := 0
	for _, sep := range phoneSeparators {
		if n := strings.Count(s, sep.char); n > 0 {
			names = append(names, sep.name)
			occurrences += n
		}
	}
	if len(names) == 0 {
		parts = append(parts, "sep:none")
	} else {
		parts = append(parts, fmt.Sprintf("sep:%s:%d", strings.Join(names, "_"), occurrences))
	}

	lower := strings.ToLower(s)
	if strings.Contains(lower, "#") || strings.Contains(lower, "x") || strings.Contains(lower, "ext") {
		parts = append(parts, "has_ext")
	} else {
		parts = append(parts, "no_ext")
	}

	return joinSignature(parts)
}
