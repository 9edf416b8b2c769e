package matcher

import "regexp"

var emailPattern = regexp.MustCompile(`(?i)^[a-z0-9._%+\-]+@[a-z0-9.\-]+\.[a-z]{2,}$`)

// IsEmail reports whether s is a plausible local@domain.tld address.
// Email columns always report a single format.
func IsEmail(s string) bool {
	return emailPattern.MatchString(s)
}
