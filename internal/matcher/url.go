package matcher

import (
	"net/url"
	"regexp"
	"strings"
)

var urlPattern = regexp.MustCompile(`(?i)^(?:https?://)?` + // optional scheme
	`(?:www\.)?` + // optional www
	`[a-z0-9][a-z0-9\-]*` + // domain start
	`(?:\.[a-z0-9\-]+)*` + // subdomains
	`\.[a-z]{2,}` + // TLD
	`(?:/[\w\-.~%!*'();:@&=+$,/?#]*)?$`) // optional path/query

// IsURL reports whether s looks like a web address.
func IsURL(s string) bool {
	return urlPattern.MatchString(s)
}

// URLSignature fingerprints a URL by scheme, www prefix and presence of a path.
func URLSignature(s string) string {
	lower := strings.ToLower(s)
	parts := make([]string, 0, 3)

	switch {
	case strings.HasPrefix(lower, "https://"):
		parts = append(parts, "scheme:https")
	case strings.HasPrefix(lower, "http://"):
		parts = append(parts, "scheme:http")
	default:
		parts = append(parts, "no_scheme")
		lower = "http://" + lower
	}

	u, err := url.Parse(lower)
	if err != nil {
		return "invalid"
	}

	if strings.HasPrefix(u.Host, "www.") {
		parts = append(parts, "www")
	} else {
		parts = append(parts, "no_www")
	}

	if (u.Path != "" && u.Path != "/") || u.RawQuery != "" || u.Fragment != "" {
		parts = append(parts, "has_path")
	} else {
		parts = append(parts, "no_path")
	}

	return joinSignature(parts)
}
