package matcher

import (
	"regexp"
	"time"
)

// DateLayout pairs a printable format name with the Go layout that parses it.
type DateLayout struct {
	Name   string
	Layout string
}

// DateLayouts returns the explicit date and datetime layouts tried, in order.
// When several layouts parse a value, the earliest one names its format.
func DateLayouts() []DateLayout {
	return []DateLayout{
		// ISO
		{"%Y-%m-%d", "2006-1-2"},
		{"%Y-%m-%d %H:%M:%S", "2006-1-2 15:4:5"},
		{"%Y-%m-%dT%H:%M:%S", "2006-1-2T15:4:5"},
		{"%Y-%m-%d %H:%M", "2006-1-2 15:4"},
		{"%Y-%m-%dT%H:%M", "2006-1-2T15:4"},
		// US
		{"%m/%d/%Y", "1/2/2006"},
		{"%m/%d/%Y %H:%M:%S", "1/2/2006 15:4:5"},
		{"%m/%d/%Y %H:%M", "1/2/2006 15:4"},
		{"%m-%d-%Y", "1-2-2006"},
		{"%m-%d-%Y %H:%M:%S", "1-2-2006 15:4:5"},
		{"%m-%d-%Y %H:%M", "1-2-2006 15:4"},
		// European
		{"%d/%m/%Y", "2/1/2006"},
		{"%d/%m/%Y %H:%M:%S", "2/1/2006 15:4:5"},
		{"%d/%m/%Y %H:%M", "2/1/2006 15:4"},
		{"%d-%m-%Y", "2-1-2006"},
		{"%d-%m-%Y %H:%M:%S", "2-1-2006 15:4:5"},
		{"%d-%m-%Y %H:%M", "2-1-2006 15:4"},
		// Year first with slashes
		{"%Y/%m/%d", "2006/1/2"},
		{"%Y/%m/%d %H:%M:%S", "2006/1/2 15:4:5"},
		{"%Y/%m/%d %H:%M", "2006/1/2 15:4"},
		// Compact
		{"%Y%m%d", "20060102"},
		{"%m%d%Y", "01022006"},
		{"%d%m%Y", "02012006"},
		// Month names
		{"%Y %b %d", "2006 Jan 2"},
		{"%Y %B %d", "2006 January 2"},
		{"%d %b %Y", "2 Jan 2006"},
		{"%d %B %Y", "2 January 2006"},
		// ISO with offset
		{"%Y-%m-%dT%H:%M:%S%z", "2006-1-2T15:4:5Z07:00"},
	}
}

// ParseDate parses s with a single layout.
func ParseDate(s string, layout DateLayout) (time.Time, bool) {
	t, err := time.Parse(layout.Layout, s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

var tzSuffix = regexp.MustCompile(`(?:Z|[+\-]\d{2}:\d{2})$`)

// HasTimezone reports whether s ends in a Z marker or a ±HH:MM offset.
func HasTimezone(s string) bool {
	return tzSuffix.MatchString(s)
}

// DateSignature returns the name of the first layout in layouts that parses s,
// suffixed with "|tz" when s carries a timezone marker. ok is false when no
// layout parses s.
func DateSignature(s string, layouts []DateLayout) (signature string, ok bool) {
	for _, layout := range layouts {
		if _, parsed := ParseDate(s, layout); !parsed {
			continue
		}
		if HasTimezone(s) {
			return layout.Name + "|tz", true
		}
		return layout.Name, true
	}
	return "", false
}
