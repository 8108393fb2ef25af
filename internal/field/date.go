package field

import (
	"strings"
	"time"
)

// DateLayout is the only date form FatturaPA accepts.
const DateLayout = "2006-01-02"

var dateLayouts = []string{
	DateLayout,
	time.RFC3339,
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006/01/02",
	"02/01/2006", // Italian day-first forms
	"02-01-2006",
	"02.01.2006",
	"2/1/2006",
	"2 January 2006",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseDate tries the known layouts in order.
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// DateOrNow renders s as YYYY-MM-DD, falling back to now when s is absent or
// unparsable. Used by the XML exporter.
func DateOrNow(s string, now time.Time) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return now.Format(DateLayout)
}

// DateOrInput renders s as YYYY-MM-DD when it parses and returns it unchanged
// otherwise. Used by the JSON exporter.
func DateOrInput(s string) string {
	if t, ok := ParseDate(s); ok {
		return t.Format(DateLayout)
	}
	return s
}
