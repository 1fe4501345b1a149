// Package timeparse normalizes the heterogeneous textual timestamps found in
// XES exports into comparable time values.
package timeparse

import (
	"strings"
	"time"
)

// Layouts tried after RFC 3339, in order. The plain-date forms cover logs
// exported without a time component.
var fallbackLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"02-01-2006",
	"2006/01/02",
}

// Parse converts a raw textual timestamp into a time value. The boolean is
// false when the input is empty or matches no known layout; callers must
// treat that as the unparseable sentinel and never compare the zero time.
// Parse has no side effects and never panics.
func Parse(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	// Primary format: ISO-8601 with explicit offset or trailing Z.
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t, true
	}
	for _, layout := range fallbackLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
