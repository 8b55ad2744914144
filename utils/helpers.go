package utils

import (
	"strings"
	"time"
)

// TimestampLayout matches the naive UTC ISO-8601 form stored in the record
// collections, e.g. 2025-03-01T12:30:45.123456.
const TimestampLayout = "2006-01-02T15:04:05.000000"

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp accepts the stored form plus RFC3339 variants. Naive values
// are taken as UTC.
func ParseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// IsValidEmail is the deliberately loose lead check: non-empty and has an @.
func IsValidEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
