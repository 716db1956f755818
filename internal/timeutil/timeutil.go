package timeutil

import (
	"errors"
	"strings"
	"time"
)

// ErrUnparseable reports a timestamp no known layout could parse.
var ErrUnparseable = errors.New("timeutil: unparseable timestamp")

// Layouts providers have been observed to use for scheduled times.
var layouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// ParseTimestamp parses an upstream scheduled-time string, trying a small
// set of layouts. Layouts without an offset are interpreted as UTC.
func ParseTimestamp(value string) (time.Time, error) {
	v := strings.TrimSpace(value)
	if v == "" {
		return time.Time{}, ErrUnparseable
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, v); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, ErrUnparseable
}
