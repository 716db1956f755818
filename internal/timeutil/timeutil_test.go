package timeutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		name  string
		value string
		want  time.Time
	}{
		{"rfc3339", "2025-03-01T18:30:00Z", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"rfc3339 nano", "2025-03-01T18:30:00.123456789Z", time.Date(2025, 3, 1, 18, 30, 0, 123456789, time.UTC)},
		{"rfc3339 offset", "2025-03-01T20:30:00+02:00", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"no offset", "2025-03-01T18:30:00", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"space separator", "2025-03-01 18:30:00", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
		{"date only", "2025-03-01", time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)},
		{"surrounding whitespace", "  2025-03-01T18:30:00Z  ", time.Date(2025, 3, 1, 18, 30, 0, 0, time.UTC)},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseTimestamp(tc.value)
			if err != nil {
				t.Fatalf("ParseTimestamp(%q) returned error: %v", tc.value, err)
			}
			if !got.Equal(tc.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tc.value, got, tc.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTimestamp(%q) location = %v, want UTC", tc.value, got.Location())
			}
		})
	}
}

func TestParseTimestampUnparseable(t *testing.T) {
	for _, value := range []string{"", "   ", "not-a-time", "01/03/2025", "1717171717"} {
		if _, err := ParseTimestamp(value); !errors.Is(err, ErrUnparseable) {
			t.Errorf("ParseTimestamp(%q) error = %v, want ErrUnparseable", value, err)
		}
	}
}
