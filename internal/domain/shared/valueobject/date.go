package valueobject

import (
	"fmt"
	"strings"
	"time"
)

// DateLayout is the calendar date format used on the wire
const DateLayout = "2006-01-02"

// ParseDate accepts a calendar date ("2024-03-31") or an RFC 3339 timestamp
// and returns midnight UTC of that day
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(DateLayout, s); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
}

// ParseDatePtr parses an optional date; nil or blank input yields nil
func ParseDatePtr(s *string) (*time.Time, error) {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil, nil
	}
	t, err := ParseDate(*s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// EndOfDay returns the last instant of t's day
func EndOfDay(t time.Time) time.Time {
	return t.Add(24*time.Hour - time.Nanosecond)
}
