package storage

import (
	"fmt"
	"time"

	"github.com/julianstephens/hearth/internal/calendar"
)

// Both backends store dates, clock times and timestamps as TEXT, with the
// empty string meaning absent. These helpers convert at the column boundary.

// Timestamps are written in UTC with fixed-width fractions so that TEXT
// ordering matches chronological ordering.
const timestampLayout = "2006-01-02T15:04:05.000000000Z07:00"

func FormatDate(d *calendar.Date) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func ParseDate(s string) (*calendar.Date, error) {
	d, err := calendar.ParseDatePtr(s)
	if err != nil {
		return nil, fmt.Errorf("stored due date: %w", err)
	}
	return d, nil
}

func FormatTime(t *calendar.TimeOfDay) string {
	if t == nil {
		return ""
	}
	return t.String()
}

func ParseTime(s string) (*calendar.TimeOfDay, error) {
	t, err := calendar.ParseTimePtr(s)
	if err != nil {
		return nil, fmt.Errorf("stored due time: %w", err)
	}
	return t, nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(timestampLayout)
}

func ParseTimestamp(s string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("stored timestamp %q: %w", s, err)
	}
	return t.Local(), nil
}

func FormatOptionalTimestamp(t *time.Time) string {
	if t == nil {
		return ""
	}
	return FormatTimestamp(*t)
}

func ParseOptionalTimestamp(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := ParseTimestamp(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}
