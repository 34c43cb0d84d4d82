package calendar

import (
	"errors"
	"testing"
	"time"
)

func TestWeekday_KnownDates(t *testing.T) {
	tests := []struct {
		date string
		want time.Weekday
	}{
		{"2025-01-01", time.Wednesday},
		{"2025-03-01", time.Saturday},
		{"2024-02-29", time.Thursday},
		{"2000-01-01", time.Saturday},
		{"1900-03-01", time.Thursday},
		{"2026-01-05", time.Monday},
		{"1970-01-01", time.Thursday},
	}

	for _, tt := range tests {
		t.Run(tt.date, func(t *testing.T) {
			d, err := Parse(tt.date)
			if err != nil {
				t.Fatalf("Parse(%q) error = %v", tt.date, err)
			}
			if got := d.Weekday(); got != tt.want {
				t.Errorf("Weekday() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeekday_MatchesGregorianCalendar(t *testing.T) {
	d := Date{Year: 1899, Month: 12, Day: 1}
	for i := 0; i < 365*3+60; i++ {
		ref := time.Date(d.Year, time.Month(d.Month), d.Day, 12, 0, 0, 0, time.UTC)
		if got := d.Weekday(); got != ref.Weekday() {
			t.Fatalf("%s: Weekday() = %v, want %v", d, got, ref.Weekday())
		}
		d = d.AddDays(1)
	}
}

func TestIsLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{2024, true},
		{2025, false},
		{1900, false},
		{2000, true},
		{2100, false},
	}

	for _, tt := range tests {
		if got := IsLeapYear(tt.year); got != tt.want {
			t.Errorf("IsLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestParse_RejectsInvalidDates(t *testing.T) {
	inputs := []string{"", "2025-02-29", "2025-13-01", "2025-00-10", "2025/01/15", "25-01-01", "2025-04-31"}
	for _, in := range inputs {
		if _, err := Parse(in); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidDate", in, err)
		}
	}
}

func TestNew_DoesNotClamp(t *testing.T) {
	if _, err := New(2025, 2, 30); !errors.Is(err, ErrInvalidDate) {
		t.Errorf("New(2025, 2, 30) error = %v, want ErrInvalidDate", err)
	}
	if _, err := New(2024, 2, 29); err != nil {
		t.Errorf("New(2024, 2, 29) unexpected error: %v", err)
	}
}

func TestAddDays(t *testing.T) {
	tests := []struct {
		start string
		n     int
		want  string
	}{
		{"2024-02-28", 1, "2024-02-29"},
		{"2024-02-29", 1, "2024-03-01"},
		{"2025-02-28", 1, "2025-03-01"},
		{"2025-12-31", 1, "2026-01-01"},
		{"2025-03-01", -1, "2025-02-28"},
		{"2025-01-01", 365, "2026-01-01"},
		{"2024-01-01", 366, "2025-01-01"},
	}

	for _, tt := range tests {
		d, _ := Parse(tt.start)
		if got := d.AddDays(tt.n).String(); got != tt.want {
			t.Errorf("%s.AddDays(%d) = %s, want %s", tt.start, tt.n, got, tt.want)
		}
	}
}

func TestAddMonthsClamped(t *testing.T) {
	anchor, _ := Parse("2025-01-31")
	tests := []struct {
		n    int
		want string
	}{
		{0, "2025-01-31"},
		{1, "2025-02-28"},
		{2, "2025-03-31"},
		{3, "2025-04-30"},
		{11, "2025-12-31"},
		{13, "2026-02-28"},
		{37, "2028-02-29"},
	}

	for _, tt := range tests {
		if got := anchor.AddMonthsClamped(tt.n, anchor.Day).String(); got != tt.want {
			t.Errorf("AddMonthsClamped(%d) = %s, want %s", tt.n, got, tt.want)
		}
	}
}

func TestCompare(t *testing.T) {
	a, _ := Parse("2025-03-01")
	b, _ := Parse("2025-03-02")

	if !a.Before(b) || a.After(b) {
		t.Errorf("expected %s before %s", a, b)
	}
	if a.Compare(a) != 0 {
		t.Errorf("Compare with itself = %d, want 0", a.Compare(a))
	}
	if (a.String() < b.String()) != a.Before(b) {
		t.Error("string order must agree with calendar order")
	}
}

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"08:00", "08:00", false},
		{"23:59", "23:59", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"8am", "", true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseTimeOfDay(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}
