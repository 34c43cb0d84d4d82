// Package calendar provides civil dates and clock times that carry no
// timezone, so comparisons and arithmetic never shift across midnight.
package calendar

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/hearth/internal/constants"
)

var (
	// ErrInvalidDate is returned for malformed or out-of-range calendar dates.
	ErrInvalidDate = errors.New("invalid date")
	// ErrInvalidTime is returned for malformed or out-of-range clock times.
	ErrInvalidTime = errors.New("invalid time")
)

const (
	minYear = 1
	maxYear = 9999
)

// Date is a proleptic Gregorian calendar date with no time or location.
type Date struct {
	Year  int
	Month int // 1-12
	Day   int
}

// New returns the date for the given components, failing with ErrInvalidDate
// instead of normalizing out-of-range values.
func New(year, month, day int) (Date, error) {
	d := Date{Year: year, Month: month, Day: day}
	if !d.IsValid() {
		return Date{}, fmt.Errorf("%w: %04d-%02d-%02d", ErrInvalidDate, year, month, day)
	}
	return d, nil
}

// Parse parses a date in the standard format (YYYY-MM-DD).
func Parse(s string) (Date, error) {
	t, err := time.Parse(constants.DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q (expected YYYY-MM-DD)", ErrInvalidDate, s)
	}
	return New(t.Year(), int(t.Month()), t.Day())
}

// FromTime returns the local calendar date of t.
func FromTime(t time.Time) Date {
	return Date{Year: t.Year(), Month: int(t.Month()), Day: t.Day()}
}

// IsLeapYear reports whether year is a Gregorian leap year.
func IsLeapYear(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// DaysInMonth returns the number of days in the given month, or 0 if the
// month is out of range.
func DaysInMonth(year, month int) int {
	switch month {
	case 1, 3, 5, 7, 8, 10, 12:
		return 31
	case 4, 6, 9, 11:
		return 30
	case 2:
		if IsLeapYear(year) {
			return 29
		}
		return 28
	default:
		return 0
	}
}

func (d Date) IsValid() bool {
	if d.Year < minYear || d.Year > maxYear {
		return false
	}
	if d.Month < 1 || d.Month > 12 {
		return false
	}
	return d.Day >= 1 && d.Day <= DaysInMonth(d.Year, d.Month)
}

func (d Date) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.Year, d.Month, d.Day)
}

// Weekday computes the day of the week with Zeller's congruence
// (0=Sunday .. 6=Saturday). It does not consult time.Time.
func (d Date) Weekday() time.Weekday {
	q, m, y := d.Day, d.Month, d.Year
	if m < 3 {
		m += 12
		y--
	}
	k := y % 100
	j := y / 100
	// h: 0=Saturday, 1=Sunday, ..., 6=Friday
	h := (q + (13*(m+1))/5 + k + k/4 + j/4 + 5*j) % 7
	return time.Weekday((h + 6) % 7)
}

// AddDays returns the date n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return fromOrdinal(d.ordinal() + n)
}

// AddMonthsClamped returns the date n months after d on the given day of
// month, clamped to the last day of the target month.
func (d Date) AddMonthsClamped(n, day int) Date {
	idx := d.Year*12 + (d.Month - 1) + n
	year, month := idx/12, idx%12+1
	if last := DaysInMonth(year, month); day > last {
		day = last
	}
	return Date{Year: year, Month: month, Day: day}
}

// Compare returns -1, 0 or +1 depending on whether d is before, equal to or
// after o.
func (d Date) Compare(o Date) int {
	switch {
	case d.Year != o.Year:
		return sign(d.Year - o.Year)
	case d.Month != o.Month:
		return sign(d.Month - o.Month)
	default:
		return sign(d.Day - o.Day)
	}
}

func (d Date) Before(o Date) bool { return d.Compare(o) < 0 }
func (d Date) After(o Date) bool  { return d.Compare(o) > 0 }

// InMonth reports whether d falls in the given year and month.
func (d Date) InMonth(year, month int) bool {
	return d.Year == year && d.Month == month
}

func (d Date) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

func (d *Date) UnmarshalText(b []byte) error {
	parsed, err := Parse(string(b))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// ordinal returns the number of days since 1970-01-01.
func (d Date) ordinal() int {
	y, m := d.Year, d.Month
	if m <= 2 {
		y--
	}
	era := y / 400
	if y < 0 {
		era = (y - 399) / 400
	}
	yoe := y - era*400
	mp := m - 3
	if m <= 2 {
		mp = m + 9
	}
	doy := (153*mp+2)/5 + d.Day - 1
	doe := yoe*365 + yoe/4 - yoe/100 + doy
	return era*146097 + doe - 719468
}

func fromOrdinal(z int) Date {
	z += 719468
	era := z / 146097
	if z < 0 {
		era = (z - 146096) / 146097
	}
	doe := z - era*146097
	yoe := (doe - doe/1460 + doe/36524 - doe/146096) / 365
	y := yoe + era*400
	doy := doe - (365*yoe + yoe/4 - yoe/100)
	mp := (5*doy + 2) / 153
	day := doy - (153*mp+2)/5 + 1
	month := mp + 3
	if mp >= 10 {
		month = mp - 9
	}
	if month <= 2 {
		y++
	}
	return Date{Year: y, Month: month, Day: day}
}

func sign(n int) int {
	switch {
	case n < 0:
		return -1
	case n > 0:
		return 1
	default:
		return 0
	}
}
