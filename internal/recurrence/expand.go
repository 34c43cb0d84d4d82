// Package recurrence expands a task template into the concrete calendar
// dates that become individual task occurrences.
package recurrence

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/models"
)

// ErrAnchorRequired is returned when a recurring template has no start date.
var ErrAnchorRequired = errors.New("a start date is required for recurring tasks")

// Expand returns the ascending occurrence dates for a recurrence rule starting
// at anchor, at most occurrenceCap of them. A non-positive cap yields an empty
// sequence. The result depends only on its arguments.
func Expand(anchor calendar.Date, rule models.Recurrence, occurrenceCap int) ([]calendar.Date, error) {
	if !anchor.IsValid() {
		return nil, fmt.Errorf("%w: anchor %s", calendar.ErrInvalidDate, anchor)
	}
	if rule.Until != nil && !rule.Until.IsValid() {
		return nil, fmt.Errorf("%w: until %s", calendar.ErrInvalidDate, rule.Until)
	}
	if occurrenceCap <= 0 {
		return []calendar.Date{}, nil
	}

	var dates []calendar.Date
	switch rule.Kind {
	case models.RecurrenceNone, "":
		dates = []calendar.Date{anchor}
	case models.RecurrenceDaily:
		dates = everyNDays(anchor, 1, occurrenceCap)
	case models.RecurrenceWeekly:
		if len(rule.Weekdays) == 0 {
			// No weekdays selected: fixed 7-day step from the anchor.
			dates = everyNDays(anchor, 7, occurrenceCap)
		} else {
			dates = onWeekdays(anchor, rule.Weekdays, occurrenceCap)
		}
	case models.RecurrenceMonthly:
		dates = everyNMonths(anchor, 1, occurrenceCap)
	case models.RecurrenceYearly:
		dates = everyNMonths(anchor, 12, occurrenceCap)
	default:
		return nil, fmt.Errorf("unknown recurrence kind %q", rule.Kind)
	}

	if rule.Until != nil {
		dates = until(dates, *rule.Until)
	}
	return dates, nil
}

// Every generator stops early at the last representable date, so a series
// anchored near the end of the calendar is simply shorter than its cap.

func everyNDays(anchor calendar.Date, step, n int) []calendar.Date {
	dates := make([]calendar.Date, 0, n)
	for i := 0; i < n; i++ {
		d := anchor.AddDays(i * step)
		if !d.IsValid() {
			break
		}
		dates = append(dates, d)
	}
	return dates
}

// everyNMonths keeps the anchor's day of month, clamping to the last day of
// shorter months without carrying the clamp forward.
func everyNMonths(anchor calendar.Date, step, n int) []calendar.Date {
	dates := make([]calendar.Date, 0, n)
	for i := 0; i < n; i++ {
		d := anchor.AddMonthsClamped(i*step, anchor.Day)
		if !d.IsValid() {
			break
		}
		dates = append(dates, d)
	}
	return dates
}

// onWeekdays scans forward from the anchor (inclusive) collecting dates whose
// weekday is selected. The scan window is bounded so a cap that cannot be
// reached still terminates.
func onWeekdays(anchor calendar.Date, weekdays []time.Weekday, n int) []calendar.Date {
	var selected [7]bool
	for _, wd := range weekdays {
		if wd >= time.Sunday && wd <= time.Saturday {
			selected[wd] = true
		}
	}

	window := max(constants.WeeklyScanWindowDays, 7*n)
	dates := make([]calendar.Date, 0, n)
	for i := 0; i < window && len(dates) < n; i++ {
		d := anchor.AddDays(i)
		if !d.IsValid() {
			break
		}
		if selected[d.Weekday()] {
			dates = append(dates, d)
		}
	}
	return dates
}

func until(dates []calendar.Date, end calendar.Date) []calendar.Date {
	idx := slices.IndexFunc(dates, func(d calendar.Date) bool { return d.After(end) })
	if idx < 0 {
		return dates
	}
	return dates[:idx]
}
