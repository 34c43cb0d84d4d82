package recurrence

import (
	"slices"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/models"
)

// Slot is one (date, time) pair destined to become a single task occurrence.
// Date is nil only for an undated one-off task; Time is nil when the template
// has no times of day.
type Slot struct {
	Date *calendar.Date
	Time *calendar.TimeOfDay
}

// Plan expands a template into the Cartesian product of its occurrence dates
// and times of day, ordered by date then time. An OccurrenceCap of zero uses
// the default cap. Every slot owns its Date and Time values.
func Plan(tmpl models.TaskTemplate) ([]Slot, error) {
	occurrenceCap := tmpl.OccurrenceCap
	if occurrenceCap == 0 {
		occurrenceCap = constants.DefaultOccurrenceCap
	}

	times := normalizeTimes(tmpl.TimesOfDay)

	if tmpl.AnchorDate == nil {
		if tmpl.Recurrence.Kind != models.RecurrenceNone && tmpl.Recurrence.Kind != "" {
			return nil, ErrAnchorRequired
		}
		return withTimes([]*calendar.Date{nil}, times), nil
	}

	dates, err := Expand(*tmpl.AnchorDate, tmpl.Recurrence, occurrenceCap)
	if err != nil {
		return nil, err
	}

	ptrs := make([]*calendar.Date, len(dates))
	for i := range dates {
		ptrs[i] = &dates[i]
	}
	return withTimes(ptrs, times), nil
}

func withTimes(dates []*calendar.Date, times []calendar.TimeOfDay) []Slot {
	slots := make([]Slot, 0, len(dates)*max(len(times), 1))
	for _, d := range dates {
		if len(times) == 0 {
			slots = append(slots, Slot{Date: cloneDate(d)})
			continue
		}
		for _, tod := range times {
			slots = append(slots, Slot{Date: cloneDate(d), Time: &tod})
		}
	}
	return slots
}

func cloneDate(d *calendar.Date) *calendar.Date {
	if d == nil {
		return nil
	}
	c := *d
	return &c
}

// normalizeTimes returns a sorted copy of times without duplicates.
func normalizeTimes(times []calendar.TimeOfDay) []calendar.TimeOfDay {
	out := slices.Clone(times)
	slices.SortFunc(out, func(a, b calendar.TimeOfDay) int { return a.Compare(b) })
	return slices.Compact(out)
}
