// Package status derives the user-visible status of a task occurrence and
// applies the explicit status transitions.
package status

import (
	"fmt"
	"time"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/models"
)

// endOfDay is used when a dated task has no due time.
const endOfDay = "23:59:59"

// Clock supplies the current local time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// FixedClock always returns the same instant. Useful in tests and for
// rendering a report "as of" a given moment.
type FixedClock struct {
	At time.Time
}

func (c FixedClock) Now() time.Time { return c.At }

// Resolve returns the effective status of a task. A completed task is never
// overdue, and an undated task is never overdue. Otherwise the task is
// overdue once now is strictly after its deadline, where a missing due time
// means the end of the due day. Deadlines are local wall-clock times, so now
// is converted to the local zone before comparing.
func Resolve(stored models.Status, dueDate *calendar.Date, dueTime *calendar.TimeOfDay, now time.Time) models.EffectiveStatus {
	if stored == models.StatusCompleted {
		return models.EffectiveCompleted
	}
	if dueDate != nil && deadlineKey(*dueDate, dueTime) < nowKey(now) {
		return models.EffectiveOverdue
	}
	if stored == models.StatusInProgress {
		return models.EffectiveInProgress
	}
	return models.EffectivePending
}

// Of resolves the effective status of a stored task.
func Of(task models.Task, now time.Time) models.EffectiveStatus {
	return Resolve(task.Status, task.DueDate, task.DueTime, now)
}

// Keys are fixed-width "YYYY-MM-DD HH:MM:SS" strings, so lexical order is
// chronological order.
func deadlineKey(d calendar.Date, t *calendar.TimeOfDay) string {
	if t == nil {
		return d.String() + " " + endOfDay
	}
	return fmt.Sprintf("%s %02d:%02d:00", d, t.Hour, t.Minute)
}

func nowKey(now time.Time) string {
	return now.Local().Format(constants.DateFormat + " 15:04:05")
}
