// Package filter narrows a resolved task list to a time window, member or
// category.
package filter

import (
	"fmt"
	"slices"
	"strings"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/status"
)

type Window string

const (
	WindowAll   Window = constants.FilterAll
	WindowToday Window = constants.FilterToday
	WindowWeek  Window = constants.FilterWeek
)

func ParseWindow(s string) (Window, error) {
	switch w := Window(strings.ToLower(strings.TrimSpace(s))); w {
	case "":
		return Window(constants.DefaultFilter), nil
	case WindowAll, WindowToday, WindowWeek:
		return w, nil
	default:
		return "", fmt.Errorf("unknown filter %q (expected all|today|week)", s)
	}
}

// Criteria selects which views to keep. Empty MemberID or CategoryID match
// everything. Status, when set, matches the effective status.
type Criteria struct {
	Window     Window
	MemberID   string
	CategoryID string
	Status     models.EffectiveStatus
}

// Apply returns the views matching c, preserving their order. Undated tasks
// only match the all window.
func Apply(views []status.View, c Criteria, today calendar.Date) []status.View {
	out := make([]status.View, 0, len(views))
	for _, v := range views {
		if Match(v, c, today) {
			out = append(out, v)
		}
	}
	return out
}

func Match(v status.View, c Criteria, today calendar.Date) bool {
	if !inWindow(v.Task.DueDate, c.Window, today) {
		return false
	}
	if c.MemberID != "" && !slices.Contains(v.Assignees, c.MemberID) {
		return false
	}
	if c.CategoryID != "" && v.Task.CategoryID != c.CategoryID {
		return false
	}
	if c.Status != "" && v.Effective != c.Status {
		return false
	}
	return true
}

func inWindow(due *calendar.Date, w Window, today calendar.Date) bool {
	switch w {
	case WindowAll, "":
		return true
	case WindowToday:
		return due != nil && due.Compare(today) == 0
	case WindowWeek:
		return due != nil && !due.Before(today) && due.Before(today.AddDays(7))
	default:
		return false
	}
}
