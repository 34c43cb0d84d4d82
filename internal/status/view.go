package status

import (
	"slices"
	"strings"
	"time"

	"github.com/julianstephens/hearth/internal/models"
)

// View is a task decorated for display.
type View struct {
	Task      models.Task            `json:"task"`
	Effective models.EffectiveStatus `json:"effective_status"`
	Assignees []string               `json:"assignees,omitempty"`
}

// NewViews resolves the effective status of every task. assignees maps a
// task ID to its assigned member IDs and may be nil.
func NewViews(tasks []models.Task, assignees map[string][]string, now time.Time) []View {
	views := make([]View, 0, len(tasks))
	for _, t := range tasks {
		views = append(views, View{
			Task:      t,
			Effective: Of(t, now),
			Assignees: assignees[t.ID],
		})
	}
	return views
}

// Compare orders views by effective status (overdue first, completed last),
// then due date and time with undated and untimed entries last, then title
// and ID so the order is total.
func Compare(a, b View) int {
	if c := a.Effective.Rank() - b.Effective.Rank(); c != 0 {
		return c
	}

	switch {
	case a.Task.DueDate == nil && b.Task.DueDate != nil:
		return 1
	case a.Task.DueDate != nil && b.Task.DueDate == nil:
		return -1
	case a.Task.DueDate != nil:
		if c := a.Task.DueDate.Compare(*b.Task.DueDate); c != 0 {
			return c
		}
	}

	switch {
	case a.Task.DueTime == nil && b.Task.DueTime != nil:
		return 1
	case a.Task.DueTime != nil && b.Task.DueTime == nil:
		return -1
	case a.Task.DueTime != nil:
		if c := a.Task.DueTime.Compare(*b.Task.DueTime); c != 0 {
			return c
		}
	}

	if c := strings.Compare(a.Task.Title, b.Task.Title); c != 0 {
		return c
	}
	return strings.Compare(a.Task.ID, b.Task.ID)
}

func Less(a, b View) bool { return Compare(a, b) < 0 }

// Sort orders views in place using Compare.
func Sort(views []View) {
	slices.SortStableFunc(views, Compare)
}
