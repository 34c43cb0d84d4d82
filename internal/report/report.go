// Package report aggregates a month of task occurrences into completion
// statistics per family, member, category and priority.
package report

import (
	"cmp"
	"math"
	"slices"
	"time"

	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/status"
)

type MemberStats struct {
	Member    models.Member `json:"member"`
	Total     int           `json:"total"`
	Completed int           `json:"completed"`
	Rate      int           `json:"rate"`
}

type CategoryStats struct {
	Category  models.Category `json:"category"`
	Total     int             `json:"total"`
	Completed int             `json:"completed"`
	Rate      int             `json:"rate"`
}

type Report struct {
	Year           int                            `json:"year"`
	Month          time.Month                     `json:"month"`
	Total          int                            `json:"total"`
	Completed      int                            `json:"completed"`
	Overdue        int                            `json:"overdue"`
	Pending        int                            `json:"pending"`
	CompletionRate int                            `json:"completion_rate"`
	ByStatus       map[models.EffectiveStatus]int `json:"by_status"`
	Members        []MemberStats                  `json:"members"`
	Categories     []CategoryStats                `json:"categories"`
	Priorities     map[models.Priority]int        `json:"priorities"`
}

// Input is everything a report is computed from. Tasks may span any range;
// only those due in the requested month are counted.
type Input struct {
	Tasks       []models.Task
	Assignments []models.Assignment
	Members     []models.Member
	Categories  []models.Category
}

// Build computes the report for year/month as seen at now. Pending counts
// stored pending and in-progress tasks, so a task can be both pending and
// overdue.
func Build(in Input, year int, month time.Month, now time.Time) Report {
	r := Report{
		Year:       year,
		Month:      month,
		ByStatus:   make(map[models.EffectiveStatus]int),
		Priorities: make(map[models.Priority]int),
		Members:    []MemberStats{},
		Categories: []CategoryStats{},
	}

	inMonth := make(map[string]models.Task)
	for _, t := range in.Tasks {
		if t.DueDate == nil || !t.DueDate.InMonth(year, int(month)) {
			continue
		}
		inMonth[t.ID] = t

		r.Total++
		eff := status.Of(t, now)
		r.ByStatus[eff]++
		if eff == models.EffectiveOverdue {
			r.Overdue++
		}
		switch t.Status {
		case models.StatusCompleted:
			r.Completed++
		case models.StatusPending, models.StatusInProgress:
			r.Pending++
		}
		r.Priorities[t.Priority]++
	}
	r.CompletionRate = rate(r.Completed, r.Total)

	memberTasks := make(map[string]map[string]bool)
	for _, a := range in.Assignments {
		if _, ok := inMonth[a.TaskID]; !ok {
			continue
		}
		if memberTasks[a.MemberID] == nil {
			memberTasks[a.MemberID] = make(map[string]bool)
		}
		memberTasks[a.MemberID][a.TaskID] = true
	}

	for _, m := range in.Members {
		taskIDs := memberTasks[m.ID]
		if len(taskIDs) == 0 {
			continue
		}
		s := MemberStats{Member: m, Total: len(taskIDs)}
		for id := range taskIDs {
			if inMonth[id].Status == models.StatusCompleted {
				s.Completed++
			}
		}
		s.Rate = rate(s.Completed, s.Total)
		r.Members = append(r.Members, s)
	}
	slices.SortFunc(r.Members, func(a, b MemberStats) int {
		if c := cmp.Compare(b.Rate, a.Rate); c != 0 {
			return c
		}
		return cmp.Compare(a.Member.Name, b.Member.Name)
	})

	for _, c := range in.Categories {
		s := CategoryStats{Category: c}
		for _, t := range inMonth {
			if t.CategoryID != c.ID {
				continue
			}
			s.Total++
			if t.Status == models.StatusCompleted {
				s.Completed++
			}
		}
		if s.Total == 0 {
			continue
		}
		s.Rate = rate(s.Completed, s.Total)
		r.Categories = append(r.Categories, s)
	}
	slices.SortFunc(r.Categories, func(a, b CategoryStats) int {
		if c := cmp.Compare(b.Total, a.Total); c != 0 {
			return c
		}
		return cmp.Compare(a.Category.Name, b.Category.Name)
	})

	return r
}

// rate is completed/total as a rounded percentage, 0 when total is 0.
func rate(completed, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(completed) / float64(total) * 100))
}
