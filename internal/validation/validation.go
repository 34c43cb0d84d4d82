// Package validation checks stored family data for inconsistencies that the
// schema alone cannot prevent.
package validation

import (
	"fmt"
	"strings"

	"github.com/julianstephens/hearth/internal/models"
)

type ConflictType string

const (
	ConflictMissingTaskID      ConflictType = "missing_task_id"
	ConflictDuplicateSlot      ConflictType = "duplicate_slot"
	ConflictTimeWithoutDate    ConflictType = "time_without_date"
	ConflictInvalidStatus      ConflictType = "invalid_status"
	ConflictCompletionMismatch ConflictType = "completion_mismatch"
	ConflictUnknownCategory    ConflictType = "unknown_category"
	ConflictUnknownAssignee    ConflictType = "unknown_assignee"
	ConflictOwnerCount         ConflictType = "owner_count"
)

type Conflict struct {
	Type        ConflictType
	Description string
	TaskIDs     []string
}

type Result struct {
	Conflicts []Conflict
}

func (r Result) HasConflicts() bool {
	return len(r.Conflicts) > 0
}

func (r *Result) add(t ConflictType, taskIDs []string, format string, args ...any) {
	r.Conflicts = append(r.Conflicts, Conflict{
		Type:        t,
		Description: fmt.Sprintf(format, args...),
		TaskIDs:     taskIDs,
	})
}

func (r Result) FormatReport() string {
	if !r.HasConflicts() {
		return "No conflicts found."
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "Found %d conflict(s):\n", len(r.Conflicts))
	for i, c := range r.Conflicts {
		fmt.Fprintf(&sb, "  %d. [%s] %s\n", i+1, c.Type, c.Description)
	}
	return sb.String()
}

// Input is one family's stored data.
type Input struct {
	Tasks       []models.Task
	Assignments []models.Assignment
	Members     []models.Member
	Categories  []models.Category
}

type Validator struct{}

func New() *Validator {
	return &Validator{}
}

func (v *Validator) Validate(in Input) Result {
	var r Result
	v.checkMembers(in.Members, &r)
	v.checkTasks(in, &r)
	v.checkAssignments(in, &r)
	return r
}

func (v *Validator) checkMembers(members []models.Member, r *Result) {
	if len(members) == 0 {
		return
	}
	owners := 0
	for _, m := range members {
		if m.Role == models.RoleOwner {
			owners++
		}
	}
	if owners != 1 {
		r.add(ConflictOwnerCount, nil, "family has %d owners, expected exactly one", owners)
	}
}

func (v *Validator) checkTasks(in Input, r *Result) {
	categories := make(map[string]bool, len(in.Categories))
	for _, c := range in.Categories {
		categories[c.ID] = true
	}

	slots := make(map[string]string)
	for _, t := range in.Tasks {
		if t.ID == "" {
			r.add(ConflictMissingTaskID, nil, "task %q has no ID", t.Title)
			continue
		}
		ids := []string{t.ID}

		if t.SeriesID != "" {
			key := t.SeriesID + "|" + t.DueDateString() + "|" + t.DueTimeString()
			if other, ok := slots[key]; ok {
				r.add(ConflictDuplicateSlot, []string{other, t.ID},
					"%q occurs twice on %s %s", t.Title, t.DueDateString(), t.DueTimeString())
			} else {
				slots[key] = t.ID
			}
		}

		if t.DueTime != nil && t.DueDate == nil {
			r.add(ConflictTimeWithoutDate, ids, "%q has a due time but no due date", t.Title)
		}

		if _, err := models.ParseStatus(string(t.Status)); err != nil {
			r.add(ConflictInvalidStatus, ids, "%q: %v", t.Title, err)
		}

		completed := t.Status == models.StatusCompleted
		if completed != (t.CompletedAt != nil) {
			r.add(ConflictCompletionMismatch, ids,
				"%q is %s but completion time is %s", t.Title, t.Status, describeSet(t.CompletedAt != nil))
		}

		if t.CategoryID != "" && !categories[t.CategoryID] {
			r.add(ConflictUnknownCategory, ids, "%q refers to missing category %s", t.Title, t.CategoryID)
		}
	}
}

func (v *Validator) checkAssignments(in Input, r *Result) {
	members := make(map[string]bool, len(in.Members))
	for _, m := range in.Members {
		members[m.ID] = true
	}
	for _, a := range in.Assignments {
		if !members[a.MemberID] {
			r.add(ConflictUnknownAssignee, []string{a.TaskID},
				"task %s is assigned to %s, who is not in the family", a.TaskID, a.MemberID)
		}
	}
}

func describeSet(set bool) string {
	if set {
		return "set"
	}
	return "missing"
}
