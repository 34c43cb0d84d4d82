package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hearth/internal/calendar"
)

type RecurrenceKind string

const (
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceDaily   RecurrenceKind = "daily"
	RecurrenceWeekly  RecurrenceKind = "weekly"
	RecurrenceMonthly RecurrenceKind = "monthly"
	RecurrenceYearly  RecurrenceKind = "yearly"
)

// ParseRecurrenceKind rejects unknown kinds instead of defaulting. The empty
// string is treated as none.
func ParseRecurrenceKind(s string) (RecurrenceKind, error) {
	switch k := RecurrenceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case "":
		return RecurrenceNone, nil
	case RecurrenceNone, RecurrenceDaily, RecurrenceWeekly, RecurrenceMonthly, RecurrenceYearly:
		return k, nil
	default:
		return "", fmt.Errorf("unknown recurrence kind %q (expected none|daily|weekly|monthly|yearly)", s)
	}
}

// Status is the persisted task status. Overdue is never stored.
type Status string

const (
	StatusPending    Status = "pending"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

func ParseStatus(s string) (Status, error) {
	switch st := Status(strings.ToLower(strings.TrimSpace(s))); st {
	case StatusPending, StatusInProgress, StatusCompleted:
		return st, nil
	default:
		return "", fmt.Errorf("unknown task status %q (expected pending|in_progress|completed)", s)
	}
}

// EffectiveStatus is the status shown to users, derived at read time.
type EffectiveStatus string

const (
	EffectivePending    EffectiveStatus = "pending"
	EffectiveInProgress EffectiveStatus = "in_progress"
	EffectiveCompleted  EffectiveStatus = "completed"
	EffectiveOverdue    EffectiveStatus = "overdue"
)

// Rank orders effective statuses for list display: overdue first, completed last.
func (s EffectiveStatus) Rank() int {
	switch s {
	case EffectiveOverdue:
		return 0
	case EffectivePending:
		return 1
	case EffectiveInProgress:
		return 2
	case EffectiveCompleted:
		return 3
	default:
		return 4
	}
}

func (s EffectiveStatus) Label() string {
	switch s {
	case EffectiveOverdue:
		return "Overdue"
	case EffectivePending:
		return "Pending"
	case EffectiveInProgress:
		return "In progress"
	case EffectiveCompleted:
		return "Completed"
	default:
		return string(s)
	}
}

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// ParsePriority defaults the empty string to medium.
func ParsePriority(s string) (Priority, error) {
	switch p := Priority(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return PriorityMedium, nil
	case PriorityLow, PriorityMedium, PriorityHigh:
		return p, nil
	default:
		return "", fmt.Errorf("unknown priority %q (expected low|medium|high)", s)
	}
}

type Recurrence struct {
	Kind     RecurrenceKind `json:"kind" validate:"omitempty,oneof=none daily weekly monthly yearly"`
	Weekdays []time.Weekday `json:"weekdays,omitempty" validate:"dive,gte=0,lte=6"`
	Until    *calendar.Date `json:"until,omitempty"`
}

// Task is one concrete, persisted task occurrence.
type Task struct {
	ID          string              `json:"id"`
	FamilyID    string              `json:"family_id"`
	SeriesID    string              `json:"series_id,omitempty"`
	CategoryID  string              `json:"category_id,omitempty"`
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	DueDate     *calendar.Date      `json:"due_date,omitempty"`
	DueTime     *calendar.TimeOfDay `json:"due_time,omitempty"`
	Recurrence  RecurrenceKind      `json:"recurrence"`
	Priority    Priority            `json:"priority"`
	Status      Status              `json:"status"`
	CompletedBy string              `json:"completed_by,omitempty"`
	CompletedAt *time.Time          `json:"completed_at,omitempty"`
	CreatedBy   string              `json:"created_by,omitempty"`
	CreatedAt   time.Time           `json:"created_at"`
	UpdatedAt   time.Time           `json:"updated_at"`
}

// DueDateString returns the due date or "" when the task is undated.
func (t Task) DueDateString() string {
	if t.DueDate == nil {
		return ""
	}
	return t.DueDate.String()
}

// DueTimeString returns the due time or "" when none is set.
func (t Task) DueTimeString() string {
	if t.DueTime == nil {
		return ""
	}
	return t.DueTime.String()
}

// Assignment links a task occurrence to one family member.
type Assignment struct {
	TaskID     string    `json:"task_id"`
	MemberID   string    `json:"member_id"`
	AssignedAt time.Time `json:"assigned_at"`
}

// TaskTemplate is the user-entered intent before recurrence expansion. It is
// never persisted.
type TaskTemplate struct {
	FamilyID          string `validate:"required"`
	SeriesID          string `validate:"omitempty,uuid"`
	Title             string `validate:"required,max=200"`
	Description       string `validate:"max=2000"`
	AnchorDate        *calendar.Date
	TimesOfDay        []calendar.TimeOfDay
	Recurrence        Recurrence
	Priority          Priority `validate:"omitempty,oneof=low medium high"`
	AssignedMemberIDs []string `validate:"dive,required"`
	CategoryID        string
	CreatedBy         string
	OccurrenceCap     int `validate:"gte=0,lte=1000"`
}

// Validate checks field constraints. It does not expand the recurrence.
func (t *TaskTemplate) Validate() error {
	if err := validate.Struct(t); err != nil {
		return formatValidationError("task", err)
	}
	if t.AnchorDate != nil && !t.AnchorDate.IsValid() {
		return fmt.Errorf("%w: anchor %s", calendar.ErrInvalidDate, t.AnchorDate)
	}
	for _, tod := range t.TimesOfDay {
		if !tod.IsValid() {
			return fmt.Errorf("%w: %s", calendar.ErrInvalidTime, tod)
		}
	}
	if len(t.TimesOfDay) > 0 && t.AnchorDate == nil {
		return errors.New("a due time needs a due date")
	}
	if t.Recurrence.Kind != RecurrenceWeekly && len(t.Recurrence.Weekdays) > 0 {
		return fmt.Errorf("weekdays are only meaningful for weekly recurrence")
	}
	if u := t.Recurrence.Until; u != nil {
		if !u.IsValid() {
			return fmt.Errorf("%w: until %s", calendar.ErrInvalidDate, u)
		}
		if t.AnchorDate != nil && u.Before(*t.AnchorDate) {
			return fmt.Errorf("recurrence end %s is before the start date %s", u, t.AnchorDate)
		}
	}
	return nil
}
