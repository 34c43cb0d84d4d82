package scheduler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/filter"
	"github.com/julianstephens/hearth/internal/logger"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/realtime"
	"github.com/julianstephens/hearth/internal/recurrence"
	"github.com/julianstephens/hearth/internal/status"
	"github.com/julianstephens/hearth/internal/storage"
)

// Result reports what a Schedule call wrote.
type Result struct {
	SeriesID string
	Intended int
	Created  int
	// Skipped counts occurrences that already existed from an earlier run
	// with the same series id.
	Skipped int
	Failed  int
	TaskIDs []string
}

// Schedule validates and expands a template, then stores one task per
// (date, time) slot together with its assignments. Each slot is written
// independently, so a failure leaves earlier slots in place and returns
// ErrPartialWrite with the counts filled in.
func (s *Scheduler) Schedule(tmpl models.TaskTemplate) (Result, error) {
	if err := tmpl.Validate(); err != nil {
		return Result{}, err
	}
	if err := s.authorize(tmpl.CreatedBy, tmpl.FamilyID, canEditTasks); err != nil {
		return Result{}, err
	}
	if err := s.checkMembers(tmpl.FamilyID, tmpl.AssignedMemberIDs); err != nil {
		return Result{}, err
	}

	slots, err := recurrence.Plan(tmpl)
	if err != nil {
		return Result{}, err
	}
	if len(slots) == 0 {
		return Result{}, ErrNoOccurrences
	}

	if tmpl.SeriesID == "" {
		tmpl.SeriesID = s.newID()
	}
	priority := tmpl.Priority
	if priority == "" {
		priority = models.PriorityMedium
	}
	kind := tmpl.Recurrence.Kind
	if kind == "" {
		kind = models.RecurrenceNone
	}

	res := Result{SeriesID: tmpl.SeriesID, Intended: len(slots)}
	now := s.now()
	var firstErr error

	for _, slot := range slots {
		task := models.Task{
			ID:          s.newID(),
			FamilyID:    tmpl.FamilyID,
			SeriesID:    tmpl.SeriesID,
			CategoryID:  tmpl.CategoryID,
			Title:       strings.TrimSpace(tmpl.Title),
			Description: tmpl.Description,
			DueDate:     slot.Date,
			DueTime:     slot.Time,
			Recurrence:  kind,
			Priority:    priority,
			Status:      models.StatusPending,
			CreatedBy:   tmpl.CreatedBy,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		created, err := s.store.CreateTask(task, tmpl.AssignedMemberIDs)
		switch {
		case err != nil:
			res.Failed++
			if firstErr == nil {
				firstErr = err
			}
			logger.Error("Failed to store occurrence", "series", tmpl.SeriesID, "due", task.DueDateString(), "error", err)
		case created:
			res.Created++
			res.TaskIDs = append(res.TaskIDs, task.ID)
		default:
			res.Skipped++
		}
	}

	logger.Info("Scheduled task", "series", res.SeriesID, "intended", res.Intended,
		"created", res.Created, "skipped", res.Skipped, "failed", res.Failed)

	if res.Created > 0 {
		s.publish(tmpl.FamilyID, "tasks", realtime.OpInsert)
	}
	if res.Failed > 0 {
		return res, fmt.Errorf("%w: %d of %d failed: %v", ErrPartialWrite, res.Failed, res.Intended, firstErr)
	}
	return res, nil
}

// TaskEdit lists the fields to change on one occurrence. Nil pointers leave
// a field alone. Edits never touch other occurrences of the series.
type TaskEdit struct {
	Title        *string
	Description  *string
	DueDate      *calendar.Date
	ClearDueDate bool
	DueTime      *calendar.TimeOfDay
	ClearDueTime bool
	Priority     *models.Priority
	CategoryID   *string
	// Assignees, when non-nil, replaces the assignment set. An empty
	// non-nil slice unassigns everyone.
	Assignees []string
}

func (e TaskEdit) apply(t *models.Task) error {
	if e.Title != nil {
		title := strings.TrimSpace(*e.Title)
		if title == "" {
			return errors.New("title cannot be empty")
		}
		if len(title) > 200 {
			return errors.New("title must be at most 200 characters")
		}
		t.Title = title
	}
	if e.Description != nil {
		t.Description = *e.Description
	}
	if e.ClearDueDate {
		t.DueDate = nil
		t.DueTime = nil
	}
	if e.DueDate != nil {
		if !e.DueDate.IsValid() {
			return fmt.Errorf("%w: %s", calendar.ErrInvalidDate, e.DueDate)
		}
		d := *e.DueDate
		t.DueDate = &d
	}
	if e.ClearDueTime {
		t.DueTime = nil
	}
	if e.DueTime != nil {
		if !e.DueTime.IsValid() {
			return fmt.Errorf("%w: %s", calendar.ErrInvalidTime, e.DueTime)
		}
		tod := *e.DueTime
		t.DueTime = &tod
	}
	if t.DueTime != nil && t.DueDate == nil {
		return errors.New("a due time needs a due date")
	}
	if e.Priority != nil {
		p, err := models.ParsePriority(string(*e.Priority))
		if err != nil {
			return err
		}
		t.Priority = p
	}
	if e.CategoryID != nil {
		t.CategoryID = *e.CategoryID
	}
	return nil
}

// Edit changes a single occurrence and, when edit.Assignees is set, replaces
// its assignments in the same transaction.
func (s *Scheduler) Edit(actorID, taskID string, edit TaskEdit) (models.Task, error) {
	task, err := s.store.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.authorize(actorID, task.FamilyID, canEditTasks); err != nil {
		return models.Task{}, err
	}
	if err := edit.apply(&task); err != nil {
		return models.Task{}, err
	}
	task.UpdatedAt = s.now()

	if edit.Assignees != nil {
		if err := s.checkMembers(task.FamilyID, edit.Assignees); err != nil {
			return models.Task{}, err
		}
		err = s.store.UpdateTaskWithAssignments(task, edit.Assignees)
	} else {
		err = s.store.UpdateTask(task)
	}
	if err != nil {
		return models.Task{}, err
	}

	s.publish(task.FamilyID, "tasks", realtime.OpUpdate)
	return task, nil
}

func (s *Scheduler) transition(actorID, taskID string, fn func(*models.Task) error) (models.Task, error) {
	task, err := s.store.GetTask(taskID)
	if err != nil {
		return models.Task{}, err
	}
	if err := s.authorize(actorID, task.FamilyID, canEditTasks); err != nil {
		return models.Task{}, err
	}
	if err := fn(&task); err != nil {
		return models.Task{}, err
	}
	if err := s.store.UpdateTask(task); err != nil {
		return models.Task{}, err
	}
	s.publish(task.FamilyID, "tasks", realtime.OpUpdate)
	return task, nil
}

func (s *Scheduler) Start(actorID, taskID string) (models.Task, error) {
	return s.transition(actorID, taskID, func(t *models.Task) error {
		return status.Start(t, s.now())
	})
}

// Complete marks the task done, recording actorID as the completer.
func (s *Scheduler) Complete(actorID, taskID string) (models.Task, error) {
	return s.transition(actorID, taskID, func(t *models.Task) error {
		return status.Complete(t, actorID, s.now())
	})
}

func (s *Scheduler) Reopen(actorID, taskID string) (models.Task, error) {
	return s.transition(actorID, taskID, func(t *models.Task) error {
		return status.Reopen(t, s.now())
	})
}

func (s *Scheduler) Toggle(actorID, taskID string) (models.Task, error) {
	return s.transition(actorID, taskID, func(t *models.Task) error {
		return status.Toggle(t, actorID, s.now())
	})
}

// Delete removes one occurrence and its assignments.
func (s *Scheduler) Delete(actorID, taskID string) error {
	task, err := s.store.GetTask(taskID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, task.FamilyID, canEditTasks); err != nil {
		return err
	}
	if err := s.store.DeleteTask(taskID); err != nil {
		return err
	}
	s.publish(task.FamilyID, "tasks", realtime.OpDelete)
	return nil
}

// List returns the family's tasks with their effective status, filtered by
// c and sorted for display.
func (s *Scheduler) List(familyID string, c filter.Criteria) ([]status.View, error) {
	tasks, err := s.store.ListTasks(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load tasks: %w", err)
	}
	assignments, err := s.store.ListAssignments(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to load assignments: %w", err)
	}

	now := s.now()
	views := status.NewViews(tasks, storage.AssigneesByTask(assignments), now)
	views = filter.Apply(views, c, calendar.FromTime(now))
	status.Sort(views)
	return views, nil
}
