package status

import (
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/hearth/internal/models"
)

var ErrInvalidTransition = errors.New("invalid status transition")

// Start moves a pending task to in progress.
func Start(task *models.Task, now time.Time) error {
	if task.Status != models.StatusPending {
		return fmt.Errorf("%w: cannot start a %s task", ErrInvalidTransition, task.Status)
	}
	task.Status = models.StatusInProgress
	task.UpdatedAt = now
	return nil
}

// Complete marks a pending or in-progress task as done by actorID.
func Complete(task *models.Task, actorID string, now time.Time) error {
	if task.Status == models.StatusCompleted {
		return fmt.Errorf("%w: task is already completed", ErrInvalidTransition)
	}
	task.Status = models.StatusCompleted
	task.CompletedBy = actorID
	at := now
	task.CompletedAt = &at
	task.UpdatedAt = now
	return nil
}

// Reopen returns a completed task to pending and clears who completed it.
func Reopen(task *models.Task, now time.Time) error {
	if task.Status != models.StatusCompleted {
		return fmt.Errorf("%w: cannot reopen a %s task", ErrInvalidTransition, task.Status)
	}
	task.Status = models.StatusPending
	task.CompletedBy = ""
	task.CompletedAt = nil
	task.UpdatedAt = now
	return nil
}

// Toggle completes an open task or reopens a completed one.
func Toggle(task *models.Task, actorID string, now time.Time) error {
	if task.Status == models.StatusCompleted {
		return Reopen(task, now)
	}
	return Complete(task, actorID, now)
}
