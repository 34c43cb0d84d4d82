package sqlite

import (
	"database/sql"
	"fmt"
	"slices"
	"time"

	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/storage"
)

const taskColumns = `id, family_id, series_id, category_id, title, description, due_date, due_time,
	recurrence, priority, status, completed_by, completed_at, created_by, created_at, updated_at`

func scanTask(row scanner) (models.Task, error) {
	var t models.Task
	var dueDate, dueTime, recurrence, priority, status, completedAt, createdAt, updatedAt string

	err := row.Scan(
		&t.ID, &t.FamilyID, &t.SeriesID, &t.CategoryID, &t.Title, &t.Description, &dueDate, &dueTime,
		&recurrence, &priority, &status, &t.CompletedBy, &completedAt, &t.CreatedBy, &createdAt, &updatedAt,
	)
	if err != nil {
		return models.Task{}, err
	}

	t.Recurrence = models.RecurrenceKind(recurrence)
	t.Priority = models.Priority(priority)
	t.Status = models.Status(status)

	if t.DueDate, err = storage.ParseDate(dueDate); err != nil {
		return models.Task{}, err
	}
	if t.DueTime, err = storage.ParseTime(dueTime); err != nil {
		return models.Task{}, err
	}
	if t.CompletedAt, err = storage.ParseOptionalTimestamp(completedAt); err != nil {
		return models.Task{}, err
	}
	if t.CreatedAt, err = storage.ParseTimestamp(createdAt); err != nil {
		return models.Task{}, err
	}
	if t.UpdatedAt, err = storage.ParseTimestamp(updatedAt); err != nil {
		return models.Task{}, err
	}
	return t, nil
}

func (s *Store) CreateTask(task models.Task, memberIDs []string) (bool, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.Exec(`
		INSERT INTO tasks (`+taskColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING`,
		task.ID, task.FamilyID, task.SeriesID, task.CategoryID, task.Title, task.Description,
		storage.FormatDate(task.DueDate), storage.FormatTime(task.DueTime),
		string(task.Recurrence), string(task.Priority), string(task.Status),
		task.CompletedBy, storage.FormatOptionalTimestamp(task.CompletedAt), task.CreatedBy,
		storage.FormatTimestamp(task.CreatedAt), storage.FormatTimestamp(task.UpdatedAt),
	)
	if err != nil {
		return false, fmt.Errorf("failed to insert task: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	if n == 0 {
		return false, nil
	}

	if err := insertAssignments(tx, task.ID, memberIDs, task.CreatedAt); err != nil {
		return false, err
	}
	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func insertAssignments(tx *sql.Tx, taskID string, memberIDs []string, at time.Time) error {
	ids := slices.Clone(memberIDs)
	slices.Sort(ids)
	for _, memberID := range slices.Compact(ids) {
		if _, err := tx.Exec(`
			INSERT INTO task_assignments (task_id, member_id, assigned_at) VALUES (?, ?, ?)`,
			taskID, memberID, storage.FormatTimestamp(at),
		); err != nil {
			return fmt.Errorf("failed to assign member %s: %w", memberID, err)
		}
	}
	return nil
}

func (s *Store) GetTask(id string) (models.Task, error) {
	row := s.db.QueryRow(`SELECT `+taskColumns+` FROM tasks WHERE id = ?`, id)
	t, err := scanTask(row)
	if err != nil {
		return models.Task{}, notFound(err, "task", id)
	}
	return t, nil
}

func (s *Store) ListTasks(familyID string) ([]models.Task, error) {
	rows, err := s.db.Query(`
		SELECT `+taskColumns+` FROM tasks
		WHERE family_id = ?
		ORDER BY due_date, due_time, title`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tasks []models.Task
	for rows.Next() {
		t, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, t)
	}
	return tasks, rows.Err()
}

func updateTask(exec execer, task models.Task) error {
	res, err := exec.Exec(`
		UPDATE tasks SET
			category_id = ?, title = ?, description = ?, due_date = ?, due_time = ?,
			priority = ?, status = ?, completed_by = ?, completed_at = ?, updated_at = ?
		WHERE id = ?`,
		task.CategoryID, task.Title, task.Description,
		storage.FormatDate(task.DueDate), storage.FormatTime(task.DueTime),
		string(task.Priority), string(task.Status),
		task.CompletedBy, storage.FormatOptionalTimestamp(task.CompletedAt),
		storage.FormatTimestamp(task.UpdatedAt), task.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update task: %w", err)
	}
	return requireAffected(res, "task", task.ID)
}

func (s *Store) UpdateTask(task models.Task) error {
	return updateTask(s.db, task)
}

func (s *Store) UpdateTaskWithAssignments(task models.Task, memberIDs []string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if err := updateTask(tx, task); err != nil {
		return err
	}
	if _, err := tx.Exec(`DELETE FROM task_assignments WHERE task_id = ?`, task.ID); err != nil {
		return fmt.Errorf("failed to clear assignments: %w", err)
	}
	if err := insertAssignments(tx, task.ID, memberIDs, task.UpdatedAt); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) DeleteTask(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`DELETE FROM task_assignments WHERE task_id = ?`, id); err != nil {
		return fmt.Errorf("failed to remove task assignments: %w", err)
	}
	res, err := tx.Exec(`DELETE FROM tasks WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	if err := requireAffected(res, "task", id); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *Store) ListAssignments(familyID string) ([]models.Assignment, error) {
	rows, err := s.db.Query(`
		SELECT a.task_id, a.member_id, a.assigned_at
		FROM task_assignments a
		JOIN tasks t ON t.id = a.task_id
		WHERE t.family_id = ?
		ORDER BY a.task_id, a.member_id`, familyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []models.Assignment
	for rows.Next() {
		var a models.Assignment
		var assignedAt string
		if err := rows.Scan(&a.TaskID, &a.MemberID, &assignedAt); err != nil {
			return nil, err
		}
		if a.AssignedAt, err = storage.ParseTimestamp(assignedAt); err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}
