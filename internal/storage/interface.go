package storage

import (
	"errors"

	"github.com/julianstephens/hearth/internal/models"
)

// ErrNotFound is returned by lookups that match no row.
var ErrNotFound = errors.New("not found")

type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	// Families
	CreateFamily(models.Family) error
	GetFamily(id string) (models.Family, error)
	// GetFamilyByInviteCode matches the code case-insensitively.
	GetFamilyByInviteCode(code string) (models.Family, error)
	ListFamilies() ([]models.Family, error)

	// Members
	AddMember(models.Member) error
	GetMember(id string) (models.Member, error)
	ListMembers(familyID string) ([]models.Member, error)
	UpdateMember(models.Member) error
	DeleteMember(id string) error

	// Categories
	AddCategory(models.Category) error
	ListCategories(familyID string) ([]models.Category, error)
	// DeleteCategory also clears the category from any task that used it.
	DeleteCategory(id string) error

	// Tasks
	// CreateTask inserts one occurrence and its assignments in a single
	// transaction. It reports created=false, and writes nothing, when a row
	// with the same series id, due date and due time already exists.
	CreateTask(task models.Task, memberIDs []string) (created bool, err error)
	GetTask(id string) (models.Task, error)
	ListTasks(familyID string) ([]models.Task, error)
	UpdateTask(models.Task) error
	// UpdateTaskWithAssignments updates the row and replaces its assignment
	// set wholesale in one transaction.
	UpdateTaskWithAssignments(task models.Task, memberIDs []string) error
	DeleteTask(id string) error
	ListAssignments(familyID string) ([]models.Assignment, error)

	// Shopping
	AddShoppingItem(models.ShoppingItem) error
	GetShoppingItem(id string) (models.ShoppingItem, error)
	ListShoppingItems(familyID string) ([]models.ShoppingItem, error)
	UpdateShoppingItem(models.ShoppingItem) error
	DeleteShoppingItem(id string) error

	// Utils
	GetConfigPath() string
}

// AssigneesByTask groups assignments into task ID -> member IDs.
func AssigneesByTask(assignments []models.Assignment) map[string][]string {
	out := make(map[string][]string)
	for _, a := range assignments {
		out[a.TaskID] = append(out[a.TaskID], a.MemberID)
	}
	return out
}
