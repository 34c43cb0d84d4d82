package scheduler

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/logger"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/realtime"
	"github.com/julianstephens/hearth/internal/report"
)

// NewInviteCode returns a random upper-case alphanumeric code.
func NewInviteCode() string {
	hex := strings.ReplaceAll(uuid.NewString(), "-", "")
	return strings.ToUpper(hex[:constants.InviteCodeLength])
}

// CreateFamily stores a new family with owner as its first member and seeds
// the default categories. The owner's Role and FamilyID are overwritten.
func (s *Scheduler) CreateFamily(name string, owner models.Member) (models.Family, models.Member, error) {
	now := s.now()
	family := models.Family{
		ID:         s.newID(),
		Name:       strings.TrimSpace(name),
		InviteCode: NewInviteCode(),
		CreatedAt:  now,
	}
	if err := family.Validate(); err != nil {
		return models.Family{}, models.Member{}, err
	}

	owner.FamilyID = family.ID
	owner.Role = models.RoleOwner
	if owner.ID == "" {
		owner.ID = s.newID()
	}
	owner.JoinedAt = now
	if err := owner.Validate(); err != nil {
		return models.Family{}, models.Member{}, err
	}

	if err := s.store.CreateFamily(family); err != nil {
		return models.Family{}, models.Member{}, fmt.Errorf("failed to create family: %w", err)
	}
	if err := s.store.AddMember(owner); err != nil {
		return models.Family{}, models.Member{}, fmt.Errorf("failed to add owner: %w", err)
	}
	for _, c := range constants.DefaultCategories {
		cat := models.Category{
			ID:        s.newID(),
			FamilyID:  family.ID,
			Name:      c.Name,
			Icon:      c.Icon,
			Color:     c.Color,
			IsDefault: true,
		}
		if err := s.store.AddCategory(cat); err != nil {
			return models.Family{}, models.Member{}, fmt.Errorf("failed to seed category %s: %w", c.Name, err)
		}
	}

	logger.Info("Created family", "family", family.ID, "owner", owner.ID)
	return family, owner, nil
}

// JoinFamily adds m to the family holding code. New members join with the
// member role unless m asks for visitor.
func (s *Scheduler) JoinFamily(code string, m models.Member) (models.Family, models.Member, error) {
	family, err := s.store.GetFamilyByInviteCode(strings.TrimSpace(code))
	if err != nil {
		return models.Family{}, models.Member{}, fmt.Errorf("invalid invite code: %w", err)
	}
	if m.Role != models.RoleVisitor {
		m.Role = models.RoleMember
	}
	m.FamilyID = family.ID
	added, err := s.addMember(m)
	if err != nil {
		return models.Family{}, models.Member{}, err
	}
	return family, added, nil
}

// AddMember lets an owner or admin add someone directly. The owner role
// cannot be granted.
func (s *Scheduler) AddMember(actorID string, m models.Member) (models.Member, error) {
	if err := s.authorize(actorID, m.FamilyID, canManageMembers); err != nil {
		return models.Member{}, err
	}
	if m.Role == "" {
		m.Role = models.RoleMember
	}
	if m.Role == models.RoleOwner {
		return models.Member{}, errors.New("a family has exactly one owner")
	}
	return s.addMember(m)
}

func (s *Scheduler) addMember(m models.Member) (models.Member, error) {
	if m.ID == "" {
		m.ID = s.newID()
	}
	m.Name = strings.TrimSpace(m.Name)
	m.JoinedAt = s.now()
	if err := m.Validate(); err != nil {
		return models.Member{}, err
	}
	if err := s.store.AddMember(m); err != nil {
		return models.Member{}, fmt.Errorf("failed to add member: %w", err)
	}
	s.publish(m.FamilyID, "members", realtime.OpInsert)
	return m, nil
}

// SetRole changes a member's role. The owner keeps their role and nobody
// else can be promoted to owner.
func (s *Scheduler) SetRole(actorID, memberID string, role models.Role) (models.Member, error) {
	m, err := s.store.GetMember(memberID)
	if err != nil {
		return models.Member{}, err
	}
	if err := s.authorize(actorID, m.FamilyID, canManageMembers); err != nil {
		return models.Member{}, err
	}
	if m.Role == models.RoleOwner || role == models.RoleOwner {
		return models.Member{}, errors.New("the owner role cannot be changed or granted")
	}
	m.Role = role
	if err := m.Validate(); err != nil {
		return models.Member{}, err
	}
	if err := s.store.UpdateMember(m); err != nil {
		return models.Member{}, err
	}
	s.publish(m.FamilyID, "members", realtime.OpUpdate)
	return m, nil
}

func (s *Scheduler) RemoveMember(actorID, memberID string) error {
	m, err := s.store.GetMember(memberID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, m.FamilyID, canManageMembers); err != nil {
		return err
	}
	if m.Role == models.RoleOwner {
		return errors.New("the owner cannot be removed")
	}
	if err := s.store.DeleteMember(memberID); err != nil {
		return err
	}
	s.publish(m.FamilyID, "members", realtime.OpDelete)
	return nil
}

func (s *Scheduler) AddCategory(actorID string, c models.Category) (models.Category, error) {
	if err := s.authorize(actorID, c.FamilyID, canEditTasks); err != nil {
		return models.Category{}, err
	}
	if c.ID == "" {
		c.ID = s.newID()
	}
	c.Name = strings.TrimSpace(c.Name)
	c.IsDefault = false
	if err := c.Validate(); err != nil {
		return models.Category{}, err
	}
	if err := s.store.AddCategory(c); err != nil {
		return models.Category{}, fmt.Errorf("failed to add category: %w", err)
	}
	s.publish(c.FamilyID, "categories", realtime.OpInsert)
	return c, nil
}

// RemoveCategory deletes a category. Tasks that used it become uncategorised.
func (s *Scheduler) RemoveCategory(actorID, familyID, categoryID string) error {
	if err := s.authorize(actorID, familyID, canEditTasks); err != nil {
		return err
	}
	if err := s.store.DeleteCategory(categoryID); err != nil {
		return err
	}
	s.publish(familyID, "categories", realtime.OpDelete)
	return nil
}

func (s *Scheduler) AddShoppingItem(actorID string, item models.ShoppingItem) (models.ShoppingItem, error) {
	if err := s.authorize(actorID, item.FamilyID, canEditTasks); err != nil {
		return models.ShoppingItem{}, err
	}
	if item.ID == "" {
		item.ID = s.newID()
	}
	if item.Quantity == 0 {
		item.Quantity = 1
	}
	item.Name = strings.TrimSpace(item.Name)
	item.AddedBy = actorID
	item.CreatedAt = s.now()
	if err := item.Validate(); err != nil {
		return models.ShoppingItem{}, err
	}
	if err := s.store.AddShoppingItem(item); err != nil {
		return models.ShoppingItem{}, fmt.Errorf("failed to add item: %w", err)
	}
	s.publish(item.FamilyID, "shopping_items", realtime.OpInsert)
	return item, nil
}

func (s *Scheduler) ToggleShoppingItem(actorID, itemID string) (models.ShoppingItem, error) {
	item, err := s.store.GetShoppingItem(itemID)
	if err != nil {
		return models.ShoppingItem{}, err
	}
	if err := s.authorize(actorID, item.FamilyID, canEditTasks); err != nil {
		return models.ShoppingItem{}, err
	}
	item.TogglePurchased(actorID, s.now())
	if err := s.store.UpdateShoppingItem(item); err != nil {
		return models.ShoppingItem{}, err
	}
	s.publish(item.FamilyID, "shopping_items", realtime.OpUpdate)
	return item, nil
}

func (s *Scheduler) RemoveShoppingItem(actorID, itemID string) error {
	item, err := s.store.GetShoppingItem(itemID)
	if err != nil {
		return err
	}
	if err := s.authorize(actorID, item.FamilyID, canEditTasks); err != nil {
		return err
	}
	if err := s.store.DeleteShoppingItem(itemID); err != nil {
		return err
	}
	s.publish(item.FamilyID, "shopping_items", realtime.OpDelete)
	return nil
}

// Report builds the monthly statistics for a family as of the scheduler's
// clock.
func (s *Scheduler) Report(familyID string, year int, month time.Month) (report.Report, error) {
	tasks, err := s.store.ListTasks(familyID)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to load tasks: %w", err)
	}
	assignments, err := s.store.ListAssignments(familyID)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to load assignments: %w", err)
	}
	members, err := s.store.ListMembers(familyID)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to load members: %w", err)
	}
	categories, err := s.store.ListCategories(familyID)
	if err != nil {
		return report.Report{}, fmt.Errorf("failed to load categories: %w", err)
	}

	in := report.Input{
		Tasks:       tasks,
		Assignments: assignments,
		Members:     members,
		Categories:  categories,
	}
	return report.Build(in, year, month, s.now()), nil
}
