package models

import (
	"fmt"
	"strings"
	"time"
)

type Family struct {
	ID         string    `json:"id"`
	Name       string    `json:"name" validate:"required,max=100"`
	InviteCode string    `json:"invite_code" validate:"required,len=6,alphanum"`
	CreatedAt  time.Time `json:"created_at"`
}

func (f *Family) Validate() error {
	if err := validate.Struct(f); err != nil {
		return formatValidationError("family", err)
	}
	return nil
}

type Role string

const (
	RoleOwner   Role = "owner"
	RoleAdmin   Role = "admin"
	RoleMember  Role = "member"
	RoleVisitor Role = "visitor"
)

func ParseRole(s string) (Role, error) {
	switch r := Role(strings.ToLower(strings.TrimSpace(s))); r {
	case RoleOwner, RoleAdmin, RoleMember, RoleVisitor:
		return r, nil
	default:
		return "", fmt.Errorf("unknown role %q (expected owner|admin|member|visitor)", s)
	}
}

// CanManageMembers reports whether the role may add, remove or re-role
// members and see the family invite code.
func (r Role) CanManageMembers() bool {
	return r == RoleOwner || r == RoleAdmin
}

// CanEditTasks reports whether the role may create, edit or toggle tasks.
// Visitors are read-only.
func (r Role) CanEditTasks() bool {
	return r == RoleOwner || r == RoleAdmin || r == RoleMember
}

type Member struct {
	ID       string    `json:"id"`
	FamilyID string    `json:"family_id" validate:"required"`
	Name     string    `json:"name" validate:"required,max=100"`
	Email    string    `json:"email,omitempty" validate:"omitempty,email"`
	Avatar   string    `json:"avatar,omitempty"`
	Color    string    `json:"color,omitempty" validate:"omitempty,hexcolor"`
	Role     Role      `json:"role" validate:"required,oneof=owner admin member visitor"`
	JoinedAt time.Time `json:"joined_at"`
}

func (m *Member) Validate() error {
	if err := validate.Struct(m); err != nil {
		return formatValidationError("member", err)
	}
	return nil
}

type Category struct {
	ID        string `json:"id"`
	FamilyID  string `json:"family_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=50"`
	Icon      string `json:"icon,omitempty"`
	Color     string `json:"color,omitempty" validate:"omitempty,hexcolor"`
	IsDefault bool   `json:"is_default"`
}

func (c *Category) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError("category", err)
	}
	return nil
}
