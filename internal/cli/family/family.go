package family

import (
	"errors"
	"fmt"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
)

type FamilyCreateCmd struct {
	Name  string `arg:"" help:"Family name."`
	Owner string `required:"" help:"Your display name."`
	Email string `help:"Your email address."`
	Color string `help:"Your color as #RRGGBB."`
}

func (c *FamilyCreateCmd) Run(ctx *cli.Context) error {
	owner := models.Member{Name: c.Owner, Email: c.Email, Color: c.Color}
	family, member, err := ctx.Scheduler.CreateFamily(c.Name, owner)
	if err != nil {
		return err
	}
	if err := ctx.SelectMember(family.ID, member.ID); err != nil {
		return fmt.Errorf("family created but config not saved: %w", err)
	}

	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Created family %q", family.Name)))
	fmt.Printf("  Invite code: %s\n", family.InviteCode)
	fmt.Printf("  You are %s (owner)\n", member.Name)
	return nil
}

type FamilyJoinCmd struct {
	Code    string `arg:"" help:"Six character invite code."`
	Name    string `required:"" help:"Your display name."`
	Email   string `help:"Your email address."`
	Visitor bool   `help:"Join with read-only access."`
}

func (c *FamilyJoinCmd) Run(ctx *cli.Context) error {
	m := models.Member{Name: c.Name, Email: c.Email}
	if c.Visitor {
		m.Role = models.RoleVisitor
	}
	family, member, err := ctx.Scheduler.JoinFamily(c.Code, m)
	if err != nil {
		return err
	}
	if err := ctx.SelectMember(family.ID, member.ID); err != nil {
		return fmt.Errorf("joined family but config not saved: %w", err)
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Joined %q as %s", family.Name, member.Role)))
	return nil
}

type FamilyShowCmd struct{}

func (c *FamilyShowCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	family, err := ctx.Store.GetFamily(familyID)
	if err != nil {
		return err
	}
	members, err := ctx.Store.ListMembers(familyID)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeaderStyle.Render(family.Name))
	fmt.Printf("Created: %s\n", family.CreatedAt.Local().Format("2006-01-02"))
	if me, err := ctx.Store.GetMember(ctx.MemberID()); err == nil && me.Role.CanManageMembers() {
		fmt.Printf("Invite code: %s\n", family.InviteCode)
	}
	fmt.Printf("Members: %d\n", len(members))
	return nil
}

type MemberAddCmd struct {
	Name  string `arg:"" help:"Member display name."`
	Email string `help:"Email address."`
	Color string `help:"Color as #RRGGBB."`
	Role  string `default:"member" enum:"admin,member,visitor" help:"Role (admin|member|visitor)."`
}

func (c *MemberAddCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	m, err := ctx.Scheduler.AddMember(ctx.MemberID(), models.Member{
		FamilyID: familyID,
		Name:     c.Name,
		Email:    c.Email,
		Color:    c.Color,
		Role:     role,
	})
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Added %s (%s)", m.Name, m.Role)))
	return nil
}

type MemberListCmd struct{}

func (c *MemberListCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	members, err := ctx.Store.ListMembers(familyID)
	if err != nil {
		return err
	}
	for _, m := range members {
		marker := "  "
		if m.ID == ctx.MemberID() {
			marker = "* "
		}
		fmt.Printf("%s%s  %-20s %-8s %s\n", marker, cli.MutedStyle.Render(cli.ShortID(m.ID)), m.Name, m.Role, m.Email)
	}
	return nil
}

type MemberRemoveCmd struct {
	Member string `arg:"" help:"Member name or ID."`
}

func (c *MemberRemoveCmd) Run(ctx *cli.Context) error {
	m, err := ctx.ResolveMember(c.Member)
	if err != nil {
		return err
	}
	if m.ID == ctx.MemberID() {
		return errors.New("you cannot remove yourself")
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Scheduler.RemoveMember(ctx.MemberID(), m.ID); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Removed " + m.Name))
	return nil
}

type MemberRoleCmd struct {
	Member string `arg:"" help:"Member name or ID."`
	Role   string `arg:"" enum:"admin,member,visitor" help:"New role (admin|member|visitor)."`
}

func (c *MemberRoleCmd) Run(ctx *cli.Context) error {
	m, err := ctx.ResolveMember(c.Member)
	if err != nil {
		return err
	}
	role, err := models.ParseRole(c.Role)
	if err != nil {
		return err
	}
	updated, err := ctx.Scheduler.SetRole(ctx.MemberID(), m.ID, role)
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ %s is now %s", updated.Name, updated.Role)))
	return nil
}
