package family

import (
	"fmt"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
)

type CategoryAddCmd struct {
	Name  string `arg:"" help:"Category name."`
	Icon  string `help:"Icon shown next to the name."`
	Color string `help:"Color as #RRGGBB."`
}

func (c *CategoryAddCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	cat, err := ctx.Scheduler.AddCategory(ctx.MemberID(), models.Category{
		FamilyID: familyID,
		Name:     c.Name,
		Icon:     c.Icon,
		Color:    c.Color,
	})
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Added category " + cat.Name))
	return nil
}

type CategoryListCmd struct{}

func (c *CategoryListCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	cats, err := ctx.Store.ListCategories(familyID)
	if err != nil {
		return err
	}
	if len(cats) == 0 {
		fmt.Println("No categories.")
		return nil
	}
	for _, cat := range cats {
		suffix := ""
		if cat.IsDefault {
			suffix = cli.MutedStyle.Render(" (default)")
		}
		fmt.Printf("%s  %s %s%s\n", cli.MutedStyle.Render(cli.ShortID(cat.ID)), cat.Icon, cat.Name, suffix)
	}
	return nil
}

// CategoryRemoveCmd deletes a category; its tasks become uncategorised.
type CategoryRemoveCmd struct {
	Category string `arg:"" help:"Category name or ID."`
}

func (c *CategoryRemoveCmd) Run(ctx *cli.Context) error {
	cat, err := ctx.ResolveCategory(c.Category)
	if err != nil {
		return err
	}
	if err := ctx.Scheduler.RemoveCategory(ctx.MemberID(), cat.FamilyID, cat.ID); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Removed category " + cat.Name))
	return nil
}
