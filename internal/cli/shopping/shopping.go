package shopping

import (
	"fmt"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
)

type ShopAddCmd struct {
	Name     string `arg:"" help:"Item name."`
	Quantity int    `short:"q" default:"1" help:"Quantity."`
}

func (c *ShopAddCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	item, err := ctx.Scheduler.AddShoppingItem(ctx.MemberID(), models.ShoppingItem{
		FamilyID: familyID,
		Name:     c.Name,
		Quantity: c.Quantity,
	})
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Added %d × %s", item.Quantity, item.Name)))
	return nil
}

type ShopListCmd struct {
	All bool `help:"Include purchased items."`
}

func (c *ShopListCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	items, err := ctx.Store.ListShoppingItems(familyID)
	if err != nil {
		return err
	}

	shown := 0
	for _, item := range items {
		if item.Purchased && !c.All {
			continue
		}
		shown++
		box, name := "[ ]", item.Name
		if item.Purchased {
			box = "[x]"
			name = cli.MutedStyle.Strikethrough(true).Render(name)
		}
		fmt.Printf("%s %s %2d × %s\n", cli.MutedStyle.Render(cli.ShortID(item.ID)), box, item.Quantity, name)
	}
	if shown == 0 {
		fmt.Println("Shopping list is empty.")
	}
	return nil
}

// ShopToggleCmd marks an item purchased, or puts it back on the list.
type ShopToggleCmd struct {
	Item string `arg:"" help:"Item name or ID."`
}

func (c *ShopToggleCmd) Run(ctx *cli.Context) error {
	item, err := ctx.ResolveShoppingItem(c.Item)
	if err != nil {
		return err
	}
	item, err = ctx.Scheduler.ToggleShoppingItem(ctx.MemberID(), item.ID)
	if err != nil {
		return err
	}
	if item.Purchased {
		fmt.Println(cli.SuccessStyle.Render("✓ Bought " + item.Name))
	} else {
		fmt.Println("Back on the list: " + item.Name)
	}
	return nil
}

type ShopRemoveCmd struct {
	Item string `arg:"" help:"Item name or ID."`
}

func (c *ShopRemoveCmd) Run(ctx *cli.Context) error {
	item, err := ctx.ResolveShoppingItem(c.Item)
	if err != nil {
		return err
	}
	if err := ctx.Scheduler.RemoveShoppingItem(ctx.MemberID(), item.ID); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render("✓ Removed " + item.Name))
	return nil
}
