package tasks

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/filter"
	"github.com/julianstephens/hearth/internal/models"
)

type TaskListCmd struct {
	Filter   string `short:"f" help:"Time window (all|today|week). Defaults to the configured filter."`
	Member   string `short:"m" help:"Only tasks assigned to this member (name or ID)."`
	Mine     bool   `help:"Only tasks assigned to you."`
	Category string `short:"c" help:"Only tasks in this category (name or ID)."`
	Status   string `short:"s" enum:",pending,in_progress,completed,overdue" default:"" help:"Only tasks with this effective status."`
	JSON     bool   `help:"Print JSON instead of a table."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	criteria, err := c.criteria(ctx)
	if err != nil {
		return err
	}

	views, err := ctx.Scheduler.List(familyID, criteria)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(views)
	}

	members, err := ctx.Store.ListMembers(familyID)
	if err != nil {
		return err
	}
	categories, err := ctx.Store.ListCategories(familyID)
	if err != nil {
		return err
	}
	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("Tasks (%s)", criteria.Window)))
	cli.PrintViews(os.Stdout, views, cli.NewNames(members, categories))
	return nil
}

func (c *TaskListCmd) criteria(ctx *cli.Context) (filter.Criteria, error) {
	raw := c.Filter
	if raw == "" {
		raw = ctx.Config.DefaultFilter
	}
	window, err := filter.ParseWindow(raw)
	if err != nil {
		return filter.Criteria{}, err
	}
	criteria := filter.Criteria{Window: window, Status: models.EffectiveStatus(c.Status)}

	switch {
	case c.Mine:
		if ctx.MemberID() == "" {
			return filter.Criteria{}, fmt.Errorf("--mine needs a selected member")
		}
		criteria.MemberID = ctx.MemberID()
	case c.Member != "":
		m, err := ctx.ResolveMember(c.Member)
		if err != nil {
			return filter.Criteria{}, err
		}
		criteria.MemberID = m.ID
	}
	if c.Category != "" {
		cat, err := ctx.ResolveCategory(c.Category)
		if err != nil {
			return filter.Criteria{}, err
		}
		criteria.CategoryID = cat.ID
	}
	return criteria, nil
}
