package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/filter"
	"github.com/julianstephens/hearth/internal/logger"
)

// WatchCmd prints the task list and reprints it whenever the family's data
// changes, until interrupted.
type WatchCmd struct {
	Filter string `short:"f" help:"Time window (all|today|week). Defaults to the configured filter."`
	Member string `short:"m" help:"Only tasks assigned to this member (name or ID)."`
}

func (c *WatchCmd) Run(ctx *cli.Context) error {
	if ctx.Hub == nil {
		return fmt.Errorf("realtime updates are not available for this database")
	}
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}

	criteria, err := c.criteria(ctx)
	if err != nil {
		return err
	}

	sigCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	events, err := ctx.Hub.Subscribe(sigCtx, familyID)
	if err != nil {
		return fmt.Errorf("failed to subscribe to changes: %w", err)
	}

	log := logger.Component("watch")
	if err := c.render(ctx, familyID, criteria, "initial"); err != nil {
		return err
	}

	for ev := range events {
		log.Debug("Change received", "table", ev.Table, "op", ev.Op)
		reason := ev.Op
		if ev.Table != "" {
			reason = ev.Table + " " + ev.Op
		}
		if err := c.render(ctx, familyID, criteria, reason); err != nil {
			log.Error("Failed to refresh", "error", err)
		}
	}
	fmt.Println(cli.MutedStyle.Render("Stopped watching."))
	return nil
}

func (c *WatchCmd) criteria(ctx *cli.Context) (filter.Criteria, error) {
	raw := c.Filter
	if raw == "" {
		raw = ctx.Config.DefaultFilter
	}
	window, err := filter.ParseWindow(raw)
	if err != nil {
		return filter.Criteria{}, err
	}
	criteria := filter.Criteria{Window: window}
	if c.Member != "" {
		m, err := ctx.ResolveMember(c.Member)
		if err != nil {
			return filter.Criteria{}, err
		}
		criteria.MemberID = m.ID
	}
	return criteria, nil
}

func (c *WatchCmd) render(ctx *cli.Context, familyID string, criteria filter.Criteria, reason string) error {
	views, err := ctx.Scheduler.List(familyID, criteria)
	if err != nil {
		return err
	}
	members, err := ctx.Store.ListMembers(familyID)
	if err != nil {
		return err
	}
	categories, err := ctx.Store.ListCategories(familyID)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("%s  %s (%s)",
		time.Now().Format("15:04:05"), criteria.Window, reason)))
	cli.PrintViews(os.Stdout, views, cli.NewNames(members, categories))
	return nil
}
