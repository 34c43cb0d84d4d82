package tasks

import (
	"fmt"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/status"
)

type transitionFunc func(actorID, taskID string) (models.Task, error)

func runTransition(ctx *cli.Context, ref string, fn transitionFunc) error {
	task, err := ctx.ResolveTask(ref)
	if err != nil {
		return err
	}
	updated, err := fn(ctx.MemberID(), task.ID)
	if err != nil {
		return err
	}
	eff := status.Of(updated, ctx.Scheduler.Now())
	fmt.Printf("%s %s %s\n", cli.MutedStyle.Render(cli.ShortID(updated.ID)), cli.StatusBadge(eff), updated.Title)
	return nil
}

type TaskStartCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
}

func (c *TaskStartCmd) Run(ctx *cli.Context) error {
	return runTransition(ctx, c.Task, ctx.Scheduler.Start)
}

type TaskDoneCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
}

func (c *TaskDoneCmd) Run(ctx *cli.Context) error {
	return runTransition(ctx, c.Task, ctx.Scheduler.Complete)
}

type TaskReopenCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
}

func (c *TaskReopenCmd) Run(ctx *cli.Context) error {
	return runTransition(ctx, c.Task, ctx.Scheduler.Reopen)
}

// TaskToggleCmd flips a task between completed and pending.
type TaskToggleCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
}

func (c *TaskToggleCmd) Run(ctx *cli.Context) error {
	return runTransition(ctx, c.Task, ctx.Scheduler.Toggle)
}

type TaskDeleteCmd struct {
	Task string `arg:"" help:"Task ID or ID prefix."`
}

func (c *TaskDeleteCmd) Run(ctx *cli.Context) error {
	task, err := ctx.ResolveTask(c.Task)
	if err != nil {
		return err
	}
	ctx.PerformAutomaticBackup()
	if err := ctx.Scheduler.Delete(ctx.MemberID(), task.ID); err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Deleted %q (%s)", task.Title, task.DueDateString())))
	return nil
}
