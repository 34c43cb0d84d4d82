package tasks

import (
	"fmt"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/scheduler"
)

// TaskEditCmd changes one occurrence. Other dates in the same series are
// left untouched.
type TaskEditCmd struct {
	Task        string   `arg:"" help:"Task ID or ID prefix."`
	Title       *string  `help:"New title."`
	Description *string  `short:"d" help:"New description."`
	Date        string   `help:"New due date (YYYY-MM-DD, today or tomorrow)."`
	NoDate      bool     `help:"Remove the due date and time."`
	Time        string   `short:"t" help:"New due time (HH:MM)."`
	NoTime      bool     `help:"Remove the due time."`
	Priority    string   `short:"p" enum:",low,medium,high" default:"" help:"New priority."`
	Category    *string  `short:"c" help:"New category name or ID; empty to clear."`
	Assign      []string `short:"a" help:"Replace assignees (name or ID). Repeat for several members."`
	Unassign    bool     `help:"Remove all assignees."`
}

func (c *TaskEditCmd) Run(ctx *cli.Context) error {
	task, err := ctx.ResolveTask(c.Task)
	if err != nil {
		return err
	}
	edit, err := c.edit(ctx)
	if err != nil {
		return err
	}

	updated, err := ctx.Scheduler.Edit(ctx.MemberID(), task.ID, edit)
	if err != nil {
		return err
	}
	fmt.Println(cli.SuccessStyle.Render(fmt.Sprintf("✓ Updated %s %q", cli.ShortID(updated.ID), updated.Title)))
	return nil
}

func (c *TaskEditCmd) edit(ctx *cli.Context) (scheduler.TaskEdit, error) {
	var edit scheduler.TaskEdit
	var err error

	edit.Title = c.Title
	edit.Description = c.Description

	if c.NoDate && c.Date != "" {
		return edit, fmt.Errorf("--date and --no-date cannot be combined")
	}
	edit.ClearDueDate = c.NoDate
	if edit.DueDate, err = parseDate(c.Date, ctx.Scheduler.Now()); err != nil {
		return edit, err
	}

	if c.NoTime && c.Time != "" {
		return edit, fmt.Errorf("--time and --no-time cannot be combined")
	}
	edit.ClearDueTime = c.NoTime
	if edit.DueTime, err = calendar.ParseTimePtr(c.Time); err != nil {
		return edit, err
	}

	if c.Priority != "" {
		p := models.Priority(c.Priority)
		edit.Priority = &p
	}

	if c.Category != nil {
		id := ""
		if *c.Category != "" {
			cat, err := ctx.ResolveCategory(*c.Category)
			if err != nil {
				return edit, err
			}
			id = cat.ID
		}
		edit.CategoryID = &id
	}

	switch {
	case c.Unassign && len(c.Assign) > 0:
		return edit, fmt.Errorf("--assign and --unassign cannot be combined")
	case c.Unassign:
		edit.Assignees = []string{}
	case len(c.Assign) > 0:
		if edit.Assignees, err = ctx.ResolveMembers(c.Assign); err != nil {
			return edit, err
		}
	}
	return edit, nil
}
