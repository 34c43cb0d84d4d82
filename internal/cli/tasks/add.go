package tasks

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/scheduler"
)

type TaskAddCmd struct {
	Title       string   `arg:"" help:"Task title."`
	Description string   `short:"d" help:"Longer description."`
	Date        string   `help:"Due date (YYYY-MM-DD, today or tomorrow). Required for repeating tasks."`
	Times       []string `name:"time" short:"t" help:"Due time (HH:MM). Repeat the flag for several times a day."`
	Repeat      string   `short:"r" default:"none" enum:"none,daily,weekly,monthly,yearly" help:"Recurrence (none|daily|weekly|monthly|yearly)."`
	Weekdays    string   `short:"w" help:"Weekdays for weekly tasks (e.g. mon,wed,fri or 0-6)."`
	Until       string   `help:"Last date for a repeating task (YYYY-MM-DD)."`
	Count       int      `short:"n" help:"Maximum number of dates to create. Defaults to the configured occurrence cap."`
	Priority    string   `short:"p" default:"medium" enum:"low,medium,high" help:"Priority (low|medium|high)."`
	Assign      []string `short:"a" help:"Assign to a member (name or ID). Repeat for several members."`
	Category    string   `short:"c" help:"Category name or ID."`
	Series      string   `help:"Series ID from an interrupted run to resume it without duplicates."`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	tmpl, err := c.template(ctx)
	if err != nil {
		return err
	}

	res, err := ctx.Scheduler.Schedule(tmpl)
	if err != nil {
		if errors.Is(err, scheduler.ErrPartialWrite) {
			fmt.Println(cli.WarnStyle.Render(fmt.Sprintf("⚠ Created %d of %d occurrences", res.Created, res.Intended)))
			fmt.Printf("  Re-run with --series %s to finish.\n", res.SeriesID)
		}
		return err
	}

	msg := fmt.Sprintf("✓ Added %q (%d created", tmpl.Title, res.Created)
	if res.Skipped > 0 {
		msg += fmt.Sprintf(", %d already existed", res.Skipped)
	}
	msg += ")"
	fmt.Println(cli.SuccessStyle.Render(msg))
	if tmpl.Recurrence.Kind != models.RecurrenceNone {
		fmt.Println(cli.MutedStyle.Render("  " + cli.FormatRecurrence(tmpl.Recurrence) + ", series " + res.SeriesID))
	}
	return nil
}

func (c *TaskAddCmd) template(ctx *cli.Context) (models.TaskTemplate, error) {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return models.TaskTemplate{}, err
	}

	tmpl := models.TaskTemplate{
		FamilyID:      familyID,
		SeriesID:      c.Series,
		Title:         strings.TrimSpace(c.Title),
		Description:   c.Description,
		CreatedBy:     ctx.MemberID(),
		OccurrenceCap: c.Count,
	}
	if tmpl.OccurrenceCap == 0 {
		tmpl.OccurrenceCap = ctx.Config.OccurrenceCap
	}

	if tmpl.AnchorDate, err = parseDate(c.Date, ctx.Scheduler.Now()); err != nil {
		return tmpl, err
	}
	for _, raw := range c.Times {
		tod, err := calendar.ParseTimeOfDay(raw)
		if err != nil {
			return tmpl, err
		}
		tmpl.TimesOfDay = append(tmpl.TimesOfDay, tod)
	}

	if tmpl.Recurrence.Kind, err = models.ParseRecurrenceKind(c.Repeat); err != nil {
		return tmpl, err
	}
	if c.Weekdays != "" {
		if tmpl.Recurrence.Kind != models.RecurrenceWeekly {
			return tmpl, errors.New("--weekdays requires --repeat weekly")
		}
		if tmpl.Recurrence.Weekdays, err = cli.ParseWeekdays(c.Weekdays); err != nil {
			return tmpl, err
		}
	}
	if tmpl.Recurrence.Until, err = calendar.ParseDatePtr(c.Until); err != nil {
		return tmpl, err
	}

	if tmpl.Priority, err = models.ParsePriority(c.Priority); err != nil {
		return tmpl, err
	}
	if tmpl.AssignedMemberIDs, err = ctx.ResolveMembers(c.Assign); err != nil {
		return tmpl, err
	}
	if c.Category != "" {
		cat, err := ctx.ResolveCategory(c.Category)
		if err != nil {
			return tmpl, err
		}
		tmpl.CategoryID = cat.ID
	}
	return tmpl, nil
}

// parseDate accepts YYYY-MM-DD or the words today and tomorrow relative to
// now. The empty string means no date.
func parseDate(s string, now time.Time) (*calendar.Date, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "":
		return nil, nil
	case "today":
		d := calendar.FromTime(now)
		return &d, nil
	case "tomorrow":
		d := calendar.FromTime(now).AddDays(1)
		return &d, nil
	}
	return calendar.ParseDatePtr(strings.TrimSpace(s))
}
