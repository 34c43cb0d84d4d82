package reports

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/constants"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/report"
)

var (
	summaryStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("62")).
			Padding(0, 2)

	barFull  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmpty = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
)

const barWidth = 20

type ReportCmd struct {
	Month string `short:"m" help:"Month to report on (YYYY-MM). Defaults to the current month."`
	JSON  bool   `help:"Print JSON instead of a summary."`
}

func (c *ReportCmd) Run(ctx *cli.Context) error {
	familyID, err := ctx.FamilyID()
	if err != nil {
		return err
	}
	year, month, err := parseMonth(c.Month, ctx.Scheduler.Now())
	if err != nil {
		return err
	}

	r, err := ctx.Scheduler.Report(familyID, year, month)
	if err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	}
	fmt.Println(Render(r))
	return nil
}

func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse(constants.MonthFormat, strings.TrimSpace(s))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid month %q (expected YYYY-MM)", s)
	}
	return t.Year(), t.Month(), nil
}

// Render formats a report as a bordered summary followed by per-member and
// per-category completion bars.
func Render(r report.Report) string {
	title := cli.HeaderStyle.Render(fmt.Sprintf("%s %d", r.Month, r.Year))
	if r.Total == 0 {
		return lipgloss.JoinVertical(lipgloss.Left, title, cli.MutedStyle.Render("No tasks due this month."))
	}

	summary := summaryStyle.Render(strings.Join([]string{
		fmt.Sprintf("Total      %3d", r.Total),
		fmt.Sprintf("Completed  %3d", r.Completed),
		fmt.Sprintf("Pending    %3d", r.Pending),
		cli.ErrorStyle.Render(fmt.Sprintf("Overdue    %3d", r.Overdue)),
		fmt.Sprintf("Rate       %3d%%", r.CompletionRate),
	}, "\n"))

	sections := []string{title, summary}

	if len(r.Members) > 0 {
		lines := []string{cli.HeaderStyle.Render("By member")}
		for _, m := range r.Members {
			lines = append(lines, fmt.Sprintf("  %-16s %s %3d%% (%d/%d)", m.Member.Name, bar(m.Rate), m.Rate, m.Completed, m.Total))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	if len(r.Categories) > 0 {
		lines := []string{cli.HeaderStyle.Render("By category")}
		for _, c := range r.Categories {
			name := strings.TrimSpace(c.Category.Icon + " " + c.Category.Name)
			lines = append(lines, fmt.Sprintf("  %-16s %s %3d%% (%d/%d)", name, bar(c.Rate), c.Rate, c.Completed, c.Total))
		}
		sections = append(sections, strings.Join(lines, "\n"))
	}

	var prio []string
	for _, p := range []models.Priority{models.PriorityHigh, models.PriorityMedium, models.PriorityLow} {
		if n := r.Priorities[p]; n > 0 {
			prio = append(prio, fmt.Sprintf("%s %d", p, n))
		}
	}
	if len(prio) > 0 {
		sections = append(sections, cli.MutedStyle.Render("Priorities: "+strings.Join(prio, " · ")))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func bar(rate int) string {
	filled := rate * barWidth / 100
	return barFull.Render(strings.Repeat("█", filled)) + barEmpty.Render(strings.Repeat("░", barWidth-filled))
}
