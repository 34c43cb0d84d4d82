package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/status"
)

var (
	HeaderStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	ErrorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))

	statusStyles = map[models.EffectiveStatus]lipgloss.Style{
		models.EffectiveOverdue:    lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		models.EffectivePending:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		models.EffectiveInProgress: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		models.EffectiveCompleted:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Strikethrough(true),
	}

	priorityMarks = map[models.Priority]string{
		models.PriorityHigh:   "!!",
		models.PriorityMedium: "! ",
		models.PriorityLow:    "  ",
	}
)

func StatusBadge(s models.EffectiveStatus) string {
	style, ok := statusStyles[s]
	if !ok {
		style = MutedStyle
	}
	return style.Render(fmt.Sprintf("%-11s", s.Label()))
}

// Names maps member and category IDs to display names.
type Names struct {
	Members    map[string]string
	Categories map[string]string
}

func NewNames(members []models.Member, categories []models.Category) Names {
	n := Names{
		Members:    make(map[string]string, len(members)),
		Categories: make(map[string]string, len(categories)),
	}
	for _, m := range members {
		n.Members[m.ID] = m.Name
	}
	for _, c := range categories {
		label := c.Name
		if c.Icon != "" {
			label = c.Icon + " " + c.Name
		}
		n.Categories[c.ID] = label
	}
	return n
}

func due(t models.Task) string {
	switch {
	case t.DueDate == nil:
		return "no date"
	case t.DueTime == nil:
		return t.DueDate.String()
	default:
		return t.DueDate.String() + " " + t.DueTime.String()
	}
}

// PrintViews writes one line per task followed by its assignees and
// category when present.
func PrintViews(w io.Writer, views []status.View, names Names) {
	if len(views) == 0 {
		fmt.Fprintln(w, MutedStyle.Render("No tasks."))
		return
	}
	for _, v := range views {
		fmt.Fprintf(w, "%s %s %s  %-16s %s\n",
			MutedStyle.Render(ShortID(v.Task.ID)),
			priorityMarks[v.Task.Priority],
			StatusBadge(v.Effective),
			due(v.Task),
			v.Task.Title,
		)

		var details []string
		if len(v.Assignees) > 0 {
			who := make([]string, 0, len(v.Assignees))
			for _, id := range v.Assignees {
				if name, ok := names.Members[id]; ok {
					who = append(who, name)
				} else {
					who = append(who, ShortID(id))
				}
			}
			details = append(details, "assigned: "+strings.Join(who, ", "))
		}
		if cat, ok := names.Categories[v.Task.CategoryID]; ok {
			details = append(details, cat)
		}
		if v.Task.Recurrence != models.RecurrenceNone && v.Task.Recurrence != "" {
			details = append(details, string(v.Task.Recurrence))
		}
		if len(details) > 0 {
			fmt.Fprintf(w, "         %s\n", MutedStyle.Render(strings.Join(details, " · ")))
		}
	}
}
