package filter

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/status"
)

func view(id, due, category string, effective models.EffectiveStatus, assignees ...string) status.View {
	v := status.View{
		Task:      models.Task{ID: id, CategoryID: category},
		Effective: effective,
		Assignees: assignees,
	}
	if due != "" {
		d, err := calendar.Parse(due)
		if err != nil {
			panic(err)
		}
		v.Task.DueDate = &d
	}
	return v
}

func ids(views []status.View) []string {
	out := make([]string, len(views))
	for i, v := range views {
		out[i] = v.Task.ID
	}
	return out
}

func TestApply(t *testing.T) {
	today := calendar.Date{Year: 2025, Month: 3, Day: 1}
	views := []status.View{
		view("yesterday", "2025-02-28", "home", models.EffectiveOverdue, "ana"),
		view("today", "2025-03-01", "home", models.EffectivePending, "ana", "ben"),
		view("in-six", "2025-03-07", "work", models.EffectivePending, "ben"),
		view("in-seven", "2025-03-08", "home", models.EffectivePending),
		view("undated", "", "home", models.EffectivePending, "ana"),
	}

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{
			name:     "all includes undated",
			criteria: Criteria{Window: WindowAll},
			want:     []string{"yesterday", "today", "in-six", "in-seven", "undated"},
		},
		{
			name:     "today excludes undated",
			criteria: Criteria{Window: WindowToday},
			want:     []string{"today"},
		},
		{
			name:     "week is today through six days ahead",
			criteria: Criteria{Window: WindowWeek},
			want:     []string{"today", "in-six"},
		},
		{
			name:     "member filter uses assignments",
			criteria: Criteria{Window: WindowAll, MemberID: "ana"},
			want:     []string{"yesterday", "today", "undated"},
		},
		{
			name:     "category filter",
			criteria: Criteria{Window: WindowWeek, CategoryID: "work"},
			want:     []string{"in-six"},
		},
		{
			name:     "effective status filter",
			criteria: Criteria{Window: WindowAll, Status: models.EffectiveOverdue},
			want:     []string{"yesterday"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ids(Apply(views, tt.criteria, today))
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Apply() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	tests := []struct {
		in      string
		want    Window
		wantErr bool
	}{
		{"", WindowToday, false},
		{"ALL", WindowAll, false},
		{"week", WindowWeek, false},
		{"month", "", true},
	}

	for _, tt := range tests {
		got, err := ParseWindow(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseWindow(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseWindow(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
