package models

import (
	"testing"
	"time"

	"github.com/julianstephens/hearth/internal/calendar"
)

func datePtr(s string) *calendar.Date {
	d, err := calendar.Parse(s)
	if err != nil {
		panic(err)
	}
	return &d
}

func TestTaskTemplate_Validate(t *testing.T) {
	tests := []struct {
		name    string
		tmpl    TaskTemplate
		wantErr bool
	}{
		{
			name: "valid weekly template",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Take out trash",
				AnchorDate: datePtr("2025-03-01"),
				Recurrence: Recurrence{
					Kind:     RecurrenceWeekly,
					Weekdays: []time.Weekday{time.Sunday, time.Saturday},
				},
				Priority: PriorityHigh,
			},
			wantErr: false,
		},
		{
			name:    "valid undated one-off",
			tmpl:    TaskTemplate{FamilyID: "fam-1", Title: "Call grandma"},
			wantErr: false,
		},
		{
			name:    "missing title",
			tmpl:    TaskTemplate{FamilyID: "fam-1"},
			wantErr: true,
		},
		{
			name:    "missing family",
			tmpl:    TaskTemplate{Title: "Dishes"},
			wantErr: true,
		},
		{
			name:    "unknown priority",
			tmpl:    TaskTemplate{FamilyID: "fam-1", Title: "Dishes", Priority: "urgent"},
			wantErr: true,
		},
		{
			name: "weekday out of range",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Dishes",
				AnchorDate: datePtr("2025-03-01"),
				Recurrence: Recurrence{Kind: RecurrenceWeekly, Weekdays: []time.Weekday{7}},
			},
			wantErr: true,
		},
		{
			name: "weekdays on daily recurrence",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Dishes",
				AnchorDate: datePtr("2025-03-01"),
				Recurrence: Recurrence{Kind: RecurrenceDaily, Weekdays: []time.Weekday{time.Monday}},
			},
			wantErr: true,
		},
		{
			name: "invalid anchor components",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Dishes",
				AnchorDate: &calendar.Date{Year: 2025, Month: 2, Day: 30},
			},
			wantErr: true,
		},
		{
			name: "until before anchor",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Dishes",
				AnchorDate: datePtr("2025-03-01"),
				Recurrence: Recurrence{Kind: RecurrenceDaily, Until: datePtr("2025-02-01")},
			},
			wantErr: true,
		},
		{
			name: "invalid time of day",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Dishes",
				AnchorDate: datePtr("2025-03-01"),
				TimesOfDay: []calendar.TimeOfDay{{Hour: 25}},
			},
			wantErr: true,
		},
		{
			name: "time without date",
			tmpl: TaskTemplate{
				FamilyID:   "fam-1",
				Title:      "Feed cat",
				TimesOfDay: []calendar.TimeOfDay{{Hour: 8}},
			},
			wantErr: true,
		},
		{
			name:    "malformed series id",
			tmpl:    TaskTemplate{FamilyID: "fam-1", Title: "Dishes", SeriesID: "not-a-uuid"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.tmpl.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("TaskTemplate.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestParseRecurrenceKind(t *testing.T) {
	tests := []struct {
		in      string
		want    RecurrenceKind
		wantErr bool
	}{
		{"", RecurrenceNone, false},
		{"none", RecurrenceNone, false},
		{"Weekly", RecurrenceWeekly, false},
		{" monthly ", RecurrenceMonthly, false},
		{"yearly", RecurrenceYearly, false},
		{"fortnightly", "", true},
	}

	for _, tt := range tests {
		got, err := ParseRecurrenceKind(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseRecurrenceKind(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseRecurrenceKind(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestParseStatus_RejectsOverdue(t *testing.T) {
	if _, err := ParseStatus("overdue"); err == nil {
		t.Error("ParseStatus(\"overdue\") should fail: overdue is never persisted")
	}
	if got, err := ParseStatus("in_progress"); err != nil || got != StatusInProgress {
		t.Errorf("ParseStatus(\"in_progress\") = %q, %v", got, err)
	}
}

func TestEffectiveStatus_Rank(t *testing.T) {
	order := []EffectiveStatus{EffectiveOverdue, EffectivePending, EffectiveInProgress, EffectiveCompleted}
	for i := 1; i < len(order); i++ {
		if order[i-1].Rank() >= order[i].Rank() {
			t.Errorf("%s should rank before %s", order[i-1], order[i])
		}
	}
}

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role          Role
		manageMembers bool
		editTasks     bool
	}{
		{RoleOwner, true, true},
		{RoleAdmin, true, true},
		{RoleMember, false, true},
		{RoleVisitor, false, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			if got := tt.role.CanManageMembers(); got != tt.manageMembers {
				t.Errorf("CanManageMembers() = %v, want %v", got, tt.manageMembers)
			}
			if got := tt.role.CanEditTasks(); got != tt.editTasks {
				t.Errorf("CanEditTasks() = %v, want %v", got, tt.editTasks)
			}
		})
	}
}

func TestMember_Validate(t *testing.T) {
	valid := Member{FamilyID: "fam-1", Name: "Ana", Role: RoleMember, Color: "#667EEA"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Member.Validate() unexpected error: %v", err)
	}

	invalid := Member{FamilyID: "fam-1", Name: "Ana", Role: "guest", Email: "nope"}
	if err := invalid.Validate(); err == nil {
		t.Error("Member.Validate() expected error for bad role and email")
	}
}

func TestShoppingItem_TogglePurchased(t *testing.T) {
	now := time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local)
	item := ShoppingItem{FamilyID: "fam-1", Name: "Milk", Quantity: 2}

	item.TogglePurchased("member-1", now)
	if !item.Purchased || item.PurchasedBy != "member-1" || item.PurchasedAt == nil {
		t.Fatalf("after first toggle: %+v", item)
	}

	item.TogglePurchased("member-2", now)
	if item.Purchased || item.PurchasedBy != "" || item.PurchasedAt != nil {
		t.Errorf("after second toggle: %+v", item)
	}
}
