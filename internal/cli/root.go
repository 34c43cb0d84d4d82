package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/julianstephens/hearth/internal/backup"
	"github.com/julianstephens/hearth/internal/config"
	"github.com/julianstephens/hearth/internal/logger"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/realtime"
	"github.com/julianstephens/hearth/internal/scheduler"
	"github.com/julianstephens/hearth/internal/storage"
	"github.com/julianstephens/hearth/internal/storage/sqlite"
)

var ErrNoFamily = errors.New("no family selected, run 'hearth family create' or 'hearth family join' first")

type Context struct {
	Store     storage.Provider
	Scheduler *scheduler.Scheduler
	Hub       realtime.Hub

	Config     config.Config
	ConfigPath string
}

// FamilyID returns the family selected in the config.
func (c *Context) FamilyID() (string, error) {
	if c.Config.Family == "" {
		return "", ErrNoFamily
	}
	return c.Config.Family, nil
}

// MemberID returns the acting member, or "" when none is configured.
func (c *Context) MemberID() string {
	return c.Config.Member
}

// SelectMember records family and member as the active identity.
func (c *Context) SelectMember(familyID, memberID string) error {
	c.Config.Family = familyID
	c.Config.Member = memberID
	if c.ConfigPath == "" {
		return nil
	}
	return config.Save(c.ConfigPath, c.Config)
}

// SQLiteStore returns the underlying SQLite store, or nil for PostgreSQL.
func (c *Context) SQLiteStore() *sqlite.Store {
	s, _ := c.Store.(*sqlite.Store)
	return s
}

// PerformAutomaticBackup snapshots the SQLite database before destructive
// commands. Failures are logged and otherwise ignored.
func (c *Context) PerformAutomaticBackup() {
	s := c.SQLiteStore()
	if s == nil {
		return
	}
	if _, err := backup.NewManager(s.GetConfigPath()).CreateBackup(); err != nil {
		logger.Warn("Automatic backup failed", "error", err)
	}
}

// ResolveMember accepts a member ID, an ID prefix or a case-insensitive name.
func (c *Context) ResolveMember(ref string) (models.Member, error) {
	familyID, err := c.FamilyID()
	if err != nil {
		return models.Member{}, err
	}
	members, err := c.Store.ListMembers(familyID)
	if err != nil {
		return models.Member{}, err
	}
	return pick(ref, "member", members, func(m models.Member) (string, string) { return m.ID, m.Name })
}

// ResolveMembers resolves every reference in refs.
func (c *Context) ResolveMembers(refs []string) ([]string, error) {
	ids := make([]string, 0, len(refs))
	for _, ref := range refs {
		m, err := c.ResolveMember(ref)
		if err != nil {
			return nil, err
		}
		ids = append(ids, m.ID)
	}
	return ids, nil
}

func (c *Context) ResolveCategory(ref string) (models.Category, error) {
	familyID, err := c.FamilyID()
	if err != nil {
		return models.Category{}, err
	}
	cats, err := c.Store.ListCategories(familyID)
	if err != nil {
		return models.Category{}, err
	}
	return pick(ref, "category", cats, func(cat models.Category) (string, string) { return cat.ID, cat.Name })
}

// ResolveTask accepts a task ID or a unique ID prefix.
func (c *Context) ResolveTask(ref string) (models.Task, error) {
	familyID, err := c.FamilyID()
	if err != nil {
		return models.Task{}, err
	}
	tasks, err := c.Store.ListTasks(familyID)
	if err != nil {
		return models.Task{}, err
	}
	return pick(ref, "task", tasks, func(t models.Task) (string, string) { return t.ID, "" })
}

func (c *Context) ResolveShoppingItem(ref string) (models.ShoppingItem, error) {
	familyID, err := c.FamilyID()
	if err != nil {
		return models.ShoppingItem{}, err
	}
	items, err := c.Store.ListShoppingItems(familyID)
	if err != nil {
		return models.ShoppingItem{}, err
	}
	return pick(ref, "item", items, func(i models.ShoppingItem) (string, string) { return i.ID, i.Name })
}

// pick finds the single entry whose ID equals ref, whose ID starts with ref,
// or whose name matches ref, in that order of preference.
func pick[T any](ref, what string, items []T, key func(T) (id, name string)) (T, error) {
	var zero T
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return zero, fmt.Errorf("%s reference cannot be empty", what)
	}

	var matches []T
	for _, it := range items {
		id, _ := key(it)
		if id == ref {
			return it, nil
		}
		if strings.HasPrefix(id, ref) {
			matches = append(matches, it)
		}
	}
	if len(matches) == 0 {
		for _, it := range items {
			if _, name := key(it); name != "" && strings.EqualFold(name, ref) {
				matches = append(matches, it)
			}
		}
	}

	switch len(matches) {
	case 0:
		return zero, fmt.Errorf("%s %q: %w", what, ref, storage.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return zero, fmt.Errorf("%s %q is ambiguous (%d matches)", what, ref, len(matches))
	}
}

// ParseWeekdays parses a comma-separated list of weekday names or numbers
// (0=Sunday).
func ParseWeekdays(s string) ([]time.Weekday, error) {
	dayMap := map[string]time.Weekday{
		"sun": time.Sunday, "sunday": time.Sunday,
		"mon": time.Monday, "monday": time.Monday,
		"tue": time.Tuesday, "tuesday": time.Tuesday,
		"wed": time.Wednesday, "wednesday": time.Wednesday,
		"thu": time.Thursday, "thursday": time.Thursday,
		"fri": time.Friday, "friday": time.Friday,
		"sat": time.Saturday, "saturday": time.Saturday,
	}

	var weekdays []time.Weekday
	for _, part := range strings.Split(s, ",") {
		part = strings.TrimSpace(strings.ToLower(part))
		if part == "" {
			continue
		}
		if wd, ok := dayMap[part]; ok {
			weekdays = append(weekdays, wd)
			continue
		}
		num, err := strconv.Atoi(part)
		if err != nil || num < 0 || num > 6 {
			return nil, fmt.Errorf("invalid weekday: %s", part)
		}
		weekdays = append(weekdays, time.Weekday(num))
	}
	return weekdays, nil
}

// FormatRecurrence renders a rule for humans.
func FormatRecurrence(rec models.Recurrence) string {
	var s string
	switch rec.Kind {
	case models.RecurrenceNone, "":
		return "once"
	case models.RecurrenceWeekly:
		s = "weekly"
		if len(rec.Weekdays) > 0 {
			days := make([]string, 0, len(rec.Weekdays))
			for _, wd := range rec.Weekdays {
				days = append(days, wd.String()[:3])
			}
			s += " on " + strings.Join(days, ",")
		}
	default:
		s = string(rec.Kind)
	}
	if rec.Until != nil {
		s += " until " + rec.Until.String()
	}
	return s
}

// ShortID trims a UUID to its first block for display.
func ShortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}
