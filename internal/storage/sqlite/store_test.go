package sqlite

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/hearth/internal/calendar"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/storage"
)

var created = time.Date(2025, 3, 1, 9, 0, 0, 0, time.Local)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	s := NewStore(filepath.Join(t.TempDir(), "hearth.db"))
	require.NoError(t, s.Init())
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func seedFamily(t *testing.T, s *Store) (models.Family, models.Member) {
	t.Helper()
	f := models.Family{ID: "fam", Name: "Stephens", InviteCode: "ab12cd", CreatedAt: created}
	require.NoError(t, s.CreateFamily(f))
	m := models.Member{ID: "m1", FamilyID: f.ID, Name: "Julian", Role: models.RoleOwner, JoinedAt: created}
	require.NoError(t, s.AddMember(m))
	return f, m
}

func occurrence(id, series string, day int, at *calendar.TimeOfDay) models.Task {
	d := calendar.Date{Year: 2025, Month: 3, Day: day}
	return models.Task{
		ID:         id,
		FamilyID:   "fam",
		SeriesID:   series,
		Title:      "Water plants",
		DueDate:    &d,
		DueTime:    at,
		Recurrence: models.RecurrenceDaily,
		Priority:   models.PriorityMedium,
		Status:     models.StatusPending,
		CreatedAt:  created,
		UpdatedAt:  created,
	}
}

func TestInitIsIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "hearth.db")
	s := NewStore(path)
	require.NoError(t, s.Init())
	require.NoError(t, s.Close())

	again := NewStore(path)
	require.NoError(t, again.Init())
	require.NoError(t, again.Close())

	loaded := NewStore(path)
	require.NoError(t, loaded.Load())
	defer loaded.Close()
	families, err := loaded.ListFamilies()
	require.NoError(t, err)
	assert.Empty(t, families)
}

func TestLoad_Uninitialized(t *testing.T) {
	s := NewStore(filepath.Join(t.TempDir(), "missing.db"))
	assert.Error(t, s.Load())
}

func TestFamilyAndMembers(t *testing.T) {
	s := setupTestStore(t)
	f, owner := seedFamily(t, s)

	got, err := s.GetFamilyByInviteCode(" AB12cd ")
	require.NoError(t, err)
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "AB12CD", got.InviteCode)
	assert.True(t, got.CreatedAt.Equal(created))

	_, err = s.GetFamily("nope")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	owner.Role = models.RoleAdmin
	owner.Color = "#FF0000"
	require.NoError(t, s.UpdateMember(owner))
	m, err := s.GetMember(owner.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, m.Role)
	assert.Equal(t, "#FF0000", m.Color)

	bad := models.Member{ID: "m2", FamilyID: f.ID, Name: "X", Role: "boss", JoinedAt: created}
	assert.Error(t, s.AddMember(bad), "role CHECK constraint")

	assert.ErrorIs(t, s.DeleteMember("ghost"), storage.ErrNotFound)
}

func TestCreateTask_DuplicateSlotIsSkipped(t *testing.T) {
	s := setupTestStore(t)
	_, owner := seedFamily(t, s)
	eight := &calendar.TimeOfDay{Hour: 8}

	ok, err := s.CreateTask(occurrence("t1", "series", 1, eight), []string{owner.ID})
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.CreateTask(occurrence("t2", "series", 1, eight), []string{owner.ID})
	require.NoError(t, err)
	assert.False(t, ok, "same series, date and time")

	ok, err = s.CreateTask(occurrence("t3", "series", 1, &calendar.TimeOfDay{Hour: 18}), nil)
	require.NoError(t, err)
	assert.True(t, ok, "different time is a different slot")

	ok, err = s.CreateTask(occurrence("t4", "", 1, eight), nil)
	require.NoError(t, err)
	assert.True(t, ok, "tasks without a series are never deduplicated")

	tasks, err := s.ListTasks("fam")
	require.NoError(t, err)
	assert.Len(t, tasks, 3)

	assignments, err := s.ListAssignments("fam")
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, "t1", assignments[0].TaskID)
}

func TestCreateTask_UndatedSeriesDeduplicates(t *testing.T) {
	s := setupTestStore(t)
	seedFamily(t, s)

	undated := occurrence("t1", "series", 1, nil)
	undated.DueDate = nil
	ok, err := s.CreateTask(undated, nil)
	require.NoError(t, err)
	assert.True(t, ok)

	undated.ID = "t2"
	ok, err = s.CreateTask(undated, nil)
	require.NoError(t, err)
	assert.False(t, ok)

	got, err := s.GetTask("t1")
	require.NoError(t, err)
	assert.Nil(t, got.DueDate)
	assert.Nil(t, got.DueTime)
}

func TestCreateTask_FailedAssignmentRollsBack(t *testing.T) {
	s := setupTestStore(t)
	seedFamily(t, s)

	_, err := s.CreateTask(occurrence("t1", "series", 1, nil), []string{"not-a-member"})
	require.Error(t, err)

	_, err = s.GetTask("t1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateTaskWithAssignments(t *testing.T) {
	s := setupTestStore(t)
	f, owner := seedFamily(t, s)
	other := models.Member{ID: "m2", FamilyID: f.ID, Name: "Sam", Role: models.RoleMember, JoinedAt: created}
	require.NoError(t, s.AddMember(other))

	task := occurrence("t1", "series", 1, nil)
	_, err := s.CreateTask(task, []string{owner.ID})
	require.NoError(t, err)

	done := created.Add(time.Hour)
	task.Status = models.StatusCompleted
	task.CompletedBy = other.ID
	task.CompletedAt = &done
	task.UpdatedAt = done
	require.NoError(t, s.UpdateTaskWithAssignments(task, []string{other.ID, other.ID}))

	got, err := s.GetTask("t1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusCompleted, got.Status)
	require.NotNil(t, got.CompletedAt)
	assert.True(t, got.CompletedAt.Equal(done))

	assignments, err := s.ListAssignments(f.ID)
	require.NoError(t, err)
	require.Len(t, assignments, 1)
	assert.Equal(t, other.ID, assignments[0].MemberID)

	missing := occurrence("ghost", "", 2, nil)
	assert.ErrorIs(t, s.UpdateTask(missing), storage.ErrNotFound)
}

func TestDeleteMember_RemovesAssignments(t *testing.T) {
	s := setupTestStore(t)
	f, owner := seedFamily(t, s)
	_, err := s.CreateTask(occurrence("t1", "series", 1, nil), []string{owner.ID})
	require.NoError(t, err)

	require.NoError(t, s.DeleteMember(owner.ID))
	assignments, err := s.ListAssignments(f.ID)
	require.NoError(t, err)
	assert.Empty(t, assignments)

	_, err = s.GetTask("t1")
	assert.NoError(t, err, "tasks outlive their assignees")
}

func TestCategories(t *testing.T) {
	s := setupTestStore(t)
	f, _ := seedFamily(t, s)

	require.NoError(t, s.AddCategory(models.Category{ID: "c1", FamilyID: f.ID, Name: "Work", IsDefault: true}))
	require.NoError(t, s.AddCategory(models.Category{ID: "c2", FamilyID: f.ID, Name: "Garden"}))
	require.NoError(t, s.AddCategory(models.Category{ID: "c3", FamilyID: f.ID, Name: "Home", IsDefault: true}))

	cats, err := s.ListCategories(f.ID)
	require.NoError(t, err)
	names := make([]string, 0, len(cats))
	for _, c := range cats {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"Home", "Work", "Garden"}, names)

	task := occurrence("t1", "", 1, nil)
	task.CategoryID = "c2"
	_, err = s.CreateTask(task, nil)
	require.NoError(t, err)

	require.NoError(t, s.DeleteCategory("c2"))
	got, err := s.GetTask("t1")
	require.NoError(t, err)
	assert.Empty(t, got.CategoryID)

	assert.ErrorIs(t, s.DeleteCategory("c2"), storage.ErrNotFound)
}

func TestShoppingItems(t *testing.T) {
	s := setupTestStore(t)
	f, owner := seedFamily(t, s)

	milk := models.ShoppingItem{ID: "i1", FamilyID: f.ID, Name: "Milk", Quantity: 2, CreatedAt: created}
	eggs := models.ShoppingItem{ID: "i2", FamilyID: f.ID, Name: "Eggs", Quantity: 1, CreatedAt: created.Add(time.Minute)}
	require.NoError(t, s.AddShoppingItem(milk))
	require.NoError(t, s.AddShoppingItem(eggs))

	eggs.TogglePurchased(owner.ID, created.Add(time.Hour))
	require.NoError(t, s.UpdateShoppingItem(eggs))

	items, err := s.ListShoppingItems(f.ID)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Milk", items[0].Name, "unpurchased items first")
	assert.True(t, items[1].Purchased)
	assert.Equal(t, owner.ID, items[1].PurchasedBy)
	require.NotNil(t, items[1].PurchasedAt)

	require.NoError(t, s.DeleteShoppingItem("i1"))
	_, err = s.GetShoppingItem("i1")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}
