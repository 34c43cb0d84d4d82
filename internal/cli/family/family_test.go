package family

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/config"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/scheduler"
	"github.com/julianstephens/hearth/internal/storage"
	"github.com/julianstephens/hearth/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	dir := t.TempDir()
	store := sqlite.NewStore(filepath.Join(dir, "hearth.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	return &cli.Context{
		Store:      store,
		Scheduler:  scheduler.New(store),
		Config:     config.Default(),
		ConfigPath: filepath.Join(dir, "config.toml"),
	}
}

func createFamily(t *testing.T, ctx *cli.Context) {
	t.Helper()
	require.NoError(t, (&FamilyCreateCmd{Name: "Stephens", Owner: "Julian"}).Run(ctx))
}

func TestFamilyCreateCmd_SelectsOwner(t *testing.T) {
	ctx := setupTestContext(t)
	createFamily(t, ctx)

	familyID, err := ctx.FamilyID()
	require.NoError(t, err)
	owner, err := ctx.Store.GetMember(ctx.MemberID())
	require.NoError(t, err)
	assert.Equal(t, familyID, owner.FamilyID)
	assert.Equal(t, models.RoleOwner, owner.Role)

	saved, err := config.LoadOrCreate(ctx.ConfigPath)
	require.NoError(t, err)
	assert.Equal(t, familyID, saved.Family)
	assert.Equal(t, owner.ID, saved.Member)

	require.NoError(t, (&FamilyShowCmd{}).Run(ctx))
}

func TestFamilyJoinCmd(t *testing.T) {
	ctx := setupTestContext(t)
	createFamily(t, ctx)
	familyID, _ := ctx.FamilyID()
	family, err := ctx.Store.GetFamily(familyID)
	require.NoError(t, err)

	joiner := setupTestContext(t)
	joiner.Store = ctx.Store
	joiner.Scheduler = ctx.Scheduler

	require.NoError(t, (&FamilyJoinCmd{Code: family.InviteCode, Name: "Ana", Visitor: true}).Run(joiner))
	me, err := joiner.Store.GetMember(joiner.MemberID())
	require.NoError(t, err)
	assert.Equal(t, models.RoleVisitor, me.Role)
	assert.Equal(t, familyID, joiner.Config.Family)

	err = (&FamilyJoinCmd{Code: "ZZZZZZ", Name: "Bo"}).Run(setupTestContext(t))
	assert.Error(t, err)
}

func TestMemberCommands(t *testing.T) {
	ctx := setupTestContext(t)
	createFamily(t, ctx)

	require.NoError(t, (&MemberAddCmd{Name: "Ana", Role: "member"}).Run(ctx))
	require.NoError(t, (&MemberRoleCmd{Member: "ana", Role: "admin"}).Run(ctx))

	ana, err := ctx.ResolveMember("Ana")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, ana.Role)

	require.NoError(t, (&MemberListCmd{}).Run(ctx))

	assert.Error(t, (&MemberRoleCmd{Member: "Julian", Role: "member"}).Run(ctx), "owner role cannot change")
	assert.Error(t, (&MemberRemoveCmd{Member: "Julian"}).Run(ctx), "cannot remove yourself")

	require.NoError(t, (&MemberRemoveCmd{Member: "Ana"}).Run(ctx))
	_, err = ctx.ResolveMember("Ana")
	assert.True(t, errors.Is(err, storage.ErrNotFound))
}

func TestMemberAddCmd_RequiresManager(t *testing.T) {
	ctx := setupTestContext(t)
	createFamily(t, ctx)
	require.NoError(t, (&MemberAddCmd{Name: "Ana", Role: "member"}).Run(ctx))

	ana, err := ctx.ResolveMember("Ana")
	require.NoError(t, err)
	ctx.Config.Member = ana.ID

	err = (&MemberAddCmd{Name: "Bo", Role: "member"}).Run(ctx)
	assert.ErrorIs(t, err, scheduler.ErrForbidden)
}

func TestCategoryCommands(t *testing.T) {
	ctx := setupTestContext(t)
	createFamily(t, ctx)

	require.NoError(t, (&CategoryAddCmd{Name: "Garden", Icon: "🌱", Color: "#22AA44"}).Run(ctx))
	require.NoError(t, (&CategoryListCmd{}).Run(ctx))

	cat, err := ctx.ResolveCategory("garden")
	require.NoError(t, err)
	assert.False(t, cat.IsDefault)

	require.NoError(t, (&CategoryRemoveCmd{Category: "Garden"}).Run(ctx))
	_, err = ctx.ResolveCategory("Garden")
	assert.ErrorIs(t, err, storage.ErrNotFound)

	assert.Error(t, (&CategoryAddCmd{Name: "Bad", Color: "green"}).Run(ctx))
}

func TestCommands_RequireFamily(t *testing.T) {
	ctx := setupTestContext(t)
	assert.ErrorIs(t, (&FamilyShowCmd{}).Run(ctx), cli.ErrNoFamily)
	assert.ErrorIs(t, (&MemberListCmd{}).Run(ctx), cli.ErrNoFamily)
	assert.ErrorIs(t, (&CategoryListCmd{}).Run(ctx), cli.ErrNoFamily)
}
