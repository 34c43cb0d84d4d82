package shopping

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/julianstephens/hearth/internal/cli"
	"github.com/julianstephens/hearth/internal/config"
	"github.com/julianstephens/hearth/internal/models"
	"github.com/julianstephens/hearth/internal/scheduler"
	"github.com/julianstephens/hearth/internal/storage/sqlite"
)

func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "hearth.db"))
	require.NoError(t, store.Init())
	t.Cleanup(func() { _ = store.Close() })

	sched := scheduler.New(store)
	family, owner, err := sched.CreateFamily("Stephens", models.Member{Name: "Julian"})
	require.NoError(t, err)

	cfg := config.Default()
	cfg.Family = family.ID
	cfg.Member = owner.ID
	return &cli.Context{Store: store, Scheduler: sched, Config: cfg}
}

func TestShoppingCommands(t *testing.T) {
	ctx := setupTestContext(t)

	require.NoError(t, (&ShopAddCmd{Name: "Milk", Quantity: 2}).Run(ctx))
	require.NoError(t, (&ShopAddCmd{Name: "Bread", Quantity: 1}).Run(ctx))
	require.NoError(t, (&ShopListCmd{}).Run(ctx))

	require.NoError(t, (&ShopToggleCmd{Item: "milk"}).Run(ctx))
	milk, err := ctx.ResolveShoppingItem("Milk")
	require.NoError(t, err)
	assert.True(t, milk.Purchased)
	assert.Equal(t, ctx.MemberID(), milk.PurchasedBy)
	assert.Equal(t, 2, milk.Quantity)

	require.NoError(t, (&ShopListCmd{All: true}).Run(ctx))

	require.NoError(t, (&ShopToggleCmd{Item: milk.ID}).Run(ctx))
	milk, err = ctx.ResolveShoppingItem(milk.ID)
	require.NoError(t, err)
	assert.False(t, milk.Purchased)
	assert.Nil(t, milk.PurchasedAt)

	require.NoError(t, (&ShopRemoveCmd{Item: "Bread"}).Run(ctx))
	items, err := ctx.Store.ListShoppingItems(ctx.Config.Family)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestShopAddCmd_Rejects(t *testing.T) {
	ctx := setupTestContext(t)
	assert.Error(t, (&ShopAddCmd{Name: "  ", Quantity: 1}).Run(ctx))
	assert.Error(t, (&ShopAddCmd{Name: "Eggs", Quantity: -3}).Run(ctx))
	assert.Error(t, (&ShopToggleCmd{Item: "Nothing"}).Run(ctx))

	ctx.Config.Family = ""
	assert.ErrorIs(t, (&ShopListCmd{}).Run(ctx), cli.ErrNoFamily)
}
