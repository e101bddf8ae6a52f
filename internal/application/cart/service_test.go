package cart

import (
	"context"
	"fmt"
	"testing"

	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/catalog"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/domain/identity"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/minishop-checkout/app/internal/pkg/apperr"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type counterIDs struct{ n int }

func (c *counterIDs) NewID() string {
	c.n++
	return fmt.Sprintf("id-%d", c.n)
}

func newService(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewDirectory(
		identity.User{ID: "u-1", Email: "a@example.com", Active: true},
		identity.User{ID: "u-off", Active: false},
	)
	products := memory.NewCatalog(
		catalog.Product{ID: "P", Name: "Lamp", Price: decimal.RequireFromString("10.00"), Active: true},
		catalog.Product{ID: "OLD", Name: "Retired", Price: decimal.RequireFromString("1.00"), Active: false},
	)
	return NewService(store, users, products, &counterIDs{}, nil), store
}

func TestActiveCartIsCreatedOnce(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	first, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)
	second, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.True(t, second.Active)
}

func TestActiveCartUnknownOrInactiveUser(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()

	_, err := svc.ActiveCart(ctx, "ghost")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.ActiveCart(ctx, "u-off")
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.ActiveCart(ctx, " ")
	require.ErrorIs(t, err, apperr.ErrValidation)
}

func TestAddItemMergesSameProduct(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 1})
	require.NoError(t, err)
	c, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 2})
	require.NoError(t, err)

	require.Len(t, c.ActiveItems(), 1)
	assert.Equal(t, 3, c.ActiveItems()[0].Quantity)
	assert.True(t, decimal.RequireFromString("30.00").Equal(c.Total()))
}

func TestAddItemRejectsBadInput(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 0})
	require.ErrorIs(t, err, apperr.ErrValidation)
	_, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "missing", Quantity: 1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
	_, err = svc.AddItem(ctx, AddItemInput{CartID: "nope", ProductID: "P", Quantity: 1})
	require.ErrorIs(t, err, apperr.ErrNotFound)
}

func TestRemoveAndRestoreItem(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)
	c, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 1})
	require.NoError(t, err)
	itemID := c.ActiveItems()[0].ID

	c, err = svc.RemoveItem(ctx, c.ID, itemID)
	require.NoError(t, err)
	assert.Empty(t, c.ActiveItems())
	assert.True(t, c.Total().IsZero())

	_, err = svc.UpdateQuantity(ctx, c.ID, itemID, 4)
	require.ErrorIs(t, err, apperr.ErrNotFound)

	c, err = svc.RestoreItem(ctx, c.ID, itemID)
	require.NoError(t, err)
	require.Len(t, c.ActiveItems(), 1)

	c, err = svc.UpdateQuantity(ctx, c.ID, itemID, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, c.ActiveItems()[0].Quantity)
}

func TestRestoreItemConflictsWithNewLine(t *testing.T) {
	svc, _ := newService(t)
	ctx := context.Background()
	c, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)
	c, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 1})
	require.NoError(t, err)
	oldLine := c.ActiveItems()[0].ID
	_, err = svc.RemoveItem(ctx, c.ID, oldLine)
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 2})
	require.NoError(t, err)

	_, err = svc.RestoreItem(ctx, c.ID, oldLine)
	require.ErrorIs(t, err, apperr.ErrConflict)
}

func TestClearDeactivatesLines(t *testing.T) {
	svc, store := newService(t)
	ctx := context.Background()
	c, err := svc.ActiveCart(ctx, "u-1")
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, AddItemInput{CartID: c.ID, ProductID: "P", Quantity: 1})
	require.NoError(t, err)

	_, err = svc.Clear(ctx, c.ID)
	require.NoError(t, err)

	stored, err := store.Repositories().Carts.Get(ctx, c.ID)
	require.NoError(t, err)
	assert.Empty(t, stored.ActiveItems())
	assert.Len(t, stored.Items, 1)
	assert.True(t, stored.Active)
}
