package cart

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestTotalsCountOnlyActiveItems(t *testing.T) {
	c := New("cart-1", "user-1")
	_, err := c.AddItem("i1", "p", "Pen", 2, dec("10.00"))
	require.NoError(t, err)
	_, err = c.AddItem("i2", "q", "Quill", 1, dec("5.00"))
	require.NoError(t, err)
	_, err = c.AddItem("i3", "r", "Ruler", 4, dec("1.25"))
	require.NoError(t, err)
	require.NoError(t, c.RemoveItem("i3"))

	assert.True(t, c.Total().Equal(dec("25.00")))
	assert.Equal(t, 3, c.Count())
	assert.Len(t, c.ActiveItems(), 2)
}

func TestAddItemMergesIntoActiveLine(t *testing.T) {
	c := New("cart-1", "user-1")
	_, err := c.AddItem("i1", "p", "Pen", 2, dec("10.00"))
	require.NoError(t, err)

	line, err := c.AddItem("ignored", "p", "Pen", 3, dec("12.00"))
	require.NoError(t, err)

	assert.Equal(t, "i1", line.ID)
	assert.Equal(t, 5, line.Quantity)
	assert.True(t, line.UnitPrice.Equal(dec("10.00")), "price captured on first add")
	assert.Len(t, c.Items, 1)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := New("cart-1", "user-1")
	_, err := c.AddItem("i1", "p", "Pen", 0, dec("1"))
	assert.ErrorIs(t, err, ErrInvalidQuantity)
}

func TestRestoreItem(t *testing.T) {
	c := New("cart-1", "user-1")
	_, _ = c.AddItem("i1", "p", "Pen", 1, dec("1"))
	require.NoError(t, c.RemoveItem("i1"))

	_, err := c.AddItem("i2", "p", "Pen", 2, dec("1"))
	require.NoError(t, err)
	_, err = c.RestoreItem("i1")
	assert.ErrorIs(t, err, ErrDuplicateItem)

	require.NoError(t, c.RemoveItem("i2"))
	line, err := c.RestoreItem("i1")
	require.NoError(t, err)
	assert.True(t, line.Active)
}

func TestFrozenCartRejectsEdits(t *testing.T) {
	c := New("cart-1", "user-1")
	_, _ = c.AddItem("i1", "p", "Pen", 1, dec("1"))
	c.Freeze()

	_, err := c.AddItem("i2", "q", "Quill", 1, dec("1"))
	assert.ErrorIs(t, err, ErrInactive)
	assert.ErrorIs(t, c.RemoveItem("i1"), ErrInactive)
	_, err = c.RestoreItem("i1")
	assert.ErrorIs(t, err, ErrInactive)

	assert.Equal(t, 1, c.DeactivateItems())
	assert.Empty(t, c.ActiveItems())
}

func TestCloneIsDeep(t *testing.T) {
	c := New("cart-1", "user-1")
	_, _ = c.AddItem("i1", "p", "Pen", 1, dec("1"))

	clone := c.Clone()
	clone.Items[0].Quantity = 9

	assert.Equal(t, 1, c.Items[0].Quantity)
}
