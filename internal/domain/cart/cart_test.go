package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCartAddItem(t *testing.T) {
	c := NewCart(uuid.New())
	productID := uuid.New()

	require.NoError(t, c.AddItem(productID, "Mug", decimal.NewFromInt(59), 2, ""))
	require.Len(t, c.Items, 1)
	assert.Equal(t, 2, c.TotalQuantity())

	t.Run("merges duplicate product", func(t *testing.T) {
		require.NoError(t, c.AddItem(productID, "Mug", decimal.NewFromInt(65), 1, ""))
		require.Len(t, c.Items, 1)
		assert.Equal(t, 3, c.Items[0].Quantity)
		assert.True(t, c.Items[0].UnitPrice.Equal(decimal.NewFromInt(59)),
			"merge keeps the original price snapshot")
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		assert.Error(t, c.AddItem(uuid.New(), "Plate", decimal.NewFromInt(30), 0, ""))
	})
}

func TestCartUpdateItemQuantity(t *testing.T) {
	c := NewCart(uuid.New())
	productID := uuid.New()
	require.NoError(t, c.AddItem(productID, "Mug", decimal.NewFromInt(59), 2, ""))

	require.NoError(t, c.UpdateItemQuantity(productID, 5))
	assert.Equal(t, 5, c.Items[0].Quantity)

	t.Run("zero removes the line", func(t *testing.T) {
		require.NoError(t, c.UpdateItemQuantity(productID, 0))
		assert.True(t, c.IsEmpty())
	})

	t.Run("unknown product errors", func(t *testing.T) {
		assert.Error(t, c.UpdateItemQuantity(uuid.New(), 1))
	})
}

func TestCartSubtotal(t *testing.T) {
	c := NewCart(uuid.New())
	require.NoError(t, c.AddItem(uuid.New(), "Mug", decimal.RequireFromString("59.50"), 2, ""))
	require.NoError(t, c.AddItem(uuid.New(), "Plate", decimal.RequireFromString("30.00"), 1, ""))

	assert.True(t, c.Subtotal().Equal(decimal.RequireFromString("149.00")))

	c.Clear()
	assert.True(t, c.Subtotal().IsZero())
	assert.True(t, c.IsEmpty())
}
