package coupon

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validCoupon(t *testing.T, discountType DiscountType, value string) *Coupon {
	t.Helper()
	c, err := NewCoupon("SAVE10", discountType,
		decimal.RequireFromString(value),
		time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	require.NoError(t, err)
	return c
}

func TestNewCoupon(t *testing.T) {
	t.Run("uppercases code", func(t *testing.T) {
		c, err := NewCoupon(" save10 ", DiscountTypeFixed, decimal.NewFromInt(10),
			time.Now(), time.Now().Add(time.Hour))
		require.NoError(t, err)
		assert.Equal(t, "SAVE10", c.Code)
	})

	t.Run("rejects percentage above 100", func(t *testing.T) {
		_, err := NewCoupon("X", DiscountTypePercentage, decimal.NewFromInt(120),
			time.Now(), time.Now().Add(time.Hour))
		assert.Error(t, err)
	})

	t.Run("rejects empty validity window", func(t *testing.T) {
		now := time.Now()
		_, err := NewCoupon("X", DiscountTypeFixed, decimal.NewFromInt(10), now, now)
		assert.Error(t, err)
	})
}

func TestDiscountFor(t *testing.T) {
	now := time.Now()
	subtotal := decimal.NewFromInt(200)

	t.Run("percentage", func(t *testing.T) {
		c := validCoupon(t, DiscountTypePercentage, "10")
		d, err := c.DiscountFor(subtotal, now, 0)
		require.NoError(t, err)
		assert.True(t, d.Equal(decimal.NewFromInt(20)))
	})

	t.Run("percentage capped by max discount", func(t *testing.T) {
		c := validCoupon(t, DiscountTypePercentage, "50")
		cap := decimal.NewFromInt(30)
		c.MaxDiscount = &cap
		d, err := c.DiscountFor(subtotal, now, 0)
		require.NoError(t, err)
		assert.True(t, d.Equal(cap))
	})

	t.Run("fixed capped by subtotal", func(t *testing.T) {
		c := validCoupon(t, DiscountTypeFixed, "500")
		d, err := c.DiscountFor(subtotal, now, 0)
		require.NoError(t, err)
		assert.True(t, d.Equal(subtotal))
	})

	t.Run("inactive", func(t *testing.T) {
		c := validCoupon(t, DiscountTypeFixed, "10")
		c.Deactivate()
		_, err := c.DiscountFor(subtotal, now, 0)
		assert.ErrorIs(t, err, ErrInactive)
	})

	t.Run("outside validity window", func(t *testing.T) {
		c := validCoupon(t, DiscountTypeFixed, "10")
		_, err := c.DiscountFor(subtotal, now.Add(-2*time.Hour), 0)
		assert.ErrorIs(t, err, ErrNotStarted)
		_, err = c.DiscountFor(subtotal, now.Add(2*time.Hour), 0)
		assert.ErrorIs(t, err, ErrExpired)
	})

	t.Run("below minimum purchase", func(t *testing.T) {
		c := validCoupon(t, DiscountTypeFixed, "10")
		c.MinPurchase = decimal.NewFromInt(300)
		_, err := c.DiscountFor(subtotal, now, 0)
		assert.ErrorIs(t, err, ErrMinPurchase)
	})

	t.Run("global limit reached", func(t *testing.T) {
		c := validCoupon(t, DiscountTypeFixed, "10")
		limit := 2
		c.UsageLimit = &limit
		c.RecordUsage()
		c.RecordUsage()
		_, err := c.DiscountFor(subtotal, now, 0)
		assert.ErrorIs(t, err, ErrLimitReached)
	})

	t.Run("per user limit reached", func(t *testing.T) {
		c := validCoupon(t, DiscountTypeFixed, "10")
		_, err := c.DiscountFor(subtotal, now, 1)
		assert.ErrorIs(t, err, ErrUserLimit)
	})
}
