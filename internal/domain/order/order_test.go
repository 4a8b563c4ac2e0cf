package order

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/boutique/backend/internal/domain/shared"
)

func testItems() []Item {
	return []Item{
		{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Title:      "Mug",
			UnitPrice:  decimal.RequireFromString("59.50"),
			Quantity:   2,
		},
		{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  uuid.New(),
			Title:      "Plate",
			UnitPrice:  decimal.RequireFromString("31.00"),
			Quantity:   1,
		},
	}
}

func TestNewOrder(t *testing.T) {
	t.Run("computes totals", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), testItems(), Address{City: "Maseru"}, "SAVE10",
			decimal.NewFromInt(10), decimal.NewFromInt(20))
		require.NoError(t, err)

		assert.True(t, o.Subtotal.Equal(decimal.RequireFromString("150.00")))
		assert.True(t, o.Total.Equal(decimal.RequireFromString("120.00")))
		assert.Equal(t, PaymentStatusPending, o.PaymentStatus)
		assert.Equal(t, ShippingStatusPending, o.ShippingStatus)
		assert.True(t, strings.HasPrefix(o.Reference, "ORD-"))
		assert.Equal(t, 3, o.TotalQuantity())
		for _, item := range o.Items {
			assert.Equal(t, o.ID, item.OrderID)
		}
	})

	t.Run("total never negative", func(t *testing.T) {
		o, err := NewOrder(uuid.New(), testItems(), Address{}, "",
			decimal.NewFromInt(100), decimal.NewFromInt(100))
		require.NoError(t, err)
		assert.True(t, o.Total.IsZero())
	})

	t.Run("rejects empty order", func(t *testing.T) {
		_, err := NewOrder(uuid.New(), nil, Address{}, "", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		items := testItems()
		items[0].Quantity = 0
		_, err := NewOrder(uuid.New(), items, Address{}, "", decimal.Zero, decimal.Zero)
		assert.Error(t, err)
	})
}

func TestPaymentProofFlow(t *testing.T) {
	o, err := NewOrder(uuid.New(), testItems(), Address{}, "", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.Error(t, o.ApprovePayment(), "no proof submitted yet")

	require.NoError(t, o.AttachPaymentProof("proofs/abc.jpg"))
	assert.Equal(t, PaymentStatusProofSubmitted, o.PaymentStatus)
	require.NotNil(t, o.ProofSubmittedAt)

	assert.Error(t, o.Cancel(), "cannot cancel while proof is under review")

	require.NoError(t, o.RejectPayment("amount mismatch"))
	assert.Equal(t, "amount mismatch", o.RejectionReason)
	assert.True(t, o.AwaitingPayment())

	require.NoError(t, o.AttachPaymentProof("proofs/def.jpg"))
	assert.Empty(t, o.RejectionReason, "resubmission clears the rejection")

	require.NoError(t, o.ApprovePayment())
	assert.Equal(t, PaymentStatusPaid, o.PaymentStatus)
	assert.Equal(t, ShippingStatusProcessing, o.ShippingStatus)
	require.NotNil(t, o.PaidAt)

	assert.Error(t, o.AttachPaymentProof("proofs/ghi.jpg"), "paid is terminal")
	assert.Error(t, o.Cancel())
}

func TestCancel(t *testing.T) {
	o, err := NewOrder(uuid.New(), testItems(), Address{}, "", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, o.Cancel())
	assert.Equal(t, PaymentStatusCancelled, o.PaymentStatus)
	assert.Equal(t, ShippingStatusCancelled, o.ShippingStatus)
	assert.Error(t, o.Cancel())
}

func TestUpdateShippingStatus(t *testing.T) {
	o, err := NewOrder(uuid.New(), testItems(), Address{}, "", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	assert.Error(t, o.UpdateShippingStatus(ShippingStatusShipped), "unpaid orders do not ship")

	require.NoError(t, o.AttachPaymentProof("proofs/abc.jpg"))
	require.NoError(t, o.ApprovePayment())

	assert.Error(t, o.UpdateShippingStatus(ShippingStatusDelivered), "cannot skip shipped")
	require.NoError(t, o.UpdateShippingStatus(ShippingStatusShipped))
	require.NoError(t, o.UpdateShippingStatus(ShippingStatusDelivered))
	assert.Error(t, o.UpdateShippingStatus(ShippingStatusPending))
}

func TestStatusTransitions(t *testing.T) {
	assert.True(t, PaymentStatusPending.CanTransitionTo(PaymentStatusProofSubmitted))
	assert.False(t, PaymentStatusPending.CanTransitionTo(PaymentStatusPaid))
	assert.False(t, PaymentStatusPaid.CanTransitionTo(PaymentStatusCancelled))
	assert.True(t, PaymentStatusRejected.CanTransitionTo(PaymentStatusProofSubmitted))

	assert.True(t, ShippingStatusPending.CanTransitionTo(ShippingStatusCancelled))
	assert.False(t, ShippingStatusDelivered.CanTransitionTo(ShippingStatusPending))

	assert.False(t, PaymentStatus("bogus").IsValid())
	assert.False(t, ShippingStatus("bogus").IsValid())
}
