package order

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boutique/backend/internal/domain/order"
	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
)

func pendingOrder(t *testing.T, userID uuid.UUID, total string) *order.Order {
	t.Helper()
	o, err := order.NewOrder(userID, []order.Item{{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  uuid.New(),
		Title:      "Serum",
		UnitPrice:  decimal.RequireFromString(total),
		Quantity:   1,
	}}, order.Address{}, "", decimal.Zero, decimal.Zero)
	require.NoError(t, err)
	return o
}

func TestProofFlow(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	wallets := new(MockWalletRepository)
	storage := newFakeProofStorage()
	svc := NewPaymentService(orders, wallets, storage, 10*time.Minute, nil)

	userID := uuid.New()
	o := pendingOrder(t, userID, "250.00")
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	orders.On("Save", mock.Anything, o).Return(nil)

	ticket, err := svc.RequestProofUpload(ctx, o.ID, userID, "image/jpeg")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(ticket.StorageKey, "payment-proofs/"+o.ID.String()+"/"))

	resp, err := svc.SubmitProof(ctx, o.ID, userID, SubmitProofInput{StorageKey: ticket.StorageKey})
	require.NoError(t, err)
	assert.Equal(t, string(order.PaymentStatusProofSubmitted), resp.PaymentStatus)
	assert.NotNil(t, resp.ProofSubmittedAt)

	download, err := svc.ProofDownloadURL(ctx, o.ID)
	require.NoError(t, err)
	assert.Contains(t, download.DownloadURL, ticket.StorageKey)
}

func TestRequestProofUploadRejectsForeignOrder(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewPaymentService(orders, new(MockWalletRepository), newFakeProofStorage(), 0, nil)

	o := pendingOrder(t, uuid.New(), "100.00")
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := svc.RequestProofUpload(ctx, o.ID, uuid.New(), "image/png")
	assert.ErrorIs(t, err, shared.ErrForbidden)
}

func TestSubmitProofRejectsForeignStorageKey(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewPaymentService(orders, new(MockWalletRepository), newFakeProofStorage(), 0, nil)

	userID := uuid.New()
	o := pendingOrder(t, userID, "100.00")
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := svc.SubmitProof(ctx, o.ID, userID, SubmitProofInput{
		StorageKey: "payment-proofs/" + uuid.NewString() + "/other.jpg",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestSubmitProofRequiresUploadedObject(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewPaymentService(orders, new(MockWalletRepository), newFakeProofStorage(), 0, nil)

	userID := uuid.New()
	o := pendingOrder(t, userID, "100.00")
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := svc.SubmitProof(ctx, o.ID, userID, SubmitProofInput{
		StorageKey: "payment-proofs/" + o.ID.String() + "/missing.jpg",
	})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "PROOF_NOT_UPLOADED", domainErr.Code)
}

func TestApproveAccruesLoyaltyPoints(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	wallets := new(MockWalletRepository)
	storage := newFakeProofStorage()
	svc := NewPaymentService(orders, wallets, storage, 0, nil)

	userID := uuid.New()
	o := pendingOrder(t, userID, "255.00")
	storage.objects["payment-proofs/"+o.ID.String()+"/p.jpg"] = true
	require.NoError(t, o.AttachPaymentProof("payment-proofs/"+o.ID.String()+"/p.jpg"))

	userWallet := wallet.NewWallet(userID)
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	orders.On("SaveWithEvents", mock.Anything, o, mock.Anything).Return(nil)
	wallets.On("FindByUserID", mock.Anything, userID).Return(userWallet, nil)
	wallets.On("Save", mock.Anything, userWallet).Return(nil)

	resp, err := svc.Approve(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, string(order.PaymentStatusPaid), resp.PaymentStatus)
	assert.Equal(t, string(order.ShippingStatusProcessing), resp.ShippingStatus)
	assert.NotNil(t, resp.PaidAt)
	// One point per ten currency units: floor(255 / 10) = 25
	assert.Equal(t, 25, userWallet.LoyaltyPoints)
}

func TestApproveWithoutProofFails(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewPaymentService(orders, new(MockWalletRepository), newFakeProofStorage(), 0, nil)

	o := pendingOrder(t, uuid.New(), "100.00")
	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)

	_, err := svc.Approve(ctx, o.ID)
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}

func TestRejectAllowsResubmission(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	storage := newFakeProofStorage()
	svc := NewPaymentService(orders, new(MockWalletRepository), storage, 0, nil)

	userID := uuid.New()
	o := pendingOrder(t, userID, "100.00")
	key := "payment-proofs/" + o.ID.String() + "/p.jpg"
	storage.objects[key] = true
	require.NoError(t, o.AttachPaymentProof(key))

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	orders.On("SaveWithEvents", mock.Anything, o, mock.Anything).Return(nil)
	orders.On("Save", mock.Anything, o).Return(nil)

	resp, err := svc.Reject(ctx, o.ID, RejectPaymentInput{Reason: "Amount does not match"})
	require.NoError(t, err)
	assert.Equal(t, string(order.PaymentStatusRejected), resp.PaymentStatus)
	assert.Equal(t, "Amount does not match", resp.RejectionReason)

	// The customer can upload and submit a replacement proof
	ticket, err := svc.RequestProofUpload(ctx, o.ID, userID, "application/pdf")
	require.NoError(t, err)
	resubmitted, err := svc.SubmitProof(ctx, o.ID, userID, SubmitProofInput{StorageKey: ticket.StorageKey})
	require.NoError(t, err)
	assert.Equal(t, string(order.PaymentStatusProofSubmitted), resubmitted.PaymentStatus)
	assert.Empty(t, resubmitted.RejectionReason)
}

func TestUpdateShipping(t *testing.T) {
	ctx := context.Background()
	orders := new(MockOrderRepository)
	svc := NewPaymentService(orders, new(MockWalletRepository), newFakeProofStorage(), 0, nil)

	o := pendingOrder(t, uuid.New(), "100.00")
	require.NoError(t, o.AttachPaymentProof("payment-proofs/"+o.ID.String()+"/p.jpg"))
	require.NoError(t, o.ApprovePayment())

	orders.On("FindByID", mock.Anything, o.ID).Return(o, nil)
	orders.On("Save", mock.Anything, o).Return(nil)

	resp, err := svc.UpdateShipping(ctx, o.ID, UpdateShippingInput{Status: "shipped"})
	require.NoError(t, err)
	assert.Equal(t, string(order.ShippingStatusShipped), resp.ShippingStatus)

	_, err = svc.UpdateShipping(ctx, o.ID, UpdateShippingInput{Status: "processing"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_STATE", domainErr.Code)
}
