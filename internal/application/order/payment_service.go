package order

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/order"
	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
	"github.com/boutique/backend/internal/infrastructure/telemetry"
)

// ProofStorage is the slice of object storage the payment flow needs
type ProofStorage interface {
	GenerateUploadURL(ctx context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error)
	GenerateDownloadURL(ctx context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error)
	ObjectExists(ctx context.Context, storageKey string) (bool, error)
}

var allowedProofTypes = map[string]string{
	"image/jpeg":      ".jpg",
	"image/png":       ".png",
	"image/webp":      ".webp",
	"application/pdf": ".pdf",
}

// Customers pay off-platform (bank transfer, mobile money) and upload a
// proof of payment; an admin reviews the proof and approves or rejects it.
// PaymentService drives that review loop.
type PaymentService struct {
	orders     order.Repository
	wallets    wallet.Repository
	storage    ProofStorage
	events     shared.EventPublisher
	expiresIn  time.Duration
	loyaltyDiv decimal.Decimal
	logger     *zap.Logger
}

// NewPaymentService creates a new payment review service
func NewPaymentService(orders order.Repository, wallets wallet.Repository, storage ProofStorage, expiresIn time.Duration, logger *zap.Logger) *PaymentService {
	if expiresIn <= 0 {
		expiresIn = 15 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{
		orders:     orders,
		wallets:    wallets,
		storage:    storage,
		expiresIn:  expiresIn,
		loyaltyDiv: decimal.NewFromInt(10),
		logger:     logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PaymentService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *PaymentService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

// RequestProofUpload issues a presigned upload destination for a payment
// proof. Only the order owner may upload, and only while payment is open.
func (s *PaymentService) RequestProofUpload(ctx context.Context, orderID, userID uuid.UUID, contentType string) (*ProofUploadResponse, error) {
	o, err := s.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !o.AwaitingPayment() {
		return nil, shared.NewDomainError("INVALID_STATE", "Order is not awaiting payment")
	}
	ext, ok := allowedProofTypes[strings.ToLower(contentType)]
	if !ok {
		return nil, shared.NewDomainError("UNSUPPORTED_MEDIA_TYPE", "Proof must be a JPEG, PNG, WebP or PDF file")
	}

	storageKey := path.Join("payment-proofs", o.ID.String(), fmt.Sprintf("%s%s", uuid.NewString(), ext))
	uploadURL, expiresAt, err := s.storage.GenerateUploadURL(ctx, storageKey, contentType, s.expiresIn)
	if err != nil {
		return nil, err
	}
	return &ProofUploadResponse{
		StorageKey: storageKey,
		UploadURL:  uploadURL,
		ExpiresAt:  expiresAt,
	}, nil
}

// SubmitProof attaches an uploaded proof to the order and moves it into
// review
func (s *PaymentService) SubmitProof(ctx context.Context, orderID, userID uuid.UUID, input SubmitProofInput) (*OrderResponse, error) {
	o, err := s.ownedOrder(ctx, orderID, userID)
	if err != nil {
		return nil, err
	}
	if !strings.HasPrefix(input.StorageKey, "payment-proofs/"+o.ID.String()+"/") {
		return nil, shared.NewDomainError("INVALID_INPUT", "Storage key does not belong to this order")
	}
	exists, err := s.storage.ObjectExists(ctx, input.StorageKey)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, shared.NewDomainError("PROOF_NOT_UPLOADED", "No uploaded file found for this storage key")
	}

	if err := o.AttachPaymentProof(input.StorageKey); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}

	s.logger.Info("Payment proof submitted", zap.String("reference", o.Reference))
	resp := NewOrderResponse(o)
	return &resp, nil
}

// ProofDownloadURL returns a time-limited link to a submitted proof for
// admin review
func (s *PaymentService) ProofDownloadURL(ctx context.Context, orderID uuid.UUID) (*ProofDownloadResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.ProofKey == "" {
		return nil, shared.NewDomainError("NO_PROOF", "No payment proof has been submitted")
	}
	url, expiresAt, err := s.storage.GenerateDownloadURL(ctx, o.ProofKey, s.expiresIn)
	if err != nil {
		return nil, err
	}
	return &ProofDownloadResponse{DownloadURL: url, ExpiresAt: expiresAt}, nil
}

// Approve marks the order paid and accrues loyalty points, one point per
// ten currency units of the paid total.
func (s *PaymentService) Approve(ctx context.Context, orderID uuid.UUID) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "approve",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.ApprovePayment(); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	paid := order.NewOrderPaidEvent(o)
	if err := s.orders.SaveWithEvents(ctx, o, paid); err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}
	telemetry.SetAttribute(span, telemetry.SpanAttrOrderReference, o.Reference)

	points := int(o.Total.Div(s.loyaltyDiv).IntPart())
	if points > 0 {
		if err := s.accruePoints(ctx, o, points); err != nil {
			s.logger.Error("Failed to accrue loyalty points",
				zap.String("order_id", o.ID.String()), zap.Error(err))
		}
	}

	s.publish(ctx, paid)

	s.logger.Info("Payment approved",
		zap.String("reference", o.Reference),
		zap.Int("loyalty_points", points))
	resp := NewOrderResponse(o)
	return &resp, nil
}

// Reject sends the proof back to the customer with a reason; the customer
// may upload a replacement.
func (s *PaymentService) Reject(ctx context.Context, orderID uuid.UUID, input RejectPaymentInput) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "payment", "reject",
		telemetry.WithAttribute(telemetry.SpanAttrOrderID, orderID.String()))
	defer span.End()

	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.RejectPayment(input.Reason); err != nil {
		return nil, err
	}
	rejected := order.NewOrderPaymentRejectedEvent(o, input.Reason)
	if err := s.orders.SaveWithEvents(ctx, o, rejected); err != nil {
		return nil, err
	}

	s.publish(ctx, rejected)

	s.logger.Info("Payment rejected", zap.String("reference", o.Reference))
	resp := NewOrderResponse(o)
	return &resp, nil
}

// UpdateShipping advances fulfilment on a paid order
func (s *PaymentService) UpdateShipping(ctx context.Context, orderID uuid.UUID, input UpdateShippingInput) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if err := o.UpdateShippingStatus(order.ShippingStatus(input.Status)); err != nil {
		return nil, err
	}
	if err := s.orders.Save(ctx, o); err != nil {
		return nil, err
	}
	resp := NewOrderResponse(o)
	return &resp, nil
}

func (s *PaymentService) ownedOrder(ctx context.Context, orderID, userID uuid.UUID) (*order.Order, error) {
	o, err := s.orders.FindByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o.UserID != userID {
		return nil, shared.ErrForbidden
	}
	return o, nil
}

func (s *PaymentService) accruePoints(ctx context.Context, o *order.Order, points int) error {
	userWallet, err := s.wallets.FindByUserID(ctx, o.UserID)
	if err != nil {
		return err
	}
	if err := userWallet.AddPoints(points); err != nil {
		return err
	}
	return s.wallets.Save(ctx, userWallet)
}
