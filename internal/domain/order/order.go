package order

import (
	"crypto/rand"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// Address is the delivery address snapshot embedded in an order
type Address struct {
	FullName string `gorm:"type:varchar(200)" json:"full_name"`
	Phone    string `gorm:"type:varchar(50)" json:"phone"`
	Line1    string `gorm:"type:varchar(300)" json:"line1"`
	Line2    string `gorm:"type:varchar(300)" json:"line2"`
	City     string `gorm:"type:varchar(120)" json:"city"`
	District string `gorm:"type:varchar(120)" json:"district"`
	Country  string `gorm:"type:varchar(120)" json:"country"`
}

// Item is a purchased product line with title and price snapshotted at
// checkout time
type Item struct {
	shared.BaseEntity
	OrderID   uuid.UUID       `gorm:"type:uuid;not null;index" json:"order_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Title     string          `gorm:"type:varchar(300);not null" json:"title"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	ImageURL  string          `gorm:"type:varchar(500)" json:"image_url"`
}

// TableName returns the table name for GORM
func (Item) TableName() string {
	return "order_items"
}

// LineTotal returns quantity times unit price
func (i *Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Order is a customer purchase with manual payment-proof review
type Order struct {
	shared.BaseEntity
	Reference      string          `gorm:"type:varchar(30);not null;uniqueIndex" json:"reference"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	Items          []Item          `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Address        Address         `gorm:"embedded;embeddedPrefix:address_" json:"address"`
	Subtotal       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"subtotal"`
	Discount       decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount"`
	WalletApplied  decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"wallet_applied"`
	Total          decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"total"`
	Currency       string          `gorm:"type:varchar(3);not null;default:'LSL'" json:"currency"`
	CouponCode     string          `gorm:"type:varchar(50)" json:"coupon_code"`
	PaymentStatus  PaymentStatus   `gorm:"type:varchar(30);not null;index" json:"payment_status"`
	ShippingStatus ShippingStatus  `gorm:"type:varchar(30);not null;index" json:"shipping_status"`

	ProofKey         string     `gorm:"type:varchar(500)" json:"proof_key"`
	ProofSubmittedAt *time.Time `json:"proof_submitted_at"`
	PaidAt           *time.Time `json:"paid_at"`
	RejectionReason  string     `gorm:"type:varchar(500)" json:"rejection_reason"`
}

// NewOrder creates a pending order from checkout lines. Subtotal is derived
// from the items; discount and walletApplied reduce the payable total, which
// never goes below zero.
func NewOrder(userID uuid.UUID, items []Item, address Address, couponCode string, discount, walletApplied decimal.Decimal) (*Order, error) {
	if userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER", "User ID cannot be empty")
	}
	if len(items) == 0 {
		return nil, shared.NewDomainError("EMPTY_ORDER", "Order must contain at least one item")
	}
	if discount.IsNegative() || walletApplied.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount amounts cannot be negative")
	}

	o := &Order{
		BaseEntity:     shared.NewBaseEntity(),
		Reference:      NewReference(),
		UserID:         userID,
		Address:        address,
		CouponCode:     couponCode,
		Discount:       discount,
		WalletApplied:  walletApplied,
		Currency:       "LSL",
		PaymentStatus:  PaymentStatusPending,
		ShippingStatus: ShippingStatusPending,
	}

	subtotal := decimal.Zero
	for idx := range items {
		if items[idx].Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Item quantity must be positive")
		}
		items[idx].OrderID = o.ID
		subtotal = subtotal.Add(items[idx].LineTotal())
	}
	o.Items = items
	o.Subtotal = subtotal

	total := subtotal.Sub(discount).Sub(walletApplied)
	if total.IsNegative() {
		total = decimal.Zero
	}
	o.Total = total

	return o, nil
}

// NewReference generates an order reference like ORD-20260315-4F2A9C
func NewReference() string {
	buf := make([]byte, 3)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("ORD-%s-%X", time.Now().UTC().Format("20060102"), buf)
}

// AttachPaymentProof records an uploaded proof and moves the order into
// review. A rejected order may submit a replacement proof.
func (o *Order) AttachPaymentProof(storageKey string) error {
	if storageKey == "" {
		return shared.NewDomainError("INVALID_INPUT", "Proof storage key is required")
	}
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusProofSubmitted) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot submit payment proof while order is %s", o.PaymentStatus))
	}
	now := time.Now()
	o.ProofKey = storageKey
	o.ProofSubmittedAt = &now
	o.PaymentStatus = PaymentStatusProofSubmitted
	o.RejectionReason = ""
	o.Touch()
	return nil
}

// ApprovePayment marks the order paid and starts fulfilment
func (o *Order) ApprovePayment() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusPaid) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot approve payment while order is %s", o.PaymentStatus))
	}
	now := time.Now()
	o.PaymentStatus = PaymentStatusPaid
	o.PaidAt = &now
	if o.ShippingStatus == ShippingStatusPending {
		o.ShippingStatus = ShippingStatusProcessing
	}
	o.Touch()
	return nil
}

// RejectPayment sends the proof back to the customer with a reason
func (o *Order) RejectPayment(reason string) error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusRejected) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot reject payment while order is %s", o.PaymentStatus))
	}
	o.PaymentStatus = PaymentStatusRejected
	o.RejectionReason = reason
	o.Touch()
	return nil
}

// Cancel voids an unpaid order
func (o *Order) Cancel() error {
	if !o.PaymentStatus.CanTransitionTo(PaymentStatusCancelled) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot cancel order while it is %s", o.PaymentStatus))
	}
	o.PaymentStatus = PaymentStatusCancelled
	o.ShippingStatus = ShippingStatusCancelled
	o.Touch()
	return nil
}

// UpdateShippingStatus advances fulfilment; only paid orders move forward
func (o *Order) UpdateShippingStatus(target ShippingStatus) error {
	if !target.IsValid() {
		return shared.NewDomainError("INVALID_INPUT", "Unknown shipping status")
	}
	if o.PaymentStatus != PaymentStatusPaid {
		return shared.NewDomainError("INVALID_STATE", "Order must be paid before fulfilment")
	}
	if !o.ShippingStatus.CanTransitionTo(target) {
		return shared.NewDomainError("INVALID_STATE",
			fmt.Sprintf("Cannot move shipping from %s to %s", o.ShippingStatus, target))
	}
	o.ShippingStatus = target
	o.Touch()
	return nil
}

// AwaitingPayment reports whether the customer can still pay or cancel
func (o *Order) AwaitingPayment() bool {
	return o.PaymentStatus == PaymentStatusPending || o.PaymentStatus == PaymentStatusRejected
}

// TotalQuantity returns the summed quantity across lines
func (o *Order) TotalQuantity() int {
	total := 0
	for idx := range o.Items {
		total += o.Items[idx].Quantity
	}
	return total
}
