package coupon

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// DiscountType determines how a coupon reduces the order subtotal
type DiscountType string

const (
	DiscountTypePercentage DiscountType = "percentage"
	DiscountTypeFixed      DiscountType = "fixed"
)

// IsValid checks if the type is a known DiscountType
func (t DiscountType) IsValid() bool {
	return t == DiscountTypePercentage || t == DiscountTypeFixed
}

// Coupon is a redeemable discount code
type Coupon struct {
	shared.BaseEntity
	Code          string           `gorm:"type:varchar(50);not null;uniqueIndex" json:"code"`
	Description   string           `gorm:"type:varchar(500)" json:"description"`
	DiscountType  DiscountType     `gorm:"type:varchar(20);not null" json:"discount_type"`
	DiscountValue decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"discount_value"`
	MinPurchase   decimal.Decimal  `gorm:"type:decimal(18,2);not null;default:0" json:"min_purchase"`
	MaxDiscount   *decimal.Decimal `gorm:"type:decimal(18,2)" json:"max_discount"`
	UsageLimit    *int             `json:"usage_limit"`
	UsagePerUser  int              `gorm:"not null;default:1" json:"usage_per_user"`
	TimesUsed     int              `gorm:"not null;default:0" json:"times_used"`
	ValidFrom     time.Time        `gorm:"not null" json:"valid_from"`
	ValidUntil    time.Time        `gorm:"not null" json:"valid_until"`
	IsActive      bool             `gorm:"not null;default:true" json:"is_active"`
}

// CouponUsage records a redemption against an order
type CouponUsage struct {
	shared.BaseEntity
	CouponID       uuid.UUID       `gorm:"type:uuid;not null;index" json:"coupon_id"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null;index" json:"user_id"`
	OrderID        *uuid.UUID      `gorm:"type:uuid" json:"order_id"`
	DiscountAmount decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"discount_amount"`
}

// NewCoupon creates an active coupon
func NewCoupon(code string, discountType DiscountType, value decimal.Decimal, validFrom, validUntil time.Time) (*Coupon, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Coupon code is required")
	}
	if !discountType.IsValid() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Unknown discount type")
	}
	if !value.IsPositive() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Discount value must be positive")
	}
	if discountType == DiscountTypePercentage && value.GreaterThan(decimal.NewFromInt(100)) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Percentage discount cannot exceed 100")
	}
	if !validUntil.After(validFrom) {
		return nil, shared.NewDomainError("INVALID_INPUT", "Validity window is empty")
	}
	return &Coupon{
		BaseEntity:    shared.NewBaseEntity(),
		Code:          code,
		DiscountType:  discountType,
		DiscountValue: value,
		MinPurchase:   decimal.Zero,
		UsagePerUser:  1,
		ValidFrom:     validFrom,
		ValidUntil:    validUntil,
		IsActive:      true,
	}, nil
}

// Coupon redemption errors
var (
	ErrInactive     = shared.NewDomainError("COUPON_INACTIVE", "Coupon is not active")
	ErrNotStarted   = shared.NewDomainError("COUPON_NOT_STARTED", "Coupon is not valid yet")
	ErrExpired      = shared.NewDomainError("COUPON_EXPIRED", "Coupon has expired")
	ErrMinPurchase  = shared.NewDomainError("COUPON_MIN_PURCHASE", "Order does not meet the coupon minimum")
	ErrLimitReached = shared.NewDomainError("COUPON_LIMIT_REACHED", "Coupon usage limit reached")
	ErrUserLimit    = shared.NewDomainError("COUPON_USER_LIMIT", "Coupon already used the maximum number of times")
)

// DiscountFor computes the discount this coupon grants on a subtotal at the
// given time. userUsages is how many times the redeeming user has already
// used the coupon.
func (c *Coupon) DiscountFor(subtotal decimal.Decimal, at time.Time, userUsages int) (decimal.Decimal, error) {
	if !c.IsActive {
		return decimal.Zero, ErrInactive
	}
	if at.Before(c.ValidFrom) {
		return decimal.Zero, ErrNotStarted
	}
	if at.After(c.ValidUntil) {
		return decimal.Zero, ErrExpired
	}
	if subtotal.LessThan(c.MinPurchase) {
		return decimal.Zero, ErrMinPurchase
	}
	if c.UsageLimit != nil && c.TimesUsed >= *c.UsageLimit {
		return decimal.Zero, ErrLimitReached
	}
	if c.UsagePerUser > 0 && userUsages >= c.UsagePerUser {
		return decimal.Zero, ErrUserLimit
	}

	var discount decimal.Decimal
	switch c.DiscountType {
	case DiscountTypePercentage:
		discount = subtotal.Mul(c.DiscountValue).Div(decimal.NewFromInt(100)).Round(2)
		if c.MaxDiscount != nil && discount.GreaterThan(*c.MaxDiscount) {
			discount = *c.MaxDiscount
		}
	case DiscountTypeFixed:
		discount = c.DiscountValue
	}
	if discount.GreaterThan(subtotal) {
		discount = subtotal
	}
	return discount, nil
}

// RecordUsage increments the redemption counter
func (c *Coupon) RecordUsage() {
	c.TimesUsed++
	c.Touch()
}

// Deactivate disables the coupon
func (c *Coupon) Deactivate() {
	c.IsActive = false
	c.Touch()
}
