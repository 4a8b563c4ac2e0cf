package coupon

import (
	"time"

	"github.com/boutique/backend/internal/domain/coupon"
)

// CreateCouponInput contains data for creating a coupon
type CreateCouponInput struct {
	Code          string    `json:"code" binding:"required,max=50"`
	Description   string    `json:"description" binding:"max=500"`
	DiscountType  string    `json:"discount_type" binding:"required,oneof=percentage fixed"`
	DiscountValue string    `json:"discount_value" binding:"required"`
	MinPurchase   string    `json:"min_purchase"`
	MaxDiscount   *string   `json:"max_discount"`
	UsageLimit    *int      `json:"usage_limit" binding:"omitempty,min=1"`
	UsagePerUser  int       `json:"usage_per_user" binding:"min=0"`
	ValidFrom     time.Time `json:"valid_from" binding:"required"`
	ValidUntil    time.Time `json:"valid_until" binding:"required"`
}

// PreviewInput asks what a coupon would take off a subtotal
type PreviewInput struct {
	Code     string `json:"code" binding:"required,max=50"`
	Subtotal string `json:"subtotal" binding:"required"`
}

// PreviewResponse is the computed discount preview
type PreviewResponse struct {
	Code     string  `json:"code"`
	Discount float64 `json:"discount"`
	Total    float64 `json:"total"`
}

// CouponResponse is the admin projection of a coupon
type CouponResponse struct {
	ID            string    `json:"id"`
	Code          string    `json:"code"`
	Description   string    `json:"description"`
	DiscountType  string    `json:"discount_type"`
	DiscountValue float64   `json:"discount_value"`
	MinPurchase   float64   `json:"min_purchase"`
	MaxDiscount   *float64  `json:"max_discount"`
	UsageLimit    *int      `json:"usage_limit"`
	UsagePerUser  int       `json:"usage_per_user"`
	TimesUsed     int       `json:"times_used"`
	ValidFrom     time.Time `json:"valid_from"`
	ValidUntil    time.Time `json:"valid_until"`
	IsActive      bool      `json:"is_active"`
}

// NewCouponResponse projects a coupon entity
func NewCouponResponse(c *coupon.Coupon) CouponResponse {
	value, _ := c.DiscountValue.Float64()
	minPurchase, _ := c.MinPurchase.Float64()
	resp := CouponResponse{
		ID:            c.ID.String(),
		Code:          c.Code,
		Description:   c.Description,
		DiscountType:  string(c.DiscountType),
		DiscountValue: value,
		MinPurchase:   minPurchase,
		UsageLimit:    c.UsageLimit,
		UsagePerUser:  c.UsagePerUser,
		TimesUsed:     c.TimesUsed,
		ValidFrom:     c.ValidFrom,
		ValidUntil:    c.ValidUntil,
		IsActive:      c.IsActive,
	}
	if c.MaxDiscount != nil {
		maxDiscount, _ := c.MaxDiscount.Float64()
		resp.MaxDiscount = &maxDiscount
	}
	return resp
}
