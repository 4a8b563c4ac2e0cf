package coupon

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/coupon"
	"github.com/boutique/backend/internal/domain/shared"
)

// CouponService handles coupon administration and storefront validation
type CouponService struct {
	coupons coupon.Repository
	logger  *zap.Logger
	now     func() time.Time
}

// NewCouponService creates a new coupon service
func NewCouponService(coupons coupon.Repository, logger *zap.Logger) *CouponService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CouponService{
		coupons: coupons,
		logger:  logger,
		now:     time.Now,
	}
}

// Create creates a new coupon
func (s *CouponService) Create(ctx context.Context, input CreateCouponInput) (*CouponResponse, error) {
	value, err := decimal.NewFromString(input.DiscountValue)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid discount value")
	}

	if existing, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(input.Code))); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	c, err := coupon.NewCoupon(input.Code, coupon.DiscountType(input.DiscountType), value, input.ValidFrom, input.ValidUntil)
	if err != nil {
		return nil, err
	}
	c.Description = input.Description
	if input.MinPurchase != "" {
		minPurchase, err := decimal.NewFromString(input.MinPurchase)
		if err != nil || minPurchase.IsNegative() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid minimum purchase")
		}
		c.MinPurchase = minPurchase
	}
	if input.MaxDiscount != nil {
		maxDiscount, err := decimal.NewFromString(*input.MaxDiscount)
		if err != nil || !maxDiscount.IsPositive() {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid maximum discount")
		}
		c.MaxDiscount = &maxDiscount
	}
	c.UsageLimit = input.UsageLimit
	if input.UsagePerUser > 0 {
		c.UsagePerUser = input.UsagePerUser
	}

	if err := s.coupons.Save(ctx, c); err != nil {
		return nil, err
	}
	s.logger.Info("Coupon created", zap.String("code", c.Code))

	resp := NewCouponResponse(c)
	return &resp, nil
}

// List returns a paginated coupon listing for admins
func (s *CouponService) List(ctx context.Context, page, pageSize int) (*shared.Paginated[CouponResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	coupons, err := s.coupons.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.coupons.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]CouponResponse, 0, len(coupons))
	for idx := range coupons {
		items = append(items, NewCouponResponse(&coupons[idx]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetByCode returns a coupon by its code
func (s *CouponService) GetByCode(ctx context.Context, code string) (*CouponResponse, error) {
	c, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	resp := NewCouponResponse(c)
	return &resp, nil
}

// Preview computes the discount a coupon would grant the user on a
// subtotal, without redeeming it. Used by the cart page before checkout.
func (s *CouponService) Preview(ctx context.Context, userID uuid.UUID, input PreviewInput) (*PreviewResponse, error) {
	subtotal, err := decimal.NewFromString(input.Subtotal)
	if err != nil || subtotal.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid subtotal")
	}

	c, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(input.Code)))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("COUPON_NOT_FOUND", "Unknown coupon code")
		}
		return nil, err
	}
	usages, err := s.coupons.CountUsagesByUser(ctx, c.ID, userID)
	if err != nil {
		return nil, err
	}

	discount, err := c.DiscountFor(subtotal, s.now(), usages)
	if err != nil {
		return nil, err
	}

	discountF, _ := discount.Float64()
	totalF, _ := subtotal.Sub(discount).Float64()
	return &PreviewResponse{
		Code:     c.Code,
		Discount: discountF,
		Total:    totalF,
	}, nil
}

// Deactivate disables a coupon without deleting its usage history
func (s *CouponService) Deactivate(ctx context.Context, id uuid.UUID) error {
	c, err := s.coupons.FindByID(ctx, id)
	if err != nil {
		return err
	}
	c.Deactivate()
	return s.coupons.Save(ctx, c)
}

// Delete removes a coupon
func (s *CouponService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.coupons.Delete(ctx, id)
}
