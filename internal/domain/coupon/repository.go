package coupon

import (
	"context"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// Repository persists coupons and their usage records
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Coupon, error)
	FindByCode(ctx context.Context, code string) (*Coupon, error)
	FindAll(ctx context.Context, filter shared.Filter) ([]Coupon, error)
	Count(ctx context.Context, filter shared.Filter) (int64, error)
	Save(ctx context.Context, coupon *Coupon) error
	Delete(ctx context.Context, id uuid.UUID) error

	CountUsagesByUser(ctx context.Context, couponID, userID uuid.UUID) (int, error)
	SaveUsage(ctx context.Context, usage *CouponUsage) error
}
