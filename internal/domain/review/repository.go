package review

import (
	"context"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// Repository persists reviews and serves rating aggregates
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Review, error)
	FindByProduct(ctx context.Context, productID uuid.UUID, filter shared.Filter) ([]Review, error)
	CountByProduct(ctx context.Context, productID uuid.UUID) (int64, error)
	ExistsByProductAndUser(ctx context.Context, productID, userID uuid.UUID) (bool, error)
	Save(ctx context.Context, review *Review) error
	Delete(ctx context.Context, id uuid.UUID) error

	// SummaryForProduct computes the live rating average and count
	SummaryForProduct(ctx context.Context, productID uuid.UUID) (Summary, error)
}
