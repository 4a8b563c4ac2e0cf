package cart

import (
	"context"

	"github.com/google/uuid"
)

// Repository persists carts with their items
type Repository interface {
	FindByUserID(ctx context.Context, userID uuid.UUID) (*Cart, error)
	Save(ctx context.Context, cart *Cart) error
	DeleteByUserID(ctx context.Context, userID uuid.UUID) error
}
