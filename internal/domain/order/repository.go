package order

import (
	"context"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// Filter narrows order listings
type Filter struct {
	shared.Filter
	UserID         *uuid.UUID
	PaymentStatus  *PaymentStatus
	ShippingStatus *ShippingStatus
}

// Repository persists orders with their items
type Repository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Order, error)
	FindByReference(ctx context.Context, reference string) (*Order, error)
	FindAll(ctx context.Context, filter Filter) ([]Order, error)
	Count(ctx context.Context, filter Filter) (int64, error)
	Save(ctx context.Context, order *Order) error

	// SaveWithEvents saves the order and records the events in the
	// transactional outbox within a single transaction, so that event
	// delivery survives a crash between the save and the publish.
	SaveWithEvents(ctx context.Context, order *Order, events ...shared.DomainEvent) error

	// HasUserPurchased reports whether the user has a paid order that
	// contains the product. Used to flag verified-purchase reviews.
	HasUserPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}
