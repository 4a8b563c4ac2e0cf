package event

import (
	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/order"
	"github.com/boutique/backend/internal/domain/shared"
)

// RegisterAllEvents registers all domain event types with the serializer
// This is required for the OutboxProcessor to deserialize events from the outbox table
func RegisterAllEvents(serializer *EventSerializer) {
	// Catalog events
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})
	serializer.Register(catalog.EventTypeProductStockChanged, &catalog.ProductStockChangedEvent{})

	// Order events
	serializer.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	serializer.Register(order.EventTypeOrderPaid, &order.OrderPaidEvent{})
	serializer.Register(order.EventTypeOrderPaymentRejected, &order.OrderPaymentRejectedEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})
}

// RegisterAllVersionedEvents registers event types with the versioned
// serializer, including upgraders for schemas that have evolved.
func RegisterAllVersionedEvents(serializer *VersionedSerializer) error {
	serializer.Register(catalog.EventTypeProductCreated, &catalog.ProductCreatedEvent{})
	serializer.Register(catalog.EventTypeProductUpdated, &catalog.ProductUpdatedEvent{})
	serializer.Register(catalog.EventTypeProductDeleted, &catalog.ProductDeletedEvent{})
	serializer.Register(catalog.EventTypeProductStockChanged, &catalog.ProductStockChangedEvent{})

	serializer.Register(order.EventTypeOrderPlaced, &order.OrderPlacedEvent{})
	serializer.Register(order.EventTypeOrderPaymentRejected, &order.OrderPaymentRejectedEvent{})
	serializer.Register(order.EventTypeOrderCancelled, &order.OrderCancelledEvent{})

	// OrderPaid v1 carried the charged amount as "amount"; v2 renamed it
	// to "total" to match the order aggregate. Stored v1 entries are
	// upgraded on deserialization.
	var upgraders CommonUpgraders
	return serializer.RegisterVersioned(
		order.EventTypeOrderPaid,
		2,
		map[int]shared.DomainEvent{
			2: &order.OrderPaidEvent{},
		},
		upgraders.RenameField(1, "amount", "total"),
	)
}
