package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated      = "ProductCreated"
	EventTypeProductUpdated      = "ProductUpdated"
	EventTypeProductDeleted      = "ProductDeleted"
	EventTypeProductStockChanged = "ProductStockChanged"
)

// ProductCreatedEvent is raised when a new product enters the catalog
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	Brand        string          `json:"brand"`
	Category     string          `json:"category"`
	MainCategory string          `json:"main_category"`
	Price        decimal.Decimal `json:"price"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(p *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Title:           p.Title,
		Brand:           p.Brand,
		Category:        p.Category,
		MainCategory:    p.MainCategory,
		Price:           p.Price,
	}
}

// EventType returns the event type name
func (e *ProductCreatedEvent) EventType() string {
	return EventTypeProductCreated
}

// ProductUpdatedEvent is raised when product details change.
// Listeners that maintain derived views (homepage sections, search
// indexes) treat this as an invalidation signal.
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID    uuid.UUID       `json:"product_id"`
	Title        string          `json:"title"`
	Category     string          `json:"category"`
	MainCategory string          `json:"main_category"`
	Price        decimal.Decimal `json:"price"`
	Status       ProductStatus   `json:"status"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(p *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Title:           p.Title,
		Category:        p.Category,
		MainCategory:    p.MainCategory,
		Price:           p.Price,
		Status:          p.Status,
	}
}

// EventType returns the event type name
func (e *ProductUpdatedEvent) EventType() string {
	return EventTypeProductUpdated
}

// ProductDeletedEvent is raised when a product is soft-deleted from the catalog
type ProductDeletedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Title     string    `json:"title"`
}

// NewProductDeletedEvent creates a new ProductDeletedEvent
func NewProductDeletedEvent(p *Product) *ProductDeletedEvent {
	return &ProductDeletedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductDeleted, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		Title:           p.Title,
	}
}

// EventType returns the event type name
func (e *ProductDeletedEvent) EventType() string {
	return EventTypeProductDeleted
}

// ProductStockChangedEvent is raised when stock is adjusted outside of
// the order flow (manual restock, correction)
type ProductStockChangedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	OldStock  int       `json:"old_stock"`
	NewStock  int       `json:"new_stock"`
}

// NewProductStockChangedEvent creates a new ProductStockChangedEvent
func NewProductStockChangedEvent(p *Product, oldStock int) *ProductStockChangedEvent {
	return &ProductStockChangedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockChanged, AggregateTypeProduct, p.ID),
		ProductID:       p.ID,
		OldStock:        oldStock,
		NewStock:        p.Stock,
	}
}

// EventType returns the event type name
func (e *ProductStockChangedEvent) EventType() string {
	return EventTypeProductStockChanged
}
