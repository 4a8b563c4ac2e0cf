package order

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeOrder = "Order"

// Event type constants
const (
	EventTypeOrderPlaced          = "OrderPlaced"
	EventTypeOrderPaid            = "OrderPaid"
	EventTypeOrderPaymentRejected = "OrderPaymentRejected"
	EventTypeOrderCancelled       = "OrderCancelled"
)

// OrderItemInfo carries line-item data inside order events
type OrderItemInfo struct {
	ProductID uuid.UUID       `json:"product_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

func itemInfos(items []Item) []OrderItemInfo {
	infos := make([]OrderItemInfo, len(items))
	for i, item := range items {
		infos[i] = OrderItemInfo{
			ProductID: item.ProductID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
		}
	}
	return infos
}

// OrderPlacedEvent is raised when a customer checks out a cart
type OrderPlacedEvent struct {
	shared.BaseDomainEvent
	OrderID    uuid.UUID       `json:"order_id"`
	Reference  string          `json:"reference"`
	UserID     uuid.UUID       `json:"user_id"`
	Items      []OrderItemInfo `json:"items"`
	Total      decimal.Decimal `json:"total"`
	Currency   string          `json:"currency"`
	CouponCode string          `json:"coupon_code,omitempty"`
}

// NewOrderPlacedEvent creates a new OrderPlacedEvent
func NewOrderPlacedEvent(o *Order) *OrderPlacedEvent {
	return &OrderPlacedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPlaced, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		Items:           itemInfos(o.Items),
		Total:           o.Total,
		Currency:        o.Currency,
		CouponCode:      o.CouponCode,
	}
}

// EventType returns the event type name
func (e *OrderPlacedEvent) EventType() string {
	return EventTypeOrderPlaced
}

// OrderPaidEvent is raised when an admin approves a payment proof.
// It drives sales counters, loyalty accrual and homepage invalidation.
//
// Schema v2: the charged amount field was renamed from "amount" to "total".
type OrderPaidEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	Reference string          `json:"reference"`
	UserID    uuid.UUID       `json:"user_id"`
	Items     []OrderItemInfo `json:"items"`
	Total     decimal.Decimal `json:"total"`
	Currency  string          `json:"currency"`
}

// NewOrderPaidEvent creates a new OrderPaidEvent
func NewOrderPaidEvent(o *Order) *OrderPaidEvent {
	return &OrderPaidEvent{
		BaseDomainEvent: shared.NewVersionedBaseDomainEvent(EventTypeOrderPaid, AggregateTypeOrder, o.ID, 2),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		Items:           itemInfos(o.Items),
		Total:           o.Total,
		Currency:        o.Currency,
	}
}

// EventType returns the event type name
func (e *OrderPaidEvent) EventType() string {
	return EventTypeOrderPaid
}

// OrderPaymentRejectedEvent is raised when an admin rejects a payment proof
type OrderPaymentRejectedEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID `json:"order_id"`
	Reference string    `json:"reference"`
	UserID    uuid.UUID `json:"user_id"`
	Reason    string    `json:"reason"`
}

// NewOrderPaymentRejectedEvent creates a new OrderPaymentRejectedEvent
func NewOrderPaymentRejectedEvent(o *Order, reason string) *OrderPaymentRejectedEvent {
	return &OrderPaymentRejectedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderPaymentRejected, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		Reason:          reason,
	}
}

// EventType returns the event type name
func (e *OrderPaymentRejectedEvent) EventType() string {
	return EventTypeOrderPaymentRejected
}

// OrderCancelledEvent is raised when a customer cancels an unpaid order
type OrderCancelledEvent struct {
	shared.BaseDomainEvent
	OrderID   uuid.UUID       `json:"order_id"`
	Reference string          `json:"reference"`
	UserID    uuid.UUID       `json:"user_id"`
	Items     []OrderItemInfo `json:"items"`
	Total     decimal.Decimal `json:"total"`
}

// NewOrderCancelledEvent creates a new OrderCancelledEvent
func NewOrderCancelledEvent(o *Order) *OrderCancelledEvent {
	return &OrderCancelledEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeOrderCancelled, AggregateTypeOrder, o.ID),
		OrderID:         o.ID,
		Reference:       o.Reference,
		UserID:          o.UserID,
		Items:           itemInfos(o.Items),
		Total:           o.Total,
	}
}

// EventType returns the event type name
func (e *OrderCancelledEvent) EventType() string {
	return EventTypeOrderCancelled
}
