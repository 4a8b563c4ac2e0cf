package telemetry

import (
	"context"

	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/order"
	"github.com/boutique/backend/internal/domain/shared"
)

// StoreMetricsHandler feeds StoreMetrics counters from order events, keeping
// the application services free of metrics calls.
type StoreMetricsHandler struct {
	metrics *StoreMetrics
	logger  *zap.Logger
}

// NewStoreMetricsHandler creates a handler that records store activity
// metrics from domain events
func NewStoreMetricsHandler(metrics *StoreMetrics, logger *zap.Logger) *StoreMetricsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StoreMetricsHandler{
		metrics: metrics,
		logger:  logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *StoreMetricsHandler) EventTypes() []string {
	return []string{
		order.EventTypeOrderPlaced,
		order.EventTypeOrderPaid,
		order.EventTypeOrderPaymentRejected,
	}
}

// Handle records the metric matching the event. Unknown payload shapes are
// logged and skipped; a metrics gap must never fail event delivery.
func (h *StoreMetricsHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *order.OrderPlacedEvent:
		h.metrics.RecordOrderCreated(ctx, e.Total)
		if e.CouponCode != "" {
			h.metrics.RecordCouponApplied(ctx, e.CouponCode)
		}
	case *order.OrderPaidEvent:
		h.metrics.RecordPaymentReview(ctx, PaymentOutcomeApproved)
	case *order.OrderPaymentRejectedEvent:
		h.metrics.RecordPaymentReview(ctx, PaymentOutcomeRejected)
	default:
		h.logger.Debug("Unexpected event payload for store metrics",
			zap.String("event_type", event.EventType()))
	}
	return nil
}

// Ensure StoreMetricsHandler implements EventHandler
var _ shared.EventHandler = (*StoreMetricsHandler)(nil)
