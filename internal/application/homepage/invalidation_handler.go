package homepage

import (
	"context"

	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/order"
	"github.com/boutique/backend/internal/domain/shared"
)

// SectionInvalidationHandler drops the cached homepage sections when the
// data behind them changes. Product writes go through ProductService, which
// already invalidates synchronously; order events are the cases where sales
// counters move without the catalog service in the loop (checkout reserves
// stock, payment approval and cancellation shift the best-seller ranking).
type SectionInvalidationHandler struct {
	sections *SectionService
	logger   *zap.Logger
}

// NewSectionInvalidationHandler creates a handler that invalidates the
// homepage section cache on catalog and order events
func NewSectionInvalidationHandler(sections *SectionService, logger *zap.Logger) *SectionInvalidationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SectionInvalidationHandler{
		sections: sections,
		logger:   logger,
	}
}

// EventTypes returns the event types this handler is interested in
func (h *SectionInvalidationHandler) EventTypes() []string {
	return []string{
		catalog.EventTypeProductCreated,
		catalog.EventTypeProductUpdated,
		catalog.EventTypeProductDeleted,
		catalog.EventTypeProductStockChanged,
		order.EventTypeOrderPlaced,
		order.EventTypeOrderPaid,
		order.EventTypeOrderCancelled,
	}
}

// Handle drops the cached section snapshot. The next homepage request
// rebuilds it from the catalog.
func (h *SectionInvalidationHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.sections.Invalidate()
	h.logger.Debug("homepage sections invalidated",
		zap.String("event_type", event.EventType()),
		zap.String("aggregate_id", event.AggregateID().String()),
	)
	return nil
}

// Ensure SectionInvalidationHandler implements EventHandler
var _ shared.EventHandler = (*SectionInvalidationHandler)(nil)
