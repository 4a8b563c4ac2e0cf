package event

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/boutique/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type testEvent struct {
	shared.BaseDomainEvent
	Data string `json:"data"`
}

func newTestEvent(eventType string) *testEvent {
	return &testEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(eventType, "Cart", uuid.New()),
		Data:            "size M",
	}
}

// testHandler records every event it sees, optionally failing on demand.
type testHandler struct {
	eventTypes []string
	handled    []shared.DomainEvent
	err        error
	mu         sync.Mutex
}

func newTestHandler(eventTypes ...string) *testHandler {
	return &testHandler{
		eventTypes: eventTypes,
		handled:    make([]shared.DomainEvent, 0),
	}
}

func (h *testHandler) Handle(ctx context.Context, event shared.DomainEvent) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.handled = append(h.handled, event)
	return h.err
}

func (h *testHandler) EventTypes() []string {
	return h.eventTypes
}

func (h *testHandler) setError(err error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.err = err
}

func (h *testHandler) getHandled() []shared.DomainEvent {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]shared.DomainEvent(nil), h.handled...)
}

func TestInMemoryEventBus_Publish(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("cart.item_added")
	bus.Subscribe(handler, "cart.item_added")

	event := newTestEvent("cart.item_added")
	err := bus.Publish(context.Background(), event)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)
	assert.Equal(t, event, handler.getHandled()[0])
}

func TestInMemoryEventBus_Publish_MultipleEvents(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("cart.item_added")
	bus.Subscribe(handler, "cart.item_added")

	event1 := newTestEvent("cart.item_added")
	event2 := newTestEvent("cart.item_added")
	err := bus.Publish(context.Background(), event1, event2)

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 2)
}

func TestInMemoryEventBus_Publish_MultipleHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("cart.item_added")
	handler2 := newTestHandler("cart.item_added")
	bus.Subscribe(handler1, "cart.item_added")
	bus.Subscribe(handler2, "cart.item_added")

	err := bus.Publish(context.Background(), newTestEvent("cart.item_added"))

	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_WildcardHandler(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	// No event types subscribes to everything.
	wildcardHandler := newTestHandler()
	bus.Subscribe(wildcardHandler)

	err := bus.Publish(context.Background(), newTestEvent("wallet.credited"))

	require.NoError(t, err)
	assert.Len(t, wildcardHandler.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_HandlerError(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler1 := newTestHandler("cart.item_added")
	handler1.setError(errors.New("handler error"))
	handler2 := newTestHandler("cart.item_added")
	bus.Subscribe(handler1, "cart.item_added")
	bus.Subscribe(handler2, "cart.item_added")

	err := bus.Publish(context.Background(), newTestEvent("cart.item_added"))

	// One failing handler must not starve the rest.
	require.NoError(t, err)
	assert.Len(t, handler1.getHandled(), 1)
	assert.Len(t, handler2.getHandled(), 1)
}

func TestInMemoryEventBus_Publish_NoMatchingHandlers(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("coupon.redeemed")
	bus.Subscribe(handler, "coupon.redeemed")

	err := bus.Publish(context.Background(), newTestEvent("cart.item_added"))

	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 0)
}

func TestInMemoryEventBus_Unsubscribe(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	handler := newTestHandler("cart.item_added")
	bus.Subscribe(handler, "cart.item_added")

	_ = bus.Publish(context.Background(), newTestEvent("cart.item_added"))
	assert.Len(t, handler.getHandled(), 1)

	bus.Unsubscribe(handler)

	_ = bus.Publish(context.Background(), newTestEvent("cart.item_added"))
	assert.Len(t, handler.getHandled(), 1)
}

func TestInMemoryEventBus_StartStop(t *testing.T) {
	bus := NewInMemoryEventBus(zap.NewNop())

	ctx := context.Background()
	require.NoError(t, bus.Start(ctx))

	handler := newTestHandler("cart.item_added")
	bus.Subscribe(handler, "cart.item_added")
	err := bus.Publish(ctx, newTestEvent("cart.item_added"))
	require.NoError(t, err)
	assert.Len(t, handler.getHandled(), 1)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	require.NoError(t, bus.Stop(ctx))
}
