package homepage

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/order"
)

func TestSectionInvalidationHandler_EventTypes(t *testing.T) {
	handler := NewSectionInvalidationHandler(nil, nil)

	types := handler.EventTypes()
	assert.Contains(t, types, catalog.EventTypeProductCreated)
	assert.Contains(t, types, catalog.EventTypeProductUpdated)
	assert.Contains(t, types, catalog.EventTypeProductDeleted)
	assert.Contains(t, types, order.EventTypeOrderPaid)
	assert.Contains(t, types, order.EventTypeOrderPlaced)
	assert.Contains(t, types, order.EventTypeOrderCancelled)
}

func TestSectionInvalidationHandler_DropsCachedSnapshot(t *testing.T) {
	repo := new(MockProductRepository)
	expectEmptyCurated(repo)
	repo.On("SampleDisplayable", mock.Anything, 500).Return([]catalog.Product{}, nil)

	svc := newService(repo, Config{})

	// Prime the cache
	_, err := svc.GetSections(context.Background())
	require.NoError(t, err)
	require.NotNil(t, svc.snap.Load())

	handler := NewSectionInvalidationHandler(svc, nil)

	p, err := catalog.NewProduct("Linen Dress", decimal.NewFromInt(450))
	require.NoError(t, err)

	err = handler.Handle(context.Background(), catalog.NewProductUpdatedEvent(p))
	require.NoError(t, err)
	assert.Nil(t, svc.snap.Load(), "cached snapshot should be dropped")
}

func TestSectionInvalidationHandler_OrderPaid(t *testing.T) {
	repo := new(MockProductRepository)
	expectEmptyCurated(repo)
	repo.On("SampleDisplayable", mock.Anything, 500).Return([]catalog.Product{}, nil)

	svc := newService(repo, Config{})
	_, err := svc.GetSections(context.Background())
	require.NoError(t, err)

	handler := NewSectionInvalidationHandler(svc, nil)

	o, err := order.NewOrder(uuid.New(), []order.Item{{
		ProductID: uuid.New(),
		Title:     "Linen Dress",
		UnitPrice: decimal.NewFromInt(450),
		Quantity:  1,
	}}, order.Address{}, "", decimal.Zero, decimal.Zero)
	require.NoError(t, err)

	err = handler.Handle(context.Background(), order.NewOrderPaidEvent(o))
	require.NoError(t, err)
	assert.Nil(t, svc.snap.Load())
}
