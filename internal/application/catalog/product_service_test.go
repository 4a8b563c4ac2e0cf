package catalog

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/shared"
)

type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	args := m.Called(ctx, products)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) FindDiscounted(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindNewest(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBestSellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindTopRated(ctx context.Context, minRating float64, minCount, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, minRating, minCount, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) SampleDisplayable(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

type fakeSectionCache struct {
	invalidations int
}

func (f *fakeSectionCache) Invalidate() { f.invalidations++ }

func mustProduct(t *testing.T, title string, price string) *catalog.Product {
	t.Helper()
	p, err := catalog.NewProduct(title, decimal.RequireFromString(price))
	require.NoError(t, err)
	return p
}

func TestCreateProduct(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	cache := new(fakeSectionCache)
	svc := NewProductService(repo, cache, nil)

	repo.On("Save", ctx, mock.AnythingOfType("*catalog.Product")).Return(nil)

	compare := "399.00"
	resp, err := svc.Create(ctx, CreateProductInput{
		Title:        "Wireless Earbuds",
		Brand:        "SoundCo",
		Category:     "Headphones",
		Price:        "299.00",
		ComparePrice: &compare,
		Stock:        10,
		Images:       []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Wireless Earbuds", resp.Title)
	assert.Equal(t, 299.0, resp.Price)
	require.NotNil(t, resp.DiscountPct)
	assert.Equal(t, 25, *resp.DiscountPct)
	assert.Equal(t, []string{"https://cdn.example.com/a.jpg", "https://cdn.example.com/b.jpg"}, resp.Images)
	require.NotNil(t, resp.MainImage)
	assert.Equal(t, "https://cdn.example.com/a.jpg", *resp.MainImage)

	assert.Equal(t, 1, cache.invalidations)
}

func TestCreateProductInvalidPrice(t *testing.T) {
	svc := NewProductService(new(MockProductRepository), nil, nil)

	_, err := svc.Create(context.Background(), CreateProductInput{Title: "X", Price: "not-a-price"})
	var domainErr *shared.DomainError
	require.ErrorAs(t, err, &domainErr)
	assert.Equal(t, "INVALID_INPUT", domainErr.Code)
}

func TestUpdateProductPartial(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	cache := new(fakeSectionCache)
	svc := NewProductService(repo, cache, nil)

	product := mustProduct(t, "Old Title", "100.00")
	product.Brand = "OldBrand"
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	title := "New Title"
	price := "150.00"
	status := "inactive"
	resp, err := svc.Update(ctx, product.ID, UpdateProductInput{
		Title:  &title,
		Price:  &price,
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, "New Title", resp.Title)
	assert.Equal(t, 150.0, resp.Price)
	assert.Equal(t, "inactive", resp.Status)
	// Untouched fields survive a partial update
	assert.Equal(t, "OldBrand", resp.Brand)
	assert.Equal(t, 1, cache.invalidations)
}

func TestUpdateProductClearsComparePrice(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil)

	product := mustProduct(t, "Deal", "100.00")
	compare := decimal.RequireFromString("200.00")
	require.NoError(t, product.SetPricing(product.Price, &compare))
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	empty := ""
	resp, err := svc.Update(ctx, product.ID, UpdateProductInput{ComparePrice: &empty})
	require.NoError(t, err)
	assert.Nil(t, resp.ComparePrice)
	assert.Nil(t, resp.DiscountPct)
}

func TestAdjustStock(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil)

	product := mustProduct(t, "Widget", "10.00")
	product.Stock = 5
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	resp, err := svc.AdjustStock(ctx, product.ID, AdjustStockInput{Delta: -3})
	require.NoError(t, err)
	assert.Equal(t, 2, resp.Stock)

	_, err = svc.AdjustStock(ctx, product.ID, AdjustStockInput{Delta: -10})
	assert.ErrorIs(t, err, shared.ErrInsufficientStock)
}

func TestDeleteProductSoftDeletes(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	cache := new(fakeSectionCache)
	svc := NewProductService(repo, cache, nil)

	product := mustProduct(t, "Doomed", "10.00")
	repo.On("FindByID", ctx, product.ID).Return(product, nil)
	repo.On("Save", ctx, product).Return(nil)

	require.NoError(t, svc.Delete(ctx, product.ID))
	assert.True(t, product.IsDeleted)
	assert.NotNil(t, product.DeletedAt)
	assert.Equal(t, 1, cache.invalidations)
	repo.AssertNotCalled(t, "Delete", ctx, product.ID)
}

func TestListMapsQueryToFilter(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil)

	product := mustProduct(t, "Widget", "10.00")
	repo.On("FindAll", ctx, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.Page == 2 && f.PageSize == 5 &&
			f.Category == "Headphones" &&
			f.OrderBy == "price" && f.OrderDir == "asc" &&
			!f.IncludeAll
	})).Return([]catalog.Product{*product}, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(11), nil)

	result, err := svc.List(ctx, ListProductsQuery{
		Page:     2,
		PageSize: 5,
		Category: "Headphones",
		Sort:     "price_asc",
	})
	require.NoError(t, err)
	assert.Len(t, result.Items, 1)
	assert.Equal(t, int64(11), result.Total)
	assert.Equal(t, 3, result.TotalPages)
}

func TestListAllIncludesHiddenProducts(t *testing.T) {
	ctx := context.Background()
	repo := new(MockProductRepository)
	svc := NewProductService(repo, nil, nil)

	repo.On("FindAll", ctx, mock.MatchedBy(func(f catalog.ProductFilter) bool {
		return f.IncludeAll
	})).Return([]catalog.Product{}, nil)
	repo.On("Count", ctx, mock.Anything).Return(int64(0), nil)

	_, err := svc.ListAll(ctx, ListProductsQuery{})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
