package homepage

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/homepage"
	"github.com/boutique/backend/internal/domain/shared"
)

// MockProductRepository is a mock implementation of catalog.ProductRepository
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
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindNewest(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindBestSellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindTopRated(ctx context.Context, minRating float64, minCount, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, minRating, minCount, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) SampleDisplayable(ctx context.Context, limit int) ([]catalog.Product, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func product(title string, opts ...func(*catalog.Product)) catalog.Product {
	p := catalog.Product{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Price:      decimal.NewFromInt(100),
		Stock:      5,
		Status:     catalog.ProductStatusActive,
	}
	for _, opt := range opts {
		opt(&p)
	}
	return p
}

func discounted(p *catalog.Product) {
	cp := decimal.NewFromInt(200)
	p.ComparePrice = &cp
}

func newService(repo *MockProductRepository, cfg Config) *SectionService {
	return NewSectionService(repo, homepage.NewClassifier(homepage.DefaultTaxonomy()), cfg, nil)
}

func expectEmptyCurated(repo *MockProductRepository) {
	repo.On("FindDiscounted", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	repo.On("FindNewest", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	repo.On("FindBestSellers", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	repo.On("FindTopRated", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
}

func TestGetSectionsCurated(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("FindDiscounted", mock.Anything, 12).Return([]catalog.Product{product("Deal Phone", discounted)}, nil)
	repo.On("FindNewest", mock.Anything, 12).Return([]catalog.Product{product("Fresh Mug")}, nil)
	repo.On("FindBestSellers", mock.Anything, 12).Return([]catalog.Product{}, nil)
	repo.On("FindTopRated", mock.Anything, 4.0, 3, 12).Return([]catalog.Product{}, nil)
	repo.On("SampleDisplayable", mock.Anything, 500).Return([]catalog.Product{}, nil)

	svc := newService(repo, Config{})
	resp, err := svc.GetSections(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Sections, 2)
	assert.Equal(t, 2, resp.TotalSections)

	flash := resp.Sections[0]
	assert.Equal(t, "flash_deals", flash.Key)
	assert.Equal(t, "Flash Deals", flash.Title)
	assert.Equal(t, "Biggest discounts right now", flash.Subtitle)
	require.NotNil(t, flash.Badge)
	assert.Equal(t, "SALE", *flash.Badge)
	assert.Equal(t, "red", flash.Theme)
	assert.Equal(t, "/store?sort=discount", flash.ViewAll)
	require.Len(t, flash.Products, 1)
	require.NotNil(t, flash.Products[0].DiscountPct)
	assert.Equal(t, 50, *flash.Products[0].DiscountPct)

	arrivals := resp.Sections[1]
	assert.Equal(t, "new_arrivals", arrivals.Key)
	require.NotNil(t, arrivals.Badge)
	assert.Equal(t, "NEW", *arrivals.Badge)

	repo.AssertExpectations(t)
}

func TestGetSectionsDynamicBuckets(t *testing.T) {
	sample := []catalog.Product{
		product("iPhone 13"),
		product("Samsung Galaxy A54"),
		product("Nokia 3310 Phone"),
		product("Retinol Serum"),
		product("Vitamin C Serum"),
		product("Face Cleanser"),
		product("Hyaluronic Toner"),
		product("Mystery Box"), // classifies to Other Products, below min size
	}

	repo := new(MockProductRepository)
	expectEmptyCurated(repo)
	repo.On("SampleDisplayable", mock.Anything, 500).Return(sample, nil)

	svc := newService(repo, Config{})
	resp, err := svc.GetSections(context.Background())
	require.NoError(t, err)

	require.Len(t, resp.Sections, 2)

	// Skincare has 4 products, phones 3, so the bigger bucket comes first
	first := resp.Sections[0]
	assert.Equal(t, "Skincare", first.Title)
	assert.Equal(t, "cat_skincare", first.Key)
	assert.Equal(t, "Shop all skincare", first.Subtitle)
	assert.Equal(t, "forest", first.Theme)
	assert.Equal(t, "/store?q=Skincare", first.ViewAll)
	assert.Len(t, first.Products, 4)

	second := resp.Sections[1]
	assert.Equal(t, "Smartphones & Phones", second.Title)
	assert.Equal(t, "navy", second.Theme)
	assert.Len(t, second.Products, 3)
}

func TestGetSectionsBucketCapAndLimits(t *testing.T) {
	var sample []catalog.Product
	for i := 0; i < 6; i++ {
		sample = append(sample, product(fmt.Sprintf("Smartphone %d", i)))
	}
	for i := 0; i < 3; i++ {
		sample = append(sample, product(fmt.Sprintf("Serum %d", i)))
	}
	sample = append(sample, product("Lipstick"), product("Mascara"))

	repo := new(MockProductRepository)
	expectEmptyCurated(repo)
	repo.On("SampleDisplayable", mock.Anything, 500).Return(sample, nil)

	svc := newService(repo, Config{SectionLimit: 4, MinSectionSize: 3, MaxDynamicSections: 1})
	resp, err := svc.GetSections(context.Background())
	require.NoError(t, err)

	// makeup bucket (2) drops below min size, skincare (3) is trimmed by
	// MaxDynamicSections, the phone bucket caps at SectionLimit
	require.Len(t, resp.Sections, 1)
	s := resp.Sections[0]
	assert.Equal(t, "Smartphones & Phones", s.Title)
	assert.Len(t, s.Products, 4)
	assert.Equal(t, "Smartphone 0", s.Products[0].Title)
	assert.Equal(t, "Smartphone 3", s.Products[3].Title)
}

func TestGetSectionsPropagatesErrors(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("FindDiscounted", mock.Anything, mock.Anything).Return([]catalog.Product{}, errors.New("db down"))

	svc := newService(repo, Config{})
	resp, err := svc.GetSections(context.Background())
	assert.Error(t, err)
	assert.Nil(t, resp)
	assert.Nil(t, svc.snap.Load(), "failed build must not populate the cache")
}

func TestGetSectionsCaching(t *testing.T) {
	repo := new(MockProductRepository)
	repo.On("FindDiscounted", mock.Anything, mock.Anything).Return([]catalog.Product{product("Deal", discounted)}, nil)
	repo.On("FindNewest", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	repo.On("FindBestSellers", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	repo.On("FindTopRated", mock.Anything, mock.Anything, mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)
	repo.On("SampleDisplayable", mock.Anything, mock.Anything).Return([]catalog.Product{}, nil)

	svc := newService(repo, Config{CacheTTL: 10 * time.Minute})
	current := time.Now()
	svc.now = func() time.Time { return current }

	first, err := svc.GetSections(context.Background())
	require.NoError(t, err)

	// within TTL the snapshot is served without hitting the repository
	current = current.Add(9 * time.Minute)
	second, err := svc.GetSections(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindDiscounted", 1)
	assert.Equal(t, first.Sections, second.Sections)

	// past TTL the sections are rebuilt
	current = current.Add(2 * time.Minute)
	_, err = svc.GetSections(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindDiscounted", 2)

	// invalidation forces a rebuild before the TTL lapses
	svc.Invalidate()
	_, err = svc.GetSections(context.Background())
	require.NoError(t, err)
	repo.AssertNumberOfCalls(t, "FindDiscounted", 3)
}
