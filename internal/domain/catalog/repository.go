package catalog

import (
	"context"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// ProductFilter narrows product listings beyond the shared filter
type ProductFilter struct {
	shared.Filter
	Category     string
	Brand        string
	MinPrice     *float64
	MaxPrice     *float64
	InStockOnly  bool
	IncludeAll   bool // admin listings include inactive and deleted rows
}

// ProductRepository persists products and serves storefront read queries.
// The Find* read methods return only displayable, in-stock products with
// images preloaded.
type ProductRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)
	FindAll(ctx context.Context, filter ProductFilter) ([]Product, error)
	Count(ctx context.Context, filter ProductFilter) (int64, error)
	Save(ctx context.Context, product *Product) error
	SaveAll(ctx context.Context, products []*Product) error
	Delete(ctx context.Context, id uuid.UUID) error

	// FindDiscounted returns products with compare_price > price > 0,
	// ordered by discount fraction descending.
	FindDiscounted(ctx context.Context, limit int) ([]Product, error)
	// FindNewest returns products ordered by created_at descending.
	FindNewest(ctx context.Context, limit int) ([]Product, error)
	// FindBestSellers returns products with sales > 0 ordered by sales
	// descending, then rating_number descending with nulls last.
	FindBestSellers(ctx context.Context, limit int) ([]Product, error)
	// FindTopRated returns products with rating >= minRating and
	// rating_number >= minCount, ordered by rating then rating_number
	// descending.
	FindTopRated(ctx context.Context, minRating float64, minCount, limit int) ([]Product, error)
	// SampleDisplayable returns up to limit displayable in-stock products
	// in random order.
	SampleDisplayable(ctx context.Context, limit int) ([]Product, error)
}

// CategoryRepository persists categories
type CategoryRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Category, error)
	FindBySlug(ctx context.Context, slug string) (*Category, error)
	FindAllActive(ctx context.Context) ([]Category, error)
	Save(ctx context.Context, category *Category) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// BrandRepository persists brands
type BrandRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Brand, error)
	FindBySlug(ctx context.Context, slug string) (*Brand, error)
	FindAllActive(ctx context.Context) ([]Brand, error)
	Save(ctx context.Context, brand *Brand) error
	Delete(ctx context.Context, id uuid.UUID) error
}
