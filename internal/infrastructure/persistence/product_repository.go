package persistence

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/shared"
)

// GormProductRepository implements catalog.ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// displayable narrows a query to storefront-visible products
func (r *GormProductRepository) displayable(query *gorm.DB) *gorm.DB {
	return query.
		Where("status = ?", catalog.ProductStatusActive).
		Where("is_deleted = ?", false)
}

// FindByID finds a product by its ID with images preloaded
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter catalog.ProductFilter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") }).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter catalog.ProductFilter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates a product with its images
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Session(&gorm.Session{FullSaveAssociations: true}).Save(product).Error
}

// SaveAll creates or updates multiple products
func (r *GormProductRepository) SaveAll(ctx context.Context, products []*catalog.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Save(products).Error
}

// Delete removes a product row
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// FindDiscounted returns displayable in-stock products with a strikethrough
// price, steepest discount first
func (r *GormProductRepository) FindDiscounted(ctx context.Context, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.storefront(ctx).
		Where("compare_price IS NOT NULL").
		Where("compare_price > price").
		Where("price > 0").
		Order("(compare_price - price) / compare_price DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindNewest returns displayable in-stock products, newest first
func (r *GormProductRepository) FindNewest(ctx context.Context, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.storefront(ctx).
		Order("created_at DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindBestSellers returns products with recorded sales, highest first,
// review count breaking ties
func (r *GormProductRepository) FindBestSellers(ctx context.Context, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.storefront(ctx).
		Where("sales > 0").
		Order("sales DESC").
		Order("rating_number DESC NULLS LAST").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindTopRated returns well-reviewed products, best rating first
func (r *GormProductRepository) FindTopRated(ctx context.Context, minRating float64, minCount, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.storefront(ctx).
		Where("rating >= ?", minRating).
		Where("rating_number >= ?", minCount).
		Order("rating DESC").
		Order("rating_number DESC").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// SampleDisplayable returns up to limit displayable in-stock products in
// random order
func (r *GormProductRepository) SampleDisplayable(ctx context.Context, limit int) ([]catalog.Product, error) {
	var products []catalog.Product
	if err := r.storefront(ctx).
		Order("RANDOM()").
		Limit(limit).
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// storefront is the base query for homepage reads: visible, in stock,
// images preloaded
func (r *GormProductRepository) storefront(ctx context.Context) *gorm.DB {
	return r.displayable(r.db.WithContext(ctx).Model(&catalog.Product{})).
		Where("stock > 0").
		Preload("Images", func(db *gorm.DB) *gorm.DB { return db.Order("position ASC") })
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	switch filter.OrderBy {
	case "discount":
		query = query.
			Where("compare_price IS NOT NULL").
			Where("compare_price > price").
			Where("price > 0").
			Order("(compare_price - price) / compare_price DESC")
	case "rating":
		query = query.Order("rating DESC NULLS LAST")
	case "":
		query = query.Order("created_at DESC")
	default:
		orderDir := "ASC"
		if strings.ToLower(filter.OrderDir) == "desc" {
			orderDir = "DESC"
		}
		query = query.Order(filter.OrderBy + " " + orderDir)
	}

	return query
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter catalog.ProductFilter) *gorm.DB {
	if !filter.IncludeAll {
		query = r.displayable(query)
	}
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("title ILIKE ? OR brand ILIKE ? OR category ILIKE ?",
			searchPattern, searchPattern, searchPattern)
	}
	if filter.Category != "" {
		query = query.Where("category = ? OR main_category = ?", filter.Category, filter.Category)
	}
	if filter.Brand != "" {
		query = query.Where("brand = ?", filter.Brand)
	}
	if filter.MinPrice != nil {
		query = query.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		query = query.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.InStockOnly {
		query = query.Where("stock > 0")
	}
	return query
}
