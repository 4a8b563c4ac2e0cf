package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/shared"
)

// CategoryService handles category reads and admin writes
type CategoryService struct {
	categories catalog.CategoryRepository
	logger     *zap.Logger
}

// NewCategoryService creates a new category service
func NewCategoryService(categories catalog.CategoryRepository, logger *zap.Logger) *CategoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CategoryService{categories: categories, logger: logger}
}

// ListActive returns all active categories
func (s *CategoryService) ListActive(ctx context.Context) ([]CategoryResponse, error) {
	categories, err := s.categories.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		items = append(items, NewCategoryResponse(&categories[i]))
	}
	return items, nil
}

// GetBySlug returns a category by its slug
func (s *CategoryService) GetBySlug(ctx context.Context, slug string) (*CategoryResponse, error) {
	category, err := s.categories.FindBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	resp := NewCategoryResponse(category)
	return &resp, nil
}

// Create creates a new category
func (s *CategoryService) Create(ctx context.Context, input UpsertCategoryInput) (*CategoryResponse, error) {
	if existing, err := s.categories.FindBySlug(ctx, catalog.Slugify(input.Name)); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	category, err := catalog.NewCategory(input.Name)
	if err != nil {
		return nil, err
	}
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	s.logger.Info("Category created", zap.String("slug", category.Slug))

	resp := NewCategoryResponse(category)
	return &resp, nil
}

// Update updates a category
func (s *CategoryService) Update(ctx context.Context, id uuid.UUID, input UpsertCategoryInput) (*CategoryResponse, error) {
	category, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	category.Name = input.Name
	category.Slug = catalog.Slugify(input.Name)
	category.Description = input.Description
	category.ImageURL = input.ImageURL
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}
	category.Touch()

	if err := s.categories.Save(ctx, category); err != nil {
		return nil, err
	}
	resp := NewCategoryResponse(category)
	return &resp, nil
}

// Delete removes a category
func (s *CategoryService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.categories.Delete(ctx, id)
}

// BrandService handles brand reads and admin writes
type BrandService struct {
	brands catalog.BrandRepository
	logger *zap.Logger
}

// NewBrandService creates a new brand service
func NewBrandService(brands catalog.BrandRepository, logger *zap.Logger) *BrandService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BrandService{brands: brands, logger: logger}
}

// ListActive returns all active brands
func (s *BrandService) ListActive(ctx context.Context) ([]BrandResponse, error) {
	brands, err := s.brands.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	items := make([]BrandResponse, 0, len(brands))
	for i := range brands {
		items = append(items, NewBrandResponse(&brands[i]))
	}
	return items, nil
}

// Create creates a new brand
func (s *BrandService) Create(ctx context.Context, input UpsertBrandInput) (*BrandResponse, error) {
	if existing, err := s.brands.FindBySlug(ctx, catalog.Slugify(input.Name)); err == nil && existing != nil {
		return nil, shared.ErrAlreadyExists
	}

	brand, err := catalog.NewBrand(input.Name)
	if err != nil {
		return nil, err
	}
	brand.Description = input.Description
	brand.LogoURL = input.LogoURL
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}

	if err := s.brands.Save(ctx, brand); err != nil {
		return nil, err
	}
	s.logger.Info("Brand created", zap.String("slug", brand.Slug))

	resp := NewBrandResponse(brand)
	return &resp, nil
}

// Update updates a brand
func (s *BrandService) Update(ctx context.Context, id uuid.UUID, input UpsertBrandInput) (*BrandResponse, error) {
	brand, err := s.brands.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	brand.Name = input.Name
	brand.Slug = catalog.Slugify(input.Name)
	brand.Description = input.Description
	brand.LogoURL = input.LogoURL
	if input.IsActive != nil {
		brand.IsActive = *input.IsActive
	}
	brand.Touch()

	if err := s.brands.Save(ctx, brand); err != nil {
		return nil, err
	}
	resp := NewBrandResponse(brand)
	return &resp, nil
}

// Delete removes a brand
func (s *BrandService) Delete(ctx context.Context, id uuid.UUID) error {
	return s.brands.Delete(ctx, id)
}
