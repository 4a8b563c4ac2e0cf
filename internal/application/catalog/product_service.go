package catalog

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/shared"
)

// SectionCache is the slice of the homepage section service the catalog
// needs: product writes must drop the cached sections.
type SectionCache interface {
	Invalidate()
}

// ProductService handles storefront product reads and admin product writes
type ProductService struct {
	products catalog.ProductRepository
	sections SectionCache
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewProductService creates a new product service. sections may be nil
// when no homepage cache is wired.
func NewProductService(products catalog.ProductRepository, sections SectionCache, logger *zap.Logger) *ProductService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ProductService{
		products: products,
		sections: sections,
		logger:   logger,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *ProductService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

// List returns a paginated storefront product listing
func (s *ProductService) List(ctx context.Context, query ListProductsQuery) (*shared.Paginated[ProductResponse], error) {
	return s.list(ctx, query, false)
}

// ListAll returns a paginated admin listing including inactive and
// soft-deleted products.
func (s *ProductService) ListAll(ctx context.Context, query ListProductsQuery) (*shared.Paginated[ProductResponse], error) {
	return s.list(ctx, query, true)
}

func (s *ProductService) list(ctx context.Context, query ListProductsQuery, includeAll bool) (*shared.Paginated[ProductResponse], error) {
	filter := s.toFilter(query, includeAll)

	products, err := s.products.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.products.Count(ctx, filter)
	if err != nil {
		return nil, err
	}

	items := make([]ProductResponse, 0, len(products))
	for i := range products {
		items = append(items, NewProductResponse(&products[i]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// GetByID returns the full product detail
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductDetailResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := NewProductDetailResponse(product)
	return &resp, nil
}

// Create creates a new product
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*ProductDetailResponse, error) {
	price, err := parsePrice(input.Price)
	if err != nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Invalid price format")
	}

	product, err := catalog.NewProduct(input.Title, price)
	if err != nil {
		return nil, err
	}
	product.Brand = input.Brand
	product.Category = input.Category
	product.MainCategory = input.MainCategory
	product.ShortDescription = input.ShortDescription
	product.Description = input.Description
	product.Stock = input.Stock

	if input.ComparePrice != nil {
		compare, err := parsePrice(*input.ComparePrice)
		if err != nil {
			return nil, shared.NewDomainError("INVALID_INPUT", "Invalid compare price format")
		}
		if err := product.SetPricing(price, &compare); err != nil {
			return nil, err
		}
	}
	for i, imageURL := range input.Images {
		product.Images = append(product.Images, *catalog.NewProductImage(product.ID, imageURL, i == 0, i))
	}

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateSections()
	s.publish(ctx, catalog.NewProductCreatedEvent(product))

	s.logger.Info("Product created",
		zap.String("product_id", product.ID.String()),
		zap.String("title", product.Title))

	resp := NewProductDetailResponse(product)
	return &resp, nil
}

// Update applies a partial update to a product
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*ProductDetailResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if input.Title != nil {
		product.Title = *input.Title
	}
	if input.Brand != nil {
		product.Brand = *input.Brand
	}
	if input.Category != nil {
		product.Category = *input.Category
	}
	if input.MainCategory != nil {
		product.MainCategory = *input.MainCategory
	}
	if input.ShortDescription != nil {
		product.ShortDescription = *input.ShortDescription
	}
	if input.Description != nil {
		product.Description = *input.Description
	}
	if err := s.applyPricing(product, input); err != nil {
		return nil, err
	}
	if input.Status != nil {
		switch catalog.ProductStatus(*input.Status) {
		case catalog.ProductStatusActive:
			product.Activate()
		case catalog.ProductStatusInactive:
			product.Deactivate()
		}
	}
	product.Touch()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateSections()
	s.publish(ctx, catalog.NewProductUpdatedEvent(product))

	resp := NewProductDetailResponse(product)
	return &resp, nil
}

// AdjustStock changes the stock level by a signed delta
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, input AdjustStockInput) (*ProductDetailResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	oldStock := product.Stock
	if err := product.AdjustStock(input.Delta); err != nil {
		return nil, err
	}
	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateSections()
	s.publish(ctx, catalog.NewProductStockChangedEvent(product, oldStock))

	resp := NewProductDetailResponse(product)
	return &resp, nil
}

// SetImages replaces the product image list
func (s *ProductService) SetImages(ctx context.Context, id uuid.UUID, input SetImagesInput) (*ProductDetailResponse, error) {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	images := make([]catalog.ProductImage, 0, len(input.Images))
	for i, imageURL := range input.Images {
		images = append(images, *catalog.NewProductImage(product.ID, imageURL, i == 0, i))
	}
	product.Images = images
	product.Touch()

	if err := s.products.Save(ctx, product); err != nil {
		return nil, err
	}
	s.invalidateSections()
	s.publish(ctx, catalog.NewProductUpdatedEvent(product))

	resp := NewProductDetailResponse(product)
	return &resp, nil
}

// Delete soft-deletes a product
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	product, err := s.products.FindByID(ctx, id)
	if err != nil {
		return err
	}
	product.MarkDeleted()
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	s.invalidateSections()
	s.publish(ctx, catalog.NewProductDeletedEvent(product))

	s.logger.Info("Product deleted", zap.String("product_id", id.String()))
	return nil
}

func (s *ProductService) applyPricing(product *catalog.Product, input UpdateProductInput) error {
	if input.Price == nil && input.ComparePrice == nil {
		return nil
	}

	price := product.Price
	if input.Price != nil {
		parsed, err := parsePrice(*input.Price)
		if err != nil {
			return shared.NewDomainError("INVALID_INPUT", "Invalid price format")
		}
		price = parsed
	}

	compare := product.ComparePrice
	if input.ComparePrice != nil {
		if *input.ComparePrice == "" {
			compare = nil
		} else {
			parsed, err := parsePrice(*input.ComparePrice)
			if err != nil {
				return shared.NewDomainError("INVALID_INPUT", "Invalid compare price format")
			}
			compare = &parsed
		}
	}

	return product.SetPricing(price, compare)
}

func (s *ProductService) toFilter(query ListProductsQuery, includeAll bool) catalog.ProductFilter {
	base := shared.DefaultFilter()
	if query.Page > 0 {
		base.Page = query.Page
	}
	if query.PageSize > 0 {
		base.PageSize = query.PageSize
	}
	base.Search = query.Search

	switch query.Sort {
	case "price_asc":
		base.OrderBy, base.OrderDir = "price", "asc"
	case "price_desc":
		base.OrderBy, base.OrderDir = "price", "desc"
	case "discount":
		base.OrderBy, base.OrderDir = "discount", "desc"
	case "popular":
		base.OrderBy, base.OrderDir = "sales", "desc"
	case "rating":
		base.OrderBy, base.OrderDir = "rating", "desc"
	default:
		base.OrderBy, base.OrderDir = "created_at", "desc"
	}

	return catalog.ProductFilter{
		Filter:      base,
		Category:    query.Category,
		Brand:       query.Brand,
		MinPrice:    query.MinPrice,
		MaxPrice:    query.MaxPrice,
		InStockOnly: query.InStockOnly,
		IncludeAll:  includeAll,
	}
}

func (s *ProductService) invalidateSections() {
	if s.sections != nil {
		s.sections.Invalidate()
	}
}
