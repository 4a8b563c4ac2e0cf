package catalog

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/catalog"
)

// ListProductsQuery narrows a storefront or admin product listing
type ListProductsQuery struct {
	Page        int      `form:"page"`
	PageSize    int      `form:"page_size"`
	Search      string   `form:"q"`
	Category    string   `form:"category"`
	Brand       string   `form:"brand"`
	MinPrice    *float64 `form:"min_price"`
	MaxPrice    *float64 `form:"max_price"`
	InStockOnly bool     `form:"in_stock"`
	Sort        string   `form:"sort"` // newest | price_asc | price_desc | discount | popular | rating
}

// CreateProductInput contains data for creating a product
type CreateProductInput struct {
	Title            string   `json:"title" binding:"required,max=300"`
	Brand            string   `json:"brand" binding:"max=120"`
	Category         string   `json:"category" binding:"max=120"`
	MainCategory     string   `json:"main_category" binding:"max=120"`
	ShortDescription string   `json:"short_description" binding:"max=500"`
	Description      string   `json:"description"`
	Price            string   `json:"price" binding:"required"`
	ComparePrice     *string  `json:"compare_price"`
	Stock            int      `json:"stock" binding:"min=0"`
	Images           []string `json:"images"`
}

// UpdateProductInput contains data for updating a product. Nil pointers
// leave the corresponding field unchanged.
type UpdateProductInput struct {
	Title            *string `json:"title" binding:"omitempty,max=300"`
	Brand            *string `json:"brand" binding:"omitempty,max=120"`
	Category         *string `json:"category" binding:"omitempty,max=120"`
	MainCategory     *string `json:"main_category" binding:"omitempty,max=120"`
	ShortDescription *string `json:"short_description" binding:"omitempty,max=500"`
	Description      *string `json:"description"`
	Price            *string `json:"price"`
	ComparePrice     *string `json:"compare_price"` // empty string clears the compare price
	Status           *string `json:"status" binding:"omitempty,oneof=active inactive"`
}

// AdjustStockInput changes the stock level by a signed delta
type AdjustStockInput struct {
	Delta int `json:"delta" binding:"required"`
}

// SetImagesInput replaces the product image list; the first URL becomes
// the primary image.
type SetImagesInput struct {
	Images []string `json:"images" binding:"required"`
}

// ProductResponse is the storefront card projection of a product
type ProductResponse struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Brand        string   `json:"brand"`
	Category     string   `json:"category"`
	Price        float64  `json:"price"`
	ComparePrice *float64 `json:"compare_price"`
	DiscountPct  *int     `json:"discount_pct"`
	Currency     string   `json:"currency"`
	Rating       *float64 `json:"rating"`
	RatingNumber *int     `json:"rating_number"`
	Sales        int      `json:"sales"`
	InStock      bool     `json:"in_stock"`
	MainImage    *string  `json:"main_image"`
}

// ProductDetailResponse is the full projection of a product
type ProductDetailResponse struct {
	ProductResponse
	MainCategory     string    `json:"main_category"`
	ShortDescription string    `json:"short_description"`
	Description      string    `json:"description"`
	Stock            int       `json:"stock"`
	Status           string    `json:"status"`
	Images           []string  `json:"images"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// CategoryResponse is the public projection of a category
type CategoryResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	ImageURL    string `json:"image_url"`
}

// BrandResponse is the public projection of a brand
type BrandResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Slug        string `json:"slug"`
	Description string `json:"description"`
	LogoURL     string `json:"logo_url"`
}

// UpsertCategoryInput contains data for creating or updating a category
type UpsertCategoryInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description" binding:"max=500"`
	ImageURL    string `json:"image_url" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
}

// UpsertBrandInput contains data for creating or updating a brand
type UpsertBrandInput struct {
	Name        string `json:"name" binding:"required,max=120"`
	Description string `json:"description" binding:"max=500"`
	LogoURL     string `json:"logo_url" binding:"max=500"`
	IsActive    *bool  `json:"is_active"`
}

// NewProductResponse projects a product for listing cards
func NewProductResponse(p *catalog.Product) ProductResponse {
	price, _ := p.Price.Float64()
	resp := ProductResponse{
		ID:           p.ID.String(),
		Title:        p.Title,
		Brand:        p.Brand,
		Category:     p.Category,
		Price:        price,
		DiscountPct:  p.DiscountPercent(),
		Currency:     p.Currency,
		Rating:       p.Rating,
		RatingNumber: p.RatingNumber,
		Sales:        p.Sales,
		InStock:      p.InStock(),
	}
	if p.ComparePrice != nil {
		compare, _ := p.ComparePrice.Float64()
		resp.ComparePrice = &compare
	}
	if main := p.MainImage(); main != "" {
		resp.MainImage = &main
	}
	return resp
}

// NewProductDetailResponse projects a product with all detail fields
func NewProductDetailResponse(p *catalog.Product) ProductDetailResponse {
	return ProductDetailResponse{
		ProductResponse:  NewProductResponse(p),
		MainCategory:     p.MainCategory,
		ShortDescription: p.ShortDescription,
		Description:      p.Description,
		Stock:            p.Stock,
		Status:           string(p.Status),
		Images:           p.ImageURLs(),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

// NewCategoryResponse projects a category entity
func NewCategoryResponse(c *catalog.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID.String(),
		Name:        c.Name,
		Slug:        c.Slug,
		Description: c.Description,
		ImageURL:    c.ImageURL,
	}
}

// NewBrandResponse projects a brand entity
func NewBrandResponse(b *catalog.Brand) BrandResponse {
	return BrandResponse{
		ID:          b.ID.String(),
		Name:        b.Name,
		Slug:        b.Slug,
		Description: b.Description,
		LogoURL:     b.LogoURL,
	}
}

func parsePrice(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(raw)
}
