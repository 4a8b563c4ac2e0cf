package catalog

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// ProductStatus represents the lifecycle state of a product
type ProductStatus string

const (
	ProductStatusActive   ProductStatus = "active"
	ProductStatusInactive ProductStatus = "inactive"
)

// Product represents a sellable item in the catalog
type Product struct {
	shared.BaseEntity
	Title            string           `gorm:"type:varchar(300);not null" json:"title"`
	Brand            string           `gorm:"type:varchar(120);index" json:"brand"`
	Category         string           `gorm:"type:varchar(120);index" json:"category"`
	MainCategory     string           `gorm:"type:varchar(120);index" json:"main_category"`
	ShortDescription string           `gorm:"type:varchar(500)" json:"short_description"`
	Description      string           `gorm:"type:text" json:"description"`
	Price            decimal.Decimal  `gorm:"type:decimal(18,2);not null" json:"price"`
	ComparePrice     *decimal.Decimal `gorm:"type:decimal(18,2)" json:"compare_price"`
	Currency         string           `gorm:"type:varchar(3);not null;default:'LSL'" json:"currency"`
	Rating           *float64         `json:"rating"`
	RatingNumber     *int             `json:"rating_number"`
	Sales            int              `gorm:"not null;default:0" json:"sales"`
	Stock            int              `gorm:"not null;default:0" json:"stock"`
	Status           ProductStatus    `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	IsDeleted        bool             `gorm:"not null;default:false;index" json:"is_deleted"`
	DeletedAt        *time.Time       `json:"deleted_at"`
	Images           []ProductImage   `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"images"`
}

// NewProduct creates a new active product
func NewProduct(title string, price decimal.Decimal) (*Product, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product title is required")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product price cannot be negative")
	}
	return &Product{
		BaseEntity: shared.NewBaseEntity(),
		Title:      title,
		Price:      price,
		Currency:   "LSL",
		Status:     ProductStatusActive,
	}, nil
}

// SetPricing updates price and optional compare-at price
func (p *Product) SetPricing(price decimal.Decimal, comparePrice *decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Product price cannot be negative")
	}
	if comparePrice != nil && comparePrice.IsNegative() {
		return shared.NewDomainError("INVALID_INPUT", "Compare price cannot be negative")
	}
	p.Price = price
	p.ComparePrice = comparePrice
	p.Touch()
	return nil
}

// AdjustStock changes the stock level by delta
func (p *Product) AdjustStock(delta int) error {
	if p.Stock+delta < 0 {
		return shared.ErrInsufficientStock
	}
	p.Stock += delta
	p.Touch()
	return nil
}

// RecordSale decrements stock and increments the sales counter
func (p *Product) RecordSale(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Sale quantity must be positive")
	}
	if p.Stock < quantity {
		return shared.ErrInsufficientStock
	}
	p.Stock -= quantity
	p.Sales += quantity
	p.Touch()
	return nil
}

// RevertSale returns stock from a voided sale and rolls back the counter
func (p *Product) RevertSale(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_INPUT", "Sale quantity must be positive")
	}
	p.Stock += quantity
	if p.Sales >= quantity {
		p.Sales -= quantity
	} else {
		p.Sales = 0
	}
	p.Touch()
	return nil
}

// ApplyRatingSummary replaces the denormalized review aggregate
func (p *Product) ApplyRatingSummary(average float64, count int) {
	if count <= 0 {
		p.Rating = nil
		p.RatingNumber = nil
	} else {
		p.Rating = &average
		p.RatingNumber = &count
	}
	p.Touch()
}

// Activate makes the product visible to the storefront
func (p *Product) Activate() {
	p.Status = ProductStatusActive
	p.Touch()
}

// Deactivate hides the product from the storefront
func (p *Product) Deactivate() {
	p.Status = ProductStatusInactive
	p.Touch()
}

// MarkDeleted soft-deletes the product
func (p *Product) MarkDeleted() {
	now := time.Now()
	p.IsDeleted = true
	p.DeletedAt = &now
	p.Touch()
}

// IsDisplayable reports whether the product may appear on the storefront
func (p *Product) IsDisplayable() bool {
	return p.Status == ProductStatusActive && !p.IsDeleted
}

// InStock reports whether the product has stock available
func (p *Product) InStock() bool {
	return p.Stock > 0
}

// HasDiscount reports whether a strikethrough price applies
func (p *Product) HasDiscount() bool {
	return p.ComparePrice != nil &&
		p.ComparePrice.GreaterThan(p.Price) &&
		p.Price.IsPositive()
}

// DiscountPercent returns the rounded percentage saved against the compare
// price, or nil when no discount applies.
func (p *Product) DiscountPercent() *int {
	if !p.HasDiscount() {
		return nil
	}
	// Banker's rounding, so 12.5% shows as 12, not 13.
	pct := p.ComparePrice.Sub(p.Price).
		Div(*p.ComparePrice).
		Mul(decimal.NewFromInt(100)).
		RoundBank(0)
	n := int(pct.IntPart())
	return &n
}

// DiscountFraction returns the saved fraction of the compare price, used to
// rank flash deals. Zero when no discount applies.
func (p *Product) DiscountFraction() float64 {
	if !p.HasDiscount() {
		return 0
	}
	f, _ := p.ComparePrice.Sub(p.Price).Div(*p.ComparePrice).Float64()
	return f
}

// MainImage returns the primary image URL, falling back to the first image
func (p *Product) MainImage() string {
	for _, img := range p.Images {
		if img.IsPrimary {
			return img.ImageURL
		}
	}
	if len(p.Images) > 0 {
		return p.Images[0].ImageURL
	}
	return ""
}

// ImageURLs returns all image URLs in display order
func (p *Product) ImageURLs() []string {
	urls := make([]string, 0, len(p.Images))
	for _, img := range p.Images {
		urls = append(urls, img.ImageURL)
	}
	return urls
}
