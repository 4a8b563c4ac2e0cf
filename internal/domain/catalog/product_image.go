package catalog

import (
	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// ProductImage is a single gallery image attached to a product
type ProductImage struct {
	shared.BaseEntity
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id"`
	ImageURL  string    `gorm:"type:varchar(500);not null" json:"image_url"`
	IsPrimary bool      `gorm:"not null;default:false" json:"is_primary"`
	Position  int       `gorm:"not null;default:0" json:"position"`
}

// NewProductImage creates an image attached to the given product
func NewProductImage(productID uuid.UUID, imageURL string, isPrimary bool, position int) *ProductImage {
	return &ProductImage{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		ImageURL:   imageURL,
		IsPrimary:  isPrimary,
		Position:   position,
	}
}
