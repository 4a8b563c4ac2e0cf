package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/boutique/backend/internal/domain/shared"
)

// Cart is a user's shopping cart, one per user
type Cart struct {
	shared.BaseEntity
	UserID uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	Items  []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
}

// CartItem is a product line in a cart. UnitPrice is snapshotted when the
// item is added so later price changes do not silently reprice the cart.
type CartItem struct {
	shared.BaseEntity
	CartID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"cart_id"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null;index" json:"product_id"`
	Title     string          `gorm:"type:varchar(300);not null" json:"title"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(18,2);not null" json:"unit_price"`
	Quantity  int             `gorm:"not null" json:"quantity"`
	ImageURL  string          `gorm:"type:varchar(500)" json:"image_url"`
}

// LineTotal returns quantity times unit price
func (i *CartItem) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// NewCart creates an empty cart for the user
func NewCart(userID uuid.UUID) *Cart {
	return &Cart{
		BaseEntity: shared.NewBaseEntity(),
		UserID:     userID,
	}
}

// AddItem adds a product to the cart, merging quantities when the product
// is already present. The existing price snapshot is kept on merge.
func (c *Cart) AddItem(productID uuid.UUID, title string, unitPrice decimal.Decimal, quantity int, imageURL string) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			c.Items[idx].Quantity += quantity
			c.Items[idx].Touch()
			c.Touch()
			return nil
		}
	}
	c.Items = append(c.Items, CartItem{
		BaseEntity: shared.NewBaseEntity(),
		CartID:     c.ID,
		ProductID:  productID,
		Title:      title,
		UnitPrice:  unitPrice,
		Quantity:   quantity,
		ImageURL:   imageURL,
	})
	c.Touch()
	return nil
}

// UpdateItemQuantity sets the quantity for a product; zero removes the line
func (c *Cart) UpdateItemQuantity(productID uuid.UUID, quantity int) error {
	if quantity < 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity cannot be negative")
	}
	for idx := range c.Items {
		if c.Items[idx].ProductID == productID {
			if quantity == 0 {
				c.Items = append(c.Items[:idx], c.Items[idx+1:]...)
			} else {
				c.Items[idx].Quantity = quantity
				c.Items[idx].Touch()
			}
			c.Touch()
			return nil
		}
	}
	return shared.ErrNotFound
}

// RemoveItem removes a product line from the cart
func (c *Cart) RemoveItem(productID uuid.UUID) error {
	return c.UpdateItemQuantity(productID, 0)
}

// Clear empties the cart
func (c *Cart) Clear() {
	c.Items = nil
	c.Touch()
}

// IsEmpty reports whether the cart has no items
func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// TotalQuantity returns the summed quantity across lines
func (c *Cart) TotalQuantity() int {
	total := 0
	for idx := range c.Items {
		total += c.Items[idx].Quantity
	}
	return total
}

// Subtotal returns the summed line totals
func (c *Cart) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for idx := range c.Items {
		subtotal = subtotal.Add(c.Items[idx].LineTotal())
	}
	return subtotal
}
