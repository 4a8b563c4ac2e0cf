package cart

import (
	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/cart"
)

// AddItemInput adds a product to the cart
type AddItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateItemInput sets a cart line quantity; zero removes the line
type UpdateItemInput struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartItemResponse is a single cart line
type CartItemResponse struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	ImageURL  string  `json:"image_url"`
}

// CartResponse is the full cart projection
type CartResponse struct {
	Items         []CartItemResponse `json:"items"`
	TotalQuantity int                `json:"total_quantity"`
	Subtotal      float64            `json:"subtotal"`
}

// NewCartResponse projects a cart entity
func NewCartResponse(c *cart.Cart) CartResponse {
	items := make([]CartItemResponse, 0, len(c.Items))
	for idx := range c.Items {
		item := &c.Items[idx]
		unitPrice, _ := item.UnitPrice.Float64()
		lineTotal, _ := item.LineTotal().Float64()
		items = append(items, CartItemResponse{
			ProductID: item.ProductID.String(),
			Title:     item.Title,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			ImageURL:  item.ImageURL,
		})
	}
	subtotal, _ := c.Subtotal().Float64()
	return CartResponse{
		Items:         items,
		TotalQuantity: c.TotalQuantity(),
		Subtotal:      subtotal,
	}
}
