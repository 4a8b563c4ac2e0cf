package cart

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/cart"
	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/shared"
)

// CartService manages per-user shopping carts
type CartService struct {
	carts    cart.Repository
	products catalog.ProductRepository
	logger   *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(carts cart.Repository, products catalog.ProductRepository, logger *zap.Logger) *CartService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartService{
		carts:    carts,
		products: products,
		logger:   logger,
	}
}

// Get returns the user's cart, creating an empty one if none exists
func (s *CartService) Get(ctx context.Context, userID uuid.UUID) (*CartResponse, error) {
	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	resp := NewCartResponse(c)
	return &resp, nil
}

// AddItem adds a product to the cart, merging quantities for repeats
func (s *CartService) AddItem(ctx context.Context, userID uuid.UUID, input AddItemInput) (*CartResponse, error) {
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsDisplayable() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "This product is no longer available")
	}
	if product.Stock < input.Quantity {
		return nil, shared.ErrInsufficientStock
	}

	c, err := s.loadOrCreate(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.AddItem(product.ID, product.Title, product.Price, input.Quantity, product.MainImage()); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := NewCartResponse(c)
	return &resp, nil
}

// UpdateItem sets the quantity of a cart line; zero removes it
func (s *CartService) UpdateItem(ctx context.Context, userID, productID uuid.UUID, input UpdateItemInput) (*CartResponse, error) {
	c, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Quantity > 0 {
		product, err := s.products.FindByID(ctx, productID)
		if err != nil {
			return nil, err
		}
		if product.Stock < input.Quantity {
			return nil, shared.ErrInsufficientStock
		}
	}
	if err := c.UpdateItemQuantity(productID, input.Quantity); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := NewCartResponse(c)
	return &resp, nil
}

// RemoveItem removes a product line from the cart
func (s *CartService) RemoveItem(ctx context.Context, userID, productID uuid.UUID) (*CartResponse, error) {
	c, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := c.RemoveItem(productID); err != nil {
		return nil, err
	}
	if err := s.carts.Save(ctx, c); err != nil {
		return nil, err
	}

	resp := NewCartResponse(c)
	return &resp, nil
}

// Clear empties the user's cart
func (s *CartService) Clear(ctx context.Context, userID uuid.UUID) error {
	if err := s.carts.DeleteByUserID(ctx, userID); err != nil && !shared.IsNotFound(err) {
		return err
	}
	return nil
}

func (s *CartService) loadOrCreate(ctx context.Context, userID uuid.UUID) (*cart.Cart, error) {
	c, err := s.carts.FindByUserID(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !shared.IsNotFound(err) {
		return nil, err
	}
	return cart.NewCart(userID), nil
}
