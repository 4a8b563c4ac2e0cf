package order

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/cart"
	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/coupon"
	"github.com/boutique/backend/internal/domain/order"
	"github.com/boutique/backend/internal/domain/shared"
	"github.com/boutique/backend/internal/domain/wallet"
	"github.com/boutique/backend/internal/infrastructure/telemetry"
)

// OrderService turns carts into orders and serves order listings
type OrderService struct {
	orders   order.Repository
	carts    cart.Repository
	products catalog.ProductRepository
	coupons  coupon.Repository
	wallets  wallet.Repository
	events   shared.EventPublisher
	logger   *zap.Logger
	now      func() time.Time
}

// NewOrderService creates a new order service
func NewOrderService(
	orders order.Repository,
	carts cart.Repository,
	products catalog.ProductRepository,
	coupons coupon.Repository,
	wallets wallet.Repository,
	logger *zap.Logger,
) *OrderService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderService{
		orders:   orders,
		carts:    carts,
		products: products,
		coupons:  coupons,
		wallets:  wallets,
		logger:   logger,
		now:      time.Now,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *OrderService) SetEventPublisher(publisher shared.EventPublisher) {
	s.events = publisher
}

func (s *OrderService) publish(ctx context.Context, event shared.DomainEvent) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, event); err != nil {
		s.logger.Error("Failed to publish event",
			zap.String("event_type", event.EventType()), zap.Error(err))
	}
}

// Checkout converts the user's cart into a pending order. Stock is reserved
// immediately; the order awaits a payment proof.
func (s *OrderService) Checkout(ctx context.Context, userID uuid.UUID, input CheckoutInput) (*OrderResponse, error) {
	ctx, span := telemetry.StartServiceSpan(ctx, "order", "checkout",
		telemetry.WithAttribute(telemetry.SpanAttrUserID, userID.String()))
	defer span.End()

	userCart, err := s.carts.FindByUserID(ctx, userID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
		}
		return nil, err
	}
	if userCart.IsEmpty() {
		return nil, shared.NewDomainError("EMPTY_CART", "Cart is empty")
	}

	items, reserved, err := s.reserveStock(ctx, userCart)
	if err != nil {
		return nil, err
	}

	subtotal := userCart.Subtotal()

	var appliedCoupon *coupon.Coupon
	discount := decimal.Zero
	if input.CouponCode != "" {
		appliedCoupon, discount, err = s.applyCoupon(ctx, userID, input.CouponCode, subtotal)
		if err != nil {
			s.releaseStock(ctx, reserved, userCart)
			return nil, err
		}
	}

	var userWallet *wallet.Wallet
	walletApplied := decimal.Zero
	if input.UseWallet {
		userWallet, err = s.wallets.FindByUserID(ctx, userID)
		if err != nil {
			s.releaseStock(ctx, reserved, userCart)
			return nil, err
		}
		remaining := subtotal.Sub(discount)
		walletApplied = decimal.Min(userWallet.Balance, remaining)
		if !walletApplied.IsPositive() {
			walletApplied = decimal.Zero
			userWallet = nil
		}
	}

	newOrder, err := order.NewOrder(userID, items, input.Address.toAddress(), couponCode(appliedCoupon), discount, walletApplied)
	if err != nil {
		s.releaseStock(ctx, reserved, userCart)
		return nil, err
	}

	if userWallet != nil {
		tx, err := userWallet.Debit(walletApplied, wallet.TransactionTypePurchase,
			"Applied to order", newOrder.Reference)
		if err != nil {
			s.releaseStock(ctx, reserved, userCart)
			return nil, err
		}
		if err := s.wallets.Save(ctx, userWallet); err != nil {
			s.releaseStock(ctx, reserved, userCart)
			return nil, err
		}
		if err := s.wallets.SaveTransaction(ctx, tx); err != nil {
			s.logger.Error("Failed to record wallet transaction", zap.Error(err))
		}
	}

	placed := order.NewOrderPlacedEvent(newOrder)
	if err := s.orders.SaveWithEvents(ctx, newOrder, placed); err != nil {
		telemetry.RecordError(span, err)
		s.releaseStock(ctx, reserved, userCart)
		if userWallet != nil {
			s.reverseWalletDebit(ctx, userWallet, walletApplied, newOrder.Reference)
		}
		return nil, err
	}
	telemetry.SetAttributes(span,
		telemetry.SpanAttrOrderID, newOrder.ID.String(),
		telemetry.SpanAttrOrderReference, newOrder.Reference,
		telemetry.SpanAttrTotal, newOrder.Total.String(),
	)

	if appliedCoupon != nil {
		appliedCoupon.RecordUsage()
		if err := s.coupons.Save(ctx, appliedCoupon); err != nil {
			s.logger.Error("Failed to record coupon usage", zap.Error(err))
		}
		usage := &coupon.CouponUsage{
			BaseEntity:     shared.NewBaseEntity(),
			CouponID:       appliedCoupon.ID,
			UserID:         userID,
			OrderID:        &newOrder.ID,
			DiscountAmount: discount,
		}
		if err := s.coupons.SaveUsage(ctx, usage); err != nil {
			s.logger.Error("Failed to record coupon usage row", zap.Error(err))
		}
	}

	userCart.Clear()
	if err := s.carts.Save(ctx, userCart); err != nil {
		s.logger.Error("Failed to clear cart after checkout", zap.Error(err))
	}

	s.publish(ctx, placed)

	s.logger.Info("Order placed",
		zap.String("order_id", newOrder.ID.String()),
		zap.String("reference", newOrder.Reference),
		zap.String("user_id", userID.String()))

	resp := NewOrderResponse(newOrder)
	return &resp, nil
}

// GetByID returns an order; non-admin callers only see their own orders
func (s *OrderService) GetByID(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, shared.ErrForbidden
	}
	resp := NewOrderResponse(o)
	return &resp, nil
}

// ListMine returns the user's own orders, newest first
func (s *OrderService) ListMine(ctx context.Context, userID uuid.UUID, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	filter, err := s.toFilter(query)
	if err != nil {
		return nil, err
	}
	filter.UserID = &userID
	return s.list(ctx, filter)
}

// ListAll returns all orders for admin review
func (s *OrderService) ListAll(ctx context.Context, query ListOrdersQuery) (*shared.Paginated[OrderResponse], error) {
	filter, err := s.toFilter(query)
	if err != nil {
		return nil, err
	}
	return s.list(ctx, filter)
}

// Cancel voids an unpaid order, releasing stock and refunding any wallet
// amount that was applied at checkout.
func (s *OrderService) Cancel(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) (*OrderResponse, error) {
	o, err := s.orders.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !isAdmin && o.UserID != requesterID {
		return nil, shared.ErrForbidden
	}
	if err := o.Cancel(); err != nil {
		return nil, err
	}
	cancelled := order.NewOrderCancelledEvent(o)
	if err := s.orders.SaveWithEvents(ctx, o, cancelled); err != nil {
		return nil, err
	}

	for idx := range o.Items {
		item := &o.Items[idx]
		product, err := s.products.FindByID(ctx, item.ProductID)
		if err != nil {
			s.logger.Error("Failed to release stock for cancelled order",
				zap.String("product_id", item.ProductID.String()), zap.Error(err))
			continue
		}
		if err := product.RevertSale(item.Quantity); err == nil {
			if err := s.products.Save(ctx, product); err != nil {
				s.logger.Error("Failed to save released stock", zap.Error(err))
			}
		}
	}

	if o.WalletApplied.IsPositive() {
		if err := s.refundWallet(ctx, o); err != nil {
			s.logger.Error("Failed to refund wallet for cancelled order",
				zap.String("order_id", o.ID.String()), zap.Error(err))
		}
	}

	s.publish(ctx, cancelled)

	s.logger.Info("Order cancelled", zap.String("reference", o.Reference))
	resp := NewOrderResponse(o)
	return &resp, nil
}

func (s *OrderService) reserveStock(ctx context.Context, userCart *cart.Cart) ([]order.Item, []*catalog.Product, error) {
	items := make([]order.Item, 0, len(userCart.Items))
	reserved := make([]*catalog.Product, 0, len(userCart.Items))
	for idx := range userCart.Items {
		line := &userCart.Items[idx]
		product, err := s.products.FindByID(ctx, line.ProductID)
		if err != nil {
			s.releaseStock(ctx, reserved, userCart)
			return nil, nil, err
		}
		if !product.IsDisplayable() {
			s.releaseStock(ctx, reserved, userCart)
			return nil, nil, shared.NewDomainError("PRODUCT_UNAVAILABLE",
				"Product is no longer available: "+product.Title)
		}
		if err := product.RecordSale(line.Quantity); err != nil {
			s.releaseStock(ctx, reserved, userCart)
			return nil, nil, err
		}
		reserved = append(reserved, product)
		items = append(items, order.Item{
			BaseEntity: shared.NewBaseEntity(),
			ProductID:  product.ID,
			Title:      line.Title,
			UnitPrice:  line.UnitPrice,
			Quantity:   line.Quantity,
			ImageURL:   line.ImageURL,
		})
	}
	if err := s.products.SaveAll(ctx, reserved); err != nil {
		return nil, nil, err
	}
	return items, reserved, nil
}

func (s *OrderService) releaseStock(ctx context.Context, reserved []*catalog.Product, userCart *cart.Cart) {
	if len(reserved) == 0 {
		return
	}
	for _, product := range reserved {
		for idx := range userCart.Items {
			if userCart.Items[idx].ProductID == product.ID {
				_ = product.RevertSale(userCart.Items[idx].Quantity)
			}
		}
	}
	if err := s.products.SaveAll(ctx, reserved); err != nil {
		s.logger.Error("Failed to release reserved stock", zap.Error(err))
	}
}

func (s *OrderService) applyCoupon(ctx context.Context, userID uuid.UUID, code string, subtotal decimal.Decimal) (*coupon.Coupon, decimal.Decimal, error) {
	c, err := s.coupons.FindByCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		if shared.IsNotFound(err) {
			return nil, decimal.Zero, shared.NewDomainError("COUPON_NOT_FOUND", "Unknown coupon code")
		}
		return nil, decimal.Zero, err
	}
	usages, err := s.coupons.CountUsagesByUser(ctx, c.ID, userID)
	if err != nil {
		return nil, decimal.Zero, err
	}
	discount, err := c.DiscountFor(subtotal, s.now(), usages)
	if err != nil {
		return nil, decimal.Zero, err
	}
	return c, discount, nil
}

// reverseWalletDebit restores funds debited for an order that was never
// persisted, so a failed save cannot leave the balance short.
func (s *OrderService) reverseWalletDebit(ctx context.Context, userWallet *wallet.Wallet, amount decimal.Decimal, reference string) {
	tx, err := userWallet.Credit(amount, wallet.TransactionTypeRefund,
		"Reversal for failed checkout", reference)
	if err != nil {
		s.logger.Error("Failed to reverse wallet debit", zap.Error(err))
		return
	}
	if err := s.wallets.Save(ctx, userWallet); err != nil {
		s.logger.Error("Failed to reverse wallet debit", zap.Error(err))
		return
	}
	if err := s.wallets.SaveTransaction(ctx, tx); err != nil {
		s.logger.Error("Failed to record wallet reversal", zap.Error(err))
	}
}

func (s *OrderService) refundWallet(ctx context.Context, o *order.Order) error {
	userWallet, err := s.wallets.FindByUserID(ctx, o.UserID)
	if err != nil {
		return err
	}
	tx, err := userWallet.Credit(o.WalletApplied, wallet.TransactionTypeRefund,
		"Refund for cancelled order", o.Reference)
	if err != nil {
		return err
	}
	if err := s.wallets.Save(ctx, userWallet); err != nil {
		return err
	}
	return s.wallets.SaveTransaction(ctx, tx)
}

func (s *OrderService) list(ctx context.Context, filter order.Filter) (*shared.Paginated[OrderResponse], error) {
	orders, err := s.orders.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.orders.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]OrderResponse, 0, len(orders))
	for idx := range orders {
		items = append(items, NewOrderResponse(&orders[idx]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

func (s *OrderService) toFilter(query ListOrdersQuery) (order.Filter, error) {
	base := shared.DefaultFilter()
	if query.Page > 0 {
		base.Page = query.Page
	}
	if query.PageSize > 0 {
		base.PageSize = query.PageSize
	}
	filter := order.Filter{Filter: base}

	if query.PaymentStatus != "" {
		status := order.PaymentStatus(query.PaymentStatus)
		if !status.IsValid() {
			return filter, shared.NewDomainError("INVALID_INPUT", "Unknown payment status")
		}
		filter.PaymentStatus = &status
	}
	if query.ShippingStatus != "" {
		status := order.ShippingStatus(query.ShippingStatus)
		if !status.IsValid() {
			return filter, shared.NewDomainError("INVALID_INPUT", "Unknown shipping status")
		}
		filter.ShippingStatus = &status
	}
	return filter, nil
}

func couponCode(c *coupon.Coupon) string {
	if c == nil {
		return ""
	}
	return c.Code
}
