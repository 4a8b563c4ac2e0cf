package order

import (
	"time"

	"github.com/boutique/backend/internal/domain/order"
)

// AddressInput is the delivery address supplied at checkout
type AddressInput struct {
	FullName string `json:"full_name" binding:"required,max=200"`
	Phone    string `json:"phone" binding:"required,max=50"`
	Line1    string `json:"line1" binding:"required,max=300"`
	Line2    string `json:"line2" binding:"max=300"`
	City     string `json:"city" binding:"required,max=120"`
	District string `json:"district" binding:"max=120"`
	Country  string `json:"country" binding:"max=120"`
}

// CheckoutInput turns the user's cart into an order
type CheckoutInput struct {
	Address    AddressInput `json:"address" binding:"required"`
	CouponCode string       `json:"coupon_code" binding:"max=50"`
	UseWallet  bool         `json:"use_wallet"`
}

// ListOrdersQuery narrows an order listing
type ListOrdersQuery struct {
	Page           int    `form:"page"`
	PageSize       int    `form:"page_size"`
	PaymentStatus  string `form:"payment_status"`
	ShippingStatus string `form:"shipping_status"`
}

// SubmitProofInput confirms an uploaded payment proof
type SubmitProofInput struct {
	StorageKey string `json:"storage_key" binding:"required,max=500"`
}

// RejectPaymentInput carries the reviewer's reason
type RejectPaymentInput struct {
	Reason string `json:"reason" binding:"required,max=500"`
}

// UpdateShippingInput advances fulfilment
type UpdateShippingInput struct {
	Status string `json:"status" binding:"required,oneof=processing shipped delivered cancelled"`
}

// ItemResponse is a purchased line
type ItemResponse struct {
	ProductID string  `json:"product_id"`
	Title     string  `json:"title"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	LineTotal float64 `json:"line_total"`
	ImageURL  string  `json:"image_url"`
}

// AddressResponse is the delivery address snapshot
type AddressResponse struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Line1    string `json:"line1"`
	Line2    string `json:"line2"`
	City     string `json:"city"`
	District string `json:"district"`
	Country  string `json:"country"`
}

// OrderResponse is the full order projection
type OrderResponse struct {
	ID               string          `json:"id"`
	Reference        string          `json:"reference"`
	UserID           string          `json:"user_id"`
	Items            []ItemResponse  `json:"items"`
	Address          AddressResponse `json:"address"`
	Subtotal         float64         `json:"subtotal"`
	Discount         float64         `json:"discount"`
	WalletApplied    float64         `json:"wallet_applied"`
	Total            float64         `json:"total"`
	Currency         string          `json:"currency"`
	CouponCode       string          `json:"coupon_code"`
	PaymentStatus    string          `json:"payment_status"`
	ShippingStatus   string          `json:"shipping_status"`
	ProofSubmittedAt *time.Time      `json:"proof_submitted_at"`
	PaidAt           *time.Time      `json:"paid_at"`
	RejectionReason  string          `json:"rejection_reason"`
	CreatedAt        time.Time       `json:"created_at"`
}

// ProofUploadResponse grants a time-limited proof upload destination
type ProofUploadResponse struct {
	StorageKey string    `json:"storage_key"`
	UploadURL  string    `json:"upload_url"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// ProofDownloadResponse is a time-limited link to a submitted proof
type ProofDownloadResponse struct {
	DownloadURL string    `json:"download_url"`
	ExpiresAt   time.Time `json:"expires_at"`
}

func (a AddressInput) toAddress() order.Address {
	return order.Address{
		FullName: a.FullName,
		Phone:    a.Phone,
		Line1:    a.Line1,
		Line2:    a.Line2,
		City:     a.City,
		District: a.District,
		Country:  a.Country,
	}
}

// NewOrderResponse projects an order entity
func NewOrderResponse(o *order.Order) OrderResponse {
	items := make([]ItemResponse, 0, len(o.Items))
	for idx := range o.Items {
		item := &o.Items[idx]
		unitPrice, _ := item.UnitPrice.Float64()
		lineTotal, _ := item.LineTotal().Float64()
		items = append(items, ItemResponse{
			ProductID: item.ProductID.String(),
			Title:     item.Title,
			UnitPrice: unitPrice,
			Quantity:  item.Quantity,
			LineTotal: lineTotal,
			ImageURL:  item.ImageURL,
		})
	}
	subtotal, _ := o.Subtotal.Float64()
	discount, _ := o.Discount.Float64()
	walletApplied, _ := o.WalletApplied.Float64()
	total, _ := o.Total.Float64()
	return OrderResponse{
		ID:        o.ID.String(),
		Reference: o.Reference,
		UserID:    o.UserID.String(),
		Items:     items,
		Address: AddressResponse{
			FullName: o.Address.FullName,
			Phone:    o.Address.Phone,
			Line1:    o.Address.Line1,
			Line2:    o.Address.Line2,
			City:     o.Address.City,
			District: o.Address.District,
			Country:  o.Address.Country,
		},
		Subtotal:         subtotal,
		Discount:         discount,
		WalletApplied:    walletApplied,
		Total:            total,
		Currency:         o.Currency,
		CouponCode:       o.CouponCode,
		PaymentStatus:    string(o.PaymentStatus),
		ShippingStatus:   string(o.ShippingStatus),
		ProofSubmittedAt: o.ProofSubmittedAt,
		PaidAt:           o.PaidAt,
		RejectionReason:  o.RejectionReason,
		CreatedAt:        o.CreatedAt,
	}
}
