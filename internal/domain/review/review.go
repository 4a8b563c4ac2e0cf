package review

import (
	"strings"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/shared"
)

// Review is a customer rating for a product
type Review struct {
	shared.BaseEntity
	ProductID        uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_product_user,unique" json:"product_id"`
	UserID           uuid.UUID `gorm:"type:uuid;not null;index:idx_reviews_product_user,unique" json:"user_id"`
	Rating           int       `gorm:"not null" json:"rating"`
	Title            string    `gorm:"type:varchar(200)" json:"title"`
	Comment          string    `gorm:"type:text" json:"comment"`
	VerifiedPurchase bool      `gorm:"not null;default:false" json:"verified_purchase"`
	HelpfulCount     int       `gorm:"not null;default:0" json:"helpful_count"`
}

// NewReview creates a review with a 1..5 rating
func NewReview(productID, userID uuid.UUID, rating int, title, comment string) (*Review, error) {
	if productID == uuid.Nil || userID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INPUT", "Product and user are required")
	}
	if rating < 1 || rating > 5 {
		return nil, shared.NewDomainError("INVALID_RATING", "Rating must be between 1 and 5")
	}
	return &Review{
		BaseEntity: shared.NewBaseEntity(),
		ProductID:  productID,
		UserID:     userID,
		Rating:     rating,
		Title:      strings.TrimSpace(title),
		Comment:    strings.TrimSpace(comment),
	}, nil
}

// MarkVerified flags the review as coming from a completed purchase
func (r *Review) MarkVerified() {
	r.VerifiedPurchase = true
	r.Touch()
}

// MarkHelpful increments the helpful counter
func (r *Review) MarkHelpful() {
	r.HelpfulCount++
	r.Touch()
}

// Summary is the aggregate used to denormalize ratings onto products
type Summary struct {
	Average float64
	Count   int
}
