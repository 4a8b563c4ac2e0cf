package review

import (
	"time"

	"github.com/google/uuid"

	"github.com/boutique/backend/internal/domain/review"
)

// CreateReviewInput adds a review for a product
type CreateReviewInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Rating    int       `json:"rating" binding:"required,min=1,max=5"`
	Title     string    `json:"title" binding:"max=200"`
	Comment   string    `json:"comment" binding:"max=5000"`
}

// ReviewResponse is the public projection of a review
type ReviewResponse struct {
	ID               string    `json:"id"`
	ProductID        string    `json:"product_id"`
	UserID           string    `json:"user_id"`
	Rating           int       `json:"rating"`
	Title            string    `json:"title"`
	Comment          string    `json:"comment"`
	VerifiedPurchase bool      `json:"verified_purchase"`
	HelpfulCount     int       `json:"helpful_count"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewReviewResponse projects a review entity
func NewReviewResponse(r *review.Review) ReviewResponse {
	return ReviewResponse{
		ID:               r.ID.String(),
		ProductID:        r.ProductID.String(),
		UserID:           r.UserID.String(),
		Rating:           r.Rating,
		Title:            r.Title,
		Comment:          r.Comment,
		VerifiedPurchase: r.VerifiedPurchase,
		HelpfulCount:     r.HelpfulCount,
		CreatedAt:        r.CreatedAt,
	}
}
