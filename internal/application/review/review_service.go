package review

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/boutique/backend/internal/domain/catalog"
	"github.com/boutique/backend/internal/domain/review"
	"github.com/boutique/backend/internal/domain/shared"
)

// PurchaseLog answers whether a user has a paid order containing a product
type PurchaseLog interface {
	HasUserPurchased(ctx context.Context, userID, productID uuid.UUID) (bool, error)
}

// SectionCache is invalidated when rating aggregates change, since cards
// and the top-rated section render from them.
type SectionCache interface {
	Invalidate()
}

// ReviewService handles product reviews and keeps the denormalized rating
// aggregate on products in sync.
type ReviewService struct {
	reviews   review.Repository
	products  catalog.ProductRepository
	purchases PurchaseLog
	sections  SectionCache
	logger    *zap.Logger
}

// NewReviewService creates a new review service. purchases and sections
// may be nil.
func NewReviewService(
	reviews review.Repository,
	products catalog.ProductRepository,
	purchases PurchaseLog,
	sections SectionCache,
	logger *zap.Logger,
) *ReviewService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReviewService{
		reviews:   reviews,
		products:  products,
		purchases: purchases,
		sections:  sections,
		logger:    logger,
	}
}

// Create adds a review for a product, one per user per product
func (s *ReviewService) Create(ctx context.Context, userID uuid.UUID, input CreateReviewInput) (*ReviewResponse, error) {
	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}
	if !product.IsDisplayable() {
		return nil, shared.NewDomainError("PRODUCT_UNAVAILABLE", "This product cannot be reviewed")
	}

	exists, err := s.reviews.ExistsByProductAndUser(ctx, product.ID, userID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_REVIEWED", "You have already reviewed this product")
	}

	r, err := review.NewReview(product.ID, userID, input.Rating, input.Title, input.Comment)
	if err != nil {
		return nil, err
	}
	if s.purchases != nil {
		purchased, err := s.purchases.HasUserPurchased(ctx, userID, product.ID)
		if err != nil {
			s.logger.Error("Failed to check purchase history", zap.Error(err))
		} else if purchased {
			r.MarkVerified()
		}
	}

	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	if err := s.refreshSummary(ctx, product); err != nil {
		s.logger.Error("Failed to refresh rating summary",
			zap.String("product_id", product.ID.String()), zap.Error(err))
	}

	resp := NewReviewResponse(r)
	return &resp, nil
}

// ListByProduct returns a product's reviews, newest first
func (s *ReviewService) ListByProduct(ctx context.Context, productID uuid.UUID, page, pageSize int) (*shared.Paginated[ReviewResponse], error) {
	filter := shared.DefaultFilter()
	if page > 0 {
		filter.Page = page
	}
	if pageSize > 0 {
		filter.PageSize = pageSize
	}

	reviews, err := s.reviews.FindByProduct(ctx, productID, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.reviews.CountByProduct(ctx, productID)
	if err != nil {
		return nil, err
	}

	items := make([]ReviewResponse, 0, len(reviews))
	for idx := range reviews {
		items = append(items, NewReviewResponse(&reviews[idx]))
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// MarkHelpful increments a review's helpful counter
func (s *ReviewService) MarkHelpful(ctx context.Context, id uuid.UUID) (*ReviewResponse, error) {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.MarkHelpful()
	if err := s.reviews.Save(ctx, r); err != nil {
		return nil, err
	}
	resp := NewReviewResponse(r)
	return &resp, nil
}

// Delete removes a review; only the author or an admin may delete
func (s *ReviewService) Delete(ctx context.Context, id, requesterID uuid.UUID, isAdmin bool) error {
	r, err := s.reviews.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if !isAdmin && r.UserID != requesterID {
		return shared.ErrForbidden
	}
	if err := s.reviews.Delete(ctx, id); err != nil {
		return err
	}

	product, err := s.products.FindByID(ctx, r.ProductID)
	if err != nil {
		s.logger.Error("Failed to load product after review deletion", zap.Error(err))
		return nil
	}
	if err := s.refreshSummary(ctx, product); err != nil {
		s.logger.Error("Failed to refresh rating summary", zap.Error(err))
	}
	return nil
}

func (s *ReviewService) refreshSummary(ctx context.Context, product *catalog.Product) error {
	summary, err := s.reviews.SummaryForProduct(ctx, product.ID)
	if err != nil {
		return err
	}
	product.ApplyRatingSummary(summary.Average, summary.Count)
	if err := s.products.Save(ctx, product); err != nil {
		return err
	}
	if s.sections != nil {
		s.sections.Invalidate()
	}
	return nil
}
