package service

import (
	"context"
	"math"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

// ReviewSummary aggregates a product's approved reviews
type ReviewSummary struct {
	TotalReviews          int         `json:"total_reviews"`
	AverageRating         float64     `json:"average_rating"`
	RecommendedPercentage float64     `json:"recommended_percentage"`
	RatingDistribution    map[int]int `json:"rating_distribution"`
}

// SummarizeRatings computes the rating distribution, average rating and
// recommendation percentage (share of ratings >= 4). All five distribution
// buckets are always present; averages are rounded to 2 decimal places.
func SummarizeRatings(ratings []int) ReviewSummary {
	distribution := map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}

	total := len(ratings)
	sum := 0
	recommended := 0
	for _, rating := range ratings {
		if rating >= 1 && rating <= 5 {
			distribution[rating]++
		}
		sum += rating
		if rating >= 4 {
			recommended++
		}
	}

	summary := ReviewSummary{
		TotalReviews:       total,
		RatingDistribution: distribution,
	}
	if total > 0 {
		summary.AverageRating = round2(float64(sum) / float64(total))
		summary.RecommendedPercentage = round2(float64(recommended) / float64(total) * 100)
	}
	return summary
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

type reviewService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewReviewService creates a new review service
func NewReviewService(repos *repository.Repositories, logger *zap.Logger) *reviewService {
	return &reviewService{
		repos:  repos,
		logger: logger,
	}
}

// CreateReview creates a review for a product. One review per
// (customer, product, variant); the verified-purchase flag is derived from
// the customer's order history.
func (s *reviewService) CreateReview(ctx context.Context, customerID, productID uuid.UUID, req ReviewRequest) (*domain.Review, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &errors.ErrValidation{Message: "rating must be between 1 and 5"}
	}

	if _, err := s.repos.Product.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	var variantID *uuid.UUID
	if req.VariantID != nil {
		vid, err := uuid.Parse(*req.VariantID)
		if err != nil {
			return nil, &errors.ErrValidation{Message: "invalid variant_id"}
		}
		variant, err := s.repos.Variant.GetByID(ctx, vid)
		if err != nil {
			return nil, err
		}
		if variant.ProductID != productID {
			return nil, &errors.ErrValidation{Message: "variant does not belong to product"}
		}
		variantID = &vid
	}

	existing, err := s.repos.Review.GetByCustomerProductVariant(ctx, customerID, productID, variantID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); !ok {
			return nil, err
		}
	}
	if existing != nil {
		return nil, &errors.ErrConflict{Message: "review already exists for this product"}
	}

	verified, err := s.repos.OrderItem.ExistsForCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		return nil, err
	}

	review := &domain.Review{
		ProductID:          productID,
		VariantID:          variantID,
		CustomerID:         customerID,
		Rating:             req.Rating,
		Title:              req.Title,
		Body:               req.Body,
		Pros:               req.Pros,
		Cons:               req.Cons,
		IsVerifiedPurchase: verified,
		IsApproved:         true,
	}

	if err := s.repos.Review.Create(ctx, review); err != nil {
		return nil, err
	}

	s.logger.Info("Review created",
		zap.String("review_id", review.ID.String()),
		zap.String("product_id", productID.String()),
		zap.Int("rating", review.Rating),
		zap.Bool("verified_purchase", verified),
	)

	return review, nil
}

// ProductReviews returns a product's approved reviews with a summary block
func (s *reviewService) ProductReviews(ctx context.Context, productID uuid.UUID, limit, offset int) ([]*domain.Review, ReviewSummary, error) {
	if _, err := s.repos.Product.GetByID(ctx, productID); err != nil {
		return nil, ReviewSummary{}, err
	}

	reviews, err := s.repos.Review.ListByProduct(ctx, productID, true, limit, offset)
	if err != nil {
		return nil, ReviewSummary{}, err
	}

	ratings, err := s.repos.Review.RatingsByProduct(ctx, productID)
	if err != nil {
		return nil, ReviewSummary{}, err
	}

	return reviews, SummarizeRatings(ratings), nil
}

// ToggleHelpfulVote records, flips or removes a customer's helpful vote on
// a review. A repeated identical vote removes it; a changed vote overwrites
// it. The denormalized helpful count is recomputed by re-scanning the
// review's votes; recount failures are logged and do not fail the vote.
func (s *reviewService) ToggleHelpfulVote(ctx context.Context, reviewID, customerID uuid.UUID, isHelpful bool) (int, bool, error) {
	review, err := s.repos.Review.GetByID(ctx, reviewID)
	if err != nil {
		return 0, false, err
	}

	voted := true
	existing, err := s.repos.ReviewVote.GetByReviewAndCustomer(ctx, reviewID, customerID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); !ok {
			return 0, false, err
		}
	}

	if existing != nil && existing.IsHelpful == isHelpful {
		// Same vote repeated: toggle it off
		if err := s.repos.ReviewVote.Delete(ctx, reviewID, customerID); err != nil {
			return 0, false, err
		}
		voted = false
	} else {
		vote := &domain.ReviewHelpfulVote{
			ReviewID:   reviewID,
			CustomerID: customerID,
			IsHelpful:  isHelpful,
		}
		if err := s.repos.ReviewVote.Upsert(ctx, vote); err != nil {
			return 0, false, err
		}
	}

	// Best-effort recount; the vote itself already succeeded
	count, err := s.repos.ReviewVote.CountHelpful(ctx, reviewID)
	if err != nil {
		s.logger.Warn("Helpful vote recount failed", zap.String("review_id", reviewID.String()), zap.Error(err))
		return review.HelpfulCount, voted, nil
	}
	if err := s.repos.Review.UpdateHelpfulCount(ctx, reviewID, count); err != nil {
		s.logger.Warn("Failed to persist helpful count", zap.String("review_id", reviewID.String()), zap.Error(err))
	}

	return count, voted, nil
}

// SetApproval flips a review's approval flag
func (s *reviewService) SetApproval(ctx context.Context, reviewID uuid.UUID, approved bool) error {
	return s.repos.Review.SetApproval(ctx, reviewID, approved)
}
