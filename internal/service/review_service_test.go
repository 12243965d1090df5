package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

func TestSummarizeRatingsEmpty(t *testing.T) {
	summary := SummarizeRatings(nil)

	assert.Equal(t, 0, summary.TotalReviews)
	assert.Equal(t, 0.0, summary.AverageRating)
	assert.Equal(t, 0.0, summary.RecommendedPercentage)
	// All five buckets present even with no reviews
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 0, 4: 0, 5: 0}, summary.RatingDistribution)
}

func TestSummarizeRatings(t *testing.T) {
	summary := SummarizeRatings([]int{5, 5, 3})

	assert.Equal(t, 3, summary.TotalReviews)
	assert.Equal(t, 4.33, summary.AverageRating)
	assert.Equal(t, 66.67, summary.RecommendedPercentage)
	assert.Equal(t, map[int]int{1: 0, 2: 0, 3: 1, 4: 0, 5: 2}, summary.RatingDistribution)
}

func TestSummarizeRatingsAllRecommended(t *testing.T) {
	summary := SummarizeRatings([]int{4, 5, 4})

	assert.Equal(t, 4.33, summary.AverageRating)
	assert.Equal(t, 100.0, summary.RecommendedPercentage)
}

func TestCreateReviewSetsVerifiedPurchase(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	customerID := uuid.New()
	repos.OrderItem.(*fakeOrderItems).purchases[customerID] = map[uuid.UUID]bool{productID: true}

	svc := NewReviewService(repos, zap.NewNop())
	review, err := svc.CreateReview(context.Background(), customerID, productID, ReviewRequest{
		Rating: 5,
		Pros:   []string{"sturdy", "good value"},
	})
	require.NoError(t, err)
	assert.True(t, review.IsVerifiedPurchase)
	assert.True(t, review.IsApproved)
}

func TestCreateReviewWithoutPurchase(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")

	svc := NewReviewService(repos, zap.NewNop())
	review, err := svc.CreateReview(context.Background(), uuid.New(), productID, ReviewRequest{Rating: 3})
	require.NoError(t, err)
	assert.False(t, review.IsVerifiedPurchase)
}

func TestCreateReviewOncePerProduct(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	customerID := uuid.New()

	svc := NewReviewService(repos, zap.NewNop())
	_, err := svc.CreateReview(context.Background(), customerID, productID, ReviewRequest{Rating: 4})
	require.NoError(t, err)

	_, err = svc.CreateReview(context.Background(), customerID, productID, ReviewRequest{Rating: 2})
	assert.IsType(t, &errors.ErrConflict{}, err)
}

func TestCreateReviewUnknownProduct(t *testing.T) {
	repos := newFakeRepos()
	svc := NewReviewService(repos, zap.NewNop())

	_, err := svc.CreateReview(context.Background(), uuid.New(), uuid.New(), ReviewRequest{Rating: 4})
	assert.IsType(t, &errors.ErrNotFound{}, err)
}

func TestCreateReviewRatingBounds(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	svc := NewReviewService(repos, zap.NewNop())

	for _, rating := range []int{0, 6, -1} {
		_, err := svc.CreateReview(context.Background(), uuid.New(), productID, ReviewRequest{Rating: rating})
		assert.IsType(t, &errors.ErrValidation{}, err, "rating %d should be rejected", rating)
	}
}

func TestProductReviewsSummary(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	repos.Review.(*fakeReviews).ratings[productID] = []int{5, 4, 2}

	svc := NewReviewService(repos, zap.NewNop())
	_, summary, err := svc.ProductReviews(context.Background(), productID, 20, 0)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.TotalReviews)
	assert.Equal(t, 3.67, summary.AverageRating)
	assert.Equal(t, 66.67, summary.RecommendedPercentage)
}

func seedReview(repos *repository.Repositories, productID uuid.UUID) uuid.UUID {
	svc := NewReviewService(repos, zap.NewNop())
	review, err := svc.CreateReview(context.Background(), uuid.New(), productID, ReviewRequest{Rating: 4})
	if err != nil {
		panic(err)
	}
	return review.ID
}

func TestToggleHelpfulVote(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	reviewID := seedReview(repos, productID)
	customerID := uuid.New()

	svc := NewReviewService(repos, zap.NewNop())
	ctx := context.Background()

	count, voted, err := svc.ToggleHelpfulVote(ctx, reviewID, customerID, true)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 1, count)

	// Same vote again: toggled off
	count, voted, err = svc.ToggleHelpfulVote(ctx, reviewID, customerID, true)
	require.NoError(t, err)
	assert.False(t, voted)
	assert.Equal(t, 0, count)
}

func TestToggleHelpfulVoteFlip(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	reviewID := seedReview(repos, productID)
	customerID := uuid.New()

	svc := NewReviewService(repos, zap.NewNop())
	ctx := context.Background()

	count, voted, err := svc.ToggleHelpfulVote(ctx, reviewID, customerID, true)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 1, count)

	// Opposite vote overwrites rather than toggling off
	count, voted, err = svc.ToggleHelpfulVote(ctx, reviewID, customerID, false)
	require.NoError(t, err)
	assert.True(t, voted)
	assert.Equal(t, 0, count)
}

func TestToggleHelpfulVoteCountsOnlyHelpful(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	reviewID := seedReview(repos, productID)

	svc := NewReviewService(repos, zap.NewNop())
	ctx := context.Background()

	_, _, err := svc.ToggleHelpfulVote(ctx, reviewID, uuid.New(), true)
	require.NoError(t, err)
	_, _, err = svc.ToggleHelpfulVote(ctx, reviewID, uuid.New(), false)
	require.NoError(t, err)

	count, _, err := svc.ToggleHelpfulVote(ctx, reviewID, uuid.New(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestToggleHelpfulVoteUnknownReview(t *testing.T) {
	repos := newFakeRepos()
	svc := NewReviewService(repos, zap.NewNop())

	_, _, err := svc.ToggleHelpfulVote(context.Background(), uuid.New(), uuid.New(), true)
	assert.IsType(t, &errors.ErrNotFound{}, err)
}

func TestSetApproval(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "50")
	reviewID := seedReview(repos, productID)

	svc := NewReviewService(repos, zap.NewNop())
	require.NoError(t, svc.SetApproval(context.Background(), reviewID, false))

	review, err := repos.Review.GetByID(context.Background(), reviewID)
	require.NoError(t, err)
	assert.False(t, review.IsApproved)
}
