package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

type reviewVoteRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewVoteRepository creates a new review helpful-vote repository
func NewReviewVoteRepository(db *sql.DB, logger *zap.Logger) *reviewVoteRepository {
	return &reviewVoteRepository{
		db:     db,
		logger: logger,
	}
}

func (r *reviewVoteRepository) GetByReviewAndCustomer(ctx context.Context, reviewID, customerID uuid.UUID) (*domain.ReviewHelpfulVote, error) {
	query := `
		SELECT id, review_id, customer_id, is_helpful, created_at
		FROM review_helpful_votes
		WHERE review_id = $1 AND customer_id = $2
	`

	var vote domain.ReviewHelpfulVote
	err := r.db.QueryRowContext(ctx, query, reviewID, customerID).Scan(
		&vote.ID,
		&vote.ReviewID,
		&vote.CustomerID,
		&vote.IsHelpful,
		&vote.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "review_vote", ID: reviewID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get review vote", zap.Error(err))
		return nil, err
	}

	return &vote, nil
}

func (r *reviewVoteRepository) Upsert(ctx context.Context, vote *domain.ReviewHelpfulVote) error {
	query := `
		INSERT INTO review_helpful_votes (id, review_id, customer_id, is_helpful, created_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (review_id, customer_id)
		DO UPDATE SET is_helpful = EXCLUDED.is_helpful
	`

	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	if vote.CreatedAt.IsZero() {
		vote.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		vote.ID,
		vote.ReviewID,
		vote.CustomerID,
		vote.IsHelpful,
		vote.CreatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to upsert review vote", zap.Error(err))
		return err
	}

	return nil
}

func (r *reviewVoteRepository) Delete(ctx context.Context, reviewID, customerID uuid.UUID) error {
	query := `
		DELETE FROM review_helpful_votes
		WHERE review_id = $1 AND customer_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, reviewID, customerID)
	if err != nil {
		r.logger.Error("Failed to delete review vote", zap.Error(err))
		return err
	}

	return nil
}

func (r *reviewVoteRepository) CountHelpful(ctx context.Context, reviewID uuid.UUID) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM review_helpful_votes
		WHERE review_id = $1 AND is_helpful = true
	`

	var count int
	if err := r.db.QueryRowContext(ctx, query, reviewID).Scan(&count); err != nil {
		r.logger.Error("Failed to count helpful votes", zap.Error(err))
		return 0, err
	}

	return count, nil
}
