package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

type reviewRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewReviewRepository creates a new review repository
func NewReviewRepository(db *sql.DB, logger *zap.Logger) *reviewRepository {
	return &reviewRepository{
		db:     db,
		logger: logger,
	}
}

const reviewColumns = `id, product_id, variant_id, customer_id, rating, title, body,
	pros, cons, is_verified_purchase, is_approved, helpful_count, created_at, updated_at`

func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	query := `
		INSERT INTO reviews (
			id, product_id, variant_id, customer_id, rating, title, body,
			pros, cons, is_verified_purchase, is_approved, helpful_count, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	now := time.Now()
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	if review.CreatedAt.IsZero() {
		review.CreatedAt = now
	}
	if review.UpdatedAt.IsZero() {
		review.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		review.ID,
		review.ProductID,
		review.VariantID,
		review.CustomerID,
		review.Rating,
		review.Title,
		review.Body,
		pq.Array(review.Pros),
		pq.Array(review.Cons),
		review.IsVerifiedPurchase,
		review.IsApproved,
		review.HelpfulCount,
		review.CreatedAt,
		review.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &errors.ErrConflict{Message: "review already exists for this product"}
		}
		r.logger.Error("Failed to create review", zap.Error(err))
		return err
	}

	return nil
}

func (r *reviewRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE id = $1
	`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get review by ID", zap.Error(err))
		return nil, err
	}

	return review, nil
}

func (r *reviewRepository) GetByCustomerProductVariant(ctx context.Context, customerID, productID uuid.UUID, variantID *uuid.UUID) (*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE customer_id = $1 AND product_id = $2 AND variant_id IS NOT DISTINCT FROM $3
	`

	review, err := scanReview(r.db.QueryRowContext(ctx, query, customerID, productID, variantID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "review", ID: productID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get review by customer/product/variant", zap.Error(err))
		return nil, err
	}

	return review, nil
}

func (r *reviewRepository) ListByProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool, limit, offset int) ([]*domain.Review, error) {
	query := `
		SELECT ` + reviewColumns + `
		FROM reviews
		WHERE product_id = $1 AND ($2 = false OR is_approved = true)
		ORDER BY created_at DESC
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.QueryContext(ctx, query, productID, approvedOnly, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list reviews by product", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var reviews []*domain.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			return nil, err
		}
		reviews = append(reviews, review)
	}

	return reviews, rows.Err()
}

func (r *reviewRepository) RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error) {
	query := `
		SELECT rating
		FROM reviews
		WHERE product_id = $1 AND is_approved = true
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.logger.Error("Failed to get ratings by product", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var ratings []int
	for rows.Next() {
		var rating int
		if err := rows.Scan(&rating); err != nil {
			return nil, err
		}
		ratings = append(ratings, rating)
	}

	return ratings, rows.Err()
}

func (r *reviewRepository) SetApproval(ctx context.Context, id uuid.UUID, approved bool) error {
	query := `
		UPDATE reviews
		SET is_approved = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, approved, time.Now())
	if err != nil {
		r.logger.Error("Failed to set review approval", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}

	return nil
}

func (r *reviewRepository) UpdateHelpfulCount(ctx context.Context, id uuid.UUID, count int) error {
	query := `
		UPDATE reviews
		SET helpful_count = $2, updated_at = $3
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query, id, count, time.Now())
	if err != nil {
		r.logger.Error("Failed to update review helpful count", zap.Error(err))
		return err
	}

	return nil
}

func scanReview(row rowScanner) (*domain.Review, error) {
	var review domain.Review
	var variantID uuid.NullUUID
	var title sql.NullString
	var body sql.NullString
	var pros pq.StringArray
	var cons pq.StringArray

	err := row.Scan(
		&review.ID,
		&review.ProductID,
		&variantID,
		&review.CustomerID,
		&review.Rating,
		&title,
		&body,
		&pros,
		&cons,
		&review.IsVerifiedPurchase,
		&review.IsApproved,
		&review.HelpfulCount,
		&review.CreatedAt,
		&review.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if variantID.Valid {
		review.VariantID = &variantID.UUID
	}
	if title.Valid {
		review.Title = &title.String
	}
	if body.Valid {
		review.Body = &body.String
	}
	review.Pros = []string(pros)
	review.Cons = []string(cons)

	return &review, nil
}
