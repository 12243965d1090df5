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

type wishlistRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewWishlistRepository creates a new wishlist repository
func NewWishlistRepository(db *sql.DB, logger *zap.Logger) *wishlistRepository {
	return &wishlistRepository{
		db:     db,
		logger: logger,
	}
}

func (r *wishlistRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.WishlistEntry, error) {
	query := `
		SELECT id, customer_id, product_id, created_at
		FROM wishlist_entries
		WHERE customer_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, customerID)
	if err != nil {
		r.logger.Error("Failed to list wishlist entries", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var entries []*domain.WishlistEntry
	for rows.Next() {
		var entry domain.WishlistEntry
		err := rows.Scan(
			&entry.ID,
			&entry.CustomerID,
			&entry.ProductID,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}

	return entries, rows.Err()
}

func (r *wishlistRepository) GetByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*domain.WishlistEntry, error) {
	query := `
		SELECT id, customer_id, product_id, created_at
		FROM wishlist_entries
		WHERE customer_id = $1 AND product_id = $2
	`

	var entry domain.WishlistEntry
	err := r.db.QueryRowContext(ctx, query, customerID, productID).Scan(
		&entry.ID,
		&entry.CustomerID,
		&entry.ProductID,
		&entry.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "wishlist_entry", ID: productID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get wishlist entry", zap.Error(err))
		return nil, err
	}

	return &entry, nil
}

func (r *wishlistRepository) Create(ctx context.Context, entry *domain.WishlistEntry) error {
	query := `
		INSERT INTO wishlist_entries (id, customer_id, product_id, created_at)
		VALUES ($1, $2, $3, $4)
	`

	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		entry.ID,
		entry.CustomerID,
		entry.ProductID,
		entry.CreatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &errors.ErrConflict{Message: "product already in wishlist"}
		}
		r.logger.Error("Failed to create wishlist entry", zap.Error(err))
		return err
	}

	return nil
}

func (r *wishlistRepository) Delete(ctx context.Context, customerID, productID uuid.UUID) error {
	query := `
		DELETE FROM wishlist_entries
		WHERE customer_id = $1 AND product_id = $2
	`

	_, err := r.db.ExecContext(ctx, query, customerID, productID)
	if err != nil {
		r.logger.Error("Failed to delete wishlist entry", zap.Error(err))
		return err
	}

	return nil
}
