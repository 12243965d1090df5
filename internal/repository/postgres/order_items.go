package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
)

type orderItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderItemRepository creates a new order item repository
func NewOrderItemRepository(db *sql.DB, logger *zap.Logger) *orderItemRepository {
	return &orderItemRepository{
		db:     db,
		logger: logger,
	}
}

func (r *orderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, order_id, product_id, variant_id, quantity, unit_price, line_total, created_at
		FROM order_items
		WHERE order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get order items by order ID", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		var variantID uuid.NullUUID

		err := rows.Scan(
			&item.ID,
			&item.OrderID,
			&item.ProductID,
			&variantID,
			&item.Quantity,
			&item.UnitPrice,
			&item.LineTotal,
			&item.CreatedAt,
		)
		if err != nil {
			return nil, err
		}

		if variantID.Valid {
			item.VariantID = &variantID.UUID
		}

		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *orderItemRepository) ExistsForCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1
			FROM order_items oi
			JOIN orders o ON o.id = oi.order_id
			WHERE o.customer_id = $1 AND oi.product_id = $2
		)
	`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, customerID, productID).Scan(&exists); err != nil {
		r.logger.Error("Failed to check purchase history", zap.Error(err))
		return false, err
	}

	return exists, nil
}
