package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

type orderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewOrderRepository creates a new order repository
func NewOrderRepository(db *sql.DB, logger *zap.Logger) *orderRepository {
	return &orderRepository{
		db:     db,
		logger: logger,
	}
}

const orderColumns = `id, customer_id, order_number, status, currency,
	subtotal, tax_amount, shipping_amount, total_amount,
	shipping_address, billing_address, payment_method, notes, internal_notes,
	shipped_at, delivered_at, created_at, updated_at`

// CreateWithItems inserts the order header and all line items in a single
// transaction so a failed item insert never leaves a dangling header.
func (r *orderRepository) CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error {
	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now
	}
	if order.UpdatedAt.IsZero() {
		order.UpdatedAt = now
	}

	shippingAddressJSON, err := json.Marshal(order.ShippingAddress)
	if err != nil {
		return err
	}
	var billingAddressJSON []byte
	if order.BillingAddress != nil {
		billingAddressJSON, err = json.Marshal(order.BillingAddress)
		if err != nil {
			return err
		}
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin order transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	headerQuery := `
		INSERT INTO orders (
			id, customer_id, order_number, status, currency,
			subtotal, tax_amount, shipping_amount, total_amount,
			shipping_address, billing_address, payment_method, notes, internal_notes,
			shipped_at, delivered_at, created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`

	_, err = tx.ExecContext(ctx, headerQuery,
		order.ID,
		order.CustomerID,
		order.OrderNumber,
		order.Status,
		order.Currency,
		order.Subtotal,
		order.TaxAmount,
		order.ShippingAmount,
		order.TotalAmount,
		shippingAddressJSON,
		billingAddressJSON,
		order.PaymentMethod,
		order.Notes,
		order.InternalNotes,
		order.ShippedAt,
		order.DeliveredAt,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &errors.ErrConflict{Message: "order number already exists"}
		}
		r.logger.Error("Failed to create order header", zap.Error(err))
		return err
	}

	if len(items) > 0 {
		itemQuery := `
			INSERT INTO order_items (id, order_id, product_id, variant_id, quantity, unit_price, line_total, created_at)
			VALUES `

		args := make([]interface{}, 0, len(items)*8)
		for i, item := range items {
			if i > 0 {
				itemQuery += ", "
			}
			itemQuery += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				i*8+1, i*8+2, i*8+3, i*8+4, i*8+5, i*8+6, i*8+7, i*8+8)

			if item.ID == uuid.Nil {
				item.ID = uuid.New()
			}
			item.OrderID = order.ID
			if item.CreatedAt.IsZero() {
				item.CreatedAt = now
			}

			args = append(args,
				item.ID,
				item.OrderID,
				item.ProductID,
				item.VariantID,
				item.Quantity,
				item.UnitPrice,
				item.LineTotal,
				item.CreatedAt,
			)
		}

		if _, err := tx.ExecContext(ctx, itemQuery, args...); err != nil {
			r.logger.Error("Failed to create order items", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit order transaction", zap.Error(err))
		return err
	}

	return nil
}

func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE id = $1
	`

	order, err := scanOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get order by ID", zap.Error(err))
		return nil, err
	}

	return order, nil
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*domain.Order, error) {
	query := `
		SELECT ` + orderColumns + `
		FROM orders
		WHERE customer_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, customerID, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list orders by customer", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) List(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error) {
	var rows *sql.Rows
	var err error

	if status != nil {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			WHERE status = $1
			ORDER BY created_at DESC
			LIMIT $2 OFFSET $3
		`
		rows, err = r.db.QueryContext(ctx, query, *status, limit, offset)
	} else {
		query := `
			SELECT ` + orderColumns + `
			FROM orders
			ORDER BY created_at DESC
			LIMIT $1 OFFSET $2
		`
		rows, err = r.db.QueryContext(ctx, query, limit, offset)
	}

	if err != nil {
		r.logger.Error("Failed to list orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	return collectOrders(rows)
}

func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, internalNotes *string, shippedAt, deliveredAt *time.Time) error {
	query := `
		UPDATE orders
		SET status = $2,
			internal_notes = COALESCE($3, internal_notes),
			shipped_at = COALESCE($4, shipped_at),
			delivered_at = COALESCE($5, delivered_at),
			updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, id, status, internalNotes, shippedAt, deliveredAt, time.Now())
	if err != nil {
		r.logger.Error("Failed to update order status", zap.Error(err))
		return err
	}

	affected, err := result.RowsAffected()
	if err == nil && affected == 0 {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}

	return nil
}

func collectOrders(rows *sql.Rows) ([]*domain.Order, error) {
	var orders []*domain.Order
	for rows.Next() {
		order, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	return orders, rows.Err()
}

func scanOrder(row rowScanner) (*domain.Order, error) {
	var order domain.Order
	var shippingAddressJSON []byte
	var billingAddressJSON []byte
	var paymentMethod sql.NullString
	var notes sql.NullString
	var internalNotes sql.NullString
	var shippedAt sql.NullTime
	var deliveredAt sql.NullTime

	err := row.Scan(
		&order.ID,
		&order.CustomerID,
		&order.OrderNumber,
		&order.Status,
		&order.Currency,
		&order.Subtotal,
		&order.TaxAmount,
		&order.ShippingAmount,
		&order.TotalAmount,
		&shippingAddressJSON,
		&billingAddressJSON,
		&paymentMethod,
		&notes,
		&internalNotes,
		&shippedAt,
		&deliveredAt,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if paymentMethod.Valid {
		order.PaymentMethod = &paymentMethod.String
	}
	if notes.Valid {
		order.Notes = &notes.String
	}
	if internalNotes.Valid {
		order.InternalNotes = &internalNotes.String
	}
	if shippedAt.Valid {
		order.ShippedAt = &shippedAt.Time
	}
	if deliveredAt.Valid {
		order.DeliveredAt = &deliveredAt.Time
	}

	if len(shippingAddressJSON) > 0 {
		if err := json.Unmarshal(shippingAddressJSON, &order.ShippingAddress); err != nil {
			return nil, err
		}
	}
	if len(billingAddressJSON) > 0 {
		if err := json.Unmarshal(billingAddressJSON, &order.BillingAddress); err != nil {
			return nil, err
		}
	}

	return &order, nil
}
