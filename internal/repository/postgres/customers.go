package postgres

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

type customerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *customerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.Email,
		&customer.PasswordHash,
		&customer.FullName,
		&customer.Role,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get customer by ID", zap.Error(err))
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) GetByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT id, email, password_hash, full_name, role, is_active, created_at, updated_at
		FROM customers
		WHERE lower(email) = lower($1)
	`

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, strings.TrimSpace(email)).Scan(
		&customer.ID,
		&customer.Email,
		&customer.PasswordHash,
		&customer.FullName,
		&customer.Role,
		&customer.IsActive,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: email}
	}
	if err != nil {
		r.logger.Error("Failed to get customer by email", zap.Error(err))
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) Create(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, email, password_hash, full_name, role, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	now := time.Now()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	if customer.Role == "" {
		customer.Role = domain.RoleCustomer
	}
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}
	if customer.UpdatedAt.IsZero() {
		customer.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		customer.ID,
		customer.Email,
		customer.PasswordHash,
		customer.FullName,
		customer.Role,
		customer.IsActive,
		customer.CreatedAt,
		customer.UpdatedAt,
	)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok && pqErr.Code == "23505" {
			return &errors.ErrConflict{Message: "email already registered"}
		}
		r.logger.Error("Failed to create customer", zap.Error(err))
		return err
	}

	return nil
}
