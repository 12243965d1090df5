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

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `
		SELECT id, title, description, sku, base_price, image_url, is_active, created_at, updated_at
		FROM products
		WHERE id = $1
	`

	var product domain.Product
	var description sql.NullString
	var imageURL sql.NullString

	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&product.ID,
		&product.Title,
		&description,
		&product.SKU,
		&product.BasePrice,
		&imageURL,
		&product.IsActive,
		&product.CreatedAt,
		&product.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.Error(err))
		return nil, err
	}

	if description.Valid {
		product.Description = &description.String
	}
	if imageURL.Valid {
		product.ImageURL = &imageURL.String
	}

	return &product, nil
}

func (r *productRepository) List(ctx context.Context, limit, offset int) ([]*domain.Product, error) {
	query := `
		SELECT id, title, description, sku, base_price, image_url, is_active, created_at, updated_at
		FROM products
		WHERE is_active = true
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`

	rows, err := r.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		var product domain.Product
		var description sql.NullString
		var imageURL sql.NullString

		err := rows.Scan(
			&product.ID,
			&product.Title,
			&description,
			&product.SKU,
			&product.BasePrice,
			&imageURL,
			&product.IsActive,
			&product.CreatedAt,
			&product.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}

		if description.Valid {
			product.Description = &description.String
		}
		if imageURL.Valid {
			product.ImageURL = &imageURL.String
		}

		products = append(products, &product)
	}

	return products, rows.Err()
}

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (id, title, description, sku, base_price, image_url, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	now := time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now
	}
	if product.UpdatedAt.IsZero() {
		product.UpdatedAt = now
	}

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Title,
		product.Description,
		product.SKU,
		product.BasePrice,
		product.ImageURL,
		product.IsActive,
		product.CreatedAt,
		product.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	return nil
}
