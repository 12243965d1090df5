package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

type variantRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewVariantRepository creates a new variant repository
func NewVariantRepository(db *sql.DB, logger *zap.Logger) *variantRepository {
	return &variantRepository{
		db:     db,
		logger: logger,
	}
}

const variantColumns = `id, product_id, sku, price, inventory_qty, position, options,
	option1_name, option1_value, option2_name, option2_value, option3_name, option3_value,
	created_at, updated_at`

func (r *variantRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM variants
		WHERE id = $1
	`

	variant, err := scanVariant(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "variant", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get variant by ID", zap.Error(err))
		return nil, err
	}

	return variant, nil
}

func (r *variantRepository) ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM variants
		WHERE product_id = $1
		ORDER BY position ASC, created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.logger.Error("Failed to list variants by product", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var variants []*domain.Variant
	for rows.Next() {
		variant, err := scanVariant(rows)
		if err != nil {
			return nil, err
		}
		variants = append(variants, variant)
	}

	return variants, rows.Err()
}

func (r *variantRepository) FirstByProduct(ctx context.Context, productID uuid.UUID) (*domain.Variant, error) {
	query := `
		SELECT ` + variantColumns + `
		FROM variants
		WHERE product_id = $1
		ORDER BY position ASC, created_at ASC
		LIMIT 1
	`

	variant, err := scanVariant(r.db.QueryRowContext(ctx, query, productID))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "variant", ID: "product " + productID.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get first variant by product", zap.Error(err))
		return nil, err
	}

	return variant, nil
}

// ReplaceForProduct deletes the product's variants and inserts the new set
// inside one transaction. The legacy three-slot option columns are never
// written; options go to the JSONB column only.
func (r *variantRepository) ReplaceForProduct(ctx context.Context, productID uuid.UUID, variants []*domain.Variant) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		r.logger.Error("Failed to begin variant replace transaction", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM variants WHERE product_id = $1`, productID); err != nil {
		r.logger.Error("Failed to delete variants for replace", zap.Error(err))
		return err
	}

	if len(variants) > 0 {
		query := `
			INSERT INTO variants (id, product_id, sku, price, inventory_qty, position, options, created_at, updated_at)
			VALUES `

		args := make([]interface{}, 0, len(variants)*9)
		now := time.Now()

		for i, variant := range variants {
			if i > 0 {
				query += ", "
			}
			query += fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d, $%d)",
				i*9+1, i*9+2, i*9+3, i*9+4, i*9+5, i*9+6, i*9+7, i*9+8, i*9+9)

			if variant.ID == uuid.Nil {
				variant.ID = uuid.New()
			}
			variant.ProductID = productID
			if variant.CreatedAt.IsZero() {
				variant.CreatedAt = now
			}
			variant.UpdatedAt = now

			args = append(args,
				variant.ID,
				variant.ProductID,
				variant.SKU,
				variant.Price,
				variant.InventoryQty,
				variant.Position,
				variant.Options,
				variant.CreatedAt,
				variant.UpdatedAt,
			)
		}

		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.Error("Failed to insert variants for replace", zap.Error(err))
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		r.logger.Error("Failed to commit variant replace", zap.Error(err))
		return err
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanVariant(row rowScanner) (*domain.Variant, error) {
	var variant domain.Variant
	var opt1Name, opt1Value sql.NullString
	var opt2Name, opt2Value sql.NullString
	var opt3Name, opt3Value sql.NullString

	err := row.Scan(
		&variant.ID,
		&variant.ProductID,
		&variant.SKU,
		&variant.Price,
		&variant.InventoryQty,
		&variant.Position,
		&variant.Options,
		&opt1Name,
		&opt1Value,
		&opt2Name,
		&opt2Value,
		&opt3Name,
		&opt3Value,
		&variant.CreatedAt,
		&variant.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if opt1Name.Valid {
		variant.LegacyOption1Name = &opt1Name.String
	}
	if opt1Value.Valid {
		variant.LegacyOption1Value = &opt1Value.String
	}
	if opt2Name.Valid {
		variant.LegacyOption2Name = &opt2Name.String
	}
	if opt2Value.Valid {
		variant.LegacyOption2Value = &opt2Value.String
	}
	if opt3Name.Valid {
		variant.LegacyOption3Name = &opt3Name.String
	}
	if opt3Value.Valid {
		variant.LegacyOption3Value = &opt3Value.String
	}

	return &variant, nil
}
