package service

import (
	"context"
	"encoding/json"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

// VariantView is the outbound representation of a variant. The legacy
// three-slot option columns never appear here; Options is always a list,
// empty when the variant has no options.
type VariantView struct {
	ID                string            `json:"id"`
	SKU               string            `json:"sku"`
	Price             decimal.Decimal   `json:"price"`
	InventoryQuantity int               `json:"inventory_quantity"`
	Position          int               `json:"position"`
	Options           domain.OptionList `json:"options"`
}

// ValidateOptions enforces the structural constraints on an options list
func ValidateOptions(options domain.OptionList) error {
	if err := options.Validate(); err != nil {
		return &errors.ErrValidation{Message: err.Error()}
	}
	return nil
}

// CoerceOptions decodes a raw options payload. Absent, null or
// non-list-shaped input yields an empty list instead of an error; the
// second return value reports whether malformed input was coerced, so
// callers can log it.
func CoerceOptions(raw json.RawMessage) (domain.OptionList, bool) {
	if len(raw) == 0 {
		return domain.OptionList{}, false
	}

	var options domain.OptionList
	if err := json.Unmarshal(raw, &options); err != nil || options == nil {
		return domain.OptionList{}, true
	}
	return options, false
}

// NormalizeForClient converts a stored variant into its outbound shape
func NormalizeForClient(variant *domain.Variant) VariantView {
	options := variant.Options
	if options == nil {
		options = domain.OptionList{}
	}
	return VariantView{
		ID:                variant.ID.String(),
		SKU:               variant.SKU,
		Price:             variant.Price,
		InventoryQuantity: variant.InventoryQty,
		Position:          variant.Position,
		Options:           options,
	}
}

// NormalizeMany applies NormalizeForClient element-wise, preserving order
func NormalizeMany(variants []*domain.Variant) []VariantView {
	views := make([]VariantView, len(variants))
	for i, variant := range variants {
		views[i] = NormalizeForClient(variant)
	}
	return views
}

type variantService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewVariantService creates a new variant service
func NewVariantService(repos *repository.Repositories, logger *zap.Logger) *variantService {
	return &variantService{
		repos:  repos,
		logger: logger,
	}
}

// ReplaceVariants validates the payloads and swaps the product's whole
// variant set (delete then insert, one transaction). Partial patches are
// not supported.
func (s *variantService) ReplaceVariants(ctx context.Context, productID uuid.UUID, payloads []VariantPayload) ([]VariantView, error) {
	if _, err := s.repos.Product.GetByID(ctx, productID); err != nil {
		return nil, err
	}

	variants := make([]*domain.Variant, 0, len(payloads))
	for _, payload := range payloads {
		options, coerced := CoerceOptions(payload.Options)
		if coerced {
			s.logger.Warn("Variant options payload was not list-shaped, treated as empty",
				zap.String("product_id", productID.String()),
				zap.String("sku", payload.SKU),
			)
		}
		if err := ValidateOptions(options); err != nil {
			return nil, err
		}

		variants = append(variants, &domain.Variant{
			ProductID:    productID,
			SKU:          payload.SKU,
			Price:        payload.Price,
			InventoryQty: payload.InventoryQuantity,
			Position:     payload.Position,
			Options:      options,
		})
	}

	if err := s.repos.Variant.ReplaceForProduct(ctx, productID, variants); err != nil {
		return nil, err
	}

	s.logger.Info("Variant set replaced",
		zap.String("product_id", productID.String()),
		zap.Int("variant_count", len(variants)),
	)

	return NormalizeMany(variants), nil
}
