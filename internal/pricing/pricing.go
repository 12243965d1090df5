package pricing

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

var (
	// TaxRate is the flat GST-style tax applied to the subtotal (18%)
	TaxRate = decimal.New(18, -2)
	// FlatShippingRate is the flat-rate shipping charge per order
	FlatShippingRate = decimal.NewFromInt(50)
)

// RequestedItem is one line of an incoming order request
type RequestedItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
}

// PricedItem is a requested item with its resolved unit price snapshot
type PricedItem struct {
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
}

// PricedOrder is an immutable pricing snapshot for an order.
// TotalAmount always equals Subtotal + TaxAmount + ShippingAmount exactly.
type PricedOrder struct {
	Items          []PricedItem
	Subtotal       decimal.Decimal
	TaxAmount      decimal.Decimal
	ShippingAmount decimal.Decimal
	TotalAmount    decimal.Decimal
}

type calculator struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewCalculator creates a new order pricing calculator
func NewCalculator(repos *repository.Repositories, logger *zap.Logger) *calculator {
	return &calculator{
		repos:  repos,
		logger: logger,
	}
}

// PriceOrder resolves the authoritative unit price for each requested item
// and computes the order's monetary totals. Unit price resolution: the
// requested variant's price if a variant is given, else the product's first
// variant's price, else the product's base price.
func (c *calculator) PriceOrder(ctx context.Context, items []RequestedItem) (*PricedOrder, error) {
	if len(items) == 0 {
		return nil, &errors.ErrValidation{Message: "order must contain at least one item"}
	}

	priced := make([]PricedItem, 0, len(items))
	subtotal := decimal.Zero

	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, &errors.ErrValidation{
				Message: "quantity must be a positive integer",
				Fields:  map[string]string{"product_id": item.ProductID.String()},
			}
		}

		unitPrice, err := c.resolveUnitPrice(ctx, item)
		if err != nil {
			return nil, err
		}

		lineTotal := unitPrice.Mul(decimal.NewFromInt(int64(item.Quantity)))
		subtotal = subtotal.Add(lineTotal)

		priced = append(priced, PricedItem{
			ProductID: item.ProductID,
			VariantID: item.VariantID,
			Quantity:  item.Quantity,
			UnitPrice: unitPrice,
			LineTotal: lineTotal,
		})
	}

	taxAmount := subtotal.Mul(TaxRate).Round(2)
	shippingAmount := FlatShippingRate
	totalAmount := subtotal.Add(taxAmount).Add(shippingAmount)

	c.logger.Debug("Order priced",
		zap.Int("item_count", len(priced)),
		zap.String("subtotal", subtotal.String()),
		zap.String("total", totalAmount.String()),
	)

	return &PricedOrder{
		Items:          priced,
		Subtotal:       subtotal,
		TaxAmount:      taxAmount,
		ShippingAmount: shippingAmount,
		TotalAmount:    totalAmount,
	}, nil
}

func (c *calculator) resolveUnitPrice(ctx context.Context, item RequestedItem) (decimal.Decimal, error) {
	if item.VariantID != nil {
		variant, err := c.repos.Variant.GetByID(ctx, *item.VariantID)
		if err != nil {
			return decimal.Zero, err
		}
		if variant.ProductID != item.ProductID {
			return decimal.Zero, &errors.ErrValidation{
				Message: "variant does not belong to product",
				Fields:  map[string]string{"variant_id": item.VariantID.String()},
			}
		}
		return requireConfigured(variant.Price, item.ProductID)
	}

	product, err := c.repos.Product.GetByID(ctx, item.ProductID)
	if err != nil {
		return decimal.Zero, err
	}

	// No variant requested: prefer the product's first variant if one exists
	first, err := c.repos.Variant.FirstByProduct(ctx, item.ProductID)
	if err == nil {
		return requireConfigured(first.Price, item.ProductID)
	}
	if _, ok := err.(*errors.ErrNotFound); !ok {
		return decimal.Zero, err
	}

	return requireConfigured(product.BasePrice, item.ProductID)
}

func requireConfigured(price decimal.Decimal, productID uuid.UUID) (decimal.Decimal, error) {
	if price.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, &errors.ErrValidation{
			Message: "no price configured",
			Fields:  map[string]string{"product_id": productID.String()},
		}
	}
	return price, nil
}
