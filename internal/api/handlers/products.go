package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/internal/service"
)

// ProductResponse represents the outbound product shape. Variants are
// normalized: legacy option columns stripped, options always a list.
type ProductResponse struct {
	ID          string                `json:"id"`
	Title       string                `json:"title"`
	Description *string               `json:"description,omitempty"`
	SKU         string                `json:"sku"`
	BasePrice   decimal.Decimal       `json:"base_price"`
	ImageURL    *string               `json:"image_url,omitempty"`
	Variants    []service.VariantView `json:"variants"`
	CreatedAt   string                `json:"created_at"`
}

// HandleListProducts handles GET /v1/products
func HandleListProducts(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parseLimitOffset(c)

		products, err := repos.Product.List(c.Request.Context(), limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]ProductResponse, 0, len(products))
		for _, product := range products {
			variants, err := repos.Variant.ListByProduct(c.Request.Context(), product.ID)
			if err != nil {
				respondError(c, logger, err)
				return
			}
			responses = append(responses, toProductResponse(product, variants))
		}

		c.JSON(http.StatusOK, gin.H{
			"products": responses,
			"limit":    limit,
			"offset":   offset,
		})
	}
}

// HandleGetProduct handles GET /v1/products/:id
func HandleGetProduct(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		variants, err := repos.Variant.ListByProduct(c.Request.Context(), productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product, variants))
	}
}

// HandleListProductReviews handles GET /v1/products/:id/reviews
func HandleListProductReviews(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		limit, offset := parseLimitOffset(c)

		reviewService := service.NewReviewService(repos, logger)
		reviews, summary, err := reviewService.ProductReviews(c.Request.Context(), productID, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]ReviewResponse, 0, len(reviews))
		for _, review := range reviews {
			responses = append(responses, toReviewResponse(review))
		}

		c.JSON(http.StatusOK, gin.H{
			"reviews": responses,
			"summary": summary,
			"limit":   limit,
			"offset":  offset,
		})
	}
}

func toProductResponse(product *domain.Product, variants []*domain.Variant) ProductResponse {
	return ProductResponse{
		ID:          product.ID.String(),
		Title:       product.Title,
		Description: product.Description,
		SKU:         product.SKU,
		BasePrice:   product.BasePrice,
		ImageURL:    product.ImageURL,
		Variants:    service.NormalizeMany(variants),
		CreatedAt:   product.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}
