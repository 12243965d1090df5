package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/api/middleware"
	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/internal/service"
)

// WishlistEntryResponse is a wishlist entry enriched with product display fields
type WishlistEntryResponse struct {
	ProductID    string  `json:"product_id"`
	ProductTitle *string `json:"product_title,omitempty"`
	ImageURL     *string `json:"image_url,omitempty"`
	AddedAt      string  `json:"added_at"`
}

// HandleListWishlist handles GET /v1/wishlist
func HandleListWishlist(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		wishlistService := service.NewWishlistService(repos, logger)
		entries, err := wishlistService.List(c.Request.Context(), customerID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]WishlistEntryResponse, 0, len(entries))
		for _, entry := range entries {
			resp := WishlistEntryResponse{
				ProductID: entry.ProductID.String(),
				AddedAt:   entry.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			}
			// Enrichment is a read-side join; a missing product is skipped, not fatal
			if product, err := repos.Product.GetByID(c.Request.Context(), entry.ProductID); err == nil {
				resp.ProductTitle = &product.Title
				resp.ImageURL = product.ImageURL
			}
			responses = append(responses, resp)
		}

		c.JSON(http.StatusOK, gin.H{"wishlist": responses})
	}
}

// HandleToggleWishlist handles POST /v1/wishlist/:productId
func HandleToggleWishlist(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := uuid.Parse(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		wishlistService := service.NewWishlistService(repos, logger)
		added, err := wishlistService.Toggle(c.Request.Context(), customerID, productID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"product_id": productID.String(),
			"wishlisted": added,
		})
	}
}
