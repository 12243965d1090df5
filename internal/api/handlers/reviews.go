package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/api/middleware"
	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/internal/service"
)

// ReviewResponse represents the outbound review shape
type ReviewResponse struct {
	ID                 string   `json:"id"`
	ProductID          string   `json:"product_id"`
	VariantID          *string  `json:"variant_id,omitempty"`
	Rating             int      `json:"rating"`
	Title              *string  `json:"title,omitempty"`
	Body               *string  `json:"body,omitempty"`
	Pros               []string `json:"pros,omitempty"`
	Cons               []string `json:"cons,omitempty"`
	IsVerifiedPurchase bool     `json:"is_verified_purchase"`
	HelpfulCount       int      `json:"helpful_count"`
	CreatedAt          string   `json:"created_at"`
}

// HandleCreateReview handles POST /v1/products/:id/reviews
func HandleCreateReview(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var req service.ReviewRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		reviewService := service.NewReviewService(repos, logger)
		review, err := reviewService.CreateReview(c.Request.Context(), customerID, productID, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusCreated, toReviewResponse(review))
	}
}

// HandleToggleHelpfulVote handles POST /v1/reviews/:id/helpful
func HandleToggleHelpfulVote(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		reviewID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
			return
		}

		var req service.HelpfulVoteRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		reviewService := service.NewReviewService(repos, logger)
		count, voted, err := reviewService.ToggleHelpfulVote(c.Request.Context(), reviewID, customerID, *req.IsHelpful)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"review_id":     reviewID.String(),
			"voted":         voted,
			"helpful_count": count,
		})
	}
}

func toReviewResponse(review *domain.Review) ReviewResponse {
	resp := ReviewResponse{
		ID:                 review.ID.String(),
		ProductID:          review.ProductID.String(),
		Rating:             review.Rating,
		Title:              review.Title,
		Body:               review.Body,
		Pros:               review.Pros,
		Cons:               review.Cons,
		IsVerifiedPurchase: review.IsVerifiedPurchase,
		HelpfulCount:       review.HelpfulCount,
		CreatedAt:          review.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
	if review.VariantID != nil {
		vid := review.VariantID.String()
		resp.VariantID = &vid
	}
	return resp
}
