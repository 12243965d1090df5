package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/api/handlers"
	"github.com/maisonmarket/storeapi/internal/api/middleware"
	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Maison Market Store API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/auth/register",
				"POST /v1/auth/login",
				"GET /v1/products",
				"GET /v1/products/:id",
				"GET /v1/products/:id/reviews",
				"POST /v1/orders",
				"GET /v1/orders",
				"GET /v1/orders/:id",
				"POST /v1/orders/:id/cancel",
				"GET /v1/wishlist",
				"POST /v1/wishlist/:productId",
				"GET /v1/admin/orders",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	{
		// Public routes
		v1.POST("/auth/register", handlers.HandleRegister(cfg, repos, logger))
		v1.POST("/auth/login", handlers.HandleLogin(cfg, repos, logger))
		v1.GET("/products", handlers.HandleListProducts(cfg, repos, logger))
		v1.GET("/products/:id", handlers.HandleGetProduct(cfg, repos, logger))
		v1.GET("/products/:id/reviews", handlers.HandleListProductReviews(cfg, repos, logger))

		// Customer routes (require authentication)
		customerRoutes := v1.Group("")
		customerRoutes.Use(middleware.AuthMiddleware(cfg, logger))
		{
			customerRoutes.GET("/me", handlers.HandleGetProfile(cfg, repos, logger))

			customerRoutes.POST("/orders",
				middleware.IdempotencyMiddleware(repos, logger),
				handlers.HandleCreateOrder(cfg, repos, logger))
			customerRoutes.GET("/orders", handlers.HandleListOrders(cfg, repos, logger))
			customerRoutes.GET("/orders/:id", handlers.HandleGetOrder(cfg, repos, logger))
			customerRoutes.POST("/orders/:id/cancel", handlers.HandleCancelOrder(cfg, repos, logger))

			customerRoutes.POST("/products/:id/reviews", handlers.HandleCreateReview(cfg, repos, logger))
			customerRoutes.POST("/reviews/:id/helpful", handlers.HandleToggleHelpfulVote(cfg, repos, logger))

			customerRoutes.GET("/wishlist", handlers.HandleListWishlist(cfg, repos, logger))
			customerRoutes.POST("/wishlist/:productId", handlers.HandleToggleWishlist(cfg, repos, logger))
		}

		// Admin routes (require authentication + admin role)
		adminRoutes := v1.Group("/admin")
		adminRoutes.Use(middleware.AuthMiddleware(cfg, logger))
		adminRoutes.Use(middleware.RequireAdmin())
		{
			adminRoutes.GET("/orders", handlers.HandleAdminListOrders(cfg, repos, logger))
			adminRoutes.GET("/orders/:id/events", handlers.HandleAdminListOrderEvents(cfg, repos, logger))
			adminRoutes.POST("/orders/:id/confirm", handlers.HandleAdminConfirmOrder(cfg, repos, logger))
			adminRoutes.POST("/orders/:id/process", handlers.HandleAdminProcessOrder(cfg, repos, logger))
			adminRoutes.POST("/orders/:id/ship", handlers.HandleAdminShipOrder(cfg, repos, logger))
			adminRoutes.POST("/orders/:id/deliver", handlers.HandleAdminDeliverOrder(cfg, repos, logger))
			adminRoutes.POST("/orders/:id/refund", handlers.HandleAdminRefundOrder(cfg, repos, logger))
			adminRoutes.PATCH("/orders/:id/status", handlers.HandleAdminOverrideStatus(cfg, repos, logger))

			adminRoutes.PUT("/products/:id/variants", handlers.HandleAdminReplaceVariants(cfg, repos, logger))
			adminRoutes.PATCH("/reviews/:id/approval", handlers.HandleAdminSetReviewApproval(cfg, repos, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
