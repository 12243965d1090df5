package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/api/middleware"
	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/notify"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/internal/service"
)

// OrderResponse represents the order response
type OrderResponse struct {
	ID              string                 `json:"id"`
	OrderNumber     string                 `json:"order_number"`
	Status          domain.OrderStatus     `json:"status"`
	Currency        string                 `json:"currency"`
	Subtotal        decimal.Decimal        `json:"subtotal"`
	TaxAmount       decimal.Decimal        `json:"tax_amount"`
	ShippingAmount  decimal.Decimal        `json:"shipping_amount"`
	TotalAmount     decimal.Decimal        `json:"total_amount"`
	ShippingAddress map[string]interface{} `json:"shipping_address"`
	BillingAddress  map[string]interface{} `json:"billing_address,omitempty"`
	PaymentMethod   *string                `json:"payment_method,omitempty"`
	Notes           *string                `json:"notes,omitempty"`
	ShippedAt       *string                `json:"shipped_at,omitempty"`
	DeliveredAt     *string                `json:"delivered_at,omitempty"`
	Items           []OrderItemResponse    `json:"items"`
	CreatedAt       string                 `json:"created_at"`
	UpdatedAt       string                 `json:"updated_at"`
}

type OrderItemResponse struct {
	ProductID string          `json:"product_id"`
	VariantID *string         `json:"variant_id,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LineTotal decimal.Decimal `json:"line_total"`
	// Enriched display fields from the catalog (read-side join)
	ProductTitle    *string `json:"product_title,omitempty"`
	ProductImageURL *string `json:"product_image_url,omitempty"`
	SKU             *string `json:"sku,omitempty"`
}

// HandleCreateOrder handles POST /v1/orders
func HandleCreateOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		// Check if this is an idempotent replay
		idemKey, requestHash, existingOrderID, isExisting := middleware.GetIdempotencyInfo(c)
		if isExisting {
			orderID, err := uuid.Parse(existingOrderID)
			if err != nil {
				logger.Error("Invalid existing order ID from idempotency", zap.Error(err))
				c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
				return
			}

			order, err := repos.Order.GetByID(c.Request.Context(), orderID)
			if err != nil {
				respondError(c, logger, err)
				return
			}
			if order.CustomerID != customerID {
				c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
				return
			}

			resp, err := buildOrderResponse(c.Request.Context(), repos, order, nil)
			if err != nil {
				respondError(c, logger, err)
				return
			}
			c.JSON(http.StatusOK, resp)
			return
		}

		var req service.CreateOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		orderService := service.NewOrderService(repos, logger)
		order, items, err := orderService.CreateOrder(c.Request.Context(), customerID, req)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		// Store the idempotency key after successful creation. The insert is
		// ON CONFLICT DO NOTHING, so when two concurrent first requests race
		// on the same key, only one order ends up linked to it; the loser's
		// order exists but is never returned by a replay.
		if idemKey != "" {
			ik := &domain.IdempotencyKey{
				Key:         idemKey,
				CustomerID:  customerID,
				OrderID:     order.ID,
				RequestHash: requestHash,
			}
			if err := repos.IdempotencyKey.Create(c.Request.Context(), ik); err != nil {
				logger.Warn("Failed to store idempotency key", zap.Error(err))
			}
		}

		resp, err := buildOrderResponse(c.Request.Context(), repos, order, items)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusCreated, resp)
	}
}

// HandleGetOrder handles GET /v1/orders/:id
func HandleGetOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		role, _ := middleware.GetRoleFromContext(c)
		if order.CustomerID != customerID && role != domain.RoleAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		resp, err := buildOrderResponse(c.Request.Context(), repos, order, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleListOrders handles GET /v1/orders
func HandleListOrders(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		limit, offset := parseLimitOffset(c)

		orders, err := repos.Order.ListByCustomer(c.Request.Context(), customerID, limit, offset)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		responses := make([]OrderResponse, 0, len(orders))
		for _, order := range orders {
			resp, err := buildOrderResponse(c.Request.Context(), repos, order, nil)
			if err != nil {
				respondError(c, logger, err)
				return
			}
			responses = append(responses, resp)
		}

		c.JSON(http.StatusOK, gin.H{
			"orders": responses,
			"limit":  limit,
			"offset": offset,
		})
	}
}

// HandleCancelOrder handles POST /v1/orders/:id/cancel
func HandleCancelOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customerID, ok := middleware.GetCustomerIDFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		if order.CustomerID != customerID {
			c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}

		var req service.CancelRequest
		if err := c.ShouldBindJSON(&req); err != nil && err.Error() != "EOF" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		from := order.Status
		orderService := service.NewOrderService(repos, logger)
		cancelled, err := orderService.Cancel(c.Request.Context(), orderID, req.Reason)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		notifyStatusChange(cfg, logger, cancelled, from)
		resp, err := buildOrderResponse(c.Request.Context(), repos, cancelled, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// notifyStatusChange fires the configured order-status webhook without
// blocking the response
func notifyStatusChange(cfg *config.Config, logger *zap.Logger, order *domain.Order, from domain.OrderStatus) {
	if cfg.Webhook.OrderStatusURL == "" {
		return
	}
	payload := map[string]interface{}{
		"order_id":     order.ID.String(),
		"order_number": order.OrderNumber,
		"from":         from,
		"to":           order.Status,
		"occurred_at":  time.Now().Format(time.RFC3339),
	}
	go notify.OrderStatusChanged(cfg.Webhook.OrderStatusURL, payload, logger)
}

// buildOrderResponse builds the outbound order shape; items are loaded if
// not supplied and enriched with product display fields. A failed item load
// is returned as an error, never as an empty list.
func buildOrderResponse(ctx context.Context, repos *repository.Repositories, order *domain.Order, items []*domain.OrderItem) (OrderResponse, error) {
	if items == nil {
		var err error
		items, err = repos.OrderItem.GetByOrderID(ctx, order.ID)
		if err != nil {
			return OrderResponse{}, err
		}
	}

	itemResponses := make([]OrderItemResponse, 0, len(items))
	for _, item := range items {
		resp := OrderItemResponse{
			ProductID: item.ProductID.String(),
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			LineTotal: item.LineTotal,
		}
		if item.VariantID != nil {
			vid := item.VariantID.String()
			resp.VariantID = &vid
			if variant, err := repos.Variant.GetByID(ctx, *item.VariantID); err == nil {
				resp.SKU = &variant.SKU
			}
		}
		if product, err := repos.Product.GetByID(ctx, item.ProductID); err == nil {
			resp.ProductTitle = &product.Title
			resp.ProductImageURL = product.ImageURL
			if resp.SKU == nil {
				resp.SKU = &product.SKU
			}
		}
		itemResponses = append(itemResponses, resp)
	}

	response := OrderResponse{
		ID:              order.ID.String(),
		OrderNumber:     order.OrderNumber,
		Status:          order.Status,
		Currency:        order.Currency,
		Subtotal:        order.Subtotal,
		TaxAmount:       order.TaxAmount,
		ShippingAmount:  order.ShippingAmount,
		TotalAmount:     order.TotalAmount,
		ShippingAddress: order.ShippingAddress,
		BillingAddress:  order.BillingAddress,
		PaymentMethod:   order.PaymentMethod,
		Notes:           order.Notes,
		Items:           itemResponses,
		CreatedAt:       order.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
		UpdatedAt:       order.UpdatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}

	if order.ShippedAt != nil {
		s := order.ShippedAt.Format("2006-01-02T15:04:05Z07:00")
		response.ShippedAt = &s
	}
	if order.DeliveredAt != nil {
		s := order.DeliveredAt.Format("2006-01-02T15:04:05Z07:00")
		response.DeliveredAt = &s
	}

	return response, nil
}
