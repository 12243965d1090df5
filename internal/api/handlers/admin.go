package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/internal/service"
)

// HandleAdminListOrders handles GET /v1/admin/orders with an optional
// status query filter
func HandleAdminListOrders(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		limit, offset := parseLimitOffset(c)

		var status *domain.OrderStatus
		if raw := c.Query("status"); raw != "" {
			s := domain.OrderStatus(raw)
			if !s.IsValid() {
				c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status filter: " + raw})
				return
			}
			status = &s
		}

		orders, err := repos.Order.List(c.Request.Context(), status, limit, offset)
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

// HandleAdminConfirmOrder handles POST /v1/admin/orders/:id/confirm
func HandleAdminConfirmOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(cfg, repos, logger, func(svc service.OrderTransitions, c *gin.Context, id uuid.UUID) (*domain.Order, error) {
		return svc.Confirm(c.Request.Context(), id)
	})
}

// HandleAdminProcessOrder handles POST /v1/admin/orders/:id/process
func HandleAdminProcessOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(cfg, repos, logger, func(svc service.OrderTransitions, c *gin.Context, id uuid.UUID) (*domain.Order, error) {
		return svc.StartProcessing(c.Request.Context(), id)
	})
}

// HandleAdminShipOrder handles POST /v1/admin/orders/:id/ship
func HandleAdminShipOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(cfg, repos, logger, func(svc service.OrderTransitions, c *gin.Context, id uuid.UUID) (*domain.Order, error) {
		return svc.Ship(c.Request.Context(), id)
	})
}

// HandleAdminDeliverOrder handles POST /v1/admin/orders/:id/deliver
func HandleAdminDeliverOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return adminTransition(cfg, repos, logger, func(svc service.OrderTransitions, c *gin.Context, id uuid.UUID) (*domain.Order, error) {
		return svc.Deliver(c.Request.Context(), id)
	})
}

// HandleAdminRefundOrder handles POST /v1/admin/orders/:id/refund
func HandleAdminRefundOrder(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req service.RefundRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		order, err := repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		from := order.Status

		orderService := service.NewOrderService(repos, logger)
		refunded, err := orderService.Refund(c.Request.Context(), orderID, req.Reason, req.Amount, req.Method)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		notifyStatusChange(cfg, logger, refunded, from)
		resp, err := buildOrderResponse(c.Request.Context(), repos, refunded, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleAdminOverrideStatus handles PATCH /v1/admin/orders/:id/status.
// The force flag must be set; without it the transition table governs and
// this endpoint refuses the request.
func HandleAdminOverrideStatus(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		var req service.StatusOverrideRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}
		if !req.Force {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": "direct status override requires force=true; use the transition endpoints otherwise",
			})
			return
		}

		order, err := repos.Order.GetByID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		from := order.Status

		orderService := service.NewOrderService(repos, logger)
		updated, err := orderService.ForceSetStatus(c.Request.Context(), orderID, domain.OrderStatus(req.Status), req.Note)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		notifyStatusChange(cfg, logger, updated, from)
		resp, err := buildOrderResponse(c.Request.Context(), repos, updated, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleAdminReplaceVariants handles PUT /v1/admin/products/:id/variants
func HandleAdminReplaceVariants(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		var payloads []service.VariantPayload
		if err := c.ShouldBindJSON(&payloads); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		variantService := service.NewVariantService(repos, logger)
		views, err := variantService.ReplaceVariants(c.Request.Context(), productID, payloads)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"variants": views})
	}
}

// HandleAdminSetReviewApproval handles PATCH /v1/admin/reviews/:id/approval
func HandleAdminSetReviewApproval(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reviewID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid review ID"})
			return
		}

		var req struct {
			IsApproved *bool `json:"is_approved" binding:"required"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "validation failed", "details": err.Error()})
			return
		}

		reviewService := service.NewReviewService(repos, logger)
		if err := reviewService.SetApproval(c.Request.Context(), reviewID, *req.IsApproved); err != nil {
			respondError(c, logger, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{"review_id": reviewID.String(), "is_approved": *req.IsApproved})
	}
}

// HandleAdminListOrderEvents handles GET /v1/admin/orders/:id/events
func HandleAdminListOrderEvents(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orderID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		if _, err := repos.Order.GetByID(c.Request.Context(), orderID); err != nil {
			respondError(c, logger, err)
			return
		}

		events, err := repos.OrderEvent.GetByOrderID(c.Request.Context(), orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		type eventResponse struct {
			ID        string                 `json:"id"`
			EventType string                 `json:"event_type"`
			EventData map[string]interface{} `json:"event_data"`
			CreatedAt string                 `json:"created_at"`
		}
		responses := make([]eventResponse, 0, len(events))
		for _, ev := range events {
			responses = append(responses, eventResponse{
				ID:        ev.ID.String(),
				EventType: ev.EventType,
				EventData: ev.EventData,
				CreatedAt: ev.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
			})
		}

		c.JSON(http.StatusOK, gin.H{"order_id": orderID.String(), "events": responses})
	}
}

// adminTransition wraps the shared flow of the four guarded transition
// endpoints: parse the ID, capture the prior status for the webhook, apply
// the transition and respond with the updated order.
func adminTransition(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger, apply func(svc service.OrderTransitions, c *gin.Context, id uuid.UUID) (*domain.Order, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
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
		from := order.Status

		svc := service.NewOrderService(repos, logger)
		updated, err := apply(svc, c, orderID)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		if updated.Status != from {
			notifyStatusChange(cfg, logger, updated, from)
		}
		resp, err := buildOrderResponse(c.Request.Context(), repos, updated, nil)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, resp)
	}
}
