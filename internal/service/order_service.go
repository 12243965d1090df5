package service

import (
	"context"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/pricing"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

// DefaultCurrency is used when the order request omits a currency code
const DefaultCurrency = "INR"

// OrderTransitions is the guarded status-change surface of the order
// service. Callers driving the fulfillment flow depend on this rather than
// the concrete service.
type OrderTransitions interface {
	Confirm(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	StartProcessing(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	Ship(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
	Deliver(ctx context.Context, orderID uuid.UUID) (*domain.Order, error)
}

type orderService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewOrderService creates a new order service
func NewOrderService(repos *repository.Repositories, logger *zap.Logger) *orderService {
	return &orderService{
		repos:  repos,
		logger: logger,
	}
}

// CreateOrder prices the requested items and persists the order header and
// its line items atomically. The order starts in pending status.
func (s *orderService) CreateOrder(ctx context.Context, customerID uuid.UUID, req CreateOrderRequest) (*domain.Order, []*domain.OrderItem, error) {
	requested := make([]pricing.RequestedItem, 0, len(req.Items))
	for _, item := range req.Items {
		productID, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, nil, &errors.ErrValidation{Message: "invalid product_id"}
		}
		var variantID *uuid.UUID
		if item.VariantID != nil {
			vid, err := uuid.Parse(*item.VariantID)
			if err != nil {
				return nil, nil, &errors.ErrValidation{Message: "invalid variant_id"}
			}
			variantID = &vid
		}
		requested = append(requested, pricing.RequestedItem{
			ProductID: productID,
			VariantID: variantID,
			Quantity:  item.Quantity,
		})
	}

	calculator := pricing.NewCalculator(s.repos, s.logger)
	priced, err := calculator.PriceOrder(ctx, requested)
	if err != nil {
		return nil, nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = DefaultCurrency
	}

	order := &domain.Order{
		ID:              uuid.New(),
		CustomerID:      customerID,
		OrderNumber:     newOrderNumber(),
		Status:          domain.OrderStatusPending,
		Currency:        currency,
		Subtotal:        priced.Subtotal,
		TaxAmount:       priced.TaxAmount,
		ShippingAmount:  priced.ShippingAmount,
		TotalAmount:     priced.TotalAmount,
		ShippingAddress: req.ShippingAddress,
		BillingAddress:  req.BillingAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}

	items := make([]*domain.OrderItem, 0, len(priced.Items))
	for _, pi := range priced.Items {
		items = append(items, &domain.OrderItem{
			OrderID:   order.ID,
			ProductID: pi.ProductID,
			VariantID: pi.VariantID,
			Quantity:  pi.Quantity,
			UnitPrice: pi.UnitPrice,
			LineTotal: pi.LineTotal,
		})
	}

	s.logger.Info("Creating order",
		zap.String("order_number", order.OrderNumber),
		zap.Int("item_count", len(items)),
		zap.String("total", order.TotalAmount.String()),
	)
	if err := s.repos.Order.CreateWithItems(ctx, order, items); err != nil {
		if _, ok := err.(*errors.ErrConflict); ok {
			// order_number collision within the day; retry once with a
			// fresh suffix
			order.OrderNumber = newOrderNumber()
			err = s.repos.Order.CreateWithItems(ctx, order, items)
		}
		if err != nil {
			s.logger.Error("Failed to create order", zap.Error(err))
			return nil, nil, err
		}
	}

	event := &domain.OrderEvent{
		OrderID:   order.ID,
		EventType: "order_created",
		EventData: map[string]interface{}{
			"order_number": order.OrderNumber,
			"status":       order.Status,
			"total_amount": order.TotalAmount.String(),
		},
	}
	s.repos.OrderEvent.Create(ctx, event)

	return order, items, nil
}

// Confirm moves a pending order to confirmed (idempotent: already confirmed returns success)
func (s *orderService) Confirm(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderStatusConfirmed)
}

// StartProcessing moves a confirmed order to processing
func (s *orderService) StartProcessing(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderStatusProcessing)
}

// Ship moves a processing order to shipped and stamps shipped_at
func (s *orderService) Ship(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderStatusShipped)
}

// Deliver moves a shipped order to delivered and stamps delivered_at
func (s *orderService) Deliver(ctx context.Context, orderID uuid.UUID) (*domain.Order, error) {
	return s.transition(ctx, orderID, domain.OrderStatusDelivered)
}

// Cancel cancels an order from pending, confirmed or processing. The reason
// is appended to internal_notes without erasing prior notes.
func (s *orderService) Cancel(ctx context.Context, orderID uuid.UUID, reason string) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(domain.OrderStatusCancelled) {
		return nil, &errors.ErrInvalidStateTransition{
			From: order.Status,
			To:   domain.OrderStatusCancelled,
		}
	}

	notes := appendInternalNote(order.InternalNotes, "Cancelled: "+reason)
	if err := s.repos.Order.UpdateStatus(ctx, orderID, domain.OrderStatusCancelled, notes, nil, nil); err != nil {
		return nil, err
	}

	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: "status_change",
		EventData: map[string]interface{}{
			"from":   order.Status,
			"to":     domain.OrderStatusCancelled,
			"reason": reason,
		},
	}
	s.repos.OrderEvent.Create(ctx, event)

	order.Status = domain.OrderStatusCancelled
	order.InternalNotes = notes
	return order, nil
}

// Refund refunds a delivered order. Amount defaults to the full total and
// must be positive and no greater than the total.
func (s *orderService) Refund(ctx context.Context, orderID uuid.UUID, reason string, amount *decimal.Decimal, method *string) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if !order.Status.CanTransitionTo(domain.OrderStatusRefunded) {
		return nil, &errors.ErrInvalidStateTransition{
			From: order.Status,
			To:   domain.OrderStatusRefunded,
		}
	}

	refundAmount := order.TotalAmount
	if amount != nil {
		refundAmount = *amount
	}
	if refundAmount.LessThanOrEqual(decimal.Zero) || refundAmount.GreaterThan(order.TotalAmount) {
		return nil, &errors.ErrValidation{
			Message: "refund amount must be positive and no greater than order total",
		}
	}

	annotation := fmt.Sprintf("Refunded %s %s: %s", refundAmount.StringFixed(2), order.Currency, reason)
	if method != nil && *method != "" {
		annotation += " (via " + *method + ")"
	}
	notes := appendInternalNote(order.InternalNotes, annotation)

	if err := s.repos.Order.UpdateStatus(ctx, orderID, domain.OrderStatusRefunded, notes, nil, nil); err != nil {
		return nil, err
	}

	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: "status_change",
		EventData: map[string]interface{}{
			"from":   order.Status,
			"to":     domain.OrderStatusRefunded,
			"reason": reason,
			"amount": refundAmount.String(),
		},
	}
	if method != nil {
		event.EventData["method"] = *method
	}
	s.repos.OrderEvent.Create(ctx, event)

	order.Status = domain.OrderStatusRefunded
	order.InternalNotes = notes
	return order, nil
}

// ForceSetStatus sets an arbitrary valid status, bypassing the transition
// table. Reserved for explicit administrative override; the bypass is
// recorded as an order event.
func (s *orderService) ForceSetStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus, note string) (*domain.Order, error) {
	if !status.IsValid() {
		return nil, &errors.ErrValidation{Message: "invalid status: " + string(status)}
	}

	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	shippedAt, deliveredAt := stampsFor(status)
	var notes *string
	if note != "" {
		notes = appendInternalNote(order.InternalNotes, "Status override: "+note)
	}

	if err := s.repos.Order.UpdateStatus(ctx, orderID, status, notes, shippedAt, deliveredAt); err != nil {
		return nil, err
	}

	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: "status_forced",
		EventData: map[string]interface{}{
			"from": order.Status,
			"to":   status,
			"note": note,
		},
	}
	s.repos.OrderEvent.Create(ctx, event)

	s.logger.Warn("Order status forced",
		zap.String("order_id", orderID.String()),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)),
	)

	order.Status = status
	if notes != nil {
		order.InternalNotes = notes
	}
	applyStamps(order, shippedAt, deliveredAt)
	return order, nil
}

// transition applies a guarded status change. A repeat call with the
// current status is an idempotent success.
func (s *orderService) transition(ctx context.Context, orderID uuid.UUID, to domain.OrderStatus) (*domain.Order, error) {
	order, err := s.repos.Order.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	if order.Status == to {
		return order, nil
	}

	if !order.Status.CanTransitionTo(to) {
		return nil, &errors.ErrInvalidStateTransition{
			From: order.Status,
			To:   to,
		}
	}

	shippedAt, deliveredAt := stampsFor(to)
	if err := s.repos.Order.UpdateStatus(ctx, orderID, to, nil, shippedAt, deliveredAt); err != nil {
		return nil, err
	}

	event := &domain.OrderEvent{
		OrderID:   orderID,
		EventType: "status_change",
		EventData: map[string]interface{}{
			"from": order.Status,
			"to":   to,
		},
	}
	s.repos.OrderEvent.Create(ctx, event)

	order.Status = to
	applyStamps(order, shippedAt, deliveredAt)
	return order, nil
}

// stampsFor returns the timestamp stamps a transition into the given
// status carries: shipped_at for shipped, delivered_at for delivered.
func stampsFor(status domain.OrderStatus) (shippedAt, deliveredAt *time.Time) {
	now := time.Now()
	switch status {
	case domain.OrderStatusShipped:
		shippedAt = &now
	case domain.OrderStatusDelivered:
		deliveredAt = &now
	}
	return shippedAt, deliveredAt
}

func applyStamps(order *domain.Order, shippedAt, deliveredAt *time.Time) {
	if shippedAt != nil {
		order.ShippedAt = shippedAt
	}
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}
}

// appendInternalNote appends a line to internal_notes, preserving whatever
// is already there.
func appendInternalNote(existing *string, line string) *string {
	if existing == nil || *existing == "" {
		return &line
	}
	combined := *existing + "\n" + line
	return &combined
}

// newOrderNumber builds a human-readable order number, e.g. ORD-20260831-9f03a1
func newOrderNumber() string {
	id := uuid.New()
	suffix := hex.EncodeToString(id[:3])
	return fmt.Sprintf("ORD-%s-%s", time.Now().Format("20060102"), suffix)
}
