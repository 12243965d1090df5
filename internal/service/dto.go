package service

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest represents the order creation payload
type CreateOrderRequest struct {
	Items           []OrderItemRequest     `json:"items" binding:"required,min=1"`
	ShippingAddress map[string]interface{} `json:"shipping_address" binding:"required"`
	BillingAddress  map[string]interface{} `json:"billing_address,omitempty"`
	Currency        string                 `json:"currency"`
	Notes           *string                `json:"notes,omitempty"`
	PaymentMethod   *string                `json:"payment_method,omitempty" binding:"omitempty,oneof=cod online"`
}

type OrderItemRequest struct {
	ProductID string  `json:"product_id" binding:"required,uuid"`
	VariantID *string `json:"variant_id,omitempty" binding:"omitempty,uuid"`
	Quantity  int     `json:"quantity" binding:"required,min=1"`
}

// VariantPayload is one variant in a variant-set replacement request.
// Options is raw JSON: absent or non-list-shaped values are coerced to an
// empty list for compatibility with older clients.
type VariantPayload struct {
	SKU               string          `json:"sku" binding:"required"`
	Price             decimal.Decimal `json:"price" binding:"required"`
	InventoryQuantity int             `json:"inventory_quantity" binding:"min=0"`
	Position          int             `json:"position" binding:"min=0"`
	Options           json.RawMessage `json:"options"`
}

// ReviewRequest represents the review creation payload
type ReviewRequest struct {
	VariantID *string  `json:"variant_id,omitempty" binding:"omitempty,uuid"`
	Rating    int      `json:"rating" binding:"required,min=1,max=5"`
	Title     *string  `json:"title,omitempty"`
	Body      *string  `json:"body,omitempty"`
	Pros      []string `json:"pros,omitempty"`
	Cons      []string `json:"cons,omitempty"`
}

// RefundRequest represents the refund payload. Amount defaults to the
// order's full total when omitted.
type RefundRequest struct {
	Reason string           `json:"reason" binding:"required"`
	Amount *decimal.Decimal `json:"amount,omitempty"`
	Method *string          `json:"method,omitempty"`
}

// CancelRequest represents the cancellation payload
type CancelRequest struct {
	Reason string `json:"reason"`
}

// StatusOverrideRequest is the admin forced status override payload.
// Force must be true; the endpoint bypasses the transition table.
type StatusOverrideRequest struct {
	Status string `json:"status" binding:"required"`
	Force  bool   `json:"force"`
	Note   string `json:"note"`
}

// HelpfulVoteRequest represents a helpful-vote toggle payload
type HelpfulVoteRequest struct {
	IsHelpful *bool `json:"is_helpful" binding:"required"`
}
