package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Customer represents a registered storefront user
type Customer struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Product represents a sellable product
type Product struct {
	ID          uuid.UUID
	Title       string
	Description *string
	SKU         string
	BasePrice   decimal.Decimal // fallback price when a product has no variants
	ImageURL    *string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Variant represents a purchasable configuration of a product with its own
// price and inventory count. Options live in a JSONB column; the three
// legacy option slots are read-only remnants of the old schema and are
// never written by new code.
type Variant struct {
	ID           uuid.UUID
	ProductID    uuid.UUID
	SKU          string
	Price        decimal.Decimal
	InventoryQty int
	Position     int
	Options      OptionList

	// Legacy three-slot option columns. Historical rows may still carry
	// values here; outbound representations strip them.
	LegacyOption1Name  *string
	LegacyOption1Value *string
	LegacyOption2Name  *string
	LegacyOption2Value *string
	LegacyOption3Name  *string
	LegacyOption3Value *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Order represents a customer order. Items are immutable once created;
// only status transitions mutate the order afterwards.
type Order struct {
	ID              uuid.UUID
	CustomerID      uuid.UUID
	OrderNumber     string
	Status          OrderStatus
	Currency        string
	Subtotal        decimal.Decimal
	TaxAmount       decimal.Decimal
	ShippingAmount  decimal.Decimal
	TotalAmount     decimal.Decimal
	ShippingAddress map[string]interface{} // JSONB
	BillingAddress  map[string]interface{} // JSONB, optional
	PaymentMethod   *string
	Notes           *string
	InternalNotes   *string
	ShippedAt       *time.Time
	DeliveredAt     *time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// OrderItem represents a line in an order. UnitPrice and LineTotal are
// snapshots taken at order-creation time so later price changes do not
// affect historical orders.
type OrderItem struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	ProductID uuid.UUID
	VariantID *uuid.UUID
	Quantity  int
	UnitPrice decimal.Decimal
	LineTotal decimal.Decimal
	CreatedAt time.Time
}

// Review represents a product review. HelpfulCount is denormalized from
// review_helpful_votes and recomputed after every vote mutation.
type Review struct {
	ID                 uuid.UUID
	ProductID          uuid.UUID
	VariantID          *uuid.UUID
	CustomerID         uuid.UUID
	Rating             int
	Title              *string
	Body               *string
	Pros               []string
	Cons               []string
	IsVerifiedPurchase bool
	IsApproved         bool
	HelpfulCount       int
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ReviewHelpfulVote represents one customer's helpful/unhelpful vote on a
// review; at most one vote per (review, customer)
type ReviewHelpfulVote struct {
	ID         uuid.UUID
	ReviewID   uuid.UUID
	CustomerID uuid.UUID
	IsHelpful  bool
	CreatedAt  time.Time
}

// WishlistEntry represents a product saved to a customer's wishlist;
// unique per (customer, product)
type WishlistEntry struct {
	ID         uuid.UUID
	CustomerID uuid.UUID
	ProductID  uuid.UUID
	CreatedAt  time.Time
}

// OrderEvent represents an audit event for an order
type OrderEvent struct {
	ID        uuid.UUID
	OrderID   uuid.UUID
	EventType string
	EventData map[string]interface{} // JSONB
	CreatedAt time.Time
}

// IdempotencyKey stores idempotency information for order creation
type IdempotencyKey struct {
	Key         string
	CustomerID  uuid.UUID
	OrderID     uuid.UUID
	RequestHash string
	CreatedAt   time.Time
}
