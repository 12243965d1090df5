package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/maisonmarket/storeapi/internal/domain"
)

// CustomerRepository defines customer data access methods
type CustomerRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	GetByEmail(ctx context.Context, email string) (*domain.Customer, error)
	Create(ctx context.Context, customer *domain.Customer) error
}

// ProductRepository defines product data access methods
type ProductRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context, limit, offset int) ([]*domain.Product, error)
	Create(ctx context.Context, product *domain.Product) error
}

// VariantRepository defines variant data access methods
type VariantRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Variant, error)
	ListByProduct(ctx context.Context, productID uuid.UUID) ([]*domain.Variant, error)
	// FirstByProduct returns the product's first variant, ordered by
	// position then created_at. Returns ErrNotFound when the product
	// has no variants.
	FirstByProduct(ctx context.Context, productID uuid.UUID) (*domain.Variant, error)
	// ReplaceForProduct swaps the product's whole variant set in one
	// transaction (delete then insert; partial patches are not supported).
	ReplaceForProduct(ctx context.Context, productID uuid.UUID, variants []*domain.Variant) error
}

// OrderRepository defines order data access methods
type OrderRepository interface {
	// CreateWithItems persists the order header and its items as a single
	// transaction; either everything commits or nothing does.
	CreateWithItems(ctx context.Context, order *domain.Order, items []*domain.OrderItem) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID, limit, offset int) ([]*domain.Order, error)
	List(ctx context.Context, status *domain.OrderStatus, limit, offset int) ([]*domain.Order, error)
	// UpdateStatus sets the order status and optionally rewrites
	// internal_notes and the shipped_at/delivered_at stamps.
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.OrderStatus, internalNotes *string, shippedAt, deliveredAt *time.Time) error
}

// OrderItemRepository defines order item data access methods
type OrderItemRepository interface {
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
	// ExistsForCustomerAndProduct reports whether the customer has an
	// order line for the product; used for the verified-purchase flag.
	ExistsForCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
}

// ReviewRepository defines review data access methods
type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Review, error)
	GetByCustomerProductVariant(ctx context.Context, customerID, productID uuid.UUID, variantID *uuid.UUID) (*domain.Review, error)
	ListByProduct(ctx context.Context, productID uuid.UUID, approvedOnly bool, limit, offset int) ([]*domain.Review, error)
	// RatingsByProduct returns the ratings of all approved reviews for a
	// product, for aggregation.
	RatingsByProduct(ctx context.Context, productID uuid.UUID) ([]int, error)
	SetApproval(ctx context.Context, id uuid.UUID, approved bool) error
	UpdateHelpfulCount(ctx context.Context, id uuid.UUID, count int) error
}

// ReviewVoteRepository defines helpful-vote data access methods
type ReviewVoteRepository interface {
	GetByReviewAndCustomer(ctx context.Context, reviewID, customerID uuid.UUID) (*domain.ReviewHelpfulVote, error)
	Upsert(ctx context.Context, vote *domain.ReviewHelpfulVote) error
	Delete(ctx context.Context, reviewID, customerID uuid.UUID) error
	CountHelpful(ctx context.Context, reviewID uuid.UUID) (int, error)
}

// WishlistRepository defines wishlist data access methods
type WishlistRepository interface {
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]*domain.WishlistEntry, error)
	GetByCustomerAndProduct(ctx context.Context, customerID, productID uuid.UUID) (*domain.WishlistEntry, error)
	Create(ctx context.Context, entry *domain.WishlistEntry) error
	Delete(ctx context.Context, customerID, productID uuid.UUID) error
}

// OrderEventRepository defines order event data access methods
type OrderEventRepository interface {
	Create(ctx context.Context, event *domain.OrderEvent) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderEvent, error)
}

// IdempotencyKeyRepository defines idempotency key data access methods
type IdempotencyKeyRepository interface {
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Create(ctx context.Context, key *domain.IdempotencyKey) error
}

// Repositories aggregates all repositories
type Repositories struct {
	Customer       CustomerRepository
	Product        ProductRepository
	Variant        VariantRepository
	Order          OrderRepository
	OrderItem      OrderItemRepository
	Review         ReviewRepository
	ReviewVote     ReviewVoteRepository
	Wishlist       WishlistRepository
	OrderEvent     OrderEventRepository
	IdempotencyKey IdempotencyKeyRepository
}
