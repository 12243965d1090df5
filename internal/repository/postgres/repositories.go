package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Customer:       NewCustomerRepository(db, logger),
		Product:        NewProductRepository(db, logger),
		Variant:        NewVariantRepository(db, logger),
		Order:          NewOrderRepository(db, logger),
		OrderItem:      NewOrderItemRepository(db, logger),
		Review:         NewReviewRepository(db, logger),
		ReviewVote:     NewReviewVoteRepository(db, logger),
		Wishlist:       NewWishlistRepository(db, logger),
		OrderEvent:     NewOrderEventRepository(db, logger),
		IdempotencyKey: NewIdempotencyKeyRepository(db, logger),
	}
}
