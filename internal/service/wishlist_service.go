package service

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

type wishlistService struct {
	repos  *repository.Repositories
	logger *zap.Logger
}

// NewWishlistService creates a new wishlist service
func NewWishlistService(repos *repository.Repositories, logger *zap.Logger) *wishlistService {
	return &wishlistService{
		repos:  repos,
		logger: logger,
	}
}

// Toggle adds the product to the customer's wishlist if absent, removes it
// if present. Returns true when the product ended up on the wishlist.
func (s *wishlistService) Toggle(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	if _, err := s.repos.Product.GetByID(ctx, productID); err != nil {
		return false, err
	}

	existing, err := s.repos.Wishlist.GetByCustomerAndProduct(ctx, customerID, productID)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); !ok {
			return false, err
		}
	}

	if existing != nil {
		if err := s.repos.Wishlist.Delete(ctx, customerID, productID); err != nil {
			return false, err
		}
		return false, nil
	}

	entry := &domain.WishlistEntry{
		CustomerID: customerID,
		ProductID:  productID,
	}
	if err := s.repos.Wishlist.Create(ctx, entry); err != nil {
		if _, ok := err.(*errors.ErrConflict); ok {
			// A concurrent toggle already added it
			return true, nil
		}
		return false, err
	}

	return true, nil
}

// List returns the customer's wishlist entries, newest first
func (s *wishlistService) List(ctx context.Context, customerID uuid.UUID) ([]*domain.WishlistEntry, error) {
	return s.repos.Wishlist.ListByCustomer(ctx, customerID)
}
