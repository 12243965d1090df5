package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/pkg/errors"
)

func TestWishlistToggle(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "25")
	customerID := uuid.New()

	svc := NewWishlistService(repos, zap.NewNop())
	ctx := context.Background()

	wishlisted, err := svc.Toggle(ctx, customerID, productID)
	require.NoError(t, err)
	assert.True(t, wishlisted)

	entries, err := svc.List(ctx, customerID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)

	// Second toggle removes it
	wishlisted, err = svc.Toggle(ctx, customerID, productID)
	require.NoError(t, err)
	assert.False(t, wishlisted)

	entries, err = svc.List(ctx, customerID)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestWishlistToggleUnknownProduct(t *testing.T) {
	repos := newFakeRepos()
	svc := NewWishlistService(repos, zap.NewNop())

	_, err := svc.Toggle(context.Background(), uuid.New(), uuid.New())
	assert.IsType(t, &errors.ErrNotFound{}, err)
}

func TestWishlistIsPerCustomer(t *testing.T) {
	repos := newFakeRepos()
	productID := seedProduct(repos, "25")
	alice := uuid.New()
	bob := uuid.New()

	svc := NewWishlistService(repos, zap.NewNop())
	ctx := context.Background()

	_, err := svc.Toggle(ctx, alice, productID)
	require.NoError(t, err)

	entries, err := svc.List(ctx, bob)
	require.NoError(t, err)
	assert.Empty(t, entries)
}
