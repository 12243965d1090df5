package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

// In-memory fakes for the repository aggregate. Only the methods the
// services under test reach are implemented; the rest are inherited from
// the embedded nil interface and panic if called.

type fakeProducts struct {
	repository.ProductRepository
	byID map[uuid.UUID]*domain.Product
}

func (f *fakeProducts) GetByID(_ context.Context, id uuid.UUID) (*domain.Product, error) {
	if p, ok := f.byID[id]; ok {
		return p, nil
	}
	return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
}

type fakeVariants struct {
	repository.VariantRepository
	byID     map[uuid.UUID]*domain.Variant
	first    map[uuid.UUID]*domain.Variant
	replaced map[uuid.UUID][]*domain.Variant
}

func (f *fakeVariants) GetByID(_ context.Context, id uuid.UUID) (*domain.Variant, error) {
	if v, ok := f.byID[id]; ok {
		return v, nil
	}
	return nil, &errors.ErrNotFound{Resource: "variant", ID: id.String()}
}

func (f *fakeVariants) FirstByProduct(_ context.Context, productID uuid.UUID) (*domain.Variant, error) {
	if v, ok := f.first[productID]; ok {
		return v, nil
	}
	return nil, &errors.ErrNotFound{Resource: "variant", ID: productID.String()}
}

func (f *fakeVariants) ReplaceForProduct(_ context.Context, productID uuid.UUID, variants []*domain.Variant) error {
	for _, v := range variants {
		if v.ID == uuid.Nil {
			v.ID = uuid.New()
		}
	}
	f.replaced[productID] = variants
	return nil
}

type fakeOrders struct {
	repository.OrderRepository
	byID  map[uuid.UUID]*domain.Order
	items map[uuid.UUID][]*domain.OrderItem
	// conflictsLeft makes the next N creates fail with the order-number
	// unique-violation conflict
	conflictsLeft int
}

func (f *fakeOrders) CreateWithItems(_ context.Context, order *domain.Order, items []*domain.OrderItem) error {
	if f.conflictsLeft > 0 {
		f.conflictsLeft--
		return &errors.ErrConflict{Message: "order number already exists"}
	}
	now := time.Now()
	order.CreatedAt = now
	order.UpdatedAt = now
	f.byID[order.ID] = order
	f.items[order.ID] = items
	return nil
}

func (f *fakeOrders) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if o, ok := f.byID[id]; ok {
		copied := *o
		return &copied, nil
	}
	return nil, &errors.ErrNotFound{Resource: "order", ID: id.String()}
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus, internalNotes *string, shippedAt, deliveredAt *time.Time) error {
	order, ok := f.byID[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "order", ID: id.String()}
	}
	order.Status = status
	if internalNotes != nil {
		order.InternalNotes = internalNotes
	}
	if shippedAt != nil {
		order.ShippedAt = shippedAt
	}
	if deliveredAt != nil {
		order.DeliveredAt = deliveredAt
	}
	order.UpdatedAt = time.Now()
	return nil
}

type fakeOrderItems struct {
	repository.OrderItemRepository
	purchases map[uuid.UUID]map[uuid.UUID]bool // customer -> product
}

func (f *fakeOrderItems) ExistsForCustomerAndProduct(_ context.Context, customerID, productID uuid.UUID) (bool, error) {
	return f.purchases[customerID][productID], nil
}

type fakeOrderEvents struct {
	repository.OrderEventRepository
	events []*domain.OrderEvent
}

func (f *fakeOrderEvents) Create(_ context.Context, event *domain.OrderEvent) error {
	f.events = append(f.events, event)
	return nil
}

type reviewKey struct {
	customerID uuid.UUID
	productID  uuid.UUID
	variantID  uuid.UUID // uuid.Nil when absent
}

type fakeReviews struct {
	repository.ReviewRepository
	byID    map[uuid.UUID]*domain.Review
	byKey   map[reviewKey]*domain.Review
	ratings map[uuid.UUID][]int
}

func (f *fakeReviews) Create(_ context.Context, review *domain.Review) error {
	if review.ID == uuid.Nil {
		review.ID = uuid.New()
	}
	key := reviewKey{customerID: review.CustomerID, productID: review.ProductID}
	if review.VariantID != nil {
		key.variantID = *review.VariantID
	}
	if _, exists := f.byKey[key]; exists {
		return &errors.ErrConflict{Message: "review already exists for this product"}
	}
	f.byID[review.ID] = review
	f.byKey[key] = review
	return nil
}

func (f *fakeReviews) GetByID(_ context.Context, id uuid.UUID) (*domain.Review, error) {
	if r, ok := f.byID[id]; ok {
		return r, nil
	}
	return nil, &errors.ErrNotFound{Resource: "review", ID: id.String()}
}

func (f *fakeReviews) GetByCustomerProductVariant(_ context.Context, customerID, productID uuid.UUID, variantID *uuid.UUID) (*domain.Review, error) {
	key := reviewKey{customerID: customerID, productID: productID}
	if variantID != nil {
		key.variantID = *variantID
	}
	if r, ok := f.byKey[key]; ok {
		return r, nil
	}
	return nil, &errors.ErrNotFound{Resource: "review", ID: productID.String()}
}

func (f *fakeReviews) RatingsByProduct(_ context.Context, productID uuid.UUID) ([]int, error) {
	return f.ratings[productID], nil
}

func (f *fakeReviews) ListByProduct(_ context.Context, productID uuid.UUID, approvedOnly bool, limit, offset int) ([]*domain.Review, error) {
	var out []*domain.Review
	for _, r := range f.byID {
		if r.ProductID != productID {
			continue
		}
		if approvedOnly && !r.IsApproved {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func (f *fakeReviews) UpdateHelpfulCount(_ context.Context, id uuid.UUID, count int) error {
	review, ok := f.byID[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	review.HelpfulCount = count
	return nil
}

func (f *fakeReviews) SetApproval(_ context.Context, id uuid.UUID, approved bool) error {
	review, ok := f.byID[id]
	if !ok {
		return &errors.ErrNotFound{Resource: "review", ID: id.String()}
	}
	review.IsApproved = approved
	return nil
}

type voteKey struct {
	reviewID   uuid.UUID
	customerID uuid.UUID
}

type fakeReviewVotes struct {
	repository.ReviewVoteRepository
	votes map[voteKey]*domain.ReviewHelpfulVote
}

func (f *fakeReviewVotes) GetByReviewAndCustomer(_ context.Context, reviewID, customerID uuid.UUID) (*domain.ReviewHelpfulVote, error) {
	if v, ok := f.votes[voteKey{reviewID, customerID}]; ok {
		return v, nil
	}
	return nil, &errors.ErrNotFound{Resource: "review vote", ID: reviewID.String()}
}

func (f *fakeReviewVotes) Upsert(_ context.Context, vote *domain.ReviewHelpfulVote) error {
	if vote.ID == uuid.Nil {
		vote.ID = uuid.New()
	}
	f.votes[voteKey{vote.ReviewID, vote.CustomerID}] = vote
	return nil
}

func (f *fakeReviewVotes) Delete(_ context.Context, reviewID, customerID uuid.UUID) error {
	delete(f.votes, voteKey{reviewID, customerID})
	return nil
}

func (f *fakeReviewVotes) CountHelpful(_ context.Context, reviewID uuid.UUID) (int, error) {
	count := 0
	for key, vote := range f.votes {
		if key.reviewID == reviewID && vote.IsHelpful {
			count++
		}
	}
	return count, nil
}

type wishKey struct {
	customerID uuid.UUID
	productID  uuid.UUID
}

type fakeWishlists struct {
	repository.WishlistRepository
	entries map[wishKey]*domain.WishlistEntry
}

func (f *fakeWishlists) GetByCustomerAndProduct(_ context.Context, customerID, productID uuid.UUID) (*domain.WishlistEntry, error) {
	if e, ok := f.entries[wishKey{customerID, productID}]; ok {
		return e, nil
	}
	return nil, &errors.ErrNotFound{Resource: "wishlist entry", ID: productID.String()}
}

func (f *fakeWishlists) Create(_ context.Context, entry *domain.WishlistEntry) error {
	key := wishKey{entry.CustomerID, entry.ProductID}
	if _, exists := f.entries[key]; exists {
		return &errors.ErrConflict{Message: "product already in wishlist"}
	}
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}
	f.entries[key] = entry
	return nil
}

func (f *fakeWishlists) Delete(_ context.Context, customerID, productID uuid.UUID) error {
	delete(f.entries, wishKey{customerID, productID})
	return nil
}

func (f *fakeWishlists) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]*domain.WishlistEntry, error) {
	var out []*domain.WishlistEntry
	for key, e := range f.entries {
		if key.customerID == customerID {
			out = append(out, e)
		}
	}
	return out, nil
}

// newFakeRepos wires all fakes into a Repositories aggregate
func newFakeRepos() *repository.Repositories {
	return &repository.Repositories{
		Product: &fakeProducts{byID: map[uuid.UUID]*domain.Product{}},
		Variant: &fakeVariants{
			byID:     map[uuid.UUID]*domain.Variant{},
			first:    map[uuid.UUID]*domain.Variant{},
			replaced: map[uuid.UUID][]*domain.Variant{},
		},
		Order: &fakeOrders{
			byID:  map[uuid.UUID]*domain.Order{},
			items: map[uuid.UUID][]*domain.OrderItem{},
		},
		OrderItem:  &fakeOrderItems{purchases: map[uuid.UUID]map[uuid.UUID]bool{}},
		OrderEvent: &fakeOrderEvents{},
		Review: &fakeReviews{
			byID:    map[uuid.UUID]*domain.Review{},
			byKey:   map[reviewKey]*domain.Review{},
			ratings: map[uuid.UUID][]int{},
		},
		ReviewVote: &fakeReviewVotes{votes: map[voteKey]*domain.ReviewHelpfulVote{}},
		Wishlist:   &fakeWishlists{entries: map[wishKey]*domain.WishlistEntry{}},
	}
}
