package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/maisonmarket/storeapi/internal/api/middleware"
	"github.com/maisonmarket/storeapi/internal/config"
	"github.com/maisonmarket/storeapi/internal/domain"
	"github.com/maisonmarket/storeapi/internal/repository"
	"github.com/maisonmarket/storeapi/pkg/errors"
)

// In-memory fakes for the order endpoints. Only the methods the handlers
// under test reach are implemented; the rest panic via the embedded nil
// interface.

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
}

func (f *fakeVariants) GetByID(_ context.Context, id uuid.UUID) (*domain.Variant, error) {
	return nil, &errors.ErrNotFound{Resource: "variant", ID: id.String()}
}

func (f *fakeVariants) FirstByProduct(_ context.Context, productID uuid.UUID) (*domain.Variant, error) {
	return nil, &errors.ErrNotFound{Resource: "variant", ID: productID.String()}
}

type fakeOrders struct {
	repository.OrderRepository
	byID  map[uuid.UUID]*domain.Order
	items map[uuid.UUID][]*domain.OrderItem
}

func (f *fakeOrders) CreateWithItems(_ context.Context, order *domain.Order, items []*domain.OrderItem) error {
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

type fakeOrderItems struct {
	repository.OrderItemRepository
	orders  *fakeOrders
	loadErr error
}

func (f *fakeOrderItems) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	return f.orders.items[orderID], nil
}

type fakeOrderEvents struct {
	repository.OrderEventRepository
}

func (f *fakeOrderEvents) Create(_ context.Context, _ *domain.OrderEvent) error {
	return nil
}

type fakeIdempotencyKeys struct {
	repository.IdempotencyKeyRepository
	byKey map[string]*domain.IdempotencyKey
}

func (f *fakeIdempotencyKeys) GetByKey(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	return f.byKey[key], nil
}

func (f *fakeIdempotencyKeys) Create(_ context.Context, key *domain.IdempotencyKey) error {
	// First writer wins, matching the ON CONFLICT DO NOTHING insert
	if _, exists := f.byKey[key.Key]; exists {
		return nil
	}
	f.byKey[key.Key] = key
	return nil
}

func newHandlerRepos() *repository.Repositories {
	orders := &fakeOrders{
		byID:  map[uuid.UUID]*domain.Order{},
		items: map[uuid.UUID][]*domain.OrderItem{},
	}
	return &repository.Repositories{
		Product:        &fakeProducts{byID: map[uuid.UUID]*domain.Product{}},
		Variant:        &fakeVariants{},
		Order:          orders,
		OrderItem:      &fakeOrderItems{orders: orders},
		OrderEvent:     &fakeOrderEvents{},
		IdempotencyKey: &fakeIdempotencyKeys{byKey: map[string]*domain.IdempotencyKey{}},
	}
}

func seedOrderProduct(repos *repository.Repositories, price string) uuid.UUID {
	id := uuid.New()
	repos.Product.(*fakeProducts).byID[id] = &domain.Product{
		ID:        id,
		Title:     "Seeded Product",
		SKU:       "SKU-1",
		BasePrice: decimal.RequireFromString(price),
		IsActive:  true,
	}
	return id
}

// newOrderRouter wires the order routes the way the real router does, with a
// stub in front of them standing in for the JWT middleware.
func newOrderRouter(repos *repository.Repositories, customerID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{}
	logger := zap.NewNop()

	asCustomer := func(c *gin.Context) {
		c.Set(middleware.CustomerIDContextKey, customerID)
		c.Set(middleware.RoleContextKey, domain.RoleCustomer)
		c.Next()
	}

	router := gin.New()
	router.POST("/v1/orders", asCustomer, middleware.IdempotencyMiddleware(repos, logger), HandleCreateOrder(cfg, repos, logger))
	router.GET("/v1/orders/:id", asCustomer, HandleGetOrder(cfg, repos, logger))
	return router
}

func postOrder(router *gin.Engine, body string, idempotencyKey string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/v1/orders", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if idempotencyKey != "" {
		req.Header.Set(middleware.IdempotencyKeyHeader, idempotencyKey)
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func orderBody(productID uuid.UUID, quantity int) string {
	return fmt.Sprintf(`{"items":[{"product_id":%q,"quantity":%d}],"shipping_address":{"line1":"1 Main St","city":"Pune"}}`, productID, quantity)
}

func TestCreateOrderWithoutIdempotencyKey(t *testing.T) {
	repos := newHandlerRepos()
	productID := seedOrderProduct(repos, "100")
	router := newOrderRouter(repos, uuid.New())

	rec := postOrder(router, orderBody(productID, 2), "")
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, domain.OrderStatusPending, resp.Status)
	assert.True(t, resp.TotalAmount.Equal(decimal.RequireFromString("286")))
	require.Len(t, resp.Items, 1)
	assert.Equal(t, 2, resp.Items[0].Quantity)

	// No key was sent, so no replay mapping was recorded
	assert.Empty(t, repos.IdempotencyKey.(*fakeIdempotencyKeys).byKey)
}

func TestCreateOrderIdempotentReplay(t *testing.T) {
	repos := newHandlerRepos()
	productID := seedOrderProduct(repos, "100")
	router := newOrderRouter(repos, uuid.New())
	body := orderBody(productID, 2)

	first := postOrder(router, body, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)
	var created OrderResponse
	require.NoError(t, json.Unmarshal(first.Body.Bytes(), &created))

	// Same key, same payload returns the original order instead of
	// creating a second one
	second := postOrder(router, body, "key-1")
	require.Equal(t, http.StatusOK, second.Code)
	var replayed OrderResponse
	require.NoError(t, json.Unmarshal(second.Body.Bytes(), &replayed))
	assert.Equal(t, created.ID, replayed.ID)
	assert.Equal(t, created.OrderNumber, replayed.OrderNumber)
	require.Len(t, replayed.Items, 1)

	assert.Len(t, repos.Order.(*fakeOrders).byID, 1)
}

func TestCreateOrderIdempotencyPayloadMismatch(t *testing.T) {
	repos := newHandlerRepos()
	productID := seedOrderProduct(repos, "100")
	router := newOrderRouter(repos, uuid.New())

	first := postOrder(router, orderBody(productID, 2), "key-1")
	require.Equal(t, http.StatusCreated, first.Code)

	// Same key with a different payload is a conflict, not a new order
	second := postOrder(router, orderBody(productID, 3), "key-1")
	require.Equal(t, http.StatusConflict, second.Code)
	assert.Contains(t, second.Body.String(), "idempotency key conflict")

	assert.Len(t, repos.Order.(*fakeOrders).byID, 1)
}

func TestCreateOrderReplayDeniedForOtherCustomer(t *testing.T) {
	repos := newHandlerRepos()
	productID := seedOrderProduct(repos, "100")
	body := orderBody(productID, 1)

	owner := newOrderRouter(repos, uuid.New())
	first := postOrder(owner, body, "key-1")
	require.Equal(t, http.StatusCreated, first.Code)

	stranger := newOrderRouter(repos, uuid.New())
	second := postOrder(stranger, body, "key-1")
	assert.Equal(t, http.StatusForbidden, second.Code)
}

func TestGetOrderFailsWhenItemsCannotLoad(t *testing.T) {
	repos := newHandlerRepos()
	productID := seedOrderProduct(repos, "100")
	customerID := uuid.New()
	router := newOrderRouter(repos, customerID)

	created := postOrder(router, orderBody(productID, 1), "")
	require.Equal(t, http.StatusCreated, created.Code)
	var resp OrderResponse
	require.NoError(t, json.Unmarshal(created.Body.Bytes(), &resp))

	// A storage failure loading the line items must surface as an error
	// response, never as a 200 with an empty items list
	repos.OrderItem.(*fakeOrderItems).loadErr = fmt.Errorf("storage failure")

	req := httptest.NewRequest(http.MethodGet, "/v1/orders/"+resp.ID, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), `"items"`)
}
