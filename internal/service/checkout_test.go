package service

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/repository"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

// --- Mock Repository ---

type mockOrderRepository struct {
	mock.Mock
}

func (m *mockOrderRepository) Create(ctx context.Context, order *domain.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *mockOrderRepository) GetByID(ctx context.Context, id string) (*domain.Order, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Order), args.Error(1)
}

func (m *mockOrderRepository) List(ctx context.Context, filter repository.OrderFilter) ([]domain.Order, int, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.Order), args.Int(1), args.Error(2)
}

// --- Test Helpers ---

func newTestCheckoutService(orders *mockOrderRepository, carts *mockCartRepository) *CheckoutService {
	return NewCheckoutService(orders, carts, newTestProducer(), newTestLogger())
}

func validCheckoutRequest() *domain.CheckoutRequest {
	return &domain.CheckoutRequest{
		Items: []domain.OrderItem{
			{ProductID: "tv1", Name: "Samsung 55 inch 4K TV", Price: 599.99, Quantity: 1, Brand: "Samsung"},
			{ProductID: "cm1", Name: "Keurig Coffee Maker", Price: 89.99, Quantity: 2, Brand: "Keurig"},
		},
		Customer: domain.Customer{
			Email:   "jo@example.com",
			Name:    "Jo Smith",
			Address: "1 Main St",
			City:    "Springfield",
			ZipCode: "12345",
			Country: "US",
		},
		Total: 779.97,
	}
}

var orderIDPattern = regexp.MustCompile(`^ORD-\d{13}-[A-Z0-9]{7}$`)

// --- Tests ---

func TestCheckoutService_PlaceOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestCheckoutService(orders, carts)

	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("Delete", mock.Anything, "user-1").Return(nil)

	order, err := svc.PlaceOrder(context.Background(), "user-1", validCheckoutRequest())
	require.NoError(t, err)

	assert.Regexp(t, orderIDPattern, order.ID)
	assert.InDelta(t, 779.97, order.Total, 0.001)
	assert.Len(t, order.Items, 2)
	assert.WithinDuration(t, time.Now().UTC(), order.CreatedAt, time.Minute)
	orders.AssertExpectations(t)
	carts.AssertExpectations(t)
}

func TestCheckoutService_PlaceOrder_NoUserSkipsCartClear(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestCheckoutService(orders, carts)

	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	_, err := svc.PlaceOrder(context.Background(), "", validCheckoutRequest())
	require.NoError(t, err)
	carts.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}

func TestCheckoutService_PlaceOrder_CartClearFailureIgnored(t *testing.T) {
	orders := new(mockOrderRepository)
	carts := new(mockCartRepository)
	svc := newTestCheckoutService(orders, carts)

	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	carts.On("Delete", mock.Anything, "user-1").Return(assert.AnError)

	_, err := svc.PlaceOrder(context.Background(), "user-1", validCheckoutRequest())
	assert.NoError(t, err)
}

func TestCheckoutService_PlaceOrder_TotalMismatch(t *testing.T) {
	svc := newTestCheckoutService(new(mockOrderRepository), new(mockCartRepository))

	req := validCheckoutRequest()
	req.Total = 100.00

	_, err := svc.PlaceOrder(context.Background(), "user-1", req)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckoutService_PlaceOrder_Validation(t *testing.T) {
	svc := newTestCheckoutService(new(mockOrderRepository), new(mockCartRepository))
	ctx := context.Background()

	tests := []struct {
		name   string
		mutate func(*domain.CheckoutRequest)
	}{
		{"no items", func(r *domain.CheckoutRequest) { r.Items = nil }},
		{"missing product id", func(r *domain.CheckoutRequest) { r.Items[0].ProductID = "" }},
		{"zero quantity", func(r *domain.CheckoutRequest) { r.Items[0].Quantity = 0 }},
		{"zero price", func(r *domain.CheckoutRequest) { r.Items[0].Price = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validCheckoutRequest()
			tt.mutate(req)
			_, err := svc.PlaceOrder(ctx, "user-1", req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

func TestCheckoutService_PlaceOrder_NilRequest(t *testing.T) {
	svc := newTestCheckoutService(new(mockOrderRepository), new(mockCartRepository))

	_, err := svc.PlaceOrder(context.Background(), "user-1", nil)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestCheckoutService_PlaceOrder_RepoError(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(orders, new(mockCartRepository))

	orders.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(assert.AnError)

	_, err := svc.PlaceOrder(context.Background(), "user-1", validCheckoutRequest())
	assert.ErrorIs(t, err, assert.AnError)
}

func TestCheckoutService_GetOrder(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(orders, new(mockCartRepository))

	want := &domain.Order{ID: "ORD-1712000000000-AB12CD3"}
	orders.On("GetByID", mock.Anything, want.ID).Return(want, nil)

	got, err := svc.GetOrder(context.Background(), want.ID)
	require.NoError(t, err)
	assert.Equal(t, want.ID, got.ID)
}

func TestCheckoutService_GetOrder_NotFound(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(orders, new(mockCartRepository))

	orders.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("order", "missing"))

	_, err := svc.GetOrder(context.Background(), "missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestCheckoutService_ListOrders(t *testing.T) {
	orders := new(mockOrderRepository)
	svc := newTestCheckoutService(orders, new(mockCartRepository))

	filter := repository.OrderFilter{Email: "jo@example.com", Page: 1, PerPage: 20}
	orders.On("List", mock.Anything, filter).Return([]domain.Order{{ID: "ORD-1712000000000-AB12CD3"}}, 1, nil)

	got, total, err := svc.ListOrders(context.Background(), filter)
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	assert.Len(t, got, 1)
}

func TestNewOrderID_Format(t *testing.T) {
	now := time.UnixMilli(1712000000000).UTC()

	seen := make(map[string]bool)
	for range 50 {
		id := newOrderID(now)
		assert.Regexp(t, orderIDPattern, id)
		seen[id] = true
	}

	// The random suffix makes collisions across 50 draws implausible.
	assert.Greater(t, len(seen), 1)
}
