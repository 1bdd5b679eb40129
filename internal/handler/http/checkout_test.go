package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/repository"
	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
)

const checkoutBody = `{
	"items": [
		{"product_id": "tv1", "name": "Samsung 55 inch 4K TV", "price": 599.99, "quantity": 1, "brand": "Samsung"},
		{"product_id": "cm1", "name": "Keurig Coffee Maker", "price": 89.99, "quantity": 2, "brand": "Keurig"}
	],
	"customer": {
		"email": "jo@example.com",
		"name": "Jo Smith",
		"address": "1 Main St",
		"city": "Springfield",
		"zip_code": "12345",
		"country": "US"
	},
	"total": 779.97
}`

func newCheckoutRequest(body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", bytes.NewReader([]byte(body)))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestCheckout(t *testing.T) {
	env := newTestEnv(t)
	env.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)

	rec := env.do(t, newCheckoutRequest(checkoutBody))
	require.Equal(t, http.StatusCreated, rec.Code)

	var order domain.Order
	decodeData(t, rec.Body, &order)
	assert.Regexp(t, `^ORD-\d{13}-[A-Z0-9]{7}$`, order.ID)
	assert.InDelta(t, 779.97, order.Total, 0.001)
	assert.Len(t, order.Items, 2)
	env.orderRepo.AssertExpectations(t)
}

func TestCheckout_ClearsCartForKnownUser(t *testing.T) {
	env := newTestEnv(t)
	env.orderRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Order")).Return(nil)
	env.cartRepo.On("Delete", mock.Anything, "user-1").Return(nil)

	req := newCheckoutRequest(checkoutBody)
	req.Header.Set("X-User-ID", "user-1")
	rec := env.do(t, req)

	require.Equal(t, http.StatusCreated, rec.Code)
	env.cartRepo.AssertExpectations(t)
}

func TestCheckout_ValidationError(t *testing.T) {
	env := newTestEnv(t)

	// Missing customer email and empty items.
	rec := env.do(t, newCheckoutRequest(`{"items":[],"customer":{"name":"Jo"},"total":10}`))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	code, _ := decodeError(t, rec.Body)
	assert.Equal(t, "VALIDATION_ERROR", code)
}

func TestCheckout_TotalMismatch(t *testing.T) {
	env := newTestEnv(t)

	body := `{
		"items": [{"product_id": "tv1", "name": "TV", "price": 599.99, "quantity": 1}],
		"customer": {"email": "jo@example.com", "name": "Jo", "address": "1 Main St", "city": "X", "zip_code": "1", "country": "US"},
		"total": 9.99
	}`
	rec := env.do(t, newCheckoutRequest(body))
	require.Equal(t, http.StatusBadRequest, rec.Code)

	code, message := decodeError(t, rec.Body)
	assert.Equal(t, "INVALID_INPUT", code)
	assert.Contains(t, message, "total")
}

func TestGetOrder(t *testing.T) {
	env := newTestEnv(t)

	want := &domain.Order{ID: "ORD-1712000000000-AB12CD3", Total: 779.97}
	env.orderRepo.On("GetByID", mock.Anything, want.ID).Return(want, nil)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/orders/"+want.ID, nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var order domain.Order
	decodeData(t, rec.Body, &order)
	assert.Equal(t, want.ID, order.ID)
}

func TestGetOrder_NotFound(t *testing.T) {
	env := newTestEnv(t)
	env.orderRepo.On("GetByID", mock.Anything, "missing").Return(nil, apperrors.NotFound("order", "missing"))

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/orders/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestListOrders(t *testing.T) {
	env := newTestEnv(t)

	filter := repository.OrderFilter{Email: "jo@example.com", Page: 1, PerPage: 20}
	env.orderRepo.On("List", mock.Anything, filter).
		Return([]domain.Order{{ID: "ORD-1712000000000-AB12CD3"}}, 1, nil)

	rec := env.do(t, httptest.NewRequest(http.MethodGet, "/api/v1/orders?email=jo%40example.com", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var result struct {
		Data       []domain.Order `json:"data"`
		TotalCount int            `json:"total_count"`
	}
	decodeData(t, rec.Body, &result)
	assert.Equal(t, 1, result.TotalCount)
	require.Len(t, result.Data, 1)
}
