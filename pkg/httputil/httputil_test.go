package httputil

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/tofucode-dev/tofu-store/pkg/errors"
	"github.com/tofucode-dev/tofu-store/pkg/logger"
	"github.com/tofucode-dev/tofu-store/pkg/validator"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Response {
	t.Helper()
	var resp Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteJSON(rec, http.StatusCreated, Response{Data: map[string]string{"id": "ORD-1756600000000-7KX2M9A"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "ORD-1756600000000-7KX2M9A")
}

func TestWriteError_AppError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/product/noid", nil)

	WriteError(rec, req, apperrors.NotFound("product", "noid"), quietLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "noid")
}

func TestWriteError_WrappedSentinel(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil)

	WriteError(rec, req, fmt.Errorf("get cart: %w", apperrors.ErrNotFound), quietLogger())

	assert.Equal(t, http.StatusNotFound, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "NOT_FOUND", resp.Error.Code)
}

func TestWriteError_InvalidInputCarriesMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)

	WriteError(rec, req, fmt.Errorf("order total does not match items: %w", apperrors.ErrInvalidInput), quietLogger())

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
	assert.Contains(t, resp.Error.Message, "order total")
}

func TestWriteError_UnknownErrorIs500(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/products", nil)

	WriteError(rec, req, errors.New("pgx: broken pipe"), quietLogger())

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", resp.Error.Code)
	// The cause must not leak into the body.
	assert.NotContains(t, resp.Error.Message, "pgx")
}

func TestWriteError_IncludesRequestID(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/v1/orders/nope", nil)
	req = req.WithContext(logger.WithCorrelationID(req.Context(), "req-42"))

	WriteError(rec, req, apperrors.NotFound("order", "nope"), quietLogger())

	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestWriteValidationError_FieldDetail(t *testing.T) {
	type addItem struct {
		ProductID string `json:"product_id" validate:"required"`
		Quantity  int    `json:"quantity" validate:"required,gte=1"`
	}
	err := validator.Validate(&addItem{Quantity: 0})
	require.Error(t, err)

	rec := httptest.NewRecorder()
	WriteValidationError(rec, err)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "VALIDATION_ERROR", resp.Error.Code)
	assert.Contains(t, resp.Error.Fields, "ProductID")
}

func TestWriteValidationError_PlainError(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteValidationError(rec, errors.New("decode request body: unexpected EOF"))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeEnvelope(t, rec)
	assert.Equal(t, "INVALID_INPUT", resp.Error.Code)
}
