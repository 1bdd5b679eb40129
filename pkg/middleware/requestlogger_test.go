package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tofucode-dev/tofu-store/pkg/logger"
)

func lastLogLine(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.NotEmpty(t, lines)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[len(lines)-1], &entry))
	return entry
}

func TestRequestLogging_MintsCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("storefront", "info", &buf)

	h := RequestLogging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	echoed := rec.Header().Get("X-Correlation-ID")
	_, err := uuid.Parse(echoed)
	assert.NoError(t, err)

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "http request", entry["msg"])
	assert.Equal(t, echoed, entry["correlation_id"])
	assert.Equal(t, "/api/products", entry["path"])
	assert.Equal(t, float64(http.StatusOK), entry["status"])
}

func TestRequestLogging_KeepsInboundCorrelationID(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("storefront", "info", &buf)

	var seen string
	h := RequestLogging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = logger.CorrelationIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", nil)
	req.Header.Set("X-Correlation-ID", "edge-req-4711")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, "edge-req-4711", seen)
	assert.Equal(t, "edge-req-4711", rec.Header().Get("X-Correlation-ID"))
	assert.Equal(t, "edge-req-4711", lastLogLine(t, &buf)["correlation_id"])
}

func TestRequestLogging_RecordsErrorStatusAndBytes(t *testing.T) {
	var buf bytes.Buffer
	l := logger.NewWithWriter("storefront", "info", &buf)

	h := RequestLogging(l)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":{"code":"NOT_FOUND"}}`))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products/gone-slug", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogLine(t, &buf)
	assert.Equal(t, float64(http.StatusNotFound), entry["status"])
	assert.Equal(t, float64(len(`{"error":{"code":"NOT_FOUND"}}`)), entry["bytes"])
}

func TestRequestLogger_ContextLoggerCarriesIdentity(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("storefront", "info", &buf)

	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).InfoContext(r.Context(), "adding item to cart")
	}))

	req := httptest.NewRequest(http.MethodPost, "/api/cart/items", nil)
	req.Header.Set("X-User-ID", "user-1")
	ctx := logger.WithCorrelationID(req.Context(), "edge-req-9")
	h.ServeHTTP(httptest.NewRecorder(), req.WithContext(ctx))

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "adding item to cart", entry["msg"])
	assert.Equal(t, "user-1", entry["user_id"])
	assert.Equal(t, "edge-req-9", entry["correlation_id"])
}

func TestRequestLogger_AnonymousRequestHasNoUserField(t *testing.T) {
	var buf bytes.Buffer
	base := logger.NewWithWriter("storefront", "info", &buf)

	h := RequestLogger(base)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		logger.FromContext(r.Context()).InfoContext(r.Context(), "listing products")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/products", nil)
	h.ServeHTTP(httptest.NewRecorder(), req)

	entry := lastLogLine(t, &buf)
	assert.Equal(t, "listing products", entry["msg"])
	assert.NotContains(t, entry, "user_id")
}
