package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tofucode-dev/tofu-store/internal/domain"
	"github.com/tofucode-dev/tofu-store/internal/engine/memory"
	"github.com/tofucode-dev/tofu-store/internal/event"
	"github.com/tofucode-dev/tofu-store/internal/repository"
	"github.com/tofucode-dev/tofu-store/internal/routing"
	"github.com/tofucode-dev/tofu-store/internal/service"
	"github.com/tofucode-dev/tofu-store/pkg/health"
	pkgkafka "github.com/tofucode-dev/tofu-store/pkg/kafka"
)

// ============================================================================
// Mock repositories
// ============================================================================

type mockCartRepository struct {
	mock.Mock
}

func (m *mockCartRepository) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Cart), args.Error(1)
}

func (m *mockCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	args := m.Called(ctx, cart)
	return args.Error(0)
}

func (m *mockCartRepository) Delete(ctx context.Context, userID string) error {
	args := m.Called(ctx, userID)
	return args.Error(0)
}

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

// ============================================================================
// Test environment
// ============================================================================

type testEnv struct {
	router    http.Handler
	cartRepo  *mockCartRepository
	orderRepo *mockOrderRepository
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	return event.NewProducer(pkgkafka.NewProducer(kafkaCfg, logger), logger)
}

// newTestEnv wires the full production router against an in-memory engine
// and mocked repositories. Event publishing targets an unreachable broker;
// the services log and carry on, matching a broker outage in production.
func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	eng := memory.New()
	err := eng.BulkIndex(context.Background(), []domain.Product{
		{
			ObjectID: "tv1", Name: "Samsung 55 inch 4K TV", Brand: "Samsung",
			Price: 599.99, Rating: 4, Popularity: 90,
			HierarchicalCategories: &domain.HierarchicalCategories{
				Lvl0: "TV & Home Theater",
				Lvl1: "TV & Home Theater > TVs",
			},
		},
		{
			ObjectID: "ac1", Name: "Frigidaire Window Air Conditioner", Brand: "Frigidaire",
			Price: 279.99, Rating: 4, Popularity: 60,
			HierarchicalCategories: &domain.HierarchicalCategories{
				Lvl0: "Appliances",
				Lvl1: "Appliances > Air Conditioners",
			},
		},
	})
	require.NoError(t, err)

	logger := testLogger()
	producer := testEventProducer()
	mapper := routing.NewMapper(routing.DefaultTable())

	cartRepo := new(mockCartRepository)
	orderRepo := new(mockOrderRepository)

	catalogService := service.NewCatalogService(eng, mapper, "https://example.com", logger)
	cartService := service.NewCartService(cartRepo, producer, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, producer, logger)
	analyticsService := service.NewAnalyticsService(producer, logger)

	router := NewRouter(
		catalogService, cartService, checkoutService, analyticsService,
		health.NewHandler(), logger, nil,
	)

	return &testEnv{
		router:    router,
		cartRepo:  cartRepo,
		orderRepo: orderRepo,
	}
}

func (e *testEnv) do(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decodeData unmarshals the "data" part of the response envelope into dst.
func decodeData(t *testing.T, body io.Reader, dst any) {
	t.Helper()
	var envelope struct {
		Data json.RawMessage `json:"data"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	require.NoError(t, json.Unmarshal(envelope.Data, dst))
}

// decodeError unmarshals the "error" part of the response envelope.
func decodeError(t *testing.T, body io.Reader) (code, message string) {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.NewDecoder(body).Decode(&envelope))
	return envelope.Error.Code, envelope.Error.Message
}
