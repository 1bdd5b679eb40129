package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/tofucode-dev/tofu-store/internal/config"
	"github.com/tofucode-dev/tofu-store/internal/engine"
	"github.com/tofucode-dev/tofu-store/internal/engine/memory"
	"github.com/tofucode-dev/tofu-store/internal/engine/remote"
	"github.com/tofucode-dev/tofu-store/internal/event"
	handler "github.com/tofucode-dev/tofu-store/internal/handler/http"
	"github.com/tofucode-dev/tofu-store/internal/repository/postgres"
	"github.com/tofucode-dev/tofu-store/internal/repository/postgres/migrations"
	redisrepo "github.com/tofucode-dev/tofu-store/internal/repository/redis"
	"github.com/tofucode-dev/tofu-store/internal/routing"
	"github.com/tofucode-dev/tofu-store/internal/service"
	"github.com/tofucode-dev/tofu-store/pkg/database"
	"github.com/tofucode-dev/tofu-store/pkg/health"
	"github.com/tofucode-dev/tofu-store/pkg/httpclient"
	pkgkafka "github.com/tofucode-dev/tofu-store/pkg/kafka"
	"github.com/tofucode-dev/tofu-store/pkg/tracing"
)

// App wires together all dependencies and runs the storefront service.
type App struct {
	cfg            *config.Config
	logger         *slog.Logger
	pool           *pgxpool.Pool
	rdb            *redis.Client
	producer       *pkgkafka.Producer
	httpServer     *http.Server
	tracerShutdown func(context.Context) error
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(cfg *config.Config, logger *slog.Logger) (*App, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Initialize OpenTelemetry tracing.
	tracerShutdown, err := tracing.InitTracer(ctx, tracing.Config{
		ServiceName:    "storefront",
		ServiceVersion: "0.1.0",
		Environment:    cfg.Environment,
		OTLPEndpoint:   cfg.OTELEndpoint,
		SampleRate:     cfg.OTELSampleRate,
		Enabled:        cfg.OTELEnabled,
	})
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	// Initialize PostgreSQL connection pool.
	pgCfg := database.PostgresConfig{
		Host:            cfg.PostgresHost,
		Port:            cfg.PostgresPort,
		User:            cfg.PostgresUser,
		Password:        cfg.PostgresPass,
		DBName:          cfg.PostgresDB,
		SSLMode:         cfg.PostgresSSL,
		MaxConns:        cfg.DBMaxConns,
		MinConns:        cfg.DBMinConns,
		MaxConnLifetime: time.Duration(cfg.DBMaxConnLifetimeMins) * time.Minute,
		MaxConnIdleTime: time.Duration(cfg.DBMaxConnIdleTimeMins) * time.Minute,
	}

	pool, err := database.NewPostgresPool(ctx, &pgCfg, logger)
	if err != nil {
		return nil, fmt.Errorf("connect to postgres: %w", err)
	}
	logger.Info("connected to PostgreSQL",
		slog.String("host", cfg.PostgresHost),
		slog.Int("port", cfg.PostgresPort),
		slog.String("database", cfg.PostgresDB),
	)
	database.RegisterPoolMetrics(pool, "storefront")

	// Run database migrations.
	if err := database.RunMigrations(ctx, pool, migrations.Files, logger); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	logger.Info("database migrations completed")

	// Configure slow query logging.
	if cfg.SlowQueryThresholdMs > 0 {
		database.SetSlowQueryLogging(time.Duration(cfg.SlowQueryThresholdMs)*time.Millisecond, logger)
	}

	// Initialize Redis client.
	rdb, err := database.NewRedisClient(ctx, database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPass,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("connect to redis: %w", err)
	}
	logger.Info("connected to Redis",
		slog.String("addr", cfg.RedisAddr),
		slog.Int("db", cfg.RedisDB),
	)

	// Initialize Kafka producer.
	kafkaCfg := pkgkafka.DefaultProducerConfig(cfg.KafkaBrokers)
	producer := pkgkafka.NewProducer(kafkaCfg, logger)
	logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))

	// Search engine backend.
	searchEngine, err := buildSearchEngine(ctx, cfg, logger)
	if err != nil {
		pool.Close()
		return nil, err
	}

	// Category slug table.
	table := routing.DefaultTable()
	if cfg.SlugTablePath != "" {
		table, err = routing.LoadTableFile(cfg.SlugTablePath)
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("load slug table: %w", err)
		}
		logger.Info("loaded slug table override",
			slog.String("path", cfg.SlugTablePath),
			slog.Int("entries", table.Size()),
		)
	}
	mapper := routing.NewMapper(table)

	// Build the dependency graph.
	cartTTL := time.Duration(cfg.CartTTL) * time.Hour
	cartRepo := redisrepo.NewCartRepository(rdb, cartTTL)
	orderRepo := postgres.NewOrderRepository(pool)
	eventProducer := event.NewProducer(producer, logger)

	catalogService := service.NewCatalogService(searchEngine, mapper, cfg.PublicBaseURL, logger)
	cartService := service.NewCartService(cartRepo, eventProducer, logger)
	checkoutService := service.NewCheckoutService(orderRepo, cartRepo, eventProducer, logger)
	analyticsService := service.NewAnalyticsService(eventProducer, logger)

	// Health checks.
	healthHandler := health.NewHandler()
	healthHandler.Register("postgres", func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})

	// HTTP router.
	router := handler.NewRouter(
		catalogService, cartService, checkoutService, analyticsService,
		healthHandler, logger, cfg.PprofAllowedCIDRs,
	)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      15 * time.Second,
		IdleTimeout:       60 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         logger,
		pool:           pool,
		rdb:            rdb,
		producer:       producer,
		httpServer:     httpServer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// buildSearchEngine creates the configured search backend. The memory engine
// optionally seeds itself from a catalog file; the remote engine wraps the
// hosted search API behind a circuit breaker.
func buildSearchEngine(ctx context.Context, cfg *config.Config, logger *slog.Logger) (engine.SearchEngine, error) {
	switch cfg.SearchEngine {
	case config.EngineRemote:
		baseClient := httpclient.New(httpclient.Config{
			Timeout:         10 * time.Second,
			MaxRetries:      3,
			RetryWaitMin:    500 * time.Millisecond,
			RetryWaitMax:    5 * time.Second,
			MaxConnsPerHost: 100,
		})

		cbCfg := httpclient.CircuitBreakerConfig{
			Name:         "storefront-search",
			MaxRequests:  cfg.CBMaxRequests,
			Interval:     time.Duration(cfg.CBInterval) * time.Second,
			Timeout:      time.Duration(cfg.CBTimeout) * time.Second,
			FailureRatio: cfg.CBFailureRatio,
			MinRequests:  cfg.CBMinRequests,
		}
		cbClient := httpclient.NewCircuitBreakerClient(baseClient, cbCfg, logger)
		logger.Info("remote search engine initialized",
			slog.String("base_url", cfg.SearchBaseURL),
			slog.String("index", cfg.SearchIndex),
		)

		return remote.New(remote.Config{
			BaseURL:   cfg.SearchBaseURL,
			AppID:     cfg.SearchAppID,
			APIKey:    cfg.SearchAPIKey,
			IndexName: cfg.SearchIndex,
		}, cbClient, logger), nil

	default:
		eng := memory.New()
		if cfg.CatalogPath != "" {
			data, err := os.ReadFile(cfg.CatalogPath)
			if err != nil {
				return nil, fmt.Errorf("read catalog file: %w", err)
			}
			count, err := eng.LoadCatalog(ctx, data)
			if err != nil {
				return nil, fmt.Errorf("load catalog: %w", err)
			}
			logger.Info("memory search engine seeded",
				slog.String("path", cfg.CatalogPath),
				slog.Int("products", count),
			)
		} else {
			logger.Warn("memory search engine started with an empty index, set CATALOG_PATH to seed it")
		}
		return eng, nil
	}
}

// Run starts the HTTP server and blocks until the context is canceled.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		a.logger.Info("starting HTTP server",
			slog.String("addr", a.httpServer.Addr),
		)
		if err := a.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	return a.Shutdown()
}

// Shutdown gracefully stops all components in the correct order:
// 1. HTTP server (drain in-flight requests)
// 2. Tracer (flush pending spans from drained requests)
// 3. Kafka producer
// 4. Redis client and PostgreSQL pool
func (a *App) Shutdown() error {
	a.logger.Info("shutting down application...")

	var errs []error

	httpCtx, httpCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer httpCancel()
	if err := a.httpServer.Shutdown(httpCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if a.tracerShutdown != nil {
		tracerCtx, tracerCancel := context.WithTimeout(context.Background(), 3*time.Second)
		defer tracerCancel()
		if err := a.tracerShutdown(tracerCtx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
			errs = append(errs, err)
		}
	}

	if err := a.producer.Close(); err != nil {
		a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	if err := a.rdb.Close(); err != nil {
		a.logger.Error("redis close error", slog.String("error", err.Error()))
		errs = append(errs, err)
	}

	a.pool.Close()

	a.logger.Info("application shutdown complete")
	return errors.Join(errs...)
}
