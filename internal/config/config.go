package config

import (
	"fmt"

	pkgconfig "github.com/tofucode-dev/tofu-store/pkg/config"
)

// Search engine backend selectors.
const (
	EngineMemory = "memory"
	EngineRemote = "remote"
)

// Config holds all configuration for the storefront service.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// HTTP server
	HTTPPort int `env:"STOREFRONT_HTTP_PORT" envDefault:"8080"`

	// Public origin used for canonical URLs and the sitemap.
	PublicBaseURL string `env:"PUBLIC_BASE_URL" envDefault:"http://localhost:8080"`

	// Search engine backend: "memory" serves from an in-process index,
	// "remote" talks to the hosted search API.
	SearchEngine string `env:"SEARCH_ENGINE" envDefault:"memory"`

	// Hosted search API (required when SEARCH_ENGINE=remote).
	SearchBaseURL string `env:"SEARCH_BASE_URL" envDefault:"https://api.search.example.com"`
	SearchAppID   string `env:"SEARCH_APP_ID"`
	SearchAPIKey  string `env:"SEARCH_API_KEY"`
	SearchIndex   string `env:"SEARCH_INDEX" envDefault:"instant_search"`

	// Optional catalog seed file for the memory engine.
	CatalogPath string `env:"CATALOG_PATH"`

	// Optional category slug table override. Empty means the embedded table.
	SlugTablePath string `env:"SLUG_TABLE_PATH"`

	// PostgreSQL
	PostgresHost string `env:"POSTGRES_HOST" envDefault:"localhost"`
	PostgresPort int    `env:"POSTGRES_PORT" envDefault:"5432"`
	PostgresUser string `env:"POSTGRES_USER" envDefault:"tofustore"`
	PostgresPass string `env:"POSTGRES_PASSWORD" envDefault:"tofustore_secret"`
	PostgresDB   string `env:"STOREFRONT_DB_NAME" envDefault:"storefront_db"`
	PostgresSSL  string `env:"POSTGRES_SSL_MODE" envDefault:"disable"`

	// Database pool
	DBMaxConns            int32 `env:"DB_MAX_CONNS" envDefault:"25"`
	DBMinConns            int32 `env:"DB_MIN_CONNS" envDefault:"5"`
	DBMaxConnLifetimeMins int   `env:"DB_MAX_CONN_LIFETIME_MINUTES" envDefault:"60"`
	DBMaxConnIdleTimeMins int   `env:"DB_MAX_CONN_IDLE_TIME_MINUTES" envDefault:"30"`

	// Redis
	RedisAddr string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPass string `env:"REDIS_PASSWORD"`
	RedisDB   int    `env:"REDIS_DB" envDefault:"0"`

	// Cart TTL in hours.
	CartTTL int `env:"CART_TTL_HOURS" envDefault:"168"`

	// Kafka
	KafkaBrokers []string `env:"KAFKA_BROKERS" envDefault:"localhost:9092" envSeparator:","`

	// Circuit breaker for the hosted search client.
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"5"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"30"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.6"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"10"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Pprof debug endpoints (IP allowlist in CIDR notation)
	PprofAllowedCIDRs []string `env:"PPROF_ALLOWED_CIDRS" envDefault:"10.0.0.0/8,172.16.0.0/12,192.168.0.0/16,127.0.0.0/8,::1/128" envSeparator:","`

	// Slow query logging
	SlowQueryThresholdMs int `env:"LOG_SLOW_QUERY_MS" envDefault:"500"`
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg); err != nil {
		return nil, fmt.Errorf("load storefront config: %w", err)
	}
	if cfg.HTTPPort < 1 || cfg.HTTPPort > 65535 {
		return nil, fmt.Errorf("invalid HTTP port: %d", cfg.HTTPPort)
	}
	if cfg.PublicBaseURL == "" {
		return nil, fmt.Errorf("PUBLIC_BASE_URL is required")
	}
	if cfg.SearchEngine != EngineMemory && cfg.SearchEngine != EngineRemote {
		return nil, fmt.Errorf("SEARCH_ENGINE must be %q or %q, got %q", EngineMemory, EngineRemote, cfg.SearchEngine)
	}
	if cfg.SearchEngine == EngineRemote {
		if cfg.SearchAppID == "" {
			return nil, fmt.Errorf("SEARCH_APP_ID is required when SEARCH_ENGINE=remote")
		}
		if cfg.SearchAPIKey == "" {
			return nil, fmt.Errorf("SEARCH_API_KEY is required when SEARCH_ENGINE=remote")
		}
	}
	if cfg.PostgresHost == "" {
		return nil, fmt.Errorf("POSTGRES_HOST is required")
	}
	if cfg.PostgresUser == "" {
		return nil, fmt.Errorf("POSTGRES_USER is required")
	}
	if len(cfg.KafkaBrokers) == 0 {
		return nil, fmt.Errorf("KAFKA_BROKERS is required")
	}
	if cfg.CartTTL < 1 {
		return nil, fmt.Errorf("CART_TTL_HOURS must be at least 1, got %d", cfg.CartTTL)
	}
	if cfg.OTELSampleRate < 0 || cfg.OTELSampleRate > 1.0 {
		return nil, fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", cfg.OTELSampleRate)
	}
	return cfg, nil
}
