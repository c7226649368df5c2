package config

import (
	"fmt"
	"net/url"
	"time"

	pkgconfig "github.com/utafrali/RestaurantGo/pkg/config"
)

// Storage drivers.
const (
	StorageMemory = "memory"
	StorageRedis  = "redis"
	StorageSQLite = "sqlite"
)

// Config holds all configuration for the restaurant client companion.
type Config struct {
	Environment string `env:"ENVIRONMENT" envDefault:"development"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// Local companion API
	HTTPHost string `env:"COMPANION_HTTP_HOST" envDefault:"127.0.0.1"`
	HTTPPort int    `env:"COMPANION_HTTP_PORT" envDefault:"8090"`

	// Local API rate limiting (requests per second per client IP)
	RateLimitRPS   float64 `env:"COMPANION_RATE_LIMIT_RPS" envDefault:"50"`
	RateLimitBurst int     `env:"COMPANION_RATE_LIMIT_BURST" envDefault:"100"`

	// Restaurant backend
	APIBaseURL      string        `env:"API_BASE_URL" envDefault:"http://localhost:3000"`
	APITimeout      time.Duration `env:"API_TIMEOUT" envDefault:"10s"`
	APIMaxRetries   int           `env:"API_MAX_RETRIES" envDefault:"2"`
	APIRetryWaitMin time.Duration `env:"API_RETRY_WAIT_MIN" envDefault:"500ms"`
	APIRetryWaitMax time.Duration `env:"API_RETRY_WAIT_MAX" envDefault:"3s"`
	APIRateLimitRPS float64       `env:"API_RATE_LIMIT_RPS" envDefault:"10"`
	APIRateBurst    int           `env:"API_RATE_LIMIT_BURST" envDefault:"5"`

	// Circuit breaker settings for backend calls
	CBMaxRequests  uint32  `env:"CB_MAX_REQUESTS" envDefault:"1"`
	CBInterval     int     `env:"CB_INTERVAL_SECONDS" envDefault:"60"`
	CBTimeout      int     `env:"CB_TIMEOUT_SECONDS" envDefault:"15"`
	CBFailureRatio float64 `env:"CB_FAILURE_RATIO" envDefault:"0.6"`
	CBMinRequests  uint32  `env:"CB_MIN_REQUESTS" envDefault:"5"`

	// Device storage
	StorageDriver string `env:"STORAGE_DRIVER" envDefault:"sqlite"`
	SQLitePath    string `env:"SQLITE_PATH" envDefault:"restaurant.db"`
	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword string `env:"REDIS_PASSWORD" envDefault:""`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0"`
	DeviceID      string `env:"DEVICE_ID" envDefault:"default"`

	// Language
	DeviceLocale string `env:"DEVICE_LOCALE"`

	// Delivery tracking
	TrackingPollInterval time.Duration `env:"TRACKING_POLL_INTERVAL" envDefault:"60s"`

	// Kafka analytics. Disabled when no brokers are configured.
	KafkaBrokers    []string `env:"KAFKA_BROKERS" envSeparator:","`
	AnalyticsTopic  string   `env:"ANALYTICS_TOPIC" envDefault:"restaurant.analytics"`
	AnalyticsSource string   `env:"ANALYTICS_SOURCE" envDefault:"restaurant-client"`

	// OpenTelemetry
	OTELEnabled    bool    `env:"OTEL_ENABLED" envDefault:"false"`
	OTELEndpoint   string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT" envDefault:"localhost:4318"`
	OTELSampleRate float64 `env:"OTEL_SAMPLE_RATE" envDefault:"1.0"`

	// Local origins allowed to call the companion API.
	CORSAllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envDefault:"http://localhost:8081,http://localhost:19006" envSeparator:","`
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := pkgconfig.Load(cfg, ".env"); err != nil {
		return nil, fmt.Errorf("load companion config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// validate checks configuration invariants.
func (c *Config) validate() error {
	if c.HTTPPort < 1 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTPPort)
	}
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if _, err := url.ParseRequestURI(c.APIBaseURL); err != nil {
		return fmt.Errorf("invalid API_BASE_URL %q: %w", c.APIBaseURL, err)
	}
	if c.APITimeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive, got %s", c.APITimeout)
	}
	if c.APIMaxRetries < 0 {
		return fmt.Errorf("API_MAX_RETRIES must not be negative, got %d", c.APIMaxRetries)
	}
	if c.APIRetryWaitMin > c.APIRetryWaitMax {
		return fmt.Errorf("API_RETRY_WAIT_MIN (%s) exceeds API_RETRY_WAIT_MAX (%s)", c.APIRetryWaitMin, c.APIRetryWaitMax)
	}
	switch c.StorageDriver {
	case StorageMemory, StorageSQLite:
	case StorageRedis:
		if c.RedisHost == "" {
			return fmt.Errorf("REDIS_HOST is required for the redis storage driver")
		}
	default:
		return fmt.Errorf("unknown STORAGE_DRIVER %q", c.StorageDriver)
	}
	if c.TrackingPollInterval < time.Second {
		return fmt.Errorf("TRACKING_POLL_INTERVAL must be at least 1s, got %s", c.TrackingPollInterval)
	}
	if c.OTELSampleRate < 0 || c.OTELSampleRate > 1.0 {
		return fmt.Errorf("OTEL_SAMPLE_RATE must be between 0.0 and 1.0, got %f", c.OTELSampleRate)
	}
	return nil
}

// HTTPAddr returns the listen address of the companion API.
func (c *Config) HTTPAddr() string {
	return fmt.Sprintf("%s:%d", c.HTTPHost, c.HTTPPort)
}

// AnalyticsEnabled reports whether analytics events are shipped to Kafka.
func (c *Config) AnalyticsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}
