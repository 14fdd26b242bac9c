package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	Server    ServerConfig
	App       AppConfig
	Upstream  UpstreamConfig
	Checkout  CheckoutConfig
	Session   SessionConfig
	Cache     CacheConfig
	Journal   JournalConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `envconfig:"SERVER_HOST" default:"0.0.0.0"`
	Port            int           `envconfig:"SERVER_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"SERVER_READ_TIMEOUT" default:"15s"`
	WriteTimeout    time.Duration `envconfig:"SERVER_WRITE_TIMEOUT" default:"60s"`
	ShutdownTimeout time.Duration `envconfig:"SERVER_SHUTDOWN_TIMEOUT" default:"30s"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"http://localhost:4200"`
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name        string `envconfig:"APP_NAME" default:"smartmedishop-storefront"`
	Environment string `envconfig:"APP_ENV" default:"development"`
	Debug       bool   `envconfig:"APP_DEBUG" default:"false"`
	Version     string `envconfig:"APP_VERSION" default:"1.0.0"`
}

// UpstreamConfig points at the SmartMediShop REST API.
type UpstreamConfig struct {
	BaseURL string        `envconfig:"API_BASE_URL" default:"http://localhost:8080/api"`
	Timeout time.Duration `envconfig:"API_TIMEOUT" default:"15s"`
	// MaxConcurrency bounds concurrent calls of one validation or stock join.
	MaxConcurrency int  `envconfig:"API_MAX_CONCURRENCY" default:"8"`
	Tracing        bool `envconfig:"API_TRACING" default:"false"`
}

// CheckoutConfig holds checkout policy.
type CheckoutConfig struct {
	TaxRate         float64 `envconfig:"CHECKOUT_TAX_RATE" default:"0.2"`
	MerchantName    string  `envconfig:"CHECKOUT_MERCHANT_NAME" default:"SmartMediShop"`
	PaymentMethod   string  `envconfig:"CHECKOUT_PAYMENT_METHOD" default:"CARD"`
	TransactionType string  `envconfig:"CHECKOUT_TRANSACTION_TYPE" default:"PURCHASE"`
}

// SessionConfig holds browser session settings.
type SessionConfig struct {
	CookieName   string        `envconfig:"SESSION_COOKIE" default:"smartmedishop_sid"`
	CookieSecure bool          `envconfig:"SESSION_COOKIE_SECURE" default:"false"`
	TTL          time.Duration `envconfig:"SESSION_TTL" default:"168h"`
	IdleTimeout  time.Duration `envconfig:"SESSION_IDLE_TIMEOUT" default:"30m"`
	SweepEvery   time.Duration `envconfig:"SESSION_SWEEP_INTERVAL" default:"5m"`
}

// CacheConfig holds cache settings.
type CacheConfig struct {
	Type       string        `envconfig:"CACHE_TYPE" default:"memory"` // memory or redis
	CatalogTTL time.Duration `envconfig:"CATALOG_TTL" default:"30s"`

	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`
	RedisPrefix   string `envconfig:"REDIS_PREFIX" default:"smartmedishop"`
}

// JournalConfig holds checkout journal settings.
type JournalConfig struct {
	Type      string        `envconfig:"JOURNAL_TYPE" default:"sqlite"` // sqlite, mysql, postgres, mongodb or none
	Retention time.Duration `envconfig:"JOURNAL_RETENTION" default:"720h"`
	Path      string        `envconfig:"JOURNAL_DB_PATH" default:"./data/checkouts.db"`

	Host     string `envconfig:"JOURNAL_DB_HOST" default:"localhost"`
	Port     int    `envconfig:"JOURNAL_DB_PORT" default:"0"`
	Name     string `envconfig:"JOURNAL_DB_NAME" default:"smartmedishop"`
	User     string `envconfig:"JOURNAL_DB_USER" default:"storefront"`
	Password string `envconfig:"JOURNAL_DB_PASS" default:""`
	SSLMode  string `envconfig:"JOURNAL_DB_SSLMODE" default:"disable"`

	MongoURI        string `envconfig:"MONGODB_URI" default:""`
	MongoDatabase   string `envconfig:"MONGODB_DATABASE" default:"smartmedishop"`
	MongoCollection string `envconfig:"MONGODB_COLLECTION" default:"checkouts"`
}

// RateLimitConfig throttles login and registration per client IP.
type RateLimitConfig struct {
	Enabled bool    `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	RPS     float64 `envconfig:"RATE_LIMIT_RPS" default:"1"`
	Burst   int     `envconfig:"RATE_LIMIT_BURST" default:"5"`
}

// Address returns the server address in host:port format.
func (s *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// RedisAddress returns the Redis address in host:port format.
func (c *CacheConfig) RedisAddress() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// MySQLDSN returns the MySQL data source name.
func (j *JournalConfig) MySQLDSN() string {
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?parseTime=true",
		j.User, j.Password, j.Host, j.port(3306), j.Name)
}

// PostgresDSN returns the PostgreSQL connection string.
func (j *JournalConfig) PostgresDSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		j.User, j.Password, j.Host, j.port(5432), j.Name, j.SSLMode)
}

func (j *JournalConfig) port(def int) int {
	if j.Port == 0 {
		return def
	}
	return j.Port
}

// IsDevelopment returns true if running in development mode.
func (a *AppConfig) IsDevelopment() bool {
	return a.Environment == "development"
}

// IsProduction returns true if running in production mode.
func (a *AppConfig) IsProduction() bool {
	return a.Environment == "production"
}

// Validate rejects settings the storefront cannot run with.
func (c *Config) Validate() error {
	if c.Upstream.BaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	if c.Checkout.TaxRate < 0 {
		return fmt.Errorf("CHECKOUT_TAX_RATE must not be negative")
	}
	switch c.Cache.Type {
	case "memory", "redis":
	default:
		return fmt.Errorf("unsupported CACHE_TYPE %q", c.Cache.Type)
	}
	switch c.Journal.Type {
	case "sqlite", "mysql", "postgres", "mongodb", "none":
	default:
		return fmt.Errorf("unsupported JOURNAL_TYPE %q", c.Journal.Type)
	}
	if c.Journal.Type == "mongodb" && c.Journal.MongoURI == "" {
		return fmt.Errorf("MONGODB_URI is required when JOURNAL_TYPE=mongodb")
	}
	return nil
}

// Load reads configuration from environment variables, after loading a .env
// file when one exists.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &cfg, nil
}

// MustLoad loads configuration or panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(err)
	}
	return cfg
}
