// Package config assembles the API configuration: built-in defaults, then an
// optional YAML file named by CONFIG_FILE, then environment variables.
// The result is validated once at startup.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"typoteka/internal/common/pagination"
	"typoteka/internal/handler/http/middleware"
	"typoteka/internal/infra/db"
	"typoteka/internal/infra/flash"
	"typoteka/internal/pkg/search"
	"typoteka/internal/service/auth"
	"typoteka/internal/usecase/guard"
	envconfig "typoteka/pkg/config"
)

// Storage drivers.
const (
	DriverPostgres = "postgres"
	DriverMemory   = "memory"
)

// StorageConfig selects the persistence adapter.
type StorageConfig struct {
	Driver      string `yaml:"driver"`
	DatabaseURL string `yaml:"-"`
	// Seed inserts the default categories into an empty in-memory store.
	Seed bool                `yaml:"seed"`
	Pool db.ConnectionConfig `yaml:"-"`
}

// TokenConfig configures access tokens. The secret only comes from the
// environment.
type TokenConfig struct {
	Secret string        `yaml:"-"`
	TTL    time.Duration `yaml:"ttl"`
	Issuer string        `yaml:"issuer"`
}

// Config is the complete API configuration.
type Config struct {
	HTTPAddr       string        `yaml:"http_addr"`
	LogLevel       string        `yaml:"log_level"`
	Version        string        `yaml:"-"`
	RequestTimeout time.Duration `yaml:"request_timeout"`
	SearchTimeout  time.Duration `yaml:"search_timeout"`
	Tracing        bool          `yaml:"tracing"`

	Storage StorageConfig `yaml:"storage"`
	// RedisURL selects the Redis flash store; empty keeps flashes in memory.
	RedisURL string        `yaml:"-"`
	FlashTTL time.Duration `yaml:"flash_ttl"`

	Token          TokenConfig                `yaml:"token"`
	Validation     guard.Rules                `yaml:"validation"`
	Pagination     pagination.Config          `yaml:"pagination"`
	CORS           middleware.CORSConfig      `yaml:"cors"`
	TrustedProxies []string                   `yaml:"trusted_proxies"`
	LoginRateLimit middleware.RateLimitConfig `yaml:"login_rate_limit"`
}

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		HTTPAddr:       ":3000",
		LogLevel:       "info",
		Version:        "dev",
		RequestTimeout: 10 * time.Second,
		SearchTimeout:  search.DefaultSearchTimeout,
		Storage: StorageConfig{
			Driver: DriverPostgres,
			Seed:   true,
			Pool:   db.DefaultConnectionConfig(),
		},
		FlashTTL:       flash.DefaultTTL,
		Token:          TokenConfig{TTL: auth.DefaultTTL, Issuer: auth.DefaultIssuer},
		Validation:     guard.DefaultRules(),
		Pagination:     pagination.DefaultConfig(),
		CORS:           middleware.DefaultCORSConfig(),
		LoginRateLimit: middleware.DefaultLoginRateLimit(),
	}
}

// Load builds the configuration and validates it.
func Load() (Config, error) {
	cfg := Default()
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	cfg.applyEnv()
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// mergeFile decodes the YAML file at path over cfg; keys absent from the
// file keep their current value.
func (c *Config) mergeFile(path string) error {
	// #nosec G304 -- path comes from the operator's environment
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = envconfig.GetEnvString("HTTP_ADDR", c.HTTPAddr)
	c.LogLevel = envconfig.GetEnvString("LOG_LEVEL", c.LogLevel)
	c.Version = envconfig.GetEnvString("VERSION", c.Version)
	c.RequestTimeout = envconfig.GetEnvDuration("REQUEST_TIMEOUT", c.RequestTimeout)
	c.SearchTimeout = envconfig.GetEnvDuration("SEARCH_TIMEOUT", c.SearchTimeout)
	c.Tracing = envconfig.GetEnvBool("OTEL_ENABLED", c.Tracing)

	c.Storage.Driver = strings.ToLower(envconfig.GetEnvString("STORAGE_DRIVER", c.Storage.Driver))
	c.Storage.DatabaseURL = envconfig.GetEnvString("DATABASE_URL", c.Storage.DatabaseURL)
	c.Storage.Seed = envconfig.GetEnvBool("STORAGE_SEED", c.Storage.Seed)
	c.Storage.Pool = db.ConnectionConfigFromEnv()

	c.RedisURL = envconfig.GetEnvString("REDIS_URL", c.RedisURL)
	c.FlashTTL = envconfig.GetEnvDuration("FLASH_TTL", c.FlashTTL)

	c.Token.Secret = envconfig.GetEnvString("JWT_SECRET", c.Token.Secret)
	c.Token.TTL = envconfig.GetEnvDuration("JWT_TTL", c.Token.TTL)

	c.Pagination = pagination.LoadFromEnv(c.Pagination)

	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		c.CORS.AllowedOrigins = splitList(origins)
	}
	if proxies := os.Getenv("TRUSTED_PROXIES"); proxies != "" {
		c.TrustedProxies = splitList(proxies)
	}
	c.LoginRateLimit.PerMinute = envconfig.GetEnvFloat("LOGIN_RATE_LIMIT", c.LoginRateLimit.PerMinute)
	c.LoginRateLimit.Burst = envconfig.GetEnvInt("LOGIN_RATE_BURST", c.LoginRateLimit.Burst)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Validate reports every problem found, joined.
func (c Config) Validate() error {
	var errs []error

	switch c.Storage.Driver {
	case DriverPostgres:
		if c.Storage.DatabaseURL == "" {
			errs = append(errs, errors.New("DATABASE_URL is required for the postgres driver"))
		}
	case DriverMemory:
	default:
		errs = append(errs, fmt.Errorf("unknown storage driver %q", c.Storage.Driver))
	}

	if err := auth.ValidateSecret(c.Token.Secret); err != nil {
		errs = append(errs, err)
	}
	if err := envconfig.ValidatePositiveDuration(c.Token.TTL); err != nil {
		errs = append(errs, fmt.Errorf("token ttl: %w", err))
	}
	if err := envconfig.ValidatePositiveDuration(c.FlashTTL); err != nil {
		errs = append(errs, fmt.Errorf("flash ttl: %w", err))
	}
	if err := envconfig.ValidateDurationRange(c.RequestTimeout, 100*time.Millisecond, 5*time.Minute); err != nil {
		errs = append(errs, fmt.Errorf("request timeout: %w", err))
	}
	if err := envconfig.ValidatePositiveDuration(c.SearchTimeout); err != nil {
		errs = append(errs, fmt.Errorf("search timeout: %w", err))
	}
	if err := c.Validation.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("validation rules: %w", err))
	}
	if err := c.Pagination.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("pagination: %w", err))
	}
	if err := c.CORS.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("cors: %w", err))
	}
	if _, err := middleware.ParseTrustedProxies(c.TrustedProxies); err != nil {
		errs = append(errs, fmt.Errorf("trusted proxies: %w", err))
	}
	if c.LoginRateLimit.PerMinute <= 0 || c.LoginRateLimit.Burst <= 0 {
		errs = append(errs, fmt.Errorf("login rate limit must be positive, got %v/min burst %d",
			c.LoginRateLimit.PerMinute, c.LoginRateLimit.Burst))
	}
	return errors.Join(errs...)
}
