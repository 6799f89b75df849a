// Package pagination normalizes limit/offset windows for list endpoints.
package pagination

import (
	"fmt"

	"typoteka/pkg/config"
)

// Config holds pagination configuration settings.
type Config struct {
	DefaultLimit int `yaml:"default_limit"`
	MaxLimit     int `yaml:"max_limit"`
}

// DefaultConfig returns limit=8, max=100.
func DefaultConfig() Config {
	return Config{
		DefaultLimit: 8,
		MaxLimit:     100,
	}
}

// LoadFromEnv reads PAGINATION_DEFAULT_LIMIT and PAGINATION_MAX_LIMIT on top
// of base.
func LoadFromEnv(base Config) Config {
	return Config{
		DefaultLimit: config.GetEnvInt("PAGINATION_DEFAULT_LIMIT", base.DefaultLimit),
		MaxLimit:     config.GetEnvInt("PAGINATION_MAX_LIMIT", base.MaxLimit),
	}
}

// Validate rejects configurations where the default exceeds the maximum.
func (c Config) Validate() error {
	if c.DefaultLimit < 1 {
		return fmt.Errorf("default_limit must be positive, got %d", c.DefaultLimit)
	}
	if c.MaxLimit < c.DefaultLimit {
		return fmt.Errorf("max_limit (%d) must not be below default_limit (%d)", c.MaxLimit, c.DefaultLimit)
	}
	return nil
}
