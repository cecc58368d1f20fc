package config

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config is the process configuration read from the environment.
type Config struct {
	Port          string        `env:"PORT" envDefault:"8080"`
	LogLevel      slog.Level    `env:"LOG_LEVEL" envDefault:"INFO"`
	DataSources   []string      `env:"DATA_SOURCES" envSeparator:"," envDefault:"travel_recommendation_api.json"`
	DefaultCity   string        `env:"DEFAULT_CITY"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	RedisURL      string        `env:"REDIS_URL"`
	CacheTTL      time.Duration `env:"CACHE_TTL" envDefault:"1h"`
	BearerToken   string        `env:"BEARER_TOKEN"`
	MigrationsDir string        `env:"MIGRATIONS_DIR" envDefault:"migrations"`
}

// Load parses the environment and validates the result.
func Load() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}
	if len(cfg.DataSources) == 0 {
		return nil, errors.New("DATA_SOURCES must name at least one source")
	}
	if cfg.CacheTTL <= 0 {
		return nil, fmt.Errorf("CACHE_TTL must be positive, got %s", cfg.CacheTTL)
	}
	return &cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.Port
}

// ServerReady reports whether the settings only the HTTP server needs are set.
func (c *Config) ServerReady() error {
	if c.BearerToken == "" {
		return errors.New("BEARER_TOKEN is required")
	}
	return nil
}
