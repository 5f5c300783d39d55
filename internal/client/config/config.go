// Package config loads the storefront CLI settings from the environment.
package config

import (
	"context"
	"fmt"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	APIURL   string        `env:"STOREFRONT_API_URL, default=http://localhost:3001"`
	DataPath string        `env:"STOREFRONT_DATA,    default=storefront.db"`
	Timeout  time.Duration `env:"STOREFRONT_TIMEOUT, default=10s"`
	LogLevel string        `env:"LOG_LEVEL,          default=error"`
}

func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{Target: &cfg, Lookuper: lookuper}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("config: STOREFRONT_TIMEOUT must be positive")
	}
	return &cfg, nil
}
