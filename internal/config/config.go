// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"time"
	_ "time/tzdata" // APP_TIMEZONE must resolve on hosts without zoneinfo.

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host     string `env:"APP_HOST" envDefault:"0.0.0.0"`
	Port     string `env:"APP_PORT" envDefault:"8080"`
	Env      string `env:"APP_ENV" envDefault:"development"` // "development", "production", "testing"
	Timezone string `env:"APP_TIMEZONE" envDefault:"Asia/Tokyo"`

	// PostgreSQL connection
	DBHost     string `env:"POSTGRES_HOST" envDefault:"localhost"`
	DBPort     string `env:"POSTGRES_PORT" envDefault:"5432"`
	DBUser     string `env:"POSTGRES_USER" envDefault:"menuboard"`
	DBPassword string `env:"POSTGRES_PASSWORD" envDefault:"changeme"`
	DBName     string `env:"POSTGRES_DB" envDefault:"menuboard"`

	// Valkey (Redis-compatible cache)
	ValkeyEnabled  bool   `env:"VALKEY_ENABLED" envDefault:"true"`
	ValkeyHost     string `env:"VALKEY_HOST" envDefault:"localhost"`
	ValkeyPort     string `env:"VALKEY_PORT" envDefault:"6379"`
	ValkeyPassword string `env:"VALKEY_PASSWORD"`

	// StoreCacheTTL is how long store profiles stay in Valkey.
	StoreCacheTTL time.Duration `env:"STORE_CACHE_TTL" envDefault:"5m"`
	// FetchTimeout bounds the parallel record fetches of one projection.
	FetchTimeout time.Duration `env:"FETCH_TIMEOUT" envDefault:"5s"`

	// Bulk import limits
	ImportMaxBytes  int64 `env:"IMPORT_MAX_BYTES" envDefault:"5242880"`
	ImportRateLimit int   `env:"IMPORT_RATE_LIMIT" envDefault:"20"` // per IP per minute

	loc *time.Location
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. A .env file in the working directory is
// read first if present; real environment variables win over it. Returns an
// error if critical values are missing in production mode.
func Load() (*Config, error) {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("APP_TIMEZONE: %w", err)
	}
	cfg.loc = loc

	if cfg.FetchTimeout <= 0 {
		return nil, errors.New("FETCH_TIMEOUT must be positive")
	}
	if cfg.ImportMaxBytes <= 0 {
		return nil, errors.New("IMPORT_MAX_BYTES must be positive")
	}
	if cfg.ImportRateLimit <= 0 {
		return nil, errors.New("IMPORT_RATE_LIMIT must be positive")
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// Location returns the resolved APP_TIMEZONE, or UTC for a Config that did
// not come from Load.
func (c *Config) Location() *time.Location {
	if c.loc == nil {
		return time.UTC
	}
	return c.loc
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}
