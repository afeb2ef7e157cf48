// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

// Package config loads application settings from CREATIVE_* environment variables.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/robfig/cron/v3"

	"github.com/olegiv/creative-api/internal/locale"
)

// knownWeakTokens contains example admin tokens that must be rejected in production.
var knownWeakTokens = []string{
	"change-me-to-a-long-random-token",
	"REPLACE_WITH_YOUR_OWN_ADMIN_TOKEN",
}

// MinAdminTokenLength is the minimum admin token length accepted in production.
const MinAdminTokenLength = 32

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath     string `env:"CREATIVE_DB_PATH" envDefault:"./data/creative.db"`
	ServerHost string `env:"CREATIVE_SERVER_HOST" envDefault:"localhost"`
	ServerPort int    `env:"CREATIVE_SERVER_PORT" envDefault:"8080"`
	Env        string `env:"CREATIVE_ENV" envDefault:"development"`
	LogLevel   string `env:"CREATIVE_LOG_LEVEL" envDefault:"info"`
	LogFormat  string `env:"CREATIVE_LOG_FORMAT" envDefault:"text"` // text or json

	// Languages
	DefaultLanguage string   `env:"CREATIVE_DEFAULT_LANGUAGE" envDefault:"en"`
	Languages       []string `env:"CREATIVE_LANGUAGES" envDefault:"en,az,ru" envSeparator:","`

	// Cache configuration
	RedisURL     string        `env:"CREATIVE_REDIS_URL"`                          // Optional Redis URL for distributed caching
	CachePrefix  string        `env:"CREATIVE_CACHE_PREFIX" envDefault:"creative:"` // Redis key prefix
	CacheTTL     time.Duration `env:"CREATIVE_CACHE_TTL" envDefault:"5m"`
	CacheMaxSize int           `env:"CREATIVE_CACHE_MAX_SIZE" envDefault:"1000"` // Max memory cache entries

	// HTTP
	PageSize       int           `env:"CREATIVE_PAGE_SIZE" envDefault:"20"`
	RequestTimeout time.Duration `env:"CREATIVE_REQUEST_TIMEOUT" envDefault:"30s"`
	CORSOrigins    []string      `env:"CREATIVE_CORS_ORIGINS" envDefault:"*" envSeparator:","`
	AdminToken     string        `env:"CREATIVE_ADMIN_TOKEN"`
	RateLimit      float64       `env:"CREATIVE_RATE_LIMIT" envDefault:"20"`      // requests per second per IP
	RateBurst      int           `env:"CREATIVE_RATE_BURST" envDefault:"40"`
	ContactRate    float64       `env:"CREATIVE_CONTACT_RATE" envDefault:"0.05"` // one submission per 20s
	ContactBurst   int           `env:"CREATIVE_CONTACT_BURST" envDefault:"3"`

	// Background jobs
	NavAuditSchedule string        `env:"CREATIVE_NAV_AUDIT_SCHEDULE" envDefault:"@every 15m"`
	CacheWarmSchedule string       `env:"CREATIVE_CACHE_WARM_SCHEDULE" envDefault:"@every 5m"`
	EventRetention   time.Duration `env:"CREATIVE_EVENT_RETENTION" envDefault:"720h"`

	// Seeding configuration
	DoSeed bool `env:"CREATIVE_DO_SEED" envDefault:"false"` // Seed starter navigation on an empty database
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// AdminEnabled returns true if admin routes are enabled.
func (c Config) AdminEnabled() bool {
	return c.AdminToken != ""
}

// LocaleSet builds the supported language set.
func (c Config) LocaleSet() (*locale.Set, error) {
	return locale.NewSet(c.DefaultLanguage, c.Languages...)
}

// SlogLevel maps LogLevel to a slog level. Unknown values mean info.
func (c Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// Load parses the process environment and validates the result.
func Load() (*Config, error) {
	return parse(env.Options{})
}

// LoadFrom parses the given environment instead of the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	return parse(env.Options{Environment: environ})
}

func parse(opts env.Options) (*Config, error) {
	cfg := &Config{}
	if err := env.ParseWithOptions(cfg, opts); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	var errs []error

	c.DefaultLanguage = strings.ToLower(strings.TrimSpace(c.DefaultLanguage))
	langs := make([]string, 0, len(c.Languages))
	for _, l := range c.Languages {
		if l = strings.ToLower(strings.TrimSpace(l)); l != "" {
			langs = append(langs, l)
		}
	}
	c.Languages = langs
	if !slices.Contains(c.Languages, c.DefaultLanguage) {
		errs = append(errs, fmt.Errorf("CREATIVE_DEFAULT_LANGUAGE %q must be listed in CREATIVE_LANGUAGES %v",
			c.DefaultLanguage, c.Languages))
	} else if _, err := c.LocaleSet(); err != nil {
		errs = append(errs, fmt.Errorf("CREATIVE_LANGUAGES: %w", err))
	}

	if c.PageSize <= 0 {
		errs = append(errs, fmt.Errorf("CREATIVE_PAGE_SIZE must be positive, got %d", c.PageSize))
	}
	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		errs = append(errs, fmt.Errorf("CREATIVE_SERVER_PORT out of range: %d", c.ServerPort))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("CREATIVE_LOG_FORMAT must be text or json, got %q", c.LogFormat))
	}

	for name, schedule := range map[string]string{
		"CREATIVE_NAV_AUDIT_SCHEDULE":  c.NavAuditSchedule,
		"CREATIVE_CACHE_WARM_SCHEDULE": c.CacheWarmSchedule,
	} {
		if schedule == "" {
			continue
		}
		if _, err := cron.ParseStandard(schedule); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", name, err))
		}
	}

	if !c.IsDevelopment() && c.AdminToken != "" {
		if len(c.AdminToken) < MinAdminTokenLength {
			errs = append(errs, fmt.Errorf("CREATIVE_ADMIN_TOKEN must be at least %d bytes long, got %d bytes; "+
				"generate one with: openssl rand -base64 32", MinAdminTokenLength, len(c.AdminToken)))
		}
		if slices.Contains(knownWeakTokens, c.AdminToken) {
			errs = append(errs, errors.New("CREATIVE_ADMIN_TOKEN is a known example value and must not be used"))
		}
	}

	return errors.Join(errs...)
}
