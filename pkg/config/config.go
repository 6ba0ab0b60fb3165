package config

import (
	"fmt"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/tendant/chi-demo/app"
	"github.com/tendant/simple-library/pkg/pagination"
	"github.com/tendant/simple-library/pkg/ratelimit"
)

const (
	PersistencePostgres = "postgres"
	PersistenceInMemory = "inmem"
)

// RedisConfig selects the store for pending login states. An empty URL
// keeps them in process memory.
type RedisConfig struct {
	URL      string        `env:"REDIS_URL"`
	StateTTL time.Duration `env:"OAUTH2_STATE_TTL" env-default:"10m"`
}

// PaginationConfig bounds list endpoints.
type PaginationConfig struct {
	DefaultLimit int `env:"PAGINATION_DEFAULT_LIMIT" env-default:"20"`
	MaxLimit     int `env:"PAGINATION_MAX_LIMIT" env-default:"100"`
}

func (p PaginationConfig) Defaults() pagination.Defaults {
	return pagination.Defaults{Limit: p.DefaultLimit, MaxLimit: p.MaxLimit}
}

// RateLimitConfig sets per-client request budgets. Zero budgets disable
// limiting.
type RateLimitConfig struct {
	PerIPPerMinute      float64       `env:"RATE_LIMIT_PER_IP_PER_MINUTE" env-default:"100"`
	PerIPBurst          int           `env:"RATE_LIMIT_PER_IP_BURST" env-default:"20"`
	PerAccountPerMinute float64       `env:"RATE_LIMIT_PER_ACCOUNT_PER_MINUTE" env-default:"200"`
	PerAccountBurst     int           `env:"RATE_LIMIT_PER_ACCOUNT_BURST" env-default:"40"`
	BucketTTL           time.Duration `env:"RATE_LIMIT_BUCKET_TTL" env-default:"1h"`
}

func (c RateLimitConfig) Enabled() bool {
	return c.PerIPPerMinute > 0 && c.PerIPBurst > 0 && c.PerAccountPerMinute > 0 && c.PerAccountBurst > 0
}

func (c RateLimitConfig) ToRateLimitConfig() ratelimit.Config {
	return ratelimit.Config{
		PerIPPerMinute:      c.PerIPPerMinute,
		PerIPBurst:          c.PerIPBurst,
		PerAccountPerMinute: c.PerAccountPerMinute,
		PerAccountBurst:     c.PerAccountBurst,
		BucketTTL:           c.BucketTTL,
	}
}

type CORSConfig struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" env-separator:"," env-default:"http://localhost:3000,http://localhost:5173"`
}

type Config struct {
	Persistence string `env:"LIBRARY_PERSISTENCE" env-default:"postgres"`
	BaseURL     string `env:"BASE_URL" env-default:"http://localhost:4000"`
	// Seeded with the elevated role at startup when set.
	AdminEmail string `env:"LIBRARY_ADMIN_EMAIL"`

	Database   DatabaseConfig
	JWT        JWTConfig
	OIDC       OIDCProviderConfig
	Redis      RedisConfig
	Pagination PaginationConfig
	RateLimit  RateLimitConfig
	CORS       CORSConfig
	AppConfig  app.AppConfig
}

// Load reads the configuration from the environment and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return cfg, fmt.Errorf("failed to read configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	return Validate(
		func() ValidationErrors {
			errs := CollectErrors(
				RequireOneOf("LIBRARY_PERSISTENCE", c.Persistence, []string{PersistencePostgres, PersistenceInMemory}),
				RequireValidURL("BASE_URL", c.BaseURL),
				RequirePositive("PAGINATION_DEFAULT_LIMIT", c.Pagination.DefaultLimit),
				RequirePositive("PAGINATION_MAX_LIMIT", c.Pagination.MaxLimit),
				RequirePositiveDuration("OAUTH2_STATE_TTL", c.Redis.StateTTL),
			)
			if c.Pagination.DefaultLimit > c.Pagination.MaxLimit {
				errs = append(errs, ValidationError{
					Field:   "PAGINATION_DEFAULT_LIMIT",
					Message: fmt.Sprintf("must not exceed PAGINATION_MAX_LIMIT (%d)", c.Pagination.MaxLimit),
				})
			}
			if err := WhenSet(c.AdminEmail, func() *ValidationError {
				return RequireValidEmail("LIBRARY_ADMIN_EMAIL", c.AdminEmail)
			}); err != nil {
				errs = append(errs, *err)
			}
			return errs
		},
		c.JWT.validate,
		c.OIDC.validate,
		func() ValidationErrors {
			if c.Persistence != PersistencePostgres {
				return nil
			}
			return c.Database.validate()
		},
	)
}
