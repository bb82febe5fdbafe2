package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds all application configuration.
type Config struct {
	// HTTP Server
	HTTPPort            string        `env:"HTTP_PORT"             envDefault:"8080" validate:"required,numeric"`
	HTTPReadTimeout     time.Duration `env:"HTTP_READ_TIMEOUT"     envDefault:"30s"  validate:"gt=0"`
	HTTPWriteTimeout    time.Duration `env:"HTTP_WRITE_TIMEOUT"    envDefault:"30s"  validate:"gt=0"`
	HTTPIdleTimeout     time.Duration `env:"HTTP_IDLE_TIMEOUT"     envDefault:"60s"  validate:"gt=0"`
	HTTPShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"  validate:"gt=0"`

	// Logging
	LogLevel  string `env:"LOG_LEVEL"  envDefault:"info" validate:"oneof=debug info warn error"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"json" validate:"oneof=json console"`

	// Redis (optional - leave empty to disable idempotency keys)
	RedisURL string `env:"REDIS_URL" envDefault:""`

	// Idempotency
	IdempotencyTTL time.Duration `env:"IDEMPOTENCY_TTL" envDefault:"24h" validate:"gt=0"`

	// Rate limiting (0 disables)
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS"   envDefault:"0"  validate:"gte=0"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST" envDefault:"20" validate:"gte=0"`

	// Notifications
	NotificationWorkers         int           `env:"NOTIFICATION_WORKERS"          envDefault:"4"     validate:"gte=1"`
	NotificationQueueSize       int           `env:"NOTIFICATION_QUEUE_SIZE"       envDefault:"1024"  validate:"gte=1"`
	NotificationMaxRetries      int           `env:"NOTIFICATION_MAX_RETRIES"      envDefault:"3"     validate:"gte=0"`
	NotificationRetryInterval   time.Duration `env:"NOTIFICATION_RETRY_INTERVAL"   envDefault:"200ms" validate:"gt=0"`
	NotificationTimeout         time.Duration `env:"NOTIFICATION_TIMEOUT"          envDefault:"5s"    validate:"gt=0"`
	NotificationWebhookURL      string        `env:"NOTIFICATION_WEBHOOK_URL"      envDefault:""      validate:"omitempty,url"`
	NotificationBreakerFailures uint32        `env:"NOTIFICATION_BREAKER_FAILURES" envDefault:"5"     validate:"gte=1"`
	NotificationBreakerTimeout  time.Duration `env:"NOTIFICATION_BREAKER_TIMEOUT"  envDefault:"30s"   validate:"gt=0"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{}
	err := env.Parse(cfg)
	if err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks value ranges that env tags cannot express.
func (c *Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	return nil
}

// RateLimitEnabled reports whether requests are throttled.
func (c *Config) RateLimitEnabled() bool {
	return c.RateLimitRPS > 0
}

// IdempotencyEnabled reports whether a Redis idempotency store is configured.
func (c *Config) IdempotencyEnabled() bool {
	return c.RedisURL != ""
}
