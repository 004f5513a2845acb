package config

import (
	"fmt"
	"time"

	"github.com/Netflix/go-env"
)

type Config struct {
	DatabaseDSN       string `env:"DATABASE_DSN,required=true"`
	APIPort           int    `env:"API_PORT,default=8080"`
	LogLevel          string `env:"LOG_LEVEL,default=info"`
	DingTalkBaseURL   string `env:"DINGTALK_BASE_URL"`
	WebhookTimeoutSec int    `env:"WEBHOOK_TIMEOUT_SECONDS,default=10"`
	TemplateDir       string `env:"TEMPLATE_DIR"`
	RedisURL          string `env:"REDIS_URL"`
	CacheTTLSec       int    `env:"DESTINATION_CACHE_TTL_SECONDS,default=60"`
}

func Load() (*Config, error) {
	var cfg Config
	_, err := env.UnmarshalFromEnviron(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if cfg.WebhookTimeoutSec <= 0 {
		return nil, fmt.Errorf("failed to load config: WEBHOOK_TIMEOUT_SECONDS must be positive, got %d", cfg.WebhookTimeoutSec)
	}
	if cfg.CacheTTLSec <= 0 {
		return nil, fmt.Errorf("failed to load config: DESTINATION_CACHE_TTL_SECONDS must be positive, got %d", cfg.CacheTTLSec)
	}
	return &cfg, nil
}

func (c *Config) WebhookTimeout() time.Duration {
	return time.Duration(c.WebhookTimeoutSec) * time.Second
}

func (c *Config) DestinationCacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}
