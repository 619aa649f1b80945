// Package config loads service configuration from an optional YAML file and
// environment variables. Environment values win over the file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	yaml "gopkg.in/yaml.v3"
)

// Config covers process level configuration.
type Config struct {
	Environment string `yaml:"environment"`
	LogLevel    string `yaml:"logLevel"`
	Port        int    `yaml:"port"`

	DatabaseURL string `yaml:"databaseUrl"` // empty selects the in-memory store
	DBMigrate   bool   `yaml:"dbMigrate"`
	RedisURL    string `yaml:"redisUrl"` // empty selects the in-memory broker

	AuthMode        string `yaml:"authMode"` // dev, hmac
	AuthHMACSecret  string `yaml:"authHmacSecret"`
	AuthTenantClaim string `yaml:"authTenantClaim"`
	AuthRoleClaim   string `yaml:"authRoleClaim"`

	RateRPS   float64 `yaml:"rateRps"` // 0 disables rate limiting
	RateBurst int     `yaml:"rateBurst"`

	WebhookMaxAttempts  int           `yaml:"webhookMaxAttempts"`
	WebhookPollInterval time.Duration `yaml:"webhookPollInterval"`

	MaxBodyBytes int64 `yaml:"maxBodyBytes"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		Environment:         "development",
		LogLevel:            "info",
		Port:                8080,
		DBMigrate:           true,
		AuthMode:            "dev",
		AuthTenantClaim:     "tenant",
		AuthRoleClaim:       "role",
		RateBurst:           20,
		WebhookMaxAttempts:  10,
		WebhookPollInterval: time.Second,
		MaxBodyBytes:        1 << 20,
	}
}

// Load reads DELIVERYPLAN_CONFIG (if set) and the process environment.
func Load() (Config, error) {
	return LoadFrom(os.Getenv)
}

// LoadFrom is Load with an injectable environment lookup.
func LoadFrom(getenv func(string) string) (Config, error) {
	cfg := Defaults()
	if path := strings.TrimSpace(getenv("DELIVERYPLAN_CONFIG")); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	var errs []string
	str := func(key string, dst *string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	num := func(key string, dst *int) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil {
				errs = append(errs, fmt.Sprintf("%s: %v", key, err))
				return
			}
			*dst = n
		}
	}

	str("APP_ENV", &cfg.Environment)
	str("LOG_LEVEL", &cfg.LogLevel)
	num("PORT", &cfg.Port)
	str("DATABASE_URL", &cfg.DatabaseURL)
	if v := strings.TrimSpace(getenv("DB_MIGRATE")); v != "" {
		cfg.DBMigrate = v != "false"
	}
	str("REDIS_URL", &cfg.RedisURL)
	str("AUTH_MODE", &cfg.AuthMode)
	str("AUTH_HMAC_SECRET", &cfg.AuthHMACSecret)
	str("AUTH_TENANT_CLAIM", &cfg.AuthTenantClaim)
	str("AUTH_ROLE_CLAIM", &cfg.AuthRoleClaim)
	if v := strings.TrimSpace(getenv("RATE_RPS")); v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			errs = append(errs, fmt.Sprintf("RATE_RPS: %v", err))
		} else {
			cfg.RateRPS = f
		}
	}
	num("RATE_BURST", &cfg.RateBurst)
	num("WEBHOOK_MAX_ATTEMPTS", &cfg.WebhookMaxAttempts)
	if v := strings.TrimSpace(getenv("WEBHOOK_POLL_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			errs = append(errs, fmt.Sprintf("WEBHOOK_POLL_INTERVAL: %v", err))
		} else {
			cfg.WebhookPollInterval = d
		}
	}
	if len(errs) > 0 {
		return Config{}, fmt.Errorf("invalid environment: %s", strings.Join(errs, "; "))
	}
	cfg.AuthMode = strings.ToLower(cfg.AuthMode)
	return cfg, cfg.Validate()
}

// Validate checks ranges and cross-field requirements.
func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("port must be in 1..65535, got %d", c.Port)
	}
	switch c.AuthMode {
	case "dev":
	case "hmac":
		if c.AuthHMACSecret == "" {
			return fmt.Errorf("AUTH_HMAC_SECRET is required when AUTH_MODE=hmac")
		}
	default:
		return fmt.Errorf("unknown auth mode %q (allowed: dev, hmac)", c.AuthMode)
	}
	if c.RateRPS < 0 {
		return fmt.Errorf("rateRps must be >= 0")
	}
	if c.RateRPS > 0 && c.RateBurst <= 0 {
		return fmt.Errorf("rateBurst must be > 0 when rate limiting is enabled")
	}
	if c.WebhookMaxAttempts <= 0 {
		return fmt.Errorf("webhookMaxAttempts must be > 0")
	}
	if c.WebhookPollInterval <= 0 {
		return fmt.Errorf("webhookPollInterval must be > 0")
	}
	if c.MaxBodyBytes <= 0 {
		return fmt.Errorf("maxBodyBytes must be > 0")
	}
	return nil
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string { return ":" + strconv.Itoa(c.Port) }
