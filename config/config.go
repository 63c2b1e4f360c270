package config

import (
	"errors"
	"os"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Push     PushConfig     `yaml:"push"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port" envconfig:"SERVER_PORT"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	DSN                    string `yaml:"dsn" envconfig:"DATABASE_DSN"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
}

// PushConfig holds the VAPID key pair and delivery settings for web push.
type PushConfig struct {
	PublicKey              string `yaml:"vapid_public_key" envconfig:"PUSH_VAPID_PUBLIC_KEY"`
	PrivateKey             string `yaml:"vapid_private_key" envconfig:"PUSH_VAPID_PRIVATE_KEY"`
	Subject                string `yaml:"subject" envconfig:"PUSH_VAPID_SUBJECT"`
	TTL                    int    `yaml:"ttl"`
	DeliveryTimeoutSeconds int    `yaml:"delivery_timeout_seconds"`
}

// DeliveryTimeout returns the bound for a single push delivery attempt.
func (p PushConfig) DeliveryTimeout() time.Duration {
	return time.Duration(p.DeliveryTimeoutSeconds) * time.Second
}

// Load reads the configuration from the given path and overlays environment
// variables on top. A missing file is not an error: a deployment can run
// without any config file as long as the required values come from the
// environment.
func Load(path string) (*Config, error) {
	var cfg Config

	f, err := os.Open(path)
	if err == nil {
		defer f.Close()
		decoder := yaml.NewDecoder(f)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, err
	}

	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}

	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 3000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}
	if cfg.Push.DeliveryTimeoutSeconds <= 0 {
		cfg.Push.DeliveryTimeoutSeconds = 5
	}

	return &cfg, nil
}

// Validate checks the values the process cannot serve traffic without.
func (c *Config) Validate() error {
	if c.Push.PublicKey == "" || c.Push.PrivateKey == "" {
		return errors.New("VAPID key pair is not configured (push.vapid_public_key / push.vapid_private_key or PUSH_VAPID_* env)")
	}
	if c.Push.Subject == "" {
		return errors.New("VAPID subject is not configured (push.subject or PUSH_VAPID_SUBJECT)")
	}
	if c.Database.DSN == "" {
		return errors.New("database DSN is not configured (database.dsn or DATABASE_DSN)")
	}
	return nil
}
