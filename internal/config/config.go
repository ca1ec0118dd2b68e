package config

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Config defines the ledger service configuration.
type Config struct {
	HTTP struct {
		Port string `yaml:"port" env:"HTTP_PORT"`
	} `yaml:"http"`
	Log struct {
		Level string `yaml:"level" env:"LOG_LEVEL"`
	} `yaml:"log"`
	Database struct {
		DSN string `yaml:"dsn" env:"POSTGRES_DSN"`
	} `yaml:"database"`
	Redis struct {
		Addr     string `yaml:"addr" env:"REDIS_ADDR"`
		Password string `yaml:"password" env:"REDIS_PASSWORD"`
	} `yaml:"redis"`
	Auth struct {
		Secret string `yaml:"secret" env:"AUTH_JWT_SECRET"`
	} `yaml:"auth"`
	Presence struct {
		ActiveWithinDays  int `yaml:"active_within_days" env:"PRESENCE_ACTIVE_WITHIN_DAYS"`
		InactiveAfterDays int `yaml:"inactive_after_days" env:"PRESENCE_INACTIVE_AFTER_DAYS"`
	} `yaml:"presence"`
	WS struct {
		WriteTimeout time.Duration `yaml:"write_timeout" env:"WS_WRITE_TIMEOUT"`
	} `yaml:"ws"`
}

// Load reads configuration from file/env and applies defaults.
func Load() (*Config, error) {
	cfg := &Config{}
	cfg.HTTP.Port = "4000"
	cfg.Presence.ActiveWithinDays = 7
	cfg.Presence.InactiveAfterDays = 30
	cfg.WS.WriteTimeout = 10 * time.Second

	if err := load(cfg); err != nil {
		return nil, err
	}

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, errors.New("config: database dsn required")
	}
	if strings.TrimSpace(cfg.Redis.Addr) == "" {
		return nil, errors.New("config: redis addr required")
	}
	if strings.TrimSpace(cfg.Auth.Secret) == "" {
		return nil, errors.New("config: auth jwt secret required")
	}
	if cfg.Presence.ActiveWithinDays <= 0 || cfg.Presence.InactiveAfterDays < cfg.Presence.ActiveWithinDays {
		return nil, errors.New("config: invalid presence thresholds")
	}
	return cfg, nil
}

// HTTPAddress returns :port style string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "4000"
	}
	if strings.HasPrefix(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}
