package config

import "time"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel string `mapstructure:"log_level"`
}

// BackendConfig points the client at the analytics backend.
type BackendConfig struct {
	BaseURL string `mapstructure:"base_url"`
	Timeout string `mapstructure:"timeout"` // duration string, e.g., "15s"
}

// RedisConfig holds redis connection settings for the result cache.
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// CacheConfig controls caching of keyword analysis results.
type CacheConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	TTL     string `mapstructure:"ttl"` // duration string, e.g., "1h"
}

// TimelineConfig supplies defaults for timeline fetches.
type TimelineConfig struct {
	Limit int    `mapstructure:"limit"`
	Since string `mapstructure:"since"`
	Until string `mapstructure:"until"`
}

// Config is the top-level configuration structure.
type Config struct {
	App      AppConfig      `mapstructure:"app"`
	Backend  BackendConfig  `mapstructure:"backend"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Cache    CacheConfig    `mapstructure:"cache"`
	Timeline TimelineConfig `mapstructure:"timeline"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.Backend.BaseURL == "" {
		c.Backend.BaseURL = "http://127.0.0.1:5000"
	}
	if c.Backend.Timeout == "" {
		c.Backend.Timeout = "15s"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = "1h"
	}
	if c.Timeline.Limit <= 0 {
		c.Timeline.Limit = 3
	}
	if c.Timeline.Until == "" {
		c.Timeline.Until = "now"
	}
}

// BackendTimeout parses the configured request timeout, falling back
// to 15s on a bad duration string.
func (c *Config) BackendTimeout() time.Duration {
	d, err := time.ParseDuration(c.Backend.Timeout)
	if err != nil || d <= 0 {
		return 15 * time.Second
	}
	return d
}

// CacheTTL parses the configured cache TTL, falling back to one hour.
func (c *Config) CacheTTL() time.Duration {
	d, err := time.ParseDuration(c.Cache.TTL)
	if err != nil || d <= 0 {
		return time.Hour
	}
	return d
}
