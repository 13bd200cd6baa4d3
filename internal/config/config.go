// Package config handles loading and validating the connectctl configuration
// from YAML files with environment variable substitution.
package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"slices"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/donaldgifford/connect-client/internal/telemetry"
	"github.com/donaldgifford/connect-client/pkg/connect"
)

// Token cache backends.
const (
	TokenCacheNone   = "none"
	TokenCacheMemory = "memory"
	TokenCacheRedis  = "redis"
)

// Config is the top-level application configuration.
type Config struct {
	Connect       ConnectConfig       `yaml:"connect"`
	RateLimit     RateLimitConfig     `yaml:"rate_limit"`
	TokenCache    TokenCacheConfig    `yaml:"token_cache"`
	Telemetry     TelemetryConfig     `yaml:"telemetry"`
	Watch         WatchConfig         `yaml:"watch"`
	Notifications NotificationsConfig `yaml:"notifications"`
	Logging       LoggingConfig       `yaml:"logging"`
}

// ConnectConfig defines the API endpoint and client credentials.
type ConnectConfig struct {
	EndpointURL  string        `yaml:"endpoint_url"`
	TokenURL     string        `yaml:"token_url"`
	ClientID     string        `yaml:"client_id"`
	ClientSecret string        `yaml:"client_secret"`
	ShopURL      string        `yaml:"shop_url"`
	Scope        string        `yaml:"scope"`
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
}

// ClientConfig converts the section into a connect.Config.
func (c *ConnectConfig) ClientConfig() connect.Config {
	return connect.Config{
		EndpointURL:  c.EndpointURL,
		TokenURL:     c.TokenURL,
		ClientID:     c.ClientID,
		ClientSecret: c.ClientSecret,
		ShopURL:      c.ShopURL,
		Timeout:      c.Timeout,
		UserAgent:    c.UserAgent,
		Scope:        c.Scope,
	}
}

// RateLimitConfig defines client-side rate limiting.
type RateLimitConfig struct {
	Enabled    bool    `yaml:"enabled"`
	PerSecond  float64 `yaml:"per_second"`
	Burst      int     `yaml:"burst"`
	DailyLimit int64   `yaml:"daily_limit"` // 0 disables the quota
}

// TokenCacheConfig selects where bearer tokens are shared.
type TokenCacheConfig struct {
	Backend   string `yaml:"backend"` // none, memory, redis
	RedisURL  string `yaml:"redis_url"`
	KeyPrefix string `yaml:"key_prefix"`
}

// TelemetryConfig defines OTLP export settings.
type TelemetryConfig struct {
	Enabled     bool    `yaml:"enabled"`
	Endpoint    string  `yaml:"endpoint"`
	Insecure    bool    `yaml:"insecure"`
	ServiceName string  `yaml:"service_name"`
	SampleRatio float64 `yaml:"sample_ratio"`
	Metrics     bool    `yaml:"metrics"`
}

// TelemetryConfig converts the section into a telemetry.Config.
func (t *TelemetryConfig) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		Enabled:     t.Enabled,
		Endpoint:    t.Endpoint,
		Insecure:    t.Insecure,
		ServiceName: t.ServiceName,
		SampleRatio: t.SampleRatio,
		Metrics:     t.Metrics,
	}
}

// WatchConfig defines the feed job watcher.
type WatchConfig struct {
	Interval time.Duration `yaml:"interval"`
	Timeout  time.Duration `yaml:"timeout"`
	// MetricsAddr, when set, serves /metrics while watching.
	MetricsAddr string `yaml:"metrics_addr"`
}

// NotificationsConfig defines notification targets.
type NotificationsConfig struct {
	Webhook WebhookConfig `yaml:"webhook"`
}

// WebhookConfig defines generic webhook settings.
type WebhookConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
}

// LoggingConfig defines logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // text, json, pretty
}

// Default returns a configuration with every default applied and no
// credentials.
func Default() *Config {
	cfg := &Config{}
	applyDefaults(cfg)
	return cfg
}

// Load reads and parses a YAML config file, performing environment variable
// substitution and validation.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	return cfg, nil
}

// Parse reads a YAML config file and applies defaults without validating,
// so callers can overlay flags first.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // config path from trusted CLI flag
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the YAML content.
	expanded := os.ExpandEnv(string(data))

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("parsing config YAML: %w", err)
	}

	applyDefaults(cfg)
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	applyConnectDefaults(&cfg.Connect)
	applyRateLimitDefaults(&cfg.RateLimit)
	applyTokenCacheDefaults(&cfg.TokenCache)
	applyTelemetryDefaults(&cfg.Telemetry)
	applyWatchDefaults(&cfg.Watch)
	applyLoggingDefaults(&cfg.Logging)
}

func applyConnectDefaults(c *ConnectConfig) {
	if c.Timeout == 0 {
		c.Timeout = 30 * time.Second
	}
}

func applyRateLimitDefaults(r *RateLimitConfig) {
	if r.PerSecond == 0 {
		r.PerSecond = 5.0
	}
	if r.Burst == 0 {
		r.Burst = 10
	}
}

func applyTokenCacheDefaults(t *TokenCacheConfig) {
	if t.Backend == "" {
		t.Backend = TokenCacheNone
	}
	if t.KeyPrefix == "" {
		t.KeyPrefix = "connect:token:"
	}
}

func applyTelemetryDefaults(t *TelemetryConfig) {
	if t.ServiceName == "" {
		t.ServiceName = "connectctl"
	}
	if t.SampleRatio == 0 {
		t.SampleRatio = 1.0
	}
}

func applyWatchDefaults(w *WatchConfig) {
	if w.Interval == 0 {
		w.Interval = 10 * time.Second
	}
	if w.Timeout == 0 {
		w.Timeout = 30 * time.Minute
	}
}

func applyLoggingDefaults(l *LoggingConfig) {
	if l.Level == "" {
		l.Level = "info"
	}
	if l.Format == "" {
		l.Format = "text"
	}
}

// Validate reports every problem with cfg at once.
func (cfg *Config) Validate() error {
	var errs []error

	if cfg.Connect.EndpointURL == "" {
		errs = append(errs, errors.New("connect.endpoint_url is required"))
	} else if !isAbsoluteURL(cfg.Connect.EndpointURL) {
		errs = append(errs, fmt.Errorf("connect.endpoint_url must be an absolute URL (got %q)", cfg.Connect.EndpointURL))
	}
	if cfg.Connect.TokenURL != "" && !isAbsoluteURL(cfg.Connect.TokenURL) {
		errs = append(errs, fmt.Errorf("connect.token_url must be an absolute URL (got %q)", cfg.Connect.TokenURL))
	}
	if cfg.Connect.ClientID == "" {
		errs = append(errs, errors.New("connect.client_id is required"))
	}
	if cfg.Connect.ClientSecret == "" {
		errs = append(errs, errors.New("connect.client_secret is required"))
	}
	if cfg.Connect.Timeout < 0 {
		errs = append(errs, errors.New("connect.timeout must not be negative"))
	}

	if cfg.RateLimit.Enabled {
		if cfg.RateLimit.PerSecond < 0 || cfg.RateLimit.Burst < 1 {
			errs = append(errs, errors.New("rate_limit.per_second and rate_limit.burst must be positive"))
		}
		if cfg.RateLimit.DailyLimit < 0 {
			errs = append(errs, errors.New("rate_limit.daily_limit must not be negative"))
		}
	}

	switch cfg.TokenCache.Backend {
	case TokenCacheNone, TokenCacheMemory:
	case TokenCacheRedis:
		if cfg.TokenCache.RedisURL == "" {
			errs = append(errs, errors.New("token_cache.redis_url is required when backend is redis"))
		}
	default:
		errs = append(errs, fmt.Errorf(
			"token_cache.backend must be one of: none, memory, redis (got %q)",
			cfg.TokenCache.Backend,
		))
	}

	if cfg.Telemetry.Enabled && cfg.Telemetry.Endpoint == "" {
		errs = append(errs, errors.New("telemetry.endpoint is required when telemetry is enabled"))
	}
	if cfg.Telemetry.SampleRatio < 0 || cfg.Telemetry.SampleRatio > 1 {
		errs = append(errs, fmt.Errorf("telemetry.sample_ratio must be within [0, 1] (got %v)", cfg.Telemetry.SampleRatio))
	}

	if cfg.Watch.Interval < time.Second {
		errs = append(errs, fmt.Errorf("watch.interval must be at least 1s (got %s)", cfg.Watch.Interval))
	}

	if cfg.Notifications.Webhook.Enabled && cfg.Notifications.Webhook.URL == "" {
		errs = append(errs, errors.New("notifications.webhook.url is required when the webhook is enabled"))
	}

	if !slices.Contains([]string{"debug", "info", "warn", "error"}, cfg.Logging.Level) {
		errs = append(errs, fmt.Errorf("logging.level must be one of: debug, info, warn, error (got %q)", cfg.Logging.Level))
	}
	if !slices.Contains([]string{"text", "json", "pretty"}, cfg.Logging.Format) {
		errs = append(errs, fmt.Errorf("logging.format must be one of: text, json, pretty (got %q)", cfg.Logging.Format))
	}

	return errors.Join(errs...)
}

func isAbsoluteURL(raw string) bool {
	u, err := url.Parse(raw)
	return err == nil && u.Scheme != "" && u.Host != ""
}
