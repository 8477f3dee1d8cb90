package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// Config holds all client configuration.
type Config struct {
	Slack     SlackConfig     `yaml:"slack" toml:"slack"`
	RateLimit RateLimitConfig `yaml:"rate_limit" toml:"rate_limit"`
	Logging   LogConfig       `yaml:"logging" toml:"logging"`
}

// SlackConfig holds API connection configuration.
type SlackConfig struct {
	Token     string        `envconfig:"SLACK_TOKEN" yaml:"token" toml:"token" validate:"required"`
	BaseURL   string        `envconfig:"SLACK_BASE_URL" default:"https://slack.com" yaml:"base_url" toml:"base_url" validate:"required,url"`
	Timeout   time.Duration `envconfig:"SLACK_TIMEOUT" default:"30s" yaml:"timeout" toml:"timeout" validate:"gt=0"`
	UserAgent string        `envconfig:"SLACK_USER_AGENT" default:"slackwire" yaml:"user_agent" toml:"user_agent"`
	// DialRetries retries requests that got no response at all
	DialRetries int `envconfig:"SLACK_DIAL_RETRIES" default:"0" yaml:"dial_retries" toml:"dial_retries" validate:"gte=0,lte=10"`
}

// RateLimitConfig holds client-side pacing and server cooldown configuration.
type RateLimitConfig struct {
	// RequestsPerSecond paces outgoing calls; zero disables pacing
	RequestsPerSecond float64 `envconfig:"SLACK_RATE_LIMIT_RPS" default:"0" yaml:"rps" toml:"rps" validate:"gte=0"`
	Burst             int     `envconfig:"SLACK_RATE_LIMIT_BURST" default:"1" yaml:"burst" toml:"burst" validate:"gte=1"`
	// DefaultRetryAfter applies to a 429 response without a Retry-After header
	DefaultRetryAfter time.Duration `envconfig:"SLACK_DEFAULT_RETRY_AFTER" default:"2s" yaml:"default_retry_after" toml:"default_retry_after" validate:"gt=0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info" yaml:"level" toml:"level" validate:"oneof=debug info warn error"`
	Development bool   `envconfig:"LOG_DEV" default:"false" yaml:"development" toml:"development"`
}

var validate = validator.New()

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads a YAML or TOML file over the defaults, then applies
// environment variables that are set on top of it.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := Default()
	if err := unmarshal(path, data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	if err := overrideFromEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func unmarshal(path string, data []byte, cfg *Config) error {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return yaml.Unmarshal(data, cfg)
	case ".toml":
		return toml.Unmarshal(data, cfg)
	default:
		return fmt.Errorf("unsupported config format %q", ext)
	}
}

// overrideFromEnv applies only the variables present in the environment so
// envconfig defaults do not clobber values read from a file.
func overrideFromEnv(cfg *Config) error {
	var env Config
	if err := envconfig.Process("", &env); err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	set := func(name string) bool {
		_, ok := os.LookupEnv(name)
		return ok
	}
	if set("SLACK_TOKEN") {
		cfg.Slack.Token = env.Slack.Token
	}
	if set("SLACK_BASE_URL") {
		cfg.Slack.BaseURL = env.Slack.BaseURL
	}
	if set("SLACK_TIMEOUT") {
		cfg.Slack.Timeout = env.Slack.Timeout
	}
	if set("SLACK_USER_AGENT") {
		cfg.Slack.UserAgent = env.Slack.UserAgent
	}
	if set("SLACK_DIAL_RETRIES") {
		cfg.Slack.DialRetries = env.Slack.DialRetries
	}
	if set("SLACK_RATE_LIMIT_RPS") {
		cfg.RateLimit.RequestsPerSecond = env.RateLimit.RequestsPerSecond
	}
	if set("SLACK_RATE_LIMIT_BURST") {
		cfg.RateLimit.Burst = env.RateLimit.Burst
	}
	if set("SLACK_DEFAULT_RETRY_AFTER") {
		cfg.RateLimit.DefaultRetryAfter = env.RateLimit.DefaultRetryAfter
	}
	if set("LOG_LEVEL") {
		cfg.Logging.Level = env.Logging.Level
	}
	if set("LOG_DEV") {
		cfg.Logging.Development = env.Logging.Development
	}
	return nil
}

// Validate checks that the configuration can build a connection.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Slack: SlackConfig{
			BaseURL:   "https://slack.com",
			Timeout:   30 * time.Second,
			UserAgent: "slackwire",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 0,
			Burst:             1,
			DefaultRetryAfter: 2 * time.Second,
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
	}
}
