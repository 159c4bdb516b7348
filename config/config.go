package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/ilyakaznacheev/cleanenv"
	"gopkg.in/yaml.v3"
)

// Config is the connection and tooling configuration for a WATS server.
type Config struct {
	BaseURL                 string            `yaml:"base_url" env:"WATS_BASE_URL" validate:"required,url"`
	Token                   string            `yaml:"token" env:"WATS_TOKEN" validate:"required"`
	Timeout                 time.Duration     `yaml:"timeout" env:"WATS_TIMEOUT" env-default:"30s" validate:"gte=0"`
	RaiseOnUnexpectedStatus bool              `yaml:"raise_on_unexpected_status" env:"WATS_RAISE_ON_UNEXPECTED_STATUS"`
	InsecureSkipVerify      bool              `yaml:"insecure_skip_verify" env:"WATS_INSECURE_SKIP_VERIFY"`
	UserAgent               string            `yaml:"user_agent" env:"WATS_USER_AGENT"`
	Headers                 map[string]string `yaml:"headers,omitempty"`
	LogLevel                string            `yaml:"log_level" env:"WATS_LOG_LEVEL" env-default:"info" validate:"omitempty,oneof=debug info warn error"`
	CacheDir                string            `yaml:"cache_dir,omitempty" env:"WATS_CACHE_DIR"`
	AllowWrites             bool              `yaml:"allow_writes" env:"WATS_ALLOW_WRITES"`
	DocPaths                map[string]string `yaml:"doc_paths,omitempty"`

	Retry          RetryConfig          `yaml:"retry"`
	RateLimit      RateLimitConfig      `yaml:"rate_limit"`
	CircuitBreaker CircuitBreakerConfig `yaml:"circuit_breaker"`
}

// RetryConfig enables retries of idempotent requests on gateway errors.
// MaxRetries of zero leaves retrying to the caller.
type RetryConfig struct {
	MaxRetries     int           `yaml:"max_retries" env:"WATS_RETRY_MAX" validate:"gte=0,lte=10"`
	InitialBackoff time.Duration `yaml:"initial_backoff" env:"WATS_RETRY_INITIAL_BACKOFF"`
	MaxBackoff     time.Duration `yaml:"max_backoff" env:"WATS_RETRY_MAX_BACKOFF"`
}

// RateLimitConfig throttles outgoing requests. Zero disables it.
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" env:"WATS_RATE_LIMIT_RPS" validate:"gte=0"`
	Burst             int     `yaml:"burst" env:"WATS_RATE_LIMIT_BURST" validate:"gte=0"`
}

// CircuitBreakerConfig trips after consecutive server failures.
type CircuitBreakerConfig struct {
	Enabled          bool          `yaml:"enabled" env:"WATS_BREAKER_ENABLED"`
	FailureThreshold uint32        `yaml:"failure_threshold" env:"WATS_BREAKER_FAILURES"`
	Timeout          time.Duration `yaml:"timeout" env:"WATS_BREAKER_TIMEOUT"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// DefaultConfigPath returns ~/.config/pywats/config.yaml.
func DefaultConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "pywats", "config.yaml")
}

// DefaultCacheDir returns ~/.cache/pywats.
func DefaultCacheDir() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".cache", "pywats")
}

// Load reads the config file at path (or the default location), applies
// WATS_* environment overrides and defaults, and validates the result.
// A missing default file is not an error; settings may come from the
// environment alone.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigPath()
	}

	cfg := &Config{}
	_, statErr := os.Stat(path)
	switch {
	case statErr == nil:
		if err := cleanenv.ReadConfig(path, cfg); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	case explicit || !errors.Is(statErr, fs.ErrNotExist):
		return nil, fmt.Errorf("reading config %s: %w", path, statErr)
	default:
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("reading environment: %w", err)
		}
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyDefaults fills unset fields.
func (c *Config) ApplyDefaults() {
	c.BaseURL = strings.TrimRight(c.BaseURL, "/")
	if c.Timeout == 0 {
		c.Timeout = DefaultTimeout
	}
	if c.UserAgent == "" {
		c.UserAgent = DefaultUserAgent
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if c.CacheDir == "" {
		c.CacheDir = DefaultCacheDir()
	}
	if len(c.DocPaths) == 0 {
		c.DocPaths = make(map[string]string, len(DefaultDocPaths))
		for group, p := range DefaultDocPaths {
			c.DocPaths[group] = p
		}
	}
	if c.Retry.MaxRetries > 0 {
		if c.Retry.InitialBackoff == 0 {
			c.Retry.InitialBackoff = DefaultRetryInitialBackoff
		}
		if c.Retry.MaxBackoff == 0 {
			c.Retry.MaxBackoff = DefaultRetryMaxBackoff
		}
	}
	if c.RateLimit.RequestsPerSecond > 0 && c.RateLimit.Burst == 0 {
		c.RateLimit.Burst = 1
	}
	if c.CircuitBreaker.Enabled {
		if c.CircuitBreaker.FailureThreshold == 0 {
			c.CircuitBreaker.FailureThreshold = DefaultBreakerFailures
		}
		if c.CircuitBreaker.Timeout == 0 {
			c.CircuitBreaker.Timeout = DefaultBreakerTimeout
		}
	}
}

// Validate checks field constraints and reports every violation.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return fmt.Errorf("validating config: %w", err)
	}
	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		msgs = append(msgs, fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag()))
	}
	return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
}

// Save writes cfg as YAML, creating the parent directory. The file holds the
// API token, so it is only readable by the owner.
func Save(path string, cfg *Config) error {
	if path == "" {
		path = DefaultConfigPath()
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	return nil
}
