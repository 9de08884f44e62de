package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
	Limits    LimitsConfig
	Fetch     FetchConfig
	Store     StoreConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port string `envconfig:"PORT" default:"8000"`
	Host string `envconfig:"HOST" default:"0.0.0.0"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
	// Scope is "ip" for one bucket per client or "global" for one shared bucket.
	Scope string `envconfig:"RATE_LIMIT_SCOPE" default:"ip"`
}

// Rate limit scopes.
const (
	ScopeIP     = "ip"
	ScopeGlobal = "global"
)

// LimitsConfig bounds the size of documents accepted for parsing.
type LimitsConfig struct {
	MaxInputBytes int64 `envconfig:"MAX_INPUT_BYTES" default:"10485760"`
}

// FetchConfig configures the remote document fetcher.
type FetchConfig struct {
	Timeout   time.Duration `envconfig:"FETCH_TIMEOUT" default:"30s"`
	Retries   int           `envconfig:"FETCH_RETRIES" default:"3"`
	UserAgent string        `envconfig:"FETCH_USER_AGENT" default:"markscan/1.0"`
}

// StoreConfig configures result persistence. An empty Dir disables it.
type StoreConfig struct {
	Dir         string `envconfig:"STORE_DIR" default:""`
	Format      string `envconfig:"STORE_FORMAT" default:"json"`
	Compression string `envconfig:"STORE_COMPRESSION" default:"none"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port: "8000",
			Host: "0.0.0.0",
		},
		Logging: LogConfig{
			Level:       "info",
			Development: false,
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
			Scope:             ScopeIP,
		},
		Limits: LimitsConfig{
			MaxInputBytes: 10 << 20,
		},
		Fetch: FetchConfig{
			Timeout:   30 * time.Second,
			Retries:   3,
			UserAgent: "markscan/1.0",
		},
		Store: StoreConfig{
			Format:      "json",
			Compression: "none",
		},
	}
}

var (
	rateLimitScopes   = []string{ScopeIP, ScopeGlobal}
	storeFormats      = []string{"json", "yaml", "toml"}
	storeCompressions = []string{"none", "gzip", "deflate", "zip", "zstd"}
)

// Validate checks values envconfig cannot check on its own.
func (c *Config) Validate() error {
	if c.Limits.MaxInputBytes <= 0 {
		return fmt.Errorf("MAX_INPUT_BYTES must be positive, got %d", c.Limits.MaxInputBytes)
	}
	if c.RateLimit.Enabled && c.RateLimit.RequestsPerSecond <= 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be positive, got %d", c.RateLimit.RequestsPerSecond)
	}
	if c.RateLimit.Enabled && !oneOf(c.RateLimit.Scope, rateLimitScopes) {
		return fmt.Errorf("RATE_LIMIT_SCOPE must be one of %s, got %q", strings.Join(rateLimitScopes, ", "), c.RateLimit.Scope)
	}
	if c.Fetch.Retries < 0 {
		return fmt.Errorf("FETCH_RETRIES must not be negative, got %d", c.Fetch.Retries)
	}
	if !oneOf(c.Store.Format, storeFormats) {
		return fmt.Errorf("STORE_FORMAT must be one of %s, got %q", strings.Join(storeFormats, ", "), c.Store.Format)
	}
	if !oneOf(c.Store.Compression, storeCompressions) {
		return fmt.Errorf("STORE_COMPRESSION must be one of %s, got %q", strings.Join(storeCompressions, ", "), c.Store.Compression)
	}
	return nil
}

// Address returns host:port for the HTTP listener.
func (c *Config) Address() string {
	return c.Server.Host + ":" + c.Server.Port
}

func oneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
