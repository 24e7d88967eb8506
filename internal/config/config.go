// Package config loads and validates server configuration. The signing
// secret is explicit configuration handed to the authentication service
// at startup, never hidden module state.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Default configuration values.
const (
	DefaultAddr           = ":8080"
	DefaultTokenTTL       = 24 * time.Hour
	DefaultAuthRateLimit  = 10
	DefaultAuthRateWindow = time.Minute
	DefaultMongoDatabase  = "tasktrack"
	DefaultBcryptCost     = 12

	// MinSecretLength is the minimum required length for the signing secret.
	MinSecretLength = 32
)

// Duration wraps time.Duration so it can be written as "15m" in YAML.
type Duration time.Duration

// UnmarshalYAML parses a duration string such as "24h" or "90s".
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(raw)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", raw, err)
	}
	*d = Duration(parsed)
	return nil
}

// StoreConfig selects and configures the persistence backend.
type StoreConfig struct {
	// Driver is "memory" or "mongo". When MongoURI is set the driver
	// defaults to "mongo".
	Driver string `yaml:"driver"`

	// MongoURI is the MongoDB connection string.
	MongoURI string `yaml:"mongo_uri"`

	// MongoDatabase is the database name.
	MongoDatabase string `yaml:"mongo_database"`
}

// RateLimitConfig configures per-IP limiting on the auth endpoints.
type RateLimitConfig struct {
	// Rate is the number of requests allowed per window. Zero disables
	// rate limiting.
	Rate int `yaml:"rate"`

	// Window is the time window for the limit.
	Window Duration `yaml:"window"`

	// RedisAddr, when set, backs the limiter with Redis so the limit
	// holds across multiple server instances.
	RedisAddr string `yaml:"redis_addr"`
}

// Config holds all server configuration.
type Config struct {
	// Addr is the listen address.
	Addr string `yaml:"addr"`

	// Secret is the process-wide token signing key.
	Secret string `yaml:"secret"`

	// TokenTTL is how long issued session tokens are valid.
	TokenTTL Duration `yaml:"token_ttl"`

	// ClockSkew is the leeway allowed when checking token expiry, for
	// servers whose clocks drift apart. Zero means exact expiry.
	ClockSkew Duration `yaml:"clock_skew"`

	// BcryptCost is the password hashing cost factor.
	BcryptCost int `yaml:"bcrypt_cost"`

	Store     StoreConfig     `yaml:"store"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
}

// Default returns a Config with default values. The secret has no
// default; it must come from the file or environment.
func Default() *Config {
	return &Config{
		Addr:       DefaultAddr,
		TokenTTL:   Duration(DefaultTokenTTL),
		BcryptCost: DefaultBcryptCost,
		Store: StoreConfig{
			Driver:        "memory",
			MongoDatabase: DefaultMongoDatabase,
		},
		RateLimit: RateLimitConfig{
			Rate:   DefaultAuthRateLimit,
			Window: Duration(DefaultAuthRateWindow),
		},
	}
}

// Load reads configuration from an optional YAML file, applies
// environment overrides, and validates the result. An empty path skips
// the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv overrides file values from the environment.
func (c *Config) applyEnv() {
	if v := os.Getenv("TASKTRACK_ADDR"); v != "" {
		c.Addr = v
	}
	if v := os.Getenv("TASKTRACK_SECRET"); v != "" {
		c.Secret = v
	}
	if v := os.Getenv("TASKTRACK_MONGO_URI"); v != "" {
		c.Store.MongoURI = v
	}
	if v := os.Getenv("TASKTRACK_MONGO_DATABASE"); v != "" {
		c.Store.MongoDatabase = v
	}
	if v := os.Getenv("TASKTRACK_REDIS_ADDR"); v != "" {
		c.RateLimit.RedisAddr = v
	}
	if v := os.Getenv("TASKTRACK_TOKEN_TTL"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.TokenTTL = Duration(parsed)
		}
	}
	if v := os.Getenv("TASKTRACK_CLOCK_SKEW"); v != "" {
		if parsed, err := time.ParseDuration(v); err == nil {
			c.ClockSkew = Duration(parsed)
		}
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Secret == "" {
		return fmt.Errorf("config: signing secret is required")
	}
	if len(c.Secret) < MinSecretLength {
		return fmt.Errorf("config: secret must be at least %d characters", MinSecretLength)
	}
	if c.TokenTTL <= 0 {
		return fmt.Errorf("config: token TTL must be positive")
	}
	if c.ClockSkew < 0 {
		return fmt.Errorf("config: clock skew cannot be negative")
	}
	if c.RateLimit.Rate < 0 {
		return fmt.Errorf("config: rate limit cannot be negative")
	}

	if c.Store.Driver == "" {
		if c.Store.MongoURI != "" {
			c.Store.Driver = "mongo"
		} else {
			c.Store.Driver = "memory"
		}
	}
	switch c.Store.Driver {
	case "memory":
	case "mongo":
		if c.Store.MongoURI == "" {
			return fmt.Errorf("config: mongo driver requires a mongo_uri")
		}
		if c.Store.MongoDatabase == "" {
			c.Store.MongoDatabase = DefaultMongoDatabase
		}
	default:
		return fmt.Errorf("config: unsupported store driver %q", c.Store.Driver)
	}

	return nil
}
