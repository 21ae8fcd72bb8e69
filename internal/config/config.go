// Package config loads the sign-up service configuration from an optional
// YAML file and environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage drivers.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverRedis    = "redis"
)

// DevCheckoutSecret signs checkout tokens when no secret is configured.
const DevCheckoutSecret = "dev-checkout-secret-change-in-production"

var ErrInvalidConfig = errors.New("invalid config")

// Config is the complete service configuration.
type Config struct {
	Server   Server   `yaml:"server"`
	Storage  Storage  `yaml:"storage"`
	Checkout Checkout `yaml:"checkout"`
	Log      Log      `yaml:"log"`
}

// Server captures HTTP server level configuration.
type Server struct {
	Addr string `yaml:"addr"`
	// MetricsAddr serves /metrics on its own listener; empty serves it on Addr.
	MetricsAddr string `yaml:"metrics_addr"`
}

// Storage selects and configures the snapshot backend.
type Storage struct {
	Driver string `yaml:"driver"`
	// Path is the SQLite database file, or the directory of the file driver.
	Path     string `yaml:"path"`
	DSN      string `yaml:"dsn"`
	RedisURL string `yaml:"redis_url"`
	// Retention is how long an untouched snapshot is kept. Redis expires keys
	// natively; SQL backends are swept every SweepInterval.
	Retention     time.Duration `yaml:"retention"`
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// Checkout configures the handoff to the external checkout.
type Checkout struct {
	URL      string        `yaml:"url"`
	Secret   string        `yaml:"secret"`
	TokenTTL time.Duration `yaml:"token_ttl"`
}

// Log configures pkg/logging.
type Log struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		Server: Server{Addr: ":8080"},
		Storage: Storage{
			Driver:        DriverSQLite,
			Path:          "./data/signup.db",
			Retention:     30 * 24 * time.Hour,
			SweepInterval: time.Hour,
		},
		Checkout: Checkout{
			URL:      "https://checkout.exemplo.com",
			Secret:   DevCheckoutSecret,
			TokenTTL: 15 * time.Minute,
		},
		Log: Log{Level: "info"},
	}
}

// Load reads path (when not empty) over the defaults, then applies
// environment overrides and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"SIGNUP_ADDR", &c.Server.Addr},
		{"SIGNUP_METRICS_ADDR", &c.Server.MetricsAddr},
		{"SIGNUP_STORAGE", &c.Storage.Driver},
		{"SIGNUP_DB_PATH", &c.Storage.Path},
		{"SIGNUP_POSTGRES_DSN", &c.Storage.DSN},
		{"SIGNUP_REDIS_URL", &c.Storage.RedisURL},
		{"SIGNUP_CHECKOUT_URL", &c.Checkout.URL},
		{"SIGNUP_CHECKOUT_SECRET", &c.Checkout.Secret},
		{"LOG_LEVEL", &c.Log.Level},
		{"LOG_FORMAT", &c.Log.Format},
	}
	for _, s := range strs {
		if v, ok := lookup(s.key); ok && v != "" {
			*s.dst = v
		}
	}

	durations := []struct {
		key string
		dst *time.Duration
	}{
		{"SIGNUP_SNAPSHOT_RETENTION", &c.Storage.Retention},
		{"SIGNUP_SWEEP_INTERVAL", &c.Storage.SweepInterval},
		{"SIGNUP_CHECKOUT_TOKEN_TTL", &c.Checkout.TokenTTL},
	}
	for _, d := range durations {
		v, ok := lookup(d.key)
		if !ok || v == "" {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s: %v", ErrInvalidConfig, d.key, err)
		}
		*d.dst = parsed
	}
	return nil
}

// Validate reports the first configuration problem found.
func (c Config) Validate() error {
	if c.Server.Addr == "" {
		return fmt.Errorf("%w: server address is required", ErrInvalidConfig)
	}
	switch c.Storage.Driver {
	case DriverMemory:
	case DriverFile, DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("%w: storage path is required for %s", ErrInvalidConfig, c.Storage.Driver)
		}
	case DriverPostgres:
		if c.Storage.DSN == "" {
			return fmt.Errorf("%w: storage dsn is required for postgres", ErrInvalidConfig)
		}
	case DriverRedis:
		if c.Storage.RedisURL == "" {
			return fmt.Errorf("%w: redis_url is required for redis", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}
	if c.Storage.Retention < 0 || c.Storage.SweepInterval < 0 {
		return fmt.Errorf("%w: retention and sweep interval must not be negative", ErrInvalidConfig)
	}
	if c.Checkout.URL == "" {
		return fmt.Errorf("%w: checkout url is required", ErrInvalidConfig)
	}
	if c.Checkout.Secret == "" {
		return fmt.Errorf("%w: checkout secret is required", ErrInvalidConfig)
	}
	if c.Checkout.TokenTTL <= 0 {
		return fmt.Errorf("%w: checkout token_ttl must be positive", ErrInvalidConfig)
	}
	return nil
}
