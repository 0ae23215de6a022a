// Package config loads herdstore configuration: built-in defaults, then an
// optional YAML file, then HERDSTORE_* environment variables.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/herd-ag/herdstore/internal/store"
)

// Config holds all application configuration.
type Config struct {
	// Storage settings.
	Database   string `yaml:"database"`    // file path or ":memory:"
	Driver     string `yaml:"driver"`      // "duckdb", "sqlite3" or "sqlite"
	OnConflict string `yaml:"on_conflict"` // "overwrite" or "reject"
	Catalog    string `yaml:"catalog"`     // optional CUE file overriding the default layout

	// Server settings.
	HTTPAddr        string        `yaml:"http_addr"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// Operational settings.
	LogLevel string `yaml:"log_level"` // "debug", "info", "warn" or "error"
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Database:        "herd.duckdb",
		Driver:          string(store.DriverDuckDB),
		OnConflict:      string(store.Overwrite),
		HTTPAddr:        ":8080",
		ShutdownTimeout: 10 * time.Second,
		LogLevel:        "info",
	}
}

// Load builds the configuration. path names an optional YAML file; an empty
// path skips it. Environment variables override both.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return Config{}, err
		}
	}

	var err error
	cfg.Database = envStr("HERDSTORE_DB", cfg.Database)
	cfg.Driver = envStr("HERDSTORE_DRIVER", cfg.Driver)
	cfg.OnConflict = envStr("HERDSTORE_ON_CONFLICT", cfg.OnConflict)
	cfg.Catalog = envStr("HERDSTORE_CATALOG", cfg.Catalog)
	cfg.HTTPAddr = envStr("HERDSTORE_HTTP_ADDR", cfg.HTTPAddr)
	cfg.LogLevel = envStr("HERDSTORE_LOG_LEVEL", cfg.LogLevel)
	if cfg.ShutdownTimeout, err = envDuration("HERDSTORE_SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return Config{}, err
	}

	return cfg, cfg.Validate()
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// Validate checks that the configuration is usable.
func (c Config) Validate() error {
	var errs []error
	if c.Database == "" {
		errs = append(errs, errors.New("database is required"))
	}
	if _, err := store.ParseDriver(c.Driver); err != nil {
		errs = append(errs, err)
	}
	if _, err := store.ParseConflictPolicy(c.OnConflict); err != nil {
		errs = append(errs, err)
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		errs = append(errs, err)
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, fmt.Errorf("shutdown_timeout must not be negative, got %s", c.ShutdownTimeout))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}

// Level returns the configured log level. Call after Validate.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel parses a log level name. The empty string means info.
func ParseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("unknown log level %q (valid: debug, info, warn, error)", name)
	}
}

func envStr(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func envDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s=%q is not a valid duration", key, v)
	}
	return d, nil
}
