// Package config loads server settings from defaults, an optional YAML file
// and VRT_* environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/erazemk/vrt/internal/kv"
)

// DSNs used when a store is selected without one.
const (
	DefaultSQLiteDSN = "vrt.sqlite3"
	DefaultRedisDSN  = "redis://localhost:6379/0"
)

// Config holds runtime settings.
type Config struct {
	// Addr is the HTTP listen address.
	Addr string `yaml:"addr"`
	// Store is the key-value backend: sqlite, redis or memory.
	Store string `yaml:"store"`
	// DSN is the SQLite file path or redis:// URL. Empty means the store's
	// default.
	DSN string `yaml:"dsn"`
	// LogPath, if set, also receives all log output.
	LogPath string `yaml:"log"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		Addr:  ":8080",
		Store: kv.DriverSQLite,
	}
}

// Load returns the defaults overlaid with the YAML file at path (skipped if
// path is empty) and then the environment. The result is not validated, so
// callers can apply further overrides before calling Finalize.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parse config: %w", err)
		}
	}

	if v := os.Getenv("VRT_ADDR"); v != "" {
		cfg.Addr = strings.TrimSpace(v)
	}
	if v := os.Getenv("VRT_STORE"); v != "" {
		cfg.Store = strings.TrimSpace(v)
	}
	if v := os.Getenv("VRT_DSN"); v != "" {
		cfg.DSN = strings.TrimSpace(v)
	}
	if v := os.Getenv("VRT_LOG"); v != "" {
		cfg.LogPath = strings.TrimSpace(v)
	}

	return cfg, nil
}

// DefaultDSN returns the DSN used for store when none is configured.
func DefaultDSN(store string) string {
	switch store {
	case kv.DriverSQLite:
		return DefaultSQLiteDSN
	case kv.DriverRedis:
		return DefaultRedisDSN
	}
	return ""
}

// Finalize fills in the store's default DSN if none is set and validates
// the result.
func (c Config) Finalize() (Config, error) {
	if c.DSN == "" {
		c.DSN = DefaultDSN(c.Store)
	}
	return c, c.Validate()
}

// Validate checks that the settings are usable.
func (c Config) Validate() error {
	switch c.Store {
	case kv.DriverSQLite, kv.DriverMemory:
	case kv.DriverRedis:
		if !hasAnyPrefix(c.DSN, "redis://", "rediss://", "unix://") {
			return fmt.Errorf("redis store needs a redis://, rediss:// or unix:// dsn, got %q", c.DSN)
		}
	default:
		return fmt.Errorf("invalid store %q (want sqlite, redis or memory)", c.Store)
	}
	if c.Store == kv.DriverSQLite && c.DSN == "" {
		return fmt.Errorf("dsn required for sqlite store")
	}
	if c.Addr == "" {
		return fmt.Errorf("addr required")
	}
	return nil
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if strings.HasPrefix(s, p) {
			return true
		}
	}
	return false
}
