// Package config loads repopulse settings from a TOML file, with sensible
// defaults when no file exists.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/repopulse/repopulse/pkg/cache"
)

// Cache backend names accepted in the config file.
const (
	BackendFile  = "file"
	BackendRedis = "redis"
	BackendNone  = "none"
)

// Config holds every setting repopulse reads from disk. Zero values are
// filled in by Load, so a partial file is fine.
type Config struct {
	// Token authenticates GitHub requests. The GITHUB_TOKEN environment
	// variable takes precedence over the file.
	Token string `toml:"token"`

	Cache   CacheConfig   `toml:"cache"`
	Redis   RedisConfig   `toml:"redis"`
	Server  ServerConfig  `toml:"server"`
	History HistoryConfig `toml:"history"`
}

// CacheConfig selects and tunes the cache backend.
type CacheConfig struct {
	Backend string `toml:"backend"`
	Dir     string `toml:"dir"`
	TTL     string `toml:"ttl"`
}

// RedisConfig configures the redis backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Listen string `toml:"listen"`
}

// HistoryConfig configures snapshot archiving.
type HistoryConfig struct {
	Enabled  bool   `toml:"enabled"`
	MongoURI string `toml:"mongo_uri"`
	Database string `toml:"database"`
}

// DefaultPath returns the config file location under the user config
// directory, e.g. ~/.config/repopulse/config.toml.
func DefaultPath() (string, error) {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolving config directory: %w", err)
	}
	return filepath.Join(dir, "repopulse", "config.toml"), nil
}

// Load reads the config file at path. A missing file is not an error; it
// yields the defaults. An unreadable or malformed file is.
func Load(path string) (Config, error) {
	var cfg Config

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		// Defaults only.
	case err != nil:
		return Config{}, fmt.Errorf("reading config: %w", err)
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parsing config: %w", err)
		}
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyDefaults() {
	if env := os.Getenv("GITHUB_TOKEN"); env != "" {
		c.Token = env
	}
	if c.Cache.Backend == "" {
		c.Cache.Backend = BackendFile
	}
	if c.Cache.TTL == "" {
		c.Cache.TTL = cache.DefaultTTL.String()
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "localhost:6379"
	}
	if c.Server.Listen == "" {
		c.Server.Listen = ":8080"
	}
	if c.History.Database == "" {
		c.History.Database = "repopulse"
	}
}

func (c *Config) validate() error {
	switch c.Cache.Backend {
	case BackendFile, BackendRedis, BackendNone:
	default:
		return fmt.Errorf("unknown cache backend %q", c.Cache.Backend)
	}
	if _, err := c.TTL(); err != nil {
		return fmt.Errorf("invalid cache ttl %q: %w", c.Cache.TTL, err)
	}
	if c.History.Enabled && c.History.MongoURI == "" {
		return errors.New("history is enabled but mongo_uri is empty")
	}
	return nil
}

// TTL parses the configured cache lifetime.
func (c *Config) TTL() (time.Duration, error) {
	return time.ParseDuration(c.Cache.TTL)
}

// CacheDir returns the configured cache directory, defaulting to the user
// cache directory.
func (c *Config) CacheDir() (string, error) {
	if c.Cache.Dir != "" {
		return c.Cache.Dir, nil
	}
	dir, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolving cache directory: %w", err)
	}
	return filepath.Join(dir, "repopulse"), nil
}
