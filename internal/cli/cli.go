// Package cli implements the repopulse command-line interface.
package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/internal/config"
	"github.com/repopulse/repopulse/pkg/buildinfo"
	"github.com/repopulse/repopulse/pkg/cache"
	"github.com/repopulse/repopulse/pkg/github"
	"github.com/repopulse/repopulse/pkg/pipeline"
)

// appName is the application name used for directories and display.
const appName = "repopulse"

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	configPath string
	cfg        *config.Config
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: log.NewWithOptions(w, log.Options{
			ReportTimestamp: true,
			TimeFormat:      "15:04:05.00",
			Level:           level,
		}),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:          appName,
		Short:        "Repopulse shows live GitHub repository statistics",
		Long:         `Repopulse fetches stars, forks, downloads, commits, contributors, languages and releases for a GitHub repository, caches them locally, and renders them as a terminal dashboard, a live view, or a JSON API.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "path to config file (default: user config dir)")

	root.AddCommand(c.showCommand())
	root.AddCommand(c.watchCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// config loads the TOML config once per invocation.
func (c *CLI) config() (config.Config, error) {
	if c.cfg != nil {
		return *c.cfg, nil
	}
	path := c.configPath
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	cfg, err := config.Load(path)
	if err != nil {
		return config.Config{}, err
	}
	c.cfg = &cfg
	return cfg, nil
}

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, cache.Store, error) {
	cfg, err := c.config()
	if err != nil {
		return nil, nil, err
	}

	store, err := c.newStore(ctx, cfg, noCache)
	if err != nil {
		return nil, nil, err
	}

	client := github.NewClient(cfg.Token)
	runner := pipeline.NewRunner(client, store, c.Logger)
	if ttl, err := cfg.TTL(); err == nil {
		runner.SetDefaultTTL(ttl)
	}
	return runner, store, nil
}

// newStore builds the configured cache backend. A backend that cannot be
// initialized degrades to the null store rather than failing the command.
func (c *CLI) newStore(ctx context.Context, cfg config.Config, noCache bool) (cache.Store, error) {
	if noCache || cfg.Cache.Backend == config.BackendNone {
		return cache.NewNullStore(), nil
	}

	switch cfg.Cache.Backend {
	case config.BackendRedis:
		store, err := cache.NewRedisStore(ctx, cache.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err != nil {
			c.Logger.Warn("redis unavailable, caching disabled", "addr", cfg.Redis.Addr, "err", err)
			return cache.NewNullStore(), nil
		}
		return store, nil
	default:
		dir, err := cfg.CacheDir()
		if err != nil {
			return cache.NewNullStore(), nil
		}
		store, err := cache.NewFileStore(dir)
		if err != nil {
			c.Logger.Warn("cache directory unavailable, caching disabled", "dir", dir, "err", err)
			return cache.NewNullStore(), nil
		}
		c.sweep(ctx, store)
		return store, nil
	}
}

// sweep evicts entries past the retention window at startup.
func (c *CLI) sweep(ctx context.Context, store cache.Store) {
	removed, err := store.Sweep(ctx, cache.RetentionWindow)
	if err != nil {
		c.Logger.Debug("cache sweep failed", "err", err)
		return
	}
	if removed > 0 {
		c.Logger.Debug("cache sweep removed stale entries", "count", removed)
	}
}

// parseRepo splits an "owner/repo" argument. A full GitHub URL is accepted
// for convenience.
func parseRepo(arg string) (owner, repo string, err error) {
	s := strings.TrimSuffix(arg, ".git")
	s = strings.TrimPrefix(s, "https://github.com/")
	s = strings.TrimPrefix(s, "http://github.com/")
	s = strings.TrimPrefix(s, "github.com/")
	s = strings.Trim(s, "/")

	parts := strings.Split(s, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repository %q, expected owner/repo", arg)
	}
	return parts[0], parts[1], nil
}
