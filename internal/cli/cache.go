package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/pkg/cache"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the statistics cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cacheSweepCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			store, err := c.newStore(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			// A zero retention window sweeps everything.
			count, err := store.Sweep(cmd.Context(), 0)
			if err != nil {
				return fmt.Errorf("clearing cache: %w", err)
			}
			printSuccess("Cleared %d cached entries", count)
			return nil
		},
	}
}

// cacheSweepCommand creates the "cache sweep" subcommand.
func (c *CLI) cacheSweepCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "sweep",
		Short: "Remove entries older than the retention window",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			store, err := c.newStore(cmd.Context(), cfg, false)
			if err != nil {
				return err
			}
			defer store.Close()

			count, err := store.Sweep(cmd.Context(), cache.RetentionWindow)
			if err != nil {
				return fmt.Errorf("sweeping cache: %w", err)
			}
			printSuccess("Removed %d stale entries", count)
			printDetail("Retention window: %s", cache.RetentionWindow)
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the cache directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			dir, err := cfg.CacheDir()
			if err != nil {
				return fmt.Errorf("get cache dir: %w", err)
			}
			fmt.Println(dir)
			return nil
		},
	}
}
