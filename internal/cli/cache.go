package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
)

// cacheCommand creates the cache management command.
func (c *CLI) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the derivation cache",
	}

	cmd.AddCommand(c.cacheClearCommand())
	cmd.AddCommand(c.cachePathCommand())

	return cmd
}

// cacheClearCommand creates the "cache clear" subcommand.
func (c *CLI) cacheClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Remove all cached layouts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cc, err := c.newCache(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer cc.Close()

			clearer, ok := cc.(cache.Clearer)
			if !ok {
				printInfo("Cache backend %q has nothing to clear", c.Config.Cache.Backend)
				return nil
			}
			count, err := clearer.Clear(cmd.Context())
			if err != nil {
				return fmt.Errorf("clear cache: %w", err)
			}

			printSuccess("Cleared %d cached entries", count)
			printDetail("Location: %s", c.cacheLocation())
			return nil
		},
	}
}

// cachePathCommand creates the "cache path" subcommand.
func (c *CLI) cachePathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print where cached layouts are kept",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintln(stdout, c.cacheLocation())
			return nil
		},
	}
}

// cacheLocation describes the cache: a directory, a redis address and key
// prefix, or "none".
func (c *CLI) cacheLocation() string {
	cfg := c.Config.Cache
	switch cfg.Backend {
	case config.CacheNone:
		return "none"
	case config.CacheRedis:
		return fmt.Sprintf("redis://%s/%d (prefix %q)", cfg.Redis.Addr, cfg.Redis.DB, cfg.Redis.Prefix)
	}
	if cfg.Dir != "" {
		return cfg.Dir
	}
	dir, err := config.CacheDir()
	if err != nil {
		return "unavailable"
	}
	return dir
}
