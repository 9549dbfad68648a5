// Package cli implements the kintree command-line interface.
//
// Commands work on one tree at a time, taken either from a JSON file
// (--file tree.json) or from the configured store (--tree smith):
//
//   - person add|update|remove, relate, unrelate: edit the tree
//   - layout: write the derived view as layout.json
//   - suggest: list review suggestions, or browse them with -i
//   - placeholders: show where relatives of a person would go
//   - list: show the stored trees
//   - serve: run the HTTP API
//   - cache: manage the derivation cache
//
// Settings come from the TOML config (--config, default
// ~/.config/kintree/config.toml). --verbose switches logging to debug.
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/pkg/buildinfo"
	"github.com/matzehuels/kintree/pkg/cache"
	"github.com/matzehuels/kintree/pkg/config"
	"github.com/matzehuels/kintree/pkg/pipeline"
	"github.com/matzehuels/kintree/pkg/storage"
)

// =============================================================================
// Constants
// =============================================================================

// appName is the application name used for display.
const appName = config.AppName

// Log levels exported for use in main.go.
const (
	LogDebug = log.DebugLevel
	LogInfo  = log.InfoLevel
)

// =============================================================================
// CLI - Central CLI State
// =============================================================================

// CLI holds shared state for all commands.
type CLI struct {
	Logger *log.Logger

	// Config is loaded before every command runs.
	Config     config.Config
	configPath string
}

// New creates a new CLI instance with a default logger.
func New(w io.Writer, level log.Level) *CLI {
	return &CLI{
		Logger: newLogger(w, level),
		Config: config.Default(),
	}
}

// SetLogLevel updates the logger's level.
func (c *CLI) SetLogLevel(level log.Level) {
	c.Logger.SetLevel(level)
}

// RootCommand creates the root cobra command with all subcommands registered.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Kintree edits family trees and lays them out",
		Long:          `Kintree is a CLI tool for editing family trees and deriving their layout: card positions, connecting lines, placeholder slots and review suggestions.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return c.loadConfig()
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: ~/.config/kintree/config.toml)")

	root.AddCommand(c.personCommand())
	root.AddCommand(c.relateCommand())
	root.AddCommand(c.unrelateCommand())
	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.suggestCommand())
	root.AddCommand(c.placeholdersCommand())
	root.AddCommand(c.listCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

func (c *CLI) loadConfig() error {
	cfg, err := config.Load(c.configPath)
	if err != nil {
		return err
	}
	c.Config = cfg
	c.Logger.Debug("config loaded", "path", c.configPath, "cache", cfg.Cache.Backend, "storage", cfg.Storage.Backend)
	return nil
}

// =============================================================================
// Factories
// =============================================================================

// newRunner creates a pipeline runner for CLI use.
func (c *CLI) newRunner(ctx context.Context, noCache bool) (*pipeline.Runner, error) {
	cc, err := c.newCache(ctx, noCache)
	if err != nil {
		return nil, err
	}
	r := pipeline.NewRunner(cc, nil, c.Logger)
	r.TTL = c.Config.Cache.TTL.Duration
	return r, nil
}

func (c *CLI) newCache(ctx context.Context, noCache bool) (cache.Cache, error) {
	if noCache {
		return cache.NewNullCache(), nil
	}
	cc, err := c.Config.Cache.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("open cache: %w", err)
	}
	return cc, nil
}

func (c *CLI) newStore(ctx context.Context) (storage.Store, error) {
	s, err := c.Config.Storage.Open(ctx, c.Logger)
	if err != nil {
		return nil, fmt.Errorf("open store: %w", err)
	}
	return s, nil
}

// pipelineOptions returns derivation options seeded from the config.
func (c *CLI) pipelineOptions() pipeline.Options {
	return pipeline.Options{
		Settings: c.Config.Layout,
		Suggest:  c.Config.Suggest,
		Logger:   c.Logger,
	}
}
