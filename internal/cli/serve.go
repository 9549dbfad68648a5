package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/kintree/internal/api"
	"github.com/matzehuels/kintree/pkg/observability"
)

func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve stored trees over HTTP",
		Long: `Serve the stored trees over a JSON HTTP API. Edits are saved to the
configured store; each tree keeps an undo history while the server runs.

The server stops gracefully on interrupt.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			hooks := observability.NewLogHooks(c.Logger)
			observability.SetDeriveHooks(hooks)
			observability.SetCacheHooks(hooks)
			observability.SetHTTPHooks(hooks)
			defer observability.Reset()

			store, err := c.newStore(ctx)
			if err != nil {
				return err
			}
			defer store.Close()

			runner, err := c.newRunner(ctx, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			srv := c.Config.Server
			if cmd.Flags().Changed("addr") {
				srv.Addr = addr
			}

			server := api.New(api.Config{
				Store:        store,
				Runner:       runner,
				Logger:       c.Logger,
				Settings:     c.Config.Layout,
				Suggest:      c.Config.Suggest,
				HistoryLimit: srv.HistoryLimit,
			})
			return server.Serve(ctx, api.ServeOptions{
				Addr:            srv.Addr,
				ReadTimeout:     srv.ReadTimeout.Duration,
				WriteTimeout:    srv.WriteTimeout.Duration,
				ShutdownTimeout: srv.ShutdownTimeout.Duration,
			})
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}
