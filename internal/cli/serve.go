package cli

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/repopulse/repopulse/internal/server"
	"github.com/repopulse/repopulse/pkg/history"
)

// serveCommand creates the "serve" command exposing statistics over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var listen string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve repository statistics as a JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if listen == "" {
				listen = cfg.Server.Listen
			}

			runner, store, err := c.newRunner(cmd.Context(), false)
			if err != nil {
				return err
			}
			defer store.Close()

			var archive history.Store
			if cfg.History.Enabled {
				archive, err = history.NewMongoStore(cmd.Context(), cfg.History.MongoURI, cfg.History.Database)
				if err != nil {
					return err
				}
				defer func() {
					ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
					defer cancel()
					_ = archive.Close(ctx)
				}()
			}

			srv := &http.Server{
				Addr:              listen,
				Handler:           server.New(runner, archive, c.Logger).Handler(),
				ReadHeaderTimeout: 10 * time.Second,
			}

			errc := make(chan error, 1)
			go func() {
				c.Logger.Info("listening", "addr", listen)
				errc <- srv.ListenAndServe()
			}()

			select {
			case err := <-errc:
				return err
			case <-cmd.Context().Done():
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := srv.Shutdown(ctx); err != nil {
					return err
				}
				if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			}
		},
	}

	cmd.Flags().StringVar(&listen, "listen", "", "listen address (default from config, :8080)")

	return cmd
}
