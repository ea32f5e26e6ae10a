package cli

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/knotedit/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the document store over HTTP",
		Long: `Serve the document store over a JSON HTTP API.

Edits made through the API keep an undo history per document and stay in
memory until POST /documents/{id}/save. Interrupting the server discards
unsaved changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.config()
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Server.Addr = addr
			}
			ctx := cmd.Context()
			st, err := c.openStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close()

			logger := loggerFromContext(ctx)
			rc := newCache(false)
			defer rc.Close()
			srv := server.New(st, cfg, server.WithLogger(logger), server.WithRenderCache(rc))
			defer srv.Close()

			ln, err := net.Listen("tcp", cfg.Server.Addr)
			if err != nil {
				return err
			}
			printInfo(cmd.OutOrStdout(), "Listening on http://%s", ln.Addr())
			return serve(ctx, &http.Server{Handler: srv, ReadHeaderTimeout: 10 * time.Second}, ln,
				time.Duration(cfg.Server.ShutdownSeconds)*time.Second)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")
	return cmd
}

// serve runs hs on ln until ctx is done, then shuts it down gracefully
// within grace.
func serve(ctx context.Context, hs *http.Server, ln net.Listener, grace time.Duration) error {
	logger := loggerFromContext(ctx)
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		if err := hs.Serve(ln); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), grace)
		defer cancel()
		return hs.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
