package cli

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/example/taskboard/internal/adapters/mcptools"
	"github.com/example/taskboard/internal/wire"
)

const shutdownTimeout = 10 * time.Second

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API, web UI and MCP HTTP endpoints",
		Long: `Serve the board over HTTP until interrupted.

Routes:
  /api/...         JSON API
  /                web UI (server.public_dir) or a fallback page
  /mcp             MCP streamable HTTP
  /sse, /message   MCP server-sent events`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Init(); err != nil {
				return err
			}
			defer wire.Close()

			cfg, _ := wire.Config()
			if addr == "" {
				addr = cfg.Server.Addr
			}
			logger := wire.Logger()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			e := wire.HTTPServer()
			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				logger.WithField("addr", addr).Info("http server listening")
				if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
					return err
				}
				return nil
			})

			g.Go(func() error {
				<-ctx.Done()
				logger.Info("shutting down")
				shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
				defer cancel()
				return e.Shutdown(shutdownCtx)
			})

			return g.Wait()
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (default from config)")
	return cmd
}

// MCPCmd returns the mcp command
func MCPCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the MCP tools over stdio",
		Long: `Serve the board tools over the MCP stdio transport, for MCP clients that
launch taskboard as a subprocess. Logs go to stderr.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := wire.Init(); err != nil {
				return err
			}
			defer wire.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			wire.Logger().Info("mcp stdio server started")
			err := mcptools.ServeStdio(ctx, wire.MCPServer(), os.Stdin, os.Stdout)
			if err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
}
