package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/rpggio/punchclock/internal/app"
	"github.com/rpggio/punchclock/internal/config"
)

func newServeCmd(c *cli) *cobra.Command {
	var (
		transportMode string
		port          int
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the REST API and MCP over HTTP, or MCP over stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if transportMode != "" {
				c.cfg.Server.Transport = transportMode
			}
			if port != 0 {
				c.cfg.Server.Port = port
			}
			if err := c.cfg.Validate(); err != nil {
				return err
			}

			// Stdout carries JSON-RPC in stdio mode.
			logWriter := io.Writer(os.Stdout)
			if c.cfg.Server.Transport == config.TransportStdio {
				logWriter = os.Stderr
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			a, done, err := c.openApp(ctx, logWriter)
			if err != nil {
				return err
			}
			defer done()

			logger := a.Logger()
			if c.cfg.Server.Transport == config.TransportStdio {
				return runStdio(ctx, logger, a)
			}
			return runHTTP(ctx, logger, a, c.cfg)
		},
	}
	cmd.Flags().StringVar(&transportMode, "transport", "", "http or stdio (overrides config)")
	cmd.Flags().IntVarP(&port, "port", "p", 0, "listen port (overrides config)")
	return cmd
}

func runStdio(ctx context.Context, logger *slog.Logger, a *app.App) error {
	logger.Info("starting stdio transport", "auth", "disabled")
	err := a.MCPServer(config.TransportStdio).Run(ctx, &sdkmcp.StdioTransport{})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("stdio server: %w", err)
	}
	logger.Info("shutting down")
	return nil
}

func runHTTP(ctx context.Context, logger *slog.Logger, a *app.App, cfg config.Config) error {
	httpServer := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           a.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("server listening", "addr", httpServer.Addr, "auth", cfg.Auth.Enabled)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	})
	return g.Wait()
}
