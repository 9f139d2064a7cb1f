// Command server runs the sqlbridge host process. The default mode serves
// the MCP tool surface over stdio for a calling agent; http mode serves the
// JSON API and the streamable MCP endpoint.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	sqlbridge "github.com/sqlbridge/sqlbridge"
	"github.com/sqlbridge/sqlbridge/mcp"
)

func main() {
	var (
		configPath = flag.String("config", "", "path to the registry file (default: ~/.sqlbridge/config.json)")
		mode       = flag.String("mode", "mcp", "serving mode: mcp (stdio), mcp-http (streamable HTTP) or http (JSON API)")
		addr       = flag.String("addr", "127.0.0.1:8457", "listen address for the http modes")
		verbose    = flag.Bool("v", false, "enable debug logging")
	)
	flag.Parse()

	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	// Logs go to stderr; stdout belongs to the stdio MCP transport.
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := run(*configPath, *mode, *addr, logger); err != nil {
		logger.Error("fatal", "error", err)
		os.Exit(1)
	}
}

func run(configPath, mode, addr string, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	bridge, err := sqlbridge.New(
		sqlbridge.WithConfigPath(configPath),
		sqlbridge.WithLogger(logger),
	)
	if err != nil {
		return fmt.Errorf("initialise bridge: %w", err)
	}
	defer bridge.Close()

	srv := mcp.New(bridge, logger)

	switch mode {
	case "mcp":
		return srv.ServeStdio(ctx)
	case "mcp-http":
		return srv.ServeHTTP(ctx, addr)
	case "http":
		return serveHTTP(ctx, bridge, addr, logger)
	default:
		return fmt.Errorf("unknown mode: %s", mode)
	}
}

// serveHTTP runs the JSON API until ctx is cancelled.
func serveHTTP(ctx context.Context, bridge *sqlbridge.Bridge, addr string, logger *slog.Logger) error {
	mux := http.NewServeMux()
	mux.Handle("/api", bridge.Handler())

	httpSrv := &http.Server{Addr: addr, Handler: sqlbridge.RequestLogger(logger, mux)}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("json api listening", "addr", addr)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return httpSrv.Shutdown(context.Background())
	case err := <-errCh:
		return err
	}
}
