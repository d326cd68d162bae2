package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wgomg/agenthub/internal/agents"
	"github.com/wgomg/agenthub/internal/api"
	"github.com/wgomg/agenthub/internal/config"
	"github.com/wgomg/agenthub/internal/mcpserver"
	"github.com/wgomg/agenthub/internal/relay"
	"github.com/wgomg/agenthub/internal/utils"
)

const version = "1.0.0"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "agenthub",
		Short:         "Hello World Agent System",
		Long:          "agenthub serves a catalog of small agents over HTTP and MCP and runs them from the command line.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runServe,
	}

	root.PersistentFlags().String("port", "", "port to listen on (APP_SERVER_PORT)")
	root.PersistentFlags().String("log-level", "", "debug, info, warn or error (APP_LOG_LEVEL)")
	root.PersistentFlags().String("env", "", "development or production (APP_ENV)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE:  runServe,
	}

	root.AddCommand(serve, newEvalCmd(), newSummarizeCmd(), newAgentsCmd(), newRunCmd())
	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// setup loads configuration and builds the services every command shares.
func setup(cmd *cobra.Command) (*config.Config, *utils.Logger, *agents.Registry, error) {
	cfg, err := config.Load(cmd.Flags())
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := utils.NewLogger(cfg.App.LogLevel, cfg.App.RawBodyLog, cfg.App.Env == config.Production)

	rl, err := relay.New(cfg, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to create relay: %w", err)
	}

	registry, err := agents.NewDefaultRegistry(cfg, rl, logger)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("failed to build agent registry: %w", err)
	}

	return cfg, logger, registry, nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, registry, err := setup(cmd)
	if err != nil {
		return err
	}
	defer logger.Sync()

	logger.Info(nil, "Starting Hello World Agent System %s", version)
	logger.Info(nil, "Environment: %s", cfg.App.Env)
	logger.Info(nil, "Log level: %s", cfg.App.LogLevel)

	doc, err := api.LoadOpenAPI(cmd.Context())
	if err != nil {
		return err
	}

	handler := api.NewHandler(logger, registry, doc)
	mcp := mcpserver.New(registry, logger, version)
	router := api.NewRouter(handler, mcp.Handler(), logger)

	server := &http.Server{
		Addr:              "0.0.0.0:" + cfg.App.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: time.Duration(cfg.App.HttpTimeoutSeconds) * time.Second,
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		logger.Info(nil, "Shutting down server gracefully...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error(nil, "Error during shutdown: %v", err)
		}
	}()

	logger.Info(nil, "Starting server on port %s", cfg.App.ServerPort)
	logger.Info(nil, "Endpoints:")
	logger.Info(nil, "  GET  /health")
	logger.Info(nil, "  GET  /agents")
	logger.Info(nil, "  GET  /agent/{name}")
	logger.Info(nil, "  POST /agents/{name}")
	logger.Info(nil, "  POST /dynamic-agents/{name}")
	logger.Info(nil, "  GET  /openapi.json")
	logger.Info(nil, "  *    /mcp")

	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	logger.Info(nil, "Server stopped")
	return nil
}
