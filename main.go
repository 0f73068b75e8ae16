// Package main provides the entry point for the qvr quantum vulnerability registry service:
// the HTTP API server and its operator commands.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/quantumx/qvr-backend/config"
	"github.com/quantumx/qvr-backend/internal/api"
	"github.com/quantumx/qvr-backend/internal/services"
	"github.com/quantumx/qvr-backend/restapi/modules/auth"
	"github.com/quantumx/qvr-backend/util"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	configPath string
	logLevel   string
)

var rootCmd = &cobra.Command{
	Use:   "qvr",
	Short: "Quantum vulnerability registry backend",
	Long: `qvr serves the quantum vulnerability registry: a public list of published
systems at risk from quantum attacks, anonymous submissions and an authenticated
admin API for reviewing them.

Running qvr without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level")
	rootCmd.AddCommand(serveCmd)
}

// loadConfig reads the configuration and builds the logger every command uses.
func loadConfig() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, err
	}
	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	return cfg, util.InitLogger(cfg.LogLevel), nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := loadConfig()
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	registry, err := services.NewRegistry(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to open registry: %w", err)
	}
	defer func() {
		if err := registry.Close(); err != nil {
			logger.Warn("failed to close event publisher", zap.Error(err))
		}
	}()

	tokens, err := auth.NewTokens(cfg.Auth.JWTSecret, logger)
	if err != nil {
		return err
	}
	users, err := auth.LoadDirectory(cfg.Auth, logger)
	if err != nil {
		return err
	}
	authSvc := &auth.Service{Tokens: tokens, Users: users, SecureCookies: cfg.Auth.SecureCookies}

	app, err := api.NewFiberApp(cfg, registry.Repo, authSvc, logger)
	if err != nil {
		return fmt.Errorf("failed to build app: %w", err)
	}

	go func() {
		<-ctx.Done()
		logger.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			logger.Warn("shutdown failed", zap.Error(err))
		}
	}()

	logger.Info("starting server",
		zap.String("port", cfg.Server.Port),
		zap.String("backend", registry.Repo.BackendName()),
		zap.Bool("events", cfg.Kafka.Enabled()))
	logger.Info("GraphQL endpoint available at /api/v1/graphql")

	if err := app.Listen(":" + cfg.Server.Port); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}
	return nil
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
