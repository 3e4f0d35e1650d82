package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/mcoot/pokernotes/internal/api"
	"github.com/mcoot/pokernotes/internal/config"
	"github.com/mcoot/pokernotes/internal/factory"
)

func main() {
	// Read configuration from the environment
	srvCfg, err := config.Load()
	if err != nil {
		slog.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: srvCfg.Level(),
	}))
	slog.SetDefault(logger)

	cfg, err := factory.ConfigFromServer(srvCfg, logger)
	if err != nil {
		logger.Error("invalid configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Create application factory
	app, err := factory.New(cfg)
	if err != nil {
		logger.Error("failed to create application", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer func() {
		if err := app.Close(); err != nil {
			logger.Warn("failed to close storage", slog.String("error", err.Error()))
		}
	}()

	// Create API router
	router := api.NewRouter(api.RouterConfig{
		Logger:         logger,
		Metrics:        app.Metrics,
		AuthService:    app.AuthService,
		PlayerService:  app.PlayerService,
		ProfileService: app.ProfileService,
		HealthCheck:    app.HealthCheck,
	})

	// Create server
	serverConfig := api.DefaultServerConfig()
	serverConfig.Host = srvCfg.Host
	serverConfig.Port = srvCfg.Port
	server := api.NewServer(router, serverConfig, logger)

	// Cancelled on SIGINT or SIGTERM
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.RunSessionCleaner(ctx, srvCfg.SessionCleanInterval, logger)

	logger.Info("server starting",
		slog.String("addr", server.Addr()),
		slog.String("storage", srvCfg.Storage),
		slog.String("timezone", srvCfg.TimeZone),
	)

	if err := server.Run(ctx); err != nil {
		logger.Error("server error", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("server stopped")
}
