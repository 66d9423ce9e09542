package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/mcoot/stakeledger/internal/api"
	"github.com/mcoot/stakeledger/internal/factory"
	"github.com/mcoot/stakeledger/internal/services/auth"
	"github.com/mcoot/stakeledger/internal/services/wallet"
	redisstorage "github.com/mcoot/stakeledger/internal/storage/redis"
	"github.com/mcoot/stakeledger/internal/storage/sqlite"
)

func main() {
	// A missing .env file is fine; the process environment still applies
	_ = godotenv.Load()

	// Set up logging with JSON output
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel(os.Getenv("LOG_LEVEL")),
	}))
	slog.SetDefault(logger)

	cfg, serverConfig, err := loadConfig(logger)
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
			logger.Error("failed to close application", slog.String("error", err.Error()))
		}
	}()

	app.Scheduler.Start()

	router := api.NewRouter(api.RouterConfig{
		Logger:        logger,
		AuthService:   app.AuthService,
		WalletService: app.WalletService,
		CashGames:     app.CashGames,
		Tournaments:   app.Tournaments,
	})

	server := api.NewServer(router, serverConfig, logger)

	// Handle graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := server.Listen(); err != nil {
		logger.Error("failed to bind", slog.String("error", err.Error()))
		os.Exit(1)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Serve()
	}()

	logger.Info("server started",
		slog.String("addr", server.Addr()),
		slog.String("storage", cfg.StorageType),
		slog.Bool("faucet", app.WalletService.FaucetEnabled()),
	)

	// Wait for shutdown or error
	select {
	case err := <-errCh:
		if err != nil {
			logger.Error("server error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	case <-ctx.Done():
		logger.Info("shutdown signal received")
		if err := server.Shutdown(context.Background()); err != nil {
			logger.Error("shutdown error", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("server stopped")
}

// loadConfig builds the factory and server configuration from the environment
func loadConfig(logger *slog.Logger) (factory.Config, api.ServerConfig, error) {
	cfg := factory.Config{
		Logger:      logger,
		StorageType: os.Getenv("STORAGE_TYPE"),
		AuthConfig:  auth.DefaultConfig(),
	}
	if cfg.StorageType == "" {
		cfg.StorageType = factory.StorageTypeMemory
	}
	serverConfig := api.DefaultServerConfig()

	switch cfg.StorageType {
	case factory.StorageTypeRedis:
		redisURL := os.Getenv("REDIS_URL")
		if redisURL == "" {
			return cfg, serverConfig, fmt.Errorf("REDIS_URL required when STORAGE_TYPE=redis")
		}
		redisCfg := redisstorage.DefaultConfig()
		redisCfg.URL = redisURL
		redisCfg.KeyPrefix = os.Getenv("REDIS_KEY_PREFIX")
		cfg.RedisConfig = &redisCfg
	case factory.StorageTypeSQLite:
		sqliteCfg := sqlite.DefaultConfig()
		if path := os.Getenv("SQLITE_PATH"); path != "" {
			sqliteCfg.Path = path
		}
		cfg.SQLiteConfig = &sqliteCfg
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return cfg, serverConfig, fmt.Errorf("PORT: %w", err)
		}
		serverConfig.Port = port
	}

	if v := os.Getenv("FAUCET_LIMIT"); v != "" {
		limit, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return cfg, serverConfig, fmt.Errorf("FAUCET_LIMIT: %w", err)
		}
		cfg.WalletConfig = wallet.Config{FaucetLimit: limit}
	}

	if v := os.Getenv("SESSION_DURATION"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, serverConfig, fmt.Errorf("SESSION_DURATION: %w", err)
		}
		cfg.AuthConfig.SessionDuration = d
	}

	if v := os.Getenv("SESSION_PURGE_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return cfg, serverConfig, fmt.Errorf("SESSION_PURGE_INTERVAL: %w", err)
		}
		cfg.SessionPurgeInterval = d
	}

	return cfg, serverConfig, nil
}

func logLevel(v string) slog.Level {
	var level slog.Level
	if err := level.UnmarshalText([]byte(v)); err != nil {
		return slog.LevelInfo
	}
	return level
}
