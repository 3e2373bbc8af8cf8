package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"fund-investment-service/config"
	"fund-investment-service/internal/api"
	"fund-investment-service/internal/auth"
	"fund-investment-service/internal/cache"
	"fund-investment-service/internal/database"
	"fund-investment-service/internal/investment"
	"fund-investment-service/internal/logging"
	"fund-investment-service/internal/scheduler"
	"fund-investment-service/internal/vault"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		bootLogger := logging.New(logging.Config{})
		bootLogger.Fatal().Err(err).Msg("failed to load configuration")
	}

	logger := logging.New(logging.Config{
		Level:      cfg.LoggingConfig.Level,
		JSONFormat: cfg.LoggingConfig.JSONFormat,
	})
	logger.Info().Msg("starting fund investment service")

	// Vault-sourced secrets override config-file values when enabled.
	vaultClient, err := vault.NewClient(vault.Config{
		Enabled:    cfg.VaultConfig.Enabled,
		Address:    cfg.VaultConfig.Address,
		Token:      cfg.VaultConfig.Token,
		SecretPath: cfg.VaultConfig.SecretPath,
		TLSEnabled: cfg.VaultConfig.TLSEnabled,
		CACert:     cfg.VaultConfig.CACert,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create vault client")
	}
	if vaultClient.Enabled() {
		if secret, err := vaultClient.GetSecret("db_password"); err == nil {
			cfg.DatabaseConfig.Password = secret
		} else {
			logger.Warn().Err(err).Msg("db password not found in vault, using config value")
		}
		if secret, err := vaultClient.GetSecret("jwt_secret"); err == nil {
			cfg.AuthConfig.JWTSecret = secret
		} else {
			logger.Warn().Err(err).Msg("jwt secret not found in vault, using config value")
		}
	}

	db, err := database.NewDB(database.Config{
		Host:     cfg.DatabaseConfig.Host,
		Port:     cfg.DatabaseConfig.Port,
		User:     cfg.DatabaseConfig.User,
		Password: cfg.DatabaseConfig.Password,
		Database: cfg.DatabaseConfig.Database,
		SSLMode:  cfg.DatabaseConfig.SSLMode,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := db.RunMigrations(migrateCtx); err != nil {
		cancelMigrate()
		logger.Fatal().Err(err).Msg("failed to run migrations")
	}
	cancelMigrate()

	balanceCache, err := cache.NewBalanceCache(cache.Config{
		Enabled:  cfg.RedisConfig.Enabled,
		Address:  cfg.RedisConfig.Address,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
		TTL:      cfg.RedisConfig.TTL,
	}, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to redis")
	}
	if balanceCache != nil {
		defer balanceCache.Close()
	}

	repo := database.NewRepository(db)

	// A nil *BalanceCache must stay a nil interface inside the service.
	var investCache investment.BalanceCache
	if balanceCache != nil {
		investCache = balanceCache
	}

	investService := investment.NewService(
		investment.Config{
			CompanyID:           cfg.InvestmentConfig.CompanyID,
			MaxClaimableSeasons: cfg.InvestmentConfig.MaxClaimableSeasons,
			PayoutDelay:         cfg.InvestmentConfig.PayoutDelay,
		},
		repo, repo, repo, repo, repo,
		investCache,
		logger,
	)

	authService := auth.NewService(repo, auth.Config{
		JWTSecret:            cfg.AuthConfig.JWTSecret,
		AccessTokenDuration:  cfg.AuthConfig.AccessTokenDuration,
		RefreshTokenDuration: cfg.AuthConfig.RefreshTokenDuration,
		BcryptCost:           cfg.AuthConfig.BcryptCost,
	}, logger)

	settlementScheduler := scheduler.New(investService, scheduler.Config{
		CheckInterval: cfg.InvestmentConfig.CheckInterval,
		RunTimeout:    cfg.InvestmentConfig.RunTimeout,
	}, logger)
	if err := settlementScheduler.Start(); err != nil {
		logger.Fatal().Err(err).Msg("failed to start settlement scheduler")
	}

	handlers := api.NewHandlers(investService, authService, logger)
	server := api.NewServer(api.ServerConfig{
		Port:           cfg.ServerConfig.Port,
		Host:           cfg.ServerConfig.Host,
		ProductionMode: cfg.ServerConfig.ProductionMode,
		AllowOrigins:   cfg.ServerConfig.AllowedOrigins,
	}, repo, handlers, authService.JWTManager(), logger)

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigChan:
		logger.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	case err := <-serverErr:
		if err != nil {
			logger.Error().Err(err).Msg("server stopped unexpectedly")
		}
	}

	if err := settlementScheduler.Stop(); err != nil {
		logger.Warn().Err(err).Msg("scheduler stop failed")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}

	logger.Info().Msg("shutdown complete")
}
