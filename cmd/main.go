package main

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/config"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/db"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/handler"
	repo "github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/repository/postgres"
	"github.com/gangdaolongmi10-cmyk/hudorosu-sub000/internal/auth/service"
)

func main() {
	cfg := config.Load()

	logger, err := newLogger(cfg.Env)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := db.NewPostgresPool(context.Background(), cfg.DBURL)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	defer pool.Close()

	accountRepo := repo.NewRepository(pool)
	tokenIssuer := service.NewTokenIssuer(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryDays)
	authService := service.NewAuthService(accountRepo, tokenIssuer, cfg, logger)
	authHandler := handler.NewAuthHandler(authService, tokenIssuer)

	app := fiber.New()
	app.Use(handler.NewOriginGuard(cfg.AllowedOrigins, logger).Middleware())
	handler.RegisterRoutes(app, authHandler)

	logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}
