package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"taskmaster/internal/auth"
	"taskmaster/internal/cache"
	"taskmaster/internal/config"
	"taskmaster/internal/db"
	"taskmaster/internal/handler"
	"taskmaster/internal/logger"
	"taskmaster/internal/model"
	"taskmaster/internal/repository"
	"taskmaster/internal/router"
	"taskmaster/internal/service"
)

// @title TaskMaster API
// @version 1.0
// @description Personal task tracker with bearer-token authentication and a weather feed.
// @host localhost:8080
// @BasePath /api
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	if err := start(); err != nil {
		fmt.Fprintf(os.Stderr, "server run into an error: %s\n", err)
		os.Exit(1)
	}
}

func start() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	log, err := logger.New("taskmaster", cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	gormDB, err := db.Open(cfg.DBDriver, cfg.DatabaseDSN)
	if err != nil {
		log.Errorw("failed to connect to database", "driver", cfg.DBDriver, "error", err)
		return err
	}
	defer func() {
		if err := db.Close(gormDB); err != nil {
			log.Warnw("failed to close database", "error", err)
		}
	}()

	if cfg.ResetDB {
		log.Warnw("RESET_DB set, dropping tables before migration")
	}
	if err := db.Migrate(gormDB, cfg.ResetDB, &model.User{}, &model.Task{}); err != nil {
		log.Errorw("failed to migrate tables", "error", err)
		return err
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer func() { _ = cacheClient.Close() }()

	// repositories
	userRepo := repository.NewUserRepository(gormDB)
	taskRepo := repository.NewTaskRepository(gormDB)

	// auth components
	hasher, err := auth.NewPasswordHasher(cfg.BcryptCost)
	if err != nil {
		return err
	}
	tokens := auth.NewTokenService(cfg.JWTSecret)

	// services
	authService, err := service.NewAuthService(log, userRepo, hasher, tokens)
	if err != nil {
		return err
	}
	taskService := service.NewTaskService(log, taskRepo)
	weatherService := service.NewWeatherService(log, cacheClient, cfg.WeatherCacheTTL)

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, log, tokens, router.Handlers{
		Auth:    handler.NewAuthHandler(log, authService),
		Tasks:   handler.NewTaskHandler(log, taskService),
		Weather: handler.NewWeatherHandler(log, weatherService),
		Health: handler.NewHealthHandler(
			handler.Check{Name: "database", Required: true, Probe: pingDB(gormDB)},
			handler.Check{Name: "redis", Probe: cacheClient.Ping},
		),
	})

	log.Infow("swagger documentation available", "url", swaggerURL(cfg))
	return run(e, log, ":"+cfg.ServerPort, cfg.ShutdownTimeout)
}

// run serves until the listener fails or a termination signal arrives, then
// drains in-flight requests within timeout.
func run(e *echo.Echo, log *zap.SugaredLogger, addr string, timeout time.Duration) error {
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)
	defer signal.Stop(sig)

	errChan := make(chan error, 1)
	go func() {
		log.Infow("http server listening", "addr", addr)
		errChan <- e.Start(addr)
	}()

	var err error
	select {
	case s := <-sig:
		log.Infow("shutting down", "signal", s.String())
	case err = <-errChan:
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	sdErr := e.Shutdown(ctx)

	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server start: %w", err)
	}
	if sdErr != nil {
		return fmt.Errorf("server shutdown: %w", sdErr)
	}
	return nil
}

func pingDB(gormDB *gorm.DB) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		sqlDB, err := gormDB.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

func swaggerURL(cfg *config.Config) string {
	host := cfg.SwaggerHost
	if host == "" {
		host = "localhost:" + cfg.ServerPort
	}
	if strings.HasPrefix(host, "http://") || strings.HasPrefix(host, "https://") {
		return host + "/swagger/index.html"
	}
	return "http://" + host + "/swagger/index.html"
}
