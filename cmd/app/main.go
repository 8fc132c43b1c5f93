package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"taskboard/internal/config"
	"taskboard/internal/db"
	httpServer "taskboard/internal/http"
	"taskboard/internal/http/handlers"
	"taskboard/internal/http/middleware"
	"taskboard/internal/logger"
	"taskboard/internal/migrations"
	"taskboard/internal/service"
	"taskboard/internal/tracing"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const tokenTTL = 24 * time.Hour

func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, cfg.LogJSON)

	ctx := context.Background()

	shutdownTracing, err := tracing.Init(ctx, logger.Get(), cfg.OTLPEndpoint, "taskboard", cfg.AppVersion)
	if err != nil {
		logger.Fatal("failed to init tracing", "error", err)
	}

	pool, err := db.Open(ctx, cfg.DatabaseURL, db.Options{MaxConns: cfg.DBMaxConns})
	if err != nil {
		logger.Fatal("failed to connect to database", "error", err)
	}
	defer pool.Close()

	applied, err := migrations.Apply(ctx, pool)
	if err != nil {
		logger.Fatal("failed to apply migrations", "error", err)
	}
	if len(applied) > 0 {
		logger.Info("migrations applied", "versions", applied)
	}

	store := service.NewPgStore(pool)
	opts := service.Options{
		Timeout:            cfg.DBTimeout,
		AllowEmptyBoards:   cfg.AllowEmptyBoards,
		StrictTaskWorkflow: cfg.StrictTaskWorkflow,
	}

	h := &handlers.Handler{
		Users:   service.NewUserService(store, opts),
		Boards:  service.NewBoardService(store, opts),
		Members: service.NewMembershipService(store, opts),
		Tasks:   service.NewTaskService(store, opts),
	}
	deps := httpServer.Deps{
		Handler: h,
		Health:  handlers.NewHealthHandler(store, cfg.AppVersion),
		Limiter: middleware.NewRateLimiter(
			middleware.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB),
			cfg.APIRateLimit, cfg.APIRateWindow,
		),
	}
	if cfg.JWTSecret != "" {
		tokens, err := service.NewTokenManager(cfg.JWTSecret, tokenTTL)
		if err != nil {
			logger.Fatal("invalid token configuration", "error", err)
		}
		h.Tokens = tokens
		deps.TokenAuth = tokens
		logger.Info("bearer auth enabled")
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(), middleware.Metrics(), middleware.CORS(cfg.CORSAllowed))
	httpServer.RegisterRoutes(r, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.AppPort,
		Handler:           otelhttp.NewHandler(r, "taskboard"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server started", "port", cfg.AppPort, "version", cfg.AppVersion)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("listen failed", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		logger.Warn("tracing shutdown failed", "error", err)
	}

	logger.Info("server exited")
}
