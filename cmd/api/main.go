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

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"jobbyResume/internal/api"
	"jobbyResume/internal/app"
	"jobbyResume/internal/config"
	"jobbyResume/internal/database"
	"jobbyResume/internal/logger"
	"jobbyResume/internal/tracing"
)

func main() {
	cfg := config.MustLoad()
	log := logger.MustNew(cfg.Log.JSON, cfg.Log.Debug)
	defer func() { _ = log.Sync() }()
	zap.ReplaceGlobals(log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(ctx, cfg.Tracing, log)
	if err != nil {
		log.Fatal("init tracing", zap.Error(err))
	}
	defer func() {
		flushCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(flushCtx); err != nil {
			log.Warn("flush traces failed", zap.Error(err))
		}
	}()

	services, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("build services", zap.Error(err))
	}
	defer services.Close()

	if err := database.AutoMigrate(services.DB); err != nil {
		log.Fatal("auto migrate", zap.Error(err))
	}
	log.Info("database migrated")

	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()})
	defer func() {
		if err := queue.Close(); err != nil {
			log.Warn("close asynq client failed", zap.Error(err))
		}
	}()

	router := api.NewRouter(cfg, log)
	api.RegisterRoutes(router, api.Handlers{
		Resume:    api.NewResumeHandler(services.Pipeline, queue, services.Collector),
		Candidate: api.NewCandidateHandler(services.Search, services.Evaluation),
		Ws:        api.NewWsHandler(services.Redis, log, cfg.API.AllowedOrigins),
	}, cfg.API.InternalSecret, services.Redis, cfg.API.RateLimitPerMinute)

	if cfg.API.InternalSecret == "" {
		log.Warn("internal secret not configured, /v1 routes are unauthenticated")
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.API.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("api listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("api server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down api")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("graceful shutdown failed", zap.Error(err))
	}
}
