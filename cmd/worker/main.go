package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"jobbyResume/internal/app"
	"jobbyResume/internal/config"
	"jobbyResume/internal/logger"
	"jobbyResume/internal/metrics"
	"jobbyResume/internal/tasks"
	"jobbyResume/internal/tracing"
	"jobbyResume/internal/worker"
)

func main() {
	cfg := config.MustLoad()
	log := logger.MustNew(cfg.Log.JSON, cfg.Log.Debug).Named("worker")
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
		_ = shutdownTracing(flushCtx)
	}()

	services, err := app.Build(ctx, cfg, log)
	if err != nil {
		log.Fatal("build services", zap.Error(err))
	}
	defer services.Close()

	server := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.Redis.Addr()}, asynq.Config{
		Concurrency: cfg.Evaluation.Concurrency,
		Logger:      log.Sugar(),
	})

	mux := asynq.NewServeMux()
	mux.Use(metrics.AsynqMetricsMiddleware())
	mux.Handle(tasks.TypeResumeReconcile, worker.NewReconcileTaskHandler(services.Pipeline, services.Redis, log))

	if err := server.Start(mux); err != nil {
		log.Fatal("start worker server", zap.Error(err))
	}
	log.Info("worker service started", zap.String("redis_addr", cfg.Redis.Addr()))

	<-ctx.Done()
	log.Info("shutting down worker")
	server.Shutdown()
}
