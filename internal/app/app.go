// Package app 负责按配置组装各个服务，供 api、worker 与 admin 复用。
package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"jobbyResume/internal/candidate"
	"jobbyResume/internal/config"
	"jobbyResume/internal/database"
	"jobbyResume/internal/evaluation"
	"jobbyResume/internal/ingest"
	"jobbyResume/internal/llm"
	"jobbyResume/internal/platform"
	"jobbyResume/internal/resume"
	"jobbyResume/internal/search"
	"jobbyResume/internal/storage"
)

// Services 持有组装完成的领域服务及其底层连接。
type Services struct {
	DB         *gorm.DB
	PlatformDB *gorm.DB
	Redis      *redis.Client
	Collector  *platform.Collector
	Repository *candidate.Repository
	Pipeline   *ingest.Pipeline
	Search     *search.Orchestrator
	Evaluation *evaluation.Orchestrator
	closers    []func() error
}

// Build 建立数据库、Redis、对象存储与模型客户端，并串起解析、搜索和评估服务。
func Build(ctx context.Context, cfg *config.Config, log *zap.Logger) (_ *Services, err error) {
	s := &Services{}
	defer func() {
		if err != nil {
			s.Close()
		}
	}()

	s.DB, err = database.InitDatabase(cfg.Database, log)
	if err != nil {
		return nil, fmt.Errorf("init database: %w", err)
	}
	s.closers = append(s.closers, sqlCloser(s.DB))

	s.PlatformDB, err = database.InitPlatformDatabase(cfg.Platform, log)
	if err != nil {
		return nil, fmt.Errorf("init platform database: %w", err)
	}
	s.closers = append(s.closers, sqlCloser(s.PlatformDB))

	s.Redis = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr()})
	s.closers = append(s.closers, s.Redis.Close)
	if err := s.Redis.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	storageClient, err := storage.NewClient(cfg.MinIO, log)
	if err != nil {
		return nil, fmt.Errorf("init storage client: %w", err)
	}

	genaiClient, err := llm.NewGenAIClient(ctx, cfg.LLM)
	if err != nil {
		return nil, fmt.Errorf("init genai client: %w", err)
	}
	extractor := llm.NewGeminiExtractor(genaiClient, cfg.LLM, log)
	translator := llm.NewCachedTranslator(
		llm.NewGeminiTranslator(genaiClient, cfg.LLM, log),
		s.Redis,
		cfg.LLM.TranslationCacheTTL,
		log,
	)

	s.Collector = platform.NewCollector(platform.NewMySQLSource(s.PlatformDB, log), log)
	s.Repository = candidate.NewRepository(s.DB, log)
	reconciler := candidate.NewReconciler(s.Repository, extractor, log)

	s.Pipeline = ingest.NewPipeline(
		s.Collector,
		storageClient,
		resume.NewScanner(cfg.Clamd.Addr),
		extractor,
		reconciler,
		log,
	)
	s.Search = search.NewOrchestrator(s.Repository, translator, log)
	s.Evaluation = evaluation.NewOrchestrator(s.Repository, extractor, cfg.Evaluation, log)

	log.Info("services ready",
		zap.String("bucket", cfg.MinIO.Bucket),
		zap.String("redis_addr", cfg.Redis.Addr()),
		zap.String("model", cfg.LLM.Model),
		zap.Bool("clamd", cfg.Clamd.Addr != ""),
	)
	return s, nil
}

// Close 逆序释放连接，忽略关闭错误。
func (s *Services) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		_ = s.closers[i]()
	}
	s.closers = nil
}

func sqlCloser(db *gorm.DB) func() error {
	return func() error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
}
