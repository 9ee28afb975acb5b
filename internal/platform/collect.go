package platform

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"jobbyResume/internal/errcode"
)

// Collector 并发读取平台上的认证、工作汇总与基础信息。
type Collector struct {
	source Source
	logger *zap.Logger
}

// NewCollector 构造 Collector。
func NewCollector(source Source, logger *zap.Logger) *Collector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Collector{source: source, logger: logger}
}

// Collect 在三路读取全部完成后返回合并结果；任一读取失败则整体失败。
// 缺失的部分保持为 nil，由调用方决定是否可以继续。
func (c *Collector) Collect(ctx context.Context, userID int64) (*Data, error) {
	var (
		data Data
		log  = c.logger.With(zap.Int64("user_id", userID))
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		certs, err := c.source.Certifications(gctx, userID)
		if err != nil {
			return fmt.Errorf("certifications: %w", err)
		}
		data.Certifications = certs
		return nil
	})
	g.Go(func() error {
		jobs, err := c.source.JobsDone(gctx, userID)
		if err != nil {
			return fmt.Errorf("jobs done: %w", err)
		}
		data.Jobs = jobs
		return nil
	})
	g.Go(func() error {
		info, err := c.source.BasicInfo(gctx, userID)
		if err != nil {
			return fmt.Errorf("basic info: %w", err)
		}
		data.BasicInfo = info
		return nil
	})

	if err := g.Wait(); err != nil {
		log.Error("collect platform data failed", zap.Error(err))
		return nil, fmt.Errorf("collect platform data: %w", err)
	}

	log.Info("platform data collected",
		zap.Bool("has_basic_info", data.BasicInfo != nil),
		zap.Int("certifications", len(data.Certifications)),
		zap.Bool("has_jobs", data.Jobs != nil),
	)
	return &data, nil
}

// ResumePath 返回平台为该用户登记的第一份简历路径。
func (c *Collector) ResumePath(ctx context.Context, userID int64) (string, error) {
	paths, err := c.source.ResumePaths(ctx, userID)
	if err != nil {
		return "", fmt.Errorf("lookup resume path: %w", err)
	}
	if len(paths) == 0 {
		c.logger.Warn("no resume path found for candidate", zap.Int64("user_id", userID))
		return "", errcode.NotFound("Resume path not found for the candidate")
	}
	if paths[0].ResumePath == "" {
		return "", errcode.NotFound("Resume path not found in the data")
	}
	return paths[0].ResumePath, nil
}
