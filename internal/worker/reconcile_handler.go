package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"jobbyResume/internal/candidate"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/ingest"
	"jobbyResume/internal/tasks"
)

type processor interface {
	Process(ctx context.Context, req ingest.Request) (*candidate.Profile, error)
}

// ReconcileTaskHandler 消费简历解析任务，并把结果发布到候选人的通知频道。
type ReconcileTaskHandler struct {
	pipeline  processor
	publisher publisher
	logger    *zap.Logger
}

// NewReconcileTaskHandler 创建任务处理器。
func NewReconcileTaskHandler(pipeline processor, pub publisher, logger *zap.Logger) *ReconcileTaskHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReconcileTaskHandler{pipeline: pipeline, publisher: pub, logger: logger.Named("reconcile_task")}
}

// ProcessTask 实现 asynq.Handler。业务上不可恢复的错误不再重试。
func (h *ReconcileTaskHandler) ProcessTask(ctx context.Context, t *asynq.Task) (retErr error) {
	var payload tasks.ResumeReconcilePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		h.logger.Error("unmarshal task payload failed", zap.Error(err))
		return fmt.Errorf("unmarshal payload: %w", asynq.SkipRetry)
	}

	log := h.logger.With(
		zap.String("correlation_id", payload.CorrelationID),
		zap.Int64("candidate_id", payload.CandidateID),
	)
	log.Info("starting resume reconcile task")

	profile, err := h.pipeline.Process(ctx, ingest.Request{
		CandidateID: payload.CandidateID,
		Blended:     payload.Blended,
		Reprocess:   payload.Reprocess,
	})
	if err != nil {
		permanent := isPermanent(err)
		if permanent || isFinalAsynqAttempt(ctx) {
			notify := ReconcileNotifyMessage{
				Status:        StatusError,
				CandidateID:   payload.CandidateID,
				CorrelationID: payload.CorrelationID,
				ErrorCode:     errcode.KindOf(err).Code(),
				ErrorMessage:  strings.TrimSpace(errcode.Message(err)),
			}
			if pubErr := publishNotify(ctx, h.publisher, notify); pubErr != nil {
				log.Error("publish reconcile error notification failed", zap.Error(pubErr))
			}
		}
		log.Warn("resume reconcile task failed", zap.Bool("permanent", permanent), zap.Error(err))
		if permanent {
			return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
		}
		return err
	}

	notify := ReconcileNotifyMessage{
		Status:        StatusCompleted,
		CandidateID:   payload.CandidateID,
		ResumeID:      profile.ResumeID,
		CorrelationID: payload.CorrelationID,
		ErrorCode:     errcode.OK,
	}
	if err := publishNotify(ctx, h.publisher, notify); err != nil {
		log.Error("publish redis notification failed", zap.Error(err))
		return err
	}

	log.Info("resume reconcile task completed", zap.Uint("resume_id", profile.ResumeID))
	return nil
}

// isPermanent 判断重试也无法成功的错误。
func isPermanent(err error) bool {
	switch errcode.KindOf(err) {
	case errcode.KindNotFound,
		errcode.KindMissingCandidateContext,
		errcode.KindInvalidInput,
		errcode.KindUnsupportedFile,
		errcode.KindMaliciousFile:
		return true
	}
	return false
}

func isFinalAsynqAttempt(ctx context.Context) bool {
	retryCount, ok1 := asynq.GetRetryCount(ctx)
	maxRetry, ok2 := asynq.GetMaxRetry(ctx)
	if !ok1 || !ok2 {
		return false
	}
	return retryCount >= maxRetry
}
