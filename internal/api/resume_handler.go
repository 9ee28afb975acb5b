package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"

	"jobbyResume/internal/api/middleware"
	"jobbyResume/internal/candidate"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/ingest"
	"jobbyResume/internal/platform"
	"jobbyResume/internal/tasks"
)

type resumeProcessor interface {
	Process(ctx context.Context, req ingest.Request) (*candidate.Profile, error)
}

type taskEnqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type platformCollector interface {
	Collect(ctx context.Context, userID int64) (*platform.Data, error)
}

// ResumeHandler 负责简历解析与平台数据查询接口。
type ResumeHandler struct {
	pipeline  resumeProcessor
	queue     taskEnqueuer
	collector platformCollector
}

// NewResumeHandler 构造 ResumeHandler。
func NewResumeHandler(pipeline resumeProcessor, queue taskEnqueuer, collector platformCollector) *ResumeHandler {
	return &ResumeHandler{pipeline: pipeline, queue: queue, collector: collector}
}

// ParseResume 同步处理候选人的简历并返回合并后的资料。
func (h *ResumeHandler) ParseResume(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	profile, err := h.pipeline.Process(c.Request.Context(), req)
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// ParseResumeAsync 把解析任务放入队列，结果通过 WebSocket 通知。
func (h *ResumeHandler) ParseResumeAsync(c *gin.Context) {
	req, err := parseRequest(c)
	if err != nil {
		RespondError(c, err)
		return
	}

	correlationID := middleware.GetCorrelationID(c)
	task, err := tasks.NewResumeReconcileTask(tasks.ResumeReconcilePayload{
		CandidateID:   req.CandidateID,
		Blended:       req.Blended,
		Reprocess:     req.Reprocess,
		CorrelationID: correlationID,
	})
	if err != nil {
		RespondError(c, err)
		return
	}

	info, err := h.queue.EnqueueContext(c.Request.Context(), task)
	if err != nil {
		middleware.LoggerFromContext(c).Error("enqueue reconcile task failed", zap.Error(err))
		Internal(c, "failed to enqueue resume processing")
		return
	}

	c.JSON(http.StatusAccepted, gin.H{
		"task_id":        info.ID,
		"candidate_id":   req.CandidateID,
		"correlation_id": correlationID,
	})
}

// CollectData 返回平台上的候选人数据。
func (h *ResumeHandler) CollectData(c *gin.Context) {
	candidateID, err := parseCandidateID(c.Param("candidate_id"))
	if err != nil {
		RespondError(c, err)
		return
	}

	data, err := h.collector.Collect(c.Request.Context(), candidateID)
	if err != nil {
		RespondError(c, err)
		return
	}
	if data.Empty() {
		RespondError(c, errcode.MissingContext("Candidate basic info not found"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Candidate data collected successfully",
		"data":    data,
	})
}

func parseRequest(c *gin.Context) (ingest.Request, error) {
	id, err := parseCandidateID(c.Query("candidate_id"))
	if err != nil {
		return ingest.Request{}, err
	}
	blended, err := parseFlag(c.Query("blended"), "blended")
	if err != nil {
		return ingest.Request{}, err
	}
	reprocess, err := parseFlag(c.Query("reprocess"), "reprocess")
	if err != nil {
		return ingest.Request{}, err
	}
	return ingest.Request{CandidateID: id, Blended: blended, Reprocess: reprocess}, nil
}

func parseCandidateID(raw string) (int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, errcode.Invalid("candidate_id is required")
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errcode.Invalid("invalid candidate_id")
	}
	return id, nil
}

func parseFlag(raw, name string) (bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return false, nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return false, errcode.Invalid("invalid " + name + " flag")
	}
	return v, nil
}
