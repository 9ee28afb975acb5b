package tasks

import (
	"encoding/json"
	"time"

	"github.com/hibiken/asynq"
)

// 任务类型常量，确保队列生产者与消费者一致。
const (
	TypeResumeReconcile = "resume:reconcile"
)

// ResumeReconcilePayload 描述异步解析一份简历所需的信息。
type ResumeReconcilePayload struct {
	CandidateID   int64  `json:"candidate_id"`
	Blended       bool   `json:"blended"`
	Reprocess     bool   `json:"reprocess"`
	CorrelationID string `json:"correlation_id"`
}

// NewResumeReconcileTask 构造一个简历解析任务。
func NewResumeReconcileTask(p ResumeReconcilePayload) (*asynq.Task, error) {
	payload, err := json.Marshal(p)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TypeResumeReconcile, payload,
		asynq.MaxRetry(3),
		asynq.Timeout(5*time.Minute),
	), nil
}
