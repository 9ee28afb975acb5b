package worker

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// ReconcileNotifyMessage 是通过 Redis Pub/Sub 转发给 WebSocket 客户端的解析结果。
// 字段名与前端解析保持一致。
type ReconcileNotifyMessage struct {
	Status        string `json:"status"`
	CandidateID   int64  `json:"candidate_id"`
	ResumeID      uint   `json:"resume_id,omitempty"`
	CorrelationID string `json:"correlation_id"`
	ErrorCode     int    `json:"error_code"`
	ErrorMessage  string `json:"error_message"`
}

const (
	StatusCompleted = "completed"
	StatusError     = "error"
)

// NotifyChannel 返回候选人的通知频道名。
func NotifyChannel(candidateID int64) string {
	return fmt.Sprintf("candidate_notify:%d", candidateID)
}

type publisher interface {
	Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd
}

func publishNotify(ctx context.Context, pub publisher, notify ReconcileNotifyMessage) error {
	data, err := json.Marshal(notify)
	if err != nil {
		return fmt.Errorf("marshal notification payload: %w", err)
	}
	channel := NotifyChannel(notify.CandidateID)
	if err := pub.Publish(ctx, channel, data).Err(); err != nil {
		return fmt.Errorf("publish redis notification to %q: %w", channel, err)
	}
	return nil
}
