package worker

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/hibiken/asynq"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"jobbyResume/internal/candidate"
	"jobbyResume/internal/errcode"
	"jobbyResume/internal/ingest"
	"jobbyResume/internal/tasks"
)

type stubProcessor struct {
	profile *candidate.Profile
	err     error
	reqs    []ingest.Request
}

func (s *stubProcessor) Process(_ context.Context, req ingest.Request) (*candidate.Profile, error) {
	s.reqs = append(s.reqs, req)
	return s.profile, s.err
}

type published struct {
	channel string
	message ReconcileNotifyMessage
}

type recordingPublisher struct {
	messages []published
}

func (r *recordingPublisher) Publish(_ context.Context, channel string, message interface{}) *redis.IntCmd {
	var m ReconcileNotifyMessage
	_ = json.Unmarshal(message.([]byte), &m)
	r.messages = append(r.messages, published{channel: channel, message: m})
	return redis.NewIntResult(1, nil)
}

func newTask(t *testing.T, p tasks.ResumeReconcilePayload) *asynq.Task {
	t.Helper()
	task, err := tasks.NewResumeReconcileTask(p)
	require.NoError(t, err)
	return task
}

func TestReconcileTaskPublishesCompletion(t *testing.T) {
	proc := &stubProcessor{profile: &candidate.Profile{ResumeID: 7}}
	pub := &recordingPublisher{}
	h := NewReconcileTaskHandler(proc, pub, nil)

	err := h.ProcessTask(context.Background(), newTask(t, tasks.ResumeReconcilePayload{CandidateID: 42, Blended: true, CorrelationID: "c-1"}))
	require.NoError(t, err)

	require.Equal(t, []ingest.Request{{CandidateID: 42, Blended: true}}, proc.reqs)
	require.Len(t, pub.messages, 1)
	require.Equal(t, "candidate_notify:42", pub.messages[0].channel)
	require.Equal(t, StatusCompleted, pub.messages[0].message.Status)
	require.Equal(t, uint(7), pub.messages[0].message.ResumeID)
	require.Equal(t, "c-1", pub.messages[0].message.CorrelationID)
}

func TestReconcileTaskPermanentFailureSkipsRetry(t *testing.T) {
	proc := &stubProcessor{err: errcode.NotFound("Resume path not found for the candidate")}
	pub := &recordingPublisher{}
	h := NewReconcileTaskHandler(proc, pub, nil)

	err := h.ProcessTask(context.Background(), newTask(t, tasks.ResumeReconcilePayload{CandidateID: 42}))
	require.ErrorIs(t, err, asynq.SkipRetry)
	require.Len(t, pub.messages, 1)
	require.Equal(t, StatusError, pub.messages[0].message.Status)
	require.Equal(t, errcode.ResourceMissing, pub.messages[0].message.ErrorCode)
	require.Equal(t, "Resume path not found for the candidate", pub.messages[0].message.ErrorMessage)
}

func TestReconcileTaskTransientFailureRetriesQuietly(t *testing.T) {
	proc := &stubProcessor{err: errcode.Extraction("structured extraction failed", errors.New("503"))}
	pub := &recordingPublisher{}
	h := NewReconcileTaskHandler(proc, pub, nil)

	err := h.ProcessTask(context.Background(), newTask(t, tasks.ResumeReconcilePayload{CandidateID: 42}))
	require.Error(t, err)
	require.NotErrorIs(t, err, asynq.SkipRetry)
	require.Empty(t, pub.messages)
}

func TestReconcileTaskBadPayload(t *testing.T) {
	h := NewReconcileTaskHandler(&stubProcessor{}, &recordingPublisher{}, nil)
	err := h.ProcessTask(context.Background(), asynq.NewTask(tasks.TypeResumeReconcile, []byte("{")))
	require.ErrorIs(t, err, asynq.SkipRetry)
}
