package tasks

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewResumeReconcileTask(t *testing.T) {
	task, err := NewResumeReconcileTask(ResumeReconcilePayload{CandidateID: 42, Blended: true, CorrelationID: "c-1"})
	require.NoError(t, err)
	require.Equal(t, TypeResumeReconcile, task.Type())

	var p ResumeReconcilePayload
	require.NoError(t, json.Unmarshal(task.Payload(), &p))
	require.Equal(t, int64(42), p.CandidateID)
	require.True(t, p.Blended)
	require.False(t, p.Reprocess)
	require.Equal(t, "c-1", p.CorrelationID)
}
