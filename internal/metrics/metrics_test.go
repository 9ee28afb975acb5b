package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestGinMiddlewareCountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(GinMiddleware())
	router.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/health", "200"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	require.Equal(t, http.StatusOK, w.Code)
	require.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/health", "200")))
}

func TestAsynqMetricsMiddlewareCountsFailures(t *testing.T) {
	handler := AsynqMetricsMiddleware()(asynq.HandlerFunc(func(context.Context, *asynq.Task) error {
		return errors.New("boom")
	}))

	before := testutil.ToFloat64(taskFailedTotal.WithLabelValues("test:task"))
	err := handler.ProcessTask(context.Background(), asynq.NewTask("test:task", nil))
	require.Error(t, err)
	require.Equal(t, before+1, testutil.ToFloat64(taskFailedTotal.WithLabelValues("test:task")))
}

func TestObserveLLMCall(t *testing.T) {
	before := testutil.ToFloat64(llmCallsTotal.WithLabelValues("extract", "ok"))
	ObserveLLMCall("extract", "ok", 10*time.Millisecond)
	require.Equal(t, before+1, testutil.ToFloat64(llmCallsTotal.WithLabelValues("extract", "ok")))
}
