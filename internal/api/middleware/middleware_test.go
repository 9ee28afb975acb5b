package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func TestInternalSecretMiddleware(t *testing.T) {
	r := gin.New()
	r.GET("/guarded", InternalSecretMiddleware("s3cret"), func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/open", InternalSecretMiddleware(""), func(c *gin.Context) { c.Status(http.StatusNoContent) })

	cases := []struct {
		path   string
		header string
		want   int
	}{
		{"/guarded", "", http.StatusUnauthorized},
		{"/guarded", "wrong", http.StatusUnauthorized},
		{"/guarded", "s3cret", http.StatusNoContent},
		{"/open", "", http.StatusNoContent},
	}
	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		if tc.header != "" {
			req.Header.Set("X-Internal-Secret", tc.header)
		}
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		require.Equal(t, tc.want, w.Code, "%s %q", tc.path, tc.header)
	}
}

func TestCorrelationAndLoggerMiddleware(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	r := gin.New()
	r.Use(CorrelationIDMiddleware(), ZapLoggerMiddleware(zap.New(core)))

	var seen string
	r.GET("/items/:id", func(c *gin.Context) {
		seen = GetCorrelationID(c)
		LoggerFromContext(c).Info("handling")
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/items/7", nil)
	req.Header.Set("X-Correlation-ID", "corr-1")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, "corr-1", seen)
	require.Equal(t, "corr-1", w.Header().Get("X-Correlation-ID"))

	entries := logs.FilterField(zap.String("correlation_id", "corr-1")).All()
	require.Len(t, entries, 2)
	require.Equal(t, "handling", entries[0].Message)
	require.Equal(t, "request completed", entries[1].Message)
	require.Equal(t, "/items/:id", entries[1].ContextMap()["path"])
}

func TestCorrelationIDGenerated(t *testing.T) {
	r := gin.New()
	r.Use(CorrelationIDMiddleware())
	r.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NotEmpty(t, w.Header().Get("X-Correlation-ID"))
}
