package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTraceContext(t *testing.T, headers map[string]string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/users", nil)
	for k, v := range headers {
		c.Request.Header.Set(k, v)
	}
	return c
}

func TestGetTraceID_FromTraceParent(t *testing.T) {
	c := newTraceContext(t, map[string]string{
		TraceParentHeader: "00-4bf92f3577b34da6a3ce929d0e0e4736-00f067aa0ba902b7-01",
	})

	assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", GetTraceID(c))
}

func TestGetTraceID_FromHeader(t *testing.T) {
	c := newTraceContext(t, map[string]string{TraceIDHeader: "abc123"})

	assert.Equal(t, "abc123", GetTraceID(c))
}

func TestGetTraceID_Generated(t *testing.T) {
	c := newTraceContext(t, nil)

	id := GetTraceID(c)
	assert.Len(t, id, 32)
}

func TestLoggingMiddleware_SetsTraceHeaderAndLogger(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logger := zap.NewNop()

	r := gin.New()
	r.Use(LoggingMiddleware(logger))
	r.GET("/users", func(c *gin.Context) {
		got := GetLoggerFromGinContext(c)
		require.NotNil(t, got)
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(TraceIDHeader))
}

func TestNewLogger_LevelAndFormat(t *testing.T) {
	logger, err := NewLogger("debug", "json")
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))

	logger, err = NewLogger("warn", "console")
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zap.InfoLevel))
}
