package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestPrometheusMiddleware_CountsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(PrometheusMiddleware())
	r.GET("/users", func(c *gin.Context) { c.Status(http.StatusOK) })

	before := testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/users", "200"))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/users", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, before+1, testutil.ToFloat64(requestTotal.WithLabelValues(http.MethodGet, "/users", "200")))
	assert.Equal(t, 0.0, testutil.ToFloat64(requestsInFlight.WithLabelValues(http.MethodGet, "/users")))
}

// A panicking handler unwinds through this middleware before Recovery
// catches it; the in-flight gauge must still come back down.
func TestPrometheusMiddleware_InFlightDecrementsOnPanic(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(PrometheusMiddleware())
	r.GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 0.0, testutil.ToFloat64(requestsInFlight.WithLabelValues(http.MethodGet, "/boom")))
}

func TestShouldCollectMetrics(t *testing.T) {
	assert.False(t, shouldCollectMetrics("/health"))
	assert.False(t, shouldCollectMetrics("/ready"))
	assert.False(t, shouldCollectMetrics("/metrics"))
	assert.True(t, shouldCollectMetrics("/users"))
}
