package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel"

	"github.com/rosverk/rosreg/internal/interfaces/http/middleware"
	"github.com/rosverk/rosreg/pkg/constants"
)

func TestRequestContextMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	newRouter := func() (*gin.Engine, *map[string]string) {
		seen := map[string]string{}
		r := gin.New()
		r.Use(middleware.RequestContext())
		r.GET("/ping", func(c *gin.Context) {
			ctx := c.Request.Context()
			if v, ok := ctx.Value(constants.ContextKeyRequestID).(string); ok {
				seen["request_id"] = v
			}
			if v, ok := ctx.Value(constants.ContextKeyActor).(string); ok {
				seen["actor"] = v
			}
			c.Status(http.StatusOK)
		})
		return r, &seen
	}

	t.Run("issues a request id when the caller sends none", func(t *testing.T) {
		r, seen := newRouter()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		id := w.Header().Get(constants.HeaderRequestID)
		assert.NotEmpty(t, id)
		assert.Equal(t, id, (*seen)["request_id"])
	})

	t.Run("keeps a caller-provided request id", func(t *testing.T) {
		r, seen := newRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderRequestID, "upstream-7")
		r.ServeHTTP(w, req)

		assert.Equal(t, "upstream-7", w.Header().Get(constants.HeaderRequestID))
		assert.Equal(t, "upstream-7", (*seen)["request_id"])
	})

	t.Run("actor header lands in the context", func(t *testing.T) {
		r, seen := newRouter()
		w := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/ping", nil)
		req.Header.Set(constants.HeaderActor, "kari.nordmann")
		r.ServeHTTP(w, req)

		assert.Equal(t, "kari.nordmann", (*seen)["actor"])
	})

	t.Run("no actor header means no actor value", func(t *testing.T) {
		r, seen := newRouter()
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/ping", nil))

		_, present := (*seen)["actor"]
		assert.False(t, present)
	})
}

type recordingMetrics struct {
	method   string
	route    string
	status   int
	duration time.Duration
	calls    int
}

func (m *recordingMetrics) RecordHTTPRequest(method, route string, status int, duration time.Duration) {
	m.method, m.route, m.status, m.duration = method, route, status, duration
	m.calls++
}

func TestObservabilityMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	t.Run("records the route template, not the raw path", func(t *testing.T) {
		metrics := &recordingMetrics{}
		r := gin.New()
		r.Use(middleware.Observability(otel.Tracer("test"), metrics))
		r.GET("/risks/:id", func(c *gin.Context) { c.Status(http.StatusOK) })

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/risks/3f6c1a52-0000-0000-0000-000000000000", nil))

		assert.Equal(t, 1, metrics.calls)
		assert.Equal(t, http.MethodGet, metrics.method)
		assert.Equal(t, "/risks/:id", metrics.route)
		assert.Equal(t, http.StatusOK, metrics.status)
	})

	t.Run("unmatched requests are bucketed together", func(t *testing.T) {
		metrics := &recordingMetrics{}
		r := gin.New()
		r.Use(middleware.Observability(otel.Tracer("test"), metrics))

		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/nope", nil))

		assert.Equal(t, "unmatched", metrics.route)
		assert.Equal(t, http.StatusNotFound, metrics.status)
	})
}
