package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.uber.org/zap"
)

func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))
	otel.SetTracerProvider(tp)

	t.Cleanup(func() {
		_ = tp.Shutdown(t.Context())
	})

	return sr
}

func TestTracing_DisabledPassesThrough(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing("wareline-test", false))
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, sr.Ended())
}

func TestTracing_RecordsSpanPerRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	router := gin.New()
	router.Use(Tracing("wareline-test", true))
	router.GET("/stock/:id", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/stock/42", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	spans := sr.Ended()
	require.Len(t, spans, 1)
	assert.Equal(t, "GET /stock/:id", spans[0].Name())
}

func TestTracing_EnrichesSpanWithIdentity(t *testing.T) {
	gin.SetMode(gin.TestMode)
	sr := setupTestTracer(t)

	orgID := "0b1e2f7a-9c4d-4e8f-8a6b-1c2d3e4f5a6b"
	actorID := "9f8e7d6c-5b4a-4f3e-9d2c-1b0a9f8e7d6c"

	router := gin.New()
	router.Use(RequestID(zap.NewNop()))
	router.Use(Tracing("wareline-test", true))
	router.Use(func(c *gin.Context) {
		c.Set(OrgIDContextKey, orgID)
		c.Set(ActorIDContextKey, actorID)
		c.Next()
	})
	router.GET("/test", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"ok": true})
	})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req.Header.Set(RequestIDHeader, "trace-req-1")
	router.ServeHTTP(w, req)

	require.Len(t, sr.Ended(), 1)
	attrs := make(map[attribute.Key]string)
	for _, kv := range sr.Ended()[0].Attributes() {
		attrs[kv.Key] = kv.Value.Emit()
	}
	assert.Equal(t, "trace-req-1", attrs["request_id"])
	assert.Equal(t, orgID, attrs["org_id"])
	assert.Equal(t, actorID, attrs["actor_id"])
}
