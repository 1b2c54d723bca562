package middleware

import (
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Tracing wraps otelgin and enriches each span with the request id and the
// authenticated organization and actor. Spans go to the globally registered
// tracer provider; without one they are no-ops.
func Tracing(serviceName string, enabled bool) gin.HandlerFunc {
	if !enabled {
		return func(c *gin.Context) { c.Next() }
	}

	base := otelgin.Middleware(serviceName)
	return func(c *gin.Context) {
		// otelgin runs the rest of the chain inside the span, so the auth
		// middleware has populated the context by the time we enrich it
		base(c)

		span := trace.SpanFromContext(c.Request.Context())
		if !span.IsRecording() {
			return
		}
		if requestID := GetRequestID(c); requestID != "" {
			span.SetAttributes(attribute.String("request_id", requestID))
		}
		if orgID := GetOrgID(c); orgID != "" {
			span.SetAttributes(attribute.String("org_id", orgID))
		}
		if actorID := GetActorID(c); actorID != "" {
			span.SetAttributes(attribute.String("actor_id", actorID))
		}
	}
}
