package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const (
	// TraceIDHeader carries the trace identifier on requests and responses.
	TraceIDHeader = "X-Trace-ID"
	// TraceIDKey is the gin context key for the trace identifier.
	TraceIDKey = "trace_id"
	// UserIDKey is the gin context key for the authenticated user id.
	UserIDKey = "user_id"

	requestContextKey = "request_context"
)

// RequestContext holds request-scoped metadata shared across middleware
// and handlers.
type RequestContext struct {
	TraceID   string
	UserID    string
	IP        string
	UserAgent string
	StartedAt time.Time
}

// EnrichContext propagates an inbound trace identifier, minting one when the
// caller sent none, and records request metadata for downstream middleware.
func EnrichContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		traceID := c.GetHeader(TraceIDHeader)
		if traceID == "" {
			traceID = uuid.NewString()
		}

		c.Set(TraceIDKey, traceID)
		c.Set(requestContextKey, &RequestContext{
			TraceID:   traceID,
			IP:        c.ClientIP(),
			UserAgent: c.Request.UserAgent(),
			StartedAt: time.Now(),
		})
		c.Header(TraceIDHeader, traceID)

		c.Next()
	}
}

// GetTraceID returns the trace identifier for the request, or "" when the
// enrichment middleware did not run.
func GetTraceID(c *gin.Context) string {
	id, _ := c.Value(TraceIDKey).(string)
	return id
}

// GetRequestContext returns the request metadata, or nil when the enrichment
// middleware did not run.
func GetRequestContext(c *gin.Context) *RequestContext {
	reqCtx, _ := c.Value(requestContextKey).(*RequestContext)
	return reqCtx
}
