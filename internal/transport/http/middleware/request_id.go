package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/soclink/account-service/internal/infra/logger"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
)

// RequestID propagates a correlation identifier: an inbound X-Request-ID is
// reused so log lines can be joined across services, otherwise one is minted.
// The id travels on the response header, the gin context, and the request
// context consumed by logger.WithContext.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		reqID := c.GetHeader(requestIDHeader)
		if reqID == "" {
			reqID = uuid.NewString()
		}

		c.Set(requestIDKey, reqID)
		c.Writer.Header().Set(requestIDHeader, reqID)
		c.Request = c.Request.WithContext(
			context.WithValue(c.Request.Context(), logger.RequestIDKey{}, reqID))

		c.Next()
	}
}

// GetRequestID returns the correlation identifier for the request, or ""
// when the middleware did not run.
func GetRequestID(c *gin.Context) string {
	id, _ := c.Value(requestIDKey).(string)
	return id
}
