// Package middleware holds the gin middleware chain: request IDs, request
// logging, panic recovery, and Prometheus instrumentation.
package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/bginsber/docketcalc/pkg/types/common"
)

// RequestIDHeader is the inbound/outbound request correlation header.
const RequestIDHeader = "X-Request-ID"

// requestIDKey is the gin context key the ID is stored under.
const requestIDKey = "request_id"

// RequestID assigns every request a correlation ID, honoring one supplied by
// the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = string(common.NewID())
		}
		c.Set(requestIDKey, id)
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

// GetRequestID returns the correlation ID assigned to this request.
func GetRequestID(c *gin.Context) string {
	if id, ok := c.Get(requestIDKey); ok {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return ""
}
