package middleware

import (
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
)

// RequestIDKey is the gin context key the request identifier is stored under.
const RequestIDKey = "request_id"

// RequestID propagates an incoming X-Request-ID header or mints one, and
// echoes it on the response.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = fmt.Sprintf("%d", time.Now().UnixNano())
		}
		c.Set(RequestIDKey, requestID)
		c.Header("X-Request-ID", requestID)
		c.Next()
	}
}
