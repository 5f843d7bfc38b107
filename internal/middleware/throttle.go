package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/cinefusion/cinefusion/internal/models"
)

// Throttle applies a process-wide token-bucket ceiling on top of the
// per-client governor. It protects the server as a whole when traffic
// comes from many distinct clients at once.
func Throttle(rps, burst int) gin.HandlerFunc {
	limiter := rate.NewLimiter(rate.Limit(rps), burst)
	return func(c *gin.Context) {
		if !limiter.Allow() {
			apiErr := models.NewAPIError(http.StatusServiceUnavailable,
				"Server Overloaded",
				"the server is shedding load, retry shortly",
				c.Request.URL.Path)
			apiErr.RequestID = c.GetString(RequestIDKey)
			c.AbortWithStatusJSON(http.StatusServiceUnavailable, apiErr)
			return
		}
		c.Next()
	}
}
