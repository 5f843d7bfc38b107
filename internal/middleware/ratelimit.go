package middleware

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/ratelimit"
)

// RateGovernor enforces the per-client sliding-window limit. Clients are
// keyed by source IP. Every response carries the X-RateLimit-* headers; a
// denied request gets a 429 problem document and does not consume a slot.
func RateGovernor(governor *ratelimit.SlidingWindow) gin.HandlerFunc {
	return func(c *gin.Context) {
		if governor == nil {
			c.Next()
			return
		}

		allowed, info := governor.Allow(c.ClientIP())

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", info.Reset))

		if !allowed {
			apiErr := models.NewAPIError(http.StatusTooManyRequests,
				"Rate Limit Exceeded",
				models.ErrRateLimitExceeded.Error(),
				c.Request.URL.Path)
			apiErr.RequestID = c.GetString(RequestIDKey)
			c.Header("Retry-After", fmt.Sprintf("%d", info.Reset))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, apiErr)
			return
		}

		c.Next()
	}
}
