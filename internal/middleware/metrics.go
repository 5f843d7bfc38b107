package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cinefusion/cinefusion/internal/monitoring"
)

// Metrics records every request's latency and error status into the
// performance monitor.
func Metrics(monitor *monitoring.PerformanceMonitor) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		elapsed := float64(time.Since(start).Microseconds()) / 1000.0
		monitor.RecordRequest(elapsed, c.Writer.Status() >= 400)
	}
}
