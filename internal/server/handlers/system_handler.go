package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/services"
)

// SystemHandler handles health and admin endpoints
type SystemHandler struct {
	container *services.Container
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(container *services.Container) *SystemHandler {
	return &SystemHandler{
		container: container,
	}
}

// GetHealth reports the full health of the service
func (h *SystemHandler) GetHealth(c *gin.Context) {
	health := h.container.HealthCheck(c.Request.Context())

	status := http.StatusOK
	if health["status"] != "healthy" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, health)
}

// GetCacheStats returns the response cache counters
func (h *SystemHandler) GetCacheStats(c *gin.Context) {
	stats, err := h.container.CacheStats()
	if err != nil {
		cacheDisabled(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ClearCache flushes the response cache
func (h *SystemHandler) ClearCache(c *gin.Context) {
	if err := h.container.ClearCache(); err != nil {
		cacheDisabled(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cache cleared"})
}

// GetPerformance returns the performance monitor summary
func (h *SystemHandler) GetPerformance(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"summary": h.container.GetMonitor().Summary(),
		"health":  h.container.GetMonitor().Health(),
	})
}

// ReloadDataset reloads the catalog from its source and rebuilds the
// indexes
func (h *SystemHandler) ReloadDataset(c *gin.Context) {
	if err := h.container.LoadDataset(); err != nil {
		h.container.GetLogger().Errorf("Dataset reload failed: %v", err)
		internalError(c, "Reload Failed", err)
		return
	}

	store := h.container.GetStore()
	c.JSON(http.StatusOK, gin.H{
		"message": "dataset reloaded",
		"movies":  store.Len(),
	})
}

func cacheDisabled(c *gin.Context, err error) {
	if err == models.ErrCacheDisabled {
		badRequest(c, "Cache Disabled", err.Error())
		return
	}
	internalError(c, "Cache Operation Failed", err)
}
