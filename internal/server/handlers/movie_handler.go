package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cinefusion/cinefusion/internal/middleware"
	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/services"
)

// MovieHandler handles catalog browsing endpoints
type MovieHandler struct {
	container *services.Container
}

// NewMovieHandler creates a new movie handler
func NewMovieHandler(container *services.Container) *MovieHandler {
	return &MovieHandler{
		container: container,
	}
}

// ListMovies returns a sorted, paginated catalog listing
func (h *MovieHandler) ListMovies(c *gin.Context) {
	store := h.container.GetStore()
	if store == nil {
		internalError(c, "Catalog Unavailable", models.ErrDatasetNotLoaded)
		return
	}

	cfg := h.container.GetConfig()
	limit := cfg.Search.DefaultLimit
	offset := 0

	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed >= 1 && parsed <= cfg.Search.MaxLimit {
			limit = parsed
		}
	}
	if o := c.Query("offset"); o != "" {
		if parsed, err := strconv.Atoi(o); err == nil && parsed >= 0 {
			offset = parsed
		}
	}

	sortBy := c.DefaultQuery("sort_by", "title")
	sortOrder := c.DefaultQuery("sort_order", "asc")
	if !models.SortFields[sortBy] {
		badRequest(c, "Invalid Listing Request", "unknown sort field "+strconv.Quote(sortBy))
		return
	}
	if !models.SortOrders[sortOrder] {
		badRequest(c, "Invalid Listing Request", "unknown sort order "+strconv.Quote(sortOrder))
		return
	}

	movies := store.List(limit, offset, sortBy, sortOrder)
	total := store.Len()

	c.JSON(http.StatusOK, gin.H{
		"movies": movies,
		"pagination": models.Pagination{
			Limit:   limit,
			Offset:  offset,
			Total:   total,
			HasNext: offset+len(movies) < total,
			HasPrev: offset > 0,
		},
	})
}

// GetMovie returns one record by its catalog position
func (h *MovieHandler) GetMovie(c *gin.Context) {
	store := h.container.GetStore()
	if store == nil {
		internalError(c, "Catalog Unavailable", models.ErrDatasetNotLoaded)
		return
	}

	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		badRequest(c, "Invalid Movie ID", "movie id must be an integer")
		return
	}

	movie, err := store.Get(id)
	if err != nil {
		apiErr := models.NewAPIError(http.StatusNotFound, "Movie Not Found", err.Error(), c.Request.URL.Path)
		apiErr.RequestID = c.GetString(middleware.RequestIDKey)
		c.JSON(http.StatusNotFound, apiErr)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id, "movie": movie})
}

// GetGenres returns the distinct genres across the catalog
func (h *MovieHandler) GetGenres(c *gin.Context) {
	store := h.container.GetStore()
	if store == nil {
		internalError(c, "Catalog Unavailable", models.ErrDatasetNotLoaded)
		return
	}

	genres := store.Genres()
	c.JSON(http.StatusOK, gin.H{
		"genres": genres,
		"count":  len(genres),
	})
}

// GetDirectors returns distinct director names, optionally filtered
func (h *MovieHandler) GetDirectors(c *gin.Context) {
	store := h.container.GetStore()
	if store == nil {
		internalError(c, "Catalog Unavailable", models.ErrDatasetNotLoaded)
		return
	}

	search := strings.TrimSpace(c.Query("search"))
	limit := 50
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed >= 1 && parsed <= 500 {
			limit = parsed
		}
	}

	directors := store.Directors(search, limit)
	c.JSON(http.StatusOK, gin.H{
		"directors": directors,
		"count":     len(directors),
	})
}

// GetStats returns dataset, cache and performance statistics
func (h *MovieHandler) GetStats(c *gin.Context) {
	store := h.container.GetStore()
	if store == nil {
		internalError(c, "Catalog Unavailable", models.ErrDatasetNotLoaded)
		return
	}

	stats := gin.H{
		"dataset":     store.Stats(),
		"performance": h.container.GetMonitor().Summary(),
	}
	if cacheStats, err := h.container.CacheStats(); err == nil {
		stats["cache"] = cacheStats
	}

	c.JSON(http.StatusOK, stats)
}
