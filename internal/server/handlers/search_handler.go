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

// SearchHandler handles search and autocomplete endpoints
type SearchHandler struct {
	container *services.Container
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(container *services.Container) *SearchHandler {
	return &SearchHandler{
		container: container,
	}
}

// Search performs a catalog search
func (h *SearchHandler) Search(c *gin.Context) {
	cfg := h.container.GetConfig()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = strings.TrimSpace(c.Query("query"))
	}
	if len(query) < cfg.Search.MinQueryLength {
		badRequest(c, "Invalid Search Request", "query parameter is required")
		return
	}
	if len(query) > cfg.Search.MaxQueryLength {
		badRequest(c, "Invalid Search Request", "query exceeds the maximum length")
		return
	}

	request := &models.SearchRequest{
		Query:     query,
		Limit:     cfg.Search.DefaultLimit,
		Genre:     strings.TrimSpace(c.Query("genre")),
		Director:  strings.TrimSpace(c.Query("director")),
		Actor:     strings.TrimSpace(c.Query("actor")),
		SortBy:    c.Query("sort_by"),
		SortOrder: c.Query("sort_order"),
	}

	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l >= 1 && l <= cfg.Search.MaxLimit {
			request.Limit = l
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			request.Offset = o
		}
	}
	if year := c.Query("year"); year != "" {
		if y, err := strconv.Atoi(year); err == nil {
			request.Year = &y
		}
	}
	if minRating := c.Query("min_rating"); minRating != "" {
		if r, err := strconv.ParseFloat(minRating, 64); err == nil {
			request.MinRating = &r
		}
	}
	if maxRating := c.Query("max_rating"); maxRating != "" {
		if r, err := strconv.ParseFloat(maxRating, 64); err == nil {
			request.MaxRating = &r
		}
	}

	if err := request.Validate(); err != nil {
		badRequest(c, "Invalid Search Request", err.Error())
		return
	}

	response, err := h.container.Search(request)
	if err != nil {
		h.container.GetLogger().Errorf("Search failed: %v", err)
		internalError(c, "Search Failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetSuggestions returns title completions for a prefix
func (h *SearchHandler) GetSuggestions(c *gin.Context) {
	cfg := h.container.GetConfig()

	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		query = strings.TrimSpace(c.Query("query"))
	}
	if len(query) < cfg.Suggestions.MinQueryLength {
		badRequest(c, "Invalid Suggestions Request", "query parameter is required")
		return
	}
	if len(query) > cfg.Suggestions.MaxQueryLength {
		badRequest(c, "Invalid Suggestions Request", "query exceeds the maximum length")
		return
	}

	limit := 10
	if l := c.Query("limit"); l != "" {
		if parsed, err := strconv.Atoi(l); err == nil && parsed >= 1 && parsed <= cfg.Suggestions.MaxSuggestions {
			limit = parsed
		}
	}

	response, err := h.container.Suggest(query, limit)
	if err != nil {
		h.container.GetLogger().Errorf("Failed to get suggestions: %v", err)
		internalError(c, "Suggestions Failed", err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// badRequest writes a 400 problem document
func badRequest(c *gin.Context, title, detail string) {
	apiErr := models.NewAPIError(http.StatusBadRequest, title, detail, c.Request.URL.Path)
	apiErr.RequestID = c.GetString(middleware.RequestIDKey)
	c.JSON(http.StatusBadRequest, apiErr)
}

// internalError maps a service error to its problem document
func internalError(c *gin.Context, title string, err error) {
	status := http.StatusInternalServerError
	if err == models.ErrDatasetNotLoaded {
		status = http.StatusServiceUnavailable
	}
	apiErr := models.NewAPIError(status, title, err.Error(), c.Request.URL.Path)
	apiErr.RequestID = c.GetString(middleware.RequestIDKey)
	c.JSON(status, apiErr)
}
