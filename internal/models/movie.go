package models

import (
	"fmt"
	"strings"
)

// Valid sort fields and orders accepted by the query engine.
var (
	SortFields = map[string]bool{
		"rating":   true,
		"year":     true,
		"title":    true,
		"duration": true,
		"budget":   true,
	}
	SortOrders = map[string]bool{
		"asc":  true,
		"desc": true,
	}
)

// Movie represents a single record in the catalog. All fields except the
// title are optional; a nil pointer means the source dataset had no value.
// A movie's identity is its position in the catalog store.
type Movie struct {
	Title    string   `json:"title"`
	Year     *int     `json:"year,omitempty"`
	Rating   *float64 `json:"rating,omitempty"`
	Genre    *string  `json:"genre,omitempty"`
	Director *string  `json:"director,omitempty"`
	Duration *int     `json:"duration,omitempty"`
	Budget   *float64 `json:"budget,omitempty"`
	Actors   *string  `json:"actors,omitempty"`
	Plot     *string  `json:"plot,omitempty"`
	Country  *string  `json:"country,omitempty"`
	Language *string  `json:"language,omitempty"`
	Awards   *string  `json:"awards,omitempty"`
}

// Validate checks the record against the dataset constraints. Records that
// fail validation are skipped during load and query materialization rather
// than aborting the operation.
func (m *Movie) Validate() error {
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("title is required: %w", ErrInvalidInput)
	}
	if len(m.Title) > 500 {
		return fmt.Errorf("title exceeds 500 characters: %w", ErrInvalidInput)
	}
	if m.Year != nil && (*m.Year < 1880 || *m.Year > 2030) {
		return fmt.Errorf("year %d out of range [1880, 2030]: %w", *m.Year, ErrInvalidInput)
	}
	if m.Rating != nil && (*m.Rating < 0 || *m.Rating > 10) {
		return fmt.Errorf("rating %.1f out of range [0, 10]: %w", *m.Rating, ErrInvalidInput)
	}
	if m.Duration != nil && (*m.Duration < 1 || *m.Duration > 1000) {
		return fmt.Errorf("duration %d out of range [1, 1000]: %w", *m.Duration, ErrInvalidInput)
	}
	if m.Budget != nil && *m.Budget < 0 {
		return fmt.Errorf("budget must be non-negative: %w", ErrInvalidInput)
	}
	return nil
}

// SearchRequest carries the parameters of a catalog search.
type SearchRequest struct {
	Query     string   `json:"query"`
	Limit     int      `json:"limit"`
	Offset    int      `json:"offset"`
	Genre     string   `json:"genre,omitempty"`
	Year      *int     `json:"year,omitempty"`
	MinRating *float64 `json:"min_rating,omitempty"`
	MaxRating *float64 `json:"max_rating,omitempty"`
	Director  string   `json:"director,omitempty"`
	Actor     string   `json:"actor,omitempty"`
	SortBy    string   `json:"sort_by"`
	SortOrder string   `json:"sort_order"`
}

// Validate rejects malformed requests before they reach the engine.
func (r *SearchRequest) Validate() error {
	if len(r.Query) > 100 {
		return fmt.Errorf("query exceeds 100 characters: %w", ErrInvalidInput)
	}
	if r.Limit < 0 || r.Offset < 0 {
		return fmt.Errorf("limit and offset must be non-negative: %w", ErrInvalidInput)
	}
	if r.MinRating != nil && (*r.MinRating < 0 || *r.MinRating > 10) {
		return fmt.Errorf("min_rating out of range [0, 10]: %w", ErrInvalidInput)
	}
	if r.MaxRating != nil && (*r.MaxRating < 0 || *r.MaxRating > 10) {
		return fmt.Errorf("max_rating out of range [0, 10]: %w", ErrInvalidInput)
	}
	if r.MinRating != nil && r.MaxRating != nil && *r.MinRating > *r.MaxRating {
		return fmt.Errorf("min_rating cannot exceed max_rating: %w", ErrInvalidInput)
	}
	if r.SortBy != "" && !SortFields[r.SortBy] {
		return fmt.Errorf("unknown sort field %q: %w", r.SortBy, ErrInvalidInput)
	}
	if r.SortOrder != "" && !SortOrders[r.SortOrder] {
		return fmt.Errorf("unknown sort order %q: %w", r.SortOrder, ErrInvalidInput)
	}
	return nil
}

// Pagination describes the window of a paged response.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
	HasPrev bool `json:"has_prev"`
}

// SearchResponse is the result of a catalog search.
type SearchResponse struct {
	Movies          []Movie                `json:"movies"`
	TotalCount      int                    `json:"total_count"`
	Query           string                 `json:"query"`
	Filters         map[string]interface{} `json:"filters"`
	ExecutionTimeMS float64                `json:"execution_time_ms"`
	Cached          bool                   `json:"cached"`
	Pagination      Pagination             `json:"pagination"`
}

// SuggestionsResponse is the result of an autocomplete lookup.
type SuggestionsResponse struct {
	Suggestions     []string `json:"suggestions"`
	Query           string   `json:"query"`
	ExecutionTimeMS float64  `json:"execution_time_ms"`
	Cached          bool     `json:"cached"`
	TotalAvailable  int      `json:"total_available"`
}
