package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Common application errors
var (
	ErrMovieNotFound     = errors.New("movie not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrDatasetNotLoaded  = errors.New("dataset not loaded")
	ErrCacheDisabled     = errors.New("cache not enabled")
	ErrInternalServer    = errors.New("internal server error")
)

// APIError represents a structured API error response
type APIError struct {
	Type      string            `json:"type"`
	Title     string            `json:"title"`
	Status    int               `json:"status"`
	Detail    string            `json:"detail,omitempty"`
	Instance  string            `json:"instance,omitempty"`
	Errors    []ValidationError `json:"errors,omitempty"`
	Timestamp string            `json:"timestamp"`
	RequestID string            `json:"request_id,omitempty"`
}

// ValidationError represents a field validation error
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Title, e.Detail)
}

// NewAPIError creates a new APIError
func NewAPIError(status int, title, detail, instance string) *APIError {
	return &APIError{
		Type:      fmt.Sprintf("https://api.cinefusion.local/problems/%s", kebabCase(title)),
		Title:     title,
		Status:    status,
		Detail:    detail,
		Instance:  instance,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
}

// AddValidationError adds a validation error to the API error
func (e *APIError) AddValidationError(field, code, message string) {
	if e.Errors == nil {
		e.Errors = make([]ValidationError, 0)
	}
	e.Errors = append(e.Errors, ValidationError{
		Field:   field,
		Code:    code,
		Message: message,
	})
}

// kebabCase converts a string to kebab-case
func kebabCase(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r == ' ' || r == '_':
			b.WriteByte('-')
		case r >= 'A' && r <= 'Z':
			if prev := b.String(); len(prev) > 0 && prev[len(prev)-1] != '-' {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
		default:
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "-")
}
