// Package cache provides the response cache sitting in front of the
// query engine and the prefix index. The in-memory store implements the
// TTL + LRU-eviction policy; a Redis-backed store is available for
// deployments that already run Redis.
package cache

import (
	"fmt"
	"strings"

	"github.com/cinefusion/cinefusion/internal/models"
)

// Store is the response cache contract. Values are opaque blobs owned by
// the cache; callers get back the stored bytes and must not mutate them.
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
	Clear()
	Stats() Stats
}

// Stats reports process-lifetime cache counters.
type Stats struct {
	Size       int     `json:"size"`
	MaxSize    int     `json:"max_size"`
	Hits       int64   `json:"hits"`
	Misses     int64   `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
	Evictions  int64   `json:"evictions"`
	TTLSeconds int     `json:"ttl_seconds"`
}

// SearchKey builds the normalized cache key for a search request. Every
// parameter participates so that semantically distinct requests never
// collide; nil filters render as an empty segment.
func SearchKey(req *models.SearchRequest) string {
	segs := []string{
		"search",
		strings.ToLower(strings.TrimSpace(req.Query)),
		fmt.Sprintf("%d", req.Limit),
		fmt.Sprintf("%d", req.Offset),
		strings.ToLower(req.Genre),
		formatIntPtr(req.Year),
		formatFloatPtr(req.MinRating),
		formatFloatPtr(req.MaxRating),
		strings.ToLower(req.Director),
		strings.ToLower(req.Actor),
		req.SortBy,
		req.SortOrder,
	}
	return strings.Join(segs, "|")
}

// SuggestKey builds the cache key for an autocomplete request.
func SuggestKey(prefix string, limit int) string {
	return fmt.Sprintf("suggest|%s|%d", strings.ToLower(strings.TrimSpace(prefix)), limit)
}

func formatIntPtr(v *int) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%d", *v)
}

func formatFloatPtr(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}
