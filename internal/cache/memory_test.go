package cache

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/testutil"
)

// fakeClock lets tests advance time without sleeping.
type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(maxSize int, ttl time.Duration) (*Memory, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	c := NewMemory(maxSize, ttl)
	c.now = clock.Now
	return c, clock
}

func TestMemory_SetThenGetIsHit(t *testing.T) {
	c, _ := newTestCache(10, 5*time.Minute)

	c.Set("k", []byte("v"))
	got, ok := c.Get("k")
	require.True(t, ok)
	assert.Equal(t, []byte("v"), got)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 0, stats.Misses)
	assert.Equal(t, 1, stats.Size)
	assert.InDelta(t, 100.0, stats.HitRate, 0.001)
}

func TestMemory_TTLExpiryIsLazy(t *testing.T) {
	c, clock := newTestCache(10, time.Minute)

	c.Set("k", []byte("v"))
	clock.Advance(time.Minute + time.Second)

	_, ok := c.Get("k")
	assert.False(t, ok)

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Misses)
	assert.Equal(t, 0, stats.Size, "expired entry is removed on access")
}

func TestMemory_EvictsOldestAccessedFifth(t *testing.T) {
	c, clock := newTestCache(10, time.Hour)

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), []byte("v"))
		clock.Advance(time.Second)
	}
	// Touch the two oldest inserts so recency, not insertion order,
	// decides eviction.
	c.Get("k0")
	c.Get("k1")
	clock.Advance(time.Second)

	c.Set("k10", []byte("v"))

	stats := c.Stats()
	assert.EqualValues(t, 2, stats.Evictions, "maxSize/5 entries evicted")
	assert.Equal(t, 9, stats.Size)

	_, ok := c.Get("k0")
	assert.True(t, ok, "recently accessed entry survives eviction")
	_, ok = c.Get("k2")
	assert.False(t, ok, "least recently accessed entry was evicted")
	_, ok = c.Get("k3")
	assert.False(t, ok)
}

func TestMemory_EvictsAtLeastOne(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	c.Set("c", []byte("3"))

	stats := c.Stats()
	assert.EqualValues(t, 1, stats.Evictions)
	assert.Equal(t, 2, stats.Size)
}

func TestMemory_SetSweepsExpiredBeforeCapacityCheck(t *testing.T) {
	c, clock := newTestCache(3, time.Minute)

	c.Set("a", []byte("1"))
	c.Set("b", []byte("2"))
	clock.Advance(2 * time.Minute)

	c.Set("c", []byte("3"))
	stats := c.Stats()
	assert.Equal(t, 1, stats.Size, "expired entries swept, no eviction needed")
	assert.EqualValues(t, 0, stats.Evictions)
}

func TestMemory_Clear(t *testing.T) {
	c, _ := newTestCache(10, time.Minute)

	c.Set("k", []byte("v"))
	c.Clear()

	_, ok := c.Get("k")
	assert.False(t, ok)
	assert.Equal(t, 0, c.Stats().Size)
}

func TestSearchKey_DistinctRequestsDistinctKeys(t *testing.T) {
	base := &models.SearchRequest{Query: "bat", Limit: 10}
	keys := map[string]bool{SearchKey(base): true}

	variants := []*models.SearchRequest{
		{Query: "bat", Limit: 20},
		{Query: "bat", Limit: 10, Offset: 10},
		{Query: "bat", Limit: 10, Genre: "Action"},
		{Query: "bat", Limit: 10, Year: testutil.IntPtr(2005)},
		{Query: "bat", Limit: 10, MinRating: testutil.Float64Ptr(7)},
		{Query: "bat", Limit: 10, SortBy: "year"},
		{Query: "cat", Limit: 10},
	}
	for _, v := range variants {
		key := SearchKey(v)
		assert.False(t, keys[key], "key collision for %+v", v)
		keys[key] = true
	}
}

func TestSearchKey_IsDeterministic(t *testing.T) {
	req := &models.SearchRequest{Query: " Bat ", Limit: 10, Year: testutil.IntPtr(2005)}
	assert.Equal(t, SearchKey(req), SearchKey(req))
	// Normalization folds case and whitespace.
	other := &models.SearchRequest{Query: "bat", Limit: 10, Year: testutil.IntPtr(2005)}
	assert.Equal(t, SearchKey(other), SearchKey(req))
}

func TestSuggestKey(t *testing.T) {
	assert.Equal(t, SuggestKey("Av", 10), SuggestKey("av", 10))
	assert.NotEqual(t, SuggestKey("av", 10), SuggestKey("av", 5))
}
