package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cinefusion/cinefusion/internal/config"
	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/testutil"
)

// stubLoader serves a fixed record set without touching the filesystem.
type stubLoader struct {
	movies []models.Movie
	err    error
	loads  int
}

func (l *stubLoader) Load() ([]models.Movie, error) {
	l.loads++
	return l.movies, l.err
}

func testConfig() *config.Config {
	return &config.Config{
		Environment: "test",
		Log:         config.LogConfig{Level: "error"},
		Search: config.SearchConfig{
			DefaultLimit:   10,
			MaxLimit:       100,
			MinQueryLength: 1,
			MaxQueryLength: 100,
		},
		Suggestions: config.SuggestionsConfig{
			MaxSuggestions: 20,
			MinQueryLength: 1,
			MaxQueryLength: 50,
		},
		Cache: config.CacheConfig{
			Enabled:    true,
			MaxSize:    100,
			TTLSeconds: 60,
		},
		RateLimit: config.RateLimitConfig{
			Enabled:                true,
			Requests:               3,
			WindowSeconds:          60,
			CleanupIntervalSeconds: 60,
		},
	}
}

func newTestContainer(t *testing.T) (*Container, *stubLoader) {
	t.Helper()
	loader := &stubLoader{movies: testutil.SampleMovies()}
	c, err := NewContainer(testConfig(), loader)
	require.NoError(t, err)
	require.NoError(t, c.LoadDataset())
	return c, loader
}

func TestContainer_SearchUsesCacheOnSecondCall(t *testing.T) {
	c, _ := newTestContainer(t)

	req := &models.SearchRequest{Query: "batman", Limit: 10}
	first, err := c.Search(req)
	require.NoError(t, err)
	assert.False(t, first.Cached)
	assert.Equal(t, 2, first.TotalCount)

	second, err := c.Search(req)
	require.NoError(t, err)
	assert.True(t, second.Cached)
	assert.Equal(t, first.TotalCount, second.TotalCount)
	assert.Equal(t, len(first.Movies), len(second.Movies))
}

func TestContainer_SearchPagination(t *testing.T) {
	c, _ := newTestContainer(t)

	resp, err := c.Search(&models.SearchRequest{Query: "action", Limit: 2, Offset: 2})
	require.NoError(t, err)
	assert.Equal(t, 5, resp.TotalCount)
	assert.Len(t, resp.Movies, 2)
	assert.True(t, resp.Pagination.HasNext)
	assert.True(t, resp.Pagination.HasPrev)
}

func TestContainer_Suggest(t *testing.T) {
	c, _ := newTestContainer(t)

	resp, err := c.Suggest("bat", 10)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.ElementsMatch(t, []string{"batman", "batman begins"}, resp.Suggestions)
	assert.Equal(t, 2, resp.TotalAvailable)

	again, err := c.Suggest("bat", 10)
	require.NoError(t, err)
	assert.True(t, again.Cached)
}

func TestContainer_SuggestUnknownPrefixIsEmpty(t *testing.T) {
	c, _ := newTestContainer(t)

	resp, err := c.Suggest("zzz", 10)
	require.NoError(t, err)
	assert.Empty(t, resp.Suggestions)
	assert.Zero(t, resp.TotalAvailable)
}

func TestContainer_SuggestCapsAtRequestedLimit(t *testing.T) {
	c, _ := newTestContainer(t)

	resp, err := c.Suggest("bat", 1)
	require.NoError(t, err)
	assert.Len(t, resp.Suggestions, 1)
	assert.Equal(t, 2, resp.TotalAvailable)
}

func TestContainer_SearchBeforeLoadFails(t *testing.T) {
	loader := &stubLoader{movies: testutil.SampleMovies()}
	c, err := NewContainer(testConfig(), loader)
	require.NoError(t, err)

	_, err = c.Search(&models.SearchRequest{Query: "batman", Limit: 10})
	assert.ErrorIs(t, err, models.ErrDatasetNotLoaded)
}

func TestContainer_ReloadFlushesCache(t *testing.T) {
	c, loader := newTestContainer(t)

	req := &models.SearchRequest{Query: "batman", Limit: 10}
	_, err := c.Search(req)
	require.NoError(t, err)

	// The reload drops one Batman film; a cached result must not survive.
	loader.movies = testutil.SampleMovies()[:1]
	require.NoError(t, c.LoadDataset())

	resp, err := c.Search(req)
	require.NoError(t, err)
	assert.False(t, resp.Cached)
	assert.Equal(t, 1, resp.TotalCount)
	assert.Equal(t, 2, loader.loads)
}

func TestContainer_RateCheck(t *testing.T) {
	c, _ := newTestContainer(t)

	for i := 0; i < 3; i++ {
		allowed, _ := c.RateCheck("10.0.0.1")
		assert.True(t, allowed)
	}
	allowed, info := c.RateCheck("10.0.0.1")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)

	// Other clients are unaffected.
	allowed, _ = c.RateCheck("10.0.0.2")
	assert.True(t, allowed)
}

func TestContainer_CacheStatsAndClear(t *testing.T) {
	c, _ := newTestContainer(t)

	_, err := c.Search(&models.SearchRequest{Query: "batman", Limit: 10})
	require.NoError(t, err)

	stats, err := c.CacheStats()
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Size)

	require.NoError(t, c.ClearCache())
	stats, err = c.CacheStats()
	require.NoError(t, err)
	assert.Zero(t, stats.Size)
}

func TestContainer_CacheDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.Cache.Enabled = false
	c, err := NewContainer(cfg, &stubLoader{movies: testutil.SampleMovies()})
	require.NoError(t, err)
	require.NoError(t, c.LoadDataset())

	_, err = c.CacheStats()
	assert.ErrorIs(t, err, models.ErrCacheDisabled)
	assert.ErrorIs(t, c.ClearCache(), models.ErrCacheDisabled)

	// Searches still work without the cache.
	resp, err := c.Search(&models.SearchRequest{Query: "batman", Limit: 10})
	require.NoError(t, err)
	assert.False(t, resp.Cached)
}

func TestContainer_HealthCheck(t *testing.T) {
	c, _ := newTestContainer(t)

	health := c.HealthCheck(context.Background())
	assert.Equal(t, "healthy", health["status"])

	servicesMap := health["services"].(map[string]interface{})
	dataset := servicesMap["dataset"].(map[string]interface{})
	assert.Equal(t, 6, dataset["movies"])
}
