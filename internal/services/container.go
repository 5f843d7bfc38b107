package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/cinefusion/cinefusion/internal/cache"
	"github.com/cinefusion/cinefusion/internal/catalog"
	"github.com/cinefusion/cinefusion/internal/config"
	"github.com/cinefusion/cinefusion/internal/index"
	"github.com/cinefusion/cinefusion/internal/ingest"
	"github.com/cinefusion/cinefusion/internal/models"
	"github.com/cinefusion/cinefusion/internal/monitoring"
	"github.com/cinefusion/cinefusion/internal/ratelimit"
)

// Container holds all the application services and manages their lifecycle.
// The store, engine and title indexes are built as a unit and swapped in
// atomically under the container lock, so readers always see a consistent
// snapshot of the catalog.
type Container struct {
	// Configuration
	config *config.Config
	logger *logrus.Logger

	// Dataset source
	loader ingest.Loader

	// Catalog snapshot, swapped wholesale on (re)load
	store     *catalog.Store
	engine    *catalog.Engine
	titleTree *index.AVLTree
	titleTrie *index.Trie
	loadedAt  time.Time

	// Ambient services
	respCache cache.Store
	governor  *ratelimit.SlidingWindow
	monitor   *monitoring.PerformanceMonitor

	// WebSocket hub for live monitoring events
	eventsHub *EventsHub

	// Lifecycle management
	stopChan chan struct{}
	wg       sync.WaitGroup
	mu       sync.RWMutex
}

// NewContainer creates a new service container. The dataset is not loaded
// yet; call LoadDataset before serving.
func NewContainer(cfg *config.Config, loader ingest.Loader) (*Container, error) {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	if cfg.Log.Level == "debug" {
		logger.SetLevel(logrus.DebugLevel)
	}

	container := &Container{
		config:   cfg,
		logger:   logger,
		loader:   loader,
		monitor:  monitoring.NewPerformanceMonitor(logger),
		stopChan: make(chan struct{}),
	}

	if err := container.initializeCache(); err != nil {
		return nil, err
	}
	container.initializeGovernor()
	container.eventsHub = NewEventsHub(logger)

	return container, nil
}

// initializeCache selects the response cache backend from configuration.
func (c *Container) initializeCache() error {
	if !c.config.Cache.Enabled {
		c.logger.Info("Response cache disabled")
		return nil
	}

	ttl := time.Duration(c.config.Cache.TTLSeconds) * time.Second
	if c.config.Redis.Enabled {
		addr := fmt.Sprintf("%s:%d", c.config.Redis.Host, c.config.Redis.Port)
		redisCache, err := cache.NewRedis(addr, c.config.Redis.Password, c.config.Redis.DB, ttl, c.logger)
		if err != nil {
			return fmt.Errorf("failed to initialize Redis cache: %w", err)
		}
		c.respCache = redisCache
		return nil
	}

	c.respCache = cache.NewMemory(c.config.Cache.MaxSize, ttl)
	c.logger.Infof("In-memory response cache initialized (max_size=%d, ttl=%s)", c.config.Cache.MaxSize, ttl)
	return nil
}

// initializeGovernor creates the per-client rate governor.
func (c *Container) initializeGovernor() {
	if !c.config.RateLimit.Enabled {
		c.logger.Info("Rate governor disabled")
		return
	}
	c.governor = ratelimit.NewSlidingWindow(
		c.config.RateLimit.Requests,
		time.Duration(c.config.RateLimit.WindowSeconds)*time.Second,
		time.Duration(c.config.RateLimit.CleanupIntervalSeconds)*time.Second,
	)
}

// LoadDataset loads the catalog from the configured source and builds the
// search indexes. Safe to call again at runtime; the new snapshot replaces
// the old one atomically and the response cache is flushed.
func (c *Container) LoadDataset() error {
	records, err := c.loader.Load()
	if err != nil {
		return fmt.Errorf("failed to load dataset: %w", err)
	}

	store := catalog.NewStore(records, c.logger)
	engine := catalog.NewEngine(store, c.logger)

	titleTree := index.NewAVLTree()
	titleTrie := index.NewTrie()
	for _, title := range store.Titles() {
		titleTree.Insert(title)
		titleTrie.Insert(title)
	}

	c.mu.Lock()
	c.store = store
	c.engine = engine
	c.titleTree = titleTree
	c.titleTrie = titleTrie
	c.loadedAt = time.Now()
	c.mu.Unlock()

	if c.respCache != nil {
		c.respCache.Clear()
	}

	c.logger.WithFields(logrus.Fields{
		"movies":      store.Len(),
		"tree_height": titleTree.Height(),
		"trie_words":  titleTrie.Len(),
	}).Info("Catalog loaded and indexed")

	c.eventsHub.BroadcastDatasetReloaded(store.Len())
	return nil
}

// Search runs a catalog search through the response cache. The cached
// flag on the response tells the two paths apart.
func (c *Container) Search(req *models.SearchRequest) (*models.SearchResponse, error) {
	start := time.Now()

	c.mu.RLock()
	engine := c.engine
	c.mu.RUnlock()
	if engine == nil {
		return nil, models.ErrDatasetNotLoaded
	}

	key := cache.SearchKey(req)
	if c.respCache != nil {
		if blob, ok := c.respCache.Get(key); ok {
			var resp models.SearchResponse
			if err := json.Unmarshal(blob, &resp); err == nil {
				resp.Cached = true
				resp.ExecutionTimeMS = elapsedMS(start)
				return &resp, nil
			}
			c.logger.Warnf("Dropping undecodable cache entry for key %q", key)
		}
	}

	movies, total, filters := engine.Search(req)
	resp := &models.SearchResponse{
		Movies:          movies,
		TotalCount:      total,
		Query:           req.Query,
		Filters:         filters,
		ExecutionTimeMS: elapsedMS(start),
		Cached:          false,
		Pagination: models.Pagination{
			Limit:   req.Limit,
			Offset:  req.Offset,
			Total:   total,
			HasNext: req.Offset+len(movies) < total,
			HasPrev: req.Offset > 0,
		},
	}

	if c.respCache != nil {
		if blob, err := json.Marshal(resp); err == nil {
			c.respCache.Set(key, blob)
		}
	}
	return resp, nil
}

// Suggest returns up to limit title completions for prefix, served from
// the prefix index behind the response cache. Suggestions come back in
// index traversal order, not alphabetically.
func (c *Container) Suggest(prefix string, limit int) (*models.SuggestionsResponse, error) {
	start := time.Now()

	c.mu.RLock()
	trie := c.titleTrie
	c.mu.RUnlock()
	if trie == nil {
		return nil, models.ErrDatasetNotLoaded
	}

	key := cache.SuggestKey(prefix, limit)
	if c.respCache != nil {
		if blob, ok := c.respCache.Get(key); ok {
			var resp models.SuggestionsResponse
			if err := json.Unmarshal(blob, &resp); err == nil {
				resp.Cached = true
				resp.ExecutionTimeMS = elapsedMS(start)
				return &resp, nil
			}
		}
	}

	// Collect up to the configured maximum so total_available reflects
	// more than the requested page.
	maxCollect := c.config.Suggestions.MaxSuggestions
	if maxCollect < limit {
		maxCollect = limit
	}
	all, outcome := trie.Suggest(strings.TrimSpace(prefix), maxCollect)
	suggestions := all
	if len(suggestions) > limit {
		suggestions = suggestions[:limit]
	}
	if suggestions == nil {
		suggestions = []string{}
	}
	c.logger.Debugf("Suggest %q: outcome=%s, available=%d", prefix, outcome, len(all))

	resp := &models.SuggestionsResponse{
		Suggestions:     suggestions,
		Query:           prefix,
		ExecutionTimeMS: elapsedMS(start),
		Cached:          false,
		TotalAvailable:  len(all),
	}

	if c.respCache != nil {
		if blob, err := json.Marshal(resp); err == nil {
			c.respCache.Set(key, blob)
		}
	}
	return resp, nil
}

// CacheStats returns the response cache counters.
func (c *Container) CacheStats() (cache.Stats, error) {
	if c.respCache == nil {
		return cache.Stats{}, models.ErrCacheDisabled
	}
	return c.respCache.Stats(), nil
}

// ClearCache flushes the response cache.
func (c *Container) ClearCache() error {
	if c.respCache == nil {
		return models.ErrCacheDisabled
	}
	c.respCache.Clear()
	c.logger.Info("Response cache cleared")
	return nil
}

// RateCheck asks the governor whether a request from clientID is admitted.
// With the governor disabled every request is allowed.
func (c *Container) RateCheck(clientID string) (bool, ratelimit.Info) {
	if c.governor == nil {
		return true, ratelimit.Info{Allowed: true}
	}
	return c.governor.Allow(clientID)
}

// Start starts all background services.
func (c *Container) Start() {
	c.logger.Info("Starting service container")

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.eventsHub.Start()
	}()

	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		c.metricsLoop()
	}()

	c.logger.Info("Service container started successfully")
}

// Stop gracefully stops all services.
func (c *Container) Stop() {
	c.logger.Info("Stopping service container")

	close(c.stopChan)
	c.eventsHub.Stop()

	if redisCache, ok := c.respCache.(*cache.Redis); ok {
		if err := redisCache.Close(); err != nil {
			c.logger.Errorf("Error closing Redis cache: %v", err)
		}
	}

	c.wg.Wait()
	c.logger.Info("Service container stopped")
}

// metricsLoop periodically broadcasts a metrics snapshot to the hub.
func (c *Container) metricsLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if c.eventsHub.ClientCount() > 0 {
				c.eventsHub.BroadcastMetrics(c.monitor.Summary())
			}
		case <-c.stopChan:
			return
		}
	}
}

// HealthCheck reports the health of the container's services.
func (c *Container) HealthCheck(ctx context.Context) map[string]interface{} {
	c.mu.RLock()
	store := c.store
	loadedAt := c.loadedAt
	c.mu.RUnlock()

	monitorHealth := c.monitor.Health()
	health := map[string]interface{}{
		"status":    monitorHealth.Status,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"services":  map[string]interface{}{},
	}
	servicesMap := health["services"].(map[string]interface{})

	if store == nil {
		servicesMap["dataset"] = map[string]interface{}{"status": "unhealthy", "error": "not loaded"}
		health["status"] = "degraded"
	} else {
		servicesMap["dataset"] = map[string]interface{}{
			"status":    "healthy",
			"movies":    store.Len(),
			"loaded_at": loadedAt.UTC().Format(time.RFC3339),
		}
	}

	if c.respCache == nil {
		servicesMap["cache"] = map[string]interface{}{"status": "disabled"}
	} else {
		stats := c.respCache.Stats()
		servicesMap["cache"] = map[string]interface{}{
			"status":   "healthy",
			"size":     stats.Size,
			"hit_rate": stats.HitRate,
		}
	}

	servicesMap["monitor"] = map[string]interface{}{
		"status":                monitorHealth.Status,
		"error_rate_acceptable": monitorHealth.ErrorRateAcceptable,
		"response_time_normal":  monitorHealth.ResponseTimeNormal,
	}

	return health
}

// GetStore returns the current catalog store, nil before the first load.
func (c *Container) GetStore() *catalog.Store {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.store
}

// GetTitleTree returns the current balanced title index.
func (c *Container) GetTitleTree() *index.AVLTree {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.titleTree
}

// GetGovernor returns the rate governor, nil when disabled.
func (c *Container) GetGovernor() *ratelimit.SlidingWindow {
	return c.governor
}

// GetMonitor returns the performance monitor.
func (c *Container) GetMonitor() *monitoring.PerformanceMonitor {
	return c.monitor
}

// GetEventsHub returns the WebSocket events hub.
func (c *Container) GetEventsHub() *EventsHub {
	return c.eventsHub
}

// GetLogger returns the logger instance.
func (c *Container) GetLogger() *logrus.Logger {
	return c.logger
}

// GetConfig returns the configuration.
func (c *Container) GetConfig() *config.Config {
	return c.config
}

func elapsedMS(start time.Time) float64 {
	return float64(time.Since(start).Microseconds()) / 1000.0
}
