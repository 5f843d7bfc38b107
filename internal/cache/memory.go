package cache

import (
	"math"
	"sort"
	"sync"
	"time"
)

type entry struct {
	value      []byte
	insertedAt time.Time
	lastAccess time.Time
}

// Memory is the in-memory response cache: TTL with lazy expiry on Get,
// and capacity-bounded with least-recently-accessed eviction on Set.
// Hit, miss and eviction counters are monotonic process-lifetime totals.
type Memory struct {
	mu      sync.Mutex
	entries map[string]*entry

	maxSize int
	ttl     time.Duration

	hits      int64
	misses    int64
	evictions int64

	now func() time.Time // injectable for tests
}

// NewMemory creates a cache bounded by maxSize entries, expiring entries
// after ttl.
func NewMemory(maxSize int, ttl time.Duration) *Memory {
	return &Memory{
		entries: make(map[string]*entry),
		maxSize: maxSize,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the stored value for key. An entry older than the TTL is
// removed on sight and counted as a miss.
func (c *Memory) Get(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if e, ok := c.entries[key]; ok {
		if now.Sub(e.insertedAt) < c.ttl {
			e.lastAccess = now
			c.hits++
			return e.value, true
		}
		delete(c.entries, key)
	}
	c.misses++
	return nil, false
}

// Set stores a value. Expired entries are swept first; if the cache is
// still at capacity, the least-recently-accessed 20% (at least one
// entry) are evicted before the insert.
func (c *Memory) Set(key string, value []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	c.sweepExpired(now)
	if len(c.entries) >= c.maxSize {
		c.evictLRU()
	}
	c.entries[key] = &entry{value: value, insertedAt: now, lastAccess: now}
}

// Clear drops every entry. Counters are not reset.
func (c *Memory) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*entry)
}

// Stats returns a snapshot of the cache counters.
func (c *Memory) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = math.Round(float64(c.hits)/float64(total)*10000) / 100
	}
	return Stats{
		Size:       len(c.entries),
		MaxSize:    c.maxSize,
		Hits:       c.hits,
		Misses:     c.misses,
		HitRate:    hitRate,
		Evictions:  c.evictions,
		TTLSeconds: int(c.ttl.Seconds()),
	}
}

func (c *Memory) sweepExpired(now time.Time) {
	for key, e := range c.entries {
		if now.Sub(e.insertedAt) >= c.ttl {
			delete(c.entries, key)
		}
	}
}

// evictLRU removes maxSize/5 entries (at least one) ranked by last
// access time, oldest first.
func (c *Memory) evictLRU() {
	if len(c.entries) == 0 {
		return
	}
	toRemove := c.maxSize / 5
	if toRemove < 1 {
		toRemove = 1
	}

	type ranked struct {
		key        string
		lastAccess time.Time
	}
	all := make([]ranked, 0, len(c.entries))
	for key, e := range c.entries {
		all = append(all, ranked{key: key, lastAccess: e.lastAccess})
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].lastAccess.Before(all[j].lastAccess)
	})
	if toRemove > len(all) {
		toRemove = len(all)
	}
	for _, r := range all[:toRemove] {
		delete(c.entries, r.key)
		c.evictions++
	}
}
