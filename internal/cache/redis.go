package cache

import (
	"context"
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const redisKeyPrefix = "cinefusion:cache:"

// Redis is a response cache backed by a Redis instance. TTL is enforced
// by Redis expirations and capacity by its own maxmemory policy, so the
// eviction counter stays at zero here; hit and miss counters are tracked
// locally per process.
type Redis struct {
	client *redis.Client
	ttl    time.Duration
	logger *logrus.Logger

	hits   int64
	misses int64
}

// NewRedis creates a Redis-backed cache and verifies connectivity.
func NewRedis(addr, password string, db int, ttl time.Duration, logger *logrus.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
		PoolSize: 10,
	})
	if _, err := client.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	logger.Info("Redis response cache initialized")
	return &Redis{client: client, ttl: ttl, logger: logger}, nil
}

// Get returns the stored value for key, or a miss when absent/expired.
func (c *Redis) Get(key string) ([]byte, bool) {
	val, err := c.client.Get(context.Background(), redisKeyPrefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.logger.Warnf("Redis cache get failed: %v", err)
		}
		atomic.AddInt64(&c.misses, 1)
		return nil, false
	}
	atomic.AddInt64(&c.hits, 1)
	return val, true
}

// Set stores a value with the cache TTL.
func (c *Redis) Set(key string, value []byte) {
	if err := c.client.Set(context.Background(), redisKeyPrefix+key, value, c.ttl).Err(); err != nil {
		c.logger.Warnf("Redis cache set failed: %v", err)
	}
}

// Clear removes every cached entry under the cache prefix.
func (c *Redis) Clear() {
	ctx := context.Background()
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			c.logger.Warnf("Redis cache delete failed: %v", err)
		}
	}
	if err := iter.Err(); err != nil {
		c.logger.Warnf("Redis cache clear scan failed: %v", err)
	}
}

// Stats returns a snapshot of the local counters plus the current number
// of cached keys.
func (c *Redis) Stats() Stats {
	ctx := context.Background()
	var size int
	iter := c.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		size++
	}

	hits := atomic.LoadInt64(&c.hits)
	misses := atomic.LoadInt64(&c.misses)
	var hitRate float64
	if total := hits + misses; total > 0 {
		hitRate = math.Round(float64(hits)/float64(total)*10000) / 100
	}
	return Stats{
		Size:       size,
		Hits:       hits,
		Misses:     misses,
		HitRate:    hitRate,
		TTLSeconds: int(c.ttl.Seconds()),
	}
}

// Close releases the underlying connection pool.
func (c *Redis) Close() error {
	return c.client.Close()
}
