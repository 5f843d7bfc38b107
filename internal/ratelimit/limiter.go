// Package ratelimit implements per-client admission control as a strict
// sliding-window counter: requests in the trailing window are counted,
// with no burst tokens beyond the raw count.
package ratelimit

import (
	"sync"
	"time"
)

// Info reports the admission decision details for one call.
type Info struct {
	Allowed   bool  `json:"allowed"`
	Remaining int   `json:"remaining"`
	Reset     int64 `json:"reset"`
	Limit     int   `json:"limit"`
}

// SlidingWindow tracks request timestamps per client identifier. The
// limiter owns the client map exclusively; all mutation happens under
// its lock. Idle clients are swept opportunistically at most once per
// cleanup interval to bound memory.
type SlidingWindow struct {
	mu      sync.Mutex
	clients map[string][]time.Time

	limit           int
	window          time.Duration
	cleanupInterval time.Duration
	lastCleanup     time.Time

	now func() time.Time // injectable for tests
}

// NewSlidingWindow creates a limiter allowing limit requests per client
// within the trailing window.
func NewSlidingWindow(limit int, window, cleanupInterval time.Duration) *SlidingWindow {
	return &SlidingWindow{
		clients:         make(map[string][]time.Time),
		limit:           limit,
		window:          window,
		cleanupInterval: cleanupInterval,
		lastCleanup:     time.Now(),
		now:             time.Now,
	}
}

// Allow decides whether a request from clientID is admitted. Timestamps
// older than the window are pruned first; at the limit the request is
// denied without consuming a slot, otherwise the request instant is
// recorded.
func (l *SlidingWindow) Allow(clientID string) (bool, Info) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	if now.Sub(l.lastCleanup) > l.cleanupInterval {
		l.sweepIdle(now)
		l.lastCleanup = now
	}

	recent := pruneOld(l.clients[clientID], now.Add(-l.window))
	reset := now.Add(l.window).Unix()

	if len(recent) >= l.limit {
		l.clients[clientID] = recent
		return false, Info{Allowed: false, Remaining: 0, Reset: reset, Limit: l.limit}
	}

	l.clients[clientID] = append(recent, now)
	return true, Info{
		Allowed:   true,
		Remaining: l.limit - len(recent) - 1,
		Reset:     reset,
		Limit:     l.limit,
	}
}

// sweepIdle drops clients whose entire window has aged out.
func (l *SlidingWindow) sweepIdle(now time.Time) {
	cutoff := now.Add(-l.window)
	for id, stamps := range l.clients {
		recent := pruneOld(stamps, cutoff)
		if len(recent) == 0 {
			delete(l.clients, id)
		} else {
			l.clients[id] = recent
		}
	}
}

// ClientCount returns the number of tracked clients.
func (l *SlidingWindow) ClientCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.clients)
}

func pruneOld(stamps []time.Time, cutoff time.Time) []time.Time {
	recent := stamps[:0]
	for _, ts := range stamps {
		if ts.After(cutoff) {
			recent = append(recent, ts)
		}
	}
	return recent
}
