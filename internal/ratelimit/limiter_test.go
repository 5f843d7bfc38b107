package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) Now() time.Time          { return f.t }
func (f *fakeClock) Advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestLimiter(limit int, window time.Duration) (*SlidingWindow, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1700000000, 0)}
	l := NewSlidingWindow(limit, window, time.Minute)
	l.now = clock.Now
	l.lastCleanup = clock.t
	return l, clock
}

func TestSlidingWindow_DeniesFourthRequest(t *testing.T) {
	l, _ := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, info := l.Allow("1.2.3.4")
		require.True(t, allowed, "request %d should be admitted", i+1)
		assert.Equal(t, 3-i-1, info.Remaining)
		assert.Equal(t, 3, info.Limit)
	}

	allowed, info := l.Allow("1.2.3.4")
	assert.False(t, allowed)
	assert.Zero(t, info.Remaining)
	assert.Equal(t, 3, info.Limit)
}

func TestSlidingWindow_WindowSlides(t *testing.T) {
	l, clock := newTestLimiter(3, time.Minute)

	for i := 0; i < 3; i++ {
		allowed, _ := l.Allow("c")
		require.True(t, allowed)
	}
	allowed, _ := l.Allow("c")
	require.False(t, allowed)

	clock.Advance(time.Minute + time.Second)

	allowed, info := l.Allow("c")
	assert.True(t, allowed, "request after the window elapses is admitted")
	assert.Equal(t, 2, info.Remaining, "remaining resets to limit-1")
}

func TestSlidingWindow_ClientsAreIndependent(t *testing.T) {
	l, _ := newTestLimiter(1, time.Minute)

	allowed, _ := l.Allow("a")
	require.True(t, allowed)
	allowed, _ = l.Allow("a")
	require.False(t, allowed)

	allowed, _ = l.Allow("b")
	assert.True(t, allowed, "a different client has its own window")
}

func TestSlidingWindow_DenialDoesNotConsumeSlot(t *testing.T) {
	l, clock := newTestLimiter(2, time.Minute)

	l.Allow("c")
	clock.Advance(30 * time.Second)
	l.Allow("c")

	// Denied requests must not extend the window.
	for i := 0; i < 5; i++ {
		allowed, _ := l.Allow("c")
		require.False(t, allowed)
	}

	// The first timestamp ages out 31s later; one slot frees up.
	clock.Advance(31 * time.Second)
	allowed, _ := l.Allow("c")
	assert.True(t, allowed)
}

func TestSlidingWindow_SweepsIdleClients(t *testing.T) {
	l, clock := newTestLimiter(5, time.Minute)

	l.Allow("idle")
	l.Allow("busy")
	require.Equal(t, 2, l.ClientCount())

	// Past the window and the cleanup interval; next call triggers the
	// sweep and only the caller remains tracked.
	clock.Advance(2 * time.Minute)
	l.Allow("busy")
	assert.Equal(t, 1, l.ClientCount())
}

func TestSlidingWindow_ResetReportsEndOfWindow(t *testing.T) {
	l, clock := newTestLimiter(1, time.Minute)

	_, info := l.Allow("c")
	assert.Equal(t, clock.t.Add(time.Minute).Unix(), info.Reset)
}
