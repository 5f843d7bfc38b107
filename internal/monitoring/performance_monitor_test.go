package monitoring

import (
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestPerformanceMonitor_Summary(t *testing.T) {
	m := NewPerformanceMonitor(logrus.New())

	m.RecordRequest(10, false)
	m.RecordRequest(20, false)
	m.RecordRequest(30, true)

	s := m.Summary()
	assert.EqualValues(t, 3, s.TotalRequests)
	assert.EqualValues(t, 1, s.TotalErrors)
	assert.InDelta(t, 33.33, s.ErrorRate, 0.01)
	assert.InDelta(t, 20, s.AvgResponseTimeMS, 0.001)
	assert.InDelta(t, 30, s.MaxResponseTimeMS, 0.001)
	assert.Greater(t, s.Goroutines, 0)
}

func TestPerformanceMonitor_HealthDegradesOnErrors(t *testing.T) {
	logger := logrus.New()
	logger.SetLevel(logrus.ErrorLevel)
	m := NewPerformanceMonitor(logger)

	for i := 0; i < 9; i++ {
		m.RecordRequest(5, false)
	}
	assert.Equal(t, "healthy", m.Health().Status)

	m.RecordRequest(5, true)
	h := m.Health()
	assert.Equal(t, "degraded", h.Status)
	assert.False(t, h.ErrorRateAcceptable)
	assert.True(t, h.ResponseTimeNormal)
}

func TestPerformanceMonitor_BoundsResponseTimeWindow(t *testing.T) {
	m := NewPerformanceMonitor(logrus.New())

	for i := 0; i < maxResponseTimes+10; i++ {
		m.RecordRequest(1, false)
	}
	m.mu.Lock()
	window := len(m.responseTimes)
	m.mu.Unlock()
	assert.LessOrEqual(t, window, maxResponseTimes)
}

func TestPerformanceMonitor_EmptySummary(t *testing.T) {
	m := NewPerformanceMonitor(logrus.New())
	s := m.Summary()
	assert.Zero(t, s.TotalRequests)
	assert.Zero(t, s.ErrorRate)
	assert.Zero(t, s.AvgResponseTimeMS)
}
