// Package monitoring collects in-process request metrics and derives a
// health status from them. Nothing here is exported to an external
// metrics sink; the numbers feed the stats endpoints and the live event
// stream.
package monitoring

import (
	"runtime"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

const maxResponseTimes = 1000

// PerformanceMonitor accumulates request counts, error counts and a
// moving window of response times.
type PerformanceMonitor struct {
	mu sync.Mutex

	requestCount  int64
	errorCount    int64
	responseTimes []float64

	startTime time.Time
	logger    *logrus.Logger
}

// Summary is a snapshot of the application metrics.
type Summary struct {
	TotalRequests     int64   `json:"total_requests"`
	TotalErrors       int64   `json:"total_errors"`
	ErrorRate         float64 `json:"error_rate"`
	AvgResponseTimeMS float64 `json:"avg_response_time_ms"`
	MaxResponseTimeMS float64 `json:"max_response_time_ms"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	Goroutines        int     `json:"goroutines"`
	HeapAllocBytes    uint64  `json:"heap_alloc_bytes"`
	Timestamp         string  `json:"timestamp"`
}

// HealthStatus reports the derived health of the process.
type HealthStatus struct {
	Status              string  `json:"status"` // healthy, degraded
	UptimeSeconds       float64 `json:"uptime_seconds"`
	ErrorRateAcceptable bool    `json:"error_rate_acceptable"`
	ResponseTimeNormal  bool    `json:"response_time_normal"`
}

// NewPerformanceMonitor creates a monitor with its clock started.
func NewPerformanceMonitor(logger *logrus.Logger) *PerformanceMonitor {
	return &PerformanceMonitor{
		startTime: time.Now(),
		logger:    logger,
	}
}

// RecordRequest records one served request and its latency.
func (m *PerformanceMonitor) RecordRequest(responseTimeMS float64, isError bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requestCount++
	if isError {
		m.errorCount++
	}
	m.responseTimes = append(m.responseTimes, responseTimeMS)
	// Keep a bounded window for the moving average.
	if len(m.responseTimes) > maxResponseTimes {
		m.responseTimes = m.responseTimes[len(m.responseTimes)-maxResponseTimes/2:]
	}
}

// Summary returns the current application metrics snapshot.
func (m *PerformanceMonitor) Summary() Summary {
	m.mu.Lock()
	defer m.mu.Unlock()

	var avg, max float64
	if len(m.responseTimes) > 0 {
		var sum float64
		for _, rt := range m.responseTimes {
			sum += rt
			if rt > max {
				max = rt
			}
		}
		avg = sum / float64(len(m.responseTimes))
	}
	var errorRate float64
	if m.requestCount > 0 {
		errorRate = float64(m.errorCount) / float64(m.requestCount) * 100
	}

	var mem runtime.MemStats
	runtime.ReadMemStats(&mem)

	return Summary{
		TotalRequests:     m.requestCount,
		TotalErrors:       m.errorCount,
		ErrorRate:         errorRate,
		AvgResponseTimeMS: avg,
		MaxResponseTimeMS: max,
		UptimeSeconds:     time.Since(m.startTime).Seconds(),
		Goroutines:        runtime.NumGoroutine(),
		HeapAllocBytes:    mem.HeapAlloc,
		Timestamp:         time.Now().UTC().Format(time.RFC3339),
	}
}

// Health derives a health status from the current metrics. Error rate
// above 5% or average latency above one second degrade the status.
func (m *PerformanceMonitor) Health() HealthStatus {
	s := m.Summary()
	errorRateOK := s.ErrorRate < 5.0
	responseOK := s.AvgResponseTimeMS < 1000

	status := "healthy"
	if !errorRateOK || !responseOK {
		status = "degraded"
		m.logger.WithFields(logrus.Fields{
			"error_rate":           s.ErrorRate,
			"avg_response_time_ms": s.AvgResponseTimeMS,
		}).Warn("Service health degraded")
	}
	return HealthStatus{
		Status:              status,
		UptimeSeconds:       s.UptimeSeconds,
		ErrorRateAcceptable: errorRateOK,
		ResponseTimeNormal:  responseOK,
	}
}
