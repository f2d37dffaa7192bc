package server

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
)

// Monitor tracks how many values the server has drawn and periodically logs
// the rate. The clock is injected so tests can drive the interval without
// sleeping.
type Monitor struct {
	logger *log.Logger
	clock  quartz.Clock

	total    atomic.Int64
	reported atomic.Int64
}

// NewMonitor creates a monitor.
func NewMonitor(logger *log.Logger, clock quartz.Clock) *Monitor {
	return &Monitor{
		logger: logger.WithPrefix("monitor"),
		clock:  clock,
	}
}

// Observe records n drawn values.
func (m *Monitor) Observe(n int) {
	m.total.Add(int64(n))
}

// Total returns the number of values drawn since startup.
func (m *Monitor) Total() int64 {
	return m.total.Load()
}

// Run logs draw activity every interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context, interval time.Duration) {
	ticker := m.clock.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.report(interval)
		}
	}
}

// report logs the values drawn during the last interval, skipping idle
// periods.
func (m *Monitor) report(interval time.Duration) int64 {
	total := m.total.Load()
	delta := total - m.reported.Swap(total)
	if delta > 0 {
		m.logger.Info("draw activity",
			"values", delta,
			"total", total,
			"per_second", float64(delta)/interval.Seconds())
	}
	return delta
}
