package collector

import (
	"context"
	"time"

	"github.com/grovetools/focusguard/internal/daemon/store"
)

// ClockCollector emits one tick per sitting-time unit.
type ClockCollector struct {
	interval time.Duration
	now      func() time.Time
}

// NewClockCollector creates a new ClockCollector.
// If interval is 0, defaults to one minute.
func NewClockCollector(interval time.Duration) *ClockCollector {
	if interval == 0 {
		interval = time.Minute
	}
	return &ClockCollector{interval: interval, now: time.Now}
}

// Name returns the collector's name.
func (c *ClockCollector) Name() string { return "clock" }

// Run emits ticks until ctx is cancelled. The first tick comes one full
// interval after start.
func (c *ClockCollector) Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			now := c.now()
			if !emit(ctx, updates, store.Update{Type: store.UpdateTick, Source: c.Name(), At: now, Payload: now}) {
				return nil
			}
		}
	}
}
