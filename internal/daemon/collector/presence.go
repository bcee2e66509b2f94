package collector

import (
	"context"
	"time"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/presence"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/idle"
	"github.com/sirupsen/logrus"
)

// PresenceCollector samples input idle time.
type PresenceCollector struct {
	interval time.Duration
	source   idle.Source
	now      func() time.Time
	logger   *logrus.Entry
}

// NewPresenceCollector creates a new PresenceCollector.
// If interval is 0, defaults to 5 seconds.
func NewPresenceCollector(interval time.Duration, source idle.Source) *PresenceCollector {
	if interval == 0 {
		interval = 5 * time.Second
	}
	return &PresenceCollector{
		interval: interval,
		source:   source,
		now:      time.Now,
		logger:   logging.NewLogger("collector.presence"),
	}
}

// Name returns the collector's name.
func (c *PresenceCollector) Name() string { return "presence" }

// Run samples until ctx is cancelled. When the platform has no idle source
// every sample is active, so the user is always considered present.
func (c *PresenceCollector) Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	unsupportedLogged := false
	sample := func() bool {
		idleCtx, cancel := context.WithTimeout(ctx, c.interval)
		d, err := c.source.Idle(idleCtx)
		cancel()

		now := c.now()
		var s presence.Sample
		switch {
		case err == nil:
			s = presence.SampleFromIdle(now, d, c.interval)
		case err == idle.ErrUnsupported:
			if !unsupportedLogged {
				c.logger.Info("Idle time unavailable, treating user as always present")
				unsupportedLogged = true
			}
			s = presence.Sample{At: now, Active: true}
		default:
			c.logger.WithError(errors.SamplingFailed("idle", err)).Debug("Skipping presence sample")
			return true
		}

		return emit(ctx, updates, store.Update{
			Type:    store.UpdatePresenceSample,
			Source:  c.Name(),
			At:      now,
			Payload: s,
		})
	}

	if !sample() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !sample() {
				return nil
			}
		}
	}
}
