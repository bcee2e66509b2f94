package collector

import (
	"context"
	"time"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/process"
	"github.com/sirupsen/logrus"
)

// ProcessSource lists running CLI processes.
type ProcessSource interface {
	Sample() ([]process.Observation, error)
}

// ProcessCollector polls the process table for AI CLIs.
type ProcessCollector struct {
	interval time.Duration
	source   ProcessSource
	now      func() time.Time
	logger   *logrus.Entry
}

// NewProcessCollector creates a new ProcessCollector.
// If interval is 0, defaults to 10 seconds.
func NewProcessCollector(interval time.Duration, source ProcessSource) *ProcessCollector {
	if interval == 0 {
		interval = 10 * time.Second
	}
	return &ProcessCollector{
		interval: interval,
		source:   source,
		now:      time.Now,
		logger:   logging.NewLogger("collector.process"),
	}
}

// Name returns the collector's name.
func (c *ProcessCollector) Name() string { return "process" }

// Run starts the process polling loop. A failed listing skips the tick.
func (c *ProcessCollector) Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	scan := func() bool {
		start := time.Now()
		obs, err := c.source.Sample()
		if err != nil {
			c.logger.WithError(errors.SamplingFailed("process", err)).Debug("Skipping process tick")
			return true
		}
		if d := time.Since(start); d > time.Second {
			c.logger.WithField("duration", d).Warn("Slow process listing detected")
		}
		return emit(ctx, updates, store.Update{
			Type:    store.UpdateProcesses,
			Source:  c.Name(),
			At:      c.now(),
			Payload: obs,
		})
	}

	if !scan() {
		return nil
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if !scan() {
				return nil
			}
		}
	}
}
