// Package collector provides background workers that sample the OS and
// emit updates for the engine.
package collector

import (
	"context"

	"github.com/grovetools/focusguard/internal/daemon/store"
)

// Collector is a background worker that fetches data and emits updates.
type Collector interface {
	// Name returns the collector's name for logging.
	Name() string

	// Run starts the collector. It should block until context is canceled.
	// It emits updates via the updates channel and may read the store for context.
	Run(ctx context.Context, st *store.Store, updates chan<- store.Update) error
}

// emit sends u unless ctx is cancelled first.
func emit(ctx context.Context, updates chan<- store.Update, u store.Update) bool {
	select {
	case updates <- u:
		return true
	case <-ctx.Done():
		return false
	}
}
