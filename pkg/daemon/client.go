// Package daemon provides a client for the focus daemon's API socket.
package daemon

import (
	"context"

	"github.com/grovetools/focusguard/internal/daemon/engine"
	"github.com/grovetools/focusguard/internal/daemon/server"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/store"
)

// Snapshot is the daemon's published world view.
type Snapshot = store.Snapshot

// StateUpdate represents an update pushed from the daemon to subscribers.
type StateUpdate = server.StateUpdate

// SettingsPatch changes runtime settings. Nil fields are left alone.
type SettingsPatch = engine.SettingsPatch

// Client defines the interface for interacting with the focus daemon.
type Client interface {
	// State returns the current snapshot.
	State(ctx context.Context) (*Snapshot, error)

	// Sessions returns the display list: tracked sessions plus detected processes.
	Sessions(ctx context.Context) ([]session.View, error)

	// Config returns the configuration the daemon is running with.
	Config(ctx context.Context) (*server.ConfigResponse, error)

	// Reset zeroes the sitting time and cancels a pending reminder.
	Reset(ctx context.Context) (*Snapshot, error)

	// TestReminder asks the daemon to show a test notification.
	TestReminder(ctx context.Context) (*Snapshot, error)

	// UpdateSettings applies a runtime settings change. The config file is not modified.
	UpdateSettings(ctx context.Context, patch SettingsPatch) (*Snapshot, error)

	// StreamState subscribes to real-time state updates over SSE.
	// The channel is closed when ctx is cancelled or the daemon goes away.
	StreamState(ctx context.Context) (<-chan StateUpdate, error)

	// WatchState is StreamState over the websocket endpoint.
	WatchState(ctx context.Context) (<-chan StateUpdate, error)

	// IsRunning returns true if the daemon is available and responding.
	IsRunning() bool

	// Close cleans up any resources used by the client.
	Close() error
}
