package store

import (
	"sync"
	"time"

	"github.com/grovetools/focusguard/internal/daemon/session"
)

// Store holds the latest snapshot. It is thread-safe and supports pub/sub
// for real-time updates; only the engine writes to it.
type Store struct {
	mu          sync.RWMutex
	snapshot    Snapshot
	subscribers map[chan Update]struct{}
	closed      bool
}

// New creates a new Store instance.
func New() *Store {
	return &Store{
		snapshot: Snapshot{
			Sessions:    []session.View{},
			UserPresent: true,
			Aggregate:   session.StatusOffline,
		},
		subscribers: make(map[chan Update]struct{}),
	}
}

// Get returns the current snapshot. The snapshot is replaced, never
// mutated, so the returned value is safe to read.
func (s *Store) Get() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshot
}

// Publish replaces the snapshot and notifies subscribers once per changed
// aspect. The snapshot is the payload of every notification.
func (s *Store) Publish(snap Snapshot, changed []UpdateType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	for _, t := range changed {
		s.broadcast(Update{Type: t, Source: "engine", At: snap.UpdatedAt, Payload: snap})
	}
}

// BroadcastConfigReload sends a config reload notification to all subscribers.
func (s *Store) BroadcastConfigReload(file string) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	s.broadcast(Update{
		Type:    UpdateConfigReload,
		Source:  "config",
		At:      time.Now(),
		Payload: file,
	})
}

// broadcast must be called with the lock held.
func (s *Store) broadcast(u Update) {
	for ch := range s.subscribers {
		select {
		case ch <- u:
		default:
			// Non-blocking send to prevent slow clients from stalling the daemon
		}
	}
}

// Subscribe creates a new subscription channel for state updates.
// After Close the returned channel is already closed.
func (s *Store) Subscribe() chan Update {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Update, 100)
	if s.closed {
		close(ch)
		return ch
	}
	s.subscribers[ch] = struct{}{}
	return ch
}

// Unsubscribe removes a subscription and closes its channel.
func (s *Store) Unsubscribe(ch chan Update) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.subscribers[ch]; !ok {
		return
	}
	delete(s.subscribers, ch)
	close(ch)
}

// Close closes every subscriber channel. Used on shutdown.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	for ch := range s.subscribers {
		delete(s.subscribers, ch)
		close(ch)
	}
}
