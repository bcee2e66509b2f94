package session

import (
	"sort"
	"time"

	"github.com/grovetools/focusguard/config"
)

// Options are the registry's tunables.
type Options struct {
	EndedPolicy    string
	EndedRetention time.Duration
	StaleTimeout   time.Duration
	IdleAfter      time.Duration
}

// OptionsFromConfig extracts registry options from the sessions section.
func OptionsFromConfig(cfg config.SessionsConfig) Options {
	return Options{
		EndedPolicy:    cfg.EndedPolicy,
		EndedRetention: cfg.EndedRetention,
		StaleTimeout:   cfg.StaleTimeout,
		IdleAfter:      cfg.IdleAfter,
	}
}

// Outcome describes what Apply did with a message.
type Outcome struct {
	Session Session
	Event   Event
	// Created is set when the key was unknown (or restarted after Ended).
	Created bool
	// Rejected is set when the event was dropped, either by the ended policy
	// or because it ends a session that has already ended.
	Rejected bool
	// StateChanged is set when the session's state differs from before.
	StateChanged bool
}

// Registry holds the live set of sessions. It is not safe for concurrent use;
// the engine goroutine is its only writer.
type Registry struct {
	sessions map[string]*Session
	opts     Options
}

// NewRegistry creates an empty registry.
func NewRegistry(opts Options) *Registry {
	return &Registry{
		sessions: make(map[string]*Session),
		opts:     opts,
	}
}

// SetOptions replaces the registry options, e.g. after a config reload.
func (r *Registry) SetOptions(opts Options) {
	r.opts = opts
}

// Options returns the current options.
func (r *Registry) Options() Options {
	return r.opts
}

// Apply maps msg onto the canonical alphabet and transitions its session.
func (r *Registry) Apply(msg Message) (Outcome, error) {
	ev, err := MapEvent(msg.Tool, msg.Event)
	if err != nil {
		return Outcome{}, err
	}

	at := msg.ReceivedAt
	key := msg.Key()
	s, exists := r.sessions[key]

	if exists && s.State == StateEnded {
		// A repeated end must not push EndedAt and postpone reaping.
		if ev == EventEnd || r.opts.EndedPolicy == config.EndedPolicyReject {
			return Outcome{Session: *s, Event: ev, Rejected: true}, nil
		}
		exists = false
	}

	if !exists {
		s = &Session{
			Key:       key,
			ID:        msg.SessionID,
			Tool:      msg.Tool,
			Cwd:       msg.Cwd,
			PID:       msg.PID,
			TmuxPane:  msg.TmuxPane,
			StartedAt: at,
			State:     Transition(StateWorking, ev),
		}
		r.touch(s, msg, at)
		r.sessions[key] = s
		return Outcome{Session: *s, Event: ev, Created: true, StateChanged: true}, nil
	}

	prev := s.State
	s.State = Transition(prev, ev)
	r.touch(s, msg, at)
	return Outcome{Session: *s, Event: ev, StateChanged: prev != s.State}, nil
}

func (r *Registry) touch(s *Session, msg Message, at time.Time) {
	s.LastEvent = msg.Event
	s.LastEventAt = at
	if msg.Cwd != "" {
		s.Cwd = msg.Cwd
	}
	if msg.PID > 0 {
		s.PID = msg.PID
	}
	if msg.TmuxPane != "" {
		s.TmuxPane = msg.TmuxPane
	}
	if s.State == StateEnded {
		s.EndedAt = at
	}
}

// ForceEnd moves a session to Ended, as if its end hook had arrived.
func (r *Registry) ForceEnd(key string, now time.Time) bool {
	s, ok := r.sessions[key]
	if !ok || s.State == StateEnded {
		return false
	}
	s.State = StateEnded
	s.EndedAt = now
	return true
}

// Reap removes Ended sessions older than the retention period and ends live
// sessions that have been silent past the stale timeout and whose process is
// gone. alive may be nil when no process observations are available, in
// which case stale sessions are left alone. It reports whether anything changed.
func (r *Registry) Reap(now time.Time, alive func(Session) bool) bool {
	changed := false
	for key, s := range r.sessions {
		switch {
		case s.State == StateEnded:
			if now.Sub(s.EndedAt) >= r.opts.EndedRetention {
				delete(r.sessions, key)
				changed = true
			}
		case alive != nil && now.Sub(s.LastEventAt) >= r.opts.StaleTimeout:
			if !alive(*s) {
				s.State = StateEnded
				s.EndedAt = now
				changed = true
			}
		}
	}
	return changed
}

// Get returns a copy of the session stored under key.
func (r *Registry) Get(key string) (Session, bool) {
	s, ok := r.sessions[key]
	if !ok {
		return Session{}, false
	}
	return *s, true
}

// Len returns the number of tracked sessions, ended ones included.
func (r *Registry) Len() int {
	return len(r.sessions)
}

// List returns copies of all sessions ordered by start time, then key.
func (r *Registry) List() []Session {
	out := make([]Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, *s)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].Key < out[j].Key
	})
	return out
}

// Views projects every session for display at now.
func (r *Registry) Views(now time.Time) []View {
	list := r.List()
	views := make([]View, 0, len(list))
	for _, s := range list {
		views = append(views, View{
			Key:    s.Key,
			Tool:   s.Tool,
			Name:   s.Name(),
			Status: s.Status(now, r.opts.IdleAfter),
			Cwd:    s.Cwd,
			PID:    s.PID,
		})
	}
	return views
}

// AnyWaiting reports whether at least one session is waiting for input.
func (r *Registry) AnyWaiting() bool {
	_, ok := r.MostRecentWaiting()
	return ok
}

// MostRecentWaiting returns the waiting session with the latest event.
func (r *Registry) MostRecentWaiting() (Session, bool) {
	var best *Session
	for _, s := range r.sessions {
		if s.State != StateWaiting {
			continue
		}
		if best == nil || s.LastEventAt.After(best.LastEventAt) ||
			(s.LastEventAt.Equal(best.LastEventAt) && s.Key < best.Key) {
			best = s
		}
	}
	if best == nil {
		return Session{}, false
	}
	return *best, true
}

// Aggregate returns the combined display status with priority
// waiting > working > idle > offline. Ended sessions do not count.
func (r *Registry) Aggregate(now time.Time) string {
	return AggregateOf(r.Views(now))
}

// AggregateOf folds display statuses into a single one.
func AggregateOf(views []View) string {
	rank := map[string]int{StatusWaiting: 3, StatusWorking: 2, StatusIdle: 1}
	best, bestRank := StatusOffline, 0
	for _, v := range views {
		if r := rank[v.Status]; r > bestRank {
			best, bestRank = v.Status, r
		}
	}
	return best
}
