// Package reminder decides when a break reminder is due and when it may be
// shown without interrupting an agent that is still working.
package reminder

import (
	"time"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/internal/daemon/session"
)

// Fire reasons.
const (
	ReasonWaiting = "waiting"
	ReasonMaxWait = "max_wait"
)

// Settings are the policy's tunables.
type Settings struct {
	Enabled  bool
	Interval int
	Cooldown time.Duration
	MaxWait  time.Duration
}

// SettingsFromConfig extracts policy settings from the reminder section.
func SettingsFromConfig(cfg config.ReminderConfig) Settings {
	return Settings{
		Enabled:  cfg.Enabled,
		Interval: cfg.Interval,
		Cooldown: cfg.Cooldown,
		MaxWait:  cfg.MaxWait,
	}
}

// State is the policy's memory between evaluations.
type State struct {
	LastFiredAt  time.Time `json:"last_fired_at"`
	Pending      bool      `json:"pending"`
	PendingSince time.Time `json:"pending_since"`
}

// Decision is the result of one evaluation.
type Decision struct {
	Fire bool
	// Reason is ReasonWaiting or ReasonMaxWait when Fire is set.
	Reason string
	// Target is the waiting session the reminder is shown over, if any.
	Target    session.Session
	HasTarget bool
	// BecamePending is set on the evaluation that made a reminder due.
	BecamePending bool
	Minutes       int
}

// Policy holds reminder state. It is owned by the engine goroutine.
type Policy struct {
	settings Settings
	state    State
}

// NewPolicy creates a policy with nothing pending.
func NewPolicy(settings Settings) *Policy {
	return &Policy{settings: settings}
}

// SetSettings replaces the settings, e.g. after a config reload or an
// interval change from the UI.
func (p *Policy) SetSettings(settings Settings) {
	p.settings = settings
	if !settings.Enabled {
		p.state.Pending = false
		p.state.PendingSince = time.Time{}
	}
}

// Settings returns the current settings.
func (p *Policy) Settings() Settings {
	return p.settings
}

// State returns the current state.
func (p *Policy) State() State {
	return p.state
}

// Evaluate runs the policy at now with the current sitting minutes and the
// most recently updated waiting session, if any.
func (p *Policy) Evaluate(now time.Time, minutes int, waiting session.Session, anyWaiting bool) Decision {
	d := Decision{Minutes: minutes}
	if !p.settings.Enabled {
		return d
	}

	if !p.state.Pending && minutes >= p.settings.Interval && !p.inCooldown(now) {
		p.state.Pending = true
		p.state.PendingSince = now
		d.BecamePending = true
	}
	if !p.state.Pending {
		return d
	}

	switch {
	case anyWaiting:
		d.Fire, d.Reason = true, ReasonWaiting
		d.Target, d.HasTarget = waiting, true
	case now.Sub(p.state.PendingSince) >= p.settings.MaxWait:
		d.Fire, d.Reason = true, ReasonMaxWait
	default:
		return d
	}

	p.state.LastFiredAt = now
	p.state.Pending = false
	p.state.PendingSince = time.Time{}
	return d
}

func (p *Policy) inCooldown(now time.Time) bool {
	return !p.state.LastFiredAt.IsZero() && now.Sub(p.state.LastFiredAt) < p.settings.Cooldown
}

// Clear forgets all reminder state. Used when a break has been confirmed.
func (p *Policy) Clear() {
	p.state = State{}
}

// CancelPending drops a pending reminder but keeps the cooldown.
func (p *Policy) CancelPending() {
	p.state.Pending = false
	p.state.PendingSince = time.Time{}
}
