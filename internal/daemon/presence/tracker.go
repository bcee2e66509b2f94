// Package presence filters raw input-activity samples into a stable
// present/away signal.
package presence

import "time"

// Sample is one observation of user input activity.
type Sample struct {
	At     time.Time
	Active bool
}

// SampleFromIdle builds a sample from the seconds since the last user input.
// Input within the last sampling period counts as activity.
func SampleFromIdle(at time.Time, idle, interval time.Duration) Sample {
	return Sample{At: at, Active: idle < interval}
}

// State is the filtered presence signal.
type State struct {
	Present bool      `json:"present"`
	Since   time.Time `json:"since"`
}

// Tracker applies hysteresis to samples: the user goes away only after a
// full quiet window without activity and comes back on the first active sample.
type Tracker struct {
	quietWindow  time.Duration
	state        State
	lastActivity time.Time
}

// NewTracker starts a tracker that considers the user present at start.
func NewTracker(quietWindow time.Duration, start time.Time) *Tracker {
	return &Tracker{
		quietWindow:  quietWindow,
		state:        State{Present: true, Since: start},
		lastActivity: start,
	}
}

// SetQuietWindow changes the window, e.g. after a config reload.
func (t *Tracker) SetQuietWindow(d time.Duration) {
	t.quietWindow = d
}

// Observe folds a sample into the tracker and reports whether the
// present/away state flipped.
func (t *Tracker) Observe(s Sample) bool {
	if s.Active {
		if s.At.After(t.lastActivity) {
			t.lastActivity = s.At
		}
		if !t.state.Present {
			t.state = State{Present: true, Since: s.At}
			return true
		}
		return false
	}

	if t.state.Present && s.At.Sub(t.lastActivity) >= t.quietWindow {
		t.state = State{Present: false, Since: s.At}
		return true
	}
	return false
}

// State returns the current filtered state.
func (t *Tracker) State() State {
	return t.state
}

// Present reports whether the user is currently considered present.
func (t *Tracker) Present() bool {
	return t.state.Present
}

// LastActivity is the time of the latest active sample.
func (t *Tracker) LastActivity() time.Time {
	return t.lastActivity
}

// MarkActive records activity without an idle reading, as after a manual reset.
func (t *Tracker) MarkActive(at time.Time) bool {
	return t.Observe(Sample{At: at, Active: true})
}
