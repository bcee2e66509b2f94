package reminder

import (
	"testing"
	"time"

	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func settings() Settings {
	return Settings{Enabled: true, Interval: 20, Cooldown: 10 * time.Minute, MaxWait: 10 * time.Minute}
}

func minute(n int) time.Time {
	return t0.Add(time.Duration(n) * time.Minute)
}

var waitingSession = session.Session{Key: "claude:b", Tool: session.ToolClaude, Cwd: "/work/b", State: session.StateWaiting}

func TestDisabledNeverFires(t *testing.T) {
	s := settings()
	s.Enabled = false
	p := NewPolicy(s)

	for m := 0; m < 120; m++ {
		d := p.Evaluate(minute(m), m, waitingSession, true)
		require.False(t, d.Fire)
		require.False(t, p.State().Pending)
	}
}

// Interval 20, the agent works through minute 25 and then stops: the
// reminder is deferred until minute 25 and fires over the waiting session.
func TestDeferredUntilWaiting(t *testing.T) {
	p := NewPolicy(settings())

	for m := 0; m < 20; m++ {
		assert.False(t, p.Evaluate(minute(m), m, session.Session{}, false).Fire)
	}

	d := p.Evaluate(minute(20), 20, session.Session{}, false)
	assert.True(t, d.BecamePending)
	assert.False(t, d.Fire)

	for m := 21; m < 25; m++ {
		assert.False(t, p.Evaluate(minute(m), m, session.Session{}, false).Fire, "minute %d", m)
	}

	d = p.Evaluate(minute(25), 25, waitingSession, true)
	require.True(t, d.Fire)
	assert.Equal(t, ReasonWaiting, d.Reason)
	assert.True(t, d.HasTarget)
	assert.Equal(t, "claude:b", d.Target.Key)
	assert.Equal(t, minute(25), p.State().LastFiredAt)
	assert.False(t, p.State().Pending)
}

func TestMaxWaitBoundsDeferral(t *testing.T) {
	p := NewPolicy(settings())
	p.Evaluate(minute(20), 20, session.Session{}, false)

	assert.False(t, p.Evaluate(minute(29), 29, session.Session{}, false).Fire)

	d := p.Evaluate(minute(30), 30, session.Session{}, false)
	require.True(t, d.Fire)
	assert.Equal(t, ReasonMaxWait, d.Reason)
	assert.False(t, d.HasTarget)
}

func TestCooldown(t *testing.T) {
	p := NewPolicy(settings())

	require.True(t, p.Evaluate(minute(20), 20, waitingSession, true).Fire)

	// Still sitting, still waiting: no second reminder inside the cooldown.
	for m := 21; m < 30; m++ {
		d := p.Evaluate(minute(m), m, waitingSession, true)
		assert.False(t, d.Fire, "minute %d", m)
		assert.False(t, p.State().Pending)
	}

	d := p.Evaluate(minute(30), 30, waitingSession, true)
	assert.True(t, d.Fire)
	assert.True(t, d.BecamePending)
}

func TestAtMostOnePending(t *testing.T) {
	p := NewPolicy(settings())
	p.Evaluate(minute(20), 20, session.Session{}, false)
	since := p.State().PendingSince

	d := p.Evaluate(minute(22), 22, session.Session{}, false)
	assert.False(t, d.BecamePending)
	assert.Equal(t, since, p.State().PendingSince)
}

func TestClearAndCancel(t *testing.T) {
	p := NewPolicy(settings())
	p.Evaluate(minute(20), 20, waitingSession, true)
	p.Clear()
	assert.Equal(t, State{}, p.State())

	p.Evaluate(minute(40), 20, session.Session{}, false)
	assert.True(t, p.State().Pending)
	p.CancelPending()
	assert.False(t, p.State().Pending)
}

func TestDisablingDropsPending(t *testing.T) {
	p := NewPolicy(settings())
	p.Evaluate(minute(20), 20, session.Session{}, false)
	require.True(t, p.State().Pending)

	s := settings()
	s.Enabled = false
	p.SetSettings(s)
	assert.False(t, p.State().Pending)
}
