package session

import (
	"testing"
	"time"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func testOptions(policy string) Options {
	return Options{
		EndedPolicy:    policy,
		EndedRetention: 30 * time.Second,
		StaleTimeout:   10 * time.Minute,
		IdleAfter:      60 * time.Second,
	}
}

func msg(tool Tool, event, id string, at time.Time) Message {
	return Message{Tool: tool, Event: event, SessionID: id, Cwd: "/work/api", ReceivedAt: at}
}

func TestMapEvent(t *testing.T) {
	tests := []struct {
		tool Tool
		hook string
		want Event
	}{
		{ToolClaude, "SessionStart", EventStart},
		{ToolClaude, "PreToolUse", EventWorking},
		{ToolClaude, "posttooluse", EventWorking},
		{ToolClaude, "UserPromptSubmit", EventWorking},
		{ToolClaude, "Stop", EventWaiting},
		{ToolClaude, "Notification", EventWaiting},
		{ToolClaude, "SessionEnd", EventEnd},
		{ToolGemini, "BeforeAgent", EventWorking},
		{ToolGemini, "AfterAgent", EventWaiting},
		{ToolCodex, "agent-turn-complete", EventWaiting},
		{ToolCodex, "session_start", EventStart},
		{ToolGemini, "permission_prompt", EventWaiting},
		{ToolCodex, "IDLE_PROMPT", EventWaiting},
		{ToolClaude, "working", EventWorking},
		{ToolCodex, "session_end", EventEnd},
	}
	for _, tt := range tests {
		t.Run(string(tt.tool)+"/"+tt.hook, func(t *testing.T) {
			got, err := MapEvent(tt.tool, tt.hook)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMapEventUnknown(t *testing.T) {
	_, err := MapEvent(ToolClaude, "Teleport")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownEvent))

	_, err = MapEvent(Tool("aider"), "stop")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownTool))

	_, err = ParseTool("aider")
	assert.True(t, errors.Is(err, errors.ErrCodeUnknownTool))

	tool, err := ParseTool("Claude")
	require.NoError(t, err)
	assert.Equal(t, ToolClaude, tool)
}

func TestMessageKey(t *testing.T) {
	assert.Equal(t, "claude:abc", Message{Tool: ToolClaude, SessionID: "abc", Cwd: "/x"}.Key())
	assert.Equal(t, "codex:/x", Message{Tool: ToolCodex, Cwd: "/x"}.Key())
	assert.Equal(t, "gemini", Message{Tool: ToolGemini}.Key())
}

func TestTransitionTable(t *testing.T) {
	for _, from := range []State{StateWorking, StateWaiting} {
		assert.Equal(t, StateWorking, Transition(from, EventStart))
		assert.Equal(t, StateWorking, Transition(from, EventWorking))
		assert.Equal(t, StateWaiting, Transition(from, EventWaiting))
		assert.Equal(t, StateEnded, Transition(from, EventEnd))
	}
}

// Applying a sequence through the registry ends in the state obtained by
// folding the transition table over the same sequence.
func TestFoldEquivalence(t *testing.T) {
	sequences := [][]string{
		{"SessionStart", "PreToolUse", "Stop"},
		{"UserPromptSubmit", "Stop", "PreToolUse", "PostToolUse"},
		{"Stop", "Notification", "Stop"},
		{"SessionStart", "Stop", "PreToolUse", "SessionEnd"},
		{"PreToolUse"},
	}

	for _, seq := range sequences {
		r := NewRegistry(testOptions(config.EndedPolicyRestart))
		state := StateWorking
		for i, hook := range seq {
			ev, err := MapEvent(ToolClaude, hook)
			require.NoError(t, err)
			state = Transition(state, ev)

			_, err = r.Apply(msg(ToolClaude, hook, "s1", t0.Add(time.Duration(i)*time.Second)))
			require.NoError(t, err)
		}
		got, ok := r.Get("claude:s1")
		require.True(t, ok)
		assert.Equal(t, state, got.State, "sequence %v", seq)
	}
}

func TestImplicitCreation(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))

	out, err := r.Apply(msg(ToolClaude, "Stop", "new", t0))
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, StateWaiting, out.Session.State)
	assert.Equal(t, t0, out.Session.StartedAt)

	out, err = r.Apply(msg(ToolGemini, "SessionEnd", "gone", t0))
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, StateEnded, out.Session.State)
	assert.Equal(t, 2, r.Len())
}

func TestEndedPolicyRestart(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))
	_, _ = r.Apply(msg(ToolClaude, "SessionStart", "s", t0))
	_, _ = r.Apply(msg(ToolClaude, "SessionEnd", "s", t0.Add(time.Second)))

	out, err := r.Apply(msg(ToolClaude, "Stop", "s", t0.Add(5*time.Second)))
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.False(t, out.Rejected)
	assert.Equal(t, StateWaiting, out.Session.State)
	assert.Equal(t, t0.Add(5*time.Second), out.Session.StartedAt)
	assert.True(t, out.Session.EndedAt.IsZero())
}

func TestEndedPolicyReject(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyReject))
	_, _ = r.Apply(msg(ToolClaude, "SessionStart", "s", t0))
	_, _ = r.Apply(msg(ToolClaude, "SessionEnd", "s", t0.Add(time.Second)))

	out, err := r.Apply(msg(ToolClaude, "PreToolUse", "s", t0.Add(5*time.Second)))
	require.NoError(t, err)
	assert.True(t, out.Rejected)

	got, _ := r.Get("claude:s")
	assert.Equal(t, StateEnded, got.State)

	// After reaping the key is free again.
	assert.True(t, r.Reap(t0.Add(time.Minute), nil))
	out, err = r.Apply(msg(ToolClaude, "PreToolUse", "s", t0.Add(2*time.Minute)))
	require.NoError(t, err)
	assert.True(t, out.Created)
	assert.Equal(t, StateWorking, out.Session.State)
}

func TestRepeatedEndDoesNotPostponeReaping(t *testing.T) {
	for _, policy := range []string{config.EndedPolicyRestart, config.EndedPolicyReject} {
		t.Run(policy, func(t *testing.T) {
			r := NewRegistry(testOptions(policy))
			_, _ = r.Apply(msg(ToolClaude, "SessionStart", "s", t0))
			_, _ = r.Apply(msg(ToolClaude, "SessionEnd", "s", t0.Add(time.Second)))

			for i := 2; i <= 40; i += 10 {
				out, err := r.Apply(msg(ToolClaude, "SessionEnd", "s", t0.Add(time.Duration(i)*time.Second)))
				require.NoError(t, err)
				assert.True(t, out.Rejected)
				assert.False(t, out.Created)
			}

			got, _ := r.Get("claude:s")
			assert.Equal(t, t0.Add(time.Second), got.EndedAt)
			assert.True(t, r.Reap(t0.Add(31*time.Second), nil))
			assert.Equal(t, 0, r.Len())
		})
	}
}

func TestInterleavedSessions(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))

	_, _ = r.Apply(msg(ToolClaude, "SessionStart", "A", t0))
	_, _ = r.Apply(msg(ToolClaude, "SessionStart", "B", t0.Add(time.Second)))
	_, _ = r.Apply(msg(ToolClaude, "PreToolUse", "A", t0.Add(2*time.Second)))
	_, _ = r.Apply(msg(ToolClaude, "Stop", "B", t0.Add(3*time.Second)))
	_, _ = r.Apply(msg(ToolClaude, "PostToolUse", "A", t0.Add(4*time.Second)))

	a, _ := r.Get("claude:A")
	b, _ := r.Get("claude:B")
	assert.Equal(t, StateWorking, a.State)
	assert.Equal(t, StateWaiting, b.State)

	w, ok := r.MostRecentWaiting()
	require.True(t, ok)
	assert.Equal(t, "claude:B", w.Key)
	assert.Equal(t, StatusWaiting, r.Aggregate(t0.Add(5*time.Second)))
}

func TestMostRecentWaiting(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))
	_, ok := r.MostRecentWaiting()
	assert.False(t, ok)

	_, _ = r.Apply(msg(ToolClaude, "Stop", "old", t0))
	_, _ = r.Apply(msg(ToolCodex, "agent-turn-complete", "new", t0.Add(time.Minute)))

	w, ok := r.MostRecentWaiting()
	require.True(t, ok)
	assert.Equal(t, "codex:new", w.Key)
}

func TestReapEndedRetention(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))
	_, _ = r.Apply(msg(ToolClaude, "SessionEnd", "s", t0))

	assert.False(t, r.Reap(t0.Add(29*time.Second), nil))
	assert.Equal(t, 1, r.Len())
	assert.True(t, r.Reap(t0.Add(30*time.Second), nil))
	assert.Equal(t, 0, r.Len())
}

func TestReapStaleSessions(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))
	m := msg(ToolClaude, "PreToolUse", "s", t0)
	m.PID = 4242
	_, _ = r.Apply(m)
	_, _ = r.Apply(msg(ToolCodex, "session_start", "c", t0))

	later := t0.Add(11 * time.Minute)

	// No observations: nothing is forced.
	assert.False(t, r.Reap(later, nil))

	alive := func(s Session) bool { return s.Tool == ToolCodex }
	assert.True(t, r.Reap(later, alive))

	s, _ := r.Get("claude:s")
	assert.Equal(t, StateEnded, s.State)
	assert.Equal(t, later, s.EndedAt)
	c, _ := r.Get("codex:c")
	assert.Equal(t, StateWorking, c.State)

	// Recent sessions are never cross-checked.
	fresh := NewRegistry(testOptions(config.EndedPolicyRestart))
	_, _ = fresh.Apply(msg(ToolGemini, "BeforeTool", "g", later))
	assert.False(t, fresh.Reap(later.Add(time.Minute), func(Session) bool { return false }))
}

func TestDisplay(t *testing.T) {
	r := NewRegistry(testOptions(config.EndedPolicyRestart))
	_, _ = r.Apply(msg(ToolClaude, "Stop", "s", t0))

	views := r.Views(t0.Add(30 * time.Second))
	require.Len(t, views, 1)
	assert.Equal(t, "Claude - api", views[0].Name)
	assert.Equal(t, StatusWaiting, views[0].Status)

	views = r.Views(t0.Add(61 * time.Second))
	assert.Equal(t, StatusIdle, views[0].Status)
	assert.Equal(t, StatusIdle, r.Aggregate(t0.Add(61*time.Second)))

	s, _ := r.Get("claude:s")
	assert.Equal(t, StateWaiting, s.State, "idle is display only")
}

func TestDisplayName(t *testing.T) {
	assert.Equal(t, "Gemini - web", DisplayName(ToolGemini, "/home/u/web/"))
	assert.Equal(t, "Codex", DisplayName(ToolCodex, ""))
	assert.Equal(t, "Claude", DisplayName(ToolClaude, "/"))
}

func TestAggregateOf(t *testing.T) {
	assert.Equal(t, StatusOffline, AggregateOf(nil))
	assert.Equal(t, StatusOffline, AggregateOf([]View{{Status: StatusEnded}, {Status: StatusDetected}}))
	assert.Equal(t, StatusWorking, AggregateOf([]View{{Status: StatusIdle}, {Status: StatusWorking}}))
	assert.Equal(t, StatusWaiting, AggregateOf([]View{{Status: StatusWorking}, {Status: StatusWaiting}, {Status: StatusIdle}}))
}
