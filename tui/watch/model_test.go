package watch

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/focusguard/internal/daemon/engine"
	"github.com/grovetools/focusguard/internal/daemon/server"
	"github.com/grovetools/focusguard/internal/daemon/session"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeController struct {
	resets  int
	patches []engine.SettingsPatch
}

func (f *fakeController) Reset(context.Context) (*store.Snapshot, error) {
	f.resets++
	return &store.Snapshot{SittingMinutes: 0, ReminderInterval: 40, ReminderEnabled: true}, nil
}

func (f *fakeController) TestReminder(context.Context) (*store.Snapshot, error) {
	return &store.Snapshot{}, nil
}

func (f *fakeController) UpdateSettings(_ context.Context, p engine.SettingsPatch) (*store.Snapshot, error) {
	f.patches = append(f.patches, p)
	return &store.Snapshot{ReminderInterval: 50, ReminderEnabled: true}, nil
}

func snapshot() *store.Snapshot {
	return &store.Snapshot{
		Sessions: []session.View{
			{Key: "claude:a", Tool: session.ToolClaude, Name: "api", Status: session.StatusWaiting},
		},
		SittingMinutes:   25,
		UserPresent:      true,
		Aggregate:        session.StatusWaiting,
		ReminderEnabled:  true,
		ReminderInterval: 40,
	}
}

func run(t *testing.T, cmd tea.Cmd) tea.Msg {
	t.Helper()
	require.NotNil(t, cmd)
	return cmd()
}

func TestUpdateAppliesSnapshot(t *testing.T) {
	ch := make(chan server.StateUpdate, 1)
	m := New(ch, nil)

	_, cmd := m.Update(updateMsg{UpdateType: "initial", Snapshot: snapshot()})
	require.NotNil(t, m.snap)
	assert.Equal(t, 25, m.snap.SittingMinutes)

	ch <- server.StateUpdate{UpdateType: string(store.UpdateSitting), Snapshot: &store.Snapshot{SittingMinutes: 26, ReminderInterval: 40}}
	msg := run(t, cmd)
	m.Update(msg)
	assert.Equal(t, 26, m.snap.SittingMinutes)
	assert.Equal(t, string(store.UpdateSitting), m.lastEvent)

	view := m.View()
	assert.Contains(t, view, "26/40 min")
	assert.Contains(t, view, "No CLI running")
}

func TestStreamClosed(t *testing.T) {
	ch := make(chan server.StateUpdate)
	close(ch)
	m := New(ch, nil)

	msg := waitForUpdate(ch)()
	m.Update(msg)
	assert.True(t, m.closed)
	assert.Contains(t, m.View(), "stream closed")
}

func TestKeysDriveController(t *testing.T) {
	ctrl := &fakeController{}
	m := New(make(chan server.StateUpdate), ctrl)
	m.Update(updateMsg{UpdateType: "initial", Snapshot: snapshot()})

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	m.Update(run(t, cmd))
	assert.Equal(t, 1, ctrl.resets)
	assert.Equal(t, "sitting time reset", m.status)

	m.Update(updateMsg{UpdateType: "initial", Snapshot: snapshot()})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("i")})
	m.Update(run(t, cmd))
	require.Len(t, ctrl.patches, 1)
	require.NotNil(t, ctrl.patches[0].Interval)
	assert.Equal(t, 50, *ctrl.patches[0].Interval)

	m.Update(updateMsg{UpdateType: "initial", Snapshot: snapshot()})
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("p")})
	run(t, cmd)
	require.Len(t, ctrl.patches, 2)
	require.NotNil(t, ctrl.patches[1].ReminderEnabled)
	assert.False(t, *ctrl.patches[1].ReminderEnabled)
}

func TestReadOnlyIgnoresActions(t *testing.T) {
	m := New(make(chan server.StateUpdate), nil)
	m.Update(updateMsg{UpdateType: "initial", Snapshot: snapshot()})
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("r")})
	assert.Nil(t, cmd)
}

func TestViewListsSessions(t *testing.T) {
	m := New(make(chan server.StateUpdate), nil)
	m.Update(updateMsg{UpdateType: "initial", Snapshot: snapshot()})
	view := m.View()
	assert.Contains(t, view, "api")
	assert.Contains(t, view, "claude")
	assert.Contains(t, view, "waiting")
}

func TestViewLocalizesEmptySessionList(t *testing.T) {
	m := New(make(chan server.StateUpdate), nil)
	m.Update(updateMsg{UpdateType: "initial", Snapshot: &store.Snapshot{ReminderInterval: 40, Language: "zh"}})
	assert.Contains(t, m.View(), "无CLI运行")
	assert.NotContains(t, m.View(), "No CLI running")
}

func TestSittingBarClamps(t *testing.T) {
	m := New(nil, nil)
	assert.Contains(t, sittingBar(m, 90, 40), "90/40 min")
	assert.Contains(t, sittingBar(m, 0, 0), "0/0 min")
}
