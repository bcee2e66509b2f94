// Package watch is the live terminal view of the focus daemon: sitting time,
// presence, reminder state and the session list, updated from the daemon's
// state stream.
package watch

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/internal/daemon/engine"
	"github.com/grovetools/focusguard/internal/daemon/server"
	"github.com/grovetools/focusguard/internal/daemon/store"
	"github.com/grovetools/focusguard/tui/theme"
)

const actionTimeout = 5 * time.Second

// Controller is the subset of the daemon client the view drives.
type Controller interface {
	Reset(ctx context.Context) (*store.Snapshot, error)
	TestReminder(ctx context.Context) (*store.Snapshot, error)
	UpdateSettings(ctx context.Context, patch engine.SettingsPatch) (*store.Snapshot, error)
}

type updateMsg server.StateUpdate

type streamClosedMsg struct{}

type actionMsg struct {
	label string
	snap  *store.Snapshot
	err   error
}

// Model is the bubbletea model for `focus watch`.
type Model struct {
	updates <-chan server.StateUpdate
	ctrl    Controller

	snap      *store.Snapshot
	lastEvent string
	status    string
	err       error
	closed    bool

	spinner spinner.Model
	help    help.Model
	keys    keyMap
	theme   *theme.Theme
	width   int
}

// New creates a model reading updates from ch. ctrl may be nil, in which
// case the view is read-only.
func New(ch <-chan server.StateUpdate, ctrl Controller) *Model {
	s := spinner.New()
	s.Spinner = spinner.MiniDot
	s.Style = theme.DefaultTheme.Info

	return &Model{
		updates: ch,
		ctrl:    ctrl,
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
		theme:   theme.DefaultTheme,
	}
}

// Init starts the spinner and the first read from the stream.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForUpdate(m.updates))
}

func waitForUpdate(ch <-chan server.StateUpdate) tea.Cmd {
	return func() tea.Msg {
		u, ok := <-ch
		if !ok {
			return streamClosedMsg{}
		}
		return updateMsg(u)
	}
}

// Update handles messages and updates the model accordingly.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case updateMsg:
		if msg.Snapshot != nil {
			m.snap = msg.Snapshot
		}
		m.lastEvent = msg.UpdateType
		if msg.ConfigFile != "" {
			m.status = "config reloaded from " + msg.ConfigFile
		}
		return m, waitForUpdate(m.updates)

	case streamClosedMsg:
		m.closed = true
		return m, nil

	case actionMsg:
		m.err = msg.err
		if msg.err == nil {
			m.status = msg.label
			if msg.snap != nil {
				m.snap = msg.snap
			}
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		}
		if m.ctrl == nil || m.closed {
			return m, nil
		}
		switch {
		case key.Matches(msg, m.keys.Reset):
			return m, m.action("sitting time reset", m.ctrl.Reset)
		case key.Matches(msg, m.keys.TestReminder):
			return m, m.action("test reminder sent", m.ctrl.TestReminder)
		case key.Matches(msg, m.keys.NextInterval):
			if m.snap == nil {
				return m, nil
			}
			next := config.NextInterval(m.snap.ReminderInterval)
			return m, m.settings("interval set", engine.SettingsPatch{Interval: &next})
		case key.Matches(msg, m.keys.Toggle):
			if m.snap == nil {
				return m, nil
			}
			enabled := !m.snap.ReminderEnabled
			label := "reminders paused"
			if enabled {
				label = "reminders resumed"
			}
			return m, m.settings(label, engine.SettingsPatch{ReminderEnabled: &enabled})
		}
	}
	return m, nil
}

func (m *Model) action(label string, fn func(context.Context) (*store.Snapshot, error)) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), actionTimeout)
		defer cancel()
		snap, err := fn(ctx)
		return actionMsg{label: label, snap: snap, err: err}
	}
}

func (m *Model) settings(label string, patch engine.SettingsPatch) tea.Cmd {
	ctrl := m.ctrl
	return m.action(label, func(ctx context.Context) (*store.Snapshot, error) {
		return ctrl.UpdateSettings(ctx, patch)
	})
}
