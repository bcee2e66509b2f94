package cmd

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedWd(dir string) func() (string, error) {
	return func() (string, error) { return dir, nil }
}

func TestBuildHookMessage(t *testing.T) {
	tests := []struct {
		name      string
		flags     hookFlags
		stdin     string
		args      []string
		wantEvent string
		wantSID   string
		wantCwd   string
		wantErr   bool
	}{
		{
			name:      "claude stdin payload",
			flags:     hookFlags{tool: "claude"},
			stdin:     `{"session_id":"abc","cwd":"/src/api","hook_event_name":"Stop"}`,
			wantEvent: "Stop",
			wantSID:   "abc",
			wantCwd:   "/src/api",
		},
		{
			name:      "flags win over payload",
			flags:     hookFlags{tool: "gemini", event: "AfterAgent", sessionID: "flag-id"},
			stdin:     `{"session_id":"abc","hook_event_name":"BeforeAgent"}`,
			wantEvent: "AfterAgent",
			wantSID:   "flag-id",
			wantCwd:   "/home/me",
		},
		{
			name:      "codex notify argument",
			flags:     hookFlags{tool: "Codex"},
			args:      []string{`{"type":"agent-turn-complete","cwd":"/src/web"}`},
			wantEvent: "agent-turn-complete",
			wantCwd:   "/src/web",
		},
		{
			name:      "garbage payload falls back to flags",
			flags:     hookFlags{tool: "claude", event: "stop"},
			stdin:     "not json",
			wantEvent: "stop",
			wantCwd:   "/home/me",
		},
		{
			name:    "no event anywhere",
			flags:   hookFlags{tool: "claude"},
			stdin:   `{"session_id":"abc"}`,
			wantErr: true,
		},
		{
			name:    "no tool",
			flags:   hookFlags{event: "stop"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := buildHookMessage(tt.flags, []byte(tt.stdin), tt.args, fixedWd("/home/me"))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantEvent, msg.Event)
			assert.Equal(t, tt.wantSID, msg.SessionID)
			assert.Equal(t, tt.wantCwd, msg.Cwd)
			assert.NotZero(t, msg.Timestamp)
		})
	}
}

func TestBuildHookMessageLowercasesTool(t *testing.T) {
	msg, err := buildHookMessage(hookFlags{tool: " Claude ", event: "stop", pid: 321, tmuxPane: "%7"}, nil, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, "claude", msg.Tool)
	assert.Equal(t, 321, msg.PID)
	assert.Equal(t, "%7", msg.TmuxPane)
	assert.Empty(t, msg.Cwd)
}

func TestIntervalValue(t *testing.T) {
	var v intervalValue
	require.NoError(t, v.Set("50"))
	assert.Equal(t, 50, v.minutes)
	assert.Equal(t, "50", v.String())

	require.NoError(t, v.Set("30m"))
	assert.Equal(t, 30, v.minutes)

	require.NoError(t, v.Set("next"))
	assert.True(t, v.next)
	assert.Equal(t, "next", v.String())

	err := v.Set("45")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "20, 30, 40, 50, 60")
	assert.Error(t, v.Set("soon"))
}

func TestOnOffValue(t *testing.T) {
	var v onOffValue
	require.NoError(t, v.Set("on"))
	assert.True(t, *v.ptr())
	require.NoError(t, v.Set("OFF"))
	assert.False(t, *v.ptr())
	assert.Equal(t, "off", v.String())
	assert.Error(t, v.Set("maybe"))
}

func TestLastLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focusd.log")
	require.NoError(t, os.WriteFile(path, []byte("one\ntwo\n\nthree\nfour\n"), 0o644))

	lines, err := lastLines(path, 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"three", "four"}, lines)

	lines, err = lastLines(path, -1)
	require.NoError(t, err)
	assert.Len(t, lines, 4)

	_, err = lastLines(filepath.Join(t.TempDir(), "missing.log"), 5)
	assert.True(t, os.IsNotExist(err))
}

func TestPrintLogText(t *testing.T) {
	var buf bytes.Buffer
	printLogText(&buf, `{"time":"2026-01-02T15:04:05Z","level":"info","msg":"Reminder fired","component":"engine","minutes":40}`)
	out := buf.String()
	assert.Contains(t, out, "Reminder fired")
	assert.Contains(t, out, "engine")
	assert.Contains(t, out, "40")

	buf.Reset()
	printLogText(&buf, "plain text line")
	assert.Equal(t, "plain text line\n", buf.String())
}

func TestRootCommandTree(t *testing.T) {
	root := NewRootCmd()
	for _, name := range []string{"daemon", "hook", "status", "watch", "reset", "test-reminder", "set", "config", "logs", "paths", "starship", "version"} {
		found, _, err := root.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, found.Name())
	}
}

func TestSetRequiresAFlag(t *testing.T) {
	root := NewRootCmd()
	root.SetArgs([]string{"set"})
	root.SetOut(&bytes.Buffer{})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to change")
}

func TestIsSilent(t *testing.T) {
	assert.True(t, IsSilent(errDaemonStopped))
	assert.False(t, IsSilent(errors.New("boom")))
}

func TestRootHelpGroupsCommands(t *testing.T) {
	root := NewRootCmd()
	var buf bytes.Buffer
	root.SetOut(&buf)
	root.SetArgs([]string{"--help"})
	require.NoError(t, root.Execute())

	out := buf.String()
	for _, want := range []string{"DAEMON", "SITTING & SESSIONS", "SETTINGS", "OTHER", "test-reminder", "paths"} {
		assert.Contains(t, out, want)
	}
	assert.Less(t, strings.Index(out, "DAEMON"), strings.Index(out, "SETTINGS"))
}

func TestPrintSnapshotUsesLanguage(t *testing.T) {
	var buf bytes.Buffer
	printSnapshot(&buf, &daemon.Snapshot{SittingMinutes: 90, ReminderInterval: 40, Aggregate: "offline", ReminderEnabled: true})
	assert.Contains(t, buf.String(), "Sitting: 1h 30m")
	assert.Contains(t, buf.String(), "No CLI running")

	buf.Reset()
	printSnapshot(&buf, &daemon.Snapshot{SittingMinutes: 5, ReminderInterval: 40, Aggregate: "offline", Language: "zh"})
	assert.Contains(t, buf.String(), "已坐 5分钟")
	assert.Contains(t, buf.String(), "无CLI运行")
}
