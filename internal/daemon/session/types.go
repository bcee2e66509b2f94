// Package session tracks the lifecycle of AI CLI sessions reported by hooks.
//
// Every hook name is first mapped through a per-tool table onto the canonical
// alphabet {start, working, waiting, end}; the Registry then applies the
// canonical event to the session identified by the message's key.
package session

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/focusguard/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Tool identifies the CLI that produced an event.
type Tool string

const (
	ToolUnknown Tool = "unknown"
	ToolClaude  Tool = "claude"
	ToolGemini  Tool = "gemini"
	ToolCodex   Tool = "codex"
)

// KnownTools lists every tool with a mapping table, in display order.
var KnownTools = []Tool{ToolClaude, ToolGemini, ToolCodex}

// ParseTool resolves a tool name case-insensitively.
func ParseTool(name string) (Tool, error) {
	t := Tool(strings.ToLower(strings.TrimSpace(name)))
	for _, known := range KnownTools {
		if t == known {
			return t, nil
		}
	}
	return ToolUnknown, errors.UnknownTool(name)
}

// DisplayName is the capitalised tool name, e.g. "Claude".
func (t Tool) DisplayName() string {
	return cases.Title(language.English, cases.Compact).String(string(t))
}

// State is the coarse lifecycle state of a session.
type State string

const (
	StateWorking State = "working"
	StateWaiting State = "waiting"
	StateEnded   State = "ended"
)

// Display statuses. Working, waiting and ended mirror State; idle is a
// waiting session that has been waiting longer than the idle threshold;
// detected is a process with no hook session; offline means nothing runs.
const (
	StatusWorking  = "working"
	StatusWaiting  = "waiting"
	StatusIdle     = "idle"
	StatusEnded    = "ended"
	StatusDetected = "detected"
	StatusOffline  = "offline"
)

// Message is one decoded hook event as delivered by ingress.
type Message struct {
	Tool      Tool
	Event     string
	SessionID string
	Cwd       string
	PID       int
	TmuxPane  string
	// Timestamp is the sender's clock, zero when not supplied.
	Timestamp time.Time
	// ReceivedAt is the daemon clock when the line was decoded.
	ReceivedAt time.Time
	// ReceiptID correlates log lines for one message.
	ReceiptID string
}

// Key returns the registry key for the message: tool:session_id when a
// session id is present, tool:cwd otherwise, and the bare tool as a last resort.
func (m Message) Key() string {
	switch {
	case m.SessionID != "":
		return string(m.Tool) + ":" + m.SessionID
	case m.Cwd != "":
		return string(m.Tool) + ":" + m.Cwd
	default:
		return string(m.Tool)
	}
}

// Session is the registry's record of one CLI session.
type Session struct {
	Key         string
	ID          string
	Tool        Tool
	Cwd         string
	PID         int
	TmuxPane    string
	State       State
	LastEvent   string
	StartedAt   time.Time
	LastEventAt time.Time
	EndedAt     time.Time
}

// Name is the human readable label, e.g. "Claude - focusguard".
func (s Session) Name() string {
	return DisplayName(s.Tool, s.Cwd)
}

// DisplayName formats a tool and working directory the way the UI shows it.
func DisplayName(tool Tool, cwd string) string {
	project := ""
	if cwd != "" {
		project = filepath.Base(filepath.Clean(cwd))
	}
	if project == "" || project == "." || project == string(filepath.Separator) {
		return tool.DisplayName()
	}
	return tool.DisplayName() + " - " + project
}

// Status returns the display status at now.
func (s Session) Status(now time.Time, idleAfter time.Duration) string {
	switch s.State {
	case StateWorking:
		return StatusWorking
	case StateWaiting:
		if idleAfter > 0 && now.Sub(s.LastEventAt) > idleAfter {
			return StatusIdle
		}
		return StatusWaiting
	default:
		return StatusEnded
	}
}

// View is the read-only projection of a session published to clients.
type View struct {
	Key    string `json:"key"`
	Tool   Tool   `json:"tool"`
	Name   string `json:"name"`
	Status string `json:"status"`
	Cwd    string `json:"cwd,omitempty"`
	PID    int    `json:"pid,omitempty"`
}
