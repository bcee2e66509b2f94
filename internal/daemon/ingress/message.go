package ingress

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/internal/daemon/session"
)

// WireMessage is one line on the ingress socket.
type WireMessage struct {
	Tool string `json:"tool,omitempty"`
	// CLI is the older name of Tool, still sent by existing hook scripts.
	CLI       string `json:"cli,omitempty"`
	Event     string `json:"event"`
	SessionID string `json:"session_id,omitempty"`
	Cwd       string `json:"cwd,omitempty"`
	PID       int    `json:"pid,omitempty"`
	// TmuxPane is $TMUX_PANE of the hook process, when the CLI runs in tmux.
	TmuxPane string `json:"tmux_pane,omitempty"`
	// Timestamp is Unix seconds (or milliseconds) on the sender's clock.
	Timestamp int64 `json:"timestamp,omitempty"`
}

// Decode parses one line into a session message, stamping it with
// receivedAt and a receipt id. Any problem with the line is a
// MALFORMED_MESSAGE, UNKNOWN_TOOL or UNKNOWN_EVENT error.
func Decode(line []byte, receivedAt time.Time) (session.Message, error) {
	var w WireMessage
	if err := json.Unmarshal(line, &w); err != nil {
		return session.Message{}, errors.MalformedMessage(err, string(line))
	}

	toolName := w.Tool
	if toolName == "" {
		toolName = w.CLI
	}
	if strings.TrimSpace(toolName) == "" {
		return session.Message{}, errors.MalformedMessage(fmt.Errorf("missing tool"), string(line))
	}
	if strings.TrimSpace(w.Event) == "" {
		return session.Message{}, errors.MalformedMessage(fmt.Errorf("missing event"), string(line))
	}
	if w.PID < 0 {
		return session.Message{}, errors.MalformedMessage(fmt.Errorf("negative pid %d", w.PID), string(line))
	}

	tool, err := session.ParseTool(toolName)
	if err != nil {
		return session.Message{}, err
	}
	if _, err := session.MapEvent(tool, w.Event); err != nil {
		return session.Message{}, err
	}

	return session.Message{
		Tool:       tool,
		Event:      strings.TrimSpace(w.Event),
		SessionID:  strings.TrimSpace(w.SessionID),
		Cwd:        strings.TrimSpace(w.Cwd),
		PID:        w.PID,
		TmuxPane:   strings.TrimSpace(w.TmuxPane),
		Timestamp:  senderTime(w.Timestamp),
		ReceivedAt: receivedAt,
		ReceiptID:  uuid.NewString(),
	}, nil
}

// senderTime accepts seconds or milliseconds since the epoch.
func senderTime(ts int64) time.Time {
	switch {
	case ts <= 0:
		return time.Time{}
	case ts > 1e12:
		return time.UnixMilli(ts)
	default:
		return time.Unix(ts, 0)
	}
}

// Encode renders a wire message as one newline-terminated line.
func Encode(w WireMessage) ([]byte, error) {
	data, err := json.Marshal(w)
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}
