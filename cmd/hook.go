package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/grovetools/focusguard/internal/daemon/ingress"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/paths"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const (
	hookSendTimeout = time.Second
	// maxHookPayload bounds how much of stdin is read.
	maxHookPayload = 1 << 20
)

// hookPayload is the JSON a CLI hands to its hook command. Claude and Gemini
// pipe it on stdin; Codex passes it as the last argument.
type hookPayload struct {
	SessionID     string `json:"session_id"`
	Cwd           string `json:"cwd"`
	HookEventName string `json:"hook_event_name"`
	Type          string `json:"type"`
}

type hookFlags struct {
	tool      string
	event     string
	sessionID string
	cwd       string
	pid       int
	tmuxPane  string
}

// NewHookCmd creates the `hook` command that CLI hook configurations call.
func NewHookCmd() *cobra.Command {
	var flags hookFlags

	cmd := &cobra.Command{
		Use:   "hook [payload]",
		Short: "Report an AI CLI hook event to the daemon",
		Long: `Sends one event to the focus daemon. Meant to be called from an AI CLI's
hook configuration. The hook payload is read from stdin when it is piped, or
from the first argument when it is JSON. The command always exits 0 so a
missing daemon never breaks the CLI.

Examples:
  # Claude Code Stop hook
  focus hook --tool claude --event stop

  # Event name taken from the payload's hook_event_name
  focus hook --tool gemini

  # Codex notify program
  focus hook --tool codex`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.NewLogger("hook")

			var stdin []byte
			if !term.IsTerminal(int(os.Stdin.Fd())) {
				data, err := io.ReadAll(io.LimitReader(os.Stdin, maxHookPayload))
				if err != nil {
					logger.WithError(err).Debug("Failed to read hook payload")
				}
				stdin = data
			}

			msg, err := buildHookMessage(flags, stdin, args, os.Getwd)
			if err != nil {
				logger.WithError(err).Warn("Not sending hook event")
				return nil
			}

			if err := ingress.Send(context.Background(), paths.IngressSocketPath(), msg, hookSendTimeout); err != nil {
				logger.WithError(err).Debug("Hook event not delivered")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&flags.tool, "tool", "", "CLI sending the event: claude, gemini, codex")
	cmd.Flags().StringVar(&flags.event, "event", "", "Hook name (defaults to the payload's hook_event_name)")
	cmd.Flags().StringVar(&flags.sessionID, "session-id", "", "Session id (defaults to the payload's session_id)")
	cmd.Flags().StringVar(&flags.cwd, "cwd", "", "Working directory (defaults to the payload's cwd, then $PWD)")
	cmd.Flags().IntVar(&flags.pid, "pid", 0, "PID of the CLI process, if known")
	cmd.Flags().StringVar(&flags.tmuxPane, "tmux-pane", os.Getenv("TMUX_PANE"), "tmux pane the CLI runs in")
	_ = cmd.MarkFlagRequired("tool")

	return cmd
}

// buildHookMessage merges flags, the stdin payload and a JSON argument into
// one wire message. Flags win over payload fields.
func buildHookMessage(flags hookFlags, stdin []byte, args []string, getwd func() (string, error)) (ingress.WireMessage, error) {
	var payload hookPayload
	raw := strings.TrimSpace(string(stdin))
	if raw == "" && len(args) > 0 && strings.HasPrefix(strings.TrimSpace(args[0]), "{") {
		raw = strings.TrimSpace(args[0])
	}
	if raw != "" {
		// A payload that isn't JSON is ignored; flags may still be enough.
		_ = json.Unmarshal([]byte(raw), &payload)
	}

	msg := ingress.WireMessage{
		Tool:      strings.ToLower(strings.TrimSpace(flags.tool)),
		Event:     firstNonEmpty(flags.event, payload.HookEventName, payload.Type),
		SessionID: firstNonEmpty(flags.sessionID, payload.SessionID),
		Cwd:       firstNonEmpty(flags.cwd, payload.Cwd),
		PID:       flags.pid,
		TmuxPane:  strings.TrimSpace(flags.tmuxPane),
		Timestamp: time.Now().Unix(),
	}

	if msg.Tool == "" {
		return msg, fmt.Errorf("--tool is required")
	}
	if msg.Event == "" {
		return msg, fmt.Errorf("no event given and none found in the hook payload")
	}
	if msg.Cwd == "" && getwd != nil {
		if wd, err := getwd(); err == nil {
			msg.Cwd = wd
		}
	}
	return msg, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
