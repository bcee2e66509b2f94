//go:build darwin

package dispatch

import (
	"context"
	"fmt"
	"strings"

	"github.com/grovetools/focusguard/command"
)

// focusCandidates are tried in order when the host hint does not match.
var focusCandidates = []string{"iTerm", "Terminal", "Warp", "Alacritty", "kitty", "WezTerm", "Ghostty", "Cursor", "Code"}

type osascriptFocuser struct {
	builder *command.SafeBuilder
}

func newPlatformFocuser() Focuser {
	return osascriptFocuser{builder: command.NewSafeBuilder()}
}

func (f osascriptFocuser) Focus(ctx context.Context, hostHint string) error {
	apps := focusCandidates
	if hostHint != "" {
		apps = append([]string{appNameForHint(hostHint)}, focusCandidates...)
	}
	for _, app := range apps {
		if f.builder.Validate("appName", app) != nil {
			continue
		}
		ok, err := f.activate(ctx, app)
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
	}
	return fmt.Errorf("no terminal or IDE found")
}

// appNameForHint maps process names to the names AppleScript knows them by.
func appNameForHint(hint string) string {
	switch strings.ToLower(hint) {
	case "iterm2":
		return "iTerm"
	case "ghostty":
		return "Ghostty"
	case "wezterm", "wezterm-gui":
		return "WezTerm"
	case "code", "electron":
		return "Code"
	default:
		return hint
	}
}

func (f osascriptFocuser) activate(ctx context.Context, app string) (bool, error) {
	script := fmt.Sprintf(`tell application "System Events"
	if exists (process %q) then
		tell application %q to activate
		return "activated"
	end if
end tell
return "not found"`, app, app)

	out, err := f.builder.Output(ctx, "osascript", "-e", script)
	if err != nil {
		return false, err
	}
	return strings.TrimSpace(out) == "activated", nil
}
