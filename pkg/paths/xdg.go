// Package paths provides XDG-compliant path resolution for focusguard.
//
// Resolution order:
// 1. FOCUS_HOME (portable root) → $FOCUS_HOME/{config,state,run}
// 2. XDG env vars → $XDG_*_HOME/focusguard
// 3. Platform defaults → ~/.config/focusguard, ~/.local/state/focusguard
package paths

import (
	"os"
	"path/filepath"
)

const appName = "focusguard"

// getConfigHome returns the base config home directory.
func getConfigHome() string {
	if focusHome := os.Getenv("FOCUS_HOME"); focusHome != "" {
		return filepath.Join(focusHome, "config")
	}
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".config")
	}
	return ""
}

// getStateHome returns the base state home directory.
func getStateHome() string {
	if focusHome := os.Getenv("FOCUS_HOME"); focusHome != "" {
		return filepath.Join(focusHome, "state")
	}
	if xdgStateHome := os.Getenv("XDG_STATE_HOME"); xdgStateHome != "" {
		return xdgStateHome
	}
	if homeDir, err := os.UserHomeDir(); err == nil {
		return filepath.Join(homeDir, ".local", "state")
	}
	return ""
}

// ConfigDir returns the configuration directory.
// Used for focus.toml / focus.yml.
func ConfigDir() string {
	base := getConfigHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// StateDir returns the state directory.
// Used for the pid file and logs.
func StateDir() string {
	base := getStateHome()
	if base == "" {
		return ""
	}
	return filepath.Join(base, appName)
}

// LogDir returns the directory holding daemon log files.
func LogDir() string {
	state := StateDir()
	if state == "" {
		return ""
	}
	return filepath.Join(state, "logs")
}

// RuntimeDir returns the runtime directory for sockets.
// Uses XDG_RUNTIME_DIR when available (Linux), falls back to StateDir (macOS).
func RuntimeDir() string {
	if focusHome := os.Getenv("FOCUS_HOME"); focusHome != "" {
		return filepath.Join(focusHome, "run")
	}
	if dir := os.Getenv("XDG_RUNTIME_DIR"); dir != "" {
		return filepath.Join(dir, appName)
	}
	return StateDir()
}

// IngressSocketPath returns the socket hook scripts write events to.
// FOCUS_SOCKET overrides it so hook scripts in sandboxes can point elsewhere.
func IngressSocketPath() string {
	if p := os.Getenv("FOCUS_SOCKET"); p != "" {
		return p
	}
	return filepath.Join(RuntimeDir(), "focus.sock")
}

// APISocketPath returns the socket serving the query and command API.
func APISocketPath() string {
	return filepath.Join(RuntimeDir(), "focus-api.sock")
}

// PidFilePath returns the path to the daemon PID file.
func PidFilePath() string {
	return filepath.Join(StateDir(), "focusd.pid")
}

// EnsureDirs creates all directories if they don't exist.
func EnsureDirs() error {
	dirs := []string{
		ConfigDir(),
		StateDir(),
		LogDir(),
		RuntimeDir(),
	}

	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
