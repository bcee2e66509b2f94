// Package testutil holds helpers shared by focusguard tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

// SocketDir returns a short-lived directory directly under the system temp
// dir. t.TempDir paths can exceed the ~104 byte unix socket path limit.
func SocketDir(t *testing.T) string {
	t.Helper()
	dir, err := os.MkdirTemp("", "fg")
	require.NoError(t, err)
	t.Cleanup(func() { os.RemoveAll(dir) })
	return dir
}

// SocketPath returns a socket path named name inside a fresh SocketDir.
func SocketPath(t *testing.T, name string) string {
	t.Helper()
	return filepath.Join(SocketDir(t), name)
}

// FocusHome points FOCUS_HOME at a fresh directory so config, state and
// sockets resolve inside it, and clears variables that would override it.
func FocusHome(t *testing.T) string {
	t.Helper()
	home := SocketDir(t)
	t.Setenv("FOCUS_HOME", home)
	t.Setenv("FOCUS_SOCKET", "")
	return home
}

// WriteFile writes content to dir/name, creating dir as needed.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}
