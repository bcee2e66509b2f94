// Package pidfile records the daemon's PID so clients can find and stop it.
package pidfile

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/pkg/process"
)

// Acquire writes the current PID to the file.
// It returns ALREADY_RUNNING if another live instance owns the file.
func Acquire(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create pid directory: %w", err)
	}

	if pid, err := Read(path); err == nil {
		if pid != os.Getpid() && process.IsProcessAlive(pid) {
			return errors.AlreadyRunning(path).WithDetail("pid", pid)
		}
		// Process is dead, cleanup stale file
		_ = os.Remove(path)
	}

	pid := os.Getpid()
	if err := os.WriteFile(path, []byte(strconv.Itoa(pid)), 0o644); err != nil {
		return fmt.Errorf("failed to write pid file: %w", err)
	}

	return nil
}

// Release removes the PID file if it still belongs to this process.
func Release(path string) error {
	if pid, err := Read(path); err == nil && pid != os.Getpid() {
		return nil
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

// Read returns the PID from the file.
func Read(path string) (int, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return 0, err
	}
	return strconv.Atoi(strings.TrimSpace(string(content)))
}

// IsRunning checks if the daemon described by the pidfile is active.
func IsRunning(path string) (bool, int, error) {
	pid, err := Read(path)
	if err != nil {
		if os.IsNotExist(err) {
			return false, 0, nil
		}
		return false, 0, err
	}
	return process.IsProcessAlive(pid), pid, nil
}
