package errors

import (
	"fmt"
)

// ConfigNotFound creates a configuration not found error
func ConfigNotFound(path string) *FocusError {
	return New(ErrCodeConfigNotFound, fmt.Sprintf("configuration file not found: %s", path)).
		WithDetail("path", path)
}

// ConfigInvalid creates an invalid configuration error
func ConfigInvalid(reason string) *FocusError {
	return New(ErrCodeConfigInvalid, fmt.Sprintf("invalid configuration: %s", reason))
}

// MalformedMessage creates an error for an ingress payload that could not be decoded.
func MalformedMessage(cause error, raw string) *FocusError {
	if len(raw) > 200 {
		raw = raw[:200]
	}
	return Wrap(cause, ErrCodeMalformedMessage, "malformed hook message").
		WithDetail("payload", raw)
}

// UnknownTool creates an error for a message naming a tool with no mapping table.
func UnknownTool(tool string) *FocusError {
	return New(ErrCodeUnknownTool, fmt.Sprintf("unknown tool '%s'", tool)).
		WithDetail("tool", tool)
}

// UnknownEvent creates an error for a hook name the tool's mapping table does not know.
func UnknownEvent(tool, event string) *FocusError {
	return New(ErrCodeUnknownEvent, fmt.Sprintf("unknown event '%s' for tool '%s'", event, tool)).
		WithDetail("tool", tool).
		WithDetail("event", event)
}

// AlreadyRunning creates the fatal startup error raised when the IPC endpoint is taken.
func AlreadyRunning(socketPath string) *FocusError {
	return New(ErrCodeAlreadyRunning, "another focus daemon is already running").
		WithDetail("socket", socketPath)
}

// DaemonUnavailable creates an error for clients that cannot reach the daemon.
func DaemonUnavailable(socketPath string, cause error) *FocusError {
	return Wrap(cause, ErrCodeDaemonUnavailable, "focus daemon is not reachable").
		WithDetail("socket", socketPath)
}

// DispatchFailed creates a notification/focus delivery failure error
func DispatchFailed(kind string, err error) *FocusError {
	return Wrap(err, ErrCodeDispatchFailed, fmt.Sprintf("dispatch failed: %s", kind)).
		WithDetail("kind", kind)
}

// SamplingFailed creates an error for a collector tick that could not read the OS.
func SamplingFailed(source string, err error) *FocusError {
	return Wrap(err, ErrCodeSamplingFailed, fmt.Sprintf("sampling failed: %s", source)).
		WithDetail("source", source)
}
