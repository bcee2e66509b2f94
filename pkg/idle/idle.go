// Package idle reports how long it has been since the last keyboard or
// mouse input anywhere on the desktop.
package idle

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrUnsupported is returned on platforms without an idle-time source.
var ErrUnsupported = errors.New("idle time is not available on this platform")

// Source returns the time since the last user input.
type Source interface {
	Idle(ctx context.Context) (time.Duration, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) (time.Duration, error)

// Idle calls f.
func (f SourceFunc) Idle(ctx context.Context) (time.Duration, error) {
	return f(ctx)
}

// NewSource returns the source for the current platform.
func NewSource() Source {
	return SourceFunc(platformIdle)
}

var hidIdleRe = regexp.MustCompile(`"HIDIdleTime"\s*=\s*(\d+)`)

// parseIoreg extracts HIDIdleTime (nanoseconds) from `ioreg -c IOHIDSystem`.
func parseIoreg(out string) (time.Duration, error) {
	m := hidIdleRe.FindStringSubmatch(out)
	if m == nil {
		return 0, fmt.Errorf("HIDIdleTime not found in ioreg output")
	}
	ns, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid HIDIdleTime %q: %w", m[1], err)
	}
	return time.Duration(ns), nil
}

// parseXprintidle parses the millisecond count printed by xprintidle.
func parseXprintidle(out string) (time.Duration, error) {
	ms, err := strconv.ParseInt(strings.TrimSpace(out), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid xprintidle output %q: %w", strings.TrimSpace(out), err)
	}
	return time.Duration(ms) * time.Millisecond, nil
}
