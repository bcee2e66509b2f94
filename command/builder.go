// Package command runs external helper programs (tmux, osascript) with a
// timeout and validated arguments.
package command

import (
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds every helper invocation.
	DefaultTimeout = 3 * time.Second

	// MaxTimeout is the maximum allowed timeout
	MaxTimeout = 30 * time.Second
)

// Executor creates exec.Cmd instances. Tests swap it to record invocations
// instead of running them.
type Executor interface {
	CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd
}

// RealExecutor uses os/exec.
type RealExecutor struct{}

// CommandContext creates a standard context-aware exec.Cmd.
func (RealExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	return exec.CommandContext(ctx, name, args...)
}

// SafeBuilder provides secure command execution with validation
type SafeBuilder struct {
	timeout    time.Duration
	validators map[string]func(string) error
	executor   Executor
}

// NewSafeBuilder creates a new SafeBuilder instance with a RealExecutor
func NewSafeBuilder() *SafeBuilder {
	return NewSafeBuilderWithExecutor(RealExecutor{})
}

// NewSafeBuilderWithExecutor creates a new SafeBuilder with a custom Executor
func NewSafeBuilderWithExecutor(exec Executor) *SafeBuilder {
	return &SafeBuilder{
		timeout:    DefaultTimeout,
		validators: makeDefaultValidators(),
		executor:   exec,
	}
}

// WithTimeout sets the timeout applied to every command.
func (sb *SafeBuilder) WithTimeout(timeout time.Duration) *SafeBuilder {
	if timeout > MaxTimeout {
		timeout = MaxTimeout
	}
	if timeout > 0 {
		sb.timeout = timeout
	}
	return sb
}

var (
	paneIDPattern  = regexp.MustCompile(`^%[0-9]+$`)
	appNamePattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9 ._-]*$`)
)

func makeDefaultValidators() map[string]func(string) error {
	return map[string]func(string) error{
		"paneID":  validatePaneID,
		"appName": validateAppName,
	}
}

// validatePaneID accepts tmux pane ids as found in $TMUX_PANE.
func validatePaneID(id string) error {
	if !paneIDPattern.MatchString(id) {
		return fmt.Errorf("invalid tmux pane id: %q", id)
	}
	return nil
}

// validateAppName keeps application names safe to embed in AppleScript.
func validateAppName(name string) error {
	if name == "" {
		return fmt.Errorf("application name cannot be empty")
	}
	if len(name) > 64 || !appNamePattern.MatchString(name) {
		return fmt.Errorf("invalid application name: %q", name)
	}
	return nil
}

// Validate validates specific arguments
func (sb *SafeBuilder) Validate(argType string, value string) error {
	validator, exists := sb.validators[argType]
	if !exists {
		return fmt.Errorf("no validator for argument type: %s", argType)
	}
	return validator(value)
}

// Output runs name with args under the builder's timeout and returns
// combined stdout and stderr.
func (sb *SafeBuilder) Output(ctx context.Context, name string, args ...string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("command name cannot be empty")
	}

	ctx, cancel := context.WithTimeout(ctx, sb.timeout)
	defer cancel()

	out, err := sb.executor.CommandContext(ctx, name, args...).CombinedOutput() //nolint:gosec // arguments are validated by callers
	if err != nil {
		return string(out), fmt.Errorf("%s %s: %w: %s", name, strings.Join(args, " "), err, strings.TrimSpace(string(out)))
	}
	return string(out), nil
}
