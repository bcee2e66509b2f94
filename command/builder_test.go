package command

import (
	"context"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// echoExecutor records invocations and runs `echo` in their place.
type echoExecutor struct {
	calls [][]string
}

func (e *echoExecutor) CommandContext(ctx context.Context, name string, args ...string) *exec.Cmd {
	e.calls = append(e.calls, append([]string{name}, args...))
	return exec.CommandContext(ctx, "echo", args...)
}

func TestValidatePaneID(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"%0", false},
		{"%12", false},
		{"", true},
		{"12", true},
		{"%1; kill-server", true},
		{"%", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validatePaneID(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "validatePaneID(%q) = %v", tt.input, err)
		})
	}
}

func TestValidateAppName(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"iTerm", false},
		{"Visual Studio Code", false},
		{"wezterm-gui", false},
		{"", true},
		{`Terminal" to quit`, true},
		{"-flag", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			err := validateAppName(tt.input)
			assert.Equal(t, tt.wantErr, err != nil, "validateAppName(%q) = %v", tt.input, err)
		})
	}
}

func TestValidateUnknownType(t *testing.T) {
	err := NewSafeBuilder().Validate("gitRef", "main")
	assert.Error(t, err)
}

func TestOutputUsesExecutor(t *testing.T) {
	if _, err := exec.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}
	exe := &echoExecutor{}
	sb := NewSafeBuilderWithExecutor(exe)

	out, err := sb.Output(context.Background(), "tmux", "select-pane", "-t", "%3")
	require.NoError(t, err)
	assert.Equal(t, "select-pane -t %3\n", out)
	require.Len(t, exe.calls, 1)
	assert.Equal(t, []string{"tmux", "select-pane", "-t", "%3"}, exe.calls[0])

	_, err = sb.Output(context.Background(), "")
	assert.Error(t, err)
}

func TestWithTimeoutClamps(t *testing.T) {
	sb := NewSafeBuilder().WithTimeout(MaxTimeout * 2)
	assert.Equal(t, MaxTimeout, sb.timeout)
	sb.WithTimeout(0)
	assert.Equal(t, MaxTimeout, sb.timeout)
}
