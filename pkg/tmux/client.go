// Package tmux focuses the tmux pane an AI CLI is running in.
package tmux

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/grovetools/focusguard/command"
)

type Client struct {
	builder *command.SafeBuilder
	socket  string // Socket name for a dedicated tmux server (uses -L flag)
}

// NewClient returns a client for the default tmux server. FOCUS_TMUX_SOCKET
// selects a named server instead.
func NewClient() (*Client, error) {
	if _, err := exec.LookPath("tmux"); err != nil {
		return nil, fmt.Errorf("tmux command not found in PATH: %w", err)
	}
	return NewClientWithBuilder(command.NewSafeBuilder(), os.Getenv("FOCUS_TMUX_SOCKET")), nil
}

// NewClientWithBuilder creates a client running tmux through builder.
func NewClientWithBuilder(builder *command.SafeBuilder, socket string) *Client {
	return &Client{
		builder: builder,
		socket:  socket,
	}
}

// Socket returns the socket name this client uses, or empty string for default.
func (c *Client) Socket() string {
	return c.socket
}

func (c *Client) run(ctx context.Context, args ...string) (string, error) {
	if c.socket != "" {
		args = append([]string{"-L", c.socket}, args...)
	}
	return c.builder.Output(ctx, "tmux", args...)
}
