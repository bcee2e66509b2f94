package tmux

import (
	"context"
	"fmt"
	"strings"
)

// PaneExists checks if a pane with the given ID exists
func (c *Client) PaneExists(ctx context.Context, paneID string) bool {
	if c.builder.Validate("paneID", paneID) != nil {
		return false
	}
	_, err := c.run(ctx, "display-message", "-p", "-t", paneID, "#{pane_id}")
	return err == nil
}

// FocusPane makes paneID the active pane: its window is selected, the pane
// is selected within it, and attached clients are switched to its session.
func (c *Client) FocusPane(ctx context.Context, paneID string) error {
	if err := c.builder.Validate("paneID", paneID); err != nil {
		return err
	}
	if !c.PaneExists(ctx, paneID) {
		return fmt.Errorf("tmux pane %s no longer exists", paneID)
	}

	if _, err := c.run(ctx, "select-window", "-t", paneID); err != nil {
		return fmt.Errorf("failed to select window of %s: %w", paneID, err)
	}
	if _, err := c.run(ctx, "select-pane", "-t", paneID); err != nil {
		return fmt.Errorf("failed to select pane %s: %w", paneID, err)
	}

	// switch-client fails when no client is attached; the pane is still
	// active for the next attach.
	if _, err := c.run(ctx, "switch-client", "-t", paneID); err != nil && !strings.Contains(err.Error(), "no current client") {
		return fmt.Errorf("failed to switch client to %s: %w", paneID, err)
	}
	return nil
}
