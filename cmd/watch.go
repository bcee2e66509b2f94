package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/grovetools/focusguard/tui/watch"
	"github.com/spf13/cobra"
)

// NewWatchCmd creates the `watch` command.
func NewWatchCmd() *cobra.Command {
	var sse bool

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Live view of sitting time and CLI sessions",
		Long: `Opens a terminal view that follows the daemon's state as it changes.
With --json, state updates are printed one per line instead.

Keys: r reset, t test reminder, i next interval, p pause/resume, q quit.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := daemon.Connect()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithCancel(cmd.Context())
			defer cancel()

			var updates <-chan daemon.StateUpdate
			if sse {
				updates, err = client.StreamState(ctx)
			} else {
				updates, err = client.WatchState(ctx)
			}
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				for u := range updates {
					if err := writeJSONLine(cmd.OutOrStdout(), u); err != nil {
						return err
					}
				}
				return nil
			}

			// Log lines would tear the alt screen.
			logging.SetGlobalOutput(io.Discard)

			p := tea.NewProgram(watch.New(updates, client), tea.WithAltScreen(), tea.WithContext(ctx))
			if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
				return fmt.Errorf("error running watch view: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&sse, "sse", false, "Use the server-sent events stream instead of the websocket")
	return cmd
}

func writeJSONLine(w io.Writer, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, string(data))
	return err
}
