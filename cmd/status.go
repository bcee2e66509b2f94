package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/internal/dispatch"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/spf13/cobra"
)

const clientTimeout = 5 * time.Second

// NewStatusCmd creates the `status` command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show sitting time, presence and CLI sessions",
		Long: `Prints the daemon's current snapshot: the aggregate CLI status, minutes
of sitting time, whether you are at the computer, and every tracked session.

Examples:
  focus status
  focus status --json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := daemon.Connect()
			if err != nil {
				return err
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
			defer cancel()

			snap, err := client.State(ctx)
			if err != nil {
				return err
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), snap)
			}
			printSnapshot(cmd.OutOrStdout(), snap)
			return nil
		},
	}
}

func printSnapshot(w io.Writer, snap *daemon.Snapshot) {
	out := logging.NewPrettyLogger().WithWriter(w)
	texts := dispatch.NewTexts(snap.Language)

	out.Field("Status", logging.StatusStyle(snap.Aggregate).Render(snap.Aggregate))
	out.Field("Sitting", fmt.Sprintf("%s (reminder at %d min)", texts.SittingTime(snap.SittingMinutes), snap.ReminderInterval))
	if snap.UserPresent {
		out.Field("Presence", "at computer")
	} else {
		out.Field("Presence", "away")
	}

	switch {
	case !snap.ReminderEnabled:
		out.Field("Reminder", "off")
	case snap.ReminderPending:
		out.Field("Reminder", "pending")
	case snap.LastReminderAt != nil:
		out.Field("Reminder", "last "+snap.LastReminderAt.Local().Format("15:04"))
	default:
		out.Field("Reminder", "on")
	}

	if len(snap.Sessions) == 0 {
		out.Muted(texts.NoCLIRunning())
		return
	}
	fmt.Fprintln(w)
	for _, s := range snap.Sessions {
		out.Session(s.Name, s.Status)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
