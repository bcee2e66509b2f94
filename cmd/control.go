package cmd

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/errors"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/spf13/cobra"
)

// NewResetCmd creates the `reset` command.
func NewResetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Reset sitting time to zero",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c daemon.Client) (*daemon.Snapshot, error) {
				return c.Reset(ctx)
			}, "Sitting time reset")
		},
	}
}

// NewTestReminderCmd creates the `test-reminder` command.
func NewTestReminderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "test-reminder",
		Short: "Show a break reminder now",
		Long:  "Fires a reminder immediately without changing sitting time or the cooldown.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withClient(cmd, func(ctx context.Context, c daemon.Client) (*daemon.Snapshot, error) {
				return c.TestReminder(ctx)
			}, "Test reminder sent")
		},
	}
}

// NewSetCmd creates the `set` command for runtime settings.
func NewSetCmd() *cobra.Command {
	var (
		interval  intervalValue
		reminder  onOffValue
		sound     onOffValue
		autoFocus onOffValue
		language  string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change daemon settings at runtime",
		Long: `Changes settings on the running daemon. Changes last until the daemon
restarts or the config file is edited.

Examples:
  # Remind after 50 minutes
  focus set --interval 50

  # Step to the next interval (20 → 30 → 40 → 50 → 60 → 20)
  focus set --interval next

  # Pause reminders
  focus set --reminder off`,
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			var patch daemon.SettingsPatch
			if flags.Changed("reminder") {
				patch.ReminderEnabled = reminder.ptr()
			}
			if flags.Changed("sound") {
				patch.SoundOnWaiting = sound.ptr()
			}
			if flags.Changed("auto-focus") {
				patch.AutoFocus = autoFocus.ptr()
			}
			if flags.Changed("language") {
				patch.Language = &language
			}
			if !flags.Changed("interval") && patch == (daemon.SettingsPatch{}) {
				return errors.New(errors.ErrCodeInvalidInput, "nothing to change: pass at least one flag")
			}

			return withClient(cmd, func(ctx context.Context, c daemon.Client) (*daemon.Snapshot, error) {
				if flags.Changed("interval") {
					minutes := interval.minutes
					if interval.next {
						snap, err := c.State(ctx)
						if err != nil {
							return nil, err
						}
						minutes = config.NextInterval(snap.ReminderInterval)
					}
					patch.Interval = &minutes
				}
				return c.UpdateSettings(ctx, patch)
			}, "Settings updated")
		},
	}

	cmd.Flags().Var(&interval, "interval", "Reminder interval in minutes (20, 30, 40, 50, 60) or 'next'")
	cmd.Flags().Var(&reminder, "reminder", "Enable or disable reminders (on|off)")
	cmd.Flags().Var(&sound, "sound", "Play a sound when a CLI starts waiting (on|off)")
	cmd.Flags().Var(&autoFocus, "auto-focus", "Focus the CLI's terminal when it starts waiting (on|off)")
	cmd.Flags().StringVar(&language, "language", "", "Notification language (en|zh)")

	return cmd
}

// withClient connects, runs fn and prints the resulting snapshot.
func withClient(cmd *cobra.Command, fn func(context.Context, daemon.Client) (*daemon.Snapshot, error), done string) error {
	client, err := daemon.Connect()
	if err != nil {
		return err
	}
	defer client.Close()

	ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
	defer cancel()

	snap, err := fn(ctx, client)
	if err != nil {
		return err
	}

	if cli.GetOptions(cmd).JSONOutput {
		return writeJSON(cmd.OutOrStdout(), snap)
	}
	logging.NewPrettyLogger().WithWriter(cmd.OutOrStdout()).Success(done)
	printSnapshot(cmd.OutOrStdout(), snap)
	return nil
}

// intervalValue is a pflag.Value accepting an allowed interval or "next".
type intervalValue struct {
	minutes int
	next    bool
}

func (v *intervalValue) String() string {
	if v.next {
		return "next"
	}
	if v.minutes == 0 {
		return ""
	}
	return strconv.Itoa(v.minutes)
}

func (v *intervalValue) Set(s string) error {
	s = strings.TrimSpace(strings.ToLower(s))
	if s == "next" {
		v.next, v.minutes = true, 0
		return nil
	}
	n, err := strconv.Atoi(strings.TrimSuffix(s, "m"))
	if err != nil || !config.ValidInterval(n) {
		return fmt.Errorf("must be one of %s or 'next'", joinInts(config.ReminderIntervals))
	}
	v.next, v.minutes = false, n
	return nil
}

func (v *intervalValue) Type() string { return "minutes" }

// onOffValue is a boolean flag spelled on/off.
type onOffValue struct {
	value bool
}

func (v *onOffValue) String() string {
	if v.value {
		return "on"
	}
	return "off"
}

func (v *onOffValue) Set(s string) error {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "on", "true", "yes", "1":
		v.value = true
	case "off", "false", "no", "0":
		v.value = false
	default:
		return fmt.Errorf("must be on or off")
	}
	return nil
}

func (v *onOffValue) Type() string { return "on|off" }

func (v *onOffValue) ptr() *bool {
	b := v.value
	return &b
}

func joinInts(values []int) string {
	parts := make([]string, len(values))
	for i, n := range values {
		parts[i] = strconv.Itoa(n)
	}
	return strings.Join(parts, ", ")
}
