package cmd

import (
	"errors"
	"os"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/starship"
	"github.com/spf13/cobra"
)

// errDaemonStopped makes `daemon status` exit non-zero without an error message.
var errDaemonStopped = errors.New("daemon is not running")

// IsSilent reports whether err has already been shown to the user.
func IsSilent(err error) bool {
	return errors.Is(err, errDaemonStopped)
}

// NewRootCmd builds the focus command tree.
func NewRootCmd() *cobra.Command {
	rootCmd := cli.NewStandardCommand(
		"focus",
		"Break reminders that wait for your AI CLI to finish",
	)
	rootCmd.Long = `focus tracks how long you have been sitting at the computer and reminds
you to take a break, preferably at a moment when your AI coding CLIs
(Claude Code, Gemini CLI, Codex) are waiting for you rather than working.`

	rootCmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if cli.GetOptions(cmd).Verbose {
			os.Setenv("FOCUS_LOG_LEVEL", "debug")
		}
	}

	cli.AddCommandGroups(rootCmd)
	grouped := []struct {
		group string
		cmds  []*cobra.Command
	}{
		{cli.GroupDaemon, []*cobra.Command{NewDaemonCmd(), NewHookCmd(), NewLogsCmd()}},
		{cli.GroupSession, []*cobra.Command{NewStatusCmd(), NewWatchCmd(), NewResetCmd(), NewTestReminderCmd()}},
		{cli.GroupSettings, []*cobra.Command{NewSetCmd(), NewConfigCmd(), starship.NewStarshipCmd("focus")}},
	}
	for _, g := range grouped {
		for _, c := range g.cmds {
			c.GroupID = g.group
			rootCmd.AddCommand(c)
		}
	}
	rootCmd.AddCommand(NewPathsCmd())
	rootCmd.AddCommand(cli.NewVersionCommand("focus"))

	cli.ApplyStyledHelpRecursive(rootCmd)
	return rootCmd
}
