// Package starship integrates focus status with the Starship prompt.
package starship

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/grovetools/focusguard/util/pathutil"
	"github.com/spf13/cobra"
)

// statusTimeout keeps the prompt responsive when the daemon is slow.
const statusTimeout = 300 * time.Millisecond

// NewStarshipCmd creates the starship command and its subcommands.
// The binaryName parameter is used to configure the command in starship.toml
// (e.g., "focus" will generate "command = \"focus starship status\"").
func NewStarshipCmd(binaryName string) *cobra.Command {
	starshipCmd := &cobra.Command{
		Use:   "starship",
		Short: "Manage Starship prompt integration",
		Long:  `Provides commands to show sitting time and CLI status in the Starship prompt.`,
	}

	installCmd := &cobra.Command{
		Use:   "install",
		Short: "Install the focus module to your starship.toml",
		Long: `Appends a custom module to your starship.toml configuration file to display
focus status in your shell prompt. It will also attempt to add the module to
your main prompt format.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			configPath := os.Getenv("STARSHIP_CONFIG")
			if configPath == "" {
				home, err := os.UserHomeDir()
				if err != nil {
					return fmt.Errorf("could not get home directory: %w", err)
				}
				configPath = filepath.Join(home, ".config", "starship.toml")
			}
			configPath, err := pathutil.Expand(configPath)
			if err != nil {
				return err
			}
			return Install(cmd.OutOrStdout(), configPath, binaryName)
		},
	}

	statusCmd := &cobra.Command{
		Use:    "status",
		Short:  "Print status for Starship prompt (for internal use)",
		Hidden: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// This command must be fast and should not print errors.
			client, err := daemon.Connect()
			if err != nil {
				return nil
			}
			defer client.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
			defer cancel()
			snap, err := client.State(ctx)
			if err != nil {
				return nil
			}
			fmt.Fprint(cmd.OutOrStdout(), Render(snap))
			return nil
		},
	}

	starshipCmd.AddCommand(installCmd)
	starshipCmd.AddCommand(statusCmd)

	return starshipCmd
}

// Install adds or updates the [custom.focus] module in the starship config
// at configPath and adds it to the prompt format when it can.
func Install(out io.Writer, configPath, binaryName string) error {
	contentBytes, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("starship config not found at %s. Please ensure starship is installed and configured", configPath)
		}
		return fmt.Errorf("could not read starship config: %w", err)
	}
	content := string(contentBytes)

	// --- 1. Add or update the custom module definition ---
	moduleConfig := fmt.Sprintf(`
# Added by '%s starship install'
[custom.focus]
description = "Shows sitting time and AI CLI status"
command = "%s starship status"
when = true
format = " $output "
`, binaryName, binaryName)

	if startIdx := strings.Index(content, "[custom.focus]"); startIdx != -1 {
		// Replace the existing section up to the next table header.
		afterFocus := content[startIdx:]
		endIdx := len(content)
		if nextSectionIdx := strings.Index(afterFocus[1:], "\n["); nextSectionIdx != -1 {
			endIdx = startIdx + nextSectionIdx + 1
		}
		// Drop our own marker comment so updates don't stack them.
		marker := fmt.Sprintf("\n# Added by '%s starship install'\n", binaryName)
		if strings.HasSuffix(content[:startIdx], marker) {
			startIdx -= len(marker)
		}
		content = content[:startIdx] + moduleConfig + content[endIdx:]
		fmt.Fprintln(out, "✓ Updated existing focus starship module configuration.")
	} else {
		content += moduleConfig
		fmt.Fprintln(out, "✓ Added [custom.focus] module to starship config.")
	}

	// --- 2. Add the module to the prompt format if not already present ---
	if strings.Contains(content, "${custom.focus}") || strings.Contains(content, "$custom.focus") {
		fmt.Fprintln(out, "✓ focus module already in starship format.")
	} else {
		target := "$git_status\\"
		if strings.Contains(content, target) {
			content = strings.Replace(content, target, target+"\n${custom.focus}\\", 1)
			fmt.Fprintln(out, "✓ Added focus module to starship format.")
		} else {
			fmt.Fprintf(out, "⚠️  Could not automatically add '${custom.focus}' to your starship format.\n")
			fmt.Fprintf(out, "   Please add it manually to the 'format' string in %s\n", configPath)
		}
	}

	// --- 3. Write the updated config back ---
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write updated starship config: %w", err)
	}

	fmt.Fprintf(out, "\nSuccessfully updated %s. Please restart your shell to see the changes.\n", configPath)
	return nil
}
