package cmd

import (
	"encoding/json"
	"fmt"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/paths"
	"github.com/spf13/cobra"
)

// PathsOutput lists the files and directories focus uses.
type PathsOutput struct {
	ConfigDir     string `json:"config_dir"`
	StateDir      string `json:"state_dir"`
	RuntimeDir    string `json:"runtime_dir"`
	IngressSocket string `json:"ingress_socket"`
	APISocket     string `json:"api_socket"`
	PidFile       string `json:"pid_file"`
	LogFile       string `json:"log_file"`
}

func NewPathsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "paths",
		Short: "Print the paths used by focus",
		Long: `Print the paths used by focus as JSON, for scripts and hook setup.

- config_dir: focus.toml / focus.yml ($FOCUS_HOME or $XDG_CONFIG_HOME)
- state_dir: logs and the pidfile
- runtime_dir: sockets
- ingress_socket: where 'focus hook' sends events ($FOCUS_SOCKET overrides)`,
		RunE: func(cmd *cobra.Command, args []string) error {
			logFile := ""
			if cfg, _, err := cli.LoadConfig(cli.GetOptions(cmd)); err == nil {
				logFile = cfg.Logging.File
			}

			output := PathsOutput{
				ConfigDir:     paths.ConfigDir(),
				StateDir:      paths.StateDir(),
				RuntimeDir:    paths.RuntimeDir(),
				IngressSocket: paths.IngressSocketPath(),
				APISocket:     paths.APISocketPath(),
				PidFile:       paths.PidFilePath(),
				LogFile:       logging.LogFilePath(logFile),
			}

			jsonData, err := json.MarshalIndent(output, "", "  ")
			if err != nil {
				return fmt.Errorf("failed to marshal paths to JSON: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(jsonData))
			return nil
		},
	}

	return cmd
}
