package cmd

import (
	"context"
	"fmt"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/pkg/daemon"
	"github.com/spf13/cobra"
)

// NewConfigCmd creates the `config` command group.
func NewConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect the focus configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSchemaCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	var (
		format string
		live   bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long: `Prints the configuration with defaults and FOCUS_* environment overrides
applied. With --live the configuration is read from the running daemon, which
includes changes made with 'focus set'.

Examples:
  focus config show
  focus config show --format yaml
  focus config show --live`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				cfg    *config.Config
				source string
			)

			if live {
				client, err := daemon.Connect()
				if err != nil {
					return err
				}
				defer client.Close()

				ctx, cancel := context.WithTimeout(cmd.Context(), clientTimeout)
				defer cancel()
				resp, err := client.Config(ctx)
				if err != nil {
					return err
				}
				cfg, source = resp.Config, "daemon (pid "+fmt.Sprint(resp.Running.PID)+")"
			} else {
				loaded, path, err := cli.LoadConfig(cli.GetOptions(cmd))
				if err != nil {
					return err
				}
				cfg, source = loaded, path
			}
			if source == "" {
				source = "built-in defaults"
			}

			if cli.GetOptions(cmd).JSONOutput {
				return writeJSON(cmd.OutOrStdout(), cfg)
			}

			data, err := config.Marshal(cfg, format)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "# Source: %s\n%s", source, data)
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", config.FormatTOML, "Output format: toml or yaml")
	cmd.Flags().BoolVar(&live, "live", false, "Read the configuration from the running daemon")
	return cmd
}

func newConfigSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for focus.toml and focus.yml",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := config.GenerateSchema()
			if err != nil {
				return fmt.Errorf("failed to generate schema: %w", err)
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(data))
			return nil
		},
	}
}
