package cli

import (
	"path/filepath"

	"github.com/grovetools/focusguard/config"
	"github.com/grovetools/focusguard/logging"
	"github.com/grovetools/focusguard/pkg/paths"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// CommandOptions holds common options for focus commands
type CommandOptions struct {
	ConfigFile string
	Verbose    bool
	JSONOutput bool
}

// NewStandardCommand creates a new command with the standard focus flags
func NewStandardCommand(use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           use,
		Short:         short,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	cmd.PersistentFlags().StringP("config", "c", "", "Path to focus.toml or focus.yml")

	SetStyledHelp(cmd)

	return cmd
}

// GetLogger returns a component logger honouring --verbose and --json.
func GetLogger(cmd *cobra.Command, component string) *logrus.Entry {
	entry := logging.NewLogger(component)

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		entry.Logger.SetLevel(logrus.DebugLevel)
	}
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		entry.Logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return entry
}

// GetOptions extracts common options from a command
func GetOptions(cmd *cobra.Command) CommandOptions {
	configFile, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	return CommandOptions{
		ConfigFile: configFile,
		Verbose:    verbose,
		JSONOutput: jsonOutput,
	}
}

// LoadConfig loads the file named by --config, or the standard config file
// when the flag is empty. The returned path is empty when running on defaults.
func LoadConfig(opts CommandOptions) (*config.Config, string, error) {
	if opts.ConfigFile != "" {
		cfg, err := config.Load(opts.ConfigFile)
		return cfg, opts.ConfigFile, err
	}
	return config.LoadDefault()
}

// ConfigDir returns the directory watched for config changes.
func ConfigDir(opts CommandOptions) string {
	if opts.ConfigFile != "" {
		return filepath.Dir(opts.ConfigFile)
	}
	return paths.ConfigDir()
}
