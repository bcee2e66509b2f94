package main

import (
	"os"

	"github.com/grovetools/focusguard/cli"
	"github.com/grovetools/focusguard/cmd"
)

func main() {
	rootCmd := cmd.NewRootCmd()

	if err := rootCmd.Execute(); err != nil {
		if cmd.IsSilent(err) {
			os.Exit(cli.ExitError)
		}
		verbose, _ := rootCmd.PersistentFlags().GetBool("verbose")
		os.Exit(cli.NewErrorHandler(verbose, os.Stderr).Handle(err))
	}
}
