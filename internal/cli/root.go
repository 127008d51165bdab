// Package cli provides the command-line interface for tailgate.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrenner/tailgate/internal/cli/commands"
)

// Execute runs the root command and returns the exit code.
func Execute() int {
	rootCmd := NewRootCommand()

	if err := rootCmd.Execute(); err != nil {
		// Print error to stderr (SilenceErrors prevents Cobra from doing this)
		_, _ = fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return 2 // Configuration or runtime error
	}
	return commands.ExitCode
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tailgate",
		Short: "Incremental access log rate monitor",
		Long: `Tailgate incrementally monitors an append-only access log.

Each invocation reads only the log tail appended since the previous run
and reports a request rate. Once per day it additionally runs a full
analysis pass over the log segment accumulated since the previous daily
run.

Tailgate holds no timers of its own: run it from cron or a monitoring
agent every few minutes. State survives between invocations in a small
JSON file.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Add subcommands
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewRateCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewSeekCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
