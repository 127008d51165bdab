package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jrenner/tailgate/pkg/config"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a tailgate configuration file without running a check.

Checks:
  - YAML syntax
  - Required fields
  - Format name validity
  - Daily run time validity
  - Log file existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	fmt.Printf("Validating %s...\n", configPath)

	// Load and validate config
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	hour, minute := cfg.RunTime()

	// Report what we found
	fmt.Printf("\nConfiguration valid!\n")
	fmt.Printf("  Log:            %s\n", cfg.Log)
	fmt.Printf("  Format:         %s\n", cfg.LogFormat().Name)
	fmt.Printf("  Window format:  %s\n", cfg.SeekFormat().Name)
	fmt.Printf("  Daily run time: %02d:%02d\n", hour, minute)
	fmt.Printf("  State file:     %s\n", cfg.StateFile)
	if cfg.AnalysisCommand != "" {
		fmt.Printf("  Analysis:       %s (external)\n", cfg.AnalysisCommand)
	} else {
		fmt.Printf("  Analysis:       built-in summary\n")
	}
	if len(cfg.Webhooks) > 0 {
		fmt.Printf("  Webhooks:       %d\n", len(cfg.Webhooks))
	}

	// Check if the log file exists (warning only)
	if _, err := os.Stat(cfg.Log); err != nil {
		fmt.Printf("\nWarning: log file not readable: %v\n", err)
	}

	return nil
}
