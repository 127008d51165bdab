package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jrenner/tailgate/pkg/parser"
)

// DetectOptions holds command-line options for the detect command.
type DetectOptions struct {
	Sample int
}

// NewDetectCommand creates the detect command.
func NewDetectCommand() *cobra.Command {
	opts := &DetectOptions{}

	cmd := &cobra.Command{
		Use:   "detect <log-file>",
		Short: "Detect which timestamp format a log file uses",
		Long: `Sample lines from the start of a log file and score every known
timestamp format against them. The best match is what the "format"
configuration option should be set to.

Exit codes:
  0 - A format matched
  1 - No format matched
  2 - Runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDetect(args[0], opts)
		},
	}

	cmd.Flags().IntVar(&opts.Sample, "sample", parser.DefaultDetectSample, "Number of lines to sample")

	return cmd
}

func runDetect(path string, opts *DetectOptions) error {
	candidates, err := parser.DetectFormat(path, opts.Sample)
	if err != nil {
		return err
	}

	if len(candidates) == 0 {
		fmt.Printf("No known format matched %s\n", path)
		ExitCode = 1
		return nil
	}

	best := candidates[0]
	fmt.Printf("Detected format: %s (%d/%d lines)\n", best.Format.Name, best.Matched, best.Sampled)

	if len(candidates) > 1 {
		fmt.Println("\nOther candidates:")
		for _, c := range candidates[1:] {
			fmt.Printf("  %-10s %d/%d lines\n", c.Format.Name, c.Matched, c.Sampled)
		}
	}

	fmt.Printf("\nConfig:\n  format: %s\n", best.Format.Name)

	return nil
}
