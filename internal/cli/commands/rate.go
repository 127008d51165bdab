package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrenner/tailgate/pkg/monitor"
	"github.com/jrenner/tailgate/pkg/output"
)

// RateOptions holds command-line options for the rate command.
type RateOptions struct {
	Output    string
	StateFile string
	Verbose   bool
	Quiet     bool
}

// NewRateCommand creates the rate command.
func NewRateCommand() *cobra.Command {
	opts := &RateOptions{}

	cmd := &cobra.Command{
		Use:   "rate <config-file>",
		Short: "Report the request rate without touching the daily gate",
		Long: `Report the request rate over the lines appended since the previous
invocation. The watermark advances as in a full check, but the daily
schedule gate is not consulted, so this never triggers or consumes the
day's analysis run.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.StateFile, "state", "", "Override the state file path")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include invocation details in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Rate summary only")

	return cmd
}

func runRate(cmd *cobra.Command, args []string, opts *RateOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, store, err := loadEnvironment(ctx, configPath, opts.StateFile)
	if err != nil {
		return err
	}

	start := time.Now()

	tracker := monitor.NewTracker(cfg.Log, cfg.LogFormat().Extractor(), store)
	sample, err := tracker.Run(ctx)
	if err != nil {
		return fmt.Errorf("tracking request rate: %w", err)
	}

	report := output.NewReport(sample, configPath, cfg.Log)
	report.Metadata.Duration = time.Since(start)

	formatter, err := createFormatter(opts.Output, output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, os.Stdout); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	return nil
}
