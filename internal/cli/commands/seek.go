package commands

import (
	"bufio"
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrenner/tailgate/pkg/config"
	"github.com/jrenner/tailgate/pkg/monitor"
)

// SeekOptions holds command-line options for the seek command.
type SeekOptions struct {
	Since string
}

// NewSeekCommand creates the seek command.
func NewSeekCommand() *cobra.Command {
	opts := &SeekOptions{}

	cmd := &cobra.Command{
		Use:   "seek <config-file>",
		Short: "Locate the byte offset where a time window begins",
		Long: `Locate the byte offset in the log where the window starting at the
given time begins, using the same backward scan as the daily analysis.
Prints the offset and the first line at it. Debugging aid; no state is
read or written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSeek(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.Since, "since", "24h", "Window start: a duration before now (e.g. 2h) or an RFC 3339 time")

	return cmd
}

func runSeek(cmd *cobra.Command, args []string, opts *SeekOptions) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	target, err := parseSince(opts.Since)
	if err != nil {
		return fmt.Errorf("invalid --since %q: %w", opts.Since, err)
	}

	f, offset, err := monitor.SeekWindow(ctx, cfg.Log, target, cfg.SeekFormat().Extractor())
	if err != nil {
		return fmt.Errorf("seeking window: %w", err)
	}
	defer f.Close()

	fmt.Printf("Window start: %s\n", target.Format(time.RFC3339))
	fmt.Printf("Byte offset:  %d\n", offset)

	sc := bufio.NewScanner(f)
	if sc.Scan() {
		fmt.Printf("First line:   %s\n", sc.Text())
	} else {
		fmt.Println("First line:   (window is empty)")
	}

	return sc.Err()
}

// parseSince accepts either a duration before now or an absolute
// RFC 3339 time.
func parseSince(s string) (time.Time, error) {
	if d, err := time.ParseDuration(s); err == nil {
		return time.Now().Add(-d), nil
	}
	return time.Parse(time.RFC3339, s)
}
