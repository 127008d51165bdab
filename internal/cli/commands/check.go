package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/jrenner/tailgate/pkg/analysis"
	"github.com/jrenner/tailgate/pkg/config"
	"github.com/jrenner/tailgate/pkg/monitor"
	"github.com/jrenner/tailgate/pkg/output"
	"github.com/jrenner/tailgate/pkg/state"
	"github.com/jrenner/tailgate/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Output    string
	StateFile string
	Verbose   bool
	Quiet     bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check <config-file>",
		Short: "Run one monitoring pass (rate + daily analysis when due)",
		Long: `Run one complete monitoring pass.

The request rate over the lines appended since the previous invocation
is always reported. When the configured daily run time has passed and no
analysis has run today, the accumulated log window is additionally
analyzed and the result appended to the report.

Exit codes:
  0 - Check completed
  1 - Daily analysis was due but failed (rate report still produced)
  2 - Configuration or runtime error`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	addCheckFlags(cmd, opts)

	return cmd
}

func addCheckFlags(cmd *cobra.Command, opts *CheckOptions) {
	cmd.Flags().StringVarP(&opts.Output, "output", "o", "text", "Output format (text|json)")
	cmd.Flags().StringVar(&opts.StateFile, "state", "", "Override the state file path")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include invocation details in the report")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Rate summary only")

	// Webhook flags
	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", "on_summary", "When to fire webhook (on_summary|always|never)")
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
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

	// Rate tracking runs first, always. A failure here is fatal for the
	// invocation and leaves all state untouched.
	tracker := monitor.NewTracker(cfg.Log, cfg.LogFormat().Extractor(), store)
	sample, err := tracker.Run(ctx)
	if err != nil {
		return fmt.Errorf("tracking request rate: %w", err)
	}

	report := output.NewReport(sample, configPath, cfg.Log)

	// Independently, the daily gate may fire. Failures past this point
	// are isolated into the report: the rate result above already stands.
	hour, minute := cfg.RunTime()
	gate, err := monitor.NewGate(hour, minute, store)
	if err != nil {
		return fmt.Errorf("configuring schedule gate: %w", err)
	}

	decision, err := gate.Check()
	if err != nil {
		return fmt.Errorf("checking schedule gate: %w", err)
	}

	if decision.Due {
		report.Daily = runDailyAnalysis(ctx, cfg, decision, start)
		if report.DailyFailed() {
			ExitCode = 1
		}
	}

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

	// Send webhooks (errors logged but don't fail the check)
	sendWebhooks(ctx, cfg, opts, report)

	return nil
}

// runDailyAnalysis seeks the window start and hands the bounded segment
// to the analysis engine. Every failure is converted into the returned
// report rather than propagated: the gate has already recorded this
// firing, so a failed analysis waits for the next qualifying day.
func runDailyAnalysis(ctx context.Context, cfg *config.Config, decision monitor.Decision, now time.Time) *output.DailyReport {
	engine := selectEngine(cfg)

	daily := &output.DailyReport{
		WindowStart: decision.WindowStart,
		WindowEnd:   now,
		Engine:      engine.Name(),
	}

	f, offset, err := monitor.SeekWindow(ctx, cfg.Log, decision.WindowStart, cfg.SeekFormat().Extractor())
	if err != nil {
		daily.Error = fmt.Sprintf("seeking window start: %v", err)
		return daily
	}
	defer f.Close()
	daily.Offset = offset

	body, err := engine.Analyze(ctx, analysis.Request{
		Format:      cfg.Format,
		WindowStart: decision.WindowStart,
		WindowEnd:   now,
		Source:      f,
	})
	if err != nil {
		daily.Error = fmt.Sprintf("analyzing window: %v", err)
		return daily
	}

	daily.Body = body
	return daily
}

func selectEngine(cfg *config.Config) analysis.Engine {
	if cfg.AnalysisCommand != "" {
		return &analysis.CommandEngine{
			Command: cfg.AnalysisCommand,
			Args:    cfg.AnalysisArgs,
		}
	}
	return &analysis.SummaryEngine{TopPaths: cfg.TopPaths}
}

// loadEnvironment loads the config and opens the state store, applying
// the optional state file override.
func loadEnvironment(ctx context.Context, configPath, stateOverride string) (*config.Config, *state.FileStore, error) {
	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	statePath := cfg.StateFile
	if stateOverride != "" {
		statePath = stateOverride
	}

	store, err := state.OpenFileStore(statePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening state store: %w", err)
	}

	return cfg, store, nil
}

func createFormatter(name string, opts output.FormatOptions) (output.Formatter, error) {
	switch name {
	case "text":
		return output.NewTextFormatter(opts), nil
	case "json":
		return output.NewJSONFormatter(opts), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (use text or json)", name)
	}
}

// sendWebhooks sends the report to all configured webhooks.
// Errors are logged to stderr but don't fail the check.
func sendWebhooks(ctx context.Context, cfg *config.Config, opts *CheckOptions, report *output.Report) {
	// Collect webhooks from config and CLI
	webhooks := collectWebhooks(cfg, opts)

	if len(webhooks) == 0 {
		return
	}

	client := webhook.NewClient()

	for _, wh := range webhooks {
		// Check trigger condition
		if !shouldFireWebhook(wh.Trigger, report.HasDaily()) {
			continue
		}

		// Send webhook
		resp := client.Send(ctx, report, webhook.SendOptions{
			URL:     wh.URL,
			Token:   wh.Token,
			Timeout: wh.Timeout,
		})

		// Log result
		name := wh.Name
		if name == "" {
			name = wh.URL
		}

		if resp.Success() {
			fmt.Fprintf(os.Stderr, "Webhook %s: sent (%d, %s)\n", name, resp.StatusCode, resp.Duration)
		} else {
			fmt.Fprintf(os.Stderr, "Webhook %s: failed (%v)\n", name, resp.Error)
		}
	}
}

// collectWebhooks merges config file webhooks with the CLI webhook.
func collectWebhooks(cfg *config.Config, opts *CheckOptions) []config.WebhookConfig {
	webhooks := make([]config.WebhookConfig, 0, len(cfg.Webhooks)+1)

	// Add config file webhooks
	webhooks = append(webhooks, cfg.Webhooks...)

	// Add CLI webhook if specified
	if opts.WebhookURL != "" {
		trigger := config.WebhookTrigger(opts.WebhookTrigger)
		if trigger == "" {
			trigger = config.WebhookTriggerOnSummary
		}

		webhooks = append(webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: trigger,
			Timeout: config.DefaultWebhookTimeout,
		})
	}

	return webhooks
}

// shouldFireWebhook determines if a webhook should fire for this report.
func shouldFireWebhook(trigger config.WebhookTrigger, hasDaily bool) bool {
	switch trigger {
	case config.WebhookTriggerAlways:
		return true
	case config.WebhookTriggerNever:
		return false
	case config.WebhookTriggerOnSummary:
		return hasDaily
	default:
		// Default to on_summary
		return hasDaily
	}
}
