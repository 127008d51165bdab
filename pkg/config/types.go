// Package config provides configuration loading and validation for tailgate.
package config

import (
	"time"

	"github.com/jrenner/tailgate/pkg/parser"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Log is the path to the monitored access log (required).
	Log string `yaml:"log"`

	// Format selects the line-timestamp extraction pattern for the live
	// tail. Defaults to "common".
	Format string `yaml:"format,omitempty"`

	// WindowFormat selects the extraction pattern used when seeking the
	// daily analysis window; defaults to Format. Report-style logs may
	// anchor on a marker line rather than a request line.
	WindowFormat string `yaml:"window_format,omitempty"`

	// RLARunTime is the daily trigger time-of-day as HH:MM.
	// Defaults to "23:45".
	RLARunTime string `yaml:"rla_run_time,omitempty"`

	// StateFile is where the watermark state lives. Defaults to
	// ~/.tailgate/state.json.
	StateFile string `yaml:"state_file,omitempty"`

	// AnalysisCommand, when set, delegates the daily window analysis to
	// an external command reading the window on stdin. When empty the
	// built-in summary engine is used.
	AnalysisCommand string   `yaml:"analysis_command,omitempty"`
	AnalysisArgs    []string `yaml:"analysis_args,omitempty"`

	// TopPaths is how many request paths the built-in summary lists.
	TopPaths int `yaml:"top_paths,omitempty"`

	// Webhooks optionally receive the invocation report.
	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`

	// Resolved during validation.
	logFormat    *parser.Format
	windowFormat *parser.Format
	runHour      int
	runMinute    int
}

// LogFormat returns the resolved live-tail format.
func (c *Config) LogFormat() *parser.Format {
	return c.logFormat
}

// SeekFormat returns the resolved window-seeking format.
func (c *Config) SeekFormat() *parser.Format {
	return c.windowFormat
}

// RunTime returns the daily trigger time-of-day.
func (c *Config) RunTime() (hour, minute int) {
	return c.runHour, c.runMinute
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnSummary fires only on invocations where the daily
	// gate fired (default).
	WebhookTriggerOnSummary WebhookTrigger = "on_summary"
	// WebhookTriggerAlways fires after every invocation.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending invocation reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token for authentication.
	Token string `yaml:"token,omitempty"`

	// Trigger determines when the webhook fires.
	// Defaults to "on_summary" if not specified.
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout is the HTTP request timeout.
	// Defaults to 10s if not specified.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
