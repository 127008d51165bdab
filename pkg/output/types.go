// Package output provides formatting for invocation reports.
package output

import (
	"fmt"
	"time"

	"github.com/jrenner/tailgate/pkg/monitor"
)

// Report is the complete output of one invocation.
type Report struct {
	// Summary is the per-invocation rate report.
	Summary Summary `json:"summary"`

	// Daily is the once-daily analysis artifact; nil when the gate did
	// not fire this invocation.
	Daily *DailyReport `json:"daily,omitempty"`

	// Metadata provides context about the invocation.
	Metadata Metadata `json:"metadata"`
}

// Summary is the per-invocation metrics report.
type Summary struct {
	// RequestRate is requests per minute, formatted with two fractional
	// digits.
	RequestRate string `json:"request_rate"`

	// LinesScanned is the number of log lines examined this invocation.
	LinesScanned int `json:"lines_scanned"`

	// RequestCount is the number of new requests since the watermark.
	RequestCount int `json:"request_count"`

	// IntervalSeconds is the elapsed time the rate was computed over.
	IntervalSeconds float64 `json:"interval_seconds"`
}

// DailyReport is the once-daily analysis artifact.
type DailyReport struct {
	// WindowStart and WindowEnd bound the analyzed segment.
	WindowStart time.Time `json:"window_start"`
	WindowEnd   time.Time `json:"window_end"`

	// Offset is the byte offset the window began at in the log file.
	Offset int64 `json:"offset"`

	// Engine names the analysis engine that produced the body.
	Engine string `json:"engine"`

	// Body is the engine's rendered output; empty when the analysis
	// failed.
	Body string `json:"body,omitempty"`

	// Error describes an analysis-phase failure. A failed analysis does
	// not invalidate the rate summary above.
	Error string `json:"error,omitempty"`
}

// Metadata provides context about the invocation.
type Metadata struct {
	// ConfigFile is the path to the configuration file used.
	ConfigFile string `json:"config_file"`

	// LogFile is the monitored log file.
	LogFile string `json:"log_file"`

	// CheckedAt is when the invocation ran.
	CheckedAt time.Time `json:"checked_at"`

	// Duration is how long the invocation took.
	Duration time.Duration `json:"duration"`
}

// NewReport builds a report from a rate sample.
func NewReport(sample *monitor.Sample, configFile, logFile string) *Report {
	return &Report{
		Summary: Summary{
			RequestRate:     fmt.Sprintf("%.2f", sample.Rate),
			LinesScanned:    sample.LinesScanned,
			RequestCount:    sample.RequestCount,
			IntervalSeconds: sample.Interval.Seconds(),
		},
		Metadata: Metadata{
			ConfigFile: configFile,
			LogFile:    logFile,
			CheckedAt:  time.Now(),
		},
	}
}

// HasDaily returns true when the daily gate fired this invocation.
func (r *Report) HasDaily() bool {
	return r.Daily != nil
}

// DailyFailed returns true when the gate fired but the analysis phase
// failed.
func (r *Report) DailyFailed() bool {
	return r.Daily != nil && r.Daily.Error != ""
}
