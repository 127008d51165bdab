package output

import (
	"context"
	"fmt"
	"io"
	"time"
)

// TextFormatter formats reports as human-readable text.
type TextFormatter struct {
	opts FormatOptions
}

// NewTextFormatter creates a new text formatter with the given options.
func NewTextFormatter(opts FormatOptions) *TextFormatter {
	return &TextFormatter{opts: opts}
}

// Name returns the format name.
func (f *TextFormatter) Name() string {
	return "text"
}

// Format renders the report as text.
func (f *TextFormatter) Format(ctx context.Context, report *Report, w io.Writer) error {
	fmt.Fprintf(w, "request_rate %s\n", report.Summary.RequestRate)
	fmt.Fprintf(w, "lines_scanned %d\n", report.Summary.LinesScanned)

	if f.opts.Verbose {
		fmt.Fprintf(w, "request_count %d\n", report.Summary.RequestCount)
		fmt.Fprintf(w, "interval_seconds %.0f\n", report.Summary.IntervalSeconds)
	}

	if f.opts.Quiet || report.Daily == nil {
		return nil
	}

	return f.formatDaily(report.Daily, w)
}

func (f *TextFormatter) formatDaily(daily *DailyReport, w io.Writer) error {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Daily Request Log Analysis ===")
	fmt.Fprintf(w, "Window: %s .. %s\n",
		daily.WindowStart.Format(time.RFC3339),
		daily.WindowEnd.Format(time.RFC3339))

	if f.opts.Verbose {
		fmt.Fprintf(w, "Engine: %s (from byte offset %d)\n", daily.Engine, daily.Offset)
	}

	if daily.Error != "" {
		fmt.Fprintf(w, "Analysis failed: %s\n", daily.Error)
		return nil
	}

	fmt.Fprintln(w)
	fmt.Fprint(w, daily.Body)
	if len(daily.Body) > 0 && daily.Body[len(daily.Body)-1] != '\n' {
		fmt.Fprintln(w)
	}

	return nil
}
