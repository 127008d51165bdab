// Package analysis defines the contract with the full-window analysis
// engine and provides two implementations: a built-in access-log summary
// and a delegating external command.
package analysis

import (
	"context"
	"io"
	"time"
)

// Request is the input handed to an engine when the daily gate fires.
type Request struct {
	// Format is the configured log format name.
	Format string

	// WindowStart and WindowEnd bound the analysis window.
	WindowStart time.Time
	WindowEnd   time.Time

	// Source is a forward-readable stream positioned at the window
	// start; the engine reads it to end-of-file.
	Source io.Reader
}

// Engine produces the body of the daily analysis report. The body is
// opaque to the caller.
//
// Engines run synchronously within the invocation; the caller imposes no
// timeout on them.
type Engine interface {
	// Name identifies the engine in the rendered report.
	Name() string

	// Analyze reads the window from req.Source and returns the report body.
	Analyze(ctx context.Context, req Request) (string, error)
}
