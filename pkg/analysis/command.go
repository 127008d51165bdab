package analysis

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// CommandEngine delegates the window analysis to an external command.
// The window stream is piped to the command's stdin and its stdout
// becomes the report body.
//
// The command runs synchronously with no timeout or cancellation. Window
// bounds and format are passed in the environment so existing report
// generators need no flag surface.
type CommandEngine struct {
	Command string
	Args    []string
}

// Name identifies the engine in the rendered report.
func (e *CommandEngine) Name() string {
	return e.Command
}

// Analyze runs the configured command over the window stream.
func (e *CommandEngine) Analyze(_ context.Context, req Request) (string, error) {
	cmd := exec.Command(e.Command, e.Args...) // #nosec G204 -- command comes from operator config
	cmd.Stdin = req.Source

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	cmd.Env = append(cmd.Environ(),
		"TAILGATE_FORMAT="+req.Format,
		"TAILGATE_WINDOW_START="+req.WindowStart.Format(time.RFC3339),
		"TAILGATE_WINDOW_END="+req.WindowEnd.Format(time.RFC3339),
	)

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("running %s: %w: %s", e.Command, err, msg)
		}
		return "", fmt.Errorf("running %s: %w", e.Command, err)
	}

	return stdout.String(), nil
}
