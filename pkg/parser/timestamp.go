package parser

import (
	"fmt"
	"regexp"
	"time"
)

// Extractor extracts and parses timestamps from log lines.
type Extractor struct {
	pattern *regexp.Regexp
	layouts []string
}

// NewExtractor creates a new timestamp extractor.
// Layouts are tried in order; the first that parses wins. Access log
// formats commonly allow an optional timezone offset, which is why more
// than one layout may be needed for a single pattern.
func NewExtractor(pattern *regexp.Regexp, layouts ...string) *Extractor {
	return &Extractor{
		pattern: pattern,
		layouts: layouts,
	}
}

// Extract attempts to extract and parse a timestamp from a log line.
// Returns the parsed time and nil error on success.
// Returns zero time and error if the pattern doesn't match or parsing fails.
func (e *Extractor) Extract(line string) (time.Time, error) {
	matches := e.pattern.FindStringSubmatch(line)
	if len(matches) < 2 {
		return time.Time{}, fmt.Errorf("timestamp pattern did not match")
	}

	// Use the first capture group as the timestamp string
	tsStr := matches[1]

	var lastErr error
	for _, layout := range e.layouts {
		ts, err := time.Parse(layout, tsStr)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}

	return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", tsStr, lastErr)
}
