// Package monitor provides the incremental rate tracker, the once-daily
// schedule gate, and the analysis window seeker.
package monitor

import (
	"context"
	"fmt"
	"time"

	"github.com/jrenner/tailgate/pkg/parser"
	"github.com/jrenner/tailgate/pkg/state"
)

// seedLookback is how far behind the current clock the watermark is
// seeded on the first-ever invocation.
const seedLookback = time.Minute

// minInterval is the lower bound on the elapsed time used for rate
// division, so a near-zero interval never produces an unbounded rate.
const minInterval = time.Second

// Sample is the result of one rate-tracking pass. It is ephemeral;
// nothing in it is persisted.
type Sample struct {
	// RequestCount is the number of lines with a timestamp newer than
	// the watermark.
	RequestCount int

	// LinesScanned is the number of lines examined during the reverse
	// scan, whether or not they carried a parsable timestamp.
	LinesScanned int

	// Interval is the elapsed time the rate was computed over, clamped
	// to a 1-second minimum.
	Interval time.Duration

	// Rate is requests per minute over Interval.
	Rate float64

	// NewestSeen is the newest timestamp parsed during the scan; zero
	// when nothing parsed.
	NewestSeen time.Time
}

// Tracker counts requests appended to the log since the persisted
// watermark and advances the watermark.
//
// It reads state.KeyLastRequestTime at the start of a pass and writes it
// exactly once, after the scan completes without error. A read failure
// leaves the watermark untouched so the next invocation retries the same
// segment.
type Tracker struct {
	path      string
	extractor *parser.Extractor
	store     state.Store

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewTracker creates a rate tracker for the given log file.
func NewTracker(path string, extractor *parser.Extractor, store state.Store) *Tracker {
	return &Tracker{
		path:      path,
		extractor: extractor,
		store:     store,
		now:       time.Now,
	}
}

// Run performs one rate-tracking pass: reverse-scan the log tail,
// counting lines newer than the watermark, then advance the watermark.
//
// The scan stops at the first line whose timestamp is at or before the
// watermark; with timestamps non-decreasing in forward file order, every
// earlier line has already been accounted for by a previous invocation.
func (t *Tracker) Run(ctx context.Context) (*Sample, error) {
	now := t.now()

	watermark, ok := t.store.Get(state.KeyLastRequestTime)
	if !ok {
		watermark = now.Add(-seedLookback)
	}

	sc, err := parser.OpenReverse(t.path)
	if err != nil {
		return nil, err
	}
	defer sc.Close()

	sample := &Sample{}

	for sc.Scan() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		sample.LinesScanned++

		ts, err := t.extractor.Extract(sc.Text())
		if err != nil {
			// Not an error: lines without a parsable timestamp are
			// skipped for accounting but still count as scanned.
			continue
		}

		if sample.NewestSeen.IsZero() {
			sample.NewestSeen = ts
		}

		if !ts.After(watermark) {
			break
		}
		sample.RequestCount++
	}

	if err := sc.Err(); err != nil {
		// Watermark untouched; the next invocation retries this segment.
		return nil, fmt.Errorf("scanning %s: %w", t.path, err)
	}

	interval := now.Sub(watermark)
	if interval < minInterval {
		interval = minInterval
	}
	sample.Interval = interval

	if sample.RequestCount > 0 {
		sample.Rate = float64(sample.RequestCount) / interval.Minutes()
	}

	mark := sample.NewestSeen
	if mark.IsZero() {
		mark = now
	}
	if err := t.store.Set(state.KeyLastRequestTime, mark); err != nil {
		return nil, fmt.Errorf("advancing watermark: %w", err)
	}

	return sample, nil
}
