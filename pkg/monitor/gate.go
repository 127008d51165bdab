package monitor

import (
	"fmt"
	"time"

	"github.com/jrenner/tailgate/pkg/state"
)

// minWindowGap is the smallest gap since the previous firing that is
// trusted as a window start. Anything shorter forces a full 24-hour
// window so jittery firings never shrink coverage below one day.
const minWindowGap = 22 * time.Hour

// fullWindow is the window length used when the prior firing is too
// recent or absent.
const fullWindow = 24 * time.Hour

// Decision is the outcome of one gate check.
type Decision struct {
	// Due reports whether the daily analysis window should run now.
	Due bool

	// WindowStart is the start boundary of the analysis window; only
	// meaningful when Due is true.
	WindowStart time.Time
}

// Gate is a debounced once-daily trigger, tolerant of irregular and
// frequent external invocation. It is not a precise scheduler.
//
// It reads state.KeyLastSummaryTime and, when firing, writes it back set
// to the current time BEFORE the analysis runs: a failed analysis is not
// retried until the next qualifying day, which trades guaranteed daily
// delivery for freedom from retry storms.
type Gate struct {
	hour   int
	minute int
	store  state.Store

	// now is the clock, replaceable in tests.
	now func() time.Time
}

// NewGate creates a gate that fires once per calendar day at or after
// the given time of day.
func NewGate(hour, minute int, store state.Store) (*Gate, error) {
	if hour < 0 || hour > 23 || minute < 0 || minute > 59 {
		return nil, fmt.Errorf("invalid trigger time %02d:%02d", hour, minute)
	}
	return &Gate{
		hour:   hour,
		minute: minute,
		store:  store,
		now:    time.Now,
	}, nil
}

// Check decides whether the daily window is due this invocation.
//
// On the first-ever invocation the stored value is seeded to 24 hours
// ago and the gate reports not due: seeding only, it never fires on the
// first call.
func (g *Gate) Check() (Decision, error) {
	now := g.now()

	last, ok := g.store.Get(state.KeyLastSummaryTime)
	if !ok {
		if err := g.store.Set(state.KeyLastSummaryTime, now.Add(-fullWindow)); err != nil {
			return Decision{}, fmt.Errorf("seeding summary time: %w", err)
		}
		return Decision{}, nil
	}

	trigger := time.Date(now.Year(), now.Month(), now.Day(), g.hour, g.minute, 0, 0, now.Location())
	if now.Before(trigger) {
		return Decision{}, nil
	}

	if sameDay(last, now) {
		return Decision{}, nil
	}

	start := last
	if now.Sub(last) < minWindowGap {
		start = now.Add(-fullWindow)
	}

	// Persisted before the analysis attempt, so a crash or failure in
	// the analysis phase cannot cause repeated firings today.
	if err := g.store.Set(state.KeyLastSummaryTime, now); err != nil {
		return Decision{}, fmt.Errorf("recording summary time: %w", err)
	}

	return Decision{Due: true, WindowStart: start}, nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
