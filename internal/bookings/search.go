package bookings

import (
	"strings"
	"sync"
	"time"

	"braidzworld/internal/clock"
)

// Searcher debounces free-text input: evaluation waits until the input has
// been stable for the quiet period, and a new keystroke resets the timer, so
// the last write wins. A non-empty stable term then goes through a simulated
// lookup latency with the searching flag raised for its duration.
type Searcher struct {
	mu      sync.Mutex
	clk     clock.Clock
	quiet   time.Duration
	latency time.Duration
	apply   func(term string)

	timer     clock.Timer
	pending   string
	searching bool
}

// NewSearcher wires a debounced searcher to an apply callback. apply receives
// the trimmed stable term ("" when the input cleared) and is never called
// concurrently with itself by the searcher.
func NewSearcher(clk clock.Clock, quiet, latency time.Duration, apply func(term string)) *Searcher {
	return &Searcher{clk: clk, quiet: quiet, latency: latency, apply: apply}
}

// Input records a keystroke, restarting the quiet-period timer.
func (s *Searcher) Input(term string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.pending = term
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clk.AfterFunc(s.quiet, s.fire)
}

// Searching reports whether a simulated lookup is in flight.
func (s *Searcher) Searching() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.searching
}

func (s *Searcher) fire() {
	s.mu.Lock()
	term := strings.TrimSpace(s.pending)
	if term == "" {
		// Clearing the input may interrupt a lookup in flight; its latency
		// timer was stopped by Input, so the flag must drop here.
		s.searching = false
		s.mu.Unlock()
		// Empty input goes straight back to the filter pipeline.
		s.apply("")
		return
	}
	s.searching = true
	s.timer = s.clk.AfterFunc(s.latency, func() { s.complete(term) })
	s.mu.Unlock()
}

func (s *Searcher) complete(term string) {
	s.mu.Lock()
	s.searching = false
	s.mu.Unlock()
	s.apply(term)
}
