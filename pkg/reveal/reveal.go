// Package reveal exposes a reply one character at a time.
//
// The scheduler itself never sleeps. Start hands back a Tick token and the
// host delivers it with Fire once Interval has elapsed; every Fire returns
// the next token. A token issued for an earlier reveal is ignored, so a
// timer that outlives Cancel or a newer Start has no effect.
package reveal

import (
	"context"
	"log/slog"
	"time"
)

// DefaultInterval is the delay between two revealed characters.
const DefaultInterval = 15 * time.Millisecond

// Tick identifies one scheduled step of one reveal.
type Tick struct {
	ID  uint64
	Seq int
}

// State is a read-only view of the current reveal.
type State struct {
	Source   string
	Revealed int
	Active   bool
}

// Scheduler runs at most one reveal at a time. It is not safe for
// concurrent use.
type Scheduler struct {
	interval time.Duration

	gen      uint64
	text     string
	source   []rune
	revealed int
	active   bool
	onTick   func(string)
	onDone   func(string)
}

// New creates a scheduler. A non-positive interval falls back to
// DefaultInterval.
func New(interval time.Duration) *Scheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Scheduler{interval: interval}
}

// Interval returns the delay the host should wait before firing a tick.
func (s *Scheduler) Interval() time.Duration {
	return s.interval
}

// Start cancels any running reveal and begins revealing text. It returns the
// first tick and true when ticks must be delivered. Empty text completes
// immediately: onDone("") is called, no tick is issued and false is returned.
func (s *Scheduler) Start(text string, onTick, onDone func(string)) (Tick, bool) {
	s.Cancel()

	if text == "" {
		slog.Debug("reveal_start_empty")
		if onDone != nil {
			onDone("")
		}
		return Tick{}, false
	}

	s.text = text
	s.source = []rune(text)
	s.revealed = 0
	s.active = true
	s.onTick = onTick
	s.onDone = onDone

	slog.Debug("reveal_start", "gen", s.gen, "runes", len(s.source))
	return Tick{ID: s.gen, Seq: 0}, true
}

// Fire delivers one tick. Stale ticks are dropped and return false.
// Otherwise one more character is exposed, onTick receives the visible
// prefix, and the next tick is returned. The tick that exposes the last
// character also calls onDone with the full text and returns false.
func (s *Scheduler) Fire(t Tick) (Tick, bool) {
	if !s.active || t.ID != s.gen || t.Seq != s.revealed {
		slog.Debug("reveal_tick_stale", "tick_gen", t.ID, "gen", s.gen, "seq", t.Seq)
		return Tick{}, false
	}

	s.revealed++
	gen := s.gen
	prefix := string(s.source[:s.revealed])
	if s.onTick != nil {
		s.onTick(prefix)
	}
	if s.gen != gen || !s.active {
		// onTick cancelled or restarted the reveal.
		return Tick{}, false
	}

	if s.revealed < len(s.source) {
		return Tick{ID: s.gen, Seq: s.revealed}, true
	}

	text, onDone := s.text, s.onDone
	s.finish()
	slog.Debug("reveal_done", "gen", gen, "runes", len([]rune(text)))
	if onDone != nil {
		onDone(text)
	}
	return Tick{}, false
}

// Cancel stops the running reveal. No callback of that reveal runs after
// Cancel returns.
func (s *Scheduler) Cancel() {
	if s.active {
		slog.Debug("reveal_cancel", "gen", s.gen, "revealed", s.revealed)
	}
	s.finish()
}

// Active reports whether a reveal is in progress.
func (s *Scheduler) Active() bool {
	return s.active
}

// State returns the current reveal state.
func (s *Scheduler) State() State {
	if !s.active {
		return State{}
	}
	return State{Source: s.text, Revealed: s.revealed, Active: true}
}

// Run reveals text on the calling goroutine, sleeping Interval between
// characters. It returns ctx.Err() if ctx ends first, after cancelling the
// reveal.
func (s *Scheduler) Run(ctx context.Context, text string, onTick, onDone func(string)) error {
	tick, ok := s.Start(text, onTick, onDone)
	if !ok {
		return nil
	}

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for ok {
		select {
		case <-ctx.Done():
			if s.gen == tick.ID {
				s.Cancel()
			}
			return ctx.Err()
		case <-ticker.C:
			tick, ok = s.Fire(tick)
		}
	}
	return nil
}

func (s *Scheduler) finish() {
	s.gen++
	s.text = ""
	s.source = nil
	s.revealed = 0
	s.active = false
	s.onTick = nil
	s.onDone = nil
}
