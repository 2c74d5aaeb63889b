// Package analysis drives the staged "analyzing" progress shown while a
// risk result is prepared. The heuristic itself is near-instant; the
// simulator enforces a minimum visible processing duration before the
// result is revealed.
package analysis

import (
	"math/rand"
	"sync"
	"time"
)

// State is the simulator's lifecycle. Transitions only ever move forward:
// idle -> pending -> finalizing -> complete, with Stop returning to idle.
type State string

const (
	StateIdle       State = "idle"
	StatePending    State = "pending"
	StateFinalizing State = "finalizing"
	StateComplete   State = "complete"
)

// Config carries the timing knobs. Tests shrink them to keep suites fast.
type Config struct {
	TickInterval    time.Duration
	MinimumDuration time.Duration
	FinalizeHold    time.Duration
}

func DefaultConfig() Config {
	return Config{
		TickInterval:    900 * time.Millisecond,
		MinimumDuration: 10 * time.Second,
		FinalizeHold:    800 * time.Millisecond,
	}
}

const (
	startProgress = 12
	capProgress   = 92
)

// Simulator animates idle -> pending -> finalizing -> complete. Progress
// climbs by a random 5-17 per tick and parks at 92 until finalize, which
// jumps to 100, holds, then completes. Completion never fires before
// MinimumDuration has elapsed since pending began.
type Simulator struct {
	mu  sync.Mutex
	cfg Config
	now func() time.Time

	state     State
	progress  float64
	startedAt time.Time
	rand      *rand.Rand

	// gen invalidates timer callbacks from a previous run; a stale callback
	// must never mutate state after Stop or a restart.
	gen           int
	ticker        *time.Ticker
	tickerStop    chan struct{}
	finalizeTimer *time.Timer
	holdTimer     *time.Timer
	onComplete    func()
}

func NewSimulator(cfg Config) *Simulator {
	return &Simulator{
		cfg:   cfg,
		now:   time.Now,
		state: StateIdle,
		rand:  rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// NewSimulatorWithClock injects a time source for tests.
func NewSimulatorWithClock(cfg Config, now func() time.Time) *Simulator {
	s := NewSimulator(cfg)
	s.now = now
	return s
}

// OnComplete registers a callback fired when the simulator reaches
// complete. Must be set before Start.
func (s *Simulator) OnComplete(fn func()) {
	s.mu.Lock()
	s.onComplete = fn
	s.mu.Unlock()
}

// Start moves idle -> pending and begins the progress ticker.
func (s *Simulator) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateIdle {
		return
	}
	s.state = StatePending
	s.progress = startProgress
	s.startedAt = s.now()
	s.gen++

	gen := s.gen
	s.ticker = time.NewTicker(s.cfg.TickInterval)
	s.tickerStop = make(chan struct{})
	go s.run(s.ticker, s.tickerStop, gen)
}

func (s *Simulator) run(ticker *time.Ticker, stop chan struct{}, gen int) {
	for {
		select {
		case <-ticker.C:
			if !s.tick(gen) {
				return
			}
		case <-stop:
			return
		}
	}
}

// tick advances progress by a random 5-17, capped at 92. It reports false
// once ticking should stop.
func (s *Simulator) tick(gen int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if gen != s.gen || s.state != StatePending {
		return false
	}
	s.progress += 5 + s.rand.Float64()*12
	if s.progress >= capProgress {
		s.progress = capProgress
		s.stopTickerLocked()
		return false
	}
	return true
}

// Finalize requests the transition to complete. If the minimum visible
// duration has not yet elapsed, the jump to 100 is deferred until it has;
// the ~FinalizeHold pause then runs before complete.
func (s *Simulator) Finalize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePending {
		return
	}

	remaining := s.cfg.MinimumDuration - s.now().Sub(s.startedAt)
	gen := s.gen
	if remaining <= 0 {
		s.beginFinalizeLocked(gen)
		return
	}
	s.finalizeTimer = time.AfterFunc(remaining, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if gen != s.gen || s.state != StatePending {
			return
		}
		s.beginFinalizeLocked(gen)
	})
}

func (s *Simulator) beginFinalizeLocked(gen int) {
	s.state = StateFinalizing
	s.progress = 100
	s.stopTickerLocked()
	s.holdTimer = time.AfterFunc(s.cfg.FinalizeHold, func() {
		s.mu.Lock()
		if gen != s.gen || s.state != StateFinalizing {
			s.mu.Unlock()
			return
		}
		s.state = StateComplete
		done := s.onComplete
		s.mu.Unlock()
		if done != nil {
			done()
		}
	})
}

// Stop cancels every outstanding timer and returns to idle. Safe on every
// exit path, including error paths and repeated calls.
func (s *Simulator) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.gen++
	s.stopTickerLocked()
	if s.finalizeTimer != nil {
		s.finalizeTimer.Stop()
		s.finalizeTimer = nil
	}
	if s.holdTimer != nil {
		s.holdTimer.Stop()
		s.holdTimer = nil
	}
	s.state = StateIdle
	s.progress = 0
	s.startedAt = time.Time{}
}

// Snapshot returns the current state and progress percentage.
func (s *Simulator) Snapshot() (State, float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.progress
}

func (s *Simulator) stopTickerLocked() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	if s.tickerStop != nil {
		close(s.tickerStop)
		s.tickerStop = nil
	}
}
