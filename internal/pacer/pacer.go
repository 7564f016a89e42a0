package pacer

import (
	"math/rand"
	"sync"
	"time"
)

// Config holds pacing intervals.
type Config struct {
	Interval     time.Duration // Minimum gap between outbound requests
	SlowInterval time.Duration // Gap enforced while a cool-down is active
	JitterMax    time.Duration // Upper bound of the uniform random jitter
}

// Pacer owns the process-wide pacing state for the upstream provider. It is
// safe for concurrent use; when batches are fetched in parallel the mutex
// serializes access so the interval guarantee still holds.
type Pacer struct {
	cfg Config

	mu        sync.Mutex
	lastCall  time.Time
	slowUntil time.Time

	// Injectable for deterministic tests.
	now   func() time.Time
	sleep func(time.Duration)
}

// New creates a Pacer with the wall clock.
func New(cfg Config) *Pacer {
	return &Pacer{
		cfg:   cfg,
		now:   time.Now,
		sleep: time.Sleep,
	}
}

// NewWithClock creates a Pacer with injected time functions for tests.
func NewWithClock(cfg Config, now func() time.Time, sleep func(time.Duration)) *Pacer {
	return &Pacer{cfg: cfg, now: now, sleep: sleep}
}

// Wait blocks until it is safe to issue the next outbound request. The
// required delay is the base interval, raised to the slow interval while a
// cool-down is active, plus a small random jitter so this process does not
// fall into lockstep with other consumers of the same upstream. The last-call
// timestamp is updated after sleeping, so it strictly increases across calls.
func (p *Pacer) Wait() {
	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	delay := p.cfg.Interval
	if now.Before(p.slowUntil) {
		delay = max(delay, p.cfg.SlowInterval)
	}

	if need := delay - now.Sub(p.lastCall); need > 0 {
		p.sleep(need + p.jitter())
	}
	p.lastCall = p.now()
}

// Slowdown extends the shared cool-down window. Cool-downs never shorten an
// existing one.
func (p *Pacer) Slowdown(d time.Duration) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if until := p.now().Add(d); until.After(p.slowUntil) {
		p.slowUntil = until
	}
}

// SlowInterval returns the adaptive interval, used as the pause after a
// ticker is dropped at singleton granularity.
func (p *Pacer) SlowInterval() time.Duration {
	return p.cfg.SlowInterval
}

func (p *Pacer) jitter() time.Duration {
	if p.cfg.JitterMax <= 0 {
		return 0
	}
	return time.Duration(rand.Int63n(int64(p.cfg.JitterMax)))
}
