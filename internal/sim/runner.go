package sim

import (
	"sync"
	"time"
)

// Runner drives a Session from a wall-clock ticker. Pausing stops tick
// delivery without touching session state; the session itself has no
// notion of being paused.
type Runner struct {
	session *Session
	ticker  *time.Ticker
	done    chan struct{}
	onEnd   func(*Session)

	mu      sync.Mutex
	paused  bool
	stopped bool
	once    sync.Once
}

// NewRunner wires a session to a ticker at the given interval. onEnd,
// if non-nil, fires exactly once from the runner goroutine after the
// session ends.
func NewRunner(session *Session, interval time.Duration, onEnd func(*Session)) *Runner {
	return &Runner{
		session: session,
		ticker:  time.NewTicker(interval),
		done:    make(chan struct{}),
		onEnd:   onEnd,
	}
}

// Start launches the tick loop. Call at most once.
func (r *Runner) Start() {
	go r.loop()
}

func (r *Runner) loop() {
	for {
		select {
		case <-r.done:
			return
		case <-r.ticker.C:
			if r.isPaused() {
				continue
			}
			r.session.Tick()
			if r.session.Ended() {
				r.fireEnd()
				r.Stop()
				return
			}
		}
	}
}

func (r *Runner) fireEnd() {
	r.once.Do(func() {
		if r.onEnd != nil {
			r.onEnd(r.session)
		}
	})
}

func (r *Runner) isPaused() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.paused
}

func (r *Runner) Pause() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = true
}

func (r *Runner) Resume() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.paused = false
}

// Stop halts tick delivery for good. Safe to call more than once.
func (r *Runner) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	r.ticker.Stop()
	close(r.done)
}
