package bootstrap

import (
	"sync"
	"time"
)

// CrashWatch polls a Handle for a panic. Each tick reschedules the next one
// only after its own check finished, so checks never overlap. The loop ends
// on the first observed panic or on Stop.
type CrashWatch struct {
	handle   Handle
	clock    Clock
	interval time.Duration
	onPanic  func(message, callstack string)

	mu      sync.Mutex
	timer   Timer
	ticks   int
	stopped bool
}

func NewCrashWatch(handle Handle, clock Clock, interval time.Duration, onPanic func(message, callstack string)) *CrashWatch {
	return &CrashWatch{handle: handle, clock: clock, interval: interval, onPanic: onPanic}
}

// Start performs the first check synchronously.
func (w *CrashWatch) Start() {
	w.tick()
}

func (w *CrashWatch) tick() {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return
	}
	w.ticks++
	if !w.handle.HasPanicked() {
		w.timer = w.clock.AfterFunc(w.interval, w.tick)
		w.mu.Unlock()
		return
	}
	w.stopped = true
	w.timer = nil
	w.mu.Unlock()

	w.onPanic(w.handle.PanicMessage(), w.handle.PanicCallstack())
}

// Stop cancels the pending tick, if any.
func (w *CrashWatch) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.stopped = true
	if w.timer != nil {
		w.timer.Stop()
		w.timer = nil
	}
}

// Ticks returns how many checks have run.
func (w *CrashWatch) Ticks() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.ticks
}

func (w *CrashWatch) Running() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return !w.stopped
}
