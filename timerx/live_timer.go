package timerx

import (
	"sync"
	"time"

	"github.com/spiretrading/beam-sub006/queuex"
	"github.com/spiretrading/beam-sub006/syncx"
)

// LiveTimer expires after a fixed interval, ported from LiveTimer.hpp's
// boost::asio::deadline_timer wrapper. time.AfterFunc is the stdlib
// equivalent of deadline_timer.async_wait: both schedule a single callback
// on an independent clock-driven goroutine/thread, which is exactly what a
// free-standing, non-loop-owned timer needs - there's no shared event loop
// here for a timerHeap to belong to, so reaching for one would just be
// reimplementing what the runtime's own timer already does.
//
// The guard is a plain sync.Mutex, not syncx.Mutex: the AfterFunc callback
// fires on a runtime timer goroutine that was never admitted through
// routine.Scheduler, so it cannot participate in routine suspension. Only
// Wait needs to cooperatively suspend the calling routine, and
// syncx.ConditionVariable.Wait already does that independently of the
// external guard's type.
type LiveTimer struct {
	mu        sync.Mutex
	interval  time.Duration
	pending   bool
	inner     *time.Timer
	trigger   syncx.ConditionVariable
	publisher queuex.Publisher[Result]
}

// NewLiveTimer constructs a LiveTimer that expires interval after Start.
func NewLiveTimer(interval time.Duration) *LiveTimer {
	return &LiveTimer{interval: interval}
}

// Start arms the timer. A no-op if already pending, matching the
// reference's "restart while running is a no-op" open question resolution.
func (t *LiveTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.pending {
		return
	}
	t.pending = true
	t.inner = time.AfterFunc(t.interval, func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		if !t.pending {
			return
		}
		t.pending = false
		t.publisher.Push(Expired)
		t.trigger.NotifyAll()
	})
}

// Cancel stops a pending timer, publishing Canceled, and blocks the caller
// until any in-flight expiry callback has finished running.
func (t *LiveTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.pending {
		return
	}
	if t.inner.Stop() {
		t.pending = false
		t.publisher.Push(Canceled)
		t.trigger.NotifyAll()
		return
	}
	// The callback already fired (or is running); wait for it to finish
	// clearing t.pending rather than racing its own notify.
	for t.pending {
		t.trigger.Wait(&t.mu)
	}
}

// Wait suspends the calling routine until the current start cycle ends.
func (t *LiveTimer) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.pending {
		t.trigger.Wait(&t.mu)
	}
}

// Publisher returns the Result publisher, to which QueueWriters may be
// attached via queuex.Publisher.With/WithWriter.
func (t *LiveTimer) Publisher() *queuex.Publisher[Result] {
	return &t.publisher
}
