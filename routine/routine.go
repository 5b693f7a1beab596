package routine

import (
	"sync/atomic"
)

// Routine is a suspendable unit of work. It owns its own goroutine for
// its entire lifetime: Go's goroutines already are stackful,
// independently-suspendable tasks, so a Routine's "suspend anywhere in
// the call stack" requirement is satisfied by simply letting the
// routine's own goroutine block on a channel at whatever depth it's
// at, rather than reimplementing stack switching. The "worker thread
// pool" the original assumes is re-grounded here as a counting
// semaphore of permits held by the owning Scheduler: a suspended
// routine holds no permit, so an arbitrarily large number of routines
// may be parked at once while only Scheduler.capacity run
// concurrently.
type Routine struct {
	id    uint64
	state atomic.Uint32
	wake  chan struct{}
	done  chan struct{}
	sched *Scheduler
	panic any
}

// ID returns the routine's scheduler-assigned identifier.
func (r *Routine) ID() uint64 { return r.id }

// State returns the routine's current lifecycle state.
func (r *Routine) State() State { return State(r.state.Load()) }

// Done returns a channel closed once the routine's entry function has
// returned or panicked.
func (r *Routine) Done() <-chan struct{} { return r.done }

// Panic returns the recovered panic value, if the routine's entry
// function panicked. Per spec, other routines are unaffected; this is
// exposed for callers (e.g. a servlet container) that want to log or
// inspect it.
func (r *Routine) Panic() any { return r.panic }

// resume marks a Suspended (or not-yet-parked PendingSuspend) routine
// as ready and, if it was genuinely parked, pushes it back onto its
// scheduler's ready queue. Safe to call from any goroutine.
func (r *Routine) resume() {
	if r.state.CompareAndSwap(uint32(Suspended), uint32(Pending)) {
		r.sched.admit(r)
		return
	}
	// Racing with the routine's own park(): it has marked itself
	// PendingSuspend and enrolled its resume handle, but has not yet
	// called park(). Flip directly to Pending; park()'s own CAS will
	// then fail and it will continue running without ever releasing
	// its worker slot (a no-op yield), per spec.md §4.1 and §9.
	r.state.CompareAndSwap(uint32(PendingSuspend), uint32(Pending))
}

// park is the low-level suspend primitive: it blocks the calling
// routine's goroutine until resume() grants it a fresh worker slot.
// Callers (the Suspend family in suspend.go) are responsible for
// having already set state to PendingSuspend and enrolled a resume
// handle in whatever structure resume() will observe, and for having
// released the caller's own locks before calling park.
func (r *Routine) park() {
	if r.state.CompareAndSwap(uint32(PendingSuspend), uint32(Suspended)) {
		r.sched.releasePermit()
		<-r.wake
	}
	r.state.Store(uint32(Running))
}
