package syncx

import (
	"sync"

	"github.com/spiretrading/beam-sub006/routine"
)

// Waitable is the base join point used by queues, timers, and servers:
// it owns a mutex and an intrusive waiter queue, and exposes Wait
// (block until available), NotifyOne, and NotifyAll. Embedders must
// call NotifyOne/NotifyAll while holding the same mutex (Mutex())
// that guards their own availability predicate — exactly the
// discipline Beam/Threading/Waitable.hpp documents.
type Waitable struct {
	mu      sync.Mutex
	waiters routine.SuspendedRoutineQueue[struct{}]
}

// Mutex returns the mutex guarding this Waitable's availability
// predicate. Embedding types lock it before mutating their predicate
// and before calling NotifyOne/NotifyAll.
func (w *Waitable) Mutex() *sync.Mutex { return &w.mu }

// Wait blocks the current routine until isAvailable() reports true,
// rechecking after every wake (spec.md §4.3: "while !is_available():
// cv.wait(lock)"). The caller must hold w.Mutex() on entry; Wait
// releases and reacquires it internally and returns with it held
// again.
func (w *Waitable) Wait(isAvailable func() bool) {
	for !isAvailable() {
		routine.SuspendUnkeyed(&w.waiters, &w.mu)
		w.mu.Lock()
	}
}

// NotifyOne wakes the single longest-waiting routine, if any. Caller
// must hold w.Mutex().
func (w *Waitable) NotifyOne() { routine.ResumeFront(&w.waiters) }

// NotifyAll wakes every currently-waiting routine. Caller must hold
// w.Mutex().
func (w *Waitable) NotifyAll() { routine.Resume(&w.waiters) }

// WaitSource pairs a Waitable with its owner's availability check, for
// use with WaitAny.
type WaitSource struct {
	W           *Waitable
	IsAvailable func() bool
}

// WaitAny blocks the current routine until at least one of the given
// objects is available and returns its index — the "availability
// token identifies the winning object" multi-waiter pattern spec.md
// §4.3 describes, used by AggregateQueueReader and by timeout-composed
// reads (Wait(reader, timer)).
//
// Each object's own mutex is held only one at a time, never
// simultaneously across objects, to avoid imposing a lock order
// between otherwise-unrelated Waitables.
func WaitAny(objects ...WaitSource) int {
	for {
		r := routine.BeginSuspend()

		for _, o := range objects {
			o.W.mu.Lock()
			routine.Enroll(&o.W.waiters, struct{}{})
			o.W.mu.Unlock()
		}

		// Re-check after enrolling: a producer that mutated its
		// predicate and notified before we enrolled would have found
		// an empty queue; this pass catches that "already available"
		// case under the same per-object lock a real notify would use,
		// so no wakeup is lost either way.
		winner := -1
		for i, o := range objects {
			o.W.mu.Lock()
			if o.IsAvailable() {
				winner = i
			}
			o.W.mu.Unlock()
			if winner >= 0 {
				break
			}
		}

		if winner >= 0 {
			for _, o := range objects {
				o.W.mu.Lock()
				routine.Unenroll(&o.W.waiters)
				o.W.mu.Unlock()
			}
			routine.CancelSuspend(r)
			return winner
		}

		routine.FinishSuspend(r)

		// Unenroll from every object before returning, even after the
		// winner is found: leaving a node enrolled on a trailing object
		// lets a later NotifyOne on it pop a stale front node and no-op,
		// starving whatever routine actually waits there next.
		woke := -1
		for i, o := range objects {
			o.W.mu.Lock()
			stillAvailable := o.IsAvailable()
			routine.Unenroll(&o.W.waiters)
			o.W.mu.Unlock()
			if stillAvailable && woke < 0 {
				woke = i
			}
		}
		if woke >= 0 {
			return woke
		}
		// Spurious wake (e.g. a different object on one of our shared
		// queues fired and our node happened to also be present due
		// to reuse) with nothing actually ready: loop and retry.
	}
}
