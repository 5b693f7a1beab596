package syncx

import (
	"sync"

	"github.com/spiretrading/beam-sub006/routine"
)

// ConditionVariable suspends the current routine until notified,
// grounded directly on Beam/Threading/ConditionVariable.hpp: wait
// releases the caller's own lock(s) (in reverse order, alongside the
// condition variable's internal guard) before parking, and the
// waiter's locks are reacquired, in forward order, once it resumes.
type ConditionVariable struct {
	guard   sync.Mutex
	waiters routine.SuspendedRoutineQueue[struct{}]
}

// Wait suspends the current routine until a notification is received,
// releasing locks (in reverse order, alongside the condition
// variable's own internal guard) before parking, and reacquiring them
// (in forward order) before returning.
func (c *ConditionVariable) Wait(locks ...sync.Locker) {
	c.guard.Lock()

	toRelease := make([]routine.Locker, 0, len(locks)+1)
	toRelease = append(toRelease, &c.guard)
	for _, l := range locks {
		toRelease = append(toRelease, l)
	}

	routine.SuspendUnkeyed(&c.waiters, toRelease...)

	for _, l := range locks {
		l.Lock()
	}
}

// NotifyOne wakes the single longest-waiting routine, if any.
func (c *ConditionVariable) NotifyOne() {
	c.guard.Lock()
	routine.ResumeFront(&c.waiters)
	c.guard.Unlock()
}

// NotifyAll wakes every currently-waiting routine.
func (c *ConditionVariable) NotifyAll() {
	c.guard.Lock()
	routine.Resume(&c.waiters)
	c.guard.Unlock()
}
