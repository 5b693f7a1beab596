// Package syncx implements Beam's suspension-aware synchronization
// primitives: Mutex, RecursiveMutex, ConditionVariable, Waitable, and
// SpinMutex. Unlike sync.Mutex, every blocking operation here except
// SpinMutex.Lock (which spins) suspends the calling routine.Routine
// (see package routine) rather than the OS thread — a routine that would otherwise deadlock a worker slot for
// the duration of the wait instead parks cheaply and frees its slot
// for other routines.
//
// All suspending primitives here follow the same discipline: acquire
// an internal guard, test the predicate, and only if it isn't already
// satisfied enroll the current routine on a
// routine.SuspendedRoutineQueue and call routine.Suspend while
// releasing the guard — never the other way around.
package syncx

import (
	"sync"

	"github.com/spiretrading/beam-sub006/routine"
)

// Mutex is a fair mutex with FIFO waiter wake order. It must only be
// locked and unlocked from within a routine.Routine.
type Mutex struct {
	guard   sync.Mutex
	counter int
	waiters routine.SuspendedRoutineQueue[struct{}]
}

// Lock blocks the calling routine until the mutex is acquired.
func (m *Mutex) Lock() {
	m.guard.Lock()
	m.counter++
	if m.counter > 1 {
		// guard is released, in reverse order, by Suspend itself.
		routine.SuspendUnkeyed(&m.waiters, &m.guard)
		return
	}
	m.guard.Unlock()
}

// TryLock attempts to acquire the mutex without suspending. It never
// enrolls a waiter.
func (m *Mutex) TryLock() bool {
	m.guard.Lock()
	defer m.guard.Unlock()
	if m.counter > 0 {
		return false
	}
	m.counter = 1
	return true
}

// Unlock releases the mutex, waking the longest-waiting routine if
// any, in FIFO order.
func (m *Mutex) Unlock() {
	m.guard.Lock()
	m.counter--
	if m.counter == 0 {
		m.guard.Unlock()
		return
	}
	resumed := routine.ResumeFront(&m.waiters)
	m.guard.Unlock()
	if !resumed {
		panic("syncx: Mutex.Unlock: counter indicates a waiter but none enrolled")
	}
}

// Destroy panics if the mutex is held or has waiters, mirroring the
// reference implementation's destructor assertion that the counter
// must be zero.
func (m *Mutex) Destroy() {
	m.guard.Lock()
	defer m.guard.Unlock()
	if m.counter != 0 {
		panic("syncx: Mutex destroyed while locked or with pending waiters")
	}
}
