package syncx

import (
	"github.com/spiretrading/beam-sub006/routine"
)

// RecursiveMutex is a Mutex that tracks its owning routine and an
// acquisition count: re-entrant Lock calls by the routine that already
// holds it take a fast path with no suspension.
type RecursiveMutex struct {
	base  Mutex
	owner *routine.Routine
	count int
}

// Lock acquires the mutex, suspending unless the calling routine
// already owns it.
func (m *RecursiveMutex) Lock() {
	cur := routine.Current()
	m.base.guard.Lock()
	if m.owner == cur && cur != nil {
		m.count++
		m.base.guard.Unlock()
		return
	}
	m.base.guard.Unlock()

	m.base.Lock()

	m.base.guard.Lock()
	m.owner = cur
	m.count = 1
	m.base.guard.Unlock()
}

// TryLock attempts to acquire the mutex without suspending.
func (m *RecursiveMutex) TryLock() bool {
	cur := routine.Current()
	m.base.guard.Lock()
	defer m.base.guard.Unlock()
	if m.owner == cur && cur != nil {
		m.count++
		return true
	}
	if m.base.counter > 0 {
		return false
	}
	m.base.counter = 1
	m.owner = cur
	m.count = 1
	return true
}

// Unlock releases one acquisition level; the mutex is only actually
// released to other waiters once the count reaches zero.
func (m *RecursiveMutex) Unlock() {
	m.base.guard.Lock()
	m.count--
	if m.count > 0 {
		m.base.guard.Unlock()
		return
	}
	m.owner = nil
	m.base.guard.Unlock()
	m.base.Unlock()
}
