package syncx

import (
	"runtime"
	"sync/atomic"
)

// SpinMutex is a non-suspending mutex for guards known to be held for
// only a handful of instructions — e.g. inside the scheduler itself,
// where suspending the current routine to wait on another lock would
// be absurd overhead. It never enrolls a waiter and never touches
// routine.Current.
//
// Go exposes no portable CPU-pause intrinsic outside the runtime's own
// internals (sync.Mutex's spin path isn't importable), so the
// ecosystem substitute for the reference's x86 PAUSE instruction is a
// bounded busy-spin followed by runtime.Gosched, which yields the P to
// another goroutine instead of wasting the pause cycles in kernel
// contention.
type SpinMutex struct {
	locked atomic.Bool
}

// Lock spins until the mutex is acquired.
func (s *SpinMutex) Lock() {
	spins := 0
	for !s.locked.CompareAndSwap(false, true) {
		spins++
		if spins > 64 {
			runtime.Gosched()
			spins = 0
		}
	}
}

// TryLock attempts to acquire the mutex without spinning.
func (s *SpinMutex) TryLock() bool {
	return s.locked.CompareAndSwap(false, true)
}

// Unlock releases the mutex.
func (s *SpinMutex) Unlock() {
	s.locked.Store(false)
}
