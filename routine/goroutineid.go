package routine

import (
	"runtime"
	"sync"
)

// getGoroutineID returns the current goroutine's runtime ID, parsed
// out of runtime.Stack's "goroutine N [...]" header the same way the
// reference event loop identifies its own loop goroutine.
func getGoroutineID() uint64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	var id uint64
	for i := len("goroutine "); i < n; i++ {
		if buf[i] >= '0' && buf[i] <= '9' {
			id = id*10 + uint64(buf[i]-'0')
		} else {
			break
		}
	}
	return id
}

// currentByGoroutine maps the runtime goroutine ID a Routine happens
// to be executing on back to the Routine itself. Each Routine owns one
// goroutine for its entire lifetime (see Scheduler.Spawn), so this is
// a stable 1:1 mapping from the moment the routine starts running
// until it completes.
var currentByGoroutine sync.Map // map[uint64]*Routine

func registerCurrent(r *Routine) {
	currentByGoroutine.Store(getGoroutineID(), r)
}

func unregisterCurrent() {
	currentByGoroutine.Delete(getGoroutineID())
}

// Current returns the Routine executing on the calling goroutine, or
// nil if the calling goroutine is not a routine's goroutine (i.e. an
// ordinary OS-thread-equivalent caller, external to the scheduler).
func Current() *Routine {
	v, ok := currentByGoroutine.Load(getGoroutineID())
	if !ok {
		return nil
	}
	return v.(*Routine)
}

// IsInsideRoutine reports whether the calling goroutine is currently
// executing as a Routine. Used by primitives that must distinguish
// suspend-by-yield from an OS-thread block.
func IsInsideRoutine() bool {
	return Current() != nil
}
