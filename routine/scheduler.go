// Package routine implements the cooperative routine (user-space task)
// scheduler: a fixed pool of worker slots multiplexing a potentially
// much larger number of suspendable Routines, plus the suspended-
// routine queue primitives (Suspend/ResumeFront/Resume/
// ResumeFirstMatch/ResumeAllMatches) that every L2 synchronization
// primitive in syncx builds on.
package routine

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/joeycumines/go-catrate"
)

// Scheduler is a fixed-capacity pool of worker slots running
// cooperatively scheduled Routines. A lazily created process-wide
// instance is returned by Default(); most applications need only one.
// servlet.Container accepts an explicit *Scheduler (WithScheduler) and
// falls back to Default() otherwise; LiveTimer and the TCP types take
// no Scheduler at all.
type Scheduler struct {
	capacity int
	permits  chan struct{}
	ready    *readyQueue
	nextID   atomic.Uint64

	limiter         *catrate.Limiter
	limiterCategory any

	closeOnce sync.Once
}

// Option configures a Scheduler at construction.
type Option interface {
	apply(*Scheduler)
}

type optionFunc func(*Scheduler)

func (f optionFunc) apply(s *Scheduler) { f(s) }

// WithSpawnRateLimit throttles Spawn admission using a sliding-window
// rate limiter: every call to Spawn first checks limiter.Allow(category)
// and, if the caller has exceeded the configured rates, sleeps until
// the next allowed instant before enrolling the routine. This protects
// the worker pool from unbounded spawn bursts (spec.md §2: "tens of
// thousands of logical tasks share a small worker pool") without
// rejecting any spawn outright — spawn() remains unconditional per
// spec.md §4.1, just delayed.
func WithSpawnRateLimit(rates map[time.Duration]int, category any) Option {
	return optionFunc(func(s *Scheduler) {
		s.limiter = catrate.NewLimiter(rates)
		s.limiterCategory = category
	})
}

// NewScheduler constructs a Scheduler with the given worker capacity
// (values below 1 are treated as 1) and starts its dispatcher goroutine.
func NewScheduler(capacity int, opts ...Option) *Scheduler {
	if capacity < 1 {
		capacity = 1
	}
	s := &Scheduler{
		capacity: capacity,
		permits:  make(chan struct{}, capacity),
		ready:    newReadyQueue(),
	}
	for i := 0; i < capacity; i++ {
		s.permits <- struct{}{}
	}
	for _, opt := range opts {
		if opt != nil {
			opt.apply(s)
		}
	}
	go s.dispatch()
	return s
}

var defaultScheduler struct {
	once sync.Once
	s    *Scheduler
}

// Default returns the lazily-initialized, process-wide default
// Scheduler, sized to GOMAXPROCS, matching spec.md §3's "initialized
// lazily at first use" Scheduler lifecycle.
func Default() *Scheduler {
	defaultScheduler.once.Do(func() {
		defaultScheduler.s = NewScheduler(runtime.GOMAXPROCS(0))
	})
	return defaultScheduler.s
}

// Capacity returns the number of routines this Scheduler runs
// concurrently.
func (s *Scheduler) Capacity() int { return s.capacity }

// Spawn registers a new routine and eventually runs fn on some worker.
// fn receives the Routine it is running as, for use with Suspend-
// family helpers that need to enroll it.
func (s *Scheduler) Spawn(fn func(r *Routine)) *Routine {
	if s.limiter != nil {
		if next, ok := s.limiter.Allow(s.limiterCategory); !ok {
			if d := time.Until(next); d > 0 {
				time.Sleep(d)
			}
		}
	}

	r := &Routine{
		id:    s.nextID.Add(1),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
		sched: s,
	}
	r.state.Store(uint32(Pending))

	go func() {
		<-r.wake
		registerCurrent(r)
		r.state.Store(uint32(Running))
		defer func() {
			if p := recover(); p != nil {
				r.panic = p
			}
			unregisterCurrent()
			r.state.Store(uint32(Complete))
			s.releasePermit()
			close(r.done)
		}()
		fn(r)
	}()

	s.admit(r)
	return r
}

// admit pushes r onto the ready queue; the dispatcher will grant it a
// worker permit in FIFO order.
func (s *Scheduler) admit(r *Routine) {
	s.ready.push(r)
}

func (s *Scheduler) releasePermit() {
	s.permits <- struct{}{}
}

// dispatch is the single goroutine that pairs ready routines with
// free worker permits, in ready-queue order: spec.md §4.1's "each
// worker thread ... pops the next ready routine and resumes it".
func (s *Scheduler) dispatch() {
	for {
		r := s.ready.popBlocking()
		if r == nil {
			return
		}
		<-s.permits
		r.wake <- struct{}{}
	}
}

// Shutdown stops accepting new admissions. Routines already spawned
// or suspended are not forcibly unwound: per spec.md §4.1, there is no
// external cancellation, only closing the resource a routine is
// blocked on.
func (s *Scheduler) Shutdown() {
	s.closeOnce.Do(func() {
		s.ready.close()
	})
}
