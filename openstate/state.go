// Package openstate implements the lifecycle gate shared by every Beam
// I/O resource: an atomic CLOSED -> OPENING -> OPEN -> CLOSING -> CLOSED
// state machine paired with a one-shot recorded failure.
//
// The CAS-on-atomic.Uint64 technique is the same one a cooperative
// scheduler uses to track its own run state: a single padded word,
// compare-and-swapped between named phases, with helpers for
// "first caller wins" transitions.
package openstate

import (
	"sync/atomic"

	"github.com/spiretrading/beam-sub006/beamerr"
)

// Phase is one value of the OpenState lifecycle.
type Phase uint64

const (
	Closed Phase = iota
	Opening
	Open
	Closing
)

func (p Phase) String() string {
	switch p {
	case Closed:
		return "closed"
	case Opening:
		return "opening"
	case Open:
		return "open"
	case Closing:
		return "closing"
	default:
		return "unknown"
	}
}

// State is the atomic OpenState gate. The zero value is a valid,
// freshly constructed CLOSED state.
//
// The hot atomic word is padded onto its own cache line, the same way
// the reference event loop pads its FastState.
type State struct {
	_       [64]byte
	phase   atomic.Uint64
	_       [56]byte
	failure atomic.Pointer[error]
}

// NewState returns a freshly constructed, CLOSED State.
func NewState() *State {
	return &State{}
}

// Load returns the current phase.
func (s *State) Load() Phase {
	return Phase(s.phase.Load())
}

// IsOpen reports whether the state is currently OPEN.
func (s *State) IsOpen() bool {
	return s.Load() == Open
}

// SetOpening transitions CLOSED -> OPENING. Returns true if this call
// performed the transition (i.e. the caller is the one responsible for
// opening the resource).
func (s *State) SetOpening() bool {
	return s.phase.CompareAndSwap(uint64(Closed), uint64(Opening))
}

// SetOpen transitions OPENING -> OPEN. Returns true if this call
// performed the transition.
func (s *State) SetOpen() bool {
	return s.phase.CompareAndSwap(uint64(Opening), uint64(Open))
}

// SetOpenFailure records e as the open-failure cause and transitions
// OPENING -> CLOSED directly (the resource never reached OPEN).
// Returns true if this call performed the transition. If another
// caller already recorded a failure or completed the open, the
// existing failure (if any) is left untouched.
func (s *State) SetOpenFailure(e error) bool {
	if e != nil {
		s.failure.CompareAndSwap(nil, &e)
	}
	return s.phase.CompareAndSwap(uint64(Opening), uint64(Closed))
}

// SetClosing transitions OPEN -> CLOSING (or OPENING -> CLOSING, for a
// resource asked to close before it finished opening). Returns true if
// the caller was the first to initiate the transition; callers use
// this to serialize shutdown to exactly one goroutine/routine.
func (s *State) SetClosing() bool {
	if s.phase.CompareAndSwap(uint64(Open), uint64(Closing)) {
		return true
	}
	return s.phase.CompareAndSwap(uint64(Opening), uint64(Closing))
}

// SetClosed transitions CLOSING -> CLOSED. Idempotent: if the state is
// already CLOSED this is a no-op and returns false. Safe to call
// without having observed SetClosing succeed, because CLOSING is the
// only non-terminal predecessor from which CLOSED is reachable other
// than the never-opened CLOSED start state.
func (s *State) SetClosed() bool {
	return s.phase.CompareAndSwap(uint64(Closing), uint64(Closed))
}

// Failure returns the recorded open-failure cause, if any.
func (s *State) Failure() error {
	if p := s.failure.Load(); p != nil {
		return *p
	}
	return nil
}

// EnsureOpen returns nil if the state is OPEN, otherwise a
// *beamerr.NotOpen wrapping the recorded failure cause (if any).
func (s *State) EnsureOpen() error {
	if s.IsOpen() {
		return nil
	}
	return &beamerr.NotOpen{Cause: s.Failure()}
}
