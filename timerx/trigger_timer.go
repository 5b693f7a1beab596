package timerx

import (
	"sync"

	"github.com/spiretrading/beam-sub006/queuex"
	"github.com/spiretrading/beam-sub006/syncx"
)

type triggerState int

const (
	triggerIdle triggerState = iota
	triggerStarted
	triggerPreTriggered
)

// TriggerTimer expires only when explicitly Triggered (or Failed), ported
// from TriggerTimer.hpp's idle/started/pre-triggered state machine. A
// Trigger or Fail call that arrives before Start is remembered and
// delivered as soon as Start runs, rather than being lost.
type TriggerTimer struct {
	mu        sync.Mutex
	state     triggerState
	result    Result
	trigger   syncx.ConditionVariable
	publisher queuex.Publisher[Result]
}

// NewTriggerTimer constructs an idle TriggerTimer.
func NewTriggerTimer() *TriggerTimer {
	return &TriggerTimer{}
}

// Trigger marks the timer to expire with Expired, publishing immediately
// if already started, or remembering the outcome for the next Start.
func (t *TriggerTimer) Trigger() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = Expired
	t.resolveLocked()
}

// Fail marks the timer to expire with Fail, with the same pre-Start
// buffering behaviour as Trigger.
func (t *TriggerTimer) Fail() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.result = Fail
	t.resolveLocked()
}

func (t *TriggerTimer) resolveLocked() {
	switch t.state {
	case triggerIdle:
		t.state = triggerPreTriggered
	case triggerStarted:
		t.publishLocked()
	}
}

// Start arms the timer to await a Trigger/Fail, or immediately publishes
// the remembered outcome if one arrived before Start was called.
func (t *TriggerTimer) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case triggerIdle:
		t.state = triggerStarted
	case triggerPreTriggered:
		t.publishLocked()
	}
}

// Cancel stops the current cycle, publishing Canceled if the timer was
// waiting on a Trigger, or replaying whatever outcome was pending.
func (t *TriggerTimer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.state {
	case triggerIdle:
		t.state = triggerStarted
	case triggerStarted:
		t.result = Canceled
		t.publishLocked()
	case triggerPreTriggered:
		t.publishLocked()
	}
}

// Wait suspends the calling routine until the current cycle resolves.
func (t *TriggerTimer) Wait() {
	t.mu.Lock()
	defer t.mu.Unlock()
	for t.state != triggerIdle {
		t.trigger.Wait(&t.mu)
	}
}

func (t *TriggerTimer) publishLocked() {
	t.publisher.Push(t.result)
	t.state = triggerIdle
	t.trigger.NotifyAll()
}

// Publisher returns the Result publisher, to which QueueWriters may be
// attached via queuex.Publisher.With/WithWriter.
func (t *TriggerTimer) Publisher() *queuex.Publisher[Result] {
	return &t.publisher
}
