package queuex

import "github.com/spiretrading/beam-sub006/syncx"

// AggregateQueueReader combines several Source[T] queues into a single
// Reader[T], popping from whichever source becomes available first. Ported
// from AggregateQueueReader, whose Pop() blocks on Threading::Wait across
// all member queues; here that is syncx.WaitAny across each source's
// enrolled wait token.
type AggregateQueueReader[T any] struct {
	queues []Source[T]
}

// NewAggregateQueueReader constructs an AggregateQueueReader over queues.
func NewAggregateQueueReader[T any](queues []Source[T]) *AggregateQueueReader[T] {
	return &AggregateQueueReader[T]{queues: append([]Source[T](nil), queues...)}
}

// IsEmpty reports whether every aggregated queue is empty.
func (a *AggregateQueueReader[T]) IsEmpty() bool {
	for _, q := range a.queues {
		if !q.IsEmpty() {
			return false
		}
	}
	return true
}

// IsAvailable reports whether any aggregated queue would pop immediately.
func (a *AggregateQueueReader[T]) IsAvailable() bool {
	for _, q := range a.queues {
		if q.IsAvailable() {
			return true
		}
	}
	return false
}

// Break breaks every aggregated queue with the same cause.
func (a *AggregateQueueReader[T]) Break(err error) {
	for _, q := range a.queues {
		q.Break(err)
	}
}

// Pop suspends until at least one aggregated queue is available, then pops
// and returns a value from it. A queue that has broken with an empty buffer
// never preempts a sibling that still holds data: the aggregate only
// surfaces a break once every member has broken and drained, matching
// AggregateQueueReader's "all-sources-exhausted" termination.
func (a *AggregateQueueReader[T]) Pop() (T, error) {
	for {
		if idx, ok := a.firstWithData(); ok {
			return a.queues[idx].Pop()
		}
		pending := a.pendingSources()
		if len(pending) == 0 {
			idx, _ := a.firstBrokenDrained()
			return a.queues[idx].Pop()
		}
		syncx.WaitAny(pending...)
	}
}

// firstWithData returns the index of the first aggregated queue holding an
// actual value, as opposed to being available only because it broke with an
// empty buffer.
func (a *AggregateQueueReader[T]) firstWithData() (int, bool) {
	for i, q := range a.queues {
		if q.IsAvailable() && !q.IsEmpty() {
			return i, true
		}
	}
	return 0, false
}

// firstBrokenDrained returns the index of the first aggregated queue that
// has broken with nothing left to pop.
func (a *AggregateQueueReader[T]) firstBrokenDrained() (int, bool) {
	for i, q := range a.queues {
		if q.IsEmpty() && q.IsAvailable() {
			return i, true
		}
	}
	return 0, false
}

// pendingSources returns wait sources for every queue that has not yet
// broken and drained, so a queue that's already broken and empty never
// monopolizes WaitAny while a sibling could still produce values.
func (a *AggregateQueueReader[T]) pendingSources() []syncx.WaitSource {
	var pending []syncx.WaitSource
	for _, q := range a.queues {
		if !(q.IsEmpty() && q.IsAvailable()) {
			pending = append(pending, q.waitSource())
		}
	}
	return pending
}
