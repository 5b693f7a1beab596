package queuex

import "github.com/spiretrading/beam-sub006/syncx"

// ConverterReader adapts a Source[S] to a Reader[T] by applying convert to
// each popped value, grounded on ConverterReaderQueue from the reference.
type ConverterReader[T, S any] struct {
	source  Source[S]
	convert func(S) T
}

// NewConverterReader constructs a ConverterReader over source.
func NewConverterReader[T, S any](source Source[S], convert func(S) T) *ConverterReader[T, S] {
	return &ConverterReader[T, S]{source: source, convert: convert}
}

func (c *ConverterReader[T, S]) IsEmpty() bool     { return c.source.IsEmpty() }
func (c *ConverterReader[T, S]) IsAvailable() bool { return c.source.IsAvailable() }
func (c *ConverterReader[T, S]) Break(err error)   { c.source.Break(err) }

// Pop converts and returns the next value from the source queue.
func (c *ConverterReader[T, S]) Pop() (T, error) {
	value, err := c.source.Pop()
	if err != nil {
		var zero T
		return zero, err
	}
	return c.convert(value), nil
}

func (c *ConverterReader[T, S]) waitSource() syncx.WaitSource {
	return c.source.waitSource()
}

// ConverterWriter adapts a Writer[T] to accept pushes of type S by applying
// convert before forwarding, grounded on ConverterWriterQueue.
type ConverterWriter[S, T any] struct {
	target  Writer[T]
	convert func(S) T
}

// NewConverterWriter constructs a ConverterWriter pushing converted values
// onto target.
func NewConverterWriter[S, T any](target Writer[T], convert func(S) T) *ConverterWriter[S, T] {
	return &ConverterWriter[S, T]{target: target, convert: convert}
}

func (c *ConverterWriter[S, T]) Push(value S)    { c.target.Push(c.convert(value)) }
func (c *ConverterWriter[S, T]) Break(err error) { c.target.Break(err) }

// NewTaskConverterWriter bundles a payload type S with a handler, so that
// pushing an S onto the returned writer schedules task(value) as a
// zero-argument closure on target - the Go analogue of
// MakeTaskConverterQueue, typically paired with a Queue[func()] consumed by
// a dedicated dispatch routine.
func NewTaskConverterWriter[S any](target Writer[func()], task func(S)) *ConverterWriter[S, func()] {
	return NewConverterWriter[S, func()](target, func(value S) func() {
		return func() { task(value) }
	})
}
