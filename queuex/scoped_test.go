package queuex_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spiretrading/beam-sub006/beamerr"
	"github.com/spiretrading/beam-sub006/queuex"
	"github.com/spiretrading/beam-sub006/routine"
)

func TestScopedQueueReaderCloseBreaksWithPipeBroken(t *testing.T) {
	q := queuex.NewQueue[int]()
	reader := queuex.NewScopedQueueReader[int](q)

	q.Push(1)
	require.NoError(t, reader.Close())

	sched := routine.NewScheduler(1)
	done := make(chan error, 1)
	sched.Spawn(func(r *routine.Routine) {
		_, err := reader.Pop()
		done <- err
	})
	require.NoError(t, <-done)

	sched.Spawn(func(r *routine.Routine) {
		_, err := reader.Pop()
		done <- err
	})
	var broken *beamerr.PipeBroken
	require.ErrorAs(t, <-done, &broken)
	require.Nil(t, broken.Cause)
}

func TestScopedQueueWriterCloseBreaksUnderlying(t *testing.T) {
	q := queuex.NewQueue[int]()
	writer := queuex.NewScopedQueueWriter[int](q)

	require.NoError(t, writer.Close())
	writer.Push(1) // silently dropped per Writer contract

	require.True(t, q.IsAvailable())
	val, err := q.Pop()
	require.Zero(t, val)
	var broken *beamerr.PipeBroken
	require.ErrorAs(t, err, &broken)
	require.Nil(t, broken.Cause)
}
