package queuex_test

import (
	"errors"
	"testing"
	"time"

	"github.com/spiretrading/beam-sub006/beamerr"
	"github.com/spiretrading/beam-sub006/queuex"
	"github.com/spiretrading/beam-sub006/routine"
	"github.com/stretchr/testify/require"
)

func TestQueuePushPop(t *testing.T) {
	q := queuex.NewQueue[int]()
	q.Push(1)
	q.Push(2)
	require.False(t, q.IsEmpty())

	v, err := q.Pop()
	require.NoError(t, err)
	require.Equal(t, 1, v)

	v, err = q.Pop()
	require.NoError(t, err)
	require.Equal(t, 2, v)

	require.True(t, q.IsEmpty())
}

func TestQueuePopBlocksUntilPush(t *testing.T) {
	sched := routine.NewScheduler(2)
	q := queuex.NewQueue[string]()
	result := make(chan string, 1)

	sched.Spawn(func(self *routine.Routine) {
		v, err := q.Pop()
		require.NoError(t, err)
		result <- v
	})

	select {
	case <-result:
		t.Fatal("should still be blocked on an empty queue")
	case <-time.After(30 * time.Millisecond):
	}

	q.Push("hello")
	select {
	case v := <-result:
		require.Equal(t, "hello", v)
	case <-time.After(time.Second):
		t.Fatal("pop never woke after push")
	}
}

func TestQueueBreakDrainsThenFails(t *testing.T) {
	q := queuex.NewQueue[int]()
	q.Push(42)
	cause := errors.New("boom")
	q.Break(cause)

	v, err := q.Pop()
	require.NoError(t, err)
	require.Equal(t, 42, v)

	_, err = q.Pop()
	require.ErrorIs(t, err, cause)

	// Broken queues keep surfacing the cause, not just once.
	_, err = q.Pop()
	require.ErrorIs(t, err, cause)
}

func TestQueueBreakWithNilCauseYieldsPipeBrokenWithoutCause(t *testing.T) {
	q := queuex.NewQueue[int]()
	q.Break(nil)
	_, err := q.Pop()
	var broken *beamerr.PipeBroken
	require.ErrorAs(t, err, &broken)
	require.Nil(t, broken.Cause)
}

func TestQueuePushAfterBreakIsDropped(t *testing.T) {
	q := queuex.NewQueue[int]()
	q.Break(nil)
	q.Push(7)
	require.True(t, q.IsEmpty())
}
