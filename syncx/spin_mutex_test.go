package syncx_test

import (
	"sync"
	"testing"

	"github.com/spiretrading/beam-sub006/syncx"
	"github.com/stretchr/testify/require"
)

func TestSpinMutexMutualExclusion(t *testing.T) {
	var sm syncx.SpinMutex
	counter := 0
	var wg sync.WaitGroup
	const goroutines = 50
	const increments = 200

	wg.Add(goroutines)
	for i := 0; i < goroutines; i++ {
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				sm.Lock()
				counter++
				sm.Unlock()
			}
		}()
	}
	wg.Wait()

	require.Equal(t, goroutines*increments, counter)
}

func TestSpinMutexTryLock(t *testing.T) {
	var sm syncx.SpinMutex
	require.True(t, sm.TryLock())
	require.False(t, sm.TryLock())
	sm.Unlock()
	require.True(t, sm.TryLock())
}
