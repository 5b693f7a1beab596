package openstate_test

import (
	"errors"
	"testing"

	"github.com/spiretrading/beam-sub006/beamerr"
	"github.com/spiretrading/beam-sub006/openstate"
	"github.com/stretchr/testify/require"
)

func TestMonotoneLifecycle(t *testing.T) {
	s := openstate.NewState()
	require.Equal(t, openstate.Closed, s.Load())
	require.True(t, s.SetOpening())
	require.False(t, s.SetOpening(), "second caller must not also win opening")
	require.True(t, s.SetOpen())
	require.True(t, s.IsOpen())
	require.NoError(t, s.EnsureOpen())

	require.True(t, s.SetClosing())
	require.False(t, s.SetClosing(), "set_closing must return true exactly once")
	require.True(t, s.SetClosed())
	require.False(t, s.SetClosed(), "double close behaves as a no-op")
	require.Equal(t, openstate.Closed, s.Load())
}

func TestEnsureOpenNeverOpened(t *testing.T) {
	s := openstate.NewState()
	err := s.EnsureOpen()
	var notOpen *beamerr.NotOpen
	require.True(t, errors.As(err, &notOpen))
	require.Nil(t, notOpen.Cause)
}

func TestOpenFailureRecorded(t *testing.T) {
	s := openstate.NewState()
	require.True(t, s.SetOpening())
	cause := errors.New("dial refused")
	require.True(t, s.SetOpenFailure(cause))
	require.Equal(t, openstate.Closed, s.Load())

	err := s.EnsureOpen()
	var notOpen *beamerr.NotOpen
	require.True(t, errors.As(err, &notOpen))
	require.True(t, errors.Is(err, cause))
}

func TestClosingFromOpening(t *testing.T) {
	// a resource asked to close before it finished opening
	s := openstate.NewState()
	require.True(t, s.SetOpening())
	require.True(t, s.SetClosing())
	require.True(t, s.SetClosed())
}
