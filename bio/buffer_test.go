package bio_test

import (
	"testing"

	"github.com/spiretrading/beam-sub006/bio"
	"github.com/stretchr/testify/require"
)

func TestByteBufferAppendAndShrinkFront(t *testing.T) {
	b := bio.NewByteBuffer()
	b.Append([]byte("hello world"))
	require.Equal(t, 11, b.Size())

	b.ShrinkFront(6)
	require.Equal(t, "world", string(b.Data()))
	require.Equal(t, 5, b.Size())
}

func TestByteBufferWriteOverwritesInPlace(t *testing.T) {
	b := bio.WrapByteBuffer([]byte("xxxxx"))
	b.Write(1, []byte("yy"))
	require.Equal(t, "xyyxx", string(b.Data()))
}

func TestByteBufferGrowShrink(t *testing.T) {
	b := bio.NewByteBuffer()
	b.Grow(4)
	require.Equal(t, 4, b.Size())
	b.Shrink(2)
	require.Equal(t, 2, b.Size())
	b.Shrink(100) // clamped, must not panic
	require.True(t, b.IsEmpty())
}

func TestBufferSliceViewsUnderlyingBuffer(t *testing.T) {
	b := bio.WrapByteBuffer([]byte("0123456789"))
	slice := bio.NewBufferSlice(b, 3)
	require.Equal(t, "3456789", string(slice.Data()))
	require.Equal(t, 7, slice.Size())

	slice.Write(0, []byte("X"))
	require.Equal(t, "X456789", string(slice.Data()))
	require.Equal(t, byte('X'), b.Data()[3])
}
