package smstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGeometry(t *testing.T) {
	g := newGeometry(4)
	require.Equal(t, int64(16), g.size)
	require.Equal(t, 0, g.index(0))
	require.Equal(t, 0, g.index(15))
	require.Equal(t, 1, g.index(16))
	require.Equal(t, 6, g.index(100))
	require.Equal(t, 0, g.offset(16))
	require.Equal(t, 1, g.offset(17))
	require.Equal(t, 4, g.offset(100))

	require.Equal(t, 0, g.segmentsFor(-5))
	require.Equal(t, 0, g.segmentsFor(0))
	require.Equal(t, 1, g.segmentsFor(1))
	require.Equal(t, 1, g.segmentsFor(16))
	require.Equal(t, 2, g.segmentsFor(17))
}

func TestPowerOfTwo(t *testing.T) {
	for _, v := range []int{1, 2, 8, 1024, DefaultSegmentSize} {
		require.True(t, isPowerOfTwo(v), v)
	}
	for _, v := range []int{-8, 0, 3, 1000, 65535} {
		require.False(t, isPowerOfTwo(v), v)
	}
	require.Equal(t, 16, exponentOf(DefaultSegmentSize))
	require.Equal(t, 10, exponentOf(1024))
}

func TestHeapAllocator(t *testing.T) {
	var a HeapAllocator
	b := a.Alloc(32)
	require.Len(t, b, 32)
	a.Free(b)
}

func TestPoolAllocator(t *testing.T) {
	a := NewPoolAllocator()
	b := a.Alloc(16)
	require.Len(t, b, 16)
	for i := range b {
		b[i] = 0xAB
	}
	require.Equal(t, int64(16), a.Stats().BytesInUse)

	a.Free(b)
	stats := a.Stats()
	require.Equal(t, int64(1), stats.Freed)
	require.Equal(t, int64(0), stats.BytesInUse)

	// whether or not the pool kept it, the segment must come back zeroed
	c := a.Alloc(16)
	require.Len(t, c, 16)
	require.Equal(t, make([]byte, 16), c)
	stats = a.Stats()
	require.Equal(t, int64(2), stats.Allocated+stats.Reused)

	// sizes never mix
	d := a.Alloc(64)
	require.Len(t, d, 64)
}
