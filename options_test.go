package smstream

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewDefault(t *testing.T) {
	s := NewDefault()
	require.Equal(t, int64(0), s.Position())
	require.Equal(t, int64(0), s.Len())
	require.Equal(t, DefaultSegmentSize, s.SegmentSize())
	require.Equal(t, int64(DefaultSegmentSize), s.Capacity())
}

func TestNewOptions(t *testing.T) {
	s, err := New(DefaultOptions().WithSegmentSizeExponent(3))
	require.NoError(t, err)
	require.Equal(t, 8, s.SegmentSize())
	require.Equal(t, int64(0), s.Position())
	require.Equal(t, int64(0), s.Len())

	// rounded down to whole segments
	s, err = New(DefaultOptions().WithSegmentSizeExponent(3).WithStartingCapacity(1001))
	require.NoError(t, err)
	require.Equal(t, int64(1000), s.Capacity())

	s, err = New(DefaultOptions().WithSegmentSizeExponent(4).WithStartingCapacity(10))
	require.NoError(t, err)
	require.Equal(t, int64(0), s.Capacity())

	s, err = New(DefaultOptions().WithSegmentSize(1024))
	require.NoError(t, err)
	require.Equal(t, 1024, s.SegmentSize())

	opts := DefaultOptions()
	opts.SegmentSize = 1024
	opts.SegmentSizeExponent = 10
	s, err = New(opts)
	require.NoError(t, err)
	require.Equal(t, 1024, s.SegmentSize())

	opts = DefaultOptions()
	opts.Allocator = nil
	opts.Logger = nil
	s, err = New(opts)
	require.NoError(t, err)
	_, err = s.Write([]byte("hello"))
	require.NoError(t, err)
}

func TestNewInvalidOptions(t *testing.T) {
	cases := []struct {
		name string
		opts Options
		err  error
	}{
		{"zero exponent", DefaultOptions().WithSegmentSizeExponent(0), ErrOutOfRange},
		{"negative exponent", DefaultOptions().WithSegmentSizeExponent(-1), ErrOutOfRange},
		{"huge exponent", DefaultOptions().WithSegmentSizeExponent(31), ErrOutOfRange},
		{"zero capacity", DefaultOptions().WithStartingCapacity(0), ErrOutOfRange},
		{"negative capacity", DefaultOptions().WithStartingCapacity(-10), ErrOutOfRange},
		{"not a power of two", DefaultOptions().WithSegmentSize(1000), ErrInvalidConfiguration},
		{"one byte segments", DefaultOptions().WithSegmentSize(1), ErrOutOfRange},
		{"size and exponent disagree", Options{SegmentSize: 1024, SegmentSizeExponent: 11, StartingCapacity: 1}, ErrInvalidConfiguration},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			s, err := New(c.opts)
			require.ErrorIs(t, err, c.err)
			require.Nil(t, s)
		})
	}
}
