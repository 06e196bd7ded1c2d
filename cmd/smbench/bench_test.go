package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/serviceflow/smstream"
	"github.com/stretchr/testify/require"
)

func TestParseSizes(t *testing.T) {
	sizes, err := parseSizes([]string{"64KiB", "1MiB,2MiB", " 10 "})
	require.NoError(t, err)
	require.Equal(t, []uint64{64 * 1024, 1024 * 1024, 2 * 1024 * 1024, 10}, sizes)

	_, err = parseSizes([]string{"lots"})
	require.Error(t, err)
	_, err = parseSizes([]string{"0"})
	require.Error(t, err)
	_, err = parseSizes(nil)
	require.Error(t, err)
}

func TestRunners(t *testing.T) {
	opts := smstream.DefaultOptions().WithSegmentSizeExponent(6).WithStartingCapacity(64)
	for _, tg := range targets(opts) {
		r, err := runRead(tg, 1000, 3)
		require.NoError(t, err)
		require.Equal(t, "read", r.Op)
		require.Equal(t, tg.name, r.Target)
		require.Equal(t, 3, r.Iterations)

		r, err = runWrite(tg, 1000, 3)
		require.NoError(t, err)
		require.Equal(t, "write", r.Op)
		require.Contains(t, r.String(), "1000 B")
	}
}

func TestFill(t *testing.T) {
	s, err := smstream.New(smstream.DefaultOptions().WithSegmentSizeExponent(10))
	require.NoError(t, err)
	require.NoError(t, fill(s, chunk*2+5))
	require.Equal(t, int64(chunk*2+5), s.Len())
}

func TestCommand(t *testing.T) {
	var out bytes.Buffer
	cmdMain.SetOut(&out)
	cmdMain.SetArgs([]string{"write", "--sizes", "1KiB,4KiB", "--iterations", "2", "--exponent", "8", "--pool", "--log-level", "warn"})
	require.NoError(t, cmdMain.Execute())

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 5)
	require.Contains(t, lines[0], "THROUGHPUT")
	require.Contains(t, out.String(), "contiguous")
	require.Contains(t, out.String(), "segmented")
}
