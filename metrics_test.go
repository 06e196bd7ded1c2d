package smstream

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

type fixedStats AllocatorStats

func (f fixedStats) Stats() AllocatorStats { return AllocatorStats(f) }

func TestCollector(t *testing.T) {
	c := NewCollector("smstream", fixedStats{Allocated: 3, Reused: 1, Freed: 2, BytesInUse: 4096})
	require.Equal(t, 4, testutil.CollectAndCount(c))

	expected := `
# HELP smstream_segments_allocated_total Number of segments allocated from the heap
# TYPE smstream_segments_allocated_total counter
smstream_segments_allocated_total 3
# HELP smstream_segments_bytes_in_use Bytes held by live segments
# TYPE smstream_segments_bytes_in_use gauge
smstream_segments_bytes_in_use 4096
`
	require.NoError(t, testutil.CollectAndCompare(c, strings.NewReader(expected),
		"smstream_segments_allocated_total", "smstream_segments_bytes_in_use"))
}

func TestCollectorWithPool(t *testing.T) {
	alloc := NewPoolAllocator()
	registry := prometheus.NewRegistry()
	require.NoError(t, registry.Register(NewCollector("test", alloc)))

	s := newStream(t, DefaultOptions().WithSegmentSizeExponent(4).WithStartingCapacity(16).WithAllocator(alloc))
	_, err := s.Write(createBuffer(64))
	require.NoError(t, err)

	families, err := registry.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		metric := family.GetMetric()[0]
		if metric.GetCounter() != nil {
			values[family.GetName()] = metric.GetCounter().GetValue()
		} else {
			values[family.GetName()] = metric.GetGauge().GetValue()
		}
	}
	require.Equal(t, float64(64), values["test_segments_bytes_in_use"])
	require.Equal(t, float64(4), values["test_segments_allocated_total"]+values["test_segments_reused_total"])

	require.NoError(t, s.Close())
	require.Equal(t, int64(4), alloc.Stats().Freed)
}
