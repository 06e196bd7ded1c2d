// Copyright 2020-2026 The smstream Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package smstream

import (
	"github.com/prometheus/client_golang/prometheus"
)

type collector struct {
	source StatsSource

	allocated  *prometheus.Desc
	reused     *prometheus.Desc
	freed      *prometheus.Desc
	bytesInUse *prometheus.Desc
}

// NewCollector exports the counters of an allocator such as
// PoolAllocator as Prometheus metrics under namespace.
func NewCollector(namespace string, source StatsSource) prometheus.Collector {
	name := func(n string) string {
		return prometheus.BuildFQName(namespace, "segments", n)
	}
	return &collector{
		source:     source,
		allocated:  prometheus.NewDesc(name("allocated_total"), "Number of segments allocated from the heap", nil, nil),
		reused:     prometheus.NewDesc(name("reused_total"), "Number of segments served from the pool", nil, nil),
		freed:      prometheus.NewDesc(name("freed_total"), "Number of segments returned to the pool", nil, nil),
		bytesInUse: prometheus.NewDesc(name("bytes_in_use"), "Bytes held by live segments", nil, nil),
	}
}

func (c *collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.allocated
	ch <- c.reused
	ch <- c.freed
	ch <- c.bytesInUse
}

func (c *collector) Collect(ch chan<- prometheus.Metric) {
	stats := c.source.Stats()
	ch <- prometheus.MustNewConstMetric(c.allocated, prometheus.CounterValue, float64(stats.Allocated))
	ch <- prometheus.MustNewConstMetric(c.reused, prometheus.CounterValue, float64(stats.Reused))
	ch <- prometheus.MustNewConstMetric(c.freed, prometheus.CounterValue, float64(stats.Freed))
	ch <- prometheus.MustNewConstMetric(c.bytesInUse, prometheus.GaugeValue, float64(stats.BytesInUse))
}
