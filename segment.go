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
	"sync"
	"sync/atomic"
)

const (
	// 2^16 keeps every segment well below the size where large
	// allocations get expensive to place and collect.
	DefaultSegmentSizeExponent = 16
	DefaultSegmentSize         = 1 << DefaultSegmentSizeExponent

	maxSegmentSizeExponent = 30
)

// geometry maps logical stream offsets onto segments. Segment size is
// always a power of two so both mappings are bit operations.
type geometry struct {
	exponent uint
	size     int64
	mask     int64
}

func newGeometry(exponent int) geometry {
	size := int64(1) << uint(exponent)
	return geometry{
		exponent: uint(exponent),
		size:     size,
		mask:     size - 1,
	}
}

//index of the segment holding pos
func (g geometry) index(pos int64) int {
	return int(uint64(pos) >> g.exponent)
}

//offset of pos inside its segment
func (g geometry) offset(pos int64) int {
	return int(pos & g.mask)
}

//segmentsFor return the number of whole segments needed to cover extent bytes
func (g geometry) segmentsFor(extent int64) int {
	if extent <= 0 {
		return 0
	}
	n := g.index(extent)
	if extent&g.mask != 0 {
		n++
	}
	return n
}

func isPowerOfTwo(v int) bool {
	return v > 0 && v&(v-1) == 0
}

func exponentOf(v int) int {
	var e int
	for v > 1 {
		v >>= 1
		e++
	}
	return e
}

// Allocator hands out segments to a Stream and takes them back when the
// stream shrinks or closes. Alloc must return a zero-filled slice of
// exactly size bytes.
type Allocator interface {
	Alloc(size int) []byte
	Free(b []byte)
}

// HeapAllocator allocates every segment with make and leaves freed
// segments to the garbage collector.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(size int) []byte {
	return make([]byte, size)
}

func (HeapAllocator) Free([]byte) {}

// AllocatorStats is a snapshot of PoolAllocator counters.
type AllocatorStats struct {
	Allocated  int64
	Reused     int64
	Freed      int64
	BytesInUse int64
}

// StatsSource is implemented by allocators that keep counters.
type StatsSource interface {
	Stats() AllocatorStats
}

// PoolAllocator recycles segments through one sync.Pool per segment
// size. Segments are zeroed on Free, so a recycled segment is
// indistinguishable from a fresh one. It is safe to share a
// PoolAllocator between streams used from different goroutines.
type PoolAllocator struct {
	l     sync.Mutex
	pools map[int]*sync.Pool

	allocated  int64
	reused     int64
	freed      int64
	bytesInUse int64
}

func NewPoolAllocator() *PoolAllocator {
	return &PoolAllocator{
		pools: make(map[int]*sync.Pool),
	}
}

func (p *PoolAllocator) pool(size int) *sync.Pool {
	p.l.Lock()
	defer p.l.Unlock()
	pool, ok := p.pools[size]
	if !ok {
		pool = new(sync.Pool)
		p.pools[size] = pool
	}
	return pool
}

func (p *PoolAllocator) Alloc(size int) []byte {
	atomic.AddInt64(&p.bytesInUse, int64(size))
	if v := p.pool(size).Get(); v != nil {
		atomic.AddInt64(&p.reused, 1)
		return *(v.(*[]byte))
	}
	atomic.AddInt64(&p.allocated, 1)
	return make([]byte, size)
}

func (p *PoolAllocator) Free(b []byte) {
	if len(b) == 0 {
		return
	}
	clear(b)
	atomic.AddInt64(&p.freed, 1)
	atomic.AddInt64(&p.bytesInUse, -int64(len(b)))
	p.pool(len(b)).Put(&b)
}

func (p *PoolAllocator) Stats() AllocatorStats {
	return AllocatorStats{
		Allocated:  atomic.LoadInt64(&p.allocated),
		Reused:     atomic.LoadInt64(&p.reused),
		Freed:      atomic.LoadInt64(&p.freed),
		BytesInUse: atomic.LoadInt64(&p.bytesInUse),
	}
}
