package smstream

import (
	"fmt"
	"io"
	"testing"

	"github.com/serviceflow/smstream/internal/memstream"
)

var benchSizes = []int{64 * 1024, 1024 * 1024, 16 * 1024 * 1024}

type benchStream interface {
	io.ReadWriteSeeker
	Len() int64
	SetPosition(pos int64) error
}

func fill(b *testing.B, s benchStream, n int) {
	chunk := make([]byte, 64*1024)
	for s.Len() < int64(n) {
		if _, err := s.Write(chunk[:min(len(chunk), n-int(s.Len()))]); err != nil {
			b.Fatalf("%+v", err)
		}
	}
}

func benchmarkRead(b *testing.B, newStream func() benchStream) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprint(n), func(b *testing.B) {
			s := newStream()
			fill(b, s, n)
			buf := make([]byte, n)
			b.SetBytes(int64(n))
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				if err := s.SetPosition(0); err != nil {
					b.Fatalf("%+v", err)
				}
				if _, err := io.ReadFull(s, buf); err != nil {
					b.Fatalf("%+v", err)
				}
			}
		})
	}
}

func benchmarkWrite(b *testing.B, newStream func() benchStream) {
	for _, n := range benchSizes {
		b.Run(fmt.Sprint(n), func(b *testing.B) {
			b.SetBytes(int64(n))
			b.ReportAllocs()
			for i := 0; i < b.N; i++ {
				s := newStream()
				fill(b, s, n)
				if c, ok := s.(io.Closer); ok {
					if err := c.Close(); err != nil {
						b.Fatalf("%+v", err)
					}
				}
			}
		})
	}
}

func BenchmarkRead_MemStream(b *testing.B) {
	benchmarkRead(b, func() benchStream { return memstream.New() })
}

func BenchmarkRead_Stream(b *testing.B) {
	benchmarkRead(b, func() benchStream { return NewDefault() })
}

func BenchmarkWrite_MemStream(b *testing.B) {
	benchmarkWrite(b, func() benchStream { return memstream.New() })
}

func BenchmarkWrite_Stream(b *testing.B) {
	benchmarkWrite(b, func() benchStream { return NewDefault() })
}

func BenchmarkWrite_StreamPool(b *testing.B) {
	alloc := NewPoolAllocator()
	benchmarkWrite(b, func() benchStream {
		s, _ := New(DefaultOptions().WithAllocator(alloc))
		return s
	})
}
