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

// Package smstream provides Stream, an in-memory byte stream whose
// storage is split into fixed power-of-two sized segments. It behaves
// like a stream over one contiguous growable buffer, but no allocation
// is ever larger than a single segment.
//
// A Stream is not safe for concurrent use.
package smstream

import (
	"io"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var (
	_ io.ReadWriteSeeker = (*Stream)(nil)
	_ io.ReaderAt        = (*Stream)(nil)
	_ io.WriterAt        = (*Stream)(nil)
	_ io.ByteReader      = (*Stream)(nil)
	_ io.ByteWriter      = (*Stream)(nil)
	_ io.WriterTo        = (*Stream)(nil)
	_ io.ReaderFrom      = (*Stream)(nil)
	_ io.Closer          = (*Stream)(nil)
)

type Stream struct {
	segments [][]byte
	geo      geometry

	position int64
	// highest offset written so far, reported by Len
	length   int64
	capacity int64
	closed   bool

	alloc  Allocator
	logger logrus.FieldLogger
}

// New creates a stream configured by opts.
func New(opts Options) (*Stream, error) {
	exponent, err := opts.exponent()
	if err != nil {
		return nil, err
	}
	if opts.StartingCapacity <= 0 {
		return nil, errors.WithMessagef(ErrOutOfRange,
			"starting capacity %d has to be positive", opts.StartingCapacity)
	}
	if opts.Allocator == nil {
		opts.Allocator = HeapAllocator{}
	}
	if opts.Logger == nil {
		opts.Logger = logrus.StandardLogger()
	}
	s := &Stream{
		geo:    newGeometry(exponent),
		alloc:  opts.Allocator,
		logger: opts.Logger,
	}
	// starting capacity is rounded down to whole segments
	count := s.geo.index(opts.StartingCapacity)
	s.segments = make([][]byte, 0, count)
	for i := 0; i < count; i++ {
		s.segments = append(s.segments, s.alloc.Alloc(int(s.geo.size)))
	}
	s.capacity = int64(count) * s.geo.size
	return s, nil
}

// NewDefault creates a stream with DefaultOptions.
func NewDefault() *Stream {
	s, err := New(DefaultOptions())
	if err != nil {
		panic(err)
	}
	return s
}

func (s *Stream) SegmentSize() int {
	return int(s.geo.size)
}

// Len returns the number of bytes written, the furthest offset ever
// written unless SetLength truncated it.
func (s *Stream) Len() int64 {
	return s.length
}

// Capacity returns the number of bytes backed by allocated segments.
// It is always a multiple of SegmentSize.
func (s *Stream) Capacity() int64 {
	return s.capacity
}

func (s *Stream) Position() int64 {
	return s.position
}

// SetPosition moves the cursor. Moving it past Capacity allocates the
// segments needed to cover the new position but does not change Len.
func (s *Stream) SetPosition(pos int64) error {
	if s.closed {
		return errors.WithStack(ErrClosed)
	}
	if pos < 0 {
		return errors.WithMessagef(ErrOutOfRange,
			"the position %d is outside the bounds of the stream", pos)
	}
	if pos > s.capacity {
		s.ensureCapacity(pos)
	}
	s.position = pos
	return nil
}

// Bytes returns a contiguous copy of the stream contents.
func (s *Stream) Bytes() []byte {
	if s.closed {
		return nil
	}
	buf := make([]byte, s.length)
	s.readAt(buf, 0)
	return buf
}

// Flush is a no-op, there is no underlying device.
func (s *Stream) Flush() error {
	return nil
}

// Close releases every segment back to the allocator. Any later
// operation fails with ErrClosed. Closing twice is a no-op.
func (s *Stream) Close() error {
	if s.closed {
		return nil
	}
	released := len(s.segments)
	s.release(0)
	s.segments = nil
	s.position = 0
	s.length = 0
	s.closed = true
	s.logger.WithField("segments", released).Debug("stream closed")
	return nil
}
