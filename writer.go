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
	"io"
	"math"

	"github.com/pkg/errors"
)

//writeAt copy p into the segments starting at pos.
//the caller must have ensured capacity for pos+len(p)
func (s *Stream) writeAt(p []byte, pos int64) {
	for len(p) > 0 {
		segment := s.segments[s.geo.index(pos)]
		n := copy(segment[s.geo.offset(pos):], p)
		p = p[n:]
		pos += int64(n)
		if pos > s.length {
			s.length = pos
		}
	}
}

// Write writes p at the current position, allocating segments as
// needed. Writing past Len extends it; the skipped gap reads as zeros.
func (s *Stream) Write(p []byte) (int, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if p == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if int64(len(p)) > math.MaxInt64-s.position {
		return 0, errors.WithMessagef(ErrOutOfRange, "write of %d bytes at %d", len(p), s.position)
	}
	end := s.position + int64(len(p))
	if end > s.capacity {
		s.ensureCapacity(end)
	}
	s.writeAt(p, s.position)
	s.position = end
	return len(p), nil
}

// WriteRange writes p[offset:offset+count] with the same range rules
// as ReadRange.
func (s *Stream) WriteRange(p []byte, offset, count int) (int, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if p == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	ok, err := validateRange(len(p), offset, count)
	if !ok {
		return 0, err
	}
	return s.Write(p[offset : offset+count])
}

func (s *Stream) WriteByte(c byte) error {
	if s.closed {
		return errors.WithStack(ErrClosed)
	}
	if s.position+1 > s.capacity {
		s.ensureCapacity(s.position + 1)
	}
	s.segments[s.geo.index(s.position)][s.geo.offset(s.position)] = c
	s.position++
	if s.position > s.length {
		s.length = s.position
	}
	return nil
}

// WriteAt writes p at off without moving the position.
func (s *Stream) WriteAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if p == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	if off < 0 || int64(len(p)) > math.MaxInt64-off {
		return 0, errors.WithMessagef(ErrOutOfRange, "write of %d bytes at %d", len(p), off)
	}
	end := off + int64(len(p))
	if end > s.capacity {
		s.ensureCapacity(end)
	}
	s.writeAt(p, off)
	return len(p), nil
}

// ReadFrom reads r until io.EOF straight into the segments, starting at
// the current position.
func (s *Stream) ReadFrom(r io.Reader) (int64, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if r == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	start := len(s.segments)
	var total int64
	var err error
	var scratch []byte
	for {
		if s.position >= s.capacity {
			s.ensureCapacity(s.position + 1)
		}
		segment := s.segments[s.geo.index(s.position)]
		dst := segment[s.geo.offset(s.position):]
		var n int
		if s.position < s.length {
			// a reader may use all of its buffer as scratch, so existing
			// data is only overwritten with the n bytes it returned
			dst = dst[:min(int64(len(dst)), s.length-s.position)]
			if len(scratch) < len(dst) {
				scratch = make([]byte, len(dst))
			}
			n, err = r.Read(scratch[:len(dst)])
			if n > 0 && n <= len(dst) {
				copy(dst, scratch[:n])
			}
		} else {
			n, err = r.Read(dst)
			if n >= 0 && n <= len(dst) {
				// keep everything past Len zero
				clear(dst[n:])
			}
		}
		if n < 0 || n > len(dst) {
			err = errors.Errorf("reader returned invalid count %d", n)
			break
		}
		s.position += int64(n)
		total += int64(n)
		if s.position > s.length {
			s.length = s.position
		}
		if err != nil {
			break
		}
	}
	// drop a segment allocated ahead of a read that hit EOF
	if keep := max(start, s.geo.segmentsFor(s.position)); keep < len(s.segments) {
		s.release(keep)
	}
	if err == io.EOF {
		return total, nil
	}
	return total, errors.WithStack(err)
}
