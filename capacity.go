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
	"math"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

//ensureCapacity append zeroed segments until target bytes are covered.
//it never removes segments and never touches length
func (s *Stream) ensureCapacity(target int64) {
	need := s.geo.segmentsFor(target)
	if need <= len(s.segments) {
		return
	}
	for len(s.segments) < need {
		s.segments = append(s.segments, s.alloc.Alloc(int(s.geo.size)))
	}
	s.capacity = int64(len(s.segments)) * s.geo.size
	s.logger.WithFields(logrus.Fields{
		"segments": len(s.segments),
		"capacity": s.capacity,
	}).Debug("stream grown")
}

//release free every segment from index keep on and drop them
func (s *Stream) release(keep int) {
	for i := keep; i < len(s.segments); i++ {
		s.alloc.Free(s.segments[i])
		s.segments[i] = nil
	}
	s.segments = s.segments[:keep]
	s.capacity = int64(keep) * s.geo.size
}

//zeroRange clear [from, to) inside the allocated segments
func (s *Stream) zeroRange(from, to int64) {
	if to > s.capacity {
		to = s.capacity
	}
	for from < to {
		segment := s.segments[s.geo.index(from)]
		offset := s.geo.offset(from)
		n := min(int64(len(segment)-offset), to-from)
		clear(segment[offset : offset+int(n)])
		from += n
	}
}

// Grow pre-allocates segments so that n more bytes can be written at
// the current position without further allocation.
func (s *Stream) Grow(n int64) error {
	if s.closed {
		return errors.WithStack(ErrClosed)
	}
	if n < 0 || n > math.MaxInt64-s.position {
		return errors.WithMessagef(ErrOutOfRange, "cannot grow by %d bytes", n)
	}
	s.ensureCapacity(s.position + n)
	return nil
}

// Shrink drops the trailing segments that are not needed to hold Len
// bytes. Data in dropped segments is gone; growing again yields zeros.
func (s *Stream) Shrink() error {
	if s.closed {
		return errors.WithStack(ErrClosed)
	}
	keep := s.geo.segmentsFor(s.length)
	if keep >= len(s.segments) {
		return nil
	}
	s.release(keep)
	s.logger.WithFields(logrus.Fields{
		"segments": len(s.segments),
		"capacity": s.capacity,
		"length":   s.length,
	}).Debug("stream shrunk")
	return nil
}

// SetLength truncates or extends the stream to n bytes. Truncation
// discards the data past n for good; extension reads back as zeros.
// The position is left where it is.
func (s *Stream) SetLength(n int64) error {
	if s.closed {
		return errors.WithStack(ErrClosed)
	}
	if n < 0 {
		return errors.WithMessagef(ErrOutOfRange, "length %d cannot be negative", n)
	}
	old := s.length
	s.length = n
	switch {
	case n < old:
		if err := s.Shrink(); err != nil {
			return err
		}
		// bytes past length are always zero, including the tail of the
		// last kept segment
		s.zeroRange(n, old)
	case n > old:
		s.ensureCapacity(n)
	}
	return nil
}
