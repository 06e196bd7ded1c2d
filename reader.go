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

	"github.com/pkg/errors"
)

//readAt copy min(len(p), length-pos) bytes starting at pos, segment by segment
func (s *Stream) readAt(p []byte, pos int64) int {
	var n int
	for n < len(p) && pos < s.length {
		segment := s.segments[s.geo.index(pos)]
		offset := s.geo.offset(pos)
		limit := min(int64(len(segment)-offset), s.length-pos)
		ret := copy(p[n:], segment[offset:offset+int(limit)])
		n += ret
		pos += int64(ret)
	}
	return n
}

// Read reads up to len(p) bytes from the current position. At the end
// of data it returns 0, io.EOF.
func (s *Stream) Read(p []byte) (int, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if p == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	if len(p) == 0 {
		return 0, nil
	}
	if s.position >= s.length {
		return 0, io.EOF
	}
	n := s.readAt(p, s.position)
	s.position += int64(n)
	return n, nil
}

// ReadRange reads into p[offset:offset+count]. An offset past the end
// of p reads nothing and is not an error; a range that starts inside p
// but ends past it is rejected with ErrInvalidSlice.
func (s *Stream) ReadRange(p []byte, offset, count int) (int, error) {
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
	return s.Read(p[offset : offset+count])
}

func (s *Stream) ReadByte() (byte, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if s.position >= s.length {
		return 0, io.EOF
	}
	c := s.segments[s.geo.index(s.position)][s.geo.offset(s.position)]
	s.position++
	return c, nil
}

// ReadAt reads len(p) bytes at off without moving the position.
func (s *Stream) ReadAt(p []byte, off int64) (int, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if p == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	if off < 0 {
		return 0, errors.WithMessagef(ErrOutOfRange, "negative offset %d", off)
	}
	n := s.readAt(p, off)
	if n < len(p) {
		return n, io.EOF
	}
	return n, nil
}

// Seek sets the position for the next Read or Write.
//
// SeekEnd is resolved against the current position, exactly like
// SeekCurrent, and not against Len. The two only agree when the
// position is at the end of data when Seek is called.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	switch whence {
	default:
		return 0, errors.WithStack(ErrWhence)
	case io.SeekStart:
	case io.SeekCurrent:
		offset += s.position
	case io.SeekEnd:
		offset += s.position
	}
	if err := s.SetPosition(offset); err != nil {
		return 0, err
	}
	return s.position, nil
}

// CopyTo copies the remaining data to w through a scratch buffer of
// bufferSize bytes.
func (s *Stream) CopyTo(w io.Writer, bufferSize int) (int64, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	if w == nil {
		return 0, errors.WithStack(ErrMissingBuffer)
	}
	if bufferSize <= 0 {
		return 0, errors.WithMessagef(ErrOutOfRange, "buffer size %d must be positive", bufferSize)
	}
	var total int64
	buf := make([]byte, bufferSize)
	for s.position < s.length {
		n := s.readAt(buf, s.position)
		s.position += int64(n)
		ret, err := w.Write(buf[:n])
		total += int64(ret)
		if err != nil {
			return total, errors.WithStack(err)
		}
		if ret != n {
			return total, errors.WithStack(io.ErrShortWrite)
		}
	}
	return total, nil
}

// WriteTo writes the remaining data to w straight from the segments.
func (s *Stream) WriteTo(w io.Writer) (int64, error) {
	if s.closed {
		return 0, errors.WithStack(ErrClosed)
	}
	var total int64
	for s.position < s.length {
		segment := s.segments[s.geo.index(s.position)]
		offset := s.geo.offset(s.position)
		limit := min(int64(len(segment)-offset), s.length-s.position)
		n, err := w.Write(segment[offset : offset+int(limit)])
		s.position += int64(n)
		total += int64(n)
		if err != nil {
			return total, errors.WithStack(err)
		}
		if int64(n) != limit {
			return total, errors.WithStack(io.ErrShortWrite)
		}
	}
	return total, nil
}

//validateRange report whether [offset, offset+count) should be used.
//offset past the buffer is a silent no-op, a range running off the end is an error
func validateRange(length, offset, count int) (bool, error) {
	if offset < 0 || count < 0 {
		return false, errors.WithMessagef(ErrOutOfRange,
			"offset %d and count %d must not be negative", offset, count)
	}
	if offset > length {
		return false, nil
	}
	if count > length-offset {
		return false, errors.WithMessagef(ErrInvalidSlice,
			"offset %d count %d buffer length %d", offset, count, length)
	}
	return true, nil
}
