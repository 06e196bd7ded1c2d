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

// Package memstream is a stream over a single contiguous byte slice.
// It is the baseline smstream.Stream is measured and checked against.
package memstream

import (
	"io"

	"github.com/pkg/errors"
)

var (
	ErrNegativePosition = errors.New("negative position")
	ErrWhence           = errors.New("whence error")
)

type Stream struct {
	buf []byte
	pos int64
}

func New() *Stream {
	return &Stream{}
}

func (s *Stream) Len() int64 {
	return int64(len(s.buf))
}

func (s *Stream) Position() int64 {
	return s.pos
}

func (s *Stream) Bytes() []byte {
	return s.buf
}

func (s *Stream) SetPosition(pos int64) error {
	if pos < 0 {
		return errors.WithStack(ErrNegativePosition)
	}
	s.pos = pos
	return nil
}

func (s *Stream) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	n := copy(p, s.buf[s.pos:])
	s.pos += int64(n)
	return n, nil
}

func (s *Stream) ReadByte() (byte, error) {
	if s.pos >= int64(len(s.buf)) {
		return 0, io.EOF
	}
	c := s.buf[s.pos]
	s.pos++
	return c, nil
}

//extend grow buf with zeros up to n bytes
func (s *Stream) extend(n int64) {
	if n <= int64(len(s.buf)) {
		return
	}
	if n <= int64(cap(s.buf)) {
		old := len(s.buf)
		s.buf = s.buf[:n]
		clear(s.buf[old:])
		return
	}
	s.buf = append(s.buf, make([]byte, n-int64(len(s.buf)))...)
}

func (s *Stream) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	s.extend(s.pos + int64(len(p)))
	n := copy(s.buf[s.pos:], p)
	s.pos += int64(n)
	return n, nil
}

func (s *Stream) WriteByte(c byte) error {
	s.extend(s.pos + 1)
	s.buf[s.pos] = c
	s.pos++
	return nil
}

// Seek resolves SeekEnd against the length of the data.
func (s *Stream) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	default:
		return 0, errors.WithStack(ErrWhence)
	case io.SeekStart:
	case io.SeekCurrent:
		offset += s.pos
	case io.SeekEnd:
		offset += int64(len(s.buf))
	}
	if err := s.SetPosition(offset); err != nil {
		return 0, err
	}
	return s.pos, nil
}

// SetLength truncates or zero-extends the data. A position past the new
// length is pulled back to it.
func (s *Stream) SetLength(n int64) error {
	if n < 0 {
		return errors.WithStack(ErrNegativePosition)
	}
	if n < int64(len(s.buf)) {
		s.buf = s.buf[:n]
	} else {
		s.extend(n)
	}
	if s.pos > n {
		s.pos = n
	}
	return nil
}
