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

package main

import (
	"fmt"
	"io"
	"runtime"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/pkg/errors"
	"github.com/serviceflow/smstream"
	"github.com/serviceflow/smstream/internal/memstream"
	"github.com/sirupsen/logrus"
)

type stream interface {
	io.ReadWriteSeeker
	Len() int64
	SetPosition(pos int64) error
}

type target struct {
	name      string
	newStream func() (stream, error)
}

type result struct {
	Op         string
	Target     string
	Size       uint64
	Iterations int
	Elapsed    time.Duration
	Mallocs    uint64
	TotalAlloc uint64
}

// chunk is the write size the harness feeds the streams with.
const chunk = 64 * 1024

func targets(opts smstream.Options) []target {
	return []target{
		{"contiguous", func() (stream, error) { return memstream.New(), nil }},
		{"segmented", func() (stream, error) { return smstream.New(opts) }},
	}
}

func parseSizes(values []string) ([]uint64, error) {
	var sizes []uint64
	for _, value := range values {
		for _, field := range strings.Split(value, ",") {
			field = strings.TrimSpace(field)
			if field == "" {
				continue
			}
			size, err := humanize.ParseBytes(field)
			if err != nil {
				return nil, errors.Wrapf(err, "parse size %q", field)
			}
			if size == 0 {
				return nil, errors.Errorf("size %q must be positive", field)
			}
			sizes = append(sizes, size)
		}
	}
	if len(sizes) == 0 {
		return nil, errors.New("no sizes given")
	}
	return sizes, nil
}

func fill(s stream, size uint64) error {
	data := make([]byte, chunk)
	for i := range data {
		data[i] = 200
	}
	for uint64(s.Len()) < size {
		n := min(uint64(len(data)), size-uint64(s.Len()))
		if _, err := s.Write(data[:n]); err != nil {
			return err
		}
	}
	return nil
}

func release(s stream) {
	if c, ok := s.(io.Closer); ok {
		if err := c.Close(); err != nil {
			logrus.WithError(err).Warn("Failed to close stream")
		}
	}
}

//measure run fn iterations times and record elapsed time and heap allocations
func measure(op string, t target, size uint64, iterations int, fn func() error) (result, error) {
	var before, after runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&before)
	start := time.Now()
	for i := 0; i < iterations; i++ {
		if err := fn(); err != nil {
			return result{}, errors.WithMessagef(err, "%s %s %d bytes", op, t.name, size)
		}
	}
	elapsed := time.Since(start)
	runtime.ReadMemStats(&after)
	return result{
		Op:         op,
		Target:     t.name,
		Size:       size,
		Iterations: iterations,
		Elapsed:    elapsed,
		Mallocs:    after.Mallocs - before.Mallocs,
		TotalAlloc: after.TotalAlloc - before.TotalAlloc,
	}, nil
}

func runRead(t target, size uint64, iterations int) (result, error) {
	s, err := t.newStream()
	if err != nil {
		return result{}, err
	}
	defer release(s)
	if err := fill(s, size); err != nil {
		return result{}, err
	}
	buf := make([]byte, size)
	return measure("read", t, size, iterations, func() error {
		if err := s.SetPosition(0); err != nil {
			return err
		}
		_, err := io.ReadFull(s, buf)
		return err
	})
}

func runWrite(t target, size uint64, iterations int) (result, error) {
	return measure("write", t, size, iterations, func() error {
		s, err := t.newStream()
		if err != nil {
			return err
		}
		defer release(s)
		return fill(s, size)
	})
}

func (r result) throughput() string {
	seconds := r.Elapsed.Seconds()
	if seconds == 0 {
		return "-"
	}
	return humanize.IBytes(uint64(float64(r.Size)*float64(r.Iterations)/seconds)) + "/s"
}

func (r result) perOp(v uint64) uint64 {
	if r.Iterations == 0 {
		return 0
	}
	return v / uint64(r.Iterations)
}

func (r result) String() string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s\t%s\t%s",
		r.Op,
		r.Target,
		humanize.IBytes(r.Size),
		humanize.Comma(int64(r.Iterations)),
		r.throughput(),
		humanize.Comma(int64(r.perOp(r.Mallocs))),
		humanize.IBytes(r.perOp(r.TotalAlloc)))
}
