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
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

type Options struct {
	SegmentSizeExponent int `json:"segment_size_exponent"`
	// SegmentSize is optional. When set it must be a power of two and,
	// if SegmentSizeExponent is set too, agree with it.
	SegmentSize      int                `json:"segment_size"`
	StartingCapacity int64              `json:"starting_capacity"`
	Allocator        Allocator          `json:"-"`
	Logger           logrus.FieldLogger `json:"-"`
}

func DefaultOptions() Options {
	return Options{
		SegmentSizeExponent: DefaultSegmentSizeExponent,
		StartingCapacity:    DefaultSegmentSize,
		Allocator:           HeapAllocator{},
		Logger:              logrus.StandardLogger(),
	}
}

func (opt Options) WithSegmentSizeExponent(exponent int) Options {
	opt.SegmentSizeExponent = exponent
	opt.SegmentSize = 0
	return opt
}

func (opt Options) WithSegmentSize(size int) Options {
	opt.SegmentSize = size
	opt.SegmentSizeExponent = 0
	return opt
}

func (opt Options) WithStartingCapacity(capacity int64) Options {
	opt.StartingCapacity = capacity
	return opt
}

func (opt Options) WithAllocator(allocator Allocator) Options {
	opt.Allocator = allocator
	return opt
}

func (opt Options) WithLogger(logger logrus.FieldLogger) Options {
	opt.Logger = logger
	return opt
}

//exponent validate the segment size settings and return the exponent to use
func (opt Options) exponent() (int, error) {
	exponent := opt.SegmentSizeExponent
	if opt.SegmentSize != 0 {
		if !isPowerOfTwo(opt.SegmentSize) {
			return 0, errors.WithMessagef(ErrInvalidConfiguration,
				"segment size %d is not a power of two", opt.SegmentSize)
		}
		sizeExponent := exponentOf(opt.SegmentSize)
		if exponent != 0 && exponent != sizeExponent {
			return 0, errors.WithMessagef(ErrInvalidConfiguration,
				"segment size %d disagrees with exponent %d", opt.SegmentSize, exponent)
		}
		exponent = sizeExponent
	}
	if exponent <= 0 || exponent > maxSegmentSizeExponent {
		return 0, errors.WithMessagef(ErrOutOfRange,
			"segment size exponent %d must be in [1, %d]", exponent, maxSegmentSizeExponent)
	}
	return exponent, nil
}
