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
	"errors"
)

var (
	ErrOutOfRange           = errors.New("argument out of range")
	ErrInvalidSlice         = errors.New("offset and count out of bounds for buffer")
	ErrMissingBuffer        = errors.New("buffer is nil")
	ErrClosed               = errors.New("stream closed")
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrWhence               = errors.New("whence error")
)
