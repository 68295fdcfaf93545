// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

// Package retry implements component J: a small harness that re-runs an
// operation after ensuring a missing byte range has been loaded.
//
// Grounded on original_source/examples/retry_pattern.rs's documented
// retry_on_data_missing! macro: try the operation, and if it fails with a
// recoverable "data missing" signal, ensure the named range is loaded and
// try again. Expressed here as a generic function rather than a macro,
// following the teacher's general preference for plain functions over code
// generation (data.go, cache.go have no macro-equivalents at all).
package retry

import "fmt"

// Ranger is anything that can be told to make a byte range available. A
// *source.ChunkSource satisfies this (via its EnsureRange method); retry
// does not import package source directly so that it stays usable with
// other range-gated byte sources.
type Ranger interface {
	EnsureRange(pos, length int64) error
}

// Missing is implemented by errors that name the byte range they could not
// satisfy, such as *source.DataMissingError.
type Missing interface {
	error
	Range() (pos, length int64)
}

// MaxAttempts bounds how many times Do will retry a single operation before
// giving up, as a backstop against an operation that keeps reporting the
// same range missing (e.g. a Ranger that can never load it).
const MaxAttempts = 64

// Do runs op, and if it fails with an error reporting a missing byte range,
// calls r.EnsureRange for that range and retries, up to MaxAttempts times.
// Any other error, or a Missing error after MaxAttempts retries, is
// returned to the caller unchanged (wrapped, for the latter case).
func Do[T any](r Ranger, op func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	for attempt := 0; attempt < MaxAttempts; attempt++ {
		val, err := op()
		if err == nil {
			return val, nil
		}
		m, ok := asMissing(err)
		if !ok {
			return zero, err
		}
		lastErr = err
		pos, length := m.Range()
		if ensureErr := r.EnsureRange(pos, length); ensureErr != nil {
			return zero, ensureErr
		}
	}
	return zero, fmt.Errorf("retry: gave up after %d attempts: %w", MaxAttempts, lastErr)
}

func asMissing(err error) (Missing, bool) {
	type unwrapper interface{ Unwrap() error }
	for err != nil {
		if m, ok := err.(Missing); ok {
			return m, true
		}
		u, ok := err.(unwrapper)
		if !ok {
			return nil, false
		}
		err = u.Unwrap()
	}
	return nil, false
}
