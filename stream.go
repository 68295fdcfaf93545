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

package pdf

import "io"

// Stream is a PDF stream object: a dictionary together with a sequence of
// raw (still filter-encoded) bytes.
type Stream struct {
	Dict Dict
	R    io.Reader
}

func (s *Stream) PDF(w io.Writer) error {
	return s.Dict.PDF(w)
}

// GetStream resolves obj and returns it as a *Stream.
func GetStream(r Getter, obj Object) (*Stream, error) {
	obj, err := Resolve(r, obj)
	if err != nil {
		return nil, err
	}
	switch x := obj.(type) {
	case *Stream:
		return x, nil
	case nil:
		return nil, nil
	default:
		return nil, &MalformedFileError{Err: errNotAStream(obj)}
	}
}

type notAStreamError struct{ got Object }

func (e *notAStreamError) Error() string {
	return "expected Stream object"
}

func errNotAStream(obj Object) error {
	return &notAStreamError{obj}
}

// DecodeStream returns a reader for the fully decoded (filter-pipeline
// applied) content of s. numFilters limits how many of the stream's
// filters are applied (0 means "apply them all"); this lets callers such as
// the cross-reference-stream reader stop before, e.g., a final
// Crypt filter they handle separately.
func DecodeStream(r Getter, s *Stream, numFilters int) (io.Reader, error) {
	filters, err := extractFilters(r, s.Dict)
	if err != nil {
		return nil, err
	}
	if numFilters > 0 && numFilters < len(filters) {
		filters = filters[:numFilters]
	}

	cur := s.R
	for _, f := range filters {
		cur, err = f.Decode(cur)
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}
