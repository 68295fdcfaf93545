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

// Getter is anything that can resolve indirect references into objects.
// *Document implements Getter.
type Getter interface {
	// GetMeta returns metadata about the underlying file.
	GetMeta() *MetaInfo

	// Get reads the object stored at ref. canObjStm controls whether the
	// object may be satisfied from an object stream; this should normally
	// be true, and is set to false only while decoding object streams
	// themselves, to avoid infinite recursion.
	Get(ref Reference, canObjStm bool) (Object, error)
}

// MetaInfo carries document-wide information needed while resolving and
// decoding objects.
type MetaInfo struct {
	Version Version
}

const maxRefDepth = 32

// Resolve follows a (possibly empty) chain of indirect references and
// returns the first non-Reference object found. If obj is not a Reference,
// it is returned unchanged.
func Resolve(r Getter, obj Object) (Object, error) {
	if obj == nil {
		return nil, nil
	}
	ref, isRef := obj.(Reference)
	if !isRef {
		return obj, nil
	}

	orig := ref
	for depth := 0; ; depth++ {
		if depth >= maxRefDepth {
			return nil, &MalformedFileError{Err: errLoop(orig)}
		}
		next, err := r.Get(ref, true)
		if err != nil {
			return nil, err
		}
		ref, isRef = next.(Reference)
		if !isRef {
			return next, nil
		}
	}
}

func errLoop(ref Reference) error {
	return &referenceLoopError{ref}
}

type referenceLoopError struct {
	ref Reference
}

func (e *referenceLoopError) Error() string {
	return "too many levels of indirection resolving " + e.ref.String()
}
