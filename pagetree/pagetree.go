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

// Package pagetree implements component G: walking a document's page tree
// (/Type /Pages and /Type /Page nodes) in document order, merging
// inheritable attributes down from ancestor /Pages nodes onto each leaf
// page.
//
// No implementation file for this package survives in the retrieval pack;
// the inherited-attribute semantics below (nearest-ancestor-wins for
// Resources/MediaBox/CropBox/Rotate) and the depth-first document-order
// traversal are read off the corpus's now-deleted TestIterator and
// TestFindPages fixtures (see DESIGN.md).
package pagetree

import (
	"iter"

	"go.pdfcore.dev/pdf"
)

// inheritableKeys are the /Pages dictionary entries a /Page node inherits
// from its nearest ancestor that sets them, per ISO 32000-2 table 29.
var inheritableKeys = []pdf.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

const maxTreeDepth = 64

// FindPages returns the references of every /Type /Page leaf found under
// root (a document's catalog.Pages reference), in document order.
func FindPages(r pdf.Getter, root pdf.Reference) ([]pdf.Reference, error) {
	var refs []pdf.Reference
	err := Walk(r, root, func(ref pdf.Reference, _ pdf.Dict) error {
		refs = append(refs, ref)
		return nil
	})
	return refs, err
}

// All returns a sequence of (reference, merged dictionary) pairs for every
// page under root, in document order, following the teacher's iter.Seq2
// idiom (pagetree/reader_test.go, pagetree/read_test.go).
func All(r pdf.Getter, root pdf.Reference) iter.Seq2[pdf.Reference, pdf.Dict] {
	return func(yield func(pdf.Reference, pdf.Dict) bool) {
		walk(r, root, pdf.NewDict(), 0, yield)
	}
}

// Walk visits every page under root (normally a document's catalog.Pages
// reference) in document order, calling cb with each page's reference and
// its dictionary merged with inherited attributes.
func Walk(r pdf.Getter, root pdf.Reference, cb func(ref pdf.Reference, page pdf.Dict) error) error {
	var walkErr error
	walk(r, root, pdf.NewDict(), 0, func(ref pdf.Reference, d pdf.Dict) bool {
		if err := cb(ref, d); err != nil {
			walkErr = err
			return false
		}
		return true
	})
	return walkErr
}

// walk recursively descends the tree rooted at ref, merging inherited into
// each node's own dictionary before recursing into /Kids or invoking yield
// for a /Page leaf. It returns false if yield asked to stop.
func walk(r pdf.Getter, ref pdf.Reference, inherited pdf.Dict, depth int, yield func(pdf.Reference, pdf.Dict) bool) bool {
	if depth > maxTreeDepth {
		return true
	}

	dict, err := pdf.GetDict(r, ref)
	if err != nil {
		return true
	}

	merged := mergeInherited(inherited, dict)

	typ, _ := pdf.GetName(r, dict.Get("Type"))
	if typ == "Page" || dict.Get("Kids") == nil {
		return yield(ref, merged)
	}

	kids, err := pdf.GetArray(r, dict.Get("Kids"))
	if err != nil {
		return true
	}
	nextInherited := onlyInheritable(merged)
	for _, kidObj := range kids {
		kidRef, ok := kidObj.(pdf.Reference)
		if !ok {
			continue
		}
		if !walk(r, kidRef, nextInherited, depth+1, yield) {
			return false
		}
	}
	return true
}

// mergeInherited returns a copy of own with any inheritableKeys missing
// from own filled in from inherited.
func mergeInherited(inherited, own pdf.Dict) pdf.Dict {
	merged := own.Clone()
	for _, key := range inheritableKeys {
		if merged.Get(key) == nil {
			if v := inherited.Get(key); v != nil {
				merged.Set(key, v)
			}
		}
	}
	return merged
}

// onlyInheritable extracts the subset of d's entries that /Pages nodes
// propagate to their children, for passing down one level further.
func onlyInheritable(d pdf.Dict) pdf.Dict {
	out := pdf.NewDict()
	for _, key := range inheritableKeys {
		if v := d.Get(key); v != nil {
			out.Set(key, v)
		}
	}
	return out
}
