// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"fmt"
	"io"
	"strings"
)

// Rectangle is a PDF rectangle, [llx lly urx ury], not necessarily
// normalized (PDF allows either corner to be given first).
type Rectangle struct {
	LLx, LLy, URx, URy float64
}

// GetRectangle resolves obj and reads it as a four-element numeric array.
func GetRectangle(r Getter, obj Object) (Rectangle, error) {
	arr, err := GetArray(r, obj)
	if err != nil {
		return Rectangle{}, err
	}
	if len(arr) != 4 {
		return Rectangle{}, &MalformedFileError{Err: errNoRectangle}
	}
	vals := make([]float64, 4)
	for i, elem := range arr {
		n, err := GetNumber(r, elem)
		if err != nil {
			return Rectangle{}, &MalformedFileError{Err: errNoRectangle}
		}
		vals[i] = float64(n)
	}
	return Rectangle{LLx: vals[0], LLy: vals[1], URx: vals[2], URy: vals[3]}, nil
}

// inheritableKeys are the /Pages node attributes a leaf /Page node inherits
// from its ancestors when it does not set them itself (PDF 32000-2 table 29).
var inheritableKeys = []Name{"Resources", "MediaBox", "CropBox", "Rotate"}

const maxPageTreeDepth = 64

// Page is one leaf of a document's page tree, together with the attributes
// (/Resources, /MediaBox, /CropBox, /Rotate) inherited from its ancestors.
//
// Document.Page/PageCount duplicate the minimal page-tree descent that
// package pagetree also provides as a standalone iterator; pdf cannot
// import pagetree itself (pagetree imports pdf for Getter/Dict/Reference,
// so the reverse import would cycle), so the handful of lines needed to
// turn an index into a leaf live here instead. Callers who already have a
// Getter and a page-tree root reference in hand (cmd/pdfinspect) use
// package pagetree directly.
type Page struct {
	doc   *Document
	Ref   Reference
	Own   Dict
	attrs Dict // merged inherited + own inheritable attributes
}

// PageCount returns the number of leaf pages in the document's page tree.
func (d *Document) PageCount() (int, error) {
	root, err := d.pagesRoot()
	if err != nil {
		return 0, err
	}
	n := 0
	err = walkPageTree(d, root, NewDict(), 0, func(Reference, Dict, Dict) error {
		n++
		return nil
	})
	return n, err
}

// Page returns the index'th leaf page (0-based, in document order).
func (d *Document) Page(index int) (*Page, error) {
	if index < 0 {
		return nil, &MalformedFileError{Err: fmt.Errorf("negative page index %d", index)}
	}
	root, err := d.pagesRoot()
	if err != nil {
		return nil, err
	}

	var found *Page
	i := 0
	err = walkPageTree(d, root, NewDict(), 0, func(ref Reference, own, attrs Dict) error {
		if i == index {
			found = &Page{doc: d, Ref: ref, Own: own, attrs: attrs}
			return errStopWalk
		}
		i++
		return nil
	})
	if err == errStopWalk {
		err = nil
	}
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, &MalformedFileError{Err: fmt.Errorf("page index %d out of range", index)}
	}
	return found, nil
}

var errStopWalk = fmt.Errorf("stop page tree walk")

func (d *Document) pagesRoot() (Reference, error) {
	cat, err := d.Catalog()
	if err != nil {
		return Reference{}, err
	}
	return cat.Pages, nil
}

// walkPageTree visits every leaf /Page node under root in document order,
// merging in the inherited attributes as it descends.
func walkPageTree(r Getter, root Reference, inherited Dict, depth int, yield func(ref Reference, own, attrs Dict) error) error {
	if depth > maxPageTreeDepth {
		return &MalformedFileError{Err: fmt.Errorf("page tree nested too deeply (possible cycle)")}
	}

	node, err := GetDict(r, root)
	if err != nil {
		return err
	}

	merged := inherited.Clone()
	for _, k := range inheritableKeys {
		if v := node.Get(k); v != nil {
			merged.Set(k, v)
		}
	}

	typ, _ := GetName(r, node.Get("Type"))
	if typ == "Page" {
		return yield(root, node, merged)
	}

	kids, err := GetArray(r, node.Get("Kids"))
	if err != nil {
		return err
	}
	for _, kidObj := range kids {
		ref, ok := kidObj.(Reference)
		if !ok {
			return &MalformedFileError{Err: fmt.Errorf("page tree kid is not an indirect reference")}
		}
		if err := walkPageTree(r, ref, merged, depth+1, yield); err != nil {
			return err
		}
	}
	return nil
}

// MediaBox returns the page's media box, inherited from an ancestor /Pages
// node if the page itself does not set one.
func (p *Page) MediaBox() (Rectangle, error) {
	return GetRectangle(p.doc, p.attrs.Get("MediaBox"))
}

// CropBox returns the page's crop box, falling back to MediaBox if neither
// the page nor its ancestors set one.
func (p *Page) CropBox() (Rectangle, error) {
	if p.attrs.Get("CropBox") == nil {
		return p.MediaBox()
	}
	return GetRectangle(p.doc, p.attrs.Get("CropBox"))
}

// Rotate returns the page's rotation, one of 0, 90, 180, 270 degrees
// clockwise, inherited if the page itself does not set one.
func (p *Page) Rotate() (int64, error) {
	if p.attrs.Get("Rotate") == nil {
		return 0, nil
	}
	return GetInteger(p.doc, p.attrs.Get("Rotate"))
}

// Resources returns the page's resource dictionary, inherited from an
// ancestor /Pages node if the page itself does not set one.
func (p *Page) Resources() (Dict, error) {
	return GetDict(p.doc, p.attrs.Get("Resources"))
}

// Dict returns the page's own (pre-inheritance) dictionary.
func (p *Page) Dict() Dict {
	return p.Own
}

// Getter exposes the document this page belongs to, so helper packages
// (content, extract, render) can resolve references on it without needing
// a *Document of their own.
func (p *Page) Getter() Getter {
	return p.doc
}

// Contents returns a reader over the page's fully decoded content stream,
// concatenating the parts of a /Contents array with an intervening space
// (required so that a token split across two streams, e.g. "Tj" cut from
// its operand, doesn't get glued into one word).
func (p *Page) Contents() (io.Reader, error) {
	contents, err := Resolve(p.doc, p.Own.Get("Contents"))
	if err != nil {
		return nil, err
	}

	var readers []io.Reader
	addStream := func(s *Stream) error {
		dr, err := DecodeStream(p.doc, s, 0)
		if err != nil {
			return err
		}
		readers = append(readers, dr, strings.NewReader(" "))
		return nil
	}

	switch c := contents.(type) {
	case *Stream:
		if err := addStream(c); err != nil {
			return nil, err
		}
	case Array:
		for _, elem := range c {
			s, err := GetStream(p.doc, elem)
			if err != nil {
				return nil, err
			}
			if s == nil {
				continue
			}
			if err := addStream(s); err != nil {
				return nil, err
			}
		}
	case nil:
		// A page with no /Contents simply has nothing to draw.
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("unexpected type %T for /Contents", contents)}
	}

	return io.MultiReader(readers...), nil
}
