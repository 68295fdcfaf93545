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

import (
	"fmt"
	"io"

	"go.pdfcore.dev/pdf/retry"
	"go.pdfcore.dev/pdf/source"
)

// Document is an opened PDF file: a chunked byte source, the
// cross-reference table built from it, and caches for resolved objects and
// decoded object streams.
//
// Adapted from the teacher's data.go (Data/Read/Get/GetMeta), generalized
// from an io.ReadSeeker-only model to one that retries through a
// source.ChunkSource (component A) via package retry (component J), so
// that a Document can be driven incrementally against a partially loaded
// file.
type Document struct {
	src  *source.ChunkSource
	rs   io.ReadSeeker
	meta MetaInfo

	xref *xrefTable

	cache   *lruCache
	objStms map[uint32]*objStmContents
}

// GetMeta implements Getter.
func (d *Document) GetMeta() *MetaInfo {
	return &d.meta
}

// Open parses the cross-reference chain of a Document backed by src and
// returns it. Open itself only needs the file header and the xref chain,
// so it will typically succeed even over a ChunkSource that has loaded
// only its first and last chunks.
func Open(src *source.ChunkSource) (*Document, error) {
	d := &Document{
		src:     src,
		rs:      newChunkReadSeeker(src),
		cache:   newCache(minCacheCapacity),
		objStms: make(map[uint32]*objStmContents),
	}

	version, err := retry.Do(src, func() (Version, error) {
		return d.readHeader()
	})
	if err != nil {
		return nil, err
	}
	d.meta.Version = version

	length := src.Length()
	if length < 0 {
		return nil, &MalformedFileError{Err: fmt.Errorf("source length is unknown")}
	}

	startOffset, err := retry.Do(src, func() (int64, error) {
		return findStartXRef(src, length)
	})
	if err != nil {
		return nil, err
	}

	table, err := retry.Do(src, func() (*xrefTable, error) {
		return readXRefChain(d.rs, d, startOffset)
	})
	if err != nil {
		return nil, err
	}
	d.xref = table

	// The cache was opened at minCacheCapacity before the xref table's size
	// was known (resolving indirect /Length entries while parsing the xref
	// stream itself can already populate it). Now that the object count is
	// known, resize it to fit the document instead of carrying the
	// teacher's fixed 1024-entry cache for every file regardless of size:
	// a 20-object form doesn't need 1024 LRU slots, and a multi-thousand
	// object scanned archive benefits from more than that.
	if want := cacheCapacityForObjectCount(len(table.entries)); want != d.cache.capacity {
		resized := newCache(want)
		for ref, ent := range d.cache.entries {
			resized.Put(ref, ent.obj)
		}
		d.cache = resized
	}

	if table.trailer.Get("Encrypt") != nil {
		return nil, &AuthenticationError{}
	}

	return d, nil
}

// minCacheCapacity bounds the placeholder cache used while the xref table
// is still being parsed.
const minCacheCapacity = 64

// cacheCapacityForObjectCount scales the object cache to the document's
// size, instead of the teacher's one-size-fits-all newCache(1024): a
// handful of objects doesn't need a 1024-entry LRU, and a document with
// tens of thousands of objects benefits from a larger one.
func cacheCapacityForObjectCount(n int) int {
	const min, max = minCacheCapacity, 8192
	c := n / 4
	if c < min {
		c = min
	}
	if c > max {
		c = max
	}
	return c
}

func (d *Document) readHeader() (Version, error) {
	buf := make([]byte, 16)
	n, err := d.src.ReadAt(buf, 0)
	if err != nil {
		return 0, err
	}
	buf = buf[:n]
	if len(buf) < 8 || string(buf[:5]) != "%PDF-" {
		return 0, &MalformedFileError{Err: fmt.Errorf("missing %%PDF- header")}
	}
	end := 8
	for end < len(buf) && classOf(buf[end]) == classRegular {
		end++
	}
	return ParseVersion(string(buf[5:end]))
}

// Get implements Getter: it resolves a reference to the object stored at
// it, using the cross-reference table to find the object either directly
// (by byte offset) or inside an object stream.
func (d *Document) Get(ref Reference, canObjStm bool) (Object, error) {
	if obj, ok := d.cache.Get(ref); ok {
		return obj, nil
	}

	entry, ok := d.xref.entries[ref.Number]
	if !ok || !entry.inUse {
		return nil, nil
	}

	var obj Object
	var err error
	if entry.objStm != 0 {
		if !canObjStm {
			return nil, &MalformedFileError{Err: fmt.Errorf("object %s unexpectedly stored in an object stream", ref)}
		}
		obj, err = retry.Do(d.src, func() (Object, error) {
			return d.getFromObjStm(entry.objStm, ref.Number)
		})
	} else {
		obj, err = retry.Do(d.src, func() (Object, error) {
			return d.getAtOffset(entry.offset)
		})
	}
	if err != nil {
		return nil, err
	}

	d.cache.Put(ref, obj)
	return obj, nil
}

func (d *Document) getAtOffset(offset int64) (Object, error) {
	if _, err := d.rs.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	p := newParser(d.rs, d)
	_, obj, err := p.ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	return obj, nil
}

func (d *Document) getFromObjStm(stmNum, objNum uint32) (Object, error) {
	stmContents, ok := d.objStms[stmNum]
	if !ok {
		stmObj, err := d.Get(Reference{Number: stmNum}, false)
		if err != nil {
			return nil, err
		}
		stm, ok := stmObj.(*Stream)
		if !ok {
			return nil, &MalformedFileError{Err: fmt.Errorf("object %d is not an object stream", stmNum)}
		}
		stmContents, err = decodeObjStm(d, stm)
		if err != nil {
			return nil, err
		}
		d.objStms[stmNum] = stmContents
	}
	return stmContents.get(d, objNum)
}

// Catalog returns the document's root catalog.
func (d *Document) Catalog() (*Catalog, error) {
	return ExtractCatalog(d, d.xref.trailer.Get("Root"))
}

// Info returns the document's information dictionary, or an empty Dict if
// none is present.
func (d *Document) Info() (Dict, error) {
	return GetDict(d, d.xref.trailer.Get("Info"))
}

// chunkReadSeeker adapts a source.ChunkSource into an io.ReadSeeker.
// Reads that hit a gap surface *source.DataMissingError, exactly as
// ChunkSource.ReadAt does; callers that need to ride through a gap should
// drive this type through retry.Do rather than calling Read directly.
type chunkReadSeeker struct {
	src *source.ChunkSource
	pos int64
}

func newChunkReadSeeker(src *source.ChunkSource) *chunkReadSeeker {
	return &chunkReadSeeker{src: src}
}

func (c *chunkReadSeeker) Read(p []byte) (int, error) {
	n, err := c.src.ReadAt(p, c.pos)
	c.pos += int64(n)
	if err == io.ErrUnexpectedEOF && n > 0 {
		err = nil
	}
	return n, err
}

func (c *chunkReadSeeker) Seek(offset int64, whence int) (int64, error) {
	switch whence {
	case io.SeekStart:
		c.pos = offset
	case io.SeekCurrent:
		c.pos += offset
	case io.SeekEnd:
		c.pos = c.src.Length() + offset
	}
	return c.pos, nil
}
