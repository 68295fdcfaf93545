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

// Package source implements component A of the reader: a chunked,
// progressively loadable byte source with a bounded-memory LRU chunk cache.
//
// Design is ported from original_source/src/core/chunk_manager.rs
// (ChunkManager/ChunkLoader), translated into Go idiom with a slice that
// keeps chunk numbers in least-recently-used order. The key invariant
// carried over from the Rust original: evicting a chunk from the cache
// must not un-mark it as loaded. A ChunkSource answers "do I have byte
// range [pos,pos+n) yet?" and, if not, returns a DataMissingError rather
// than blocking, so a caller (typically pdf.Document via package retry)
// can request the range and retry.
package source

import (
	"errors"
	"fmt"
	"io"
	"sync"
)

// DataMissingError is returned by ChunkSource.ReadAt (and by anything built
// on top of it) when satisfying a read would require bytes that have not
// been loaded yet. Package retry catches this, calls EnsureRange, and
// retries the operation that produced it.
type DataMissingError struct {
	Pos int64
	Len int64
}

func (err *DataMissingError) Error() string {
	return fmt.Sprintf("data missing at byte %d (%d bytes requested)", err.Pos, err.Len)
}

// Range implements retry.Missing.
func (err *DataMissingError) Range() (pos, length int64) {
	return err.Pos, err.Len
}

// Unwrap returns ErrDataMissing, so errors.Is(err, ErrDataMissing) matches.
func (err *DataMissingError) Unwrap() error {
	return ErrDataMissing
}

// DefaultChunkSize matches the Rust original's DEFAULT_CHUNK_SIZE.
const DefaultChunkSize = 65536

// DefaultMaxCachedChunks matches the Rust original's
// DEFAULT_MAX_CACHED_CHUNKS.
const DefaultMaxCachedChunks = 10

// Loader supplies chunk data on demand, e.g. by issuing an HTTP range
// request or reading from a local file. It corresponds to the Rust
// original's ChunkLoader trait.
type Loader interface {
	// Length returns the total length of the underlying byte stream, or -1
	// if it is not yet known.
	Length() int64

	// LoadChunk returns the bytes of chunk number n (n*chunkSize, capped at
	// Length()). It may block.
	LoadChunk(n int) ([]byte, error)
}

// SynchronousLoader is implemented by a Loader whose LoadChunk only ever
// touches already-resident memory or the local filesystem - never the
// network - so calling it inline from ReadAt cannot stall the caller for
// an unbounded time. memoryLoader and fileLoader implement it; httpLoader
// does not, since its LoadChunk issues a blocking HTTP range request.
//
// ReadAt consults this to decide how to handle a loaded-but-evicted chunk:
// a synchronous loader re-fetches inline, while an asynchronous one
// reports *DataMissingError instead, so the retry harness's EnsureRange
// call (not ReadAt) is what performs the blocking fetch - matching the
// "synchronous store loads inline, otherwise fails with DataMissing"
// policy.
type SynchronousLoader interface {
	Loader
	Synchronous()
}

// ChunkSource is a random-access byte source that may only have part of its
// data loaded at any given time. ReadAt returns a *DataMissingError
// when the requested range has not been loaded yet.
type ChunkSource struct {
	mu sync.Mutex

	loader    Loader
	chunkSize int
	length    int64 // -1 if unknown

	cache     map[int][]byte
	loaded    map[int]bool
	lru       []int // most-recently-used last
	maxCached int
}

// NewChunkSource wraps loader in a ChunkSource with the given chunk size
// and cache capacity (in chunks). A chunkSize or maxCachedChunks of 0
// selects the package defaults.
func NewChunkSource(loader Loader, chunkSize, maxCachedChunks int) *ChunkSource {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	if maxCachedChunks <= 0 {
		maxCachedChunks = DefaultMaxCachedChunks
	}
	return &ChunkSource{
		loader:    loader,
		chunkSize: chunkSize,
		length:    loader.Length(),
		cache:     make(map[int][]byte),
		loaded:    make(map[int]bool),
		maxCached: maxCachedChunks,
	}
}

// Length returns the total length of the source, or -1 if unknown.
func (c *ChunkSource) Length() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.length
}

func (c *ChunkSource) chunkNumber(pos int64) int {
	return int(pos / int64(c.chunkSize))
}

// NumChunks returns the number of chunks needed to cover the whole source.
func (c *ChunkSource) NumChunks() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.length < 0 {
		return 0
	}
	n := int(c.length / int64(c.chunkSize))
	if c.length%int64(c.chunkSize) != 0 {
		n++
	}
	return n
}

// HasRange reports whether every byte in [pos, pos+n) is currently loaded.
func (c *ChunkSource) HasRange(pos, n int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hasRangeLocked(pos, n)
}

func (c *ChunkSource) hasRangeLocked(pos, n int64) bool {
	if n <= 0 {
		return true
	}
	start := c.chunkNumber(pos)
	end := c.chunkNumber(pos + n - 1)
	for i := start; i <= end; i++ {
		if !c.loaded[i] {
			return false
		}
	}
	return true
}

// EnsureRange makes sure every byte in [pos, pos+n) is loaded, fetching
// whichever chunks are not resident in the cache (never loaded, or loaded
// and since evicted) via the Loader. This is the operation the retry
// package calls after catching a DataMissingError.
func (c *ChunkSource) EnsureRange(pos, n int64) error {
	c.mu.Lock()
	start := c.chunkNumber(pos)
	end := c.chunkNumber(pos + n - 1)
	var missing []int
	for i := start; i <= end; i++ {
		if _, resident := c.cache[i]; !resident {
			missing = append(missing, i)
		}
	}
	c.mu.Unlock()

	for _, i := range missing {
		data, err := c.loader.LoadChunk(i)
		if err != nil {
			return err
		}
		c.onReceiveChunk(i, data)
	}
	return nil
}

// onReceiveChunk records chunk i's data as loaded, evicting the
// least-recently-used chunk from the cache if that exceeds maxCached.
// Eviction removes a chunk from the residency cache only: the "loaded" bit
// stays set forever, exactly as chunk_manager.rs's on_receive_data does, so
// HasRange keeps reporting the range as loaded, and a later ReadAt over it
// re-fetches inline when the Loader is a SynchronousLoader (otherwise it
// reports DataMissingError and EnsureRange re-fetches).
func (c *ChunkSource) onReceiveChunk(i int, data []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[i] = data
	c.loaded[i] = true
	c.touch(i)

	for len(c.lru) > c.maxCached {
		oldest := c.lru[0]
		c.lru = c.lru[1:]
		delete(c.cache, oldest)
	}
}

func (c *ChunkSource) touch(i int) {
	for j, k := range c.lru {
		if k == i {
			c.lru = append(c.lru[:j], c.lru[j+1:]...)
			break
		}
	}
	c.lru = append(c.lru, i)
}

// ErrDataMissing is returned, wrapped in *DataMissingError, by ReadAt
// when the requested range is not currently resident.
var ErrDataMissing = errors.New("data not loaded")

// ReadAt implements io.ReaderAt. If any part of [off, off+len(p)) has never
// been loaded, it returns a *DataMissingError instead of blocking;
// callers should use package retry (or call EnsureRange directly) and
// retry the read.
func (c *ChunkSource) ReadAt(p []byte, off int64) (int, error) {
	c.mu.Lock()
	if !c.hasRangeLocked(off, int64(len(p))) {
		c.mu.Unlock()
		return 0, &DataMissingError{Pos: off, Len: int64(len(p))}
	}

	start := c.chunkNumber(off)
	end := c.chunkNumber(off + int64(len(p)) - 1)
	n := 0
	for i := start; i <= end; i++ {
		chunk, ok := c.cache[i]
		if !ok {
			// Loaded but evicted from the residency cache. A synchronous
			// loader (memory, local file) can safely re-fetch inline; an
			// asynchronous one (for example httpLoader) must not block the
			// caller here, so it reports DataMissing and leaves the fetch
			// to a subsequent EnsureRange call.
			if _, ok := c.loader.(SynchronousLoader); !ok {
				c.mu.Unlock()
				return n, &DataMissingError{Pos: off, Len: int64(len(p))}
			}
			c.mu.Unlock()
			data, err := c.loader.LoadChunk(i)
			if err != nil {
				return n, err
			}
			c.onReceiveChunk(i, data)
			c.mu.Lock()
			chunk = c.cache[i]
		}

		chunkStart := int64(i) * int64(c.chunkSize)
		srcOff := off + int64(n) - chunkStart
		if srcOff < 0 {
			srcOff = 0
		}
		avail := int64(len(chunk)) - srcOff
		if avail <= 0 {
			break
		}
		want := int64(len(p) - n)
		if avail < want {
			want = avail
		}
		copy(p[n:], chunk[srcOff:srcOff+want])
		n += int(want)
	}
	c.mu.Unlock()

	if n < len(p) {
		return n, io.ErrUnexpectedEOF
	}
	return n, nil
}

var _ io.ReaderAt = (*ChunkSource)(nil)
