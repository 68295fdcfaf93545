// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package source

import (
	"errors"
	"testing"
)

// countingLoader serves fixed-size chunks out of a synthetic length, and
// counts how many times each chunk number has been fetched.
type countingLoader struct {
	length int64
	calls  map[int]int
}

func (l *countingLoader) Length() int64 { return l.length }

// Synchronous marks countingLoader as a SynchronousLoader: like the real
// memoryLoader/fileLoader it fakes, LoadChunk here is pure local
// computation, never a network call, so TestChunkEviction's evicted-chunk
// re-fetch through ReadAt can still happen inline.
func (l *countingLoader) Synchronous() {}

func (l *countingLoader) LoadChunk(n int) ([]byte, error) {
	if l.calls == nil {
		l.calls = make(map[int]int)
	}
	l.calls[n]++
	buf := make([]byte, DefaultChunkSize)
	for i := range buf {
		buf[i] = byte(n)
	}
	return buf, nil
}

// TestChunkEviction exercises the spec's eviction scenario: a 10 MiB
// source with 1 KiB chunks and a cache capacity of one chunk. Evicting a
// chunk must not un-mark it as loaded (HasRange stays true), but a later
// ReadAt over it must re-fetch from the loader since the bytes themselves
// are gone from the cache.
func TestChunkEviction(t *testing.T) {
	const chunkSize = 1024
	const length = 10 * 1024 * 1024
	loader := &countingLoader{length: length}
	cs := NewChunkSource(loader, chunkSize, 1)

	if err := cs.EnsureRange(0, 1); err != nil {
		t.Fatalf("EnsureRange(chunk 0): %v", err)
	}
	if err := cs.EnsureRange(5*chunkSize, 1); err != nil {
		t.Fatalf("EnsureRange(chunk 5): %v", err)
	}

	// Capacity 1: loading chunk 5 evicted chunk 0 from the residency
	// cache, but chunk 0 is still marked loaded.
	if !cs.HasRange(0, 1) {
		t.Error("HasRange(chunk 0) = false after eviction, want true (loaded bit must survive eviction)")
	}
	if loader.calls[0] != 1 {
		t.Fatalf("chunk 0 fetched %d times before re-read, want 1", loader.calls[0])
	}

	buf := make([]byte, 4)
	n, err := cs.ReadAt(buf, 0)
	if err != nil {
		t.Fatalf("ReadAt(chunk 0) after eviction: %v", err)
	}
	if n != len(buf) {
		t.Fatalf("ReadAt returned %d bytes, want %d", n, len(buf))
	}
	if loader.calls[0] != 2 {
		t.Errorf("chunk 0 re-fetched %d times, want 2 (one initial load, one re-fetch after eviction)", loader.calls[0])
	}
}

// asyncCountingLoader stands in for a network-backed loader like
// httpLoader: LoadChunk is still cheap here, but ReadAt must treat it as one
// that could block. Embedding countingLoader also promotes its Synchronous
// marker, so the test hands it to NewChunkSource wrapped in a struct that
// exposes only the Loader methods.
type asyncCountingLoader struct {
	countingLoader
}

// TestAsyncLoaderEvictionReturnsDataMissing exercises the bug this fixes:
// ReadAt over a loaded-but-evicted chunk must not call an asynchronous
// Loader's (potentially blocking) LoadChunk inline - it must report
// DataMissing and let EnsureRange perform the fetch instead.
func TestAsyncLoaderEvictionReturnsDataMissing(t *testing.T) {
	const chunkSize = 1024
	const length = 10 * 1024 * 1024
	loader := &asyncCountingLoader{countingLoader{length: length}}
	cs := NewChunkSource(struct{ Loader }{loader}, chunkSize, 1)

	if err := cs.EnsureRange(0, 1); err != nil {
		t.Fatalf("EnsureRange(chunk 0): %v", err)
	}
	if err := cs.EnsureRange(5*chunkSize, 1); err != nil {
		t.Fatalf("EnsureRange(chunk 5): %v", err)
	}
	if !cs.HasRange(0, 1) {
		t.Fatal("HasRange(chunk 0) = false after eviction, want true")
	}

	buf := make([]byte, 4)
	_, err := cs.ReadAt(buf, 0)
	var missing *DataMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("ReadAt over evicted chunk of an async loader returned %v (%T), want *DataMissingError", err, err)
	}
	if loader.calls[0] != 1 {
		t.Errorf("ReadAt called LoadChunk inline (calls=%d), want 1 (no re-fetch without EnsureRange)", loader.calls[0])
	}

	if err := cs.EnsureRange(0, 1); err != nil {
		t.Fatalf("EnsureRange(chunk 0) after DataMissing: %v", err)
	}
	if n, err := cs.ReadAt(buf, 0); err != nil || n != len(buf) {
		t.Fatalf("ReadAt(chunk 0) after EnsureRange: n=%d err=%v", n, err)
	}
}

// TestDataMissingError checks that reading an unloaded range returns
// *DataMissingError describing the missing span, rather than blocking.
func TestDataMissingError(t *testing.T) {
	loader := &countingLoader{length: 10 * DefaultChunkSize}
	cs := NewChunkSource(loader, 0, 0)

	buf := make([]byte, 16)
	_, err := cs.ReadAt(buf, 5*DefaultChunkSize)
	var missing *DataMissingError
	if !errors.As(err, &missing) {
		t.Fatalf("ReadAt returned %v (%T), want *DataMissingError", err, err)
	}
	if missing.Pos != 5*DefaultChunkSize || missing.Len != int64(len(buf)) {
		t.Errorf("DataMissingError = %+v, want Pos=%d Len=%d", missing, 5*DefaultChunkSize, len(buf))
	}
}
