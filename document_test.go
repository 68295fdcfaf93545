// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf_test

import (
	"io"
	"testing"

	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/internal/testpdf"
	"go.pdfcore.dev/pdf/source"
)

// TestOpenMinimalOnePageDocument exercises the spec's first end-to-end
// scenario: open a minimal one-page document, read its page count, media
// box, and content stream back out.
func TestOpenMinimalOnePageDocument(t *testing.T) {
	src := source.NewMemorySource(testpdf.HelloWorld())
	doc, err := pdf.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	n, err := doc.PageCount()
	if err != nil {
		t.Fatalf("PageCount: %v", err)
	}
	if n != 1 {
		t.Fatalf("PageCount = %d, want 1", n)
	}

	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0): %v", err)
	}

	box, err := page.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox: %v", err)
	}
	want := pdf.Rectangle{LLx: 0, LLy: 0, URx: 200, URy: 100}
	if box != want {
		t.Errorf("MediaBox = %+v, want %+v", box, want)
	}

	r, err := page.Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading content stream: %v", err)
	}
	const want0 = "BT /F1 24 Tf 10 50 Td (Hello, World!) Tj ET"
	if string(body) != want0+" " {
		t.Errorf("Contents = %q, want %q", body, want0+" ")
	}
}

// TestIncrementalUpdateXRefChaining exercises the spec's incremental-update
// scenario: a second xref section, chained via /Prev, overrides one object
// while leaving the rest of the file's objects reachable through the
// original section.
func TestIncrementalUpdateXRefChaining(t *testing.T) {
	src := source.NewMemorySource(testpdf.IncrementalUpdate())
	doc, err := pdf.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0): %v", err)
	}

	box, err := page.MediaBox()
	if err != nil {
		t.Fatalf("MediaBox: %v", err)
	}
	want := pdf.Rectangle{LLx: 0, LLy: 0, URx: 400, URy: 100}
	if box != want {
		t.Errorf("MediaBox = %+v, want %+v (the revised object should win)", box, want)
	}

	// Object 5 (the content stream) was never touched by the update and must
	// still resolve through the original (/Prev-chained) xref section.
	r, err := page.Contents()
	if err != nil {
		t.Fatalf("Contents: %v", err)
	}
	body, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("reading content stream: %v", err)
	}
	const want0 = "BT /F1 24 Tf 10 50 Td (Hello, World!) Tj ET"
	if string(body) != want0+" " {
		t.Errorf("Contents = %q, want %q", body, want0+" ")
	}
}

func TestPageOutOfRange(t *testing.T) {
	src := source.NewMemorySource(testpdf.HelloWorld())
	doc, err := pdf.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if _, err := doc.Page(1); err == nil {
		t.Error("Page(1): expected an error for an out-of-range index")
	}
}
