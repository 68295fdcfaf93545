// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package extract_test

import (
	"testing"

	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/extract"
	"go.pdfcore.dev/pdf/internal/testpdf"
	"go.pdfcore.dev/pdf/source"
)

// TestExtractTextHelloWorld exercises the spec's second end-to-end
// scenario: extract text from a one-page "Hello, World!" document, with no
// /ToUnicode CMap, falling back to the WinAnsi encoding's glyph names.
func TestExtractTextHelloWorld(t *testing.T) {
	src := source.NewMemorySource(testpdf.HelloWorld())
	doc, err := pdf.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0): %v", err)
	}

	items, err := extract.ExtractText(page)
	if err != nil {
		t.Fatalf("ExtractText: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("got %d items, want 1: %+v", len(items), items)
	}

	item := items[0]
	if item.Text != "Hello, World!" {
		t.Errorf("Text = %q, want %q", item.Text, "Hello, World!")
	}
	if item.Font != "F1" {
		t.Errorf("Font = %q, want %q", item.Font, "F1")
	}
	if item.FontSize != 24 {
		t.Errorf("FontSize = %v, want 24", item.FontSize)
	}
	if item.X != 10 || item.Y != 50 {
		t.Errorf("position = (%v, %v), want (10, 50)", item.X, item.Y)
	}
}
