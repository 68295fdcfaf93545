// Package testpdf builds small, byte-exact PDF files for tests that need a
// real *pdf.Document rather than a hand-built in-memory Getter (content
// extraction and rendering both need a content stream to actually parse,
// which a plain object graph can't provide).
//
// No single teacher file survives as this package's grounding (the
// teacher tests against fixtures generated by its own writer, which this
// module does not carry); the object/xref layout here is read off xref.go
// and parser.go's own expectations (classical xref, 20-byte entries,
// /Length as a direct integer, "stream\n...endstream" framing) rather than
// off another test file, since assembling exactly the bytes the reader
// half of this module expects to parse is the most direct grounding
// available.
package testpdf

import (
	"bytes"
	"fmt"
)

// HelloWorld returns a minimal single-page PDF: a Helvetica, WinAnsi-encoded
// Type1 font with no /ToUnicode, a 200x100 MediaBox, and a content stream
// that shows "Hello, World!" at (10, 50) in 24pt.
func HelloWorld() []byte {
	buf, _ := helloWorld()
	return buf.Bytes()
}

// helloWorld builds the same document as HelloWorld, additionally
// returning the byte offset of its own xref section so IncrementalUpdate
// can chain a revision onto it via /Prev.
func helloWorld() (bytes.Buffer, int) {
	var buf bytes.Buffer
	offsets := make([]int, 6) // index 0 unused (object 0 is always free)

	buf.WriteString("%PDF-1.7\n")

	content := "BT /F1 24 Tf 10 50 Td (Hello, World!) Tj ET"

	write := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 200 100] "+
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>")
	write(4, "<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica "+
		"/Encoding /WinAnsiEncoding >>")

	offsets[5] = buf.Len()
	fmt.Fprintf(&buf, "5 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(content), content)

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 6\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 5; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 6 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefStart)

	return buf, xrefStart
}

// ColoredRectangle returns a minimal single-page PDF with a 612x792
// MediaBox and a content stream that fills a red rectangle at
// (100,100)-(300,200): "100 100 200 100 re 1 0 0 rg f".
func ColoredRectangle() []byte {
	var buf bytes.Buffer
	offsets := make([]int, 5) // index 0 unused (object 0 is always free)

	buf.WriteString("%PDF-1.7\n")

	content := "100 100 200 100 re 1 0 0 rg f"

	write := func(num int, body string) {
		offsets[num] = buf.Len()
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", num, body)
	}

	write(1, "<< /Type /Catalog /Pages 2 0 R >>")
	write(2, "<< /Type /Pages /Kids [3 0 R] /Count 1 >>")
	write(3, "<< /Type /Page /Parent 2 0 R /MediaBox [0 0 612 792] "+
		"/Resources << >> /Contents 4 0 R >>")

	offsets[4] = buf.Len()
	fmt.Fprintf(&buf, "4 0 obj\n<< /Length %d >>\nstream\n%s\nendstream\nendobj\n",
		len(content), content)

	xrefStart := buf.Len()
	buf.WriteString("xref\n0 5\n")
	buf.WriteString("0000000000 65535 f \n")
	for i := 1; i <= 4; i++ {
		fmt.Fprintf(&buf, "%010d 00000 n \n", offsets[i])
	}
	buf.WriteString("trailer\n<< /Size 5 /Root 1 0 R >>\n")
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefStart)

	return buf.Bytes()
}

// IncrementalUpdate returns HelloWorld with a second revision appended that
// widens the page's MediaBox to 400x100, in the classical incremental-update
// shape: the new object is appended after the original file's bytes (left
// untouched), followed by a new xref section covering only the changed
// object, a trailer whose /Prev points back at the original xref offset,
// and a fresh startxref/EOF. A reader must resolve object 3 to the new
// MediaBox while still reaching objects 1, 2, 4, 5 through the original
// (/Prev-chained) section.
func IncrementalUpdate() []byte {
	buf, prevXRefStart := helloWorld()

	newObj3Offset := buf.Len()
	buf.WriteString("3 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 400 100] " +
		"/Resources << /Font << /F1 4 0 R >> >> /Contents 5 0 R >>\nendobj\n")

	xrefStart := buf.Len()
	buf.WriteString("xref\n3 1\n")
	fmt.Fprintf(&buf, "%010d 00000 n \n", newObj3Offset)
	fmt.Fprintf(&buf, "trailer\n<< /Size 6 /Root 1 0 R /Prev %d >>\n", prevXRefStart)
	fmt.Fprintf(&buf, "startxref\n%d\n%%%%EOF\n", xrefStart)

	return buf.Bytes()
}
