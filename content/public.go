// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package content

import "io"

// Scanner tokenizes a content stream into pdf.Object values (operands) and
// pdf.Operator values (keywords), reconstructing nested arrays and
// dictionaries built up out of "[...]"/"<<...>>" tokens.
type Scanner = scanner

// NewScanner returns a new Scanner reading content-stream bytes from r.
func NewScanner(r io.Reader) *Scanner {
	return newScanner(r)
}
