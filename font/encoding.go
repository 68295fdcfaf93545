// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package font

import (
	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/font/pdfenc"
)

// SimpleEncoding is the code-to-glyph-name table of a simple (1-byte) font.
type SimpleEncoding [256]string

// ExtractSimpleEncoding reads the /Encoding entry of a simple font
// dictionary: either a bare base-encoding name, or a dictionary with
// /BaseEncoding plus a /Differences array of the form
// [code name name ... code name ...].  A missing /Encoding defaults to
// StandardEncoding, following PDF 32000-1:2008 table 114.
func ExtractSimpleEncoding(r pdf.Getter, fontDict pdf.Dict) (SimpleEncoding, error) {
	var enc SimpleEncoding

	base := pdfenc.Standard
	encObj, err := pdf.Resolve(r, fontDict.Get("Encoding"))
	if err != nil {
		return enc, err
	}

	var diffs pdf.Array
	switch e := encObj.(type) {
	case pdf.Name:
		base = baseEncodingByName(e)
	case pdf.Dict:
		if baseName, err := pdf.GetName(r, e.Get("BaseEncoding")); err == nil && baseName != "" {
			base = baseEncodingByName(baseName)
		}
		if d, err := pdf.GetArray(r, e.Get("Differences")); err == nil {
			diffs = d
		}
	}
	copy(enc[:], base.Encoding[:])

	code := 0
	for _, item := range diffs {
		switch v := item.(type) {
		case pdf.Number:
			code = int(v)
		case pdf.Name:
			if code >= 0 && code < 256 {
				enc[code] = string(v)
			}
			code++
		}
	}
	return enc, nil
}

func baseEncodingByName(name pdf.Name) pdfenc.Encoding {
	switch name {
	case "WinAnsiEncoding":
		return pdfenc.WinAnsi
	case "MacRomanEncoding":
		return pdfenc.MacRoman
	case "MacExpertEncoding":
		return pdfenc.MacExpert
	default:
		return pdfenc.Standard
	}
}
