// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package font

import (
	"io"
	"unicode/utf16"

	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/content"
)

// ToUnicode maps a character code to the Unicode text it represents, as
// read from a font's /ToUnicode CMap stream.
type ToUnicode map[uint32][]rune

// ExtractToUnicode reads and parses fontDict's /ToUnicode stream, if any.
// A font with no /ToUnicode entry returns (nil, nil).
func ExtractToUnicode(r pdf.Getter, fontDict pdf.Dict) (ToUnicode, error) {
	obj := fontDict.Get("ToUnicode")
	if obj == nil {
		return nil, nil
	}
	stm, err := pdf.GetStream(r, obj)
	if err != nil || stm == nil {
		return nil, err
	}
	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return nil, err
	}
	return parseToUnicodeCMap(body)
}

// parseToUnicodeCMap extracts the bfchar/bfrange mappings from a ToUnicode
// CMap program. The CMap language is PostScript, but the bfchar/bfrange
// operand syntax (hex strings, arrays, integers) is the same lexical form
// a content stream uses, so the content-stream scanner reads it directly;
// only the "begin.../end..." bracketing operators are given meaning here.
// Everything else in the program (findresource, def, dict construction) is
// skipped, matching the spec's "minimal bfchar/bfrange support" scope.
func parseToUnicodeCMap(r io.Reader) (ToUnicode, error) {
	sc := content.NewScanner(r)
	out := make(ToUnicode)

	var mode pdf.Operator
	var pending []pdf.Object
	for {
		obj, err := sc.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			// Best-effort: a malformed tail still leaves the mappings
			// collected so far usable.
			break
		}

		if op, ok := obj.(pdf.Operator); ok {
			switch op {
			case "beginbfchar", "beginbfrange":
				mode = op
				pending = nil
			case "endbfchar":
				applyBFChar(out, pending)
				mode, pending = "", nil
			case "endbfrange":
				applyBFRange(out, pending)
				mode, pending = "", nil
			}
			continue
		}

		if mode != "" {
			pending = append(pending, obj)
		}
	}
	return out, nil
}

func applyBFChar(out ToUnicode, items []pdf.Object) {
	for i := 0; i+1 < len(items); i += 2 {
		src, ok1 := items[i].(pdf.String)
		dst, ok2 := items[i+1].(pdf.String)
		if !ok1 || !ok2 {
			continue
		}
		out[codeToUint(src)] = utf16Runes(dst)
	}
}

func applyBFRange(out ToUnicode, items []pdf.Object) {
	for i := 0; i+2 < len(items); i += 3 {
		lo, ok1 := items[i].(pdf.String)
		hi, ok2 := items[i+1].(pdf.String)
		if !ok1 || !ok2 {
			continue
		}
		loCode := codeToUint(lo)
		hiCode := codeToUint(hi)

		switch dst := items[i+2].(type) {
		case pdf.String:
			base := utf16Runes(dst)
			for c := loCode; c <= hiCode; c++ {
				rs := append([]rune(nil), base...)
				if len(rs) > 0 {
					rs[len(rs)-1] += rune(c - loCode)
				}
				out[c] = rs
			}
		case pdf.Array:
			for off, item := range dst {
				s, ok := item.(pdf.String)
				if !ok {
					continue
				}
				out[loCode+uint32(off)] = utf16Runes(s)
			}
		}
	}
}

func codeToUint(s pdf.String) uint32 {
	var v uint32
	for _, b := range s {
		v = v<<8 | uint32(b)
	}
	return v
}

func utf16Runes(s pdf.String) []rune {
	if len(s)%2 != 0 {
		rs := make([]rune, len(s))
		for i, b := range s {
			rs[i] = rune(b)
		}
		return rs
	}
	units := make([]uint16, len(s)/2)
	for i := range units {
		units[i] = uint16(s[2*i])<<8 | uint16(s[2*i+1])
	}
	return utf16.Decode(units)
}
