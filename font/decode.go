// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package font

import (
	"unicode"

	"seehuhn.de/go/postscript/type1/names"

	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/font/charcode"
)

// MakeTextDecoder returns a function that turns the operand of a
// "Tj"/"TJ"/"'"/"\"" operator for the font fontDict into Unicode text.
//
// A /ToUnicode CMap, when present, wins for any code it maps. Codes it
// doesn't cover (or the common case of no /ToUnicode at all) fall back to
// the font's /Encoding glyph names translated through the Adobe glyph list
// (simple fonts), or go unmapped (composite fonts: without reading the
// embedded font program there is no glyph name to fall back to).
func MakeTextDecoder(r pdf.Getter, fontDict pdf.Dict) (func(pdf.String) string, error) {
	toUnicode, err := ExtractToUnicode(r, fontDict)
	if err != nil {
		toUnicode = nil
	}

	subtype, err := pdf.GetName(r, fontDict.Get("Subtype"))
	if err != nil {
		return nil, err
	}

	if subtype == "Type0" {
		cs := codeSpaceForComposite(r, fontDict)
		return func(s pdf.String) string {
			return decodeWithCodeSpace(cs, s, toUnicode, nil)
		}, nil
	}

	enc, err := ExtractSimpleEncoding(r, fontDict)
	if err != nil {
		return nil, err
	}
	fallback := func(code charcode.CharCode) []rune {
		if code < 0 || int(code) >= len(enc) {
			return nil
		}
		name := enc[code]
		if name == "" {
			return nil
		}
		return names.ToUnicode(name, false)
	}
	return func(s pdf.String) string {
		return decodeWithCodeSpace(charcode.Simple, s, toUnicode, fallback)
	}, nil
}

// codeSpaceForComposite returns the code space a Type0 font's content-stream
// strings are encoded with. "Identity-H"/"Identity-V" (by far the common
// case for modern PDF producers) get the fixed 2-byte space; anything else
// falls back to 1-byte codes, since parsing an arbitrary embedded CMap
// program is out of scope (see font package doc comment).
func codeSpaceForComposite(r pdf.Getter, fontDict pdf.Dict) charcode.CodeSpaceRange {
	encName, err := pdf.GetName(r, fontDict.Get("Encoding"))
	if err == nil && (encName == "Identity-H" || encName == "Identity-V") {
		return charcode.UCS2
	}
	return charcode.Simple
}

func decodeWithCodeSpace(cs charcode.CodeSpaceRange, s pdf.String, toUnicode ToUnicode, fallback func(charcode.CharCode) []rune) string {
	var out []rune
	for len(s) > 0 {
		code, n := cs.Decode(s)
		if n <= 0 {
			out = append(out, unicode.ReplacementChar)
			s = s[1:]
			continue
		}
		s = s[n:]

		if toUnicode != nil {
			if rs, ok := toUnicode[uint32(code)]; ok {
				out = append(out, rs...)
				continue
			}
		}
		if fallback != nil {
			out = append(out, fallback(code)...)
		}
	}
	return string(out)
}
