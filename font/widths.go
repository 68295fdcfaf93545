// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>

package font

import (
	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/font/charcode"
)

// Widths is a font's glyph-width table, used to advance the text matrix
// after a showing operator (PDF 32000-1:2008 section 9.4.3). Widths are
// always in 1000-unit glyph space, regardless of font type.
type Widths struct {
	composite bool

	// simple font fields: code is a single byte, index is the code itself.
	first   int64
	simple  []float64 // indexed by code-first
	missing float64

	// composite (Type0/CID) font fields.
	cid     map[charcode.CharCode]float64
	dw      float64
	codeSpc charcode.CodeSpaceRange
}

// ExtractWidths reads the width table of a font dictionary: /FirstChar,
// /Widths and /FontDescriptor's /MissingWidth for simple fonts, or
// /DescendantFonts[0]'s /DW and /W for Type0 fonts.
func ExtractWidths(r pdf.Getter, fontDict pdf.Dict) (*Widths, error) {
	subtype, err := pdf.GetName(r, fontDict.Get("Subtype"))
	if err != nil {
		return nil, err
	}

	if subtype == "Type0" {
		return extractCompositeWidths(r, fontDict)
	}
	return extractSimpleWidths(r, fontDict)
}

func extractSimpleWidths(r pdf.Getter, fontDict pdf.Dict) (*Widths, error) {
	w := &Widths{missing: 0}

	if desc, err := pdf.GetDict(r, fontDict.Get("FontDescriptor")); err == nil && desc != nil {
		if mw, err := pdf.GetNumber(r, desc.Get("MissingWidth")); err == nil {
			w.missing = float64(mw)
		}
	}

	first, err := pdf.GetInteger(r, fontDict.Get("FirstChar"))
	if err != nil {
		// No /Widths array (e.g. a pure standard-14 font reference): every
		// code falls back to /MissingWidth.
		return w, nil
	}
	arr, err := pdf.GetArray(r, fontDict.Get("Widths"))
	if err != nil {
		return w, nil
	}

	w.first = first
	w.simple = make([]float64, len(arr))
	for i, obj := range arr {
		n, err := pdf.GetNumber(r, obj)
		if err != nil {
			continue
		}
		w.simple[i] = float64(n)
	}
	return w, nil
}

func extractCompositeWidths(r pdf.Getter, fontDict pdf.Dict) (*Widths, error) {
	w := &Widths{composite: true, dw: 1000, codeSpc: codeSpaceForComposite(r, fontDict)}

	descFonts, err := pdf.GetArray(r, fontDict.Get("DescendantFonts"))
	if err != nil || len(descFonts) == 0 {
		return w, nil
	}
	cidFont, err := pdf.GetDict(r, descFonts[0])
	if err != nil {
		return w, nil
	}

	if dw, err := pdf.GetNumber(r, cidFont.Get("DW")); err == nil {
		w.dw = float64(dw)
	}

	wArr, err := pdf.GetArray(r, cidFont.Get("W"))
	if err != nil {
		return w, nil
	}
	w.cid = make(map[charcode.CharCode]float64)

	i := 0
	for i < len(wArr) {
		first, err := pdf.GetInteger(r, wArr[i])
		if err != nil {
			break
		}
		i++
		if i >= len(wArr) {
			break
		}
		// Either [first [w1 w2 ...]] or [first last w].
		if arr, err := pdf.GetArray(r, wArr[i]); err == nil {
			for j, obj := range arr {
				n, err := pdf.GetNumber(r, obj)
				if err != nil {
					continue
				}
				w.cid[charcode.CharCode(first)+charcode.CharCode(j)] = float64(n)
			}
			i++
		} else {
			last, err := pdf.GetInteger(r, wArr[i])
			if err != nil {
				break
			}
			i++
			if i >= len(wArr) {
				break
			}
			n, err := pdf.GetNumber(r, wArr[i])
			if err != nil {
				break
			}
			i++
			for code := first; code <= last; code++ {
				w.cid[charcode.CharCode(code)] = float64(n)
			}
		}
	}
	return w, nil
}

// Width returns the glyph width (in 1000-unit glyph space) for a single
// character code.
func (w *Widths) Width(code charcode.CharCode) float64 {
	if w == nil {
		return 0
	}
	if w.composite {
		if n, ok := w.cid[code]; ok {
			return n
		}
		return w.dw
	}
	idx := int64(code) - w.first
	if idx < 0 || idx >= int64(len(w.simple)) {
		return w.missing
	}
	return w.simple[idx]
}

// Advance returns the distance (in unscaled text space) that a Tj/'/" show
// of s moves the text matrix's origin along the writing direction, per PDF
// 32000-1:2008 section 9.4.3: tx = ((w0/1000)*Tfs + Tc + Tw) * (Th/100),
// summed glyph by glyph. Tw (word spacing) only ever applies to single-byte
// code 32, never to multi-byte codes of the same numeric value.
func (w *Widths) Advance(s pdf.String, fontSize, tc, tw, th float64) float64 {
	cs := charcode.Simple
	if w != nil && w.composite {
		cs = w.codeSpc
	}

	var total float64
	for len(s) > 0 {
		code, n := cs.Decode(s)
		if n <= 0 {
			break
		}
		glyphWidth := w.Width(code)
		wordSpace := 0.0
		if n == 1 && s[0] == 32 {
			wordSpace = tw
		}
		total += (glyphWidth/1000*fontSize + tc + wordSpace) * (th / 100)
		s = s[n:]
	}
	return total
}
