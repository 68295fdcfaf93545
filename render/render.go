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

package render

import (
	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/content"
	"go.pdfcore.dev/pdf/font"
	"go.pdfcore.dev/pdf/graphics"
)

// Render drives page's content stream against dev: path construction,
// painting, clipping, and color operators turn into calls on dev, while
// text-showing operators are decoded through the page's fonts the same way
// extract.ExtractText does, so dev sees already-decoded Unicode text rather
// than raw font codes.
//
// This is a free function taking *pdf.Page rather than a method on it, for
// the same import-cycle reason extract.ExtractText is — see DESIGN.md,
// Component F.
func Render(page *pdf.Page, dev Device) error {
	r := page.Getter()

	resDict, err := page.Resources()
	if err != nil {
		return err
	}
	res, err := pdf.ExtractResources(r, resDict)
	if err != nil {
		return err
	}

	body, err := page.Contents()
	if err != nil {
		return err
	}

	decoders := make(map[pdf.Name]func(pdf.String) string)
	decoderFor := func(name pdf.Name) (func(pdf.String) string, error) {
		if fn, ok := decoders[name]; ok {
			return fn, nil
		}
		fontDict, err := pdf.GetDict(r, res.Font.Get(name))
		if err != nil {
			return nil, err
		}
		fn, err := font.MakeTextDecoder(r, fontDict)
		if err != nil {
			return nil, err
		}
		decoders[name] = fn
		return fn, nil
	}

	widths := make(map[pdf.Name]*font.Widths)
	widthsFor := func(name pdf.Name) *font.Widths {
		if w, ok := widths[name]; ok {
			return w
		}
		fontDict, err := pdf.GetDict(r, res.Font.Get(name))
		if err != nil {
			return nil
		}
		w, err := font.ExtractWidths(r, fontDict)
		if err != nil {
			return nil
		}
		widths[name] = w
		return w
	}

	ev := &content.Evaluator{
		R:         r,
		Resources: res,
		Device:    dev,
		ShowText: func(s pdf.String, g *graphics.State) error {
			decode, err := decoderFor(g.Font)
			if err != nil {
				return nil
			}
			dev.DrawGlyphs(decode(s), g.Font, g.FontSize, g.Tm.Mul(g.CTM))

			w := widthsFor(g.Font)
			advance := w.Advance(s, g.FontSize, g.Tc, g.Tw, g.Tz)
			g.Tm = graphics.Translate(advance, 0).Mul(g.Tm)
			return nil
		},
	}
	return ev.Run(body)
}
