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

// Package render implements component I: the abstract Device a consumer
// supplies to draw a page's content, and the Render entry point that drives
// one with content.Evaluator. No concrete rasterizer lives here (that is an
// external collaborator, per the spec's out-of-scope line) — only the
// interface and the plumbing to reach it from decoded content-stream
// operators.
package render

import (
	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/color"
	"go.pdfcore.dev/pdf/content"
	"go.pdfcore.dev/pdf/graphics"
)

// FillRule is re-exported from package content so callers implementing
// Device don't need to import content themselves just to name NonZero/
// EvenOdd.
type FillRule = content.FillRule

const (
	NonZero = content.NonZero
	EvenOdd = content.EvenOdd
)

// Image is re-exported from package content for the same reason FillRule
// is: a Device implementer shouldn't need to import content just to take
// one as a DrawImage argument.
type Image = content.Image

// Device is the target a page's content is rendered onto. Its method set
// is content.Device's plus DrawGlyphs, declared separately here so that
// implementers depend only on render, not on render+content — any Device
// implementation satisfies content.Device too, structurally, which is what
// lets Render hand a Device straight to an Evaluator.
type Device interface {
	Save()
	Restore()
	Transform(m graphics.Matrix)
	MoveTo(x, y float64)
	LineTo(x, y float64)
	CurveTo(x1, y1, x2, y2, x3, y3 float64)
	ClosePath()
	Fill(rule FillRule)
	Stroke()
	Clip(rule FillRule)
	SetLineWidth(w float64)
	SetFillColor(c color.RGB)
	SetStrokeColor(c color.RGB)
	SetAlpha(fill, stroke float64)

	// DrawGlyphs draws text already decoded to Unicode (Render decodes the
	// raw font-encoded operand before calling this, the same way
	// extract.ExtractText does) at the given text-to-device transform.
	// Glyph-level shaping/rasterization is an external collaborator's job
	// (see the spec's out-of-scope line); Device only needs to place text.
	DrawGlyphs(text string, font pdf.Name, size float64, m graphics.Matrix)

	// DrawImage draws img (already filter-decoded, still in its native
	// ColorSpace/BitsPerComponent layout) at the given image-space-to-device
	// transform, the same way a "Do" on an Image XObject or an inline
	// (BI/ID/EI) image would.
	DrawImage(img Image, m graphics.Matrix)
}
