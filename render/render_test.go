// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package render_test

import (
	"testing"

	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/color"
	"go.pdfcore.dev/pdf/graphics"
	"go.pdfcore.dev/pdf/internal/testpdf"
	"go.pdfcore.dev/pdf/render"
	"go.pdfcore.dev/pdf/source"
)

// recordingDevice is a render.Device that just logs what it was asked to
// do, grounded on the Push/Pop discipline render.Stack already implements
// (embedded here rather than reimplemented).
type recordingDevice struct {
	render.Stack
	calls []string
	text  []string
}

func (d *recordingDevice) Save()  { d.Stack.Save(); d.calls = append(d.calls, "Save") }
func (d *recordingDevice) Restore() {
	d.Stack.Restore()
	d.calls = append(d.calls, "Restore")
}
func (d *recordingDevice) Transform(m graphics.Matrix) { d.Stack.Transform(m) }
func (d *recordingDevice) MoveTo(x, y float64)         { d.calls = append(d.calls, "MoveTo") }
func (d *recordingDevice) LineTo(x, y float64)         { d.calls = append(d.calls, "LineTo") }
func (d *recordingDevice) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	d.calls = append(d.calls, "CurveTo")
}
func (d *recordingDevice) ClosePath()               { d.calls = append(d.calls, "ClosePath") }
func (d *recordingDevice) Fill(rule render.FillRule) { d.calls = append(d.calls, "Fill") }
func (d *recordingDevice) Stroke()                   { d.calls = append(d.calls, "Stroke") }
func (d *recordingDevice) Clip(rule render.FillRule) { d.calls = append(d.calls, "Clip") }
func (d *recordingDevice) SetLineWidth(w float64)    { d.calls = append(d.calls, "SetLineWidth") }
func (d *recordingDevice) SetFillColor(c color.RGB)  { d.calls = append(d.calls, "SetFillColor") }
func (d *recordingDevice) SetStrokeColor(c color.RGB) {
	d.calls = append(d.calls, "SetStrokeColor")
}
func (d *recordingDevice) SetAlpha(fill, stroke float64) {
	d.calls = append(d.calls, "SetAlpha")
}
func (d *recordingDevice) DrawGlyphs(text string, font pdf.Name, size float64, m graphics.Matrix) {
	d.text = append(d.text, text)
}
func (d *recordingDevice) DrawImage(img render.Image, m graphics.Matrix) {
	d.calls = append(d.calls, "DrawImage")
}

func TestRenderHelloWorld(t *testing.T) {
	src := source.NewMemorySource(testpdf.HelloWorld())
	doc, err := pdf.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0): %v", err)
	}

	dev := &recordingDevice{Stack: render.NewStack()}
	if err := render.Render(page, dev); err != nil {
		t.Fatalf("Render: %v", err)
	}

	if len(dev.text) != 1 || dev.text[0] != "Hello, World!" {
		t.Errorf("drawn text = %v, want [%q]", dev.text, "Hello, World!")
	}
	if dev.Stack.Depth() != 0 {
		t.Errorf("Save/Restore left %d unmatched saves", dev.Stack.Depth())
	}
}
