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

// pixelDevice rasterizes filled paths into an in-memory RGB pixmap, so
// tests can assert actual pixel colors rather than just the sequence of
// Device calls (what recordingDevice checks).
//
// Only what spec.md scenario 3 needs is implemented: straight subpaths
// (MoveTo/LineTo), closed or not, filled with an even-odd scanline test.
// Curves, stroking, and clipping are no-ops here, same as recordingDevice.
type pixelDevice struct {
	render.Stack
	width, height int
	pixels        [][]color.RGB

	path      [][2]float64
	fillColor color.RGB
}

func newPixelDevice(width, height int) *pixelDevice {
	pixels := make([][]color.RGB, height)
	for y := range pixels {
		row := make([]color.RGB, width)
		for x := range row {
			row[x] = color.RGB{R: 255, G: 255, B: 255}
		}
		pixels[y] = row
	}
	return &pixelDevice{Stack: render.NewStack(), width: width, height: height, pixels: pixels}
}

func (d *pixelDevice) at(x, y float64) (float64, float64) {
	return d.Stack.Current().Apply(x, y)
}

func (d *pixelDevice) Save()    { d.Stack.Save() }
func (d *pixelDevice) Restore() { d.Stack.Restore() }
func (d *pixelDevice) Transform(m graphics.Matrix) {
	d.Stack.Transform(m)
}
func (d *pixelDevice) MoveTo(x, y float64) {
	px, py := d.at(x, y)
	d.path = append(d.path, [2]float64{px, py})
}
func (d *pixelDevice) LineTo(x, y float64) {
	px, py := d.at(x, y)
	d.path = append(d.path, [2]float64{px, py})
}
func (d *pixelDevice) CurveTo(x1, y1, x2, y2, x3, y3 float64) {
	px, py := d.at(x3, y3)
	d.path = append(d.path, [2]float64{px, py})
}
func (d *pixelDevice) ClosePath() {}
func (d *pixelDevice) Fill(rule render.FillRule) {
	d.rasterize()
	d.path = nil
}
func (d *pixelDevice) Stroke()                         {}
func (d *pixelDevice) Clip(rule render.FillRule)       {}
func (d *pixelDevice) SetLineWidth(w float64)          {}
func (d *pixelDevice) SetFillColor(c color.RGB)        { d.fillColor = c }
func (d *pixelDevice) SetStrokeColor(c color.RGB)      {}
func (d *pixelDevice) SetAlpha(fill, stroke float64)   {}
func (d *pixelDevice) DrawGlyphs(text string, font pdf.Name, size float64, m graphics.Matrix) {
}
func (d *pixelDevice) DrawImage(img render.Image, m graphics.Matrix) {}

// rasterize fills d.path (implicitly closed) into the pixmap using a
// standard even-odd scanline test, sampling at pixel centers.
func (d *pixelDevice) rasterize() {
	if len(d.path) < 3 {
		return
	}
	for y := 0; y < d.height; y++ {
		py := float64(y) + 0.5
		var xs []float64
		n := len(d.path)
		for i := 0; i < n; i++ {
			a := d.path[i]
			b := d.path[(i+1)%n]
			if (a[1] <= py && b[1] > py) || (b[1] <= py && a[1] > py) {
				t := (py - a[1]) / (b[1] - a[1])
				xs = append(xs, a[0]+t*(b[0]-a[0]))
			}
		}
		for i := 0; i+1 < len(xs); i += 2 {
			lo, hi := xs[i], xs[i+1]
			if lo > hi {
				lo, hi = hi, lo
			}
			for x := 0; x < d.width; x++ {
				px := float64(x) + 0.5
				if px >= lo && px < hi {
					d.pixels[y][x] = d.fillColor
				}
			}
		}
	}
}

// TestRenderColoredRectangle exercises the spec's colored-rectangle
// scenario: "100 100 200 100 re 1 0 0 rg f" on a 612x792 canvas must leave
// [100,300)x[100,200) red and everywhere else white.
func TestRenderColoredRectangle(t *testing.T) {
	src := source.NewMemorySource(testpdf.ColoredRectangle())
	doc, err := pdf.Open(src)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	page, err := doc.Page(0)
	if err != nil {
		t.Fatalf("Page(0): %v", err)
	}

	dev := newPixelDevice(612, 792)
	if err := render.Render(page, dev); err != nil {
		t.Fatalf("Render: %v", err)
	}

	check := func(x, y int, wantRed bool) {
		// The content stream's y is PDF user space (origin bottom-left);
		// the pixmap here is indexed top-down from the page's own height,
		// so no extra flip is needed since the rectangle's own bottom-left
		// origin was used directly as device-space row 100.
		c := dev.pixels[y][x]
		isRed := c.R > 200 && c.G < 50 && c.B < 50
		if isRed != wantRed {
			t.Errorf("pixel (%d,%d) = %+v, want red=%v", x, y, c, wantRed)
		}
	}

	check(150, 150, true)
	check(299, 199, true)
	check(100, 100, true)
	check(50, 150, false)
	check(300, 150, false)
	check(150, 200, false)
	check(150, 99, false)
}
