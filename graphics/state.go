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

package graphics

import "go.pdfcore.dev/pdf"

// State is the subset of the PDF graphics state a content-stream reader
// needs to track across "q"/"Q" save/restore pairs: the current
// transformation matrix, text matrices, and the few scalar/color parameters
// content.Evaluator's operator dispatch updates. This drops the
// writer-side StateBits/ApplyTo diffing machinery state_test.go's corpus
// exercises (that mechanism exists to emit minimal "gs"/graphics operators
// when writing; a reader only ever consumes these values).
type State struct {
	CTM Matrix

	// Text state.
	Tm, Tlm          Matrix
	Tc, Tw, Tz, TL   float64
	Font             pdf.Name
	FontSize         float64
	Tr               int
	Ts               float64

	// Line and paint state.
	LineWidth        float64
	MiterLimit       float64
	StrokeColor      Color
	FillColor        Color
	StrokeAlpha      float64
	FillAlpha        float64
	OverprintStroke  bool
	OverprintFill    bool
	OverprintMode    int
	StrokeAdjustment bool
	AlphaSourceFlag  bool
	BlendMode        pdf.Name
	SoftMask         pdf.Dict
}

// Color is a resolved device color, in the color space it was set under.
type Color struct {
	Space pdf.Name
	Value []float64
}

// NewState returns the initial graphics state in effect at the start of a
// content stream: identity CTM, black fill and stroke, 1-unit line width.
func NewState() *State {
	return &State{
		CTM:         IdentityMatrix,
		Tm:          IdentityMatrix,
		Tlm:         IdentityMatrix,
		Tz:          100,
		LineWidth:   1,
		MiterLimit:  10,
		StrokeColor: Color{Space: "DeviceGray", Value: []float64{0}},
		FillColor:   Color{Space: "DeviceGray", Value: []float64{0}},
		StrokeAlpha: 1,
		FillAlpha:   1,
	}
}

// Clone returns a copy of g, as pushed onto the graphics state stack by "q".
func (g *State) Clone() *State {
	cp := *g
	if g.SoftMask.Len() > 0 {
		sm := pdf.NewDict()
		for _, k := range g.SoftMask.Keys() {
			sm.Set(k, g.SoftMask.Get(k))
		}
		cp.SoftMask = sm
	}
	return &cp
}
