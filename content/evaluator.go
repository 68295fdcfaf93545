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

// Package content tokenizes and evaluates a page's content stream,
// maintaining the graphics/text state stack ("q"/"Q") and dispatching each
// operator either to a caller-supplied Device (paths, paint, transforms)
// or to a ShowText hook (text-showing operators).
//
// This generalizes the teacher's ForAllText (content/extract.go), which
// hard-wired the evaluator to one purpose (collect decoded text) and drove
// it from a callback shaped `func(*Context, string) error`. Splitting
// "what to draw" (Device) from "how to turn a shown code string into
// text" (ShowText) lets both extract (decode-only, no Device) and render
// (decode optional, Device required) drive the same operator dispatch.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"io"

	"go.pdfcore.dev/pdf"
	"go.pdfcore.dev/pdf/color"
	"go.pdfcore.dev/pdf/graphics"
)

// FillRule selects how a filled or clipped path's interior is determined.
type FillRule int

const (
	NonZero FillRule = iota
	EvenOdd
)

// Device is the subset of drawing operations the evaluator needs from a
// renderer. It is declared here, rather than imported from package
// render, purely to keep content from importing render (which only
// exists to be driven by an Evaluator, so the natural dependency already
// runs the other way); any render.Device satisfies this interface too,
// since its method set is this one plus DrawGlyphs - see render/device.go.
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
	DrawImage(img Image, m graphics.Matrix)
}

// Evaluator walks a content stream's operators, tracking the graphics
// state (q/Q, cm, text state, line/paint state, color) the way a PDF
// viewer would, and forwarding the operations a concrete consumer cares
// about.
type Evaluator struct {
	R         pdf.Getter
	Resources *pdf.Resources

	// Device receives path/paint/transform/color operators. May be nil, in
	// which case the evaluator still tracks graphics state (so ShowText
	// sees an accurate g.Tm/g.CTM/g.Font) but draws nothing - the mode
	// package extract uses.
	Device Device

	// ShowText, when set, is called for each string operand of
	// Tj/TJ/'/"\"", with the state in effect at the time of the call. The
	// string is the raw (still font-encoded) operand; decoding it to text
	// is the caller's job (see package font), since which decoder applies
	// depends on the font named by g.Font, which only the caller's
	// resource cache knows how to look up without re-parsing it per call.
	ShowText func(s pdf.String, g *graphics.State) error

	g     *graphics.State
	stack []*graphics.State

	// xobjectDepth counts nested "Do" invocations of Form XObjects
	// currently being evaluated, guarding against (possibly indirect)
	// self-reference. A depth counter rather than a visited-set: the same
	// Form legitimately appears more than once in a content stream (for
	// example a repeated logo), and a visited-set would wrongly refuse the
	// second invocation.
	xobjectDepth int
}

// maxXObjectDepth bounds Form XObject nesting; it mirrors maxRefDepth's
// role for indirect-reference chains (resolve.go).
const maxXObjectDepth = 24

// Run evaluates the content stream read from r. Per the operator-showing
// contract, an unknown operator or one whose operands don't match what it
// expects is skipped (its operand stack cleared) rather than aborting the
// rest of the stream - only a scanner-level error (malformed token syntax)
// stops evaluation, since at that point the byte stream itself can no
// longer be trusted to resync on the next operator.
func (e *Evaluator) Run(r io.Reader) error {
	if e.g == nil {
		e.g = graphics.NewState()
	}
	s := NewScanner(r)
	var args []pdf.Object
	for {
		obj, err := s.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		op, ok := obj.(pdf.Operator)
		if !ok {
			args = append(args, obj)
			continue
		}
		if op == "BI" {
			if err := e.showInlineImage(s); err != nil {
				return err
			}
			args = args[:0]
			continue
		}
		e.dispatch(op, args)
		args = args[:0]
	}
}

func (e *Evaluator) dispatch(cmd pdf.Operator, args []pdf.Object) error {
	g := e.g
	r := e.R
	dev := e.Device

	switch cmd {

	// == General graphics state =========================================

	case "q":
		e.stack = append(e.stack, g.Clone())
		if dev != nil {
			dev.Save()
		}
	case "Q":
		if len(e.stack) == 0 {
			return errors.New("content: unexpected Q with empty graphics state stack")
		}
		e.g = e.stack[len(e.stack)-1]
		e.stack = e.stack[:len(e.stack)-1]
		if dev != nil {
			dev.Restore()
		}
	case "cm":
		m, err := matrixArg(r, args, 0)
		if err != nil {
			return err
		}
		g.CTM = m.Mul(g.CTM)
		if dev != nil {
			dev.Transform(m)
		}
	case "w":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.LineWidth = f
		if dev != nil {
			dev.SetLineWidth(f)
		}
	case "M":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.MiterLimit = f
	case "gs":
		return e.applyExtGState(args)

	// == Path construction ===============================================

	case "m":
		x, y, err := point(r, args, 0)
		if err != nil {
			return err
		}
		if dev != nil {
			dev.MoveTo(x, y)
		}
	case "l":
		x, y, err := point(r, args, 0)
		if err != nil {
			return err
		}
		if dev != nil {
			dev.LineTo(x, y)
		}
	case "c":
		if len(args) < 6 {
			return errTooFewArgs
		}
		x1, y1, err := point(r, args, 0)
		if err != nil {
			return err
		}
		x2, y2, err := point(r, args, 2)
		if err != nil {
			return err
		}
		x3, y3, err := point(r, args, 4)
		if err != nil {
			return err
		}
		if dev != nil {
			dev.CurveTo(x1, y1, x2, y2, x3, y3)
		}
	case "h":
		if dev != nil {
			dev.ClosePath()
		}
	case "re":
		if len(args) < 4 {
			return errTooFewArgs
		}
		x, y, err := point(r, args, 0)
		if err != nil {
			return err
		}
		w, h, err := point(r, args, 2)
		if err != nil {
			return err
		}
		if dev != nil {
			dev.MoveTo(x, y)
			dev.LineTo(x+w, y)
			dev.LineTo(x+w, y+h)
			dev.LineTo(x, y+h)
			dev.ClosePath()
		}

	// == Path painting ====================================================

	case "S":
		if dev != nil {
			dev.Stroke()
		}
	case "s":
		if dev != nil {
			dev.ClosePath()
			dev.Stroke()
		}
	case "f", "F":
		if dev != nil {
			dev.Fill(NonZero)
		}
	case "f*":
		if dev != nil {
			dev.Fill(EvenOdd)
		}
	case "B":
		if dev != nil {
			dev.Fill(NonZero)
			dev.Stroke()
		}
	case "B*":
		if dev != nil {
			dev.Fill(EvenOdd)
			dev.Stroke()
		}
	case "b":
		if dev != nil {
			dev.ClosePath()
			dev.Fill(NonZero)
			dev.Stroke()
		}
	case "b*":
		if dev != nil {
			dev.ClosePath()
			dev.Fill(EvenOdd)
			dev.Stroke()
		}
	case "n":
		// end path without painting

	// == Clipping paths ===================================================

	case "W":
		if dev != nil {
			dev.Clip(NonZero)
		}
	case "W*":
		if dev != nil {
			dev.Clip(EvenOdd)
		}

	// == XObjects =========================================================

	case "Do":
		if len(args) < 1 {
			return errTooFewArgs
		}
		name, ok := args[0].(pdf.Name)
		if !ok {
			return fmt.Errorf("content: unexpected type %T for XObject name", args[0])
		}
		return e.doXObject(name)

	// == Text objects =====================================================

	case "BT":
		g.Tm = graphics.IdentityMatrix
		g.Tlm = graphics.IdentityMatrix
	case "ET":
		// no state to reset

	// == Text state =======================================================

	case "Tc":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.Tc = f
	case "Tw":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.Tw = f
	case "Tz":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.Tz = f
	case "TL":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.TL = f
	case "Ts":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.Ts = f
	case "Tr":
		f, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.Tr = int(f)
	case "Tf":
		if len(args) < 2 {
			return errTooFewArgs
		}
		name, ok := args[0].(pdf.Name)
		if !ok {
			return fmt.Errorf("content: unexpected type %T for font name", args[0])
		}
		size, err := getNumber(args[1])
		if err != nil {
			return err
		}
		g.Font = name
		g.FontSize = size

	// == Text positioning =================================================

	case "Td":
		tx, ty, err := point(r, args, 0)
		if err != nil {
			return err
		}
		g.Tlm = graphics.Translate(tx, ty).Mul(g.Tlm)
		g.Tm = g.Tlm
	case "TD":
		tx, ty, err := point(r, args, 0)
		if err != nil {
			return err
		}
		g.TL = -ty
		g.Tlm = graphics.Translate(tx, ty).Mul(g.Tlm)
		g.Tm = g.Tlm
	case "Tm":
		if len(args) < 6 {
			return errTooFewArgs
		}
		var m graphics.Matrix
		for i := range m {
			f, err := getNumber(args[i])
			if err != nil {
				return err
			}
			m[i] = f
		}
		g.Tm = m
		g.Tlm = m
	case "T*":
		g.Tlm = graphics.Translate(0, -g.TL).Mul(g.Tlm)
		g.Tm = g.Tlm

	// == Text showing ======================================================

	case "Tj":
		if len(args) < 1 {
			return errTooFewArgs
		}
		s, ok := args[0].(pdf.String)
		if !ok {
			return fmt.Errorf("content: unexpected type %T for text string", args[0])
		}
		return e.showText(s)

	case "'":
		if len(args) < 1 {
			return errTooFewArgs
		}
		s, ok := args[0].(pdf.String)
		if !ok {
			return fmt.Errorf("content: unexpected type %T for text string", args[0])
		}
		g.Tlm = graphics.Translate(0, -g.TL).Mul(g.Tlm)
		g.Tm = g.Tlm
		return e.showText(s)

	case "\"":
		if len(args) < 3 {
			return errTooFewArgs
		}
		aw, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		ac, err := numberArg(r, args, 1)
		if err != nil {
			return err
		}
		s, ok := args[2].(pdf.String)
		if !ok {
			return fmt.Errorf("content: unexpected type %T for text string", args[2])
		}
		g.Tw = aw
		g.Tc = ac
		g.Tlm = graphics.Translate(0, -g.TL).Mul(g.Tlm)
		g.Tm = g.Tlm
		return e.showText(s)

	case "TJ":
		if len(args) < 1 {
			return errTooFewArgs
		}
		arr, ok := args[0].(pdf.Array)
		if !ok {
			return fmt.Errorf("content: unexpected type %T for text array", args[0])
		}
		for _, frag := range arr {
			switch frag := frag.(type) {
			case pdf.String:
				if err := e.showText(frag); err != nil {
					return err
				}
			case pdf.Number:
				g.Tm = graphics.Translate(-float64(frag)/1000*g.FontSize*g.Tz/100, 0).Mul(g.Tm)
			default:
				return fmt.Errorf("content: unexpected type %T for text array fragment", frag)
			}
		}

	// == Color ============================================================

	case "G":
		gr, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.StrokeColor = graphics.Color{Space: "DeviceGray", Value: []float64{gr}}
		if dev != nil {
			dev.SetStrokeColor(color.Gray(gr))
		}
	case "g":
		gr, err := numberArg(r, args, 0)
		if err != nil {
			return err
		}
		g.FillColor = graphics.Color{Space: "DeviceGray", Value: []float64{gr}}
		if dev != nil {
			dev.SetFillColor(color.Gray(gr))
		}
	case "RG":
		rr, gg, bb, err := rgbArgs(r, args)
		if err != nil {
			return err
		}
		g.StrokeColor = graphics.Color{Space: "DeviceRGB", Value: []float64{rr, gg, bb}}
		if dev != nil {
			dev.SetStrokeColor(color.FromRGB(rr, gg, bb))
		}
	case "rg":
		rr, gg, bb, err := rgbArgs(r, args)
		if err != nil {
			return err
		}
		g.FillColor = graphics.Color{Space: "DeviceRGB", Value: []float64{rr, gg, bb}}
		if dev != nil {
			dev.SetFillColor(color.FromRGB(rr, gg, bb))
		}
	case "K":
		c, m, y, k, err := cmykArgs(r, args)
		if err != nil {
			return err
		}
		g.StrokeColor = graphics.Color{Space: "DeviceCMYK", Value: []float64{c, m, y, k}}
		if dev != nil {
			dev.SetStrokeColor(color.FromCMYK(c, m, y, k))
		}
	case "k":
		c, m, y, k, err := cmykArgs(r, args)
		if err != nil {
			return err
		}
		g.FillColor = graphics.Color{Space: "DeviceCMYK", Value: []float64{c, m, y, k}}
		if dev != nil {
			dev.SetFillColor(color.FromCMYK(c, m, y, k))
		}

	// == Marked content ====================================================

	case "BMC", "EMC":
		// no state to track for a flat (non-nested-structure) reader
	case "BDC":
		// property-list lookup has no effect on graphics state or drawing

	// == Compatibility =====================================================

	case "BX", "EX":
		// compatibility-section markers: operators inside are still
		// dispatched normally; unsupported ones already return their own
		// errors, which is an acceptable simplification for a reader.

	default:
		return fmt.Errorf("content: unknown operator %q", string(cmd))
	}

	return nil
}

func (e *Evaluator) showText(s pdf.String) error {
	if e.ShowText == nil {
		return nil
	}
	return e.ShowText(s, e.g)
}

// showInlineImage reads and draws an inline (BI/ID/EI) image, with s
// positioned just after the "BI" operator.
func (e *Evaluator) showInlineImage(s *Scanner) error {
	dict, data, err := s.readInlineImage()
	if err != nil {
		return err
	}
	if e.Device == nil {
		return nil
	}
	stm := &pdf.Stream{Dict: dict, R: bytes.NewReader(data)}
	img, err := decodeImageDict(e.R, stm)
	if err != nil {
		// The image bytes have already been consumed through "EI", so the
		// scanner is still in sync: an image that cannot be decoded is
		// skipped like any other malformed operator.
		return nil
	}
	e.Device.DrawImage(img, e.g.CTM)
	return nil
}

// doXObject invokes a "Do" operator: a Form XObject is run as a nested
// content stream under the current graphics state, an Image XObject is
// drawn directly.
func (e *Evaluator) doXObject(name pdf.Name) error {
	if e.Resources == nil {
		return nil
	}
	stm, err := pdf.GetStream(e.R, e.Resources.XObject.Get(name))
	if err != nil || stm == nil {
		return err
	}
	subtype, err := pdf.GetName(e.R, stm.Dict.Get("Subtype"))
	if err != nil {
		return err
	}
	switch subtype {
	case "Form":
		return e.runForm(stm)
	case "Image":
		return e.drawImageXObject(stm)
	}
	return nil
}

// runForm evaluates a Form XObject's content stream as an implicit
// q...cm...Q around the current state (PDF 32000-1:2008 section 8.10.2):
// the form's own /Matrix and /Resources apply only within it, and the
// device's transform stack brackets its drawing with Save/Restore the same
// way "q"/"Q" does.
func (e *Evaluator) runForm(stm *pdf.Stream) error {
	if e.xobjectDepth >= maxXObjectDepth {
		return fmt.Errorf("content: Form XObject nesting exceeds %d", maxXObjectDepth)
	}

	res := e.Resources
	if resObj := stm.Dict.Get("Resources"); resObj != nil {
		r, err := pdf.ExtractResources(e.R, resObj)
		if err != nil {
			return err
		}
		res = r
	}

	m := graphics.IdentityMatrix
	if arr, err := pdf.GetArray(e.R, stm.Dict.Get("Matrix")); err == nil && len(arr) == 6 {
		for i := range m {
			n, err := pdf.GetNumber(e.R, arr[i])
			if err != nil {
				return err
			}
			m[i] = float64(n)
		}
	}

	body, err := pdf.DecodeStream(e.R, stm, 0)
	if err != nil {
		return err
	}

	child := e.g.Clone()
	child.CTM = m.Mul(e.g.CTM)
	sub := &Evaluator{
		R:            e.R,
		Resources:    res,
		Device:       e.Device,
		ShowText:     e.ShowText,
		g:            child,
		xobjectDepth: e.xobjectDepth + 1,
	}

	if e.Device != nil {
		e.Device.Save()
		e.Device.Transform(m)
	}
	err = sub.Run(body)
	if e.Device != nil {
		e.Device.Restore()
	}
	return err
}

// drawImageXObject decodes and draws an Image XObject.
func (e *Evaluator) drawImageXObject(stm *pdf.Stream) error {
	if e.Device == nil {
		return nil
	}
	img, err := decodeImageDict(e.R, stm)
	if err != nil {
		var unsupported *pdf.UnsupportedFilterError
		if errors.As(err, &unsupported) {
			return nil
		}
		return err
	}
	e.Device.DrawImage(img, e.g.CTM)
	return nil
}

func (e *Evaluator) applyExtGState(args []pdf.Object) error {
	if len(args) < 1 {
		return errTooFewArgs
	}
	name, ok := args[0].(pdf.Name)
	if !ok {
		return fmt.Errorf("content: unexpected type %T for ExtGState name", args[0])
	}
	if e.Resources == nil {
		return nil
	}
	dict, err := pdf.GetDict(e.R, e.Resources.ExtGState.Get(name))
	if err != nil {
		return err
	}
	g := e.g
	for _, key := range dict.Keys() {
		val := dict.Get(key)
		switch key {
		case "LW":
			if f, err := pdf.GetNumber(e.R, val); err == nil {
				g.LineWidth = float64(f)
			}
		case "CA":
			if f, err := pdf.GetNumber(e.R, val); err == nil {
				g.StrokeAlpha = float64(f)
			}
		case "ca":
			if f, err := pdf.GetNumber(e.R, val); err == nil {
				g.FillAlpha = float64(f)
			}
		case "BM":
			if n, err := pdf.GetName(e.R, val); err == nil {
				g.BlendMode = n
			}
		case "SMask":
			v, err := pdf.Resolve(e.R, val)
			if err != nil {
				return err
			}
			if v == pdf.Name("None") || v == nil {
				g.SoftMask = pdf.Dict{}
			} else if d, ok := v.(pdf.Dict); ok {
				g.SoftMask = d
			}
		}
	}
	if e.Device != nil {
		e.Device.SetAlpha(g.FillAlpha, g.StrokeAlpha)
	}
	return nil
}

func getNumber(obj pdf.Object) (float64, error) {
	switch x := obj.(type) {
	case pdf.Number:
		return float64(x), nil
	default:
		return 0, fmt.Errorf("content: unexpected type %T for number", obj)
	}
}

func numberArg(r pdf.Getter, args []pdf.Object, i int) (float64, error) {
	if i >= len(args) {
		return 0, errTooFewArgs
	}
	n, err := pdf.GetNumber(r, args[i])
	return float64(n), err
}

func point(r pdf.Getter, args []pdf.Object, i int) (float64, float64, error) {
	x, err := numberArg(r, args, i)
	if err != nil {
		return 0, 0, err
	}
	y, err := numberArg(r, args, i+1)
	if err != nil {
		return 0, 0, err
	}
	return x, y, nil
}

func matrixArg(r pdf.Getter, args []pdf.Object, i int) (graphics.Matrix, error) {
	if i+6 > len(args) {
		return graphics.Matrix{}, errTooFewArgs
	}
	var m graphics.Matrix
	for k := range m {
		f, err := pdf.GetNumber(r, args[i+k])
		if err != nil {
			return graphics.Matrix{}, err
		}
		m[k] = float64(f)
	}
	return m, nil
}

func rgbArgs(r pdf.Getter, args []pdf.Object) (rr, gg, bb float64, err error) {
	if len(args) < 3 {
		return 0, 0, 0, errTooFewArgs
	}
	rr, err = numberArg(r, args, 0)
	if err != nil {
		return
	}
	gg, err = numberArg(r, args, 1)
	if err != nil {
		return
	}
	bb, err = numberArg(r, args, 2)
	return
}

func cmykArgs(r pdf.Getter, args []pdf.Object) (c, m, y, k float64, err error) {
	if len(args) < 4 {
		return 0, 0, 0, 0, errTooFewArgs
	}
	c, err = numberArg(r, args, 0)
	if err != nil {
		return
	}
	m, err = numberArg(r, args, 1)
	if err != nil {
		return
	}
	y, err = numberArg(r, args, 2)
	if err != nil {
		return
	}
	k, err = numberArg(r, args, 3)
	return
}

var errTooFewArgs = errors.New("content: not enough operands")
