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

import "go.pdfcore.dev/pdf/graphics"

// Stack tracks the cumulative transform a Device implementation has in
// effect, mirroring the "q"/"Q" save/restore pairs Render's Evaluator
// issues as Save/Restore calls. Embed it in a concrete Device so it
// doesn't have to reimplement the stack discipline itself.
//
// Grounded on the Push*/Pop idiom of creator.Surface (gxpdf): each Save
// pushes a copy of the current transform, and Restore panics on an unbalanced
// call rather than silently no-opping, since a Device that lets Evaluator
// drive it past the bottom of the stack has a bug in its own Save/Restore
// bookkeeping, not a recoverable content-stream condition.
type Stack struct {
	current graphics.Matrix
	saved   []graphics.Matrix
}

// NewStack returns a Stack with the identity transform in effect.
func NewStack() Stack {
	return Stack{current: graphics.IdentityMatrix}
}

// Save pushes the current transform.
func (s *Stack) Save() {
	s.saved = append(s.saved, s.current)
}

// Restore pops the most recently saved transform.
func (s *Stack) Restore() {
	if len(s.saved) == 0 {
		panic("render: Restore called without matching Save")
	}
	s.current = s.saved[len(s.saved)-1]
	s.saved = s.saved[:len(s.saved)-1]
}

// Transform composes m into the current transform, as "cm" does.
func (s *Stack) Transform(m graphics.Matrix) {
	s.current = m.Mul(s.current)
}

// Current returns the transform in effect.
func (s *Stack) Current() graphics.Matrix {
	return s.current
}

// Depth returns the number of saved transforms, for tests that check
// Save/Restore stay balanced.
func (s *Stack) Depth() int {
	return len(s.saved)
}
