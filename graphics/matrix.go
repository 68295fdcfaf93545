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

// Package graphics holds the small amount of 2-D geometry a content-stream
// reader needs to track the current transformation, text, and line matrices:
// a 2x3 affine Matrix plus the handful of constructors (Translate, Scale,
// Rotate) content streams build up out of "cm"/"Tm" operands.
//
// No implementation file for this package survives in the retrieval pack
// (only matrix_test.go and a battery of write-side *_test.go files remain,
// built around a StateBits/ApplyTo diffing writer this read-only engine has
// no use for); Matrix is written fresh against matrix_test.go's exact
// expectations (row-vector convention, Mul composing left-to-right,
// IdentityMatrix as the Mul/Inv identity).
package graphics

import "math"

// Matrix is a PDF transformation matrix
//
//	| a b 0 |
//	| c d 0 |
//	| e f 1 |
//
// applied to row vectors: (x y 1) * Matrix.
type Matrix [6]float64

// IdentityMatrix is the matrix that leaves points unchanged.
var IdentityMatrix = Matrix{1, 0, 0, 1, 0, 0}

// Mul returns the matrix product m * other (applying m first, then other).
func (m Matrix) Mul(other Matrix) Matrix {
	return Matrix{
		m[0]*other[0] + m[1]*other[2],
		m[0]*other[1] + m[1]*other[3],
		m[2]*other[0] + m[3]*other[2],
		m[2]*other[1] + m[3]*other[3],
		m[4]*other[0] + m[5]*other[2] + other[4],
		m[4]*other[1] + m[5]*other[3] + other[5],
	}
}

// Inv returns the inverse of m. The result is undefined if m is singular.
func (m Matrix) Inv() Matrix {
	det := m[0]*m[3] - m[1]*m[2]
	if det == 0 {
		return IdentityMatrix
	}
	invDet := 1 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	e := -(m[4]*a + m[5]*c)
	f := -(m[4]*b + m[5]*d)
	return Matrix{a, b, c, d, e, f}
}

// Apply applies m to the point (x, y).
func (m Matrix) Apply(x, y float64) (float64, float64) {
	return x*m[0] + y*m[2] + m[4], x*m[1] + y*m[3] + m[5]
}

// Translate returns a matrix that translates by (dx, dy).
func Translate(dx, dy float64) Matrix {
	return Matrix{1, 0, 0, 1, dx, dy}
}

// Scale returns a matrix that scales by (sx, sy).
func Scale(sx, sy float64) Matrix {
	return Matrix{sx, 0, 0, sy, 0, 0}
}

// Rotate returns a matrix that rotates by angle radians, counterclockwise.
func Rotate(angle float64) Matrix {
	s, c := math.Sincos(angle)
	return Matrix{c, s, -s, c, 0, 0}
}
