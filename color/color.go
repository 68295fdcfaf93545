// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2022  Jochen Voss <voss@seehuhn.de>
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

// Package color converts the PDF device color spaces (DeviceGray,
// DeviceRGB, DeviceCMYK) into 8-bit sRGB for rendering.
//
// The teacher's color.go only goes the other way (constructing a Color
// that knows how to write itself as a "g"/"rg"/"k" operator, for a writer);
// this read/render engine never writes content streams, so RGB here is the
// terminal representation consumed by render.Device rather than an
// interface with a SetStroke/SetFill pair.
package color

// RGB is an 8-bit-per-channel sRGB color.
type RGB struct {
	R, G, B uint8
}

func clamp8(f float64) uint8 {
	if f <= 0 {
		return 0
	}
	if f >= 1 {
		return 255
	}
	return uint8(f*255 + 0.5)
}

// Gray converts a /DeviceGray value (0 black, 1 white) to RGB.
func Gray(g float64) RGB {
	v := clamp8(g)
	return RGB{v, v, v}
}

// FromRGB converts a /DeviceRGB triple (each channel 0-1) to RGB.
func FromRGB(r, g, b float64) RGB {
	return RGB{clamp8(r), clamp8(g), clamp8(b)}
}

// FromCMYK converts a /DeviceCMYK quadruple (each channel 0-1) to RGB using
// the naive (non-ICC) conversion ISO 32000-2 8.6.5.3 gives as the default
// when no rendering intent transform is available.
func FromCMYK(c, m, y, k float64) RGB {
	return RGB{
		clamp8(1 - min1(c+k)),
		clamp8(1 - min1(m+k)),
		clamp8(1 - min1(y+k)),
	}
}

func min1(x float64) float64 {
	if x > 1 {
		return 1
	}
	return x
}
