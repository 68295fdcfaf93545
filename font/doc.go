// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2024  Jochen Voss <voss@seehuhn.de>
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

// Package font reads just enough of a PDF font dictionary to turn the byte
// strings a content stream shows ("Tj"/"TJ" operands) into Unicode text:
// the /Encoding (base encoding plus /Differences) of a simple font, the
// 1- or 2-byte code space of a composite (Type0) font, and either font's
// /ToUnicode CMap.
//
// The retrieval pack's font package covers the other half of the font
// story: embedding and subsetting CFF/TrueType/OpenType/Type1/Type3
// programs for a writer, glyph outlines, and metrics. None of that
// survives here: this engine never writes fonts, and "render glyph i of
// embedded program p" is explicitly deferred to an external rasterizer
// (see DESIGN.md). Only the two pieces that are genuinely about reading
// character codes back into text - charcode.CodeSpaceRange and the
// pdfenc base-encoding tables - are kept. MakeTextDecoder is new, and so
// is the width reader (ExtractWidths, Widths.Advance) that moves the text
// position past each shown string.
package font
