// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2021  Jochen Voss <voss@seehuhn.de>
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

package pdf

import "fmt"

// Version identifies a PDF version, as found in the file header ("%PDF-1.4")
// or a document catalog's /Version entry.
type Version int

const (
	_ Version = iota
	V1_0
	V1_1
	V1_2
	V1_3
	V1_4
	V1_5
	V1_6
	V1_7
	V2_0
)

var versionStrings = map[Version]string{
	V1_0: "1.0",
	V1_1: "1.1",
	V1_2: "1.2",
	V1_3: "1.3",
	V1_4: "1.4",
	V1_5: "1.5",
	V1_6: "1.6",
	V1_7: "1.7",
	V2_0: "2.0",
}

// ToString returns the version's textual representation, as used in the PDF
// file header.
func (v Version) ToString() (string, error) {
	s, ok := versionStrings[v]
	if !ok {
		return "", errVersion
	}
	return s, nil
}

func (v Version) String() string {
	s, err := v.ToString()
	if err != nil {
		return fmt.Sprintf("invalid version %d", int(v))
	}
	return s
}

// ParseVersion parses a PDF version string such as "1.7".
func ParseVersion(s string) (Version, error) {
	for v, str := range versionStrings {
		if str == s {
			return v, nil
		}
	}
	return 0, errVersion
}
