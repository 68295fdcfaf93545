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

package ascii85

import (
	"bytes"
	"io"
	"testing"
)

func roundTrip(t *testing.T, in []byte) {
	t.Helper()
	buf := &bytes.Buffer{}
	enc, err := Encode(withDummyClose{buf}, 64)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.Write(in); err != nil {
		t.Fatal(err)
	}
	if err := enc.Close(); err != nil {
		t.Fatal(err)
	}

	dec, err := Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(in, out) {
		t.Errorf("round trip mismatch: in=%q out=%q", in, out)
	}
}

func TestRoundTrip(t *testing.T) {
	cases := [][]byte{
		{},
		[]byte("1"),
		[]byte("12"),
		[]byte("123"),
		[]byte("1234"),
		[]byte("Hello world!"),
		{0, 0, 0, 0},
		[]byte("\000"),
		bytes.Repeat([]byte("xyz"), 100),
	}
	for _, c := range cases {
		roundTrip(t, c)
	}
}

func TestDecodeZeroShorthand(t *testing.T) {
	dec, err := Decode(bytes.NewReader([]byte("z~>")))
	if err != nil {
		t.Fatal(err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0, 0, 0, 0}
	if !bytes.Equal(out, want) {
		t.Errorf("got %v, want %v", out, want)
	}
}

func FuzzRoundTrip(f *testing.F) {
	f.Add([]byte(""))
	f.Add([]byte("Hello world!"))
	f.Add([]byte("\000"))
	f.Add(bytes.Repeat([]byte("ab"), 50))

	f.Fuzz(func(t *testing.T, in []byte) {
		roundTrip(t, in)
	})
}

// withDummyClose turns an io.Writer into an io.WriteCloser.
type withDummyClose struct {
	io.Writer
}

func (w withDummyClose) Close() error {
	return nil
}
