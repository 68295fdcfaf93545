// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"bytes"
	"compress/zlib"
	"io"
	"testing"
)

// TestPNGPredictorUpFilter exercises the spec's PNG-predictor round trip
// scenario: each row is encoded relative to the previous decoded row (PNG
// filter type 2, Up), and decoding must reproduce the original bytes.
func TestPNGPredictorUpFilter(t *testing.T) {
	// Two three-byte, one-component rows. Row 0 is filter 0 (None); row 1
	// is filter 2 (Up), storing each byte's difference from the byte
	// directly above it in row 0.
	row0 := []byte{10, 20, 30}
	row1 := []byte{15, 25, 35}
	encoded := []byte{0, row0[0], row0[1], row0[2]}
	encoded = append(encoded, 2, row1[0]-row0[0], row1[1]-row0[1], row1[2]-row0[2])

	r := newPNGPredictorReader(bytes.NewReader(encoded), 1, 8, 3)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := append(append([]byte{}, row0...), row1...)
	if !bytes.Equal(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

// TestPNGPredictorPaethFilter checks filter type 4 (Paeth), which needs the
// byte to the left, above, and above-left simultaneously.
func TestPNGPredictorPaethFilter(t *testing.T) {
	row0 := []byte{10, 20, 30}
	row1 := []byte{12, 18, 40}

	var raw1 [3]byte
	for i, v := range row1 {
		var left, up, upLeft byte
		if i > 0 {
			left = row1[i-1]
		}
		up = row0[i]
		if i > 0 {
			upLeft = row0[i-1]
		}
		raw1[i] = v - paethPredictor(left, up, upLeft)
	}

	encoded := append([]byte{0}, row0...)
	encoded = append(encoded, 4)
	encoded = append(encoded, raw1[:]...)

	r := newPNGPredictorReader(bytes.NewReader(encoded), 1, 8, 3)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := append(append([]byte{}, row0...), row1...)
	if !bytes.Equal(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

// TestFlateFilterWithPredictor exercises a realistic FlateDecode +
// PNG-predictor stream as it would appear compressed inside a PDF content
// or image stream.
func TestFlateFilterWithPredictor(t *testing.T) {
	row0 := []byte{0, 1, 2, 3}
	row1 := []byte{0, 1, 1, 1} // filter 0 (None), second row
	raw := append(append([]byte{}, row0...), row1...)

	var buf bytes.Buffer
	zw := zlib.NewWriter(&buf)
	if _, err := zw.Write(raw); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}

	ff := flateFromParms(Dict{})
	ff.predictorParms = predictorParms{Predictor: 12, Colors: 1, BitsPerComponent: 8, Columns: 3}
	r, err := ff.Decode(bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []byte{1, 2, 3, 1, 1, 1}
	if !bytes.Equal(got, want) {
		t.Errorf("decoded = %v, want %v", got, want)
	}
}

func TestRunLengthFilter(t *testing.T) {
	// Two literal bytes, then a run of 4 copies of 'x', then EOD (128).
	in := []byte{1, 'a', 'b', 253, 'x', 128}
	f := runLengthFilter{}
	r, err := f.Decode(bytes.NewReader(in))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	want := []byte("abxxxx")
	if !bytes.Equal(got, want) {
		t.Errorf("decoded = %q, want %q", got, want)
	}
}

func TestASCIIHexFilter(t *testing.T) {
	f := asciiHexFilter{}
	r, err := f.Decode(bytes.NewReader([]byte("68656c6c6f>")))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "hello" {
		t.Errorf("decoded = %q, want %q", got, "hello")
	}
}
