// seehuhn.de/go/pdf - a library for reading and writing PDF files
//
// Some code here, the PNG predictor implementation, is ported from
// decode_png_predictor in the original xpdf project's src/core/decode.rs,
// which implements the full set of predictor types (0-4); the teacher's own
// filter.go only implements type 12 (PNG-Up).
//
// Copyright 2020 Jochen Voss <voss@seehuhn.de>

package pdf

import (
	"bufio"
	"bytes"
	"compress/flate"
	"compress/lzw"
	"compress/zlib"
	"encoding/hex"
	"fmt"
	"io"

	"go.pdfcore.dev/pdf/ascii85"
	ximgccitt "golang.org/x/image/ccitt"
)

// FilterInfo describes one entry of a stream's /Filter and /DecodeParms
// arrays.
type FilterInfo struct {
	Name  Name
	Parms Dict
}

// filter is the common interface implemented by every supported stream
// filter. Writing is out of scope for a read/render engine, so filters only
// need to decode.
type filter interface {
	Decode(r io.Reader) (io.Reader, error)
}

// extractFilters reads a stream dictionary's /Filter and /DecodeParms
// entries and returns the corresponding filter pipeline, outermost first.
// Grounded on the teacher's extractFilterInfo, generalized to the ordered
// Dict type and to the larger filter set SPEC_FULL.md requires.
func extractFilters(r Getter, dict Dict) ([]filter, error) {
	filterObj, err := Resolve(r, dict.Get("Filter"))
	if err != nil {
		return nil, err
	}
	parmsObj, err := Resolve(r, dict.Get("DecodeParms"))
	if err != nil {
		return nil, err
	}

	var infos []*FilterInfo
	switch f := filterObj.(type) {
	case nil:
		return nil, nil
	case Array:
		parmsArr, _ := parmsObj.(Array)
		for i, fi := range f {
			name, err := GetName(r, fi)
			if err != nil {
				return nil, err
			}
			var pDict Dict
			if i < len(parmsArr) {
				pDict, err = GetDict(r, parmsArr[i])
				if err != nil {
					return nil, err
				}
			}
			infos = append(infos, &FilterInfo{Name: name, Parms: pDict})
		}
	case Name:
		pDict, err := GetDict(r, parmsObj)
		if err != nil {
			return nil, err
		}
		infos = append(infos, &FilterInfo{Name: f, Parms: pDict})
	default:
		return nil, &MalformedFileError{Err: fmt.Errorf("invalid /Filter field of type %T", filterObj)}
	}

	filters := make([]filter, len(infos))
	for i, info := range infos {
		f, err := info.getFilter()
		if err != nil {
			return nil, err
		}
		filters[i] = f
	}
	return filters, nil
}

func (fi *FilterInfo) getFilter() (filter, error) {
	switch fi.Name {
	case "FlateDecode", "Fl":
		return flateFromParms(fi.Parms), nil
	case "LZWDecode", "LZW":
		return lzwFromParms(fi.Parms), nil
	case "ASCII85Decode", "A85":
		return ascii85Filter{}, nil
	case "ASCIIHexDecode", "AHx":
		return asciiHexFilter{}, nil
	case "RunLengthDecode", "RL":
		return runLengthFilter{}, nil
	case "CCITTFaxDecode", "CCF":
		return &ccittFilter{parms: fi.Parms}, nil
	default:
		return unsupportedFilter{name: fi.Name}, nil
	}
}

// --- FlateDecode, with the full set of PNG predictors -----------------

type predictorParms struct {
	Predictor        int
	Colors           int
	BitsPerComponent int
	Columns          int
}

func predictorFromParms(parms Dict) predictorParms {
	p := predictorParms{Predictor: 1, Colors: 1, BitsPerComponent: 8, Columns: 1}
	if parms.Len() == 0 {
		return p
	}
	if n, ok := parms.Get("Predictor").(Number); ok && n >= 1 && n <= 15 {
		p.Predictor = int(n)
	}
	if n, ok := parms.Get("Colors").(Number); ok && n >= 1 {
		p.Colors = int(n)
	}
	if n, ok := parms.Get("BitsPerComponent").(Number); ok {
		switch int(n) {
		case 1, 2, 4, 8, 16:
			p.BitsPerComponent = int(n)
		}
	}
	if n, ok := parms.Get("Columns").(Number); ok && n >= 1 {
		p.Columns = int(n)
	}
	return p
}

type flateFilter struct {
	predictorParms
}

func flateFromParms(parms Dict) *flateFilter {
	return &flateFilter{predictorFromParms(parms)}
}

func (ff *flateFilter) Decode(r io.Reader) (io.Reader, error) {
	// Buffer the whole (still-compressed) stream so that a failed zlib
	// header check can be retried against a raw deflate reader: some PDF
	// producers write FlateDecode streams without the 2-byte zlib wrapper.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if zr, zerr := zlib.NewReader(bytes.NewReader(data)); zerr == nil {
		return applyPredictor(zr, ff.predictorParms)
	}
	fr := flate.NewReader(bytes.NewReader(data))
	return applyPredictor(fr, ff.predictorParms)
}

// applyPredictor wraps a decoded byte stream with a reader that undoes the
// PNG (or TIFF) predictor, if any, described by p.
func applyPredictor(r io.Reader, p predictorParms) (io.Reader, error) {
	if p.Predictor <= 1 {
		return r, nil
	}
	if p.Predictor == 2 {
		return nil, fmt.Errorf("TIFF predictor (2) is not supported")
	}
	// Predictor values 10-15 all select the PNG filter scheme; the actual
	// per-row filter byte (0-4) is read from the stream itself, so a
	// single reader implementation covers every PNG predictor value.
	return newPNGPredictorReader(r, p.Colors, p.BitsPerComponent, p.Columns), nil
}

// pngPredictorReader undoes the PNG predictor applied to each row of a
// decoded FlateDecode stream. Ported from decode_png_predictor in
// original_source/src/core/decode.rs, which is the only grounding source in
// the retrieval pack implementing all five predictor types (the teacher's
// filter.go only has type 12 / Up).
type pngPredictorReader struct {
	r        *bufio.Reader
	pixBytes int
	rowBytes int
	prevRow  []byte
	pending  []byte
	err      error
}

func newPNGPredictorReader(r io.Reader, colors, bitsPerComponent, columns int) *pngPredictorReader {
	pixBytes := (colors*bitsPerComponent + 7) / 8
	rowBytes := (columns*colors*bitsPerComponent + 7) / 8
	return &pngPredictorReader{
		r:        bufio.NewReaderSize(r, rowBytes+1),
		pixBytes: pixBytes,
		rowBytes: rowBytes,
		prevRow:  make([]byte, rowBytes),
	}
}

func (p *pngPredictorReader) Read(out []byte) (int, error) {
	n := 0
	for len(out) > 0 {
		if len(p.pending) > 0 {
			m := copy(out, p.pending)
			p.pending = p.pending[m:]
			out = out[m:]
			n += m
			continue
		}
		if p.err != nil {
			return n, p.err
		}
		row, err := p.readRow()
		if err != nil {
			p.err = err
			if n > 0 {
				return n, nil
			}
			return 0, err
		}
		p.pending = row
	}
	return n, nil
}

func (p *pngPredictorReader) readRow() ([]byte, error) {
	tag, err := p.r.ReadByte()
	if err != nil {
		return nil, err
	}
	row := make([]byte, p.rowBytes)
	if _, err := io.ReadFull(p.r, row); err != nil {
		return nil, err
	}

	pb := p.pixBytes
	switch tag {
	case 0: // None
		// row unchanged
	case 1: // Sub
		for i := range row {
			var left byte
			if i >= pb {
				left = row[i-pb]
			}
			row[i] += left
		}
	case 2: // Up
		for i := range row {
			row[i] += p.prevRow[i]
		}
	case 3: // Average
		for i := range row {
			var left int
			if i >= pb {
				left = int(row[i-pb])
			}
			up := int(p.prevRow[i])
			row[i] += byte((left + up) / 2)
		}
	case 4: // Paeth
		for i := range row {
			var left, upLeft byte
			if i >= pb {
				left = row[i-pb]
				upLeft = p.prevRow[i-pb]
			}
			up := p.prevRow[i]
			row[i] += paethPredictor(left, up, upLeft)
		}
	default:
		return nil, fmt.Errorf("invalid PNG predictor tag %d", tag)
	}

	p.prevRow = append([]byte(nil), row...)
	return row, nil
}

func paethPredictor(a, b, c byte) byte {
	pa := absInt(int(b) - int(c))
	pb := absInt(int(a) - int(c))
	pc := absInt(int(a) + int(b) - 2*int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// --- LZWDecode -----------------------------------------------------------

// lzwFilter decodes PDF's LZW variant. The retrieval pack's lzw package
// (seen as lzw/writer_test.go) has no surviving non-test implementation
// file, so this falls back to the standard library's compress/lzw in MSB
// order, which matches PDF's bit-packing convention; PDF's /EarlyChange
// (the only PDF-specific deviation from the variant compress/lzw
// implements) defaults to 1 and compress/lzw's MSB mode already assumes
// early change, so the common case needs no adjustment.
type lzwFilter struct {
	earlyChange bool
	predictorParms
}

func lzwFromParms(parms Dict) *lzwFilter {
	f := &lzwFilter{earlyChange: true, predictorParms: predictorFromParms(parms)}
	if n, ok := parms.Get("EarlyChange").(Number); ok {
		f.earlyChange = n != 0
	}
	return f
}

func (f *lzwFilter) Decode(r io.Reader) (io.Reader, error) {
	lr := lzw.NewReader(r, lzw.MSB, 8)
	return applyPredictor(lr, f.predictorParms)
}

// --- ASCII85Decode ---------------------------------------------------

type ascii85Filter struct{}

func (ascii85Filter) Decode(r io.Reader) (io.Reader, error) {
	return ascii85.Decode(r)
}

// --- ASCIIHexDecode ----------------------------------------------------

type asciiHexFilter struct{}

func (asciiHexFilter) Decode(r io.Reader) (io.Reader, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimSpace(data)
	data = bytes.TrimSuffix(data, []byte(">"))
	clean := make([]byte, 0, len(data))
	for _, b := range data {
		if classOf(b) != classSpace {
			clean = append(clean, b)
		}
	}
	if len(clean)%2 == 1 {
		clean = append(clean, '0')
	}
	out := make([]byte, hex.DecodedLen(len(clean)))
	if _, err := hex.Decode(out, clean); err != nil {
		return nil, err
	}
	return bytes.NewReader(out), nil
}

// --- RunLengthDecode -----------------------------------------------------

type runLengthFilter struct{}

func (runLengthFilter) Decode(r io.Reader) (io.Reader, error) {
	return &runLengthReader{r: bufio.NewReader(r)}, nil
}

type runLengthReader struct {
	r       *bufio.Reader
	pending []byte
	done    bool
}

func (rl *runLengthReader) Read(out []byte) (int, error) {
	n := 0
	for len(out) > 0 {
		if len(rl.pending) > 0 {
			m := copy(out, rl.pending)
			rl.pending = rl.pending[m:]
			out = out[m:]
			n += m
			continue
		}
		if rl.done {
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		length, err := rl.r.ReadByte()
		if err != nil {
			rl.done = true
			if n > 0 {
				return n, nil
			}
			return 0, io.EOF
		}
		switch {
		case length == 128:
			rl.done = true
		case length < 128:
			buf := make([]byte, int(length)+1)
			if _, err := io.ReadFull(rl.r, buf); err != nil {
				return n, err
			}
			rl.pending = buf
		default:
			b, err := rl.r.ReadByte()
			if err != nil {
				return n, err
			}
			count := 257 - int(length)
			buf := bytes.Repeat([]byte{b}, count)
			rl.pending = buf
		}
	}
	return n, nil
}

// --- CCITTFaxDecode (best effort) ---------------------------------------

// ccittFilter decodes Group 4 CCITT fax streams using golang.org/x/image's
// ccitt package (part of the dependency surface of the broader example
// pack's PDF rendering stacks, though not of the teacher itself). Only
// Group 4 (/K < 0) is handled; anything else reports UnsupportedFilterError
// since the spec treats image rendering fidelity as best-effort.
type ccittFilter struct {
	parms Dict
}

func (f *ccittFilter) Decode(r io.Reader) (io.Reader, error) {
	k := int64(-1)
	if n, ok := f.parms.Get("K").(Number); ok {
		k = int64(n)
	}
	if k >= 0 {
		return nil, &UnsupportedFilterError{Name: "CCITTFaxDecode (Group 3)"}
	}
	columns := 1728
	if n, ok := f.parms.Get("Columns").(Number); ok {
		columns = int(n)
	}
	rows := 0
	if n, ok := f.parms.Get("Rows").(Number); ok {
		rows = int(n)
	}
	blackIs1 := false
	if b, ok := f.parms.Get("BlackIs1").(Boolean); ok {
		blackIs1 = bool(b)
	}
	sk := ximgccitt.Group4
	opts := &ximgccitt.Options{Invert: !blackIs1, Align: false}
	img := ximgccitt.NewReader(r, ximgccitt.MSB, sk, columns, rows, opts)
	return img, nil
}

// --- Unsupported filters --------------------------------------------------

// unsupportedFilter surfaces UnsupportedFilterError instead of silently
// passing data through, so that callers can tell "this stream's bytes are
// something else entirely" (e.g. DCTDecode/JPXDecode image data handed to
// pagetree/extract code expecting decoded bytes) from "this stream really
// does decode to nothing".
type unsupportedFilter struct {
	name Name
}

func (f unsupportedFilter) Decode(r io.Reader) (io.Reader, error) {
	return nil, &UnsupportedFilterError{Name: f.name}
}
