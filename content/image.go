// seehuhn.de/go/pdf - a library for reading and writing PDF files
// Copyright (C) 2023  Jochen Voss <voss@seehuhn.de>

package content

import (
	"io"

	"go.pdfcore.dev/pdf"
)

// Image is a decoded raster image, as invoked by a "Do" operator on an
// Image XObject or an inline (BI/ID/EI) image. Data holds the sample
// bytes after the stream's filter pipeline has been decoded (so already
// unfiltered, but still in ColorSpace/BitsPerComponent's packed layout;
// turning that into RGB pixels is the Device's job - see render.Image).
type Image struct {
	Width, Height    int
	ColorSpace       pdf.Name
	BitsPerComponent int
	ImageMask        bool
	Data             []byte
}

// decodeImageDict reads an image XObject (or expanded inline-image) stream
// dictionary and decodes its filter pipeline. A stream using a filter this
// package can't decode (for example DCTDecode/JPEG, out of scope per
// SPEC_FULL.md) is reported as *pdf.UnsupportedFilterError, which callers
// are expected to tolerate by skipping the draw rather than aborting.
func decodeImageDict(r pdf.Getter, stm *pdf.Stream) (Image, error) {
	width, err := pdf.GetInteger(r, stm.Dict.Get("Width"))
	if err != nil {
		return Image{}, err
	}
	height, err := pdf.GetInteger(r, stm.Dict.Get("Height"))
	if err != nil {
		return Image{}, err
	}

	var bpc int64 = 8
	if n, err := pdf.GetInteger(r, stm.Dict.Get("BitsPerComponent")); err == nil {
		bpc = n
	}

	var cs pdf.Name
	if n, err := pdf.GetName(r, stm.Dict.Get("ColorSpace")); err == nil {
		cs = n
	}

	mask := false
	if b, err := pdf.GetBoolean(r, stm.Dict.Get("ImageMask")); err == nil {
		mask = bool(b)
	}

	body, err := pdf.DecodeStream(r, stm, 0)
	if err != nil {
		return Image{}, err
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return Image{}, err
	}

	return Image{
		Width:            int(width),
		Height:           int(height),
		ColorSpace:       cs,
		BitsPerComponent: int(bpc),
		ImageMask:        mask,
		Data:             data,
	}, nil
}
