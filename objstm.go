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

package pdf

import (
	"bytes"
	"fmt"
	"io"
)

// objStmContents holds the decoded body of one /Type /ObjStm stream: the
// (objectNumber, byteOffset) header table followed by the concatenated
// object bodies, as described by the stream's /N and /First entries.
//
// No teacher file implements object stream decoding (the root package's
// real implementation files are missing from the retrieval pack); this
// follows the struct-tag-free, plain-function decoding idiom used
// throughout the teacher's catalog.go and cache.go.
type objStmContents struct {
	offsets map[uint32]int64 // object number -> byte offset into data
	data    []byte
}

func decodeObjStm(get Getter, stm *Stream) (*objStmContents, error) {
	n, ok := stm.Dict.Get("N").(Number)
	if !ok {
		return nil, &MalformedFileError{Err: fmt.Errorf("object stream missing /N")}
	}
	first, ok := stm.Dict.Get("First").(Number)
	if !ok {
		return nil, &MalformedFileError{Err: fmt.Errorf("object stream missing /First")}
	}

	dr, err := DecodeStream(get, stm, 0)
	if err != nil {
		return nil, err
	}
	data, err := io.ReadAll(dr)
	if err != nil {
		return nil, err
	}

	header := data
	if int(first) <= len(data) {
		header = data[:int(first)]
	}
	lex := newLexer(bytes.NewReader(header))
	offsets := make(map[uint32]int64, int(n))
	for i := 0; i < int(n); i++ {
		numTok, err := lex.nextToken()
		if err != nil {
			return nil, err
		}
		offTok, err := lex.nextToken()
		if err != nil {
			return nil, err
		}
		numN, ok1 := numTok.obj.(Number)
		offN, ok2 := offTok.obj.(Number)
		if !ok1 || !ok2 {
			return nil, &MalformedFileError{Err: fmt.Errorf("malformed object stream header")}
		}
		offsets[uint32(numN)] = int64(first) + int64(offN)
	}

	return &objStmContents{offsets: offsets, data: data}, nil
}

// get decodes object objNum, found at its recorded byte offset within the
// stream.
func (o *objStmContents) get(get Getter, objNum uint32) (Object, error) {
	off, ok := o.offsets[objNum]
	if !ok || off > int64(len(o.data)) {
		return nil, &MalformedFileError{Err: fmt.Errorf("object %d not found in object stream", objNum)}
	}
	p := newParser(bytes.NewReader(o.data), get)
	if _, err := p.r.Seek(off, io.SeekStart); err != nil {
		return nil, err
	}
	p.base = off
	return p.ParseObject()
}
