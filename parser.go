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
	"fmt"
	"io"
)

// parser assembles lexer tokens into complete Objects: arrays, dicts,
// streams and indirect references. The "num gen R" lookahead mirrors
// file.go's expectNumericOrReference; stream-body handling completes what
// file.go left stubbed with panic("not implemented") for expectDictOrStream.
type parser struct {
	lex  *lexer
	r    io.ReadSeeker
	get  Getter
	base int64
}

func newParser(r io.ReadSeeker, get Getter) *parser {
	base, _ := r.Seek(0, io.SeekCurrent)
	return &parser{lex: newLexer(r), r: r, get: get, base: base}
}

// ParseObject reads one complete Object starting at the current position.
func (p *parser) ParseObject() (Object, error) {
	tok, err := p.lex.nextToken()
	if err != nil {
		return nil, err
	}
	return p.parseFrom(tok)
}

func (p *parser) parseFrom(tok token) (Object, error) {
	switch tok.kind {
	case tokEOF:
		return nil, io.EOF
	case tokArrayOpen:
		return p.parseArray()
	case tokDictOpen:
		return p.parseDictOrStream()
	case tokArrayClose, tokDictClose:
		return nil, fmt.Errorf("unexpected token")
	case tokKeyword:
		return nil, fmt.Errorf("unexpected keyword %q", tok.kw)
	case tokObject:
		if n, ok := tok.obj.(Number); ok {
			return p.maybeReference(n)
		}
		return tok.obj, nil
	}
	return nil, fmt.Errorf("unexpected token")
}

// maybeReference implements the "num gen R" lookahead: having read an
// integral Number, peek two more tokens to see whether they form a second
// integer followed by the bare keyword "R".
func (p *parser) maybeReference(first Number) (Object, error) {
	if float64(first) != float64(int64(first)) || first < 0 {
		return first, nil
	}

	tok2, err := p.lex.nextToken()
	if err != nil {
		if err == io.EOF {
			return first, nil
		}
		return nil, err
	}
	second, ok := tok2.obj.(Number)
	if tok2.kind != tokObject || !ok || float64(second) != float64(int64(second)) || second < 0 {
		p.lex.pushBack(tok2)
		return first, nil
	}

	tok3, err := p.lex.nextToken()
	if err != nil {
		if err == io.EOF {
			p.lex.pushBack(tok2)
			return first, nil
		}
		return nil, err
	}
	if tok3.kind == tokKeyword && tok3.kw == "R" {
		return Reference{Number: uint32(first), Generation: uint16(second)}, nil
	}
	p.lex.pushBack(tok3)
	p.lex.pushBack(tok2)
	return first, nil
}

func (p *parser) parseArray() (Array, error) {
	var arr Array
	for {
		tok, err := p.lex.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokArrayClose {
			return arr, nil
		}
		obj, err := p.parseFrom(tok)
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *parser) parseDictOrStream() (Object, error) {
	d := NewDict()
	for {
		tok, err := p.lex.nextToken()
		if err != nil {
			return nil, err
		}
		if tok.kind == tokDictClose {
			break
		}
		name, ok := tok.obj.(Name)
		if tok.kind != tokObject || !ok {
			return nil, fmt.Errorf("expected dict key, got %v", tok)
		}
		valTok, err := p.lex.nextToken()
		if err != nil {
			return nil, err
		}
		val, err := p.parseFrom(valTok)
		if err != nil {
			return nil, err
		}
		d.Set(name, val)
	}

	// Check whether a "stream" keyword follows; if not, this was a plain
	// dictionary.
	save := p.lex.pos
	if err := p.lex.skipWhiteSpace(); err != nil && err != io.EOF {
		return nil, err
	}
	word, err := p.lex.readRegularRun()
	if err != nil {
		return nil, err
	}
	if string(word) != "stream" {
		p.lex.pending = nil
		p.seekTo(save)
		p.lex = newLexer(p.r)
		p.lex.pos = save
		return d, nil
	}

	// Per the PDF spec, "stream" is followed by CRLF or LF (never a bare
	// CR) and then the raw stream bytes.
	b, err := p.lex.readByte()
	if err != nil {
		return nil, err
	}
	if b == '\r' {
		b, err = p.lex.readByte()
		if err != nil {
			return nil, err
		}
	}
	if b != '\n' {
		return nil, fmt.Errorf("malformed stream keyword at byte %d", p.lex.pos)
	}

	length, err := p.streamLength(d)
	if err != nil {
		return nil, err
	}

	dataStart := p.lex.pos
	data := make([]byte, length)
	if _, err := io.ReadFull(p.lex.src, data); err != nil {
		return nil, err
	}
	p.lex.pos = dataStart + int64(length)

	// Skip trailing EOL and the "endstream" keyword.
	if err := p.lex.skipWhiteSpace(); err != nil && err != io.EOF {
		return nil, err
	}
	word, err = p.lex.readRegularRun()
	if err != nil {
		return nil, err
	}
	if string(word) != "endstream" {
		return nil, fmt.Errorf("missing endstream keyword at byte %d", p.lex.pos)
	}

	return &Stream{Dict: d, R: newByteReader(data)}, nil
}

// streamLength resolves the stream dictionary's /Length entry, which may
// itself be an indirect reference into the xref table that is still being
// built; callers that cannot resolve indirect lengths yet (e.g. while
// scanning for an xref table) should pre-populate p.get with a Getter that
// can answer a single object lookup.
func (p *parser) streamLength(d Dict) (int64, error) {
	lenObj := d.Get("Length")
	if lenObj == nil {
		return 0, fmt.Errorf("stream dictionary missing /Length")
	}
	if n, ok := lenObj.(Number); ok {
		return int64(n), nil
	}
	if ref, ok := lenObj.(Reference); ok && p.get != nil {
		n, err := GetInteger(p.get, ref)
		if err != nil {
			return 0, err
		}
		return n, nil
	}
	return 0, fmt.Errorf("stream /Length is neither a number nor resolvable")
}

func (p *parser) seekTo(pos int64) {
	p.r.Seek(p.base+pos, io.SeekStart)
}

func newByteReader(b []byte) io.Reader {
	return &sliceReader{b: b}
}

type sliceReader struct {
	b []byte
	i int
}

func (s *sliceReader) Read(p []byte) (int, error) {
	if s.i >= len(s.b) {
		return 0, io.EOF
	}
	n := copy(p, s.b[s.i:])
	s.i += n
	return n, nil
}

// ParseIndirectObject reads "num gen obj ... endobj" starting at the
// current position and returns the decoded object together with its
// reference.
func (p *parser) ParseIndirectObject() (Reference, Object, error) {
	numTok, err := p.lex.nextToken()
	if err != nil {
		return Reference{}, nil, err
	}
	genTok, err := p.lex.nextToken()
	if err != nil {
		return Reference{}, nil, err
	}
	objTok, err := p.lex.nextToken()
	if err != nil {
		return Reference{}, nil, err
	}
	numN, ok1 := numTok.obj.(Number)
	genN, ok2 := genTok.obj.(Number)
	if numTok.kind != tokObject || genTok.kind != tokObject || !ok1 || !ok2 || objTok.kind != tokKeyword || objTok.kw != "obj" {
		return Reference{}, nil, fmt.Errorf("malformed indirect object header at byte %d", p.lex.pos)
	}
	ref := Reference{Number: uint32(numN), Generation: uint16(genN)}

	obj, err := p.ParseObject()
	if err != nil {
		return Reference{}, nil, err
	}

	if err := p.lex.skipWhiteSpace(); err != nil && err != io.EOF {
		return Reference{}, nil, err
	}
	word, err := p.lex.readRegularRun()
	if err != nil {
		return Reference{}, nil, err
	}
	if string(word) != "endobj" {
		return Reference{}, nil, fmt.Errorf("missing endobj keyword for %s at byte %d", ref, p.lex.pos)
	}

	return ref, obj, nil
}
