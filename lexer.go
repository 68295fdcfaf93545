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
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// byteClass classifies bytes according to the PDF grammar (ISO 32000-2
// table 1). The table is shared by the file-level object lexer here and the
// rest of package pdf (startxref and header scanning, whitespace stripping
// in filter.go, Name escaping); package content's scanner does not use it.
type byteClass int

const (
	classRegular byteClass = iota
	classSpace
	classDelimiter
)

var classTable = buildClassTable()

func buildClassTable() [256]byteClass {
	var t [256]byteClass
	for i := range t {
		t[i] = classRegular
	}
	for _, b := range []byte{0, 9, 10, 12, 13, 32} {
		t[b] = classSpace
	}
	for _, b := range []byte("()<>[]{}/%") {
		t[b] = classDelimiter
	}
	return t
}

func classOf(b byte) byteClass {
	return classTable[b]
}

// lexer tokenizes the PDF object syntax shared by file bodies and content
// streams: literals, names, arrays, dicts, references and operators.
//
// The low-level token reader (next) and its string/name/number helpers
// follow content/scanner.go's scanner closely; lexer additionally
// disambiguates "num gen R" indirect references via two-token lookahead,
// following file.go's expectNumericOrReference.
type lexer struct {
	src     *bufio.Reader
	pos     int64
	pending []token
}

func newLexer(r io.Reader) *lexer {
	return &lexer{src: bufio.NewReaderSize(r, 4096)}
}

// pushBack makes tok the next token returned by nextToken.
func (s *lexer) pushBack(tok token) {
	s.pending = append(s.pending, tok)
}

// nextToken returns pushed-back tokens before reading new ones from the
// underlying stream.
func (s *lexer) nextToken() (token, error) {
	if n := len(s.pending); n > 0 {
		tok := s.pending[n-1]
		s.pending = s.pending[:n-1]
		return tok, nil
	}
	return s.next()
}

func (s *lexer) readByte() (byte, error) {
	b, err := s.src.ReadByte()
	if err != nil {
		return 0, err
	}
	s.pos++
	return b, nil
}

func (s *lexer) unreadByte() {
	_ = s.src.UnreadByte()
	s.pos--
}

func (s *lexer) peekByte() (byte, error) {
	b, err := s.readByte()
	if err != nil {
		return 0, err
	}
	s.unreadByte()
	return b, nil
}

func (s *lexer) skipWhiteSpace() error {
	for {
		b, err := s.readByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		switch {
		case classOf(b) == classSpace:
			continue
		case b == '%':
			if err := s.skipComment(); err != nil {
				return err
			}
		default:
			s.unreadByte()
			return nil
		}
	}
}

func (s *lexer) skipComment() error {
	for {
		b, err := s.readByte()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if b == '\n' || b == '\r' {
			return nil
		}
	}
}

// token is a single lexical token: a complete Object (Null/Boolean/Number/
// String/HexString/Name/Reference), or one of the structural tokens
// tokArrayOpen/tokArrayClose/tokDictOpen/tokDictClose, or tokKeyword for a
// bare keyword such as "obj"/"endobj"/"stream"/"xref".
type token struct {
	kind tokenKind
	obj  Object
	kw   string
}

type tokenKind int

const (
	tokObject tokenKind = iota
	tokArrayOpen
	tokArrayClose
	tokDictOpen
	tokDictClose
	tokKeyword
	tokEOF
)

// next reads a single low-level token, without attempting reference
// lookahead or array/dict assembly; parser.go drives those.
func (s *lexer) next() (token, error) {
	if err := s.skipWhiteSpace(); err != nil {
		return token{}, err
	}
	b, err := s.readByte()
	if err == io.EOF {
		return token{kind: tokEOF}, nil
	}
	if err != nil {
		return token{}, err
	}

	switch b {
	case '(':
		str, err := s.readLiteralString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokObject, obj: str}, nil
	case '<':
		b2, err := s.peekByte()
		if err == nil && b2 == '<' {
			s.readByte()
			return token{kind: tokDictOpen}, nil
		}
		str, err := s.readHexString()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokObject, obj: str}, nil
	case '>':
		b2, err := s.readByte()
		if err != nil || b2 != '>' {
			return token{}, fmt.Errorf("unexpected '>' at byte %d", s.pos)
		}
		return token{kind: tokDictClose}, nil
	case '[':
		return token{kind: tokArrayOpen}, nil
	case ']':
		return token{kind: tokArrayClose}, nil
	case '/':
		name, err := s.readName()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokObject, obj: name}, nil
	case '{', '}':
		return token{kind: tokKeyword, kw: string(b)}, nil
	}

	s.unreadByte()
	word, err := s.readRegularRun()
	if err != nil {
		return token{}, err
	}
	switch string(word) {
	case "true":
		return token{kind: tokObject, obj: Boolean(true)}, nil
	case "false":
		return token{kind: tokObject, obj: Boolean(false)}, nil
	case "null":
		return token{kind: tokObject, obj: Null{}}, nil
	}
	if num, ok := parseNumber(word); ok {
		return token{kind: tokObject, obj: num}, nil
	}
	return token{kind: tokKeyword, kw: string(word)}, nil
}

// readRegularRun consumes a maximal run of "regular" class bytes: this
// covers numbers, keywords (obj, endobj, stream, ...) and bare content
// stream operators alike, exactly as content/scanner.go's next() does for
// its opBytes accumulator.
func (s *lexer) readRegularRun() ([]byte, error) {
	var buf []byte
	for {
		b, err := s.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		if classOf(b) != classRegular {
			s.unreadByte()
			break
		}
		buf = append(buf, b)
	}
	return buf, nil
}

func parseNumber(b []byte) (Number, bool) {
	if len(b) == 0 {
		return 0, false
	}
	for _, c := range b {
		if !(c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9')) {
			return 0, false
		}
	}
	if i, err := strconv.ParseInt(string(b), 10, 64); err == nil {
		return Number(i), true
	}
	f, err := strconv.ParseFloat(string(b), 64)
	if err != nil {
		return 0, false
	}
	return Number(f), true
}

func (s *lexer) readName() (Name, error) {
	var buf []byte
	for {
		b, err := s.readByte()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		if classOf(b) != classRegular {
			s.unreadByte()
			break
		}
		if b == '#' {
			hi, err := s.readByte()
			if err != nil {
				return "", err
			}
			lo, err := s.readByte()
			if err != nil {
				return "", err
			}
			v, err := strconv.ParseUint(string([]byte{hi, lo}), 16, 8)
			if err != nil {
				buf = append(buf, '#', hi, lo)
				continue
			}
			buf = append(buf, byte(v))
			continue
		}
		buf = append(buf, b)
	}
	return Name(buf), nil
}

func (s *lexer) readLiteralString() (String, error) {
	var buf []byte
	depth := 1
	for {
		b, err := s.readByte()
		if err != nil {
			return nil, err
		}
		switch b {
		case '(':
			depth++
			buf = append(buf, b)
		case ')':
			depth--
			if depth == 0 {
				return String(buf), nil
			}
			buf = append(buf, b)
		case '\\':
			b2, err := s.readByte()
			if err != nil {
				return nil, err
			}
			switch b2 {
			case 'n':
				buf = append(buf, '\n')
			case 'r':
				buf = append(buf, '\r')
			case 't':
				buf = append(buf, '\t')
			case 'b':
				buf = append(buf, '\b')
			case 'f':
				buf = append(buf, '\f')
			case '(', ')', '\\':
				buf = append(buf, b2)
			case '\n':
				// backslash-newline: line continuation, ignored
			case '\r':
				nxt, err := s.peekByte()
				if err == nil && nxt == '\n' {
					s.readByte()
				}
			default:
				if b2 >= '0' && b2 <= '7' {
					digits := []byte{b2}
					for len(digits) < 3 {
						nxt, err := s.peekByte()
						if err != nil || nxt < '0' || nxt > '7' {
							break
						}
						s.readByte()
						digits = append(digits, nxt)
					}
					v, _ := strconv.ParseUint(string(digits), 8, 16)
					buf = append(buf, byte(v))
				} else {
					buf = append(buf, b2)
				}
			}
		default:
			buf = append(buf, b)
		}
	}
}

func (s *lexer) readHexString() (HexString, error) {
	var digits []byte
	for {
		b, err := s.readByte()
		if err != nil {
			return nil, err
		}
		if b == '>' {
			break
		}
		if classOf(b) == classSpace {
			continue
		}
		digits = append(digits, b)
	}
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out := make([]byte, len(digits)/2)
	for i := range out {
		v, err := strconv.ParseUint(string(digits[2*i:2*i+2]), 16, 8)
		if err != nil {
			return nil, fmt.Errorf("invalid hex string digit at byte %d", s.pos)
		}
		out[i] = byte(v)
	}
	return HexString(out), nil
}
