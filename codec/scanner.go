// seehuhn.de/go/pdfedit - structural editing of PDF files
// Copyright (C) 2026  Jochen Voss <voss@seehuhn.de>
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

package codec

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strconv"

	"seehuhn.de/go/pdfedit/store"
)

// scanner reads PDF objects from an in-memory file.
type scanner struct {
	data []byte
	pos  int

	// getInt resolves the /Length entry of stream dictionaries.
	// If getInt is nil, only direct integers are accepted.
	getInt func(store.Object) (store.Integer, error)
}

func newScanner(data []byte, pos int, getInt func(store.Object) (store.Integer, error)) *scanner {
	return &scanner{
		data:   data,
		pos:    pos,
		getInt: getInt,
	}
}

func (s *scanner) filePos() int64 {
	return int64(s.pos)
}

func (s *scanner) errorf(format string, args ...any) error {
	return &MalformedFileError{
		Pos: s.filePos(),
		Err: fmt.Errorf(format, args...),
	}
}

// ReadIndirectObject reads an object of the form "n g obj ... endobj".
// A missing "endobj" is tolerated.
func (s *scanner) ReadIndirectObject() (store.Reference, store.Object, error) {
	// Some files point the xref entries at the end of the previous line.
	s.SkipWhiteSpace()

	number, err := s.ReadInteger()
	if err != nil {
		return store.Reference{}, nil, err
	}
	s.SkipWhiteSpace()
	generation, err := s.ReadInteger()
	if err != nil {
		return store.Reference{}, nil, err
	}
	if number < 0 || generation < 0 || generation > 65535 {
		return store.Reference{}, nil, s.errorf("invalid object id %d %d", number, generation)
	}
	s.SkipWhiteSpace()
	err = s.SkipString("obj")
	if err != nil {
		return store.Reference{}, nil, err
	}
	s.SkipWhiteSpace()

	ref := store.Reference{Number: int(number), Generation: uint16(generation)}
	if s.HasPrefix("endobj") {
		s.pos += 6
		return ref, nil, nil
	}

	obj, err := s.ReadObject()
	if err != nil {
		return store.Reference{}, nil, err
	}
	s.SkipWhiteSpace()
	if s.HasPrefix("endobj") {
		s.pos += 6
	}

	return ref, obj, nil
}

// ReadObject reads a direct object.  Integers followed by "g R" are returned
// as references.
func (s *scanner) ReadObject() (store.Object, error) {
	s.SkipWhiteSpace()
	if s.pos >= len(s.data) {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
	}

	c := s.data[s.pos]
	switch {
	case s.HasPrefix("null"):
		s.pos += 4
		return nil, nil
	case s.HasPrefix("true"):
		s.pos += 4
		return store.Bool(true), nil
	case s.HasPrefix("false"):
		s.pos += 5
		return store.Bool(false), nil
	case c == '/':
		return s.ReadName()
	case c >= '0' && c <= '9', c == '+', c == '-', c == '.':
		obj, err := s.ReadNumber()
		if err != nil {
			return nil, err
		}
		if a, isInt := obj.(store.Integer); isInt && a >= 0 {
			if ref, isRef := s.readReferenceTail(a); isRef {
				return ref, nil
			}
		}
		return obj, nil
	case s.HasPrefix("<<"):
		dict, err := s.ReadDict()
		if err != nil {
			return nil, err
		}

		// check whether this is the start of a stream
		save := s.pos
		s.SkipWhiteSpace()
		if !s.HasPrefix("stream") {
			s.pos = save
			return dict, nil
		}
		return s.ReadStreamData(dict)
	case c == '(':
		s.pos++
		return s.ReadQuotedString()
	case c == '<':
		s.pos++
		return s.ReadHexString()
	case c == '[':
		s.pos++
		return s.ReadArray()
	}
	return nil, s.errorf("unexpected character %q", c)
}

// readReferenceTail checks whether the integer a is followed by "g R".
// If not, the scanner position is left unchanged.
func (s *scanner) readReferenceTail(a store.Integer) (store.Reference, bool) {
	save := s.pos
	s.SkipWhiteSpace()
	start := s.pos
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
	}
	if s.pos == start || s.pos-start > 5 {
		s.pos = save
		return store.Reference{}, false
	}
	b, _ := strconv.Atoi(string(s.data[start:s.pos]))
	s.SkipWhiteSpace()
	if b > 65535 || !s.HasPrefix("R") ||
		s.pos+1 < len(s.data) && isRegular(s.data[s.pos+1]) {
		s.pos = save
		return store.Reference{}, false
	}
	s.pos++
	return store.Reference{Number: int(a), Generation: uint16(b)}, true
}

// ReadInteger reads an integer.
func (s *scanner) ReadInteger() (store.Integer, error) {
	start := s.pos
	if s.pos < len(s.data) && (s.data[s.pos] == '+' || s.data[s.pos] == '-') {
		s.pos++
	}
	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		s.pos++
	}

	x, err := strconv.ParseInt(string(s.data[start:s.pos]), 10, 64)
	if err != nil {
		s.pos = start
		return 0, &MalformedFileError{
			Pos: int64(start),
			Err: errors.New("integer expected"),
		}
	}
	return store.Integer(x), nil
}

// ReadNumber reads an integer or real number.
func (s *scanner) ReadNumber() (store.Object, error) {
	start := s.pos
	hasDot := false
	first := true
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		isSign := first && (c == '+' || c == '-')
		if !hasDot && c == '.' {
			hasDot = true
		} else if !isSign && (c < '0' || c > '9') {
			break
		}
		first = false
		s.pos++
	}
	res := string(s.data[start:s.pos])

	if hasDot {
		if res == "." || res == "-." || res == "+." {
			return store.Real(0), nil
		}
		x, err := strconv.ParseFloat(res, 64)
		if err != nil {
			return nil, &MalformedFileError{Pos: int64(start), Err: err}
		}
		return store.Real(x), nil
	}

	x, err := strconv.ParseInt(res, 10, 64)
	if err != nil {
		if numErr, ok := err.(*strconv.NumError); ok && numErr.Err == strconv.ErrRange {
			f, _ := strconv.ParseFloat(res, 64)
			return store.Real(f), nil
		}
		return nil, &MalformedFileError{Pos: int64(start), Err: err}
	}
	return store.Integer(x), nil
}

// ReadQuotedString reads a ()-delimited string, starting after the opening
// bracket.
func (s *scanner) ReadQuotedString() (store.String, error) {
	res := []byte{}
	parenCount := 0
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				break
			}
			c = s.data[s.pos]
			s.pos++
			switch c {
			case '\n':
				continue
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
				continue
			case 'n':
				c = '\n'
			case 'r':
				c = '\r'
			case 't':
				c = '\t'
			case 'b':
				c = '\b'
			case 'f':
				c = '\f'
			case '0', '1', '2', '3', '4', '5', '6', '7':
				val := c - '0'
				for i := 0; i < 2 && s.pos < len(s.data); i++ {
					d := s.data[s.pos]
					if d < '0' || d > '7' {
						break
					}
					val = val*8 + (d - '0')
					s.pos++
				}
				c = val
			}
		case '(':
			parenCount++
		case ')':
			if parenCount == 0 {
				return store.String(res), nil
			}
			parenCount--
		case '\r':
			c = '\n'
			if s.pos < len(s.data) && s.data[s.pos] == '\n' {
				s.pos++
			}
		}
		res = append(res, c)
	}
	return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
}

// ReadHexString reads a <>-delimited string, starting after the opening
// angled bracket.
func (s *scanner) ReadHexString() (store.String, error) {
	res := []byte{}
	var hexVal byte
	first := true
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		var d byte
		switch {
		case c >= '0' && c <= '9':
			d = c - '0'
		case c >= 'A' && c <= 'F':
			d = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			d = c - 'a' + 10
		case c == '>':
			if !first {
				res = append(res, 16*hexVal)
			}
			return store.String(res), nil
		case isSpace(c):
			continue
		default:
			return nil, s.errorf("invalid character %q in hex string", c)
		}
		if first {
			hexVal = d
		} else {
			res = append(res, 16*hexVal+d)
		}
		first = !first
	}
	return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
}

// ReadName reads a PDF name object.
func (s *scanner) ReadName() (store.Name, error) {
	err := s.SkipString("/")
	if err != nil {
		return "", err
	}

	var res []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if !isRegular(c) {
			break
		}
		s.pos++
		if c == '#' && s.pos+1 < len(s.data) {
			hi, ok1 := hexDigit(s.data[s.pos])
			lo, ok2 := hexDigit(s.data[s.pos+1])
			if ok1 && ok2 {
				c = hi<<4 | lo
				s.pos += 2
			}
		}
		res = append(res, c)
	}
	return store.Name(res), nil
}

// ReadArray reads an array, starting after the opening "[".
func (s *scanner) ReadArray() (store.Array, error) {
	array := store.Array{}
	for {
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}
		if s.data[s.pos] == ']' {
			s.pos++
			return array, nil
		}

		obj, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		array = append(array, obj)
	}
}

// ReadDict reads a PDF dictionary.  Entries with null values are omitted.
func (s *scanner) ReadDict() (store.Dict, error) {
	err := s.SkipString("<<")
	if err != nil {
		return nil, err
	}

	dict := store.Dict{}
	for {
		s.SkipWhiteSpace()
		if s.HasPrefix(">>") {
			s.pos += 2
			return dict, nil
		}
		if s.pos >= len(s.data) {
			return nil, &MalformedFileError{Pos: s.filePos(), Err: io.ErrUnexpectedEOF}
		}

		key, err := s.ReadName()
		if err != nil {
			return nil, err
		}
		val, err := s.ReadObject()
		if err != nil {
			return nil, err
		}
		if val != nil {
			dict[key] = val
		}
	}
}

// ReadStreamData reads the data of a PDF Stream, starting after the Dict.
// If /Length is unusable, the data extends up to the next "endstream".
func (s *scanner) ReadStreamData(dict store.Dict) (*store.Stream, error) {
	s.SkipWhiteSpace()
	err := s.SkipString("stream")
	if err != nil {
		return nil, err
	}
	if s.HasPrefix("\r\n") {
		s.pos += 2
	} else if s.HasPrefix("\n") || s.HasPrefix("\r") {
		s.pos++
	}
	start := s.pos

	getInt := s.getInt
	if getInt == nil {
		getInt = directInt
	}
	end := -1
	length, err := getInt(dict["Length"])
	if err == nil && length >= 0 && int64(start)+int64(length) <= int64(len(s.data)) {
		end = start + int(length)
		s.pos = end
		s.SkipWhiteSpace()
		if !s.HasPrefix("endstream") {
			end = -1
		}
	}

	if end < 0 {
		idx := bytes.Index(s.data[start:], []byte("endstream"))
		if idx < 0 {
			return nil, &MalformedFileError{
				Pos: int64(start),
				Err: errors.New("unterminated stream"),
			}
		}
		end = start + idx
		s.pos = end
		if end > start && s.data[end-1] == '\n' {
			end--
		}
		if end > start && s.data[end-1] == '\r' {
			end--
		}
	}
	s.pos += 9 // len("endstream")

	return &store.Stream{
		Dict: dict,
		Data: bytes.Clone(s.data[start:end]),
	}, nil
}

// readHeaderVersion finds the "%PDF-x.y" header within the first kilobyte of
// the file.  It returns the version and the header offset.
func readHeaderVersion(data []byte) (store.Version, int, error) {
	head := data[:min(len(data), 1024)]
	idx := bytes.Index(head, []byte("%PDF-"))
	if idx < 0 {
		return 0, 0, &MalformedFileError{Err: errNoHeader}
	}

	verStart := idx + 5
	verEnd := verStart
	for verEnd < len(data) && (data[verEnd] == '.' || data[verEnd] >= '0' && data[verEnd] <= '9') {
		verEnd++
	}
	ver, err := store.ParseVersion(string(data[verStart:verEnd]))
	if err != nil {
		// Readers are expected to try their best with unknown versions.
		ver = store.V1_7
	}
	return ver, idx, nil
}

// HasPrefix reports whether the unread input starts with pat.
func (s *scanner) HasPrefix(pat string) bool {
	return s.pos <= len(s.data) && bytes.HasPrefix(s.data[s.pos:], []byte(pat))
}

// SkipWhiteSpace skips white space and comments.
func (s *scanner) SkipWhiteSpace() {
	isComment := false
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if isComment {
			if c == '\r' || c == '\n' {
				isComment = false
			}
		} else if c == '%' {
			isComment = true
		} else if !isSpace(c) {
			return
		}
		s.pos++
	}
}

// SkipString consumes pat, which must be next in the input.
func (s *scanner) SkipString(pat string) error {
	if !s.HasPrefix(pat) {
		found := s.data[s.pos:min(len(s.data), s.pos+len(pat))]
		return s.errorf("expected %q but found %q", pat, found)
	}
	s.pos += len(pat)
	return nil
}

func directInt(obj store.Object) (store.Integer, error) {
	x, ok := obj.(store.Integer)
	if !ok {
		return 0, errors.New("integer expected")
	}
	return x, nil
}

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

func isRegular(c byte) bool {
	return !isSpace(c) && !isDelimiter(c)
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	}
	return 0, false
}
