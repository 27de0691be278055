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

	"seehuhn.de/go/pdfedit/store"
)

// maxXRefSections limits the length of the /Prev chain.
const maxXRefSections = 100

type xRefEntry struct {
	// Pos is the byte offset of the object, or the index inside the
	// containing object stream.  Pos is -1 for free entries.
	Pos        int64
	Generation uint16

	// InStream is the object stream which contains the object, or the zero
	// reference for objects stored directly in the file.
	InStream store.Reference
}

func (entry *xRefEntry) IsFree() bool {
	return entry.Pos < 0
}

type xRefSubSection struct {
	Start, Size int
}

// findXRef returns the offset given after the last "startxref" keyword.
func (r *reader) findXRef() (int64, error) {
	pos := bytes.LastIndex(r.data, []byte("startxref"))
	if pos < 0 {
		return 0, &MalformedFileError{Err: errNoStartXRef}
	}
	s := newScanner(r.data, pos+9, nil)
	s.SkipWhiteSpace()
	xRefPos, err := s.ReadInteger()
	if err != nil {
		return 0, err
	}
	if xRefPos <= 0 || int64(xRefPos) >= int64(len(r.data)) {
		return 0, &MalformedFileError{
			Pos: s.filePos(),
			Err: errXRefPos,
		}
	}
	return int64(xRefPos), nil
}

// readXRef reads the chain of xref sections, starting with the newest.
// Entries from newer sections take precedence, and trailer entries are
// taken from the newest trailer which contains them.
func (r *reader) readXRef() (store.Dict, error) {
	start, err := r.findXRef()
	if err != nil {
		return nil, err
	}

	r.xref = make(map[int]*xRefEntry)
	trailer := store.Dict{}
	seen := make(map[int64]bool)
	for count := 0; ; count++ {
		if seen[start] {
			break
		}
		if count >= maxXRefSections {
			return nil, &MalformedFileError{Pos: start, Err: errXRefDepth}
		}
		seen[start] = true

		dict, err := r.readXRefSection(start)
		if err != nil {
			return nil, err
		}

		for _, key := range []store.Name{"Root", "Info", "Encrypt", "ID", "Size"} {
			if _, done := trailer[key]; done {
				continue
			}
			if val, ok := dict[key]; ok {
				trailer[key] = val
			}
		}

		prev, ok := dict["Prev"].(store.Integer)
		if !ok {
			break
		}
		if prev <= 0 || int64(prev) >= int64(len(r.data)) {
			return nil, &MalformedFileError{
				Pos: start,
				Err: fmt.Errorf("invalid /Prev value %d", prev),
			}
		}
		start = int64(prev)
	}

	return trailer, nil
}

// readXRefSection reads a classic xref table or an xref stream at pos.
// If pos is off by the length of junk preceding the file header, the
// section is found anyway.
func (r *reader) readXRefSection(pos int64) (store.Dict, error) {
	dict, err := r.readXRefSectionAt(pos)
	if err != nil && r.base > 0 && pos+int64(r.base) < int64(len(r.data)) {
		var err2 error
		dict, err2 = r.readXRefSectionAt(pos + int64(r.base))
		if err2 == nil {
			err = nil
		}
	}
	return dict, err
}

func (r *reader) readXRefSectionAt(pos int64) (store.Dict, error) {
	s := newScanner(r.data, int(pos), nil)
	s.SkipWhiteSpace()
	if !s.HasPrefix("xref") {
		return r.readXRefStream(s)
	}

	dict, err := readXRefTable(r.xref, s)
	if err != nil {
		return nil, err
	}

	// hybrid-reference file
	if zStart, ok := dict["XRefStm"].(store.Integer); ok {
		if zStart <= 0 || int64(zStart) >= int64(len(r.data)) {
			return nil, &MalformedFileError{Pos: pos, Err: errXRefPos}
		}
		_, err = r.readXRefStream(newScanner(r.data, int(zStart), nil))
		if err != nil {
			return nil, err
		}
	}
	return dict, nil
}

func readXRefTable(xref map[int]*xRefEntry, s *scanner) (store.Dict, error) {
	err := s.SkipString("xref")
	if err != nil {
		return nil, err
	}
	s.SkipWhiteSpace()

	for s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '9' {
		start, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
		length, err := s.ReadInteger()
		if err != nil {
			return nil, err
		}
		if start < 0 || length < 0 || length > 1<<24 {
			return nil, s.errorf("invalid xref subsection %d %d", start, length)
		}
		s.SkipWhiteSpace()

		err = decodeXRefSection(xref, s, int(start), int(start+length))
		if err != nil {
			return nil, err
		}
		s.SkipWhiteSpace()
	}

	err = s.SkipString("trailer")
	if err != nil {
		return nil, err
	}
	s.SkipWhiteSpace()
	return s.ReadDict()
}

// decodeXRefSection reads the entries of one xref subsection.  Entries are
// nominally 20 bytes long, but the line ending is parsed leniently.
func decodeXRefSection(xref map[int]*xRefEntry, s *scanner, start, end int) error {
	for i := start; i < end; i++ {
		s.SkipWhiteSpace()
		a, err := s.ReadInteger()
		if err != nil {
			return err
		}
		s.SkipWhiteSpace()
		genStart := s.pos
		b, err := s.ReadInteger()
		if err != nil {
			return err
		}
		s.SkipWhiteSpace()
		if s.pos >= len(s.data) {
			return &MalformedFileError{Pos: s.filePos(), Err: errXRefCorrupt}
		}
		c := s.data[s.pos]
		s.pos++

		if xref[i] != nil {
			continue
		}

		if b > 65535 {
			// fix a common error in some PDF files
			if a == 0 && string(s.data[genStart:genStart+5]) == "65536" {
				b = 65535
				c = 'f'
			} else {
				return &MalformedFileError{Pos: int64(genStart), Err: errXRefCorrupt}
			}
		}

		switch c {
		case 'f':
			xref[i] = &xRefEntry{Pos: -1, Generation: uint16(b)}
		case 'n':
			xref[i] = &xRefEntry{Pos: int64(a), Generation: uint16(b)}
		default:
			return &MalformedFileError{Pos: s.filePos() - 1, Err: errXRefCorrupt}
		}
	}
	return nil
}

func (r *reader) readXRefStream(s *scanner) (store.Dict, error) {
	ref, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*store.Stream)
	if !ok {
		return nil, &MalformedFileError{
			Pos: s.filePos(),
			Err: errors.New("invalid xref stream"),
		}
	}
	r.containers[ref] = true
	dict := stream.Dict

	w, ss, err := checkXRefStreamDict(dict)
	if err != nil {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: err}
	}
	data, err := decodeStream(nil, stream)
	if err != nil {
		return nil, &MalformedFileError{Pos: s.filePos(), Err: err}
	}
	decodeXRefStream(r.xref, data, w, ss)

	return dict, nil
}

func checkXRefStreamDict(dict store.Dict) ([]int, []xRefSubSection, error) {
	size, ok := dict["Size"].(store.Integer)
	if !ok || size < 0 {
		return nil, nil, errors.New("xref stream: invalid /Size")
	}
	W, ok := dict["W"].(store.Array)
	if !ok || len(W) < 3 {
		return nil, nil, errors.New("xref stream: invalid /W")
	}
	w := make([]int, 3)
	for i := range w {
		wi, ok := W[i].(store.Integer)
		if !ok || wi < 0 || wi > 8 {
			return nil, nil, errors.New("xref stream: invalid /W")
		}
		w[i] = int(wi)
	}

	var ss []xRefSubSection
	switch ind := dict["Index"].(type) {
	case nil:
		ss = append(ss, xRefSubSection{0, int(size)})
	case store.Array:
		if len(ind)%2 != 0 {
			return nil, nil, errors.New("xref stream: invalid /Index")
		}
		for i := 0; i < len(ind); i += 2 {
			start, ok1 := ind[i].(store.Integer)
			size, ok2 := ind[i+1].(store.Integer)
			if !ok1 || !ok2 || start < 0 || size < 0 {
				return nil, nil, errors.New("xref stream: invalid /Index")
			}
			ss = append(ss, xRefSubSection{int(start), int(size)})
		}
	default:
		return nil, nil, errors.New("xref stream: invalid /Index")
	}
	return w, ss, nil
}

// decodeXRefStream reads the entries of an xref stream.  If the stream data
// is too short, the entries which are present are used.
func decodeXRefStream(xref map[int]*xRefEntry, data []byte, w []int, ss []xRefSubSection) {
	w0, w1, w2 := w[0], w[1], w[2]
	rowSize := w0 + w1 + w2
	if rowSize == 0 {
		return
	}
	for _, sec := range ss {
		for i := sec.Start; i < sec.Start+sec.Size; i++ {
			if len(data) < rowSize {
				return
			}
			row := data[:rowSize]
			data = data[rowSize:]

			if xref[i] != nil {
				continue
			}

			tp := decodeInt(row[:w0])
			if w0 == 0 {
				tp = 1
			}
			a := decodeInt(row[w0 : w0+w1])
			b := decodeInt(row[w0+w1:])
			switch tp {
			case 0:
				// free object
				xref[i] = &xRefEntry{Pos: -1, Generation: uint16(b)}
			case 1:
				// a = byte offset, b = generation number
				xref[i] = &xRefEntry{Pos: a, Generation: uint16(b)}
			case 2:
				// a = object stream number, b = index within the stream
				xref[i] = &xRefEntry{
					Pos:      b,
					InStream: store.NewReference(int(a)),
				}
			}
		}
	}
}

func decodeInt(buf []byte) (res int64) {
	for _, x := range buf {
		res = res<<8 | int64(x)
	}
	return res
}

// formatXRefEntry formats one 20-byte entry of a classic xref table.
func formatXRefEntry(pos int64, generation uint16, tp byte) string {
	return fmt.Sprintf("%010d %05d %c\r\n", pos, generation, tp)
}
