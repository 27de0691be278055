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

// Package codec converts between PDF files and in-memory object stores.
//
// [Decode] parses a file into a [store.Store], [Decompress] removes stream
// filters, and [Encode] writes a store as a PDF file with a classic
// cross-reference table.
package codec

import (
	"bytes"
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/pdfedit/logging"
	"seehuhn.de/go/pdfedit/store"
)

// maxLengthDepth limits the nesting of indirect /Length entries.
const maxLengthDepth = 8

type reader struct {
	data []byte

	// base is the offset of the "%PDF-" header.
	base int

	xref map[int]*xRefEntry

	// containers lists the xref streams and object streams of the file.
	containers map[store.Reference]bool

	cache   map[store.Reference]store.Object
	loading map[store.Reference]bool
	objStms map[store.Reference]*objStm

	// scanned maps object numbers to the position of the last
	// "n g obj" header in the file.  It is filled on demand.
	scanned map[int]int64

	lengthDepth int
}

// Decode parses a PDF file.
//
// Every object listed in the cross-reference information is loaded into the
// returned store.  Objects which cannot be read, and objects which are
// referenced but not present, are stored as null.  Cross-reference streams
// and object streams are not part of the result.
//
// If the cross-reference information is unusable, Decode reconstructs it by
// scanning the file for object headers.  Encrypted files are rejected with
// [ErrEncrypted].
func Decode(data []byte) (*store.Store, error) {
	ver, base, err := readHeaderVersion(data)
	if err != nil {
		return nil, err
	}

	r := &reader{
		data:       data,
		base:       base,
		containers: make(map[store.Reference]bool),
		cache:      make(map[store.Reference]store.Object),
		loading:    make(map[store.Reference]bool),
		objStms:    make(map[store.Reference]*objStm),
	}

	trailer, err := r.readXRef()
	if err != nil {
		logging.Logger().Warn("reconstructing cross-reference information",
			"error", err)
		trailer, err = r.reconstruct()
		if err != nil {
			return nil, err
		}
	}

	if _, isEncrypted := trailer["Encrypt"]; isEncrypted {
		return nil, ErrEncrypted
	}

	st := store.New(ver)
	numbers := make([]int, 0, len(r.xref))
	for number, entry := range r.xref {
		if number > 0 && !entry.IsFree() {
			numbers = append(numbers, number)
		}
	}
	slices.Sort(numbers)
	for _, number := range numbers {
		entry := r.xref[number]
		ref := store.Reference{Number: number, Generation: entry.Generation}
		obj, err := r.get(ref)
		if err != nil {
			logging.Logger().Debug("object replaced by null",
				"object", ref, "error", err)
			obj = nil
		}
		st.Put(ref, obj)
	}
	for ref := range r.containers {
		delete(st.Objects, ref)
	}
	if len(st.Objects) == 0 {
		return nil, &MalformedFileError{Err: errNoObjects}
	}

	trans := fillDangling(st)

	if root, ok := store.Remap(trailer["Root"], trans).(store.Reference); ok {
		st.Trailer.Root = root
	}
	if info, ok := store.Remap(trailer["Info"], trans).(store.Reference); ok {
		if obj, _ := st.Get(info); obj != nil {
			st.Trailer.Info = info
		}
	}
	st.Trailer.Size = st.MaxNumber + 1
	if size, ok := trailer["Size"].(store.Integer); ok && int(size) > st.Trailer.Size {
		st.Trailer.Size = int(size)
	}

	return st, nil
}

// get returns the object ref, loading it if needed.
func (r *reader) get(ref store.Reference) (store.Object, error) {
	if obj, ok := r.cache[ref]; ok {
		return obj, nil
	}
	if r.loading[ref] {
		return nil, fmt.Errorf("object %s refers to itself", ref)
	}
	r.loading[ref] = true
	defer delete(r.loading, ref)

	obj, err := r.load(ref)
	if err != nil {
		return nil, err
	}
	r.cache[ref] = obj
	return obj, nil
}

func (r *reader) load(ref store.Reference) (store.Object, error) {
	entry := r.xref[ref.Number]
	if entry == nil || entry.IsFree() || entry.Generation != ref.Generation {
		return nil, nil
	}

	if !entry.InStream.IsZero() {
		return r.getFromObjectStream(ref.Number, entry)
	}

	obj, err := r.loadAt(ref, entry.Pos)
	if err == nil {
		return obj, nil
	}
	if r.base > 0 {
		if obj, err2 := r.loadAt(ref, entry.Pos+int64(r.base)); err2 == nil {
			return obj, nil
		}
	}
	if pos, ok := r.scan()[ref.Number]; ok && pos != entry.Pos {
		if obj, err2 := r.loadAt(ref, pos); err2 == nil {
			return obj, nil
		}
	}
	return nil, err
}

// loadAt reads the indirect object ref at position pos.
func (r *reader) loadAt(ref store.Reference, pos int64) (store.Object, error) {
	if pos < 0 || pos >= int64(len(r.data)) {
		return nil, &MalformedFileError{Pos: pos, Err: errXRefPos}
	}
	s := newScanner(r.data, int(pos), r.getInt)
	found, obj, err := s.ReadIndirectObject()
	if err != nil {
		return nil, err
	}
	if found.Number != ref.Number {
		return nil, &MalformedFileError{
			Pos: pos,
			Err: fmt.Errorf("expected object %d, found %d", ref.Number, found.Number),
		}
	}
	if stm, ok := obj.(*store.Stream); ok {
		switch stm.Dict.Type() {
		case "XRef", "ObjStm":
			r.containers[ref] = true
		}
	}
	return obj, nil
}

// getInt resolves the /Length entry of a stream.
func (r *reader) getInt(obj store.Object) (store.Integer, error) {
	if ref, isRef := obj.(store.Reference); isRef {
		if r.lengthDepth >= maxLengthDepth {
			return 0, errLengthDepth
		}
		r.lengthDepth++
		var err error
		obj, err = r.get(ref)
		r.lengthDepth--
		if err != nil {
			return 0, err
		}
	}
	x, ok := obj.(store.Integer)
	if !ok {
		return 0, errors.New("stream length is not an integer")
	}
	return x, nil
}

func (r *reader) resolve(obj store.Object) store.Object {
	for i := 0; i < maxLengthDepth; i++ {
		ref, isRef := obj.(store.Reference)
		if !isRef {
			return obj
		}
		obj, _ = r.get(ref)
	}
	return nil
}

type objStm struct {
	data    []byte
	first   int
	offsets map[int]int
	index   []int
}

func (r *reader) getObjStm(ref store.Reference) (*objStm, error) {
	if stm, ok := r.objStms[ref]; ok {
		return stm, nil
	}

	obj, err := r.get(ref)
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(*store.Stream)
	if !ok || stream.Dict.Type() != "ObjStm" {
		return nil, fmt.Errorf("object %s is not an object stream", ref)
	}
	r.containers[ref] = true

	n, ok1 := r.resolve(stream.Dict["N"]).(store.Integer)
	first, ok2 := r.resolve(stream.Dict["First"]).(store.Integer)
	if !ok1 || !ok2 || n < 0 || first < 0 {
		return nil, fmt.Errorf("object stream %s: invalid /N or /First", ref)
	}
	data, err := decodeStream(r.resolve, stream)
	if err != nil {
		return nil, fmt.Errorf("object stream %s: %w", ref, err)
	}
	if int(first) > len(data) {
		return nil, fmt.Errorf("object stream %s: /First out of range", ref)
	}

	res := &objStm{
		data:    data,
		first:   int(first),
		offsets: make(map[int]int),
	}
	s := newScanner(data[:first], 0, nil)
	for i := 0; i < int(n); i++ {
		s.SkipWhiteSpace()
		number, err := s.ReadInteger()
		if err != nil {
			break
		}
		s.SkipWhiteSpace()
		offset, err := s.ReadInteger()
		if err != nil {
			break
		}
		if number <= 0 || offset < 0 || int(first)+int(offset) > len(data) {
			continue
		}
		if _, seen := res.offsets[int(number)]; !seen {
			res.offsets[int(number)] = int(offset)
		}
		res.index = append(res.index, int(number))
	}
	r.objStms[ref] = res
	return res, nil
}

func (r *reader) getFromObjectStream(number int, entry *xRefEntry) (store.Object, error) {
	stm, err := r.getObjStm(entry.InStream)
	if err != nil {
		return nil, err
	}

	offset, ok := stm.offsets[number]
	if !ok {
		return nil, fmt.Errorf("object %d not found in object stream %s",
			number, entry.InStream)
	}
	s := newScanner(stm.data, stm.first+offset, nil)
	obj, err := s.ReadObject()
	if err != nil {
		return nil, err
	}
	if _, isStream := obj.(*store.Stream); isStream {
		return nil, fmt.Errorf("stream object %d inside object stream", number)
	}
	return obj, nil
}

var objHeader = regexp.MustCompile(`(?m)(?:^|[\s%])(\d{1,10})[ \t\r\n\f\x00]+(\d{1,5})[ \t\r\n\f\x00]+obj\b`)

// scan locates all "n g obj" headers in the file.
func (r *reader) scan() map[int]int64 {
	if r.scanned != nil {
		return r.scanned
	}
	r.scanned = make(map[int]int64)
	for _, m := range objHeader.FindAllSubmatchIndex(r.data, -1) {
		number, err := strconv.Atoi(string(r.data[m[2]:m[3]]))
		if err != nil || number <= 0 {
			continue
		}
		r.scanned[number] = int64(m[2])
	}
	return r.scanned
}

// reconstruct builds the xref table by scanning the file for object headers.
// The trailer is taken from the last "trailer" dictionary in the file, or
// from the last xref stream.
func (r *reader) reconstruct() (store.Dict, error) {
	r.xref = make(map[int]*xRefEntry)
	r.cache = make(map[store.Reference]store.Object)

	positions := r.scan()
	if len(positions) == 0 {
		return nil, &MalformedFileError{Err: errNoObjects}
	}
	for number, pos := range positions {
		s := newScanner(r.data, int(pos), nil)
		s.ReadInteger()
		s.SkipWhiteSpace()
		gen, _ := s.ReadInteger()
		r.xref[number] = &xRefEntry{Pos: pos, Generation: uint16(gen)}
	}

	var trailer store.Dict
	numbers := make([]int, 0, len(positions))
	for number := range positions {
		numbers = append(numbers, number)
	}
	slices.Sort(numbers)
	for _, number := range numbers {
		entry := r.xref[number]
		ref := store.Reference{Number: number, Generation: entry.Generation}
		obj, err := r.get(ref)
		if err != nil {
			continue
		}
		stream, ok := obj.(*store.Stream)
		if !ok {
			continue
		}
		switch stream.Dict.Type() {
		case "ObjStm":
			stm, err := r.getObjStm(ref)
			if err != nil {
				continue
			}
			for idx, inner := range stm.index {
				if _, direct := r.xref[inner]; direct {
					continue
				}
				r.xref[inner] = &xRefEntry{Pos: int64(idx), InStream: ref}
			}
		case "XRef":
			trailer = stream.Dict
		}
	}

	if pos := bytes.LastIndex(r.data, []byte("trailer")); pos >= 0 {
		s := newScanner(r.data, pos+7, nil)
		s.SkipWhiteSpace()
		if dict, err := s.ReadDict(); err == nil {
			trailer = dict
		}
	}
	if trailer == nil {
		trailer = store.Dict{}
	}
	return trailer, nil
}

// fillDangling makes sure that every reference in st points to an object.
// References with a wrong generation number are redirected to the object
// with the same number, all other dangling references get a null object.
// The returned map lists the redirected references.
func fillDangling(st *store.Store) map[store.Reference]store.Reference {
	byNumber := make(map[int]store.Reference, len(st.Objects))
	for ref := range st.Objects {
		byNumber[ref.Number] = ref
	}

	trans := make(map[store.Reference]store.Reference)
	missing := make(map[store.Reference]bool)
	var visit func(obj store.Object)
	visit = func(obj store.Object) {
		switch x := obj.(type) {
		case store.Reference:
			if _, ok := st.Objects[x]; ok {
				return
			}
			if alt, ok := byNumber[x.Number]; ok {
				trans[x] = alt
			} else {
				missing[x] = true
			}
		case store.Array:
			for _, elem := range x {
				visit(elem)
			}
		case store.Dict:
			for _, val := range x {
				visit(val)
			}
		case *store.Stream:
			visit(x.Dict)
		}
	}
	for _, obj := range st.Objects {
		visit(obj)
	}

	if len(trans) > 0 {
		for ref, obj := range st.Objects {
			st.Objects[ref] = store.Remap(obj, trans)
		}
	}
	for ref := range missing {
		st.Put(ref, nil)
	}
	return trans
}
