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
	"compress/lzw"
	"compress/zlib"
	"errors"
	"fmt"
	"io"

	tifflzw "golang.org/x/image/tiff/lzw"

	"seehuhn.de/go/pdfedit/internal/filter/ascii85"
	"seehuhn.de/go/pdfedit/internal/filter/asciihex"
	"seehuhn.de/go/pdfedit/internal/filter/predict"
	"seehuhn.de/go/pdfedit/internal/filter/runlength"
	"seehuhn.de/go/pdfedit/logging"
	"seehuhn.de/go/pdfedit/store"
)

// maxDecodedSize limits the output of a single filter, to guard against
// decompression bombs.
const maxDecodedSize = 1 << 30

// filterInfo describes one entry of a stream's filter chain.
type filterInfo struct {
	Name  store.Name
	Parms store.Dict
}

var errUnsupportedFilter = errors.New("unsupported filter")

// Decompress removes the leading chain of supported filters from every
// stream in st.  Streams which use an unsupported filter keep that filter and
// all filters after it.  Streams which fail to decode are left unchanged.
//
// Decompress modifies st in place and returns it.  Stream objects are
// replaced, not modified, so streams shared with other stores are not
// affected.  Calling Decompress a second time has no effect.
func Decompress(st *store.Store) *store.Store {
	for _, ref := range st.Refs() {
		obj, _ := st.Get(ref)
		stm, ok := obj.(*store.Stream)
		if !ok || stm.Dict == nil {
			continue
		}
		res, err := decompressStream(st, stm)
		if err != nil {
			logging.Logger().Debug("stream left encoded",
				"object", ref, "error", err)
			continue
		}
		if res != stm {
			st.Put(ref, res)
		}
	}
	return st
}

// decompressStream returns stm with the leading supported filters applied.
// If no filter can be applied, stm itself is returned.
func decompressStream(st *store.Store, stm *store.Stream) (*store.Stream, error) {
	filters, err := getFilters(st, stm.Dict)
	if err != nil {
		return nil, err
	}

	data := stm.Data
	n := 0
	for _, fi := range filters {
		if !isSupported(fi.Name) {
			break
		}
		data, err = applyFilter(data, fi)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fi.Name, err)
		}
		n++
	}
	if n == 0 {
		return stm, nil
	}

	dict := make(store.Dict, len(stm.Dict))
	for key, val := range stm.Dict {
		dict[key] = val
	}
	setFilters(dict, filters[n:])
	dict["Length"] = store.Integer(len(data))
	delete(dict, "DL")

	return &store.Stream{Dict: dict, Data: data}, nil
}

// decodeStream applies all filters of stm.  This is used for the streams
// the reader itself needs to interpret, i.e. xref streams and object streams.
func decodeStream(getObj func(store.Object) store.Object, stm *store.Stream) ([]byte, error) {
	filters, err := getFilters(resolverFunc(getObj), stm.Dict)
	if err != nil {
		return nil, err
	}
	data := stm.Data
	for _, fi := range filters {
		if !isSupported(fi.Name) {
			return nil, fmt.Errorf("%w %s", errUnsupportedFilter, fi.Name)
		}
		data, err = applyFilter(data, fi)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", fi.Name, err)
		}
	}
	return data, nil
}

type resolver interface {
	Resolve(store.Object) store.Object
}

type resolverFunc func(store.Object) store.Object

func (f resolverFunc) Resolve(obj store.Object) store.Object {
	if f == nil {
		return obj
	}
	return f(obj)
}

func getFilters(r resolver, dict store.Dict) ([]filterInfo, error) {
	var names store.Array
	switch f := r.Resolve(dict["Filter"]).(type) {
	case nil:
		return nil, nil
	case store.Name:
		names = store.Array{f}
	case store.Array:
		names = f
	default:
		return nil, errors.New("malformed /Filter")
	}

	var parms store.Array
	switch p := r.Resolve(dict["DecodeParms"]).(type) {
	case store.Dict:
		parms = store.Array{p}
	case store.Array:
		parms = p
	}

	res := make([]filterInfo, len(names))
	for i, obj := range names {
		name, ok := r.Resolve(obj).(store.Name)
		if !ok {
			return nil, errors.New("malformed /Filter")
		}
		res[i].Name = name
		if i < len(parms) {
			res[i].Parms, _ = r.Resolve(parms[i]).(store.Dict)
		}
	}
	return res, nil
}

func setFilters(dict store.Dict, filters []filterInfo) {
	delete(dict, "Filter")
	delete(dict, "DecodeParms")
	switch len(filters) {
	case 0:
		// pass
	case 1:
		dict["Filter"] = filters[0].Name
		if filters[0].Parms != nil {
			dict["DecodeParms"] = filters[0].Parms
		}
	default:
		names := make(store.Array, len(filters))
		parms := make(store.Array, len(filters))
		hasParms := false
		for i, fi := range filters {
			names[i] = fi.Name
			if fi.Parms != nil {
				parms[i] = fi.Parms
				hasParms = true
			}
		}
		dict["Filter"] = names
		if hasParms {
			dict["DecodeParms"] = parms
		}
	}
}

func isSupported(name store.Name) bool {
	switch name {
	case "FlateDecode", "Fl", "LZWDecode", "LZW",
		"ASCIIHexDecode", "AHx", "ASCII85Decode", "A85",
		"RunLengthDecode", "RL":
		return true
	}
	return false
}

func applyFilter(data []byte, fi filterInfo) ([]byte, error) {
	var r io.Reader = bytes.NewReader(data)
	var err error
	usesPredictor := false
	switch fi.Name {
	case "FlateDecode", "Fl":
		r, err = zlib.NewReader(r)
		if err != nil {
			return nil, err
		}
		usesPredictor = true
	case "LZWDecode", "LZW":
		if getInt(fi.Parms, "EarlyChange", 1) == 0 {
			r = lzw.NewReader(r, lzw.MSB, 8)
		} else {
			r = tifflzw.NewReader(r, tifflzw.MSB, 8)
		}
		usesPredictor = true
	case "ASCIIHexDecode", "AHx":
		r = asciihex.Decode(r)
	case "ASCII85Decode", "A85":
		r = ascii85.Decode(r)
	case "RunLengthDecode", "RL":
		r = runlength.Decode(r)
	default:
		return nil, errUnsupportedFilter
	}

	res, err := io.ReadAll(io.LimitReader(r, maxDecodedSize+1))
	if c, ok := r.(io.Closer); ok {
		c.Close()
	}
	if len(res) > maxDecodedSize {
		return nil, errors.New("decoded stream too large")
	}
	if err != nil {
		// Many writers produce truncated zlib streams or wrong checksums.
		// Keep what could be decoded.
		if len(res) == 0 || !(errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, zlib.ErrChecksum)) {
			return nil, err
		}
	}

	if usesPredictor && fi.Parms != nil {
		p := predict.DefaultParams()
		p.Predictor = getInt(fi.Parms, "Predictor", p.Predictor)
		p.Colors = getInt(fi.Parms, "Colors", p.Colors)
		p.BitsPerComponent = getInt(fi.Parms, "BitsPerComponent", p.BitsPerComponent)
		p.Columns = getInt(fi.Parms, "Columns", p.Columns)
		res, err = predict.Decode(res, p)
		if err != nil {
			return nil, err
		}
	}
	return res, nil
}

func getInt(dict store.Dict, key store.Name, defValue int) int {
	x, ok := dict[key].(store.Integer)
	if !ok || x < -1<<31 || x > 1<<31-1 {
		return defValue
	}
	return int(x)
}
