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
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfedit/store"
)

func TestDecompress(t *testing.T) {
	plain := []byte("q 1 0 0 1 0 0 cm Q\n")
	compressed := zlibCompress(t, plain)

	st := store.New(store.V1_7)
	flate := st.Alloc()
	st.Put(flate, &store.Stream{
		Dict: store.Dict{"Filter": store.Name("FlateDecode")},
		Data: compressed,
	})
	chain := st.Alloc()
	st.Put(chain, &store.Stream{
		Dict: store.Dict{
			"Filter": store.Array{store.Name("AHx"), store.Name("Fl")},
		},
		Data: []byte(hexString(compressed) + ">"),
	})
	image := st.Alloc()
	st.Put(image, &store.Stream{
		Dict: store.Dict{
			"Filter":      store.Array{store.Name("FlateDecode"), store.Name("DCTDecode")},
			"DecodeParms": store.Array{nil, store.Dict{"ColorTransform": store.Integer(0)}},
		},
		Data: zlibCompress(t, []byte("\xff\xd8jpeg")),
	})
	broken := st.Alloc()
	brokenStream := &store.Stream{
		Dict: store.Dict{"Filter": store.Name("FlateDecode")},
		Data: []byte("not zlib"),
	}
	st.Put(broken, brokenStream)
	raw := st.Alloc()
	rawStream := &store.Stream{
		Dict: store.Dict{"Filter": store.Name("JBIG2Decode")},
		Data: []byte{1, 2, 3},
	}
	st.Put(raw, rawStream)

	Decompress(st)

	expected := map[store.Reference]store.Object{
		flate: &store.Stream{
			Dict: store.Dict{"Length": store.Integer(len(plain))},
			Data: plain,
		},
		chain: &store.Stream{
			Dict: store.Dict{"Length": store.Integer(len(plain))},
			Data: plain,
		},
		image: &store.Stream{
			Dict: store.Dict{
				"Filter":      store.Name("DCTDecode"),
				"DecodeParms": store.Dict{"ColorTransform": store.Integer(0)},
				"Length":      store.Integer(6),
			},
			Data: []byte("\xff\xd8jpeg"),
		},
		broken: brokenStream,
		raw:    rawStream,
	}
	if d := cmp.Diff(expected, st.Objects); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}

	obj, _ := st.Get(broken)
	if obj.(*store.Stream) != brokenStream {
		t.Error("undecodable stream was replaced")
	}

	// Decompress is idempotent
	before := make(map[store.Reference]store.Object, len(st.Objects))
	for ref, obj := range st.Objects {
		before[ref] = obj
	}
	Decompress(st)
	for ref, obj := range st.Objects {
		if obj != before[ref] {
			t.Errorf("object %s changed on second call", ref)
		}
	}
}

func TestDecompressShared(t *testing.T) {
	orig := &store.Stream{
		Dict: store.Dict{"Filter": store.Name("ASCIIHexDecode")},
		Data: []byte("414243>"),
	}
	a := store.New(store.V1_7)
	a.Put(store.NewReference(1), orig)
	Decompress(a)

	if string(orig.Data) != "414243>" || orig.Dict["Filter"] != store.Name("ASCIIHexDecode") {
		t.Error("original stream was modified")
	}
	obj, _ := a.Get(store.NewReference(1))
	if string(obj.(*store.Stream).Data) != "ABC" {
		t.Errorf("wrong data %q", obj.(*store.Stream).Data)
	}
}

func TestLZW(t *testing.T) {
	// example from section 7.4.4.2 of ISO 32000-1:2008
	encoded := []byte{0x80, 0x0B, 0x60, 0x50, 0x22, 0x0C, 0x0C, 0x85, 0x01}
	decoded := []byte{45, 45, 45, 45, 45, 65, 45, 45, 45, 66}

	for _, early := range []store.Object{nil, store.Integer(1), store.Integer(0)} {
		fi := filterInfo{Name: "LZWDecode"}
		if early != nil {
			fi.Parms = store.Dict{"EarlyChange": early}
		}
		out, err := applyFilter(encoded, fi)
		if err != nil {
			t.Errorf("EarlyChange %v: %v", early, err)
			continue
		}
		if d := cmp.Diff(decoded, out); d != "" {
			t.Errorf("EarlyChange %v (-want +got):\n%s", early, d)
		}
	}
}

func TestFlatePredictor(t *testing.T) {
	// two rows of three bytes, PNG "Up" predictor on the second row
	rows := []byte{
		0, 1, 2, 3,
		2, 1, 1, 1,
	}
	fi := filterInfo{
		Name: "FlateDecode",
		Parms: store.Dict{
			"Predictor": store.Integer(12),
			"Columns":   store.Integer(3),
		},
	}
	out, err := applyFilter(zlibCompress(t, rows), fi)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]byte{1, 2, 3, 2, 3, 4}, out); d != "" {
		t.Errorf("unexpected result (-want +got):\n%s", d)
	}
}

func TestRunLengthFilter(t *testing.T) {
	out, err := applyFilter([]byte{2, 'a', 'b', 'c', 254, 'x', 128}, filterInfo{Name: "RL"})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != "abcxxx" {
		t.Errorf("got %q", out)
	}
}

func hexString(data []byte) string {
	const digits = "0123456789abcdef"
	res := make([]byte, 0, 2*len(data))
	for _, c := range data {
		res = append(res, digits[c>>4], digits[c&15])
	}
	return string(res)
}
