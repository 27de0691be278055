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

package store

import (
	"bytes"
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestRemap(t *testing.T) {
	a := NewReference(1)
	b := NewReference(2)
	c := NewReference(3)
	trans := map[Reference]Reference{
		a: NewReference(10),
		b: NewReference(20),
	}

	in := Dict{
		"Type":   Name("Page"),
		"Parent": a,
		"Kids":   Array{a, b, c, Integer(7), nil},
		"Inner":  Dict{"X": b},
	}
	out := Remap(in, trans)

	expected := Dict{
		"Type":   Name("Page"),
		"Parent": NewReference(10),
		"Kids":   Array{NewReference(10), NewReference(20), c, Integer(7), nil},
		"Inner":  Dict{"X": NewReference(20)},
	}
	if d := cmp.Diff(expected, out); d != "" {
		t.Error(d)
	}

	// the input must not be modified
	if in["Parent"] != a || in["Inner"].(Dict)["X"] != b {
		t.Error("Remap modified its argument")
	}
}

func TestRemapStream(t *testing.T) {
	data := []byte("BT ET")
	in := &Stream{
		Dict: Dict{"Resources": NewReference(4)},
		Data: data,
	}
	trans := map[Reference]Reference{NewReference(4): NewReference(9)}

	out := Remap(in, trans).(*Stream)
	if out.Dict["Resources"] != NewReference(9) {
		t.Errorf("stream dictionary not remapped: %v", out.Dict)
	}
	if &out.Data[0] != &data[0] {
		t.Error("stream payload was copied")
	}
	if in.Dict["Resources"] != NewReference(4) {
		t.Error("Remap modified its argument")
	}
}

func TestCopy(t *testing.T) {
	src := New(V1_7)
	src.Put(NewReference(1), Dict{"Type": Name("Catalog"), "Pages": NewReference(2)})
	src.Put(NewReference(2), Dict{"Type": Name("Pages"), "Kids": Array{NewReference(5)}, "Count": Integer(1)})
	src.Put(NewReference(5), Dict{"Type": Name("Page"), "Parent": NewReference(2)})

	dst := New(V1_7)
	dst.Put(NewReference(1), Integer(42)) // pre-existing object

	excluded := map[Reference]bool{NewReference(1): true}
	trans := Copy(dst, src, excluded)

	if len(trans) != 3 {
		t.Fatalf("expected 3 translations, got %d", len(trans))
	}
	// numbers are allocated in source order, after the existing object
	expected := map[Reference]Reference{
		NewReference(1): NewReference(2),
		NewReference(2): NewReference(3),
		NewReference(5): NewReference(4),
	}
	if d := cmp.Diff(expected, trans); d != "" {
		t.Error(d)
	}

	if _, ok := dst.Get(NewReference(2)); ok {
		t.Error("excluded object was copied")
	}
	page, ok := dst.GetDict(NewReference(4))
	if !ok {
		t.Fatal("page missing")
	}
	if page["Parent"] != NewReference(3) {
		t.Errorf("wrong parent %v", page["Parent"])
	}
	if dst.MaxNumber != 4 {
		t.Errorf("wrong MaxNumber %d", dst.MaxNumber)
	}
}

func TestCopyRepeated(t *testing.T) {
	src := New(V1_4)
	src.Put(NewReference(1), Array{NewReference(2)})
	src.Put(NewReference(2), Integer(1))

	dst := New(V1_4)
	t1 := Copy(dst, src, nil)
	t2 := Copy(dst, src, nil)

	seen := map[Reference]bool{}
	for _, trans := range []map[Reference]Reference{t1, t2} {
		for _, ref := range trans {
			if seen[ref] {
				t.Errorf("object number %d allocated twice", ref.Number)
			}
			seen[ref] = true
		}
	}
	if len(dst.Objects) != 4 {
		t.Errorf("expected 4 objects, got %d", len(dst.Objects))
	}
}

func TestSetRoot(t *testing.T) {
	s := New(V1_7)
	s.Alloc()
	ref := s.Alloc()
	s.Put(ref, Dict{"Type": Name("Catalog")})
	s.SetRoot(ref)
	if s.Trailer.Root != ref || s.Trailer.Size != 3 {
		t.Errorf("unexpected trailer %v", s.Trailer)
	}
}

func TestResolve(t *testing.T) {
	s := New(V1_7)
	s.Put(NewReference(1), NewReference(2))
	s.Put(NewReference(2), Integer(7))
	s.Put(NewReference(3), NewReference(3))

	if got := s.Resolve(NewReference(1)); got != Integer(7) {
		t.Errorf("got %v", got)
	}
	if got := s.Resolve(NewReference(3)); got != nil {
		t.Errorf("reference loop resolved to %v", got)
	}
	if got := s.Resolve(NewReference(99)); got != nil {
		t.Errorf("dangling reference resolved to %v", got)
	}
}

func TestObjectPDF(t *testing.T) {
	cases := []struct {
		in  Object
		out string
	}{
		{Bool(true), "true"},
		{Integer(-12), "-12"},
		{Real(1), "1."},
		{Real(0.5), "0.5"},
		{String("a(b)c"), "(a(b)c)"},
		{String("a)b"), `(a\)b)`},
		{String("line\n"), `(line\n)`},
		{String{0, 1, 2}, "<000102>"},
		{Name("Type"), "/Type"},
		{Name("A B#"), "/A#20B#23"},
		{Array{Integer(1), nil, Name("X")}, "[1 null /X]"},
		{Dict{"B": Integer(2), "A": Integer(1), "C": nil}, "<<\n/A 1\n/B 2\n>>"},
		{NewReference(12), "12 0 R"},
		{&Stream{Dict: Dict{"Length": Integer(99)}, Data: []byte("xyz")},
			"<<\n/Length 3\n>>\nstream\nxyz\nendstream"},
	}
	for _, test := range cases {
		buf := &bytes.Buffer{}
		err := test.in.PDF(buf)
		if err != nil {
			t.Errorf("%v: %v", test.in, err)
			continue
		}
		if got := buf.String(); got != test.out {
			t.Errorf("%v: got %q, want %q", test.in, got, test.out)
		}
	}
}

func TestRealNonFinite(t *testing.T) {
	buf := &bytes.Buffer{}
	if err := Real(math.Inf(1)).PDF(buf); err == nil {
		t.Error("infinite real was accepted")
	}
}

func TestText(t *testing.T) {
	cases := []struct {
		in  String
		out string
	}{
		{String("plain"), "plain"},
		{String{0xFE, 0xFF, 0x00, 'A', 0x20, 0xAC}, "A€"},
		{String{0xEF, 0xBB, 0xBF, 'h', 'i'}, "hi"},
		{String{0x80, 'x', 0xA0}, "•x€"},
		{String{0xE9}, "é"},
	}
	for _, test := range cases {
		if got := test.in.Text(); got != test.out {
			t.Errorf("%q: got %q, want %q", test.in, got, test.out)
		}
	}
}

func TestVersion(t *testing.T) {
	for _, s := range []string{"1.0", "1.4", "1.7", "2.0"} {
		ver, err := ParseVersion(s)
		if err != nil {
			t.Fatal(err)
		}
		if ver.String() != s {
			t.Errorf("%s: round trip gave %s", s, ver)
		}
	}
	if _, err := ParseVersion("3.1"); err == nil {
		t.Error("invalid version accepted")
	}
	if V1_7 >= V2_0 {
		t.Error("versions are not ordered")
	}
}
