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

package pagetree

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"seehuhn.de/go/pdfedit/store"
)

// nestedStore builds a document with four pages in a three-level tree.
// Object numbers deliberately do not follow document order.
func nestedStore() (*store.Store, []store.Reference) {
	st := store.New(store.V1_7)
	r := store.NewReference
	pages := []store.Reference{r(9), r(3), r(7), r(4)}

	root, a, b, c := r(2), r(5), r(6), r(8)
	st.Put(r(1), store.Dict{"Type": store.Name("Catalog"), "Pages": root})
	st.Put(root, store.Dict{
		"Type":  store.Name("Pages"),
		"Kids":  store.Array{a, pages[2], b},
		"Count": store.Integer(4),
	})
	st.Put(a, store.Dict{
		"Type":   store.Name("Pages"),
		"Parent": root,
		"Kids":   store.Array{pages[0], pages[1]},
		"Count":  store.Integer(2),
	})
	st.Put(b, store.Dict{
		// no /Type
		"Parent": root,
		"Kids":   store.Array{c},
		"Count":  store.Integer(1),
	})
	st.Put(c, store.Dict{
		"Type":   store.Name("Pages"),
		"Parent": b,
		"Kids":   store.Array{pages[3]},
		"Count":  store.Integer(1),
	})
	parents := []store.Reference{a, a, root, c}
	for i, p := range pages {
		st.Put(p, store.Dict{"Type": store.Name("Page"), "Parent": parents[i]})
	}
	st.SetRoot(r(1))
	return st, pages
}

func TestPagesOrder(t *testing.T) {
	st, expected := nestedStore()
	root, ok := FindRoot(st)
	if !ok {
		t.Fatal("root not found")
	}
	if root != store.NewReference(2) {
		t.Errorf("wrong root %s", root)
	}

	pages, err := Pages(st, root)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff(expected, pages); d != "" {
		t.Errorf("wrong page order (-want +got):\n%s", d)
	}
}

func TestPagesSkipsInvalidKids(t *testing.T) {
	st := store.New(store.V1_7)
	r := store.NewReference
	st.Put(r(1), store.Dict{
		"Type": store.Name("Pages"),
		"Kids": store.Array{r(2), store.Integer(7), r(3), r(4), r(99)},
	})
	st.Put(r(2), store.Dict{"Type": store.Name("Page")})
	st.Put(r(3), store.Array{})
	st.Put(r(4), store.Dict{"Type": store.Name("Font")})

	pages, err := Pages(st, r(1))
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]store.Reference{r(2)}, pages); d != "" {
		t.Errorf("unexpected pages (-want +got):\n%s", d)
	}
}

func TestPagesCycle(t *testing.T) {
	st := store.New(store.V1_7)
	r := store.NewReference
	st.Put(r(1), store.Dict{"Type": store.Name("Pages"), "Kids": store.Array{r(2)}})
	st.Put(r(2), store.Dict{"Type": store.Name("Pages"), "Parent": r(1), "Kids": store.Array{r(3), r(1)}})
	st.Put(r(3), store.Dict{"Type": store.Name("Page"), "Parent": r(2)})

	_, err := Pages(st, r(1))
	if !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}

func TestPagesSharedNode(t *testing.T) {
	// a node referenced twice is not a cycle
	st := store.New(store.V1_7)
	r := store.NewReference
	st.Put(r(1), store.Dict{"Type": store.Name("Pages"), "Kids": store.Array{r(2), r(2)}})
	st.Put(r(2), store.Dict{"Type": store.Name("Pages"), "Kids": store.Array{r(3)}})
	st.Put(r(3), store.Dict{"Type": store.Name("Page")})

	pages, err := Pages(st, r(1))
	if err != nil {
		t.Fatal(err)
	}
	if len(pages) != 2 {
		t.Errorf("expected 2 pages, got %d", len(pages))
	}
}

func TestFindCatalog(t *testing.T) {
	st, _ := nestedStore()
	ref, ok := FindCatalog(st)
	if !ok || ref != store.NewReference(1) {
		t.Errorf("got %s %t", ref, ok)
	}

	// without a usable trailer, the catalog is found by scanning
	st.Trailer.Root = store.NewReference(2)
	ref, ok = FindCatalog(st)
	if !ok || ref != store.NewReference(1) {
		t.Errorf("scan: got %s %t", ref, ok)
	}

	delete(st.Objects, store.NewReference(1))
	_, ok = FindCatalog(st)
	if ok {
		t.Error("catalog found in store without catalog")
	}
}

func TestFindRootByScan(t *testing.T) {
	st := store.New(store.V1_7)
	r := store.NewReference
	st.Put(r(1), store.Dict{"Type": store.Name("Pages"), "Parent": r(3)})
	st.Put(r(2), store.Dict{"Type": store.Name("Page")})
	st.Put(r(3), store.Dict{"Type": store.Name("Pages"), "Kids": store.Array{r(1)}})

	root, ok := FindRoot(st)
	if !ok || root != r(3) {
		t.Errorf("got %s %t", root, ok)
	}

	delete(st.Objects, r(3))
	_, ok = FindRoot(st)
	if ok {
		t.Error("root found although every node has a parent")
	}
}

func TestCount(t *testing.T) {
	st, _ := nestedStore()
	if n := Count(st, store.NewReference(2)); n != 4 {
		t.Errorf("wrong count %d", n)
	}
	st.Put(store.NewReference(20), store.Integer(17))
	st.Put(store.NewReference(21), store.Dict{"Count": store.NewReference(20)})
	if n := Count(st, store.NewReference(21)); n != 17 {
		t.Errorf("indirect count: got %d", n)
	}
	if n := Count(st, store.NewReference(99)); n != 0 {
		t.Errorf("missing node: got %d", n)
	}
}

func TestBuild(t *testing.T) {
	st := store.New(store.V1_7)
	p1 := st.Alloc()
	p2 := st.Alloc()
	st.Put(p1, store.Dict{"Type": store.Name("Page")})
	st.Put(p2, store.Dict{"Type": store.Name("Page")})
	other := st.Alloc()
	st.Put(other, store.Integer(1))

	kids := []store.Reference{p2, p1, other}
	root := InsertPagesNode(st, kids, 2)
	SetParent(st, kids, root)
	catalog := InsertCatalog(st, root)

	if root.Number != 4 || catalog.Number != 5 {
		t.Errorf("unexpected allocation %s %s", root, catalog)
	}
	expected := store.Dict{
		"Type":  store.Name("Pages"),
		"Kids":  store.Array{p2, p1, other},
		"Count": store.Integer(2),
	}
	if d := cmp.Diff(expected, st.Objects[root]); d != "" {
		t.Errorf("wrong pages node (-want +got):\n%s", d)
	}
	for _, p := range []store.Reference{p1, p2} {
		dict, _ := st.GetDict(p)
		if dict["Parent"] != root {
			t.Errorf("%s: wrong parent %v", p, dict["Parent"])
		}
	}
	if obj := st.Objects[other]; obj != store.Integer(1) {
		t.Errorf("non-dictionary modified: %v", obj)
	}

	found, ok := FindCatalog(st)
	if !ok || found != catalog {
		t.Errorf("new catalog not found")
	}
	pages, err := Pages(st, root)
	if err != nil {
		t.Fatal(err)
	}
	if d := cmp.Diff([]store.Reference{p2, p1}, pages); d != "" {
		t.Errorf("wrong pages (-want +got):\n%s", d)
	}
}

func TestInherited(t *testing.T) {
	st, pages := nestedStore()
	box := store.Array{store.Integer(0), store.Integer(0), store.Integer(200), store.Integer(100)}
	res := store.NewReference(20)
	st.Put(res, store.Dict{})

	root, _ := st.GetDict(store.NewReference(2))
	root["MediaBox"] = box
	root["Rotate"] = store.Integer(90)
	a, _ := st.GetDict(store.NewReference(5))
	a["Resources"] = res
	a["Rotate"] = store.Integer(180)
	page4, _ := st.GetDict(pages[3])
	page4["Rotate"] = store.Integer(0)

	got, err := Inherited(st, store.NewReference(2))
	if err != nil {
		t.Fatal(err)
	}

	expected := map[store.Reference]store.Dict{
		pages[0]: {"Resources": res, "MediaBox": box, "Rotate": store.Integer(180)},
		pages[1]: {"Resources": res, "MediaBox": box, "Rotate": store.Integer(180)},
		pages[2]: {"MediaBox": box, "Rotate": store.Integer(90)},
		pages[3]: {"MediaBox": box},
	}
	if d := cmp.Diff(expected, got); d != "" {
		t.Errorf("wrong attributes (-want +got):\n%s", d)
	}

	// the store is unchanged
	for _, p := range pages {
		dict, _ := st.GetDict(p)
		if _, ok := dict["MediaBox"]; ok {
			t.Errorf("page %s was modified", p)
		}
	}
	if _, ok := a["MediaBox"]; ok {
		t.Error("intermediate node was modified")
	}
}

func TestInheritedCycle(t *testing.T) {
	st, _ := nestedStore()
	c, _ := st.GetDict(store.NewReference(8))
	c["Kids"] = store.Array{store.NewReference(6)}

	_, err := Inherited(st, store.NewReference(2))
	if !errors.Is(err, ErrCycle) {
		t.Errorf("expected ErrCycle, got %v", err)
	}
}
