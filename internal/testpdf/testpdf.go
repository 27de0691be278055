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

// Package testpdf generates small PDF documents for use in tests.
//
// Every page of a generated document has a content stream which shows a
// label, e.g. "A2" for the second page of document "A".  [Labels] recovers
// the labels from an encoded document, so that tests can check which
// pages ended up where.
package testpdf

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"regexp"
	"testing"

	"seehuhn.de/go/pdfedit/codec"
	"seehuhn.de/go/pdfedit/pagetree"
	"seehuhn.de/go/pdfedit/store"
	"seehuhn.de/go/pdfedit/walker"
)

// Layout describes a generated document.
type Layout struct {
	// Name is the prefix for the page labels.
	Name string

	// Pages is the number of pages.
	Pages int

	// Fanout is the maximum number of kids per page tree node.
	// If this is zero or larger than Pages, a single-level tree is built.
	Fanout int

	// Compress selects FlateDecode for the content streams.
	Compress bool
}

// Build generates a document according to l.
//
// All pages share one font resource, and the page size is inherited from
// the root of the page tree.
func Build(l Layout) *store.Store {
	st := store.New(store.V1_7)

	catalog := st.Alloc()
	root := st.Alloc()
	info := st.Alloc()
	font := st.Alloc()
	st.Put(info, store.Dict{"Title": store.String("document " + l.Name)})
	st.Put(font, store.Dict{
		"Type":     store.Name("Font"),
		"Subtype":  store.Name("Type1"),
		"BaseFont": store.Name("Helvetica"),
	})
	resources := store.Dict{
		"Font": store.Dict{"F1": font},
	}

	var leaves []store.Reference
	for i := 1; i <= l.Pages; i++ {
		content := st.Alloc()
		text := fmt.Sprintf("BT /F1 12 Tf 72 720 Td (%s%d) Tj ET", l.Name, i)
		stm := &store.Stream{Dict: store.Dict{}, Data: []byte(text)}
		if l.Compress {
			stm.Data = deflate(stm.Data)
			stm.Dict["Filter"] = store.Name("FlateDecode")
		}
		st.Put(content, stm)

		page := st.Alloc()
		st.Put(page, store.Dict{
			"Type":      store.Name("Page"),
			"Contents":  content,
			"Resources": resources,
		})
		leaves = append(leaves, page)
	}

	fanout := l.Fanout
	if fanout <= 0 || fanout > len(leaves) {
		fanout = max(len(leaves), 1)
	}
	type node struct {
		ref   store.Reference
		count int
	}
	level := make([]node, len(leaves))
	for i, ref := range leaves {
		level[i] = node{ref, 1}
	}
	for len(level) > fanout {
		var next []node
		for start := 0; start < len(level); start += fanout {
			group := level[start:min(start+fanout, len(level))]
			kids := make([]store.Reference, len(group))
			count := 0
			for i, n := range group {
				kids[i] = n.ref
				count += n.count
			}
			ref := pagetree.InsertPagesNode(st, kids, count)
			pagetree.SetParent(st, kids, ref)
			next = append(next, node{ref, count})
		}
		level = next
	}

	kids := make(store.Array, len(level))
	refs := make([]store.Reference, len(level))
	for i, n := range level {
		kids[i] = n.ref
		refs[i] = n.ref
	}
	st.Put(root, store.Dict{
		"Type":     store.Name("Pages"),
		"Kids":     kids,
		"Count":    store.Integer(len(leaves)),
		"MediaBox": store.Array{store.Integer(0), store.Integer(0), store.Integer(612), store.Integer(792)},
	})
	pagetree.SetParent(st, refs, root)
	st.Put(catalog, store.Dict{"Type": store.Name("Catalog"), "Pages": root})

	st.Trailer.Info = info
	st.SetRoot(catalog)
	return st
}

// Encode generates a document according to l and encodes it.
func Encode(t testing.TB, l Layout) []byte {
	t.Helper()
	data, err := codec.EncodeBytes(Build(l))
	if err != nil {
		t.Fatal(err)
	}
	return data
}

// Page describes one page of a decoded document.
type Page struct {
	Label  string
	Rotate int
}

var labelPat = regexp.MustCompile(`\(([^)]*)\) Tj`)

// Decode decodes an encoded document, checks its structural integrity and
// returns the decoded store and a description of its pages.
//
// The following properties are checked: every reference resolves, the
// trailer /Size is one more than the highest object number, and the page
// count of the root node matches the number of pages.
func Decode(t testing.TB, data []byte) (*store.Store, []Page) {
	t.Helper()

	st, err := codec.Decode(data)
	if err != nil {
		t.Fatal(err)
	}
	st = codec.Decompress(st)

	if dangling := walker.Dangling(st); len(dangling) > 0 {
		t.Errorf("dangling references: %v", dangling)
	}
	if st.Trailer.Size != st.Highest()+1 {
		t.Errorf("trailer /Size is %d, highest object number is %d",
			st.Trailer.Size, st.Highest())
	}

	root, ok := pagetree.FindRoot(st)
	if !ok {
		t.Fatal("page tree root not found")
	}
	refs, err := pagetree.Pages(st, root)
	if err != nil {
		t.Fatal(err)
	}
	if count := pagetree.Count(st, root); count != len(refs) {
		t.Errorf("root /Count is %d, found %d pages", count, len(refs))
	}

	pages := make([]Page, len(refs))
	for i, ref := range refs {
		dict, _ := st.GetDict(ref)
		var label string
		if stm, ok := st.Resolve(dict["Contents"]).(*store.Stream); ok {
			if m := labelPat.FindSubmatch(stm.Data); m != nil {
				label = string(m[1])
			}
		}
		rotate, _ := dict["Rotate"].(store.Integer)
		pages[i] = Page{Label: label, Rotate: int(rotate)}
	}
	return st, pages
}

// Labels returns the page labels of an encoded document.
func Labels(t testing.TB, data []byte) []string {
	t.Helper()
	_, pages := Decode(t, data)
	res := make([]string, len(pages))
	for i, p := range pages {
		res[i] = p.Label
	}
	return res
}

func deflate(data []byte) []byte {
	buf := &bytes.Buffer{}
	w := zlib.NewWriter(buf)
	w.Write(data)
	w.Close()
	return buf.Bytes()
}
