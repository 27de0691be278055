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

package pdfedit

import (
	"seehuhn.de/go/pdfedit/codec"
	"seehuhn.de/go/pdfedit/pagetree"
	"seehuhn.de/go/pdfedit/store"
)

// decode parses a source document and removes its stream filters.
func decode(data []byte) (*store.Store, error) {
	st, err := codec.Decode(data)
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}
	return codec.Decompress(st), nil
}

// source is a document together with its page tree.
type source struct {
	st      *store.Store
	catalog store.Reference
	root    store.Reference
	pages   []store.Reference
}

// locate finds the catalog, the page tree root and the pages of st.
// A document without catalog or page tree is malformed.
func locate(st *store.Store) (*source, error) {
	catalog, ok := pagetree.FindCatalog(st)
	if !ok {
		return nil, &CodecError{Op: "decode", Err: errNoCatalog}
	}
	root, ok := pagetree.FindRoot(st)
	if !ok {
		return nil, &CodecError{Op: "decode", Err: errNoPageTree}
	}
	pages, err := pagetree.Pages(st, root)
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}
	return &source{st: st, catalog: catalog, root: root, pages: pages}, nil
}

// page returns the page with the given 1-based number.
func (src *source) page(n int) (store.Reference, error) {
	if n < 1 || n > len(src.pages) {
		return store.Reference{}, &PageOutOfRangeError{Page: n, Total: len(src.pages)}
	}
	return src.pages[n-1], nil
}

// copyInto copies all objects of src, except for the excluded ones, into
// dst.  Every excluded object is replaced by a null object, so that
// references to it still resolve.  If dst has no document information
// dictionary yet, the one of src is used.
func copyInto(dst, src *store.Store, excluded map[store.Reference]bool) map[store.Reference]store.Reference {
	trans := store.Copy(dst, src, excluded)
	for ref := range excluded {
		if newRef, ok := trans[ref]; ok {
			dst.Put(newRef, nil)
		}
	}

	info := src.Trailer.Info
	if dst.Trailer.Info.IsZero() && !info.IsZero() && !excluded[info] {
		if newInfo, ok := trans[info]; ok {
			dst.Trailer.Info = newInfo
		}
	}
	return trans
}

// flatten builds a new document containing the given pages of src, in the
// given order, as direct children of a single new page tree root.
// The old catalog and page tree root, as well as all additionally
// excluded objects, are left out.
//
// Attributes which the pages inherit from intermediate nodes are copied
// onto the new page objects, since the intermediate nodes are no longer
// part of the new tree.  The source store is not modified.
func flatten(src *source, pages []store.Reference, excluded map[store.Reference]bool) (*store.Store, error) {
	inherited, err := pagetree.Inherited(src.st, src.root)
	if err != nil {
		return nil, &CodecError{Op: "decode", Err: err}
	}

	if excluded == nil {
		excluded = make(map[store.Reference]bool)
	}
	excluded[src.catalog] = true
	excluded[src.root] = true

	dst := store.New(src.st.Version)
	trans := copyInto(dst, src.st, excluded)

	for ref, attrs := range inherited {
		dict, ok := dst.Objects[trans[ref]].(store.Dict)
		if !ok {
			continue
		}
		for key, val := range attrs {
			dict[key] = store.Remap(val, trans)
		}
	}

	kids := make([]store.Reference, len(pages))
	for i, p := range pages {
		kids[i] = trans[p]
	}
	root := pagetree.InsertPagesNode(dst, kids, len(kids))
	pagetree.SetParent(dst, kids, root)
	catalog := pagetree.InsertCatalog(dst, root)
	dst.SetRoot(catalog)
	return dst, nil
}

// wrap builds a new page tree root whose kids are the given (already
// copied) subtrees, and a new catalog for it.  The page counts of the
// subtrees are trusted.
func wrap(dst *store.Store, subtrees []store.Reference) {
	total := 0
	for _, ref := range subtrees {
		total += pagetree.Count(dst, ref)
	}
	root := pagetree.InsertPagesNode(dst, subtrees, total)
	pagetree.SetParent(dst, subtrees, root)
	catalog := pagetree.InsertCatalog(dst, root)
	dst.SetRoot(catalog)
}
