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

// Package pagetree locates, enumerates and builds PDF page trees.
package pagetree

import (
	"errors"

	"seehuhn.de/go/pdfedit/store"
)

// ErrCycle is returned by [Pages] when the page tree contains a loop.
var ErrCycle = errors.New("page tree contains a cycle")

// FindCatalog returns the document catalog.  If the trailer /Root entry
// points to a catalog, this is used.  Otherwise the object with the lowest
// number and /Type /Catalog is returned.
func FindCatalog(st *store.Store) (store.Reference, bool) {
	if dict, ok := st.GetDict(st.Trailer.Root); ok && dict.Type() == "Catalog" {
		return st.Trailer.Root, true
	}
	return findFirst(st, func(dict store.Dict) bool {
		return dict.Type() == "Catalog"
	})
}

// FindRoot returns the root of the page tree, i.e. the /Pages node without
// a /Parent entry.  If several such nodes exist, the one referenced by the
// catalog is preferred.
func FindRoot(st *store.Store) (store.Reference, bool) {
	isRoot := func(dict store.Dict) bool {
		_, hasParent := dict["Parent"]
		return dict.Type() == "Pages" && !hasParent
	}

	if catalog, ok := FindCatalog(st); ok {
		cat, _ := st.GetDict(catalog)
		if ref, ok := cat["Pages"].(store.Reference); ok {
			if dict, ok := st.GetDict(ref); ok && isRoot(dict) {
				return ref, true
			}
		}
	}
	return findFirst(st, isRoot)
}

func findFirst(st *store.Store, match func(store.Dict) bool) (store.Reference, bool) {
	for _, ref := range st.Refs() {
		dict, ok := st.Objects[ref].(store.Dict)
		if ok && match(dict) {
			return ref, true
		}
	}
	return store.Reference{}, false
}

// Pages returns the leaves of the page tree below root, in document order.
// Page number n corresponds to index n-1 of the result.
//
// A kid is treated as an intermediate node if it has /Type /Pages or,
// without a /Type entry, a /Kids array.  Kids which are neither intermediate
// nodes nor pages are ignored.
func Pages(st *store.Store, root store.Reference) ([]store.Reference, error) {
	var res []store.Reference
	onPath := make(map[store.Reference]bool)

	var walk func(ref store.Reference) error
	walk = func(ref store.Reference) error {
		if onPath[ref] {
			return ErrCycle
		}
		onPath[ref] = true
		defer delete(onPath, ref)

		node, _ := st.GetDict(ref)
		kids, _ := st.Resolve(node["Kids"]).(store.Array)
		for _, kid := range kids {
			kidRef, ok := kid.(store.Reference)
			if !ok {
				continue
			}
			dict, ok := st.GetDict(kidRef)
			if !ok {
				continue
			}
			switch {
			case isPagesNode(dict):
				err := walk(kidRef)
				if err != nil {
					return err
				}
			case dict.Type() == "Page" || dict.Type() == "":
				res = append(res, kidRef)
			}
		}
		return nil
	}

	err := walk(root)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func isPagesNode(dict store.Dict) bool {
	switch dict.Type() {
	case "Pages":
		return true
	case "":
		_, hasKids := dict["Kids"].(store.Array)
		return hasKids
	default:
		return false
	}
}

// Count returns the /Count entry of the page tree node ref.
// The value is not checked against the tree.
func Count(st *store.Store, ref store.Reference) int {
	dict, _ := st.GetDict(ref)
	count, ok := st.Resolve(dict["Count"]).(store.Integer)
	if !ok || count < 0 {
		return 0
	}
	return int(count)
}

// InsertPagesNode adds a new /Pages node with the given kids to st.
func InsertPagesNode(st *store.Store, kids []store.Reference, count int) store.Reference {
	kidsArray := make(store.Array, len(kids))
	for i, kid := range kids {
		kidsArray[i] = kid
	}
	ref := st.Alloc()
	st.Put(ref, store.Dict{
		"Type":  store.Name("Pages"),
		"Kids":  kidsArray,
		"Count": store.Integer(count),
	})
	return ref
}

// InsertCatalog adds a new document catalog to st.
func InsertCatalog(st *store.Store, pages store.Reference) store.Reference {
	ref := st.Alloc()
	st.Put(ref, store.Dict{
		"Type":  store.Name("Catalog"),
		"Pages": pages,
	})
	return ref
}

// SetParent sets the /Parent entry of every listed node.
// Objects which are not dictionaries are left unchanged.
func SetParent(st *store.Store, kids []store.Reference, parent store.Reference) {
	for _, kid := range kids {
		dict, ok := st.Objects[kid].(store.Dict)
		if !ok {
			continue
		}
		dict["Parent"] = parent
	}
}

// inheritable lists the page attributes which can be specified on
// intermediate nodes of the page tree.
var inheritable = []store.Name{"Resources", "MediaBox", "CropBox", "Rotate"}

// Inherited returns, for every page below root, the attributes which the
// page inherits from intermediate nodes of the page tree and does not
// specify itself.  Pages which inherit nothing are omitted from the result.
// The store is not modified.
func Inherited(st *store.Store, root store.Reference) (map[store.Reference]store.Dict, error) {
	res := make(map[store.Reference]store.Dict)
	onPath := make(map[store.Reference]bool)

	var walk func(ref store.Reference, inherited store.Dict) error
	walk = func(ref store.Reference, inherited store.Dict) error {
		if onPath[ref] {
			return ErrCycle
		}
		onPath[ref] = true
		defer delete(onPath, ref)

		node, _ := st.GetDict(ref)
		here := inherited
		cloned := false
		for _, key := range inheritable {
			val, ok := node[key]
			if !ok {
				continue
			}
			if !cloned {
				here = cloneDict(inherited)
				cloned = true
			}
			here[key] = val
		}

		kids, _ := st.Resolve(node["Kids"]).(store.Array)
		for _, kid := range kids {
			kidRef, ok := kid.(store.Reference)
			if !ok {
				continue
			}
			dict, ok := st.Objects[kidRef].(store.Dict)
			if !ok {
				continue
			}
			switch {
			case isPagesNode(dict):
				err := walk(kidRef, here)
				if err != nil {
					return err
				}
			case dict.Type() == "Page" || dict.Type() == "":
				missing := store.Dict{}
				for key, val := range here {
					if _, ok := dict[key]; !ok {
						missing[key] = val
					}
				}
				if len(missing) > 0 {
					res[kidRef] = missing
				}
			}
		}
		return nil
	}

	err := walk(root, store.Dict{})
	if err != nil {
		return nil, err
	}
	return res, nil
}

func cloneDict(dict store.Dict) store.Dict {
	res := make(store.Dict, len(dict))
	for key, val := range dict {
		res[key] = val
	}
	return res
}
