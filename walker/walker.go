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

// Package walker iterates over the objects of a store.
package walker

import (
	"iter"

	"golang.org/x/exp/slices"

	"seehuhn.de/go/pdfedit/store"
)

// A Walker iterates over the objects reachable from the trailer of a store.
//
// The traversal starts at the document information dictionary and then
// visits the document catalog.  Each indirect object is visited exactly
// once.  Dictionary entries are visited in order of sorted keys.
type Walker struct {
	st *store.Store
}

// New creates a Walker for st.
func New(st *store.Store) *Walker {
	return &Walker{st: st}
}

// PreOrder returns an iterator over all reachable objects.  Containers are
// visited before their contents.  For direct objects the reference is the
// zero reference.
func (w *Walker) PreOrder() iter.Seq2[store.Reference, store.Object] {
	return func(yield func(store.Reference, store.Object) bool) {
		w.walk(yield, true)
	}
}

// PostOrder is like [Walker.PreOrder], but containers are visited after
// their contents.
func (w *Walker) PostOrder() iter.Seq2[store.Reference, store.Object] {
	return func(yield func(store.Reference, store.Object) bool) {
		w.walk(yield, false)
	}
}

func (w *Walker) walk(yield func(store.Reference, store.Object) bool, preOrder bool) {
	visited := make(map[store.Reference]bool)
	for _, start := range []store.Reference{w.st.Trailer.Info, w.st.Trailer.Root} {
		if start.IsZero() {
			continue
		}
		if !w.walkObject(start, yield, preOrder, visited) {
			return
		}
	}
}

func (w *Walker) walkObject(obj store.Object, yield func(store.Reference, store.Object) bool, preOrder bool, visited map[store.Reference]bool) bool {
	ref, isReference := obj.(store.Reference)
	if isReference {
		if visited[ref] {
			return true
		}
		visited[ref] = true
		resolved, ok := w.st.Get(ref)
		if !ok || resolved == nil {
			return true
		}
		obj = resolved
	}
	if obj == nil {
		return true
	}

	if preOrder && !yield(ref, obj) {
		return false
	}

	switch v := obj.(type) {
	case store.Array:
		for _, item := range v {
			if !w.walkObject(item, yield, preOrder, visited) {
				return false
			}
		}
	case store.Dict:
		if !w.walkDict(v, yield, preOrder, visited) {
			return false
		}
	case *store.Stream:
		if !w.walkDict(v.Dict, yield, preOrder, visited) {
			return false
		}
	}

	if !preOrder && !yield(ref, obj) {
		return false
	}
	return true
}

func (w *Walker) walkDict(dict store.Dict, yield func(store.Reference, store.Object) bool, preOrder bool, visited map[store.Reference]bool) bool {
	keys := make([]store.Name, 0, len(dict))
	for key := range dict {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	for _, key := range keys {
		if !w.walkObject(dict[key], yield, preOrder, visited) {
			return false
		}
	}
	return true
}

// IndirectObjects returns an iterator over the reachable indirect objects.
func (w *Walker) IndirectObjects() iter.Seq2[store.Reference, store.Object] {
	return func(yield func(store.Reference, store.Object) bool) {
		for ref, obj := range w.PreOrder() {
			if ref.IsZero() {
				continue
			}
			if !yield(ref, obj) {
				return
			}
		}
	}
}

// Reachable returns the set of indirect objects reachable from the trailer.
func Reachable(st *store.Store) map[store.Reference]bool {
	res := make(map[store.Reference]bool)
	for ref := range New(st).IndirectObjects() {
		res[ref] = true
	}
	return res
}

// Unreachable lists the objects of st which cannot be reached from the
// trailer, in increasing order.
func Unreachable(st *store.Store) []store.Reference {
	reachable := Reachable(st)
	var res []store.Reference
	for _, ref := range st.Refs() {
		if !reachable[ref] {
			res = append(res, ref)
		}
	}
	return res
}

// Dangling lists the references, in any object of st or in the trailer,
// which do not point to an object of st.  The result is sorted and contains
// no duplicates.
func Dangling(st *store.Store) []store.Reference {
	missing := make(map[store.Reference]bool)
	check := func(ref store.Reference) {
		if _, ok := st.Objects[ref]; !ok {
			missing[ref] = true
		}
	}

	var visit func(obj store.Object)
	visit = func(obj store.Object) {
		switch x := obj.(type) {
		case store.Reference:
			check(x)
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
	if !st.Trailer.Root.IsZero() {
		check(st.Trailer.Root)
	}
	if !st.Trailer.Info.IsZero() {
		check(st.Trailer.Info)
	}

	res := make([]store.Reference, 0, len(missing))
	for ref := range missing {
		res = append(res, ref)
	}
	slices.SortFunc(res, func(a, b store.Reference) int {
		if a.Number != b.Number {
			return a.Number - b.Number
		}
		return int(a.Generation) - int(b.Generation)
	})
	return res
}
