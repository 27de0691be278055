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
	"fmt"

	"seehuhn.de/go/pdfedit/logging"
	"seehuhn.de/go/pdfedit/pagetree"
	"seehuhn.de/go/pdfedit/store"
)

// Merge concatenates the pages of the given PDF documents, in order.
// At least two documents are required.
func Merge(docs [][]byte, opt *Options) ([]byte, error) {
	if len(docs) < 2 {
		return nil, ErrTooFewDocuments
	}
	srcs := make([]*store.Store, len(docs))
	for i, data := range docs {
		st, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i+1, err)
		}
		srcs[i] = st
	}

	dst, err := MergeStores(srcs)
	if err != nil {
		return nil, err
	}
	return finalize(dst, opt)
}

// MergeStores combines the given documents into a new store.
//
// The page tree of every source becomes one subtree of the new page tree
// root, and the page counts of these subtrees are taken at face value.
// The catalogs of the sources are discarded.  A source without a page tree
// contributes no pages.  The document information dictionary of the first
// source which has one is kept.
func MergeStores(srcs []*store.Store) (*store.Store, error) {
	if len(srcs) < 2 {
		return nil, ErrTooFewDocuments
	}

	ver := srcs[0].Version
	for _, src := range srcs[1:] {
		ver = max(ver, src.Version)
	}
	dst := store.New(ver)

	var subtrees []store.Reference
	for i, src := range srcs {
		excluded := make(map[store.Reference]bool)
		catalog, hasCatalog := pagetree.FindCatalog(src)
		if hasCatalog {
			excluded[catalog] = true
		}
		root, hasRoot := pagetree.FindRoot(src)

		trans := copyInto(dst, src, excluded)

		if !hasRoot {
			logging.Logger().Warn("document has no page tree, skipped",
				"document", i+1, "catalog", hasCatalog)
			continue
		}
		subtrees = append(subtrees, trans[root])
	}

	wrap(dst, subtrees)
	return dst, nil
}
