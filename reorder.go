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
	"seehuhn.de/go/pdfedit/store"
)

// Reorder returns a copy of doc with the pages permuted.
// Page i of the result is page order[i-1] of doc.  The slice order must
// contain every page number of doc exactly once.
func Reorder(doc []byte, order []int, opt *Options) ([]byte, error) {
	st, err := decode(doc)
	if err != nil {
		return nil, err
	}
	dst, err := ReorderStore(st, order)
	if err != nil {
		return nil, err
	}
	return finalize(dst, opt)
}

// ReorderStore is like [Reorder], but operates on a decoded document.
func ReorderStore(st *store.Store, order []int) (*store.Store, error) {
	src, err := locate(st)
	if err != nil {
		return nil, err
	}

	total := len(src.pages)
	if len(order) != total {
		return nil, &WrongPageCountError{Expected: total, Got: len(order)}
	}
	seen := make([]bool, total+1)
	kids := make([]store.Reference, total)
	for i, n := range order {
		kids[i], err = src.page(n)
		if err != nil {
			return nil, err
		}
		if seen[n] {
			return nil, &DuplicatePageError{Page: n}
		}
		seen[n] = true
	}
	return flatten(src, kids, nil)
}
