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

// Delete returns a copy of doc with the given pages removed.
// Page numbers start at 1; repeated numbers are ignored.  The remaining
// pages keep their relative order.  It is an error to delete every page.
func Delete(doc []byte, pages []int, opt *Options) ([]byte, error) {
	st, err := decode(doc)
	if err != nil {
		return nil, err
	}
	dst, err := DeleteStore(st, pages)
	if err != nil {
		return nil, err
	}
	return finalize(dst, opt)
}

// DeleteStore is like [Delete], but operates on a decoded document.
func DeleteStore(st *store.Store, pages []int) (*store.Store, error) {
	src, err := locate(st)
	if err != nil {
		return nil, err
	}

	remove := make(map[int]bool, len(pages))
	for _, n := range pages {
		if _, err := src.page(n); err != nil {
			return nil, err
		}
		remove[n] = true
	}
	if len(remove) == len(src.pages) {
		return nil, ErrWouldDeleteAll
	}

	var kept []store.Reference
	isKept := make(map[store.Reference]bool)
	for i, ref := range src.pages {
		if !remove[i+1] {
			kept = append(kept, ref)
			isKept[ref] = true
		}
	}

	excluded := make(map[store.Reference]bool)
	for n := range remove {
		ref := src.pages[n-1]
		if !isKept[ref] {
			excluded[ref] = true
		}
	}
	return flatten(src, kept, excluded)
}
