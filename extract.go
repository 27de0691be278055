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

// Extract returns a new document consisting of the given pages of doc.
// Page numbers start at 1.  The pages appear in the order given, and a
// page listed several times appears several times.
func Extract(doc []byte, pages []int, opt *Options) ([]byte, error) {
	st, err := decode(doc)
	if err != nil {
		return nil, err
	}
	dst, err := ExtractStore(st, pages)
	if err != nil {
		return nil, err
	}
	return finalize(dst, opt)
}

// ExtractStore is like [Extract], but operates on a decoded document.
// The store st is not modified.
func ExtractStore(st *store.Store, pages []int) (*store.Store, error) {
	if len(pages) == 0 {
		return nil, ErrNoPagesSelected
	}
	src, err := locate(st)
	if err != nil {
		return nil, err
	}

	selected := make([]store.Reference, len(pages))
	for i, n := range pages {
		selected[i], err = src.page(n)
		if err != nil {
			return nil, err
		}
	}
	return flatten(src, selected, nil)
}
