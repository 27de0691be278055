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

	"seehuhn.de/go/pdfedit/pagerange"
)

// Kind identifies one of the structural edit operations.
type Kind int

// These are the supported operations.
const (
	KindMerge Kind = iota + 1
	KindExtract
	KindDelete
	KindReorder
	KindRotate
)

func (k Kind) String() string {
	switch k {
	case KindMerge:
		return "merge"
	case KindExtract:
		return "extract"
	case KindDelete:
		return "delete"
	case KindReorder:
		return "reorder"
	case KindRotate:
		return "rotate"
	default:
		return fmt.Sprintf("pdfedit.Kind(%d)", int(k))
	}
}

// Request describes one operation, together with its inputs.
// Which of the fields are used depends on Kind.
type Request struct {
	Kind Kind

	// Docs holds the input documents.  Merge uses all of them, the other
	// operations use Docs[0].
	Docs [][]byte

	// Pages lists page numbers, for Extract and Delete.
	Pages []int

	// Order is the new page order, for Reorder.
	Order []int

	// Rotations lists the pages to rotate, for Rotate.
	Rotations []pagerange.Rotation
}

// Apply performs the operation described by req.
func Apply(req *Request, opt *Options) ([]byte, error) {
	if req.Kind < KindMerge || req.Kind > KindRotate {
		return nil, fmt.Errorf("%s: %w", req.Kind, ErrUnknownOperation)
	}
	if req.Kind == KindMerge {
		return Merge(req.Docs, opt)
	}

	if len(req.Docs) != 1 {
		return nil, fmt.Errorf("%s: expected one document, got %d",
			req.Kind, len(req.Docs))
	}
	doc := req.Docs[0]

	switch req.Kind {
	case KindExtract:
		return Extract(doc, req.Pages, opt)
	case KindDelete:
		return Delete(doc, req.Pages, opt)
	case KindReorder:
		return Reorder(doc, req.Order, opt)
	default: // KindRotate
		return Rotate(doc, req.Rotations, opt)
	}
}
