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
	"strconv"

	"seehuhn.de/go/pdfedit/pagerange"
	"seehuhn.de/go/pdfedit/store"
)

// Rotate returns a copy of doc where the given pages are rotated
// clockwise by the given angles.  The angles are added to the existing
// /Rotate value of each page.  A page may be listed more than once.
func Rotate(doc []byte, rotations []pagerange.Rotation, opt *Options) ([]byte, error) {
	st, err := decode(doc)
	if err != nil {
		return nil, err
	}
	dst, err := RotateStore(st, rotations)
	if err != nil {
		return nil, err
	}
	return finalize(dst, opt)
}

// RotateStore is like [Rotate], but operates on a decoded document.
// The page dictionaries in st are modified in place.
//
// Only the /Rotate entry stored directly in a page dictionary is taken
// into account; values inherited from the page tree are ignored.
func RotateStore(st *store.Store, rotations []pagerange.Rotation) (*store.Store, error) {
	src, err := locate(st)
	if err != nil {
		return nil, err
	}

	targets := make([]store.Dict, len(rotations))
	for i, rot := range rotations {
		if !pagerange.ValidAngle(rot.Angle) {
			return nil, &pagerange.InvalidAngleError{Text: strconv.Itoa(rot.Angle)}
		}
		ref, err := src.page(rot.Page)
		if err != nil {
			return nil, err
		}
		dict, ok := st.Objects[ref].(store.Dict)
		if !ok {
			return nil, &CodecError{Op: "decode", Err: errNoPageTree}
		}
		targets[i] = dict
	}

	for i, rot := range rotations {
		dict := targets[i]
		current, _ := st.Resolve(dict["Rotate"]).(store.Integer)
		dict["Rotate"] = store.Integer(normalizeAngle(int(current) + rot.Angle))
	}

	excluded := map[store.Reference]bool{src.catalog: true}
	dst := store.New(st.Version)
	trans := copyInto(dst, st, excluded)
	wrap(dst, []store.Reference{trans[src.root]})
	return dst, nil
}

// normalizeAngle maps an angle in degrees to the range [0, 360).
func normalizeAngle(angle int) int {
	angle %= 360
	if angle < 0 {
		angle += 360
	}
	return angle
}
