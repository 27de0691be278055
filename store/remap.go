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

package store

// Remap returns a copy of obj in which every reference found in the
// translation table is replaced by its translation.  References which are
// not listed in the table are kept unchanged.
//
// Arrays and dictionaries are copied recursively.  For streams only the
// stream dictionary is rewritten, the payload is shared with the original.
// Remap never modifies obj.
func Remap(obj Object, trans map[Reference]Reference) Object {
	switch x := obj.(type) {
	case Reference:
		if newRef, ok := trans[x]; ok {
			return newRef
		}
		return x
	case Array:
		return remapArray(x, trans)
	case Dict:
		return remapDict(x, trans)
	case *Stream:
		return &Stream{
			Dict: remapDict(x.Dict, trans),
			Data: x.Data,
		}
	default:
		return obj
	}
}

func remapDict(obj Dict, trans map[Reference]Reference) Dict {
	if obj == nil {
		return nil
	}
	res := make(Dict, len(obj))
	for key, val := range obj {
		res[key] = Remap(val, trans)
	}
	return res
}

func remapArray(obj Array, trans map[Reference]Reference) Array {
	if obj == nil {
		return nil
	}
	res := make(Array, len(obj))
	for i, val := range obj {
		res[i] = Remap(val, trans)
	}
	return res
}
