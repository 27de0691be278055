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

// Copy copies the objects of src into dst, allocating fresh object
// numbers in dst, and returns the translation table from src references to
// dst references.
//
// Every object of src is allocated a new number, including the excluded
// ones, so that references to excluded objects are translated in a
// predictable way.  The excluded objects themselves are not stored in dst;
// the caller is expected to either store a replacement under the
// translated reference or to make sure that nothing refers to it.
// Numbers are allocated in increasing order of the source object numbers.
//
// Objects which become unreachable because of the exclusions (for example
// the content streams of removed pages) are copied nevertheless.
//
// Copy can be called repeatedly with the same dst to combine several
// documents; the object numbers never collide.
func Copy(dst, src *Store, excluded map[Reference]bool) map[Reference]Reference {
	refs := src.Refs()

	trans := make(map[Reference]Reference, len(refs))
	for _, ref := range refs {
		trans[ref] = dst.Alloc()
	}

	for _, ref := range refs {
		if excluded[ref] {
			continue
		}
		dst.Put(trans[ref], Remap(src.Objects[ref], trans))
	}

	return trans
}
