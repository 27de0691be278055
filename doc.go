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

// Package pdfedit implements structural edits of PDF documents:
// merging several documents, extracting, deleting and reordering pages,
// and rotating pages.
//
// All operations work on the graph of indirect objects.  The objects of
// the input are copied into a new document under fresh object numbers,
// a new page tree root and catalog are built, and the result is encoded
// as a new PDF file.  Content streams, fonts and images are carried over
// without being interpreted.
//
// Two strategies are used to build the new page tree.  Extract, Delete
// and Reorder place the selected pages directly below a new root node.
// Merge and Rotate keep the existing page trees intact and place them
// below a new root node, trusting the page counts of the subtrees.
//
// Every operation takes the input as a byte slice and returns the encoded
// result.  The variants with a "Store" suffix operate on decoded
// documents, see [seehuhn.de/go/pdfedit/store].  The functions in this
// package keep no state between calls and may be used concurrently.
package pdfedit
