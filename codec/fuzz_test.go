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

package codec

import (
	"testing"
)

func FuzzDecode(f *testing.F) {
	data, err := EncodeBytes(testStore())
	if err != nil {
		f.Fatal(err)
	}
	f.Add(data)

	b := newFileBuilder("%PDF-1.3\n")
	b.obj(1, "<</Type/Catalog/Pages 2 0 R>>")
	b.obj(2, "<</Type/Pages/Kids[3 0 R]/Count 1>>")
	b.obj(3, "<</Type/Page/Parent 2 0 R/Contents 4 0 R>>")
	b.obj(4, "<</Length 5 0 R>>\nstream\nBT ET\nendstream")
	b.obj(5, "5")
	b.xrefTable(6, "<</Size 6/Root 1 0 R>>")
	f.Add(b.buf.Bytes())

	f.Add([]byte("%PDF-1.7\n1 0 obj\n<</Type/Catalog>>\nendobj\n%%EOF\n"))

	f.Fuzz(func(t *testing.T, data []byte) {
		st, err := Decode(data)
		if err != nil {
			t.Skip("invalid PDF")
		}
		st = Decompress(st)

		data2, err := EncodeBytes(st)
		if err != nil {
			t.Skip("cannot encode")
		}
		_, err = Decode(data2)
		if err != nil {
			t.Fatalf("re-encoded file cannot be read: %v", err)
		}
	})
}
