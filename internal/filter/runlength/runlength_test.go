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

package runlength

import (
	"bytes"
	"io"
	"testing"
)

func TestDecode(t *testing.T) {
	cases := []struct {
		in, out []byte
	}{
		{[]byte{128}, nil},
		{[]byte{2, 'a', 'b', 'c', 128}, []byte("abc")},
		{[]byte{254, 'x', 128}, []byte("xxx")},
		{[]byte{1, 'a', 'b', 253, '-', 0, 'c'}, []byte("ab----c")},
	}
	for _, test := range cases {
		res, err := io.ReadAll(Decode(bytes.NewReader(test.in)))
		if err != nil {
			t.Errorf("%v: %v", test.in, err)
			continue
		}
		if !bytes.Equal(res, test.out) {
			t.Errorf("%v: got %q, want %q", test.in, res, test.out)
		}
	}
}

func TestTruncated(t *testing.T) {
	_, err := io.ReadAll(Decode(bytes.NewReader([]byte{5, 'a'})))
	if err == nil {
		t.Error("truncated literal run accepted")
	}
}
