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

// Package asciihex implements the ASCIIHexDecode filter.
package asciihex

import (
	"bufio"
	"fmt"
	"io"
)

// Decode returns a reader which decodes data that has been encoded in ASCII
// hexadecimal form.  White space is ignored, ">" marks the end of data.
// A missing end marker is tolerated.
func Decode(r io.Reader) io.Reader {
	return &reader{r: bufio.NewReader(r)}
}

type reader struct {
	r   *bufio.Reader
	err error

	haveHigh bool
	high     byte
}

func (r *reader) Read(p []byte) (n int, err error) {
	if r.err != nil {
		return 0, r.err
	}

	for n < len(p) {
		c, err := r.r.ReadByte()
		if err == io.EOF {
			r.finish(p, &n)
			break
		} else if err != nil {
			r.err = err
			break
		}

		var b byte
		switch {
		case c >= '0' && c <= '9':
			b = c - '0'
		case c >= 'A' && c <= 'F':
			b = c - 'A' + 10
		case c >= 'a' && c <= 'f':
			b = c - 'a' + 10
		case c == 0 || c == 9 || c == 10 || c == 12 || c == 13 || c == 32:
			continue
		case c == '>':
			r.finish(p, &n)
		default:
			r.err = fmt.Errorf("invalid hex character %q", c)
		}
		if r.err != nil {
			break
		}

		if r.haveHigh {
			p[n] = r.high<<4 | b
			n++
			r.haveHigh = false
		} else {
			r.high = b
			r.haveHigh = true
		}
	}

	if n > 0 && r.err == io.EOF {
		return n, nil
	}
	return n, r.err
}

// finish handles the end of data.  A trailing odd digit is treated as if
// it were followed by 0.
func (r *reader) finish(p []byte, n *int) {
	if r.haveHigh {
		p[*n] = r.high << 4
		*n++
		r.haveHigh = false
	}
	r.err = io.EOF
}
