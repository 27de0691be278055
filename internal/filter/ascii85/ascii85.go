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

// Package ascii85 implements the ASCII85Decode filter.
package ascii85

import (
	"errors"
	"io"
)

// Decode returns a reader which decodes ASCII base-85 encoded data.
// Decoding stops at the end-of-data marker "~>".
func Decode(r io.Reader) io.Reader {
	return &reader{r: r}
}

type reader struct {
	r              io.Reader
	immediateError error
	delayedError   error
	buf            [512]byte
	outbuf         [4]byte
	leftover       []byte
	pos, nbuf      int
	v              uint32
	k              int
	isEnd          bool
}

func (r *reader) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if len(r.leftover) > 0 {
		n = copy(p, r.leftover)
		r.leftover = r.leftover[n:]
		if len(r.leftover) > 0 {
			return n, nil
		}
	}
	if r.immediateError != nil {
		return n, r.immediateError
	}

	for n < len(p) {
		for r.pos == r.nbuf && r.delayedError == nil {
			r.nbuf, r.delayedError = r.r.Read(r.buf[:])
			r.pos = 0
			if r.delayedError == io.EOF {
				// a missing end marker is tolerated
				r.delayedError = errMissingEnd
			}
		}
		if r.pos == r.nbuf {
			if r.delayedError == errMissingEnd {
				r.flushPartial(p, &n)
				r.delayedError = io.EOF
			}
			r.immediateError = r.delayedError
			return n, r.immediateError
		}
		c := r.buf[r.pos]
		r.pos++

		// "~" can only be the first part of the end marker "~>"
		if r.isEnd {
			if c == '>' {
				r.immediateError = io.EOF
			} else {
				r.immediateError = errors.New("invalid end marker in ASCII85 stream")
			}
			return n, r.immediateError
		}

		switch {
		case isSpace(c):
			continue
		case c >= '!' && c < '!'+85:
			r.v = r.v*85 + uint32(c-'!')
			r.k++
		case r.k == 0 && c == 'z':
			r.v = 0
			r.k = 5
		case c == '~':
			if r.k == 1 {
				r.immediateError = errors.New("unexpected end marker in ASCII85 stream")
				return n, r.immediateError
			}
			r.flushPartial(p, &n)
			r.isEnd = true
			continue
		default:
			r.immediateError = errors.New("invalid character in ASCII85 stream")
			return n, r.immediateError
		}

		if r.k == 5 {
			r.emit(p, &n, 4)
			r.k = 0
			r.v = 0
		}
	}
	return n, nil
}

// flushPartial writes out an incomplete final group.
func (r *reader) flushPartial(p []byte, n *int) {
	if r.k < 2 {
		r.k = 0
		return
	}
	for i := r.k; i < 5; i++ {
		r.v = r.v*85 + 84
	}
	r.emit(p, n, r.k-1)
	r.k = 0
	r.v = 0
}

func (r *reader) emit(p []byte, n *int, count int) {
	r.outbuf[0] = byte(r.v >> 24)
	r.outbuf[1] = byte(r.v >> 16)
	r.outbuf[2] = byte(r.v >> 8)
	r.outbuf[3] = byte(r.v)
	l := copy(p[*n:], r.outbuf[:count])
	*n += l
	if l < count {
		r.leftover = append(r.leftover[:0], r.outbuf[l:count]...)
	}
}

var errMissingEnd = errors.New("missing ASCII85 end marker")

func isSpace(c byte) bool {
	switch c {
	case 0, 9, 10, 12, 13, 32:
		return true
	}
	return false
}
