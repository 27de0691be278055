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

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/unicode"
)

// Text interprets x as a PDF "text string" and returns the corresponding
// UTF-8 encoded string.  Text strings are either UTF-16BE with a byte order
// mark, UTF-8 with a byte order mark (PDF 2.0), or PDFDocEncoding.
func (x String) Text() string {
	switch {
	case len(x) >= 2 && x[0] == 0xFE && x[1] == 0xFF:
		dec := unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM).NewDecoder()
		res, err := dec.Bytes(x)
		if err != nil {
			return string(bytes.ToValidUTF8(x, []byte("�")))
		}
		return string(res)
	case len(x) >= 3 && x[0] == 0xEF && x[1] == 0xBB && x[2] == 0xBF:
		return string(bytes.ToValidUTF8(x[3:], []byte("�")))
	}
	return pdfDocDecode(x)
}

func pdfDocDecode(s String) string {
	buf := make([]byte, 0, len(s))
	for _, c := range s {
		r := rune(c)
		if c >= 0x18 && c < 0x20 {
			r = pdfDocLow[c-0x18]
		} else if c >= 0x80 && c <= 0xA0 {
			r = pdfDocHigh[c-0x80]
		} else if c == 0xAD {
			r = utf8.RuneError
		}
		buf = utf8.AppendRune(buf, r)
	}
	return string(buf)
}

var pdfDocLow = [8]rune{
	'˘', 'ˇ', 'ˆ', '˙', '˝', '˛', '˚', '˜',
}

var pdfDocHigh = [33]rune{
	'•', '†', '‡', '…', '—', '–', 'ƒ', '⁄',
	'‹', '›', '−', '‰', '„', '“', '”', '‘',
	'’', '‚', '™', 'ﬁ', 'ﬂ', 'Ł', 'Œ', 'Š',
	'Ÿ', 'Ž', 'ı', 'ł', 'œ', 'š', 'ž', utf8.RuneError,
	'€',
}
