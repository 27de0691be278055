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
	"bufio"
	"bytes"
	"fmt"
	"io"

	"seehuhn.de/go/pdfedit/store"
)

// Encode writes st as a PDF file.
//
// Objects are written in order of increasing object number, followed by a
// classic cross-reference table and the trailer.  The trailer /Root must
// refer to an object in st, otherwise an [*EncodeError] is returned.
func Encode(w io.Writer, st *store.Store) error {
	if st.Trailer.Root.IsZero() {
		return &EncodeError{Err: errNoRoot}
	}
	if obj, _ := st.Get(st.Trailer.Root); obj == nil {
		return &EncodeError{Err: errDanglingRoot}
	}

	refs := st.Refs()
	size := max(st.Trailer.Size, st.Highest()+1)
	for i := 1; i < len(refs); i++ {
		if refs[i].Number == refs[i-1].Number {
			return &EncodeError{
				Ref: refs[i],
				Err: fmt.Errorf("duplicate object number %d", refs[i].Number),
			}
		}
	}

	ver := st.Version
	if _, err := ver.ToString(); err != nil {
		ver = store.V1_7
	}

	bw := bufio.NewWriter(w)
	pw := &posWriter{w: bw}

	_, err := fmt.Fprintf(pw, "%%PDF-%s\n%%\x80\x80\x80\x80\n", ver)
	if err != nil {
		return err
	}

	pos := make([]int64, size)
	gen := make([]uint16, size)
	for i := range pos {
		pos[i] = -1
	}
	for _, ref := range refs {
		if ref.Number <= 0 {
			return &EncodeError{
				Ref: ref,
				Err: fmt.Errorf("invalid object number %d", ref.Number),
			}
		}
		obj, _ := st.Get(ref)
		pos[ref.Number] = pw.pos
		gen[ref.Number] = ref.Generation
		err = writeIndirect(pw, ref, obj)
		if err != nil {
			return err
		}
	}

	xRefPos := pw.pos
	_, err = fmt.Fprintf(pw, "xref\n0 %d\n", size)
	if err != nil {
		return err
	}
	for i := 0; i < size; i++ {
		var line string
		if pos[i] >= 0 {
			line = formatXRefEntry(pos[i], gen[i], 'n')
		} else {
			line = formatXRefEntry(0, 65535, 'f')
		}
		_, err = io.WriteString(pw, line)
		if err != nil {
			return err
		}
	}

	trailer := store.Dict{
		"Size": store.Integer(size),
		"Root": st.Trailer.Root,
	}
	if !st.Trailer.Info.IsZero() {
		if obj, _ := st.Get(st.Trailer.Info); obj != nil {
			trailer["Info"] = st.Trailer.Info
		}
	}
	_, err = io.WriteString(pw, "trailer\n")
	if err != nil {
		return err
	}
	err = trailer.PDF(pw)
	if err != nil {
		return &EncodeError{Err: err}
	}
	_, err = fmt.Fprintf(pw, "\nstartxref\n%d\n%%%%EOF\n", xRefPos)
	if err != nil {
		return err
	}

	return bw.Flush()
}

// EncodeBytes returns st as a PDF file.
func EncodeBytes(st *store.Store) ([]byte, error) {
	buf := &bytes.Buffer{}
	err := Encode(buf, st)
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeIndirect(w io.Writer, ref store.Reference, obj store.Object) error {
	_, err := fmt.Fprintf(w, "%d %d obj\n", ref.Number, ref.Generation)
	if err != nil {
		return err
	}

	// Serialize into a buffer first, so that errors are reported before
	// any part of the object is written.
	body := &bytes.Buffer{}
	if obj == nil {
		body.WriteString("null")
	} else {
		err = obj.PDF(body)
		if err != nil {
			return &EncodeError{Ref: ref, Err: err}
		}
	}
	_, err = w.Write(body.Bytes())
	if err != nil {
		return err
	}

	_, err = io.WriteString(w, "\nendobj\n")
	return err
}

type posWriter struct {
	w   io.Writer
	pos int64
}

func (w *posWriter) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}
