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
	"bytes"
	"errors"
	"io"
	"os"

	"seehuhn.de/go/pdfedit/codec"
	"seehuhn.de/go/pdfedit/logging"
	"seehuhn.de/go/pdfedit/store"
)

// Options control how the output of an operation is produced.
// A nil *Options is valid and selects the defaults.
type Options struct {
	// Spool stages the encoded document in a temporary file, instead of
	// building it in memory directly.
	Spool bool

	// TempDir is the directory for temporary files.
	// If empty, [os.TempDir] is used.
	TempDir string
}

// finalize encodes the rebuilt document st.
func finalize(st *store.Store, opt *Options) ([]byte, error) {
	if opt == nil || !opt.Spool {
		data, err := codec.EncodeBytes(st)
		if err != nil {
			return nil, &CodecError{Op: "encode", Err: err}
		}
		return data, nil
	}
	return spool(st, opt.TempDir)
}

// spool encodes st via a temporary file.  The file is removed on every
// return path.
func spool(st *store.Store, dir string) (data []byte, err error) {
	tmp, err := os.CreateTemp(dir, "pdfedit-*.pdf")
	if err != nil {
		return nil, &IOError{Op: "create", Path: dir, Err: err}
	}
	defer func() {
		tmp.Close()
		if rmErr := os.Remove(tmp.Name()); rmErr != nil {
			logging.Logger().Warn("cannot remove temporary file",
				"path", tmp.Name(), "error", rmErr)
		}
	}()

	err = codec.Encode(tmp, st)
	if err != nil {
		var encErr *codec.EncodeError
		if errors.As(err, &encErr) {
			return nil, &CodecError{Op: "encode", Err: err}
		}
		return nil, &IOError{Op: "write", Path: tmp.Name(), Err: err}
	}

	_, err = tmp.Seek(0, io.SeekStart)
	if err != nil {
		return nil, &IOError{Op: "seek", Path: tmp.Name(), Err: err}
	}
	buf := &bytes.Buffer{}
	_, err = buf.ReadFrom(tmp)
	if err != nil {
		return nil, &IOError{Op: "read", Path: tmp.Name(), Err: err}
	}
	return buf.Bytes(), nil
}
