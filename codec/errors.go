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
	"errors"
	"strconv"

	"seehuhn.de/go/pdfedit/store"
)

// MalformedFileError indicates that a PDF file could not be parsed.
type MalformedFileError struct {
	Pos int64
	Err error
}

func (err *MalformedFileError) Error() string {
	middle := ""
	if err.Err != nil {
		middle = ": " + err.Err.Error()
	}
	tail := ""
	if err.Pos > 0 {
		tail = " (at byte " + strconv.FormatInt(err.Pos, 10) + ")"
	}
	return "not a valid PDF file" + middle + tail
}

func (err *MalformedFileError) Unwrap() error {
	return err.Err
}

// EncodeError indicates that a store cannot be represented as a PDF file.
type EncodeError struct {
	// Ref is the object which could not be written, or the zero reference
	// for problems with the trailer.
	Ref store.Reference
	Err error
}

func (err *EncodeError) Error() string {
	if err.Ref.IsZero() {
		return "cannot encode PDF trailer: " + err.Err.Error()
	}
	return "cannot encode object " + err.Ref.String() + ": " + err.Err.Error()
}

func (err *EncodeError) Unwrap() error {
	return err.Err
}

// ErrEncrypted is returned by [Decode] for encrypted documents.
var ErrEncrypted = errors.New("encrypted PDF files are not supported")

var (
	errNoHeader     = errors.New("PDF header not found")
	errNoStartXRef  = errors.New("startxref not found")
	errXRefPos      = errors.New("invalid xref position")
	errXRefDepth    = errors.New("too many xref sections")
	errXRefCorrupt  = errors.New("xref corrupted")
	errLengthDepth  = errors.New("stream /Length nested too deeply")
	errNoObjects    = errors.New("no objects found")
	errNoRoot       = errors.New("missing /Root")
	errDanglingRoot = errors.New("/Root does not refer to an object")
)
