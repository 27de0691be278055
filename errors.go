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
	"errors"
	"fmt"
)

// PageOutOfRangeError indicates a page number outside 1, ..., Total.
type PageOutOfRangeError struct {
	Page  int
	Total int
}

func (err *PageOutOfRangeError) Error() string {
	return fmt.Sprintf("page %d is out of range (the document has %d pages)",
		err.Page, err.Total)
}

// DuplicatePageError indicates that a page occurs more than once in a new
// page order.
type DuplicatePageError struct {
	Page int
}

func (err *DuplicatePageError) Error() string {
	return fmt.Sprintf("page %d occurs more than once", err.Page)
}

// WrongPageCountError indicates that a new page order does not list every
// page of the document.
type WrongPageCountError struct {
	Expected int
	Got      int
}

func (err *WrongPageCountError) Error() string {
	return fmt.Sprintf("the page order must list exactly %d pages, got %d",
		err.Expected, err.Got)
}

// CodecError indicates that a document could not be decoded or encoded.
type CodecError struct {
	Op  string // "decode" or "encode"
	Err error
}

func (err *CodecError) Error() string {
	return "cannot " + err.Op + " PDF: " + err.Err.Error()
}

func (err *CodecError) Unwrap() error {
	return err.Err
}

// IOError indicates a failure of a temporary resource.  Such errors may be
// transient.
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (err *IOError) Error() string {
	msg := err.Op
	if err.Path != "" {
		msg += " " + err.Path
	}
	return msg + ": " + err.Err.Error()
}

func (err *IOError) Unwrap() error {
	return err.Err
}

var (
	// ErrWouldDeleteAll is returned by [Delete] if every page of the
	// document is selected for deletion.
	ErrWouldDeleteAll = errors.New("cannot delete all pages of the document")

	// ErrTooFewDocuments is returned by [Merge] for less than two inputs.
	ErrTooFewDocuments = errors.New("at least two documents are required")

	// ErrNoPagesSelected is returned by [Extract] for an empty page list.
	ErrNoPagesSelected = errors.New("no pages selected")

	// ErrUnknownOperation is returned by [Apply] for an invalid [Kind].
	ErrUnknownOperation = errors.New("unknown operation")

	errNoCatalog  = errors.New("document catalog not found")
	errNoPageTree = errors.New("page tree root not found")
)

// IsTransient reports whether err may go away if the operation is retried.
func IsTransient(err error) bool {
	var ioErr *IOError
	return errors.As(err, &ioErr)
}
