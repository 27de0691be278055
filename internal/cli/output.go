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

package cli

import (
	"errors"
	"io"
	"io/fs"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"seehuhn.de/go/pdfedit"
)

// outputOptions holds the flags shared by all commands which write a PDF
// file.
type outputOptions struct {
	Output  string
	Force   bool
	TempDir string
	Spool   bool
}

func addOutputFlags(cmd *cobra.Command, opts *outputOptions, defaultName string) {
	flags := cmd.Flags()
	flags.StringVarP(&opts.Output, "output", "o", defaultName, "output `file` (\"-\" for standard output)")
	flags.BoolVarP(&opts.Force, "force", "f", false, "overwrite the output file if it exists")
	flags.StringVar(&opts.TempDir, "temp-dir", "", "`directory` for temporary files")
	flags.BoolVar(&opts.Spool, "spool", false, "stage the output in a temporary file")
}

func (opts *outputOptions) engineOptions() *pdfedit.Options {
	return &pdfedit.Options{TempDir: opts.TempDir, Spool: opts.Spool}
}

// readInput reads a PDF file.  The name "-" denotes standard input.
func readInput(cmd *cobra.Command, fname string) ([]byte, error) {
	var data []byte
	var err error
	if fname == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(fname)
	}
	if err != nil {
		return nil, &ExitError{Code: ExitCommandError, Message: "cannot read input", Err: err}
	}
	return data, nil
}

// writeOutput writes the result of an operation.  Existing files are only
// replaced if the force flag is set, and binary data is never written to
// a terminal.
func writeOutput(cmd *cobra.Command, opts *outputOptions, data []byte) error {
	if opts.Output == "-" {
		w := cmd.OutOrStdout()
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			return usageError("refusing to write PDF data to a terminal")
		}
		_, err := w.Write(data)
		return err
	}

	flags := os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	if !opts.Force {
		flags |= os.O_EXCL
	}
	fd, err := os.OpenFile(opts.Output, flags, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return usageError("output file %q already exists (use -f to overwrite)", opts.Output)
	} else if err != nil {
		return &ExitError{Code: ExitFailure, Message: "cannot create output", Err: err}
	}
	_, err = fd.Write(data)
	if err != nil {
		fd.Close()
		return &ExitError{Code: ExitFailure, Message: "cannot write output", Err: err}
	}
	err = fd.Close()
	if err != nil {
		return &ExitError{Code: ExitFailure, Message: "cannot write output", Err: err}
	}
	return nil
}

// opError wraps the error of a PDF operation.  Errors in the user's page
// selection are reported as usage errors.
func opError(op string, err error) error {
	code := ExitFailure
	if isSelectionError(err) {
		code = ExitCommandError
	}
	return &ExitError{Code: code, Message: op, Err: err}
}

func isSelectionError(err error) bool {
	var (
		pageErr  *pdfedit.PageOutOfRangeError
		dupErr   *pdfedit.DuplicatePageError
		countErr *pdfedit.WrongPageCountError
	)
	return errors.As(err, &pageErr) || errors.As(err, &dupErr) ||
		errors.As(err, &countErr) || errors.Is(err, pdfedit.ErrWouldDeleteAll)
}
