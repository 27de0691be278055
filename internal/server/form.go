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

package server

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"unicode/utf8"
)

// requestError is a problem with the request itself, reported to the
// client with the given status code.
type requestError struct {
	status int
	msg    string
}

func (err *requestError) Error() string {
	return err.msg
}

func badRequest(format string, args ...any) error {
	return &requestError{status: http.StatusBadRequest, msg: fmt.Sprintf(format, args...)}
}

func tooLarge(format string, args ...any) error {
	return &requestError{status: http.StatusRequestEntityTooLarge, msg: fmt.Sprintf(format, args...)}
}

// form holds the parts of a multipart upload.
type form struct {
	files  map[string][][]byte
	fields map[string]string
}

// readForm reads a multipart/form-data request body.  Parts with a
// filename are treated as files and must be PDF documents; all other
// parts are text fields.  Only the listed field names are kept.
func (s *Server) readForm(r *http.Request, fileField string, textFields ...string) (*form, error) {
	mr, err := r.MultipartReader()
	if err != nil {
		return nil, badRequest("expected a multipart/form-data request")
	}

	wanted := make(map[string]bool, len(textFields))
	for _, name := range textFields {
		wanted[name] = true
	}

	f := &form{
		files:  make(map[string][][]byte),
		fields: make(map[string]string),
	}
	numFiles := 0
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		} else if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return nil, tooLarge("request body is too large")
			}
			return nil, badRequest("malformed multipart body")
		}
		name := part.FormName()

		switch {
		case name == fileField:
			numFiles++
			if numFiles > s.cfg.MaxFiles {
				return nil, badRequest("at most %d files are allowed per request", s.cfg.MaxFiles)
			}
			mediaType, _, _ := mime.ParseMediaType(part.Header.Get("Content-Type"))
			if mediaType != "application/pdf" {
				return nil, badRequest("only PDF files are accepted")
			}
			data, err := readLimited(part, s.cfg.MaxFileSize)
			if err == errTooLong {
				return nil, tooLarge("file is too large (maximum %d bytes)", s.cfg.MaxFileSize)
			} else if err != nil {
				return nil, err
			}
			if len(data) == 0 {
				continue
			}
			if !bytes.HasPrefix(data, []byte("%PDF-")) {
				return nil, badRequest("file %d does not look like a PDF file", numFiles)
			}
			f.files[name] = append(f.files[name], data)

		case wanted[name]:
			data, err := readLimited(part, s.cfg.MaxFieldSize)
			if err == errTooLong {
				return nil, tooLarge("field %q is too long", name)
			} else if err != nil {
				return nil, err
			}
			if !utf8.Valid(data) {
				return nil, badRequest("field %q is not valid UTF-8", name)
			}
			f.fields[name] = string(bytes.TrimSpace(data))

		default:
			s.logger.Debug("ignoring multipart field", "field", name)
			_, err = io.Copy(io.Discard, part)
			if err != nil {
				return nil, badRequest("malformed multipart body")
			}
		}
	}
	return f, nil
}

var errTooLong = errors.New("part too long")

// readLimited reads all of r.  If more than limit bytes are available,
// errTooLong is returned.
func readLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, tooLarge("request body is too large")
		}
		return nil, badRequest("malformed multipart body")
	}
	if int64(len(data)) > limit {
		return nil, errTooLong
	}
	return data, nil
}
