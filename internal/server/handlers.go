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
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/pagerange"
)

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	h := w.Header()
	h.Set("Content-Type", "text/html; charset=utf-8")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("X-Frame-Options", "DENY")
	h.Set("X-XSS-Protection", "1; mode=block")
	h.Set("Referrer-Policy", "no-referrer")
	h.Set("Content-Security-Policy",
		"default-src 'self'; script-src 'self'; style-src 'self';")
	w.Write(s.index)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte("ok\n"))
}

func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	http.Error(w, "404 - page not found", http.StatusNotFound)
}

func (s *Server) handleMerge(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "files", nil, func(f *form) (*pdfedit.Request, string, error) {
		docs := f.files["files"]
		if len(docs) < 2 {
			return nil, "", badRequest("at least 2 PDF files are required")
		}
		return &pdfedit.Request{Kind: pdfedit.KindMerge, Docs: docs}, "merged.pdf", nil
	})
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "file", []string{"pages"}, func(f *form) (*pdfedit.Request, string, error) {
		pages, err := pagerange.Parse(f.fields["pages"])
		if err != nil {
			return nil, "", err
		}
		if len(pages) > s.cfg.MaxExtractPages {
			return nil, "", badRequest("at most %d pages can be extracted at once",
				s.cfg.MaxExtractPages)
		}
		name := "extracted.pdf"
		if len(pages) == 1 {
			name = "page_" + strconv.Itoa(pages[0]) + ".pdf"
		}
		req := &pdfedit.Request{Kind: pdfedit.KindExtract, Pages: pages}
		return req, name, nil
	})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "file", []string{"pages"}, func(f *form) (*pdfedit.Request, string, error) {
		pages, err := pagerange.Parse(f.fields["pages"])
		if err != nil {
			return nil, "", err
		}
		return &pdfedit.Request{Kind: pdfedit.KindDelete, Pages: pages}, "deleted.pdf", nil
	})
}

func (s *Server) handleReorder(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "file", []string{"order"}, func(f *form) (*pdfedit.Request, string, error) {
		order, err := pagerange.ParseOrder(f.fields["order"])
		if err != nil {
			return nil, "", err
		}
		return &pdfedit.Request{Kind: pdfedit.KindReorder, Order: order}, "reordered.pdf", nil
	})
}

func (s *Server) handleRotate(w http.ResponseWriter, r *http.Request) {
	s.serve(w, r, "file", []string{"rotations"}, func(f *form) (*pdfedit.Request, string, error) {
		rot, err := pagerange.ParseRotations(f.fields["rotations"])
		if err != nil {
			return nil, "", err
		}
		return &pdfedit.Request{Kind: pdfedit.KindRotate, Rotations: rot}, "rotated.pdf", nil
	})
}

// serve reads the upload, builds the request using prepare, runs it on
// the worker pool and writes the resulting PDF file.
func (s *Server) serve(w http.ResponseWriter, r *http.Request, fileField string, textFields []string,
	prepare func(*form) (*pdfedit.Request, string, error)) {
	log := s.log(r)

	r.Body = http.MaxBytesReader(w, r.Body, s.maxBodySize())
	f, err := s.readForm(r, fileField, textFields...)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	req, filename, err := prepare(f)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if req.Kind != pdfedit.KindMerge {
		docs := f.files[fileField]
		if len(docs) != 1 {
			s.fail(w, r, badRequest("exactly one PDF file is required"))
			return
		}
		req.Docs = docs
	}

	log.Info("processing", "op", req.Kind.String(), "files", len(req.Docs))
	out, err := s.pool.Run(r.Context(), func() ([]byte, error) {
		return pdfedit.Apply(req, s.opt)
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	log.Info("done", "op", req.Kind.String(), "size", len(out))

	h := w.Header()
	h.Set("Content-Type", "application/pdf")
	h.Set("X-Content-Type-Options", "nosniff")
	h.Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	h.Set("Content-Length", strconv.Itoa(len(out)))
	w.Write(out)
}

func (s *Server) maxBodySize() int64 {
	const overhead = 1 << 20
	return int64(s.cfg.MaxFiles)*s.cfg.MaxFileSize + 8*s.cfg.MaxFieldSize + overhead
}

// fail reports err to the client.
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := classify(err)
	log := s.log(r)
	if status >= 500 || status == http.StatusUnprocessableEntity {
		log.Error("request failed", "status", status, "error", err)
	} else {
		log.Debug("request rejected", "status", status, "error", err)
	}
	if status == http.StatusServiceUnavailable {
		w.Header().Set("Retry-After", "1")
	}
	http.Error(w, msg, status)
}

// classify maps an error to an HTTP status code and a message for the
// client.
func classify(err error) (int, string) {
	var (
		reqErr   *requestError
		rangeErr *pagerange.InvalidRangeError
		numErr   *pagerange.InvalidPageNumberError
		angleErr *pagerange.InvalidAngleError
		pageErr  *pdfedit.PageOutOfRangeError
		dupErr   *pdfedit.DuplicatePageError
		countErr *pdfedit.WrongPageCountError
		codecErr *pdfedit.CodecError
		ioErr    *pdfedit.IOError
	)
	switch {
	case errors.As(err, &reqErr):
		return reqErr.status, reqErr.msg
	case errors.As(err, &rangeErr), errors.As(err, &numErr), errors.As(err, &angleErr),
		errors.As(err, &pageErr), errors.As(err, &dupErr), errors.As(err, &countErr),
		errors.Is(err, pagerange.ErrNoPages), errors.Is(err, pdfedit.ErrWouldDeleteAll),
		errors.Is(err, pdfedit.ErrTooFewDocuments), errors.Is(err, pdfedit.ErrNoPagesSelected):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &codecErr):
		return http.StatusUnprocessableEntity, "the PDF file is invalid or damaged"
	case errors.As(err, &ioErr), errors.Is(err, errPoolClosed),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusServiceUnavailable, "the server is busy, please try again"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}
