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

// Package server implements an HTTP interface to the PDF operations.
//
// Documents are uploaded as multipart/form-data, the result is returned
// as the response body.  Nothing is stored between requests.
package server

import (
	"context"
	"embed"
	"errors"
	"io/fs"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/google/uuid"

	"seehuhn.de/go/pdfedit"
	"seehuhn.de/go/pdfedit/logging"
)

//go:embed static
var staticFiles embed.FS

// Server handles HTTP requests.  Use [New] to create a Server.
type Server struct {
	cfg    *Config
	logger *slog.Logger
	opt    *pdfedit.Options
	pool   *pool
	mux    *http.ServeMux
	index  []byte
}

// New creates a new server.  If logger is nil, the package-level logger
// from [logging.Logger] is used.  The caller must call Close when the
// server is no longer needed.
func New(cfg *Config, logger *slog.Logger) (*Server, error) {
	err := cfg.Validate()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Logger()
	}

	index, err := staticFiles.ReadFile("static/index.html")
	if err != nil {
		return nil, err
	}
	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		return nil, err
	}

	s := &Server{
		cfg:    cfg,
		logger: logger,
		opt:    &pdfedit.Options{TempDir: cfg.TempDir, Spool: cfg.Spool},
		pool:   newPool(cfg.Workers),
		mux:    http.NewServeMux(),
		index:  index,
	}

	s.mux.HandleFunc("GET /{$}", s.handleIndex)
	s.mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServerFS(static)))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("POST /merge", s.handleMerge)
	s.mux.HandleFunc("POST /extract", s.handleExtract)
	s.mux.HandleFunc("POST /delete", s.handleDelete)
	s.mux.HandleFunc("POST /reorder", s.handleReorder)
	s.mux.HandleFunc("POST /rotate", s.handleRotate)
	s.mux.HandleFunc("/", s.handleNotFound)

	return s, nil
}

// Close stops the worker goroutines.  Requests which are still being
// processed are completed first.
func (s *Server) Close() {
	s.pool.Close()
}

type ctxKey int

const requestIDKey ctxKey = iota

// ServeHTTP implements the [http.Handler] interface.
//
// Every request is assigned a random request ID, which is returned in the
// X-Request-ID header and included in the log.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	id := uuid.NewString()
	w.Header().Set("X-Request-ID", id)

	rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
	r = r.WithContext(context.WithValue(r.Context(), requestIDKey, id))
	s.mux.ServeHTTP(rec, r)

	s.logger.Info("request",
		"id", id,
		"method", r.Method,
		"path", r.URL.Path,
		"status", rec.status,
		"bytes", rec.written,
		"duration", time.Since(start))
}

// log returns a logger which includes the request ID.
func (s *Server) log(r *http.Request) *slog.Logger {
	id, _ := r.Context().Value(requestIDKey).(string)
	return s.logger.With("id", id)
}

type statusRecorder struct {
	http.ResponseWriter
	status  int
	written int64
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (rec *statusRecorder) Write(p []byte) (int, error) {
	n, err := rec.ResponseWriter.Write(p)
	rec.written += int64(n)
	return n, err
}

// ListenAndServe serves HTTP requests on the configured address until ctx
// is cancelled.  Afterwards, the server is shut down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve is like [Server.ListenAndServe], but uses the given listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          slog.NewLogLogger(s.logger.Handler(), slog.LevelWarn),
	}

	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.logger.Info("listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	err := srv.Shutdown(shutdownCtx)
	if serveErr := <-errc; !errors.Is(serveErr, http.ErrServerClosed) && err == nil {
		err = serveErr
	}
	return err
}
