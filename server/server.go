// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package server exposes an Editor over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/gogpu/photomark"
	"github.com/gogpu/photomark/internal/logging"
	"github.com/gogpu/photomark/notify"
)

// Option configures a Server.
type Option func(*Server)

// WithAllowedOrigins sets the CORS allowed origins. The default allows any
// origin.
func WithAllowedOrigins(origins ...string) Option {
	return func(s *Server) {
		if len(origins) > 0 {
			s.origins = origins
		}
	}
}

// Server serves the search and annotation API for one Editor.
type Server struct {
	editor  *photomark.Editor
	notes   *notify.Recorder
	origins []string
	router  chi.Router
}

// New returns a Server for ed. notes, if non-nil, backs
// GET /api/notifications and should be the Recorder the Editor notifies.
func New(ed *photomark.Editor, notes *notify.Recorder, opts ...Option) *Server {
	if notes == nil {
		notes = notify.NewRecorder(0)
	}
	s := &Server{editor: ed, notes: notes, origins: []string{"*"}}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(logRequests)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: s.origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "Content-Length"},
		ExposedHeaders: []string{"Content-Disposition"},
		MaxAge:         300,
	}))

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearch)
		r.Put("/query", s.handleSetQuery)
		r.Get("/results", s.handleResults)
		r.Get("/notifications", s.handleNotifications)

		r.Route("/session", func(r chi.Router) {
			r.Post("/", s.handleSelect)
			r.Get("/", s.handleSession)
			r.Delete("/", s.handleDiscard)
			r.Post("/text", s.handleAddText)
			r.Post("/shapes", s.handleAddShape)
			r.Patch("/objects/{id}", s.handleEditText)
			r.Get("/export.{format}", s.handleExport)
			r.Post("/export", s.handleSave)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		logging.With("server").Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		defer func() {
			logging.With("server").LogAttrs(r.Context(), slog.LevelDebug, "request",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.Status()),
				slog.Int("bytes", ww.BytesWritten()),
				slog.Duration("elapsed", time.Since(start)),
				slog.String("request_id", middleware.GetReqID(r.Context())),
			)
		}()
		next.ServeHTTP(ww, r)
	})
}
