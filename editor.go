// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package photomark

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/gogpu/photomark/internal/logging"
	"github.com/gogpu/photomark/search"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/sink"
	"github.com/gogpu/photomark/surface"
)

var (
	// ErrNoSession is returned when an operation needs a selected image.
	ErrNoSession = errors.New("photomark: no session")

	// ErrClosed is returned after Editor.Close.
	ErrClosed = errors.New("photomark: editor closed")
)

// Editor owns one Searcher and at most one Session.
//
// Selecting an image disposes the current session before the next one is
// created, so at most one rendering surface is alive per Editor. Discard
// returns the Editor to search.
//
// Editor is safe for concurrent use.
type Editor struct {
	searcher *search.Searcher
	opts     editorOptions

	mu      sync.Mutex
	current *session.Session
	closed  bool
}

// NewEditor returns an Editor searching provider.
func NewEditor(provider search.Provider, opts ...EditorOption) *Editor {
	o := defaultEditorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	searchOpts := append([]search.Option{search.WithNotifier(o.notifier)}, o.search...)
	return &Editor{
		searcher: search.NewSearcher(provider, searchOpts...),
		opts:     o,
	}
}

// Searcher returns the Editor's catalog search.
func (e *Editor) Searcher() *search.Searcher {
	return e.searcher
}

// Select starts a session for the image at url, disposing the current one
// first. ctx bounds the image load.
func (e *Editor) Select(ctx context.Context, url string) (*session.Session, error) {
	if strings.TrimSpace(url) == "" {
		return nil, fmt.Errorf("photomark: select: empty url")
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil, ErrClosed
	}
	if err := e.discardLocked(); err != nil {
		return nil, err
	}

	opts := append([]session.Option{session.WithNotifier(e.opts.notifier)}, e.opts.session...)
	s, err := session.New(ctx, url, opts...)
	if err != nil {
		return nil, err
	}
	e.current = s
	logging.With("editor").Info("image selected", "url", url)
	return s, nil
}

// SelectResult starts a session for a search result's full-size image.
func (e *Editor) SelectResult(ctx context.Context, r search.Result) (*session.Session, error) {
	return e.Select(ctx, e.searcher.Select(r))
}

// Session returns the current session.
func (e *Editor) Session() (*session.Session, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current, e.current != nil
}

// Discard disposes the current session, if any.
func (e *Editor) Discard() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.discardLocked()
}

func (e *Editor) discardLocked() error {
	if e.current == nil {
		return nil
	}
	s := e.current
	e.current = nil
	logging.With("editor").Debug("session discarded", "url", s.URL())
	return s.Dispose()
}

// Save exports the current session and delivers it to the configured sink
// as "edited-image" with the format's extension. It returns the sink
// location.
func (e *Editor) Save(ctx context.Context, format surface.Format) (string, error) {
	s, ok := e.Session()
	if !ok {
		return "", ErrNoSession
	}
	data, err := s.Export(format)
	if err != nil {
		return "", err
	}
	return e.opts.sink.Save(ctx, Filename(format), data)
}

// Filename returns the name exports are saved under.
func Filename(format surface.Format) string {
	if format == surface.FormatPNG {
		return sink.DefaultFilename
	}
	return "edited-image" + format.Extension()
}

// Close discards the current session and stops the Searcher's pending
// debounce. Further Select calls fail with ErrClosed.
func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.searcher.Close()
	return e.discardLocked()
}
