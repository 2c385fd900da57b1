// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"sync"

	"github.com/gogpu/photomark/internal/logging"
	"github.com/gogpu/photomark/notify"
	"github.com/gogpu/photomark/scene"
	"github.com/gogpu/photomark/surface"
)

// Notification messages.
const (
	MsgLoadFailed   = "Failed to load the image."
	MsgExportFailed = "Failed to download image: "
)

// Option configures a Session.
type Option func(*options)

type options struct {
	registry *surface.Registry
	backend  string
	fonts    *surface.Fonts
	fetcher  Fetcher
	notifier notify.Notifier
	width    int
	height   int
	quality  int
}

func defaultOptions() options {
	return options{
		registry: surface.Default(),
		fetcher:  &HTTPFetcher{},
		notifier: notify.Discard,
		width:    scene.CanvasWidth,
		height:   scene.CanvasHeight,
	}
}

// WithRegistry sets the registry surfaces are allocated from.
func WithRegistry(r *surface.Registry) Option {
	return func(o *options) {
		if r != nil {
			o.registry = r
		}
	}
}

// WithBackend selects a surface backend by name. Empty selects the highest
// priority available backend.
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// WithFonts sets the fonts used for text objects.
func WithFonts(f *surface.Fonts) Option {
	return func(o *options) {
		o.fonts = f
	}
}

// WithJPEGQuality sets the JPEG export quality, 1-100. Other values keep
// the surface default.
func WithJPEGQuality(q int) Option {
	return func(o *options) {
		if q >= 1 && q <= 100 {
			o.quality = q
		}
	}
}

// WithFetcher sets how the background image is retrieved.
func WithFetcher(f Fetcher) Option {
	return func(o *options) {
		if f != nil {
			o.fetcher = f
		}
	}
}

// WithNotifier sets where load and export failures are reported.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// Session is one annotation session over one background photo.
// It is safe for concurrent use.
type Session struct {
	url    string
	opts   options
	done   chan struct{}
	cancel context.CancelFunc

	mu       sync.Mutex
	state    State
	err      error
	scene    *scene.Scene
	surf     surface.Surface
	disposed bool
}

// New starts a session for the image at url. It allocates a white canvas
// surface and begins loading the image in the background; the session is
// in Loading when New returns.
//
// ctx bounds the image load only. Cancelling it moves a still-loading
// session to Error.
func New(ctx context.Context, url string, opts ...Option) (*Session, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	so := surface.DefaultOptions(o.width, o.height)
	so.Fonts = o.fonts
	if o.quality != 0 {
		so.JPEGQuality = o.quality
	}
	surf, err := o.registry.NewSurfaceByName(o.backend, so)
	if err != nil {
		return nil, fmt.Errorf("session: allocate surface: %w", err)
	}

	loadCtx, cancel := context.WithCancel(ctx)
	s := &Session{
		url:    url,
		opts:   o,
		done:   make(chan struct{}),
		cancel: cancel,
		state:  Loading,
		scene:  scene.NewWithSize(float64(o.width), float64(o.height), scene.DefaultBackground),
		surf:   surf,
	}
	logging.With("session").Debug("session created", "url", url)
	go s.load(loadCtx)
	return s, nil
}

func (s *Session) load(ctx context.Context) {
	defer close(s.done)
	log := logging.With("session")

	img, err := s.opts.fetcher.Fetch(ctx, s.url)

	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		log.Debug("load finished after dispose", "url", s.url)
		return
	}
	if err == nil {
		s.scene.SetBackgroundImage(scene.NewBackgroundImage(s.url, img, s.scene.Width(), s.scene.Height()))
		err = s.surf.Render(s.scene)
	}
	if err != nil {
		s.state = Error
		s.err = &ImageLoadError{URL: s.url, Err: err}
		s.mu.Unlock()
		log.Warn("image load failed", "url", s.url, "error", err)
		notify.Failure(s.opts.notifier, MsgLoadFailed, s.err)
		return
	}
	s.state = Ready
	s.mu.Unlock()
	log.Info("session ready", "url", s.url,
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
}

// URL returns the background image source.
func (s *Session) URL() string { return s.url }

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Err returns the load error of a session in Error, nil otherwise.
func (s *Session) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

// Wait blocks until the background load settles or ctx is done. It returns
// the *ImageLoadError of a failed load, ErrDisposed if the session was
// disposed, or ctx.Err().
func (s *Session) Wait(ctx context.Context) error {
	select {
	case <-s.done:
	case <-ctx.Done():
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return ErrDisposed
	}
	return s.err
}

// Done is closed once the background load has settled.
func (s *Session) Done() <-chan struct{} { return s.done }

// AddText appends a default text object ("Edit me", white on black, size
// 20, at 50,50) on top of the scene.
func (s *Session) AddText() (scene.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return "", false
	}
	t := scene.NewText(s.surf)
	if !s.appendLocked(t) {
		return "", false
	}
	return t.ID(), true
}

// AddShape appends a shape of the given kind with its default geometry and
// fill at 100,100. Unknown kinds are ignored.
func (s *Session) AddShape(kind scene.ShapeKind) (scene.ID, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return "", false
	}
	sh, ok := scene.NewShape(kind)
	if !ok {
		logging.With("session").Debug("unknown shape kind ignored", "kind", kind)
		return "", false
	}
	if !s.appendLocked(sh) {
		return "", false
	}
	return sh.ID(), true
}

// EditText replaces the content of the text object id and re-measures it.
// It reports false if the session is not Ready or id is not a text object.
func (s *Session) EditText(id scene.ID, content string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != Ready {
		return false
	}
	obj, ok := s.scene.Lookup(id)
	if !ok {
		return false
	}
	t, ok := obj.(*scene.Text)
	if !ok {
		return false
	}
	t.SetContent(content, s.surf)
	s.scene.Touch()
	s.renderLocked()
	return true
}

func (s *Session) appendLocked(obj scene.Object) bool {
	if err := s.scene.Append(obj); err != nil {
		logging.With("session").Warn("append rejected", "kind", obj.Kind(), "error", err)
		return false
	}
	s.renderLocked()
	return true
}

// renderLocked refreshes the surface after a mutation. Failures are logged;
// Export renders again and reports them.
func (s *Session) renderLocked() {
	if err := s.surf.Render(s.scene); err != nil {
		logging.With("session").Warn("render failed", "error", err)
	}
}

// Inspect yields a read-only description of every object in draw order.
// The scene is copied when iteration starts, so the sequence may be
// consumed while the session keeps changing. A session without a scene
// yields nothing.
func (s *Session) Inspect() iter.Seq[scene.Info] {
	return func(yield func(scene.Info) bool) {
		s.mu.Lock()
		var infos []scene.Info
		if s.scene != nil {
			for info := range s.scene.Inspect() {
				infos = append(infos, info)
			}
		}
		s.mu.Unlock()
		for _, info := range infos {
			if !yield(info) {
				return
			}
		}
	}
}

// Len returns the number of objects in the scene, including the background.
func (s *Session) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.scene == nil {
		return 0
	}
	return s.scene.Len()
}

// ExportPNG renders the scene and returns it PNG encoded.
func (s *Session) ExportPNG() ([]byte, error) {
	return s.Export(surface.FormatPNG)
}

// Export renders the scene and returns it in the given format. Repeated
// exports of an unchanged scene return identical bytes.
//
// It returns ErrNotReady or ErrDisposed when there is nothing to export, and
// an *ExportError when rendering or encoding fails.
func (s *Session) Export(format surface.Format) ([]byte, error) {
	s.mu.Lock()
	if s.disposed {
		s.mu.Unlock()
		return nil, ErrDisposed
	}
	if s.state != Ready {
		s.mu.Unlock()
		return nil, ErrNotReady
	}
	data, err := s.exportLocked(format)
	s.mu.Unlock()

	if err != nil {
		eerr := &ExportError{Format: format, Err: err}
		logging.With("session").Warn("export failed", "format", format, "error", err)
		notify.Failure(s.opts.notifier, MsgExportFailed+err.Error(), eerr)
		return nil, eerr
	}
	return data, nil
}

func (s *Session) exportLocked(format surface.Format) ([]byte, error) {
	if err := s.surf.Render(s.scene); err != nil {
		return nil, err
	}
	return s.surf.Export(format)
}

// Dispose closes the surface, drops the scene and returns the session to
// Uninitialized. A load still in flight is cancelled and its result
// ignored. Dispose is idempotent.
func (s *Session) Dispose() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.disposed {
		return nil
	}
	s.disposed = true
	s.cancel()
	s.state = Uninitialized
	s.scene = nil
	err := s.surf.Close()
	s.surf = nil
	if err != nil && !errors.Is(err, surface.ErrClosed) {
		return fmt.Errorf("session: close surface: %w", err)
	}
	logging.With("session").Debug("session disposed", "url", s.url)
	return nil
}
