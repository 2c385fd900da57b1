// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gogpu/photomark/notify"
	"github.com/gogpu/photomark/scene"
	"github.com/gogpu/photomark/surface"
)

// countingSurface wraps the software surface and tracks live instances.
type countingSurface struct {
	surface.Surface
	live   *atomic.Int32
	closed atomic.Bool
}

func (c *countingSurface) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.live.Add(-1)
	}
	return c.Surface.Close()
}

func countingRegistry(live, peak *atomic.Int32) *surface.Registry {
	r := surface.NewRegistry()
	r.Register("counting", 10, func(opts surface.Options) (surface.Surface, error) {
		s, err := surface.NewRasterSurface(opts)
		if err != nil {
			return nil, err
		}
		n := live.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		return &countingSurface{Surface: s, live: live}, nil
	}, nil)
	return r
}

func solidImage(w, h int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := range h {
		for x := range w {
			img.Set(x, y, c)
		}
	}
	return img
}

func imageFetcher(img image.Image) Fetcher {
	return FetcherFunc(func(context.Context, string) (image.Image, error) {
		return img, nil
	})
}

func newReady(t *testing.T, opts ...Option) *Session {
	t.Helper()
	opts = append([]Option{WithFetcher(imageFetcher(solidImage(1000, 500, color.RGBA{0, 128, 255, 255})))}, opts...)
	s, err := New(context.Background(), "mem://photo", opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Dispose() })
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	return s
}

func TestSessionReady(t *testing.T) {
	s := newReady(t)
	if s.State() != Ready {
		t.Fatalf("State() = %v, want ready", s.State())
	}

	var infos []scene.Info
	for info := range s.Inspect() {
		infos = append(infos, info)
	}
	if len(infos) != 1 {
		t.Fatalf("Inspect() len = %d, want 1", len(infos))
	}
	bg := infos[0]
	if bg.Type != scene.KindImage || bg.Selectable {
		t.Errorf("background = %+v, want non-selectable image", bg)
	}
	// 1000×500 fitted into 500×500: scale 0.5, centred vertically.
	if bg.Scale != 0.5 {
		t.Errorf("Scale = %v, want 0.5", bg.Scale)
	}
	if bg.Left != 0 || bg.Top != 125 || bg.Width != 500 || bg.Height != 250 {
		t.Errorf("bounds = (%v,%v %vx%v), want (0,125 500x250)", bg.Left, bg.Top, bg.Width, bg.Height)
	}
}

func TestSessionLoadingGatesMutations(t *testing.T) {
	release := make(chan struct{})
	f := FetcherFunc(func(ctx context.Context, _ string) (image.Image, error) {
		<-release
		return solidImage(10, 10, color.Black), nil
	})
	s, err := New(context.Background(), "mem://slow", WithFetcher(f))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Dispose()

	if s.State() != Loading {
		t.Errorf("State() = %v, want loading", s.State())
	}
	if _, ok := s.AddText(); ok {
		t.Error("AddText() while loading = true, want false")
	}
	if _, ok := s.AddShape(scene.Circle); ok {
		t.Error("AddShape() while loading = true, want false")
	}
	if _, err := s.ExportPNG(); !errors.Is(err, ErrNotReady) {
		t.Errorf("ExportPNG() while loading = %v, want ErrNotReady", err)
	}
	close(release)
	if err := s.Wait(context.Background()); err != nil {
		t.Fatalf("Wait() = %v", err)
	}
	if s.Len() != 1 {
		t.Errorf("Len() = %d, want 1", s.Len())
	}
}

func TestSessionLoadError(t *testing.T) {
	boom := errors.New("404")
	rec := notify.NewRecorder(0)
	f := FetcherFunc(func(context.Context, string) (image.Image, error) { return nil, boom })
	s, err := New(context.Background(), "mem://missing", WithFetcher(f), WithNotifier(rec))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Dispose()

	err = s.Wait(context.Background())
	var lerr *ImageLoadError
	if !errors.As(err, &lerr) || !errors.Is(err, boom) {
		t.Fatalf("Wait() = %v, want *ImageLoadError wrapping %v", err, boom)
	}
	if lerr.URL != "mem://missing" {
		t.Errorf("URL = %q, want mem://missing", lerr.URL)
	}
	if s.State() != Error {
		t.Errorf("State() = %v, want error", s.State())
	}
	if _, ok := s.AddText(); ok {
		t.Error("AddText() in error = true, want false")
	}
	n, ok := rec.Last()
	if !ok || n.Level != notify.Error || n.Message != MsgLoadFailed {
		t.Errorf("notification = %+v, want %q", n, MsgLoadFailed)
	}
}

func TestAddText(t *testing.T) {
	s := newReady(t)
	id, ok := s.AddText()
	if !ok || id == "" {
		t.Fatalf("AddText() = %q, %v", id, ok)
	}

	var got scene.Info
	for info := range s.Inspect() {
		got = info
	}
	if got.ID != id || got.Type != scene.KindText {
		t.Fatalf("topmost = %+v, want text %s", got, id)
	}
	if got.Text != "Edit me" || got.FontSize != 20 || got.Fill != "white" || got.Background != "black" {
		t.Errorf("text = %+v, want default styling", got)
	}
	if got.Left != 50 || got.Top != 50 {
		t.Errorf("position = (%v,%v), want (50,50)", got.Left, got.Top)
	}
	if !got.Selectable {
		t.Error("text not selectable")
	}
}

func TestAddShapeDefaults(t *testing.T) {
	s := newReady(t)
	tests := []struct {
		kind scene.ShapeKind
		fill string
	}{
		{scene.Circle, "red"},
		{scene.Rectangle, "blue"},
		{scene.Triangle, "green"},
		{scene.Polygon, "purple"},
	}
	for _, tt := range tests {
		if _, ok := s.AddShape(tt.kind); !ok {
			t.Fatalf("AddShape(%s) = false", tt.kind)
		}
	}

	var infos []scene.Info
	for info := range s.Inspect() {
		infos = append(infos, info)
	}
	if len(infos) != 1+len(tests) {
		t.Fatalf("Inspect() len = %d, want %d", len(infos), 1+len(tests))
	}
	for i, tt := range tests {
		got := infos[i+1]
		if got.Type != scene.Kind(tt.kind) || got.Fill != tt.fill {
			t.Errorf("object %d = %s %s, want %s %s", i+1, got.Type, got.Fill, tt.kind, tt.fill)
		}
		if got.Left != 100 || got.Top != 100 {
			t.Errorf("%s position = (%v,%v), want (100,100)", tt.kind, got.Left, got.Top)
		}
	}
}

func TestAddShapeUnknown(t *testing.T) {
	s := newReady(t)
	before := s.Len()
	if _, ok := s.AddShape("hexagon"); ok {
		t.Error("AddShape(hexagon) = true, want false")
	}
	if s.Len() != before {
		t.Errorf("Len() = %d, want %d", s.Len(), before)
	}
}

func TestEditText(t *testing.T) {
	s := newReady(t)
	id, _ := s.AddText()
	before := textInfo(s, id)

	if !s.EditText(id, "A much longer caption") {
		t.Fatal("EditText() = false")
	}
	after := textInfo(s, id)
	if after.Text != "A much longer caption" {
		t.Errorf("Text = %q, want edited content", after.Text)
	}
	if after.Width <= before.Width {
		t.Errorf("Width = %v, want > %v after longer content", after.Width, before.Width)
	}

	shapeID, _ := s.AddShape(scene.Circle)
	if s.EditText(shapeID, "x") {
		t.Error("EditText(shape) = true, want false")
	}
	if s.EditText("missing", "x") {
		t.Error("EditText(missing) = true, want false")
	}
}

func textInfo(s *Session, id scene.ID) scene.Info {
	for info := range s.Inspect() {
		if info.ID == id {
			return info
		}
	}
	return scene.Info{}
}

func TestExportDeterministic(t *testing.T) {
	s := newReady(t)
	s.AddText()
	s.AddShape(scene.Triangle)

	a, err := s.ExportPNG()
	if err != nil {
		t.Fatalf("ExportPNG() error = %v", err)
	}
	b, err := s.ExportPNG()
	if err != nil {
		t.Fatalf("ExportPNG() error = %v", err)
	}
	if !bytes.Equal(a, b) {
		t.Error("repeated ExportPNG() differ")
	}

	img, err := png.Decode(bytes.NewReader(a))
	if err != nil {
		t.Fatalf("png.Decode() error = %v", err)
	}
	if got := img.Bounds().Size(); got != image.Pt(500, 500) {
		t.Errorf("size = %v, want 500x500", got)
	}
	// Above the letterboxed photo the canvas stays white.
	if r, g, b, _ := img.At(480, 5).RGBA(); r>>8 != 255 || g>>8 != 255 || b>>8 != 255 {
		t.Errorf("pixel(480,5) = %d,%d,%d, want white", r>>8, g>>8, b>>8)
	}

	s.AddShape(scene.Circle)
	c, _ := s.ExportPNG()
	if bytes.Equal(a, c) {
		t.Error("export unchanged after adding a shape")
	}
}

func TestExportJPEG(t *testing.T) {
	s := newReady(t)
	data, err := s.Export(surface.FormatJPEG)
	if err != nil {
		t.Fatalf("Export(jpeg) error = %v", err)
	}
	if len(data) < 2 || data[0] != 0xFF || data[1] != 0xD8 {
		t.Error("Export(jpeg) missing SOI marker")
	}
}

func TestExportJPEGQuality(t *testing.T) {
	low, err := newReady(t, WithJPEGQuality(10)).Export(surface.FormatJPEG)
	if err != nil {
		t.Fatalf("Export(jpeg, q10) error = %v", err)
	}
	high, err := newReady(t, WithJPEGQuality(100)).Export(surface.FormatJPEG)
	if err != nil {
		t.Fatalf("Export(jpeg, q100) error = %v", err)
	}
	def, err := newReady(t, WithJPEGQuality(0)).Export(surface.FormatJPEG)
	if err != nil {
		t.Fatalf("Export(jpeg, default) error = %v", err)
	}
	if bytes.Equal(low, high) {
		t.Error("Export(jpeg) identical at quality 10 and 100")
	}
	if len(low) >= len(high) {
		t.Errorf("len at q10 = %d, want less than q100 (%d)", len(low), len(high))
	}
	if bytes.Equal(def, low) || bytes.Equal(def, high) {
		t.Error("WithJPEGQuality(0) changed the default quality")
	}
}

func TestSessionRejectsOversizedImage(t *testing.T) {
	data := hugePNG(200000, 200000)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write(data)
	}))
	defer srv.Close()

	rec := notify.NewRecorder(0)
	s, err := New(context.Background(), srv.URL+"/huge.png",
		WithFetcher(&HTTPFetcher{Client: srv.Client()}), WithNotifier(rec))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	defer s.Dispose()

	err = s.Wait(context.Background())
	var lerr *ImageLoadError
	if !errors.As(err, &lerr) || !errors.Is(err, ErrImageTooLarge) {
		t.Fatalf("Wait() = %v, want *ImageLoadError wrapping ErrImageTooLarge", err)
	}
	if s.State() != Error {
		t.Errorf("State() = %v, want error", s.State())
	}
	if n, ok := rec.Last(); !ok || n.Message != MsgLoadFailed {
		t.Errorf("notification = %+v, want %q", n, MsgLoadFailed)
	}
}

func TestExportError(t *testing.T) {
	rec := notify.NewRecorder(0)
	s := newReady(t, WithNotifier(rec))
	before := s.Len()

	_, err := s.Export(surface.Format(99))
	var eerr *ExportError
	if !errors.As(err, &eerr) || !errors.Is(err, surface.ErrUnsupportedFormat) {
		t.Fatalf("Export(99) = %v, want *ExportError wrapping ErrUnsupportedFormat", err)
	}
	if s.State() != Ready || s.Len() != before {
		t.Errorf("state = %v len = %d, want ready and unchanged", s.State(), s.Len())
	}
	n, _ := rec.Last()
	if n.Level != notify.Error || len(n.Message) <= len(MsgExportFailed) || n.Message[:len(MsgExportFailed)] != MsgExportFailed {
		t.Errorf("notification = %q, want prefix %q", n.Message, MsgExportFailed)
	}
}

func TestDispose(t *testing.T) {
	var live, peak atomic.Int32
	s := newReady(t, WithRegistry(countingRegistry(&live, &peak)))
	if live.Load() != 1 {
		t.Fatalf("live surfaces = %d, want 1", live.Load())
	}
	if err := s.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	if err := s.Dispose(); err != nil {
		t.Errorf("second Dispose() error = %v", err)
	}
	if live.Load() != 0 {
		t.Errorf("live surfaces = %d after Dispose, want 0", live.Load())
	}
	if s.State() != Uninitialized {
		t.Errorf("State() = %v, want uninitialized", s.State())
	}
	if _, ok := s.AddText(); ok {
		t.Error("AddText() after Dispose = true, want false")
	}
	if _, err := s.ExportPNG(); !errors.Is(err, ErrDisposed) {
		t.Errorf("ExportPNG() after Dispose = %v, want ErrDisposed", err)
	}
	for info := range s.Inspect() {
		t.Errorf("Inspect() after Dispose yielded %+v", info)
	}
}

// TestDisposeDuringLoad checks that a late load result is ignored.
func TestDisposeDuringLoad(t *testing.T) {
	release := make(chan struct{})
	f := FetcherFunc(func(context.Context, string) (image.Image, error) {
		<-release
		return solidImage(4, 4, color.White), nil
	})
	var live, peak atomic.Int32
	s, err := New(context.Background(), "mem://late", WithFetcher(f), WithRegistry(countingRegistry(&live, &peak)))
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if err := s.Dispose(); err != nil {
		t.Fatalf("Dispose() error = %v", err)
	}
	close(release)

	select {
	case <-s.Done():
	case <-time.After(time.Second):
		t.Fatal("load never settled")
	}
	if err := s.Wait(context.Background()); !errors.Is(err, ErrDisposed) {
		t.Errorf("Wait() = %v, want ErrDisposed", err)
	}
	if s.State() != Uninitialized {
		t.Errorf("State() = %v, want uninitialized", s.State())
	}
	if live.Load() != 0 {
		t.Errorf("live surfaces = %d, want 0", live.Load())
	}
}

func TestNewUnknownBackend(t *testing.T) {
	_, err := New(context.Background(), "mem://x", WithBackend("vulkan-imaginary"))
	var nf *surface.BackendNotFoundError
	if !errors.As(err, &nf) {
		t.Errorf("New() = %v, want BackendNotFoundError", err)
	}
}

func TestStateString(t *testing.T) {
	tests := []struct {
		s    State
		want string
	}{
		{Uninitialized, "uninitialized"},
		{Loading, "loading"},
		{Ready, "ready"},
		{Error, "error"},
		{State(42), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.s.String(); got != tt.want {
			t.Errorf("State(%d).String() = %q, want %q", tt.s, got, tt.want)
		}
	}
}
