// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/gogpu/gg"

	"github.com/gogpu/photomark/internal/logging"
	"github.com/gogpu/photomark/scene"
)

// RasterSurface is the software backend: a gg.Context drawing into a CPU
// pixmap.
//
// Export output depends only on the scene, so repeated exports of an
// unchanged scene are byte-identical.
type RasterSurface struct {
	dc          *gg.Context
	width       int
	height      int
	fonts       *Fonts
	jpegQuality int

	// images caches converted background pixels by object.
	images map[scene.ID]*gg.ImageBuf

	// last rendered scene and its version, for skipping redundant renders.
	lastScene   *scene.Scene
	lastVersion uint64

	closed bool
}

var _ Surface = (*RasterSurface)(nil)

// NewRasterSurface creates a software surface cleared to opts.Background.
func NewRasterSurface(opts Options) (*RasterSurface, error) {
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, opts.Width, opts.Height)
	}
	fonts := opts.Fonts
	if fonts == nil {
		var err error
		if fonts, err = DefaultFonts(); err != nil {
			return nil, err
		}
	}
	quality := opts.JPEGQuality
	if quality <= 0 || quality > 100 {
		quality = 90
	}
	bg := opts.Background
	if bg == nil {
		bg = color.White
	}

	s := &RasterSurface{
		dc:          gg.NewContext(opts.Width, opts.Height),
		width:       opts.Width,
		height:      opts.Height,
		fonts:       fonts,
		jpegQuality: quality,
		images:      make(map[scene.ID]*gg.ImageBuf),
	}
	s.dc.ClearWithColor(gg.FromColor(bg))
	logging.With("surface").Debug("raster surface created", "width", opts.Width, "height", opts.Height)
	return s, nil
}

// Width returns the surface width in pixels.
func (s *RasterSurface) Width() int { return s.width }

// Height returns the surface height in pixels.
func (s *RasterSurface) Height() int { return s.height }

// MeasureText measures with the surface's fonts.
func (s *RasterSurface) MeasureText(content string, fontSize float64) scene.Size {
	return s.fonts.MeasureText(content, fontSize)
}

// Render draws sc. A scene whose version has not changed since the last
// Render is not redrawn.
func (s *RasterSurface) Render(sc *scene.Scene) error {
	if s.closed {
		return ErrClosed
	}
	if sc == s.lastScene && sc.Version() == s.lastVersion {
		return nil
	}

	bg, err := ResolveColor(sc.Background())
	if err != nil {
		return err
	}
	s.dc.ClearWithColor(gg.FromColor(bg))

	live := make(map[scene.ID]struct{}, sc.Len())
	for obj := range sc.Objects() {
		live[obj.ID()] = struct{}{}
		if err := s.draw(obj); err != nil {
			return fmt.Errorf("surface: render %s %s: %w", obj.Kind(), obj.ID(), err)
		}
	}
	for id := range s.images {
		if _, ok := live[id]; !ok {
			delete(s.images, id)
		}
	}

	s.lastScene = sc
	s.lastVersion = sc.Version()
	return nil
}

func (s *RasterSurface) draw(obj scene.Object) error {
	switch o := obj.(type) {
	case *scene.BackgroundImage:
		return s.drawImage(o)
	case *scene.Shape:
		return s.drawShape(o)
	case *scene.Text:
		return s.drawText(o)
	default:
		return fmt.Errorf("unsupported object %T", obj)
	}
}

func (s *RasterSurface) drawImage(o *scene.BackgroundImage) error {
	if o.Pixels == nil {
		return fmt.Errorf("background image has no pixels")
	}
	buf, ok := s.images[o.ID()]
	if !ok {
		buf = gg.ImageBufFromImage(o.Pixels)
		s.images[o.ID()] = buf
	}
	pos, size := o.Position(), o.Size()
	s.dc.DrawImageEx(buf, gg.DrawImageOptions{
		X:             pos.Left,
		Y:             pos.Top,
		DstWidth:      size.Width,
		DstHeight:     size.Height,
		Interpolation: gg.InterpBilinear,
		Opacity:       1.0,
		BlendMode:     gg.BlendNormal,
	})
	return nil
}

func (s *RasterSurface) drawShape(o *scene.Shape) error {
	fill, err := ResolveColor(o.Fill)
	if err != nil {
		return err
	}
	pos := o.Position()
	s.dc.SetColor(fill)
	switch o.Shape {
	case scene.Circle:
		r := o.Geometry.Radius
		s.dc.DrawCircle(pos.Left+r, pos.Top+r, r)
	case scene.Rectangle:
		s.dc.DrawRectangle(pos.Left, pos.Top, o.Geometry.Width, o.Geometry.Height)
	case scene.Triangle, scene.Polygon:
		pts := o.Outline()
		if len(pts) < 3 {
			return fmt.Errorf("%s needs at least 3 points, got %d", o.Shape, len(pts))
		}
		s.dc.MoveTo(pts[0].X, pts[0].Y)
		for _, p := range pts[1:] {
			s.dc.LineTo(p.X, p.Y)
		}
		s.dc.ClosePath()
	default:
		return fmt.Errorf("unknown shape %q", o.Shape)
	}
	return s.dc.Fill()
}

func (s *RasterSurface) drawText(o *scene.Text) error {
	fill, err := ResolveColor(o.Fill)
	if err != nil {
		return err
	}
	pos, size := o.Position(), o.Size()

	if o.Background != "" {
		bg, err := ResolveColor(o.Background)
		if err != nil {
			return err
		}
		s.dc.SetColor(bg)
		s.dc.DrawRectangle(pos.Left, pos.Top, size.Width, size.Height)
		if err := s.dc.Fill(); err != nil {
			return err
		}
	}

	face := s.fonts.Face(o.FontSize)
	m := face.Metrics()
	baseline := pos.Top + (size.Height-(m.Ascent+m.Descent))/2 + m.Ascent
	s.dc.SetFont(face)
	s.dc.SetColor(fill)
	s.dc.DrawString(o.Content, pos.Left, baseline)
	return nil
}

// Export encodes the surface pixels.
func (s *RasterSurface) Export(format Format) ([]byte, error) {
	if s.closed {
		return nil, ErrClosed
	}
	var buf bytes.Buffer
	var err error
	switch format {
	case FormatPNG:
		err = s.dc.EncodePNG(&buf)
	case FormatJPEG:
		err = s.dc.EncodeJPEG(&buf, s.jpegQuality)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("surface: encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// Snapshot returns a copy of the surface pixels, or nil after Close.
func (s *RasterSurface) Snapshot() *image.RGBA {
	if s.closed {
		return nil
	}
	src := s.dc.Image()
	b := src.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	return dst
}

// Close releases the drawing context and cached image buffers.
func (s *RasterSurface) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	clear(s.images)
	s.lastScene = nil
	err := s.dc.Close()
	logging.With("surface").Debug("raster surface closed")
	return err
}
