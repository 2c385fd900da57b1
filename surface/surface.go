// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"strings"

	"github.com/gogpu/photomark/scene"
)

// Surface is the rendering target of an annotation session.
//
// A Surface draws a scene.Scene into its own pixel buffer and serialises
// that buffer. It never owns the scene: the session passes the scene on
// every Render call, so the object graph stays inspectable without any
// backend.
//
// Surfaces are NOT thread-safe. Each surface is used by exactly one session,
// which serialises access.
//
// Example usage:
//
//	s, err := surface.Default().NewSurfaceByName("", surface.DefaultOptions(500, 500))
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	if err := s.Render(sc); err != nil {
//		return err
//	}
//	png, err := s.Export(surface.FormatPNG)
type Surface interface {
	// Width returns the surface width in pixels.
	Width() int

	// Height returns the surface height in pixels.
	Height() int

	// Render clears the surface to the scene background and draws every
	// object in draw order. Rendering an unchanged scene twice may be
	// skipped.
	Render(sc *scene.Scene) error

	// MeasureText returns the bounding box of one line of text as it
	// would be drawn by Render.
	MeasureText(content string, fontSize float64) scene.Size

	// Export encodes the current surface contents.
	Export(format Format) ([]byte, error)

	// Snapshot returns a copy of the current surface contents.
	Snapshot() *image.RGBA

	// Close releases all resources associated with the surface.
	// After Close, Render and Export return ErrClosed.
	// Close is idempotent; multiple calls are safe.
	Close() error
}

// Options configures surface creation.
type Options struct {
	// Width is the surface width in pixels.
	Width int

	// Height is the surface height in pixels.
	Height int

	// Background is the colour the surface is cleared to on creation.
	// Default: white
	Background color.Color

	// Fonts supplies glyphs for text objects.
	// Default: the embedded Go Regular font (DefaultFonts).
	Fonts *Fonts

	// JPEGQuality is used by Export(FormatJPEG), 1-100.
	// Default: 90
	JPEGQuality int
}

// DefaultOptions returns Options with default values.
func DefaultOptions(width, height int) Options {
	return Options{
		Width:       width,
		Height:      height,
		Background:  color.White,
		JPEGQuality: 90,
	}
}

// Format is a raster export encoding.
type Format uint8

const (
	// FormatPNG is lossless PNG. Encoding is deterministic.
	FormatPNG Format = iota

	// FormatJPEG is baseline JPEG at Options.JPEGQuality.
	FormatJPEG
)

// String returns the lowercase format name.
func (f Format) String() string {
	switch f {
	case FormatPNG:
		return "png"
	case FormatJPEG:
		return "jpeg"
	default:
		return fmt.Sprintf("Format(%d)", uint8(f))
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	switch f {
	case FormatJPEG:
		return "image/jpeg"
	default:
		return "image/png"
	}
}

// Extension returns the file extension including the dot.
func (f Format) Extension() string {
	switch f {
	case FormatJPEG:
		return ".jpg"
	default:
		return ".png"
	}
}

// ParseFormat parses "png", "jpeg" or "jpg".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimPrefix(s, ".")) {
	case "png":
		return FormatPNG, nil
	case "jpeg", "jpg":
		return FormatJPEG, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// Errors.
var (
	// ErrClosed is returned by operations on a closed surface.
	ErrClosed = errors.New("surface: closed")

	// ErrUnsupportedFormat is returned for unknown export formats.
	ErrUnsupportedFormat = errors.New("surface: unsupported format")

	// ErrInvalidSize is returned when a surface is requested with a
	// non-positive dimension.
	ErrInvalidSize = errors.New("surface: invalid size")
)
