// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package surface

import (
	"bytes"
	"fmt"
	"os"
	"sync"

	"github.com/go-text/typesetting/font"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/gogpu/photomark/scene"
)

// Fonts is a font source plus a cache of faces by size.
// A Fonts value is shared by every surface created with it; closing a
// surface does not close its fonts.
type Fonts struct {
	source *text.FontSource

	mu    sync.Mutex
	faces map[float64]text.Face
}

var (
	defaultFontsOnce sync.Once
	defaultFonts     *Fonts
	defaultFontsErr  error
)

// DefaultFonts returns the embedded Go Regular font. It is parsed once.
func DefaultFonts() (*Fonts, error) {
	defaultFontsOnce.Do(func() {
		defaultFonts, defaultFontsErr = NewFonts(goregular.TTF)
	})
	return defaultFonts, defaultFontsErr
}

// NewFonts parses TrueType or OpenType font data.
func NewFonts(data []byte) (*Fonts, error) {
	src, err := text.NewFontSource(data)
	if err != nil {
		return nil, fmt.Errorf("surface: parse font: %w", err)
	}
	return &Fonts{source: src, faces: make(map[float64]text.Face)}, nil
}

// LoadFonts reads a font file. The file is validated with the HarfBuzz
// parser first so that fonts unusable by the gotext shaper are rejected up
// front rather than at first render.
func LoadFonts(path string) (*Fonts, error) {
	// #nosec G304 -- font path comes from operator configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("surface: read font: %w", err)
	}
	if _, err := font.ParseTTF(bytes.NewReader(data)); err != nil {
		return nil, fmt.Errorf("surface: font %s: %w", path, err)
	}
	return NewFonts(data)
}

// UseHarfBuzz switches gg's global text shaper between the built-in shaper
// and the go-text/typesetting HarfBuzz port. It affects every surface.
func UseHarfBuzz(enable bool) {
	if enable {
		text.SetShaper(text.NewGoTextShaper())
		return
	}
	text.SetShaper(nil)
}

// Name returns the font family name.
func (f *Fonts) Name() string {
	return f.source.Name()
}

// Face returns a face at the given size, creating it on first use.
func (f *Fonts) Face(size float64) text.Face {
	f.mu.Lock()
	defer f.mu.Unlock()
	face, ok := f.faces[size]
	if !ok {
		face = f.source.Face(size)
		f.faces[size] = face
	}
	return face
}

// MeasureText returns the advance width and line height of content.
func (f *Fonts) MeasureText(content string, fontSize float64) scene.Size {
	w, h := text.Measure(content, f.Face(fontSize))
	return scene.Size{Width: w, Height: h}
}

// Close releases the font source. Faces obtained earlier must not be used
// afterwards.
func (f *Fonts) Close() error {
	f.mu.Lock()
	clear(f.faces)
	f.mu.Unlock()
	return f.source.Close()
}
