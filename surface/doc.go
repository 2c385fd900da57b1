// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package surface provides the rendering surface of an annotation session.
//
// A Surface rasterises a scene.Scene and serialises the result. It decouples
// the session from any particular renderer, so the same session code works
// with:
//
//   - the built-in software backend (RasterSurface, gg CPU rasterizer)
//   - test doubles that record calls
//   - third-party backends via the registry
//
// # Registry
//
// Backends register a factory under a name and a priority:
//
//	surface.Register("recording", 50, func(opts surface.Options) (surface.Surface, error) {
//	    return newRecordingSurface(opts), nil
//	}, nil)
//
//	// Later:
//	s, err := surface.Default().NewSurfaceByName("recording", surface.DefaultOptions(500, 500))
//
// # Text
//
// Text objects are drawn with a Fonts value. DefaultFonts embeds Go Regular;
// LoadFonts reads a TrueType/OpenType file. UseHarfBuzz switches gg's shaper
// to go-text/typesetting for complex scripts.
//
// # Colours
//
// Scene colours are CSS keywords or hex strings, resolved by ResolveColor.
package surface
