// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package photomark searches a photo catalog and annotates the chosen
// photo with text and shapes, exporting the result as an image.
//
// # Overview
//
// photomark has two stages joined by one selected image URL:
//
//   - Catalog search ([search.Searcher]): a debounced query against a photo
//     provider such as Pexels, producing a ranked result list.
//   - Annotation session ([session.Session]): a 500×500 scene seeded with
//     the selected photo, to which text and shapes are added before export.
//
// [Editor] ties them together and enforces the single-document model: at
// most one session, and therefore one rendering surface, is alive at a time.
//
// # Quick Start
//
//	provider, err := search.NewPexels(apiKey)
//	if err != nil {
//	    return err
//	}
//	ed := photomark.NewEditor(provider)
//	defer ed.Close()
//
//	results, err := ed.Searcher().Search(ctx, "lighthouse")
//	if err != nil || len(results) == 0 {
//	    return err
//	}
//	s, err := ed.SelectResult(ctx, results[0])
//	if err != nil {
//	    return err
//	}
//	if err := s.Wait(ctx); err != nil {
//	    return err
//	}
//	s.AddText()
//	s.AddShape(scene.Circle)
//	loc, err := ed.Save(ctx, surface.FormatPNG)
//
// # Rendering
//
// Scenes are drawn by [surface.Surface] backends selected from a registry.
// The built-in "software" backend rasterizes on the CPU with gogpu/gg, so
// exports of an unchanged scene are byte-identical.
//
// # Logging
//
// photomark is silent by default. Call [SetLogger] to route the logs of all
// sub-packages to a slog.Logger.
package photomark

// Version is the current version of the module.
const Version = "0.1.0"
