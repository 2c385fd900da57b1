// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package session implements the annotation session: a scene seeded with
// one background photo, the mutations that add text and shapes on top of
// it, and deterministic export of the composited canvas.
//
// # Lifecycle
//
// A Session moves through Uninitialized, Loading, Ready and Error:
//
//	s, err := session.New(ctx, url)
//	if err != nil {
//	    return err
//	}
//	defer s.Dispose()
//
//	if err := s.Wait(ctx); err != nil {
//	    return err // *ImageLoadError
//	}
//	s.AddText()
//	s.AddShape(scene.Circle)
//	png, err := s.ExportPNG()
//
// Mutations are accepted only in Ready; in any other state they do nothing
// and report ok=false. Export outside Ready returns ErrNotReady.
//
// A Session exclusively owns its rendering surface. Dispose closes it
// synchronously, so a caller that disposes before creating the next session
// never holds two surfaces at once.
package session
