// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"errors"
	"fmt"

	"github.com/gogpu/photomark/surface"
)

var (
	// ErrNotReady is returned by operations that need a loaded background.
	ErrNotReady = errors.New("session: not ready")

	// ErrDisposed is returned after Dispose.
	ErrDisposed = errors.New("session: disposed")

	// ErrImageTooLarge is returned when an image exceeds MaxImageBytes or
	// MaxImagePixels.
	ErrImageTooLarge = errors.New("session: image too large")

	// ErrLocalSource is returned for a local path or file:// URL when the
	// fetcher does not allow files.
	ErrLocalSource = errors.New("session: local files not allowed")
)

// ImageLoadError reports a failure to fetch or decode the background image.
// The session moves to the Error state.
type ImageLoadError struct {
	URL string
	Err error
}

func (e *ImageLoadError) Error() string {
	return fmt.Sprintf("session: load image %s: %v", e.URL, e.Err)
}

func (e *ImageLoadError) Unwrap() error { return e.Err }

// ExportError reports a failure to render or encode the canvas. The scene
// is left untouched and the session stays Ready.
type ExportError struct {
	Format surface.Format
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("session: export %s: %v", e.Format, e.Err)
}

func (e *ExportError) Unwrap() error { return e.Err }
