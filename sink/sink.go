// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

// Package sink delivers exported images: to a local directory or to an S3
// bucket.
package sink

import (
	"context"
	"errors"
	"path"
	"strings"
)

// DefaultFilename is the name an exported PNG is saved under.
const DefaultFilename = "edited-image.png"

// ErrInvalidName is returned for names that are empty or contain a path.
var ErrInvalidName = errors.New("sink: invalid name")

// Sink stores an encoded image and returns where it ended up.
type Sink interface {
	Save(ctx context.Context, name string, payload []byte) (location string, err error)
}

// Func adapts a function to the Sink interface.
type Func func(ctx context.Context, name string, payload []byte) (string, error)

// Save calls f.
func (f Func) Save(ctx context.Context, name string, payload []byte) (string, error) {
	return f(ctx, name, payload)
}

// validName reports whether name is a plain file name.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return path.Base(name) == name && !strings.ContainsRune(name, '\\')
}
