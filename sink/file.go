// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package sink

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// File writes payloads into a directory. An empty Dir means the working
// directory. Existing files are overwritten.
type File struct {
	Dir string
}

var _ Sink = File{}

// Save writes payload to Dir/name and returns the file path.
func (f File) Save(ctx context.Context, name string, payload []byte) (string, error) {
	if !validName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", fmt.Errorf("sink: create dir: %w", err)
	}
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, payload, 0o600); err != nil {
		return "", fmt.Errorf("sink: write %s: %w", p, err)
	}
	return p, nil
}
