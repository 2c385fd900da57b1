// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package photomark

import (
	"log/slog"

	"github.com/gogpu/photomark/internal/logging"
)

// SetLogger configures the logger for photomark and all its sub-packages.
// By default, photomark produces no log output.
//
// SetLogger is safe for concurrent use: it stores the new logger atomically.
// Pass nil to disable logging.
//
// Log levels used by photomark:
//   - [slog.LevelDebug]: diagnostics (stale search responses, surface lifecycle)
//   - [slog.LevelInfo]: lifecycle events (search completed, session ready)
//   - [slog.LevelWarn]: recoverable failures (search, image load, export)
//
// Example:
//
//	photomark.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
//	    Level: slog.LevelDebug,
//	})))
func SetLogger(l *slog.Logger) {
	logging.Set(l)
}

// Logger returns the current logger. It never returns nil.
func Logger() *slog.Logger {
	return logging.Logger()
}
