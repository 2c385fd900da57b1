// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package photomark

import (
	"github.com/gogpu/photomark/notify"
	"github.com/gogpu/photomark/search"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/sink"
)

// EditorOption configures an Editor during creation.
//
// Example:
//
//	rec := notify.NewRecorder(20)
//	ed := photomark.NewEditor(provider,
//	    photomark.WithNotifier(rec),
//	    photomark.WithSink(sink.File{Dir: "out"}),
//	)
type EditorOption func(*editorOptions)

type editorOptions struct {
	notifier notify.Notifier
	sink     sink.Sink
	search   []search.Option
	session  []session.Option
}

func defaultEditorOptions() editorOptions {
	return editorOptions{
		notifier: notify.Discard,
		sink:     sink.File{},
	}
}

// WithNotifier sets where user-facing notifications from both search and
// sessions are sent.
func WithNotifier(n notify.Notifier) EditorOption {
	return func(o *editorOptions) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithSink sets where Save delivers exports. The default writes to the
// working directory.
func WithSink(s sink.Sink) EditorOption {
	return func(o *editorOptions) {
		if s != nil {
			o.sink = s
		}
	}
}

// WithSearchOptions passes options to the Editor's Searcher.
func WithSearchOptions(opts ...search.Option) EditorOption {
	return func(o *editorOptions) {
		o.search = append(o.search, opts...)
	}
}

// WithSessionOptions passes options to every Session the Editor creates.
func WithSessionOptions(opts ...session.Option) EditorOption {
	return func(o *editorOptions) {
		o.session = append(o.session, opts...)
	}
}
