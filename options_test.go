// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package photomark

import (
	"testing"
	"time"

	"github.com/gogpu/photomark/notify"
	"github.com/gogpu/photomark/search"
	"github.com/gogpu/photomark/session"
	"github.com/gogpu/photomark/sink"
)

func TestDefaultEditorOptions(t *testing.T) {
	o := defaultEditorOptions()
	if o.notifier == nil {
		t.Error("default notifier is nil")
	}
	if _, ok := o.sink.(sink.File); !ok {
		t.Errorf("default sink = %T, want sink.File", o.sink)
	}
}

func TestEditorOptions(t *testing.T) {
	rec := notify.NewRecorder(1)
	dst := sink.File{Dir: "out"}
	o := defaultEditorOptions()
	for _, opt := range []EditorOption{
		WithNotifier(rec),
		WithSink(dst),
		WithSearchOptions(search.WithDebounce(time.Second)),
		WithSearchOptions(search.WithPerPage(5)),
		WithSessionOptions(session.WithBackend("software")),
	} {
		opt(&o)
	}
	if o.notifier != rec {
		t.Error("WithNotifier() not applied")
	}
	if o.sink != dst {
		t.Errorf("sink = %v, want %v", o.sink, dst)
	}
	if len(o.search) != 2 {
		t.Errorf("search options = %d, want 2", len(o.search))
	}
	if len(o.session) != 1 {
		t.Errorf("session options = %d, want 1", len(o.session))
	}
}

func TestEditorOptionsIgnoreNil(t *testing.T) {
	o := defaultEditorOptions()
	before := o.sink
	WithNotifier(nil)(&o)
	WithSink(nil)(&o)
	if o.notifier == nil || o.sink != before {
		t.Error("nil options replaced defaults")
	}
}
