// Package notify delivers user-facing notifications: the success and
// failure messages shown after a search, an image load or an export.
//
// Notifications are fire-and-forget. A Notifier must not block the caller
// for long, and nothing waits for acknowledgement.
package notify

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Level is the severity of a notification.
type Level uint8

const (
	// Success reports a completed operation.
	Success Level = iota

	// Error reports a failed, recoverable operation.
	Error
)

// String returns "success" or "error".
func (l Level) String() string {
	if l == Error {
		return "error"
	}
	return "success"
}

// MarshalText implements encoding.TextMarshaler.
func (l Level) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

// Notification is a single user-facing message.
type Notification struct {
	Level   Level     `json:"level"`
	Message string    `json:"message"`
	Time    time.Time `json:"time"`
	Err     error     `json:"-"`
}

// Notifier receives notifications.
type Notifier interface {
	Notify(n Notification)
}

// Func adapts a function to the Notifier interface.
type Func func(Notification)

// Notify calls f(n).
func (f Func) Notify(n Notification) { f(n) }

// Discard drops every notification.
var Discard Notifier = Func(func(Notification) {})

// Successf sends a success notification.
func Successf(to Notifier, msg string) {
	to.Notify(Notification{Level: Success, Message: msg, Time: time.Now()})
}

// Failure sends an error notification carrying err.
func Failure(to Notifier, msg string, err error) {
	to.Notify(Notification{Level: Error, Message: msg, Time: time.Now(), Err: err})
}

// Log writes notifications to a slog logger: successes at Info, errors at
// Warn.
type Log struct {
	Logger *slog.Logger
}

// Notify logs n.
func (l Log) Notify(n Notification) {
	level := slog.LevelInfo
	attrs := []slog.Attr{slog.String("message", n.Message)}
	if n.Level == Error {
		level = slog.LevelWarn
		if n.Err != nil {
			attrs = append(attrs, slog.String("error", n.Err.Error()))
		}
	}
	l.Logger.LogAttrs(context.Background(), level, "notification", attrs...)
}

// Multi fans a notification out to several notifiers in order.
type Multi []Notifier

// Notify forwards n to every notifier.
func (m Multi) Notify(n Notification) {
	for _, to := range m {
		to.Notify(n)
	}
}

// Recorder keeps the most recent notifications in memory.
// It is safe for concurrent use.
type Recorder struct {
	mu    sync.Mutex
	limit int
	items []Notification
}

// NewRecorder returns a Recorder that keeps at most limit notifications.
// A non-positive limit keeps 50.
func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 50
	}
	return &Recorder{limit: limit}
}

// Notify records n, evicting the oldest entry when full.
func (r *Recorder) Notify(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == r.limit {
		copy(r.items, r.items[1:])
		r.items = r.items[:len(r.items)-1]
	}
	r.items = append(r.items, n)
}

// Recent returns a copy of the recorded notifications, oldest first.
func (r *Recorder) Recent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}

// Last returns the most recent notification.
func (r *Recorder) Last() (Notification, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.items) == 0 {
		return Notification{}, false
	}
	return r.items[len(r.items)-1], true
}
