package search

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gogpu/photomark/internal/logging"
	"github.com/gogpu/photomark/notify"
)

// Status is the request state of a Searcher.
type Status uint8

const (
	// Idle means no search is in flight.
	Idle Status = iota

	// Loading means the latest issued search has not resolved yet.
	Loading
)

// String returns "idle" or "loading".
func (s Status) String() string {
	if s == Loading {
		return "loading"
	}
	return "idle"
}

// MarshalText implements encoding.TextMarshaler.
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Status) UnmarshalText(text []byte) error {
	switch string(text) {
	case "idle":
		*s = Idle
	case "loading":
		*s = Loading
	default:
		return fmt.Errorf("search: unknown status %q", text)
	}
	return nil
}

// Notification messages.
const (
	MsgSearchSucceeded = "Image loaded successfully."
	MsgSearchFailed    = "Failed to fetch images. Please try again."
)

// Option configures a Searcher.
type Option func(*options)

type options struct {
	debounce time.Duration
	perPage  int
	notifier notify.Notifier
	ctx      context.Context
	onUpdate func(Snapshot)
}

func defaultOptions() options {
	return options{
		debounce: DefaultDebounce,
		perPage:  MaxPerPage,
		notifier: notify.Discard,
		ctx:      context.Background(),
	}
}

// WithDebounce sets the quiescence window used by SetQuery.
func WithDebounce(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.debounce = d
		}
	}
}

// WithPerPage sets the number of results requested, clamped to 1..MaxPerPage.
func WithPerPage(n int) Option {
	return func(o *options) {
		o.perPage = max(1, min(n, MaxPerPage))
	}
}

// WithNotifier sets where success and failure notifications go.
func WithNotifier(n notify.Notifier) Option {
	return func(o *options) {
		if n != nil {
			o.notifier = n
		}
	}
}

// WithContext sets the context used for searches started by the debounce
// timer. Cancelling it aborts those requests.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}

// WithUpdateHook registers fn to be called with a snapshot after every
// completed search, including empty-query resets.
func WithUpdateHook(fn func(Snapshot)) Option {
	return func(o *options) {
		o.onUpdate = fn
	}
}

// Snapshot is a consistent copy of a Searcher's observable state.
type Snapshot struct {
	Query   string   `json:"query"`
	Status  Status   `json:"status"`
	Results []Result `json:"results"`
}

// Searcher is the catalog search component. It debounces query edits,
// issues provider requests and keeps the latest result list.
//
// Overlapping requests are sequenced with generation numbers: only the
// response to the most recently issued search updates the results.
type Searcher struct {
	provider Provider
	debounce *Debouncer
	opts     options

	mu         sync.Mutex
	query      string
	results    []Result
	generation uint64
	inflight   uint64 // generation of the latest issued request, 0 if resolved
}

// NewSearcher returns a Searcher over provider.
func NewSearcher(provider Provider, opts ...Option) *Searcher {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Searcher{
		provider: provider,
		debounce: NewDebouncer(o.debounce),
		opts:     o,
	}
}

// SetQuery records text as the pending query and (re)starts the debounce
// window. The search runs once the query has been unchanged for the window.
func (s *Searcher) SetQuery(text string) {
	s.mu.Lock()
	s.query = text
	s.mu.Unlock()

	s.debounce.Trigger(func() {
		_, _ = s.Search(s.opts.ctx, text)
	})
}

// Search runs query immediately. An empty or whitespace query clears the
// results without contacting the provider.
//
// On provider failure the results are cleared, a failure notification is
// sent and a *SearchError is returned. If a newer search was issued before
// this one resolved, its response is dropped and ErrStale is returned.
// If ctx is cancelled the results are kept, nothing is reported and
// ctx.Err() is returned.
func (s *Searcher) Search(ctx context.Context, query string) ([]Result, error) {
	log := logging.With("search")
	q := NormalizeQuery(query)

	s.mu.Lock()
	s.generation++
	gen := s.generation
	if q == "" {
		s.results = nil
		s.inflight = 0
		snap := s.snapshotLocked()
		s.mu.Unlock()
		s.emit(snap)
		return nil, nil
	}
	s.inflight = gen
	s.mu.Unlock()

	log.Debug("search issued", "query", q, "generation", gen)
	results, err := s.provider.Search(ctx, q, s.opts.perPage)

	s.mu.Lock()
	if gen != s.generation {
		s.mu.Unlock()
		log.Debug("stale search response dropped", "query", q, "generation", gen)
		return nil, ErrStale
	}
	s.inflight = 0
	if err != nil && errors.Is(ctx.Err(), context.Canceled) {
		s.mu.Unlock()
		log.Debug("search cancelled", "query", q, "generation", gen)
		return nil, ctx.Err()
	}
	if err != nil {
		s.results = nil
	} else {
		s.results = results
	}
	snap := s.snapshotLocked()
	s.mu.Unlock()

	if err != nil {
		serr := &SearchError{Query: q, Err: err}
		log.Warn("search failed", "query", q, "error", err)
		notify.Failure(s.opts.notifier, MsgSearchFailed, serr)
		s.emit(snap)
		return nil, serr
	}
	log.Info("search completed", "query", q, "results", len(results))
	notify.Successf(s.opts.notifier, MsgSearchSucceeded)
	s.emit(snap)
	return append([]Result(nil), results...), nil
}

// Select returns the full-size URL of r, the seed of an annotation session.
func (s *Searcher) Select(r Result) string {
	return r.FullSizeURL
}

// Lookup returns the current result with the given ID.
func (s *Searcher) Lookup(id int64) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.results {
		if r.ID == id {
			return r, true
		}
	}
	return Result{}, false
}

// Query returns the latest text passed to SetQuery.
func (s *Searcher) Query() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.query
}

// Status reports whether the latest issued search is still in flight.
func (s *Searcher) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.statusLocked()
}

// Results returns a copy of the current results.
func (s *Searcher) Results() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Result(nil), s.results...)
}

// Snapshot returns the query, status and results together.
func (s *Searcher) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// Pending reports whether a debounced search is waiting to fire.
func (s *Searcher) Pending() bool {
	return s.debounce.Pending()
}

// Close cancels any pending debounced search. Requests already issued run
// to completion.
func (s *Searcher) Close() {
	s.debounce.Stop()
}

func (s *Searcher) statusLocked() Status {
	if s.inflight != 0 {
		return Loading
	}
	return Idle
}

func (s *Searcher) snapshotLocked() Snapshot {
	return Snapshot{
		Query:   s.query,
		Status:  s.statusLocked(),
		Results: append([]Result(nil), s.results...),
	}
}

func (s *Searcher) emit(snap Snapshot) {
	if s.opts.onUpdate != nil {
		s.opts.onUpdate(snap)
	}
}
