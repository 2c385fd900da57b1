package search

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyAPIKey is returned when a provider client is built without
	// credentials.
	ErrEmptyAPIKey = errors.New("search: empty API key")

	// ErrStale is returned by Search when a newer search was issued while
	// this one was in flight. Its results were discarded.
	ErrStale = errors.New("search: superseded by a newer query")
)

// SearchError is a provider or network failure. It is reported to the
// user and leaves the query untouched.
type SearchError struct {
	Query string
	Err   error
}

func (e *SearchError) Error() string {
	return fmt.Sprintf("search %q: %v", e.Query, e.Err)
}

func (e *SearchError) Unwrap() error { return e.Err }

// StatusError is a non-2xx provider response.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return "search: provider responded " + e.Status
}
