// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: MIT

package surface

import (
	"errors"
	"slices"
	"strings"
	"sync"
)

// SoftwareBackend is the name of the built-in gg CPU backend.
const SoftwareBackend = "software"

// Factory allocates a surface for one annotation session.
type Factory func(opts Options) (Surface, error)

// Backend describes a registered surface implementation.
type Backend struct {
	Name string

	// Priority orders backends when none is named; higher wins. The
	// software backend uses 10.
	Priority int

	Factory Factory

	// Available reports whether the backend can run here.
	Available func() bool
}

// Registry maps backend names to factories. Sessions allocate their
// canvas through a Registry so tests can count or replace surfaces.
type Registry struct {
	mu       sync.RWMutex
	backends map[string]Backend
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{backends: make(map[string]Backend)}
}

var defaultRegistry = NewRegistry()

// Default returns the process-wide registry holding the software backend.
func Default() *Registry { return defaultRegistry }

// Register adds a backend to the default registry.
func Register(name string, priority int, factory Factory, available func() bool) {
	defaultRegistry.Register(name, priority, factory, available)
}

// List returns the default registry's backend names, best first.
func List() []string { return defaultRegistry.List() }

// Available returns the default registry's usable backend names, best first.
func Available() []string { return defaultRegistry.Available() }

// Register adds or replaces a backend. A nil available means always.
func (r *Registry) Register(name string, priority int, factory Factory, available func() bool) {
	if available == nil {
		available = func() bool { return true }
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.backends == nil {
		r.backends = make(map[string]Backend)
	}
	r.backends[name] = Backend{Name: name, Priority: priority, Factory: factory, Available: available}
}

// Get returns the backend registered under name.
func (r *Registry) Get(name string) (Backend, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	b, ok := r.backends[name]
	return b, ok
}

// List returns all backend names, best first.
func (r *Registry) List() []string { return r.names(false) }

// Available returns the names of usable backends, best first.
func (r *Registry) Available() []string { return r.names(true) }

// NewSurfaceByName allocates a surface from the named backend. An empty
// name tries every available backend in priority order and returns the
// first surface that could be created.
func (r *Registry) NewSurfaceByName(name string, opts Options) (Surface, error) {
	if name != "" {
		b, ok := r.Get(name)
		switch {
		case !ok:
			return nil, &BackendNotFoundError{Name: name}
		case !b.Available():
			return nil, &BackendUnavailableError{Name: name}
		}
		return b.Factory(opts)
	}

	candidates := r.Available()
	if len(candidates) == 0 {
		return nil, ErrNoBackendAvailable
	}
	var errs []error
	for _, n := range candidates {
		b, ok := r.Get(n)
		if !ok {
			continue
		}
		s, err := b.Factory(opts)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	return nil, errors.Join(errs...)
}

func (r *Registry) names(onlyAvailable bool) []string {
	r.mu.RLock()
	backends := make([]Backend, 0, len(r.backends))
	for _, b := range r.backends {
		backends = append(backends, b)
	}
	r.mu.RUnlock()

	slices.SortFunc(backends, func(a, b Backend) int {
		if a.Priority != b.Priority {
			return b.Priority - a.Priority
		}
		return strings.Compare(a.Name, b.Name)
	})
	var names []string
	for _, b := range backends {
		if !onlyAvailable || b.Available() {
			names = append(names, b.Name)
		}
	}
	return names
}

// ErrNoBackendAvailable is returned when no backend can allocate a surface.
var ErrNoBackendAvailable = errors.New("surface: no backend available")

// BackendNotFoundError reports an unregistered backend name.
type BackendNotFoundError struct {
	Name string
}

func (e *BackendNotFoundError) Error() string {
	return "surface: backend not found: " + e.Name
}

// BackendUnavailableError reports a registered backend that cannot run here.
type BackendUnavailableError struct {
	Name string
}

func (e *BackendUnavailableError) Error() string {
	return "surface: backend unavailable: " + e.Name
}

func init() {
	Register(SoftwareBackend, 10, func(opts Options) (Surface, error) {
		return NewRasterSurface(opts)
	}, nil)
}
