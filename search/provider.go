package search

import "context"

// MaxPerPage is the largest page size requested from a provider.
const MaxPerPage = 40

// Result describes one photo returned by a provider.
type Result struct {
	ID               int64  `json:"id"`
	PhotographerName string `json:"photographer"`
	ThumbnailURL     string `json:"thumbnailUrl"`
	FullSizeURL      string `json:"fullSizeUrl"`
}

// Provider is a remote photo catalog.
type Provider interface {
	// Search returns up to perPage results ranked by relevance.
	Search(ctx context.Context, query string, perPage int) ([]Result, error)
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(ctx context.Context, query string, perPage int) ([]Result, error)

// Search calls f.
func (f ProviderFunc) Search(ctx context.Context, query string, perPage int) ([]Result, error) {
	return f(ctx, query, perPage)
}
