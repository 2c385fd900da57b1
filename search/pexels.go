package search

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/gogpu/photomark/internal/logging"
)

// DefaultPexelsURL is the Pexels API v1 base URL.
const DefaultPexelsURL = "https://api.pexels.com/v1"

// maxResponseBytes bounds the size of a search response body.
const maxResponseBytes = 8 << 20

// PexelsOption configures a Pexels client.
type PexelsOption func(*Pexels)

// WithBaseURL overrides the API base URL.
func WithBaseURL(base string) PexelsOption {
	return func(p *Pexels) {
		p.baseURL = strings.TrimRight(base, "/")
	}
}

// WithHTTPClient sets the HTTP client used for requests.
func WithHTTPClient(c *http.Client) PexelsOption {
	return func(p *Pexels) {
		p.client = c
	}
}

// WithTimeout sets the per-request timeout of the default HTTP client.
func WithTimeout(d time.Duration) PexelsOption {
	return func(p *Pexels) {
		p.client = &http.Client{Timeout: d}
	}
}

// Pexels is a Provider backed by the Pexels photo search API.
type Pexels struct {
	apiKey  string
	baseURL string
	client  *http.Client
}

var _ Provider = (*Pexels)(nil)

// NewPexels returns a client authenticated with apiKey.
func NewPexels(apiKey string, opts ...PexelsOption) (*Pexels, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, ErrEmptyAPIKey
	}
	p := &Pexels{
		apiKey:  apiKey,
		baseURL: DefaultPexelsURL,
		client:  &http.Client{Timeout: 15 * time.Second},
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// pexelsResponse is the subset of the search response we use.
type pexelsResponse struct {
	Photos []struct {
		ID           int64  `json:"id"`
		Photographer string `json:"photographer"`
		Src          struct {
			Medium string `json:"medium"`
			Large  string `json:"large"`
		} `json:"src"`
	} `json:"photos"`
}

// Search issues GET /search?query=...&per_page=... . perPage is clamped to
// 1..MaxPerPage.
func (p *Pexels) Search(ctx context.Context, query string, perPage int) ([]Result, error) {
	perPage = max(1, min(perPage, MaxPerPage))

	params := url.Values{}
	params.Set("query", query)
	params.Set("per_page", strconv.Itoa(perPage))
	endpoint := p.baseURL + "/search?" + params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("search: build request: %w", err)
	}
	req.Header.Set("Authorization", p.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := p.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search: request: %w", err)
	}
	defer resp.Body.Close()

	logging.With("search").Debug("pexels response",
		"status", resp.StatusCode, "query", query, "elapsed", time.Since(start))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var body pexelsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxResponseBytes)).Decode(&body); err != nil {
		return nil, fmt.Errorf("search: decode response: %w", err)
	}

	results := make([]Result, 0, len(body.Photos))
	for _, ph := range body.Photos {
		results = append(results, Result{
			ID:               ph.ID,
			PhotographerName: ph.Photographer,
			ThumbnailURL:     ph.Src.Medium,
			FullSizeURL:      ph.Src.Large,
		})
	}
	return results, nil
}
