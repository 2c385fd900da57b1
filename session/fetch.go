// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package session

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	// Decoders for the formats a photo provider may serve.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/webp"

	"github.com/gogpu/photomark/internal/logging"
)

// Limits applied to fetched images.
const (
	// MaxImageBytes bounds the encoded size of a fetched image.
	MaxImageBytes = 32 << 20

	// MaxImagePixels bounds the decoded size. Decoders allocate the full
	// pixel buffer from the header alone.
	MaxImagePixels = 50_000_000
)

// Fetcher retrieves and decodes a background image.
type Fetcher interface {
	Fetch(ctx context.Context, src string) (image.Image, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, src string) (image.Image, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context, src string) (image.Image, error) {
	return f(ctx, src)
}

// HTTPFetcher loads images from http(s) URLs. With AllowFiles set it also
// reads file:// URLs and local paths.
type HTTPFetcher struct {
	// Client is used for http(s) sources. Nil uses a client with a 30s
	// timeout.
	Client *http.Client

	// MaxBytes overrides MaxImageBytes when positive.
	MaxBytes int64

	// MaxPixels overrides MaxImagePixels when positive.
	MaxPixels int64

	// AllowFiles enables local paths and file:// URLs. Leave it unset when
	// src comes from a remote caller.
	AllowFiles bool
}

var defaultClient = &http.Client{Timeout: 30 * time.Second}

// Fetch reads src and decodes it as JPEG, PNG, GIF or WebP.
func (f *HTTPFetcher) Fetch(ctx context.Context, src string) (image.Image, error) {
	data, err := f.read(ctx, src)
	if err != nil {
		return nil, err
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	if int64(cfg.Width)*int64(cfg.Height) > f.pixelLimit() {
		return nil, fmt.Errorf("%w: %dx%d", ErrImageTooLarge, cfg.Width, cfg.Height)
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	logging.With("session").Debug("image decoded",
		"src", src, "format", format, "bytes", len(data),
		"width", img.Bounds().Dx(), "height", img.Bounds().Dy())
	return img, nil
}

func (f *HTTPFetcher) limit() int64 {
	if f.MaxBytes > 0 {
		return f.MaxBytes
	}
	return MaxImageBytes
}

func (f *HTTPFetcher) pixelLimit() int64 {
	if f.MaxPixels > 0 {
		return f.MaxPixels
	}
	return MaxImagePixels
}

func (f *HTTPFetcher) read(ctx context.Context, src string) ([]byte, error) {
	u, err := url.Parse(src)
	if err != nil || u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare path, including Windows drive letters.
		return f.readFile(src)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		return f.readHTTP(ctx, src)
	case "file":
		return f.readFile(u.Path)
	default:
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
}

func (f *HTTPFetcher) readHTTP(ctx context.Context, src string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "image/*")

	client := f.Client
	if client == nil {
		client = defaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("fetch: %s", resp.Status)
	}
	if resp.ContentLength > f.limit() {
		return nil, ErrImageTooLarge
	}
	return f.readAll(resp.Body)
}

func (f *HTTPFetcher) readFile(path string) ([]byte, error) {
	if !f.AllowFiles {
		return nil, ErrLocalSource
	}
	// #nosec G304 -- path is an image chosen by the local user
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	return f.readAll(file)
}

func (f *HTTPFetcher) readAll(r io.Reader) ([]byte, error) {
	limit := f.limit()
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > limit {
		return nil, ErrImageTooLarge
	}
	return data, nil
}
