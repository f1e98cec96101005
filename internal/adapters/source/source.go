// Package source reads inventory documents from local files or, through a
// remote fetcher, from http(s) URLs.
package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"hotel_availability/internal/domain"
)

type File struct{}

func (File) Fetch(ctx context.Context, path string) ([]map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		}
		return nil, err
	}
	var out []map[string]any
	if err := json.Unmarshal(b, &out); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return out, nil
}

// Router picks the remote fetcher for http(s) locations and File otherwise.
type Router struct {
	file   domain.DocumentFetcher
	remote domain.DocumentFetcher
}

// NewRouter accepts a nil remote; URLs are then rejected.
func NewRouter(remote domain.DocumentFetcher) *Router {
	return &Router{file: File{}, remote: remote}
}

func (r *Router) Fetch(ctx context.Context, location string) ([]map[string]any, error) {
	if IsURL(location) {
		if r.remote == nil {
			return nil, fmt.Errorf("no remote fetcher configured for %s", location)
		}
		return r.remote.Fetch(ctx, location)
	}
	return r.file.Fetch(ctx, location)
}

func IsURL(location string) bool {
	l := strings.ToLower(location)
	return strings.HasPrefix(l, "http://") || strings.HasPrefix(l, "https://")
}

// Exists reports whether a local document is readable. URLs are assumed to
// exist until fetched.
func Exists(location string) bool {
	if IsURL(location) {
		return true
	}
	st, err := os.Stat(location)
	return err == nil && !st.IsDir()
}
