package loader

import (
	"context"
	"fmt"
	gopath "path"
	"sync"

	"github.com/Faultbox/geoscope/pkg/encoding"
	"github.com/Faultbox/geoscope/pkg/gocad"
)

// DecodeFunc turns fetched file text into raw meshes. The production
// decoder is gocad.Decode; tests substitute their own.
type DecodeFunc func(text string, format gocad.Format) ([]*gocad.Mesh, error)

// Repository memoizes decoded meshes by canonicalized file path for its
// own lifetime. Entries are never evicted except by an explicit Clear;
// decode failures are not cached, so a transient fetch error can heal
// on the next trigger.
type Repository struct {
	fetcher Fetcher
	decode  DecodeFunc

	mu     sync.Mutex
	meshes map[string][]*gocad.Mesh

	hits   int
	misses int
}

// NewRepository creates an empty repository over the given fetcher and
// decoder.
func NewRepository(fetcher Fetcher, decode DecodeFunc) *Repository {
	return &Repository{
		fetcher: fetcher,
		decode:  decode,
		meshes:  make(map[string][]*gocad.Mesh),
	}
}

// cacheKey canonicalizes a survey file path for lookup.
func cacheKey(p string) string {
	return gopath.Clean(encoding.NormalizePath(p))
}

// Meshes returns the decoded meshes for a file path, fetching and
// decoding on first use. Repeated calls for the same path return the
// identical cached mesh set without a second fetch.
func (r *Repository) Meshes(ctx context.Context, path string, format gocad.Format) ([]*gocad.Mesh, error) {
	key := cacheKey(path)

	r.mu.Lock()
	if cached, ok := r.meshes[key]; ok {
		r.hits++
		r.mu.Unlock()
		return cached, nil
	}
	r.misses++
	r.mu.Unlock()

	text, err := r.fetcher.Fetch(ctx, path)
	if err != nil {
		return nil, err
	}

	meshes, err := r.decode(text, format)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	r.mu.Lock()
	r.meshes[key] = meshes
	r.mu.Unlock()
	return meshes, nil
}

// Stats returns cache hit and miss counts.
func (r *Repository) Stats() (hits, misses int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.hits, r.misses
}

// Clear drops every cached mesh set.
func (r *Repository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.meshes = make(map[string][]*gocad.Mesh)
	r.hits = 0
	r.misses = 0
}
