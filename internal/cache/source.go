package cache

import (
	"context"
	"log/slog"

	"github.com/neexbeast/travelrec/internal/destination"
)

// documentCache is the subset of Cache used by CachedSource.
type documentCache interface {
	Get(ctx context.Context, source string) (*destination.Document, error)
	Set(ctx context.Context, source string, doc *destination.Document) error
	Delete(ctx context.Context, source string) error
}

// CachedSource is a read-through cache in front of another source.
// Cache errors are logged and never fail the fetch.
type CachedSource struct {
	inner destination.Source
	cache documentCache
	log   *slog.Logger
}

// NewCachedSource wraps inner with c.
func NewCachedSource(inner destination.Source, c documentCache, log *slog.Logger) *CachedSource {
	return &CachedSource{inner: inner, cache: c, log: log}
}

// Name returns the wrapped source's name.
func (s *CachedSource) Name() string { return s.inner.Name() }

// Fetch returns the cached document or fetches and caches it.
func (s *CachedSource) Fetch(ctx context.Context) (*destination.Document, error) {
	name := s.inner.Name()

	cached, err := s.cache.Get(ctx, name)
	if err != nil {
		s.log.Warn("dataset cache get failed", "source", name, "err", err)
	}
	if cached != nil {
		return cached, nil
	}

	doc, err := s.inner.Fetch(ctx)
	if err != nil {
		return nil, err
	}

	if err := s.cache.Set(ctx, name, doc); err != nil {
		s.log.Warn("dataset cache set failed", "source", name, "err", err)
	}
	return doc, nil
}

// Invalidate drops the cached document so the next Fetch goes to the source.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, s.inner.Name())
}
